package tivo

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// ErrDevice is the base error for this package. Every error returned by a
// Client wraps it, so callers can match broadly with
// errors.Is(err, tivo.ErrDevice) or narrowly with the specific sentinels
// and types below.
var ErrDevice = errors.New("tivo device error")

var (
	// ErrCommandTimeout is returned when a connect or reply-wait exceeds
	// its timeout.
	ErrCommandTimeout = fmt.Errorf("%w: command timeout", ErrDevice)

	// ErrConnectionReset is returned when the box closes the connection
	// while a reply is awaited.
	ErrConnectionReset = fmt.Errorf("%w: connection reset", ErrDevice)

	// ErrNotLive is returned when a channel change is refused because the
	// box is not in live TV mode.
	ErrNotLive = fmt.Errorf("%w: not in live TV mode", ErrDevice)

	// ErrNotConnected is returned when a command is issued before Connect
	// or after Disconnect.
	ErrNotConnected = fmt.Errorf("%w: not connected", ErrDevice)
)

// ProtocolError is the generic transport or protocol-level failure. Cause
// is human-readable; for device error literals it is the literal itself
// (e.g. "INVALID_KEY") before the command layer remaps it.
type ProtocolError struct {
	Cause string
}

func (e *ProtocolError) Error() string { return e.Cause }
func (e *ProtocolError) Unwrap() error { return ErrDevice }

// InvalidKeyError is returned when the box rejects an ircode or keyboard
// code.
type InvalidKeyError struct {
	KeyCode string
}

func (e *InvalidKeyError) Error() string { return fmt.Sprintf("invalid key (%s)", e.KeyCode) }
func (e *InvalidKeyError) Unwrap() error { return ErrDevice }

// InvalidCommandError is returned when the box rejects a teleport command.
type InvalidCommandError struct {
	Command string
}

func (e *InvalidCommandError) Error() string { return fmt.Sprintf("invalid command (%s)", e.Command) }
func (e *InvalidCommandError) Unwrap() error { return ErrDevice }

// InvalidChannelError is returned when the box rejects a channel number.
type InvalidChannelError struct {
	ChannelNumber int
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("invalid channel (%d)", e.ChannelNumber)
}
func (e *InvalidChannelError) Unwrap() error { return ErrDevice }

// remapReply translates the generic protocol error produced by a
// reply-wait into the typed error for the command that triggered it. The
// table is keyed by the lowercased device literal; errors with no entry
// pass through unchanged.
func remapReply(err error, table map[string]error) error {
	if err == nil {
		return nil
	}
	var perr *ProtocolError
	if !errors.As(err, &perr) {
		return err
	}
	if mapped, ok := table[strings.ToLower(perr.Cause)]; ok {
		return mapped
	}
	return err
}

// errorCause derives a human-readable cause for an OS or network-level
// failure. Errors that carry no message of their own fall back to a fixed
// string per failure kind.
func errorCause(err error) string {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "Connection refused"
	case errors.Is(err, syscall.ECONNRESET):
		return "Connection reset"
	case errors.Is(err, syscall.EPIPE):
		return "Broken pipe"
	case errors.Is(err, syscall.ECONNABORTED):
		return "Connection aborted"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "OS I/O error"
}
