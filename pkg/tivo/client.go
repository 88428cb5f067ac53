package tivo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DataCallback is invoked with the device snapshot after every successfully
// parsed reply. Callbacks run synchronously inside the reply-wait, in
// registration order, and always observe a fully updated snapshot.
type DataCallback func(*Device)

// Client represents a control connection to a TiVo set-top box.
//
// A Client is built disconnected and can be connected and disconnected any
// number of times; the Device snapshot survives across connections. Callers
// must serialize whole command+reply sequences themselves — the client only
// guarantees that a single reply-wait is in flight at a time.
type Client struct {
	host           string
	port           int
	connectTimeout time.Duration
	commandTimeout time.Duration
	logger         *slog.Logger
	sessionID      string

	conn      net.Conn
	readMu    sync.Mutex
	device    *Device
	callbacks []DataCallback
}

// NewClient creates a client for the box at the given host. The client is
// not connected yet; call Connect before issuing commands.
// Options can be provided to configure the client behavior.
func NewClient(host string, opts ...ClientOption) (*Client, error) {
	if host == "" {
		return nil, errors.New("host must not be empty")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	c := &Client{
		host:           host,
		port:           cfg.port,
		connectTimeout: cfg.connectTimeout,
		commandTimeout: cfg.commandTimeout,
		sessionID:      uuid.NewString(),
		device:         newDevice(host, cfg.port),
	}
	if cfg.logger != nil {
		c.logger = cfg.logger.With("session", c.sessionID, "host", host)
	}

	return c, nil
}

// Device returns the state snapshot owned by this client. The returned
// pointer is stable for the client's lifetime.
func (c *Client) Device() *Device {
	return c.device
}

// IsConnected reports whether a control connection is currently open.
func (c *Client) IsConnected() bool {
	return c.conn != nil
}

// Connect opens the TCP connection to the box.
// The context is used for the connection timeout; if it carries no
// deadline, the client's connect timeout is applied.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.connectTimeout)
		defer cancel()
	}

	addr := net.JoinHostPort(c.host, strconv.Itoa(c.port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		if isTimeout(err) {
			return ErrCommandTimeout
		}
		return &ProtocolError{Cause: errorCause(err)}
	}

	c.conn = conn
	if l := c.log(ctx); l != nil {
		l.Debug("connected", "addr", addr)
	}
	return nil
}

// Disconnect closes the connection. Calling it while not connected is a
// no-op.
func (c *Client) Disconnect() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	if l := c.log(context.Background()); l != nil {
		l.Debug("disconnected")
	}
	return err
}

// SendIRCode sends an infrared remote code to the box, e.g. "standby" or
// "channelup". By default the command's reply is awaited; pass
// WithoutReply to skip the reply-wait.
func (c *Client) SendIRCode(ctx context.Context, code string, opts ...SendOption) error {
	cfg := sendConfig{waitForReply: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	err := c.send(ctx, cmdIRCode, code, cfg.waitForReply)
	return remapReply(err, map[string]error{
		"invalid_key": &InvalidKeyError{KeyCode: code},
	})
}

// SendKeyboard sends a keyboard code to the box. By default the command's
// reply is awaited; pass WithoutReply to skip the reply-wait.
func (c *Client) SendKeyboard(ctx context.Context, code string, opts ...SendOption) error {
	cfg := sendConfig{waitForReply: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	err := c.send(ctx, cmdKeyboard, code, cfg.waitForReply)
	return remapReply(err, map[string]error{
		"invalid_key": &InvalidKeyError{KeyCode: code},
	})
}

// SendTeleport jumps the box to a named screen, e.g. "LIVETV" or "GUIDE".
// The command's reply is always awaited.
func (c *Client) SendTeleport(ctx context.Context, code string) error {
	err := c.send(ctx, cmdTeleport, code, true)
	return remapReply(err, map[string]error{
		"invalid_command": &InvalidCommandError{Command: code},
	})
}

// SetChannel tunes the box to the given channel number. The command's
// reply is always awaited; the device snapshot reflects the new channel
// once the box confirms with a channel status.
func (c *Client) SetChannel(ctx context.Context, channelNumber int) error {
	err := c.send(ctx, cmdSetCh, strconv.Itoa(channelNumber), true)
	return remapReply(err, map[string]error{
		"no_live":         ErrNotLive,
		"invalid_channel": &InvalidChannelError{ChannelNumber: channelNumber},
	})
}

// send writes one command line and optionally performs a reply-wait. The
// write is bounded by the context deadline, or the command timeout if the
// context carries none.
func (c *Client) send(ctx context.Context, verb, arg string, waitForReply bool) error {
	if c.conn == nil {
		return ErrNotConnected
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.commandTimeout)
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return &ProtocolError{Cause: errorCause(err)}
	}

	if _, err := c.conn.Write(formatCommand(verb, arg)); err != nil {
		if isTimeout(err) {
			return ErrCommandTimeout
		}
		return &ProtocolError{Cause: errorCause(err)}
	}

	if l := c.log(ctx); l != nil {
		l.Debug("command sent", "verb", verb, "arg", arg)
	}

	if waitForReply {
		return c.WaitForData(ctx)
	}
	return nil
}

// WaitForData performs one bounded read of the connection and folds the
// reply into the device snapshot. It is both the acknowledgement drain for
// commands and a standalone status probe: the box pushes a channel status
// whenever the channel changes, including changes made with the physical
// remote.
//
// A timeout or a closed connection marks the channel unknown before the
// error is returned. At most one WaitForData runs at a time per client;
// concurrent callers serialize.
func (c *Client) WaitForData(ctx context.Context) error {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.commandTimeout)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return &ProtocolError{Cause: errorCause(err)}
	}

	buf := make([]byte, replyBufferSize)
	n, err := c.conn.Read(buf)
	if err != nil {
		switch {
		case isTimeout(err):
			c.device.setChannelNumber(nil)
			return ErrCommandTimeout
		case errors.Is(err, io.EOF):
			c.device.setChannelNumber(nil)
			return ErrConnectionReset
		default:
			return &ProtocolError{Cause: errorCause(err)}
		}
	}
	if n == 0 {
		c.device.setChannelNumber(nil)
		return ErrConnectionReset
	}

	if l := c.log(ctx); l != nil {
		l.Debug("reply received", "raw", string(buf[:n]))
	}

	parsed, err := parseReply(buf[:n])
	if err != nil {
		return err
	}
	if parsed.channelNumber != nil {
		c.device.setChannelNumber(parsed.channelNumber)
	}

	for _, fn := range c.callbacks {
		fn(c.device)
	}
	return nil
}

// AddDataCallback registers a callback to run after every successfully
// parsed reply.
func (c *Client) AddDataCallback(fn DataCallback) {
	c.callbacks = append(c.callbacks, fn)
}

// RemoveDataCallback unregisters a previously added callback. Removing a
// callback that was never added is a no-op.
func (c *Client) RemoveDataCallback(fn DataCallback) {
	target := reflect.ValueOf(fn).Pointer()
	for i, cb := range c.callbacks {
		if reflect.ValueOf(cb).Pointer() == target {
			c.callbacks = append(c.callbacks[:i], c.callbacks[i+1:]...)
			return
		}
	}
}

// log returns the client's logger enriched with the caller's correlation
// id, or nil when logging is disabled.
func (c *Client) log(ctx context.Context) *slog.Logger {
	if c.logger == nil {
		return nil
	}
	if id, ok := correlationID(ctx); ok {
		return c.logger.With("correlation", id)
	}
	return c.logger
}

type correlationKey struct{}

// WithCorrelationID returns a context carrying a caller-supplied
// correlation id. The client attaches the id to every log line emitted
// while handling that context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok && id != ""
}

// isTimeout reports whether err is a deadline expiry, either from the
// context or from the socket.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
