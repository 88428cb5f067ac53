package tivo

import (
	"regexp"
	"strconv"
	"strings"
)

// Constants for the TiVo TCP remote protocol. Commands are single
// upper-case lines terminated with a carriage return; replies are short
// whitespace-trimmed lines.
const (
	// DefaultPort is the TCP port the set-top box listens on.
	DefaultPort = 31339

	// Command verbs
	cmdIRCode   = "IRCODE"
	cmdKeyboard = "KEYBOARD"
	cmdTeleport = "TELEPORT"
	cmdSetCh    = "SETCH"

	// Reply prefixes and literals
	replyChannelStatus  = "CH_STATUS"
	replyChannelFailed  = "CH_FAILED"
	replyInvalidKey     = "INVALID_KEY"
	replyInvalidCommand = "INVALID_COMMAND"

	// replyBufferSize is the size of the single read performed per
	// reply-wait. Replies are far smaller than this; the box never
	// streams.
	replyBufferSize = 1024
)

// channelPattern matches the 4-digit channel number embedded in a
// CH_STATUS line.
var channelPattern = regexp.MustCompile(`\d{4}`)

// reply is the result of classifying one raw line from the device.
type reply struct {
	// channelNumber is non-nil when the line carried a channel status.
	channelNumber *int
}

// parseReply classifies a raw reply. It returns an error for the device's
// error literals (always a *ProtocolError; command methods remap those to
// typed errors) and silently ignores anything it does not recognise.
func parseReply(raw []byte) (reply, error) {
	line := strings.TrimSpace(string(raw))

	switch {
	case strings.HasPrefix(line, replyChannelStatus):
		if m := channelPattern.FindString(line); m != "" {
			n, err := strconv.Atoi(m)
			if err == nil {
				return reply{channelNumber: &n}, nil
			}
		}
		return reply{}, nil

	case strings.HasPrefix(line, replyChannelFailed):
		// The failure reason is the last token, e.g. "CH_FAILED NO_LIVE".
		fields := strings.Fields(line)
		return reply{}, &ProtocolError{Cause: fields[len(fields)-1]}

	case line == replyInvalidKey, line == replyInvalidCommand:
		return reply{}, &ProtocolError{Cause: line}
	}

	// Unrecognised lines are not an error; the box emits status we do
	// not track.
	return reply{}, nil
}

// formatCommand builds the exact bytes for one outbound command line.
func formatCommand(verb string, arg string) []byte {
	return []byte(strings.ToUpper(verb+" "+arg) + "\r")
}
