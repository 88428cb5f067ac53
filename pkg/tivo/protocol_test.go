package tivo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCommand_UpperCasesAndTerminates(t *testing.T) {
	assert.Equal(t, []byte("IRCODE STANDBY\r"), formatCommand(cmdIRCode, "standby"))
	assert.Equal(t, []byte("KEYBOARD A\r"), formatCommand(cmdKeyboard, "a"))
	assert.Equal(t, []byte("TELEPORT LIVETV\r"), formatCommand(cmdTeleport, "LiveTV"))
	assert.Equal(t, []byte("SETCH 105\r"), formatCommand(cmdSetCh, "105"))
}

func TestParseReply_ChannelStatus(t *testing.T) {
	r, err := parseReply([]byte("CH_STATUS 0105 LOCAL\r\n"))
	require.NoError(t, err)
	require.NotNil(t, r.channelNumber)
	assert.Equal(t, 105, *r.channelNumber)
}

func TestParseReply_ChannelStatusDigitsAnywhere(t *testing.T) {
	r, err := parseReply([]byte("CH_STATUS GARBAGE 0042 REMOTE"))
	require.NoError(t, err)
	require.NotNil(t, r.channelNumber)
	assert.Equal(t, 42, *r.channelNumber)
}

func TestParseReply_ChannelStatusLongerRun(t *testing.T) {
	// A longer digit run still yields the first four digits, matching the
	// box's fixed 4-digit channel field.
	r, err := parseReply([]byte("CH_STATUS 12345"))
	require.NoError(t, err)
	require.NotNil(t, r.channelNumber)
	assert.Equal(t, 1234, *r.channelNumber)
}

func TestParseReply_ChannelStatusNoDigits(t *testing.T) {
	r, err := parseReply([]byte("CH_STATUS"))
	require.NoError(t, err)
	assert.Nil(t, r.channelNumber)
}

func TestParseReply_ChannelFailed(t *testing.T) {
	_, err := parseReply([]byte("CH_FAILED NO_LIVE\r\n"))
	require.Error(t, err)

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "NO_LIVE", perr.Cause)
}

func TestParseReply_InvalidKeyLiteral(t *testing.T) {
	_, err := parseReply([]byte("INVALID_KEY\r\n"))
	require.Error(t, err)

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "INVALID_KEY", perr.Cause)
}

func TestParseReply_InvalidCommandLiteral(t *testing.T) {
	_, err := parseReply([]byte("INVALID_COMMAND"))
	require.Error(t, err)

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "INVALID_COMMAND", perr.Cause)
}

func TestParseReply_LiteralsMustMatchExactly(t *testing.T) {
	// Only the bare literal is an error; anything longer is unrecognised.
	r, err := parseReply([]byte("INVALID_KEY EXTRA"))
	assert.NoError(t, err)
	assert.Nil(t, r.channelNumber)
}

func TestParseReply_UnknownLineIgnored(t *testing.T) {
	r, err := parseReply([]byte("LIVETV_READY\r\n"))
	assert.NoError(t, err)
	assert.Nil(t, r.channelNumber)
}
