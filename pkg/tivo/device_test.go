package tivo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(n int) *int { return &n }

func TestDevice_InitialStateUnknown(t *testing.T) {
	d := newDevice("192.168.1.50", DefaultPort)

	assert.Equal(t, "192.168.1.50", d.Host())
	assert.Equal(t, DefaultPort, d.Port())

	_, ok := d.ChannelNumber()
	assert.False(t, ok)
	_, ok = d.PreviousChannelNumber()
	assert.False(t, ok)
}

func TestDevice_ChannelChangeUpdatesPrevious(t *testing.T) {
	d := newDevice("host", DefaultPort)

	d.setChannelNumber(intp(105))
	ch, ok := d.ChannelNumber()
	assert.True(t, ok)
	assert.Equal(t, 105, ch)

	// First change: the previous value was unknown.
	_, ok = d.PreviousChannelNumber()
	assert.False(t, ok)

	d.setChannelNumber(intp(203))
	ch, _ = d.ChannelNumber()
	assert.Equal(t, 203, ch)
	prev, ok := d.PreviousChannelNumber()
	assert.True(t, ok)
	assert.Equal(t, 105, prev)
}

func TestDevice_SameChannelDoesNotTouchPrevious(t *testing.T) {
	d := newDevice("host", DefaultPort)

	d.setChannelNumber(intp(105))
	d.setChannelNumber(intp(203))
	d.setChannelNumber(intp(203))

	prev, ok := d.PreviousChannelNumber()
	assert.True(t, ok)
	assert.Equal(t, 105, prev, "previous must not move on a repeated status")
}

func TestDevice_ResetToUnknownKeepsPrevious(t *testing.T) {
	d := newDevice("host", DefaultPort)

	d.setChannelNumber(intp(105))
	d.setChannelNumber(nil)

	_, ok := d.ChannelNumber()
	assert.False(t, ok)
	prev, ok := d.PreviousChannelNumber()
	assert.True(t, ok)
	assert.Equal(t, 105, prev)

	// Resetting twice is not a change.
	d.setChannelNumber(nil)
	prev, ok = d.PreviousChannelNumber()
	assert.True(t, ok)
	assert.Equal(t, 105, prev)
}
