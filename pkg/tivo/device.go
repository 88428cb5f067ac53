package tivo

// Device holds the last known state of a set-top box. A single Device is
// owned by a Client for its whole lifetime and is mutated in place as
// replies are parsed; callers read it through the accessors and must treat
// it as read-only.
type Device struct {
	host string
	port int

	channelNumber     *int
	prevChannelNumber *int
}

func newDevice(host string, port int) *Device {
	return &Device{host: host, port: port}
}

// Host returns the hostname or IP the device is reached on.
func (d *Device) Host() string {
	return d.host
}

// Port returns the TCP port used for the control connection.
func (d *Device) Port() int {
	return d.port
}

// ChannelNumber returns the current channel number. The boolean is false
// when the channel is unknown (never reported, device off, or state was
// reset after a timeout or connection loss).
func (d *Device) ChannelNumber() (int, bool) {
	if d.channelNumber == nil {
		return 0, false
	}
	return *d.channelNumber, true
}

// PreviousChannelNumber returns the channel that was current immediately
// before the most recent change. The boolean is false when no previous
// channel has been recorded.
func (d *Device) PreviousChannelNumber() (int, bool) {
	if d.prevChannelNumber == nil {
		return 0, false
	}
	return *d.prevChannelNumber, true
}

// setChannelNumber records a new current channel, or marks it unknown when
// value is nil. The previous channel only moves when the value actually
// changes.
func (d *Device) setChannelNumber(value *int) {
	if channelEqual(value, d.channelNumber) {
		return
	}
	d.prevChannelNumber = d.channelNumber
	d.channelNumber = value
}

func channelEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
