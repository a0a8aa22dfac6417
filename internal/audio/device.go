package audio

import (
	"errors"
	"sync"
)

// Device is a playback queue. Queue appends interleaved bytes in the
// device format; QueuedFrames reports how many frames are still waiting
// to be played. A device opens paused.
type Device interface {
	Spec() Spec
	QueuedFrames() int
	Queue(p []byte) error
	Pause(paused bool)
	Close() error
}

// ErrDeviceClosed is returned by Queue after Close.
var ErrDeviceClosed = errors.New("audio: device closed")

// NullDevice discards everything it is given. It reports an empty queue,
// so a mixer driving it produces exactly one latency window per frame.
type NullDevice struct {
	spec Spec

	mu        sync.Mutex
	paused    bool
	closed    bool
	submitted int
	calls     int
}

// NewNullDevice creates a paused device with the given spec.
func NewNullDevice(spec Spec) *NullDevice {
	return &NullDevice{spec: spec, paused: true}
}

// Spec returns the device format.
func (d *NullDevice) Spec() Spec { return d.spec }

// QueuedFrames always returns 0.
func (d *NullDevice) QueuedFrames() int { return 0 }

// Queue counts and discards p.
func (d *NullDevice) Queue(p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}
	d.submitted += len(p)
	d.calls++
	return nil
}

// Pause records the pause state.
func (d *NullDevice) Pause(paused bool) {
	d.mu.Lock()
	d.paused = paused
	d.mu.Unlock()
}

// Paused reports whether the device is paused.
func (d *NullDevice) Paused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

// Submitted returns the total bytes and number of Queue calls accepted.
func (d *NullDevice) Submitted() (bytes, calls int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitted, d.calls
}

// Close marks the device closed.
func (d *NullDevice) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}
