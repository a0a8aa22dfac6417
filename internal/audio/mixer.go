package audio

import (
	"errors"
	"fmt"
)

// Mixer is the sink between channels and the device. Each frame it is
// cleared to the number of samples the device is short of the latency
// target, channels are mixed into it, and the result is queued.
type Mixer struct {
	dev     Device
	spec    Spec
	buf     []Level
	out     []byte
	master  float64
	playing bool
}

// NewMixer wraps an opened device. The device must start paused.
func NewMixer(dev Device, master float64) (*Mixer, error) {
	if dev == nil {
		return nil, errors.New("audio: nil device")
	}
	spec := dev.Spec()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceOpen, err)
	}
	m := &Mixer{dev: dev, spec: spec}
	m.SetMasterVolume(master)
	return m, nil
}

// Spec returns the negotiated device format.
func (m *Mixer) Spec() Spec {
	return m.spec
}

// Device returns the underlying device.
func (m *Mixer) Device() Device {
	return m.dev
}

// MasterVolume returns the volume applied at submission.
func (m *Mixer) MasterVolume() float64 {
	return m.master
}

// SetMasterVolume sets the master volume, clamped to [0, 1].
func (m *Mixer) SetMasterVolume(v float64) {
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	m.master = v
}

// Playing reports whether the device has been unpaused.
func (m *Mixer) Playing() bool {
	return m.playing
}

// Samples returns the size of the buffer prepared by the last Clear.
func (m *Mixer) Samples() int {
	return len(m.buf)
}

// Buffer returns the mix buffer.
func (m *Mixer) Buffer() []Level {
	return m.buf
}

// Clear sizes the mix buffer to the shortfall against a latency target of
// ms milliseconds (one chunk when ms is 0) and fills it with Silence. The
// queue only counts while playing. When the queue already meets the target
// the buffer is empty; otherwise the shortfall is rounded up to whole
// chunks. It returns the buffer size in interleaved samples.
func (m *Mixer) Clear(ms int) int {
	queued := 0
	if m.playing {
		queued = m.dev.QueuedFrames() * m.spec.Channels
	}

	chunk := m.spec.ChunkSamples()
	target := chunk
	if ms > 0 {
		target = m.spec.SamplesFor(ms)
	}

	n := 0
	if queued < target {
		n = (target - queued + chunk - 1) / chunk * chunk
	}

	if cap(m.buf) < n {
		m.buf = make([]Level, n)
	} else {
		m.buf = m.buf[:n]
		for i := range m.buf {
			m.buf[i] = Silence
		}
	}
	return n
}

// MixChannel mixes a channel's sounds into the buffer at the channel volume.
// It does nothing when the buffer is empty, so sound cursors do not advance
// on frames where the device needs no data.
func (m *Mixer) MixChannel(ch *Channel) {
	if len(m.buf) == 0 || ch == nil {
		return
	}
	ch.Clear(len(m.buf))
	ch.Mix()
	vol := ch.Volume()
	for i, l := range ch.Buffer() {
		if l == Silence {
			continue
		}
		m.buf[i] = MixDB(m.buf[i], Attenuate(l, vol))
	}
}

// Play converts the buffer to the device format at the master volume and
// queues it one chunk at a time. Until the first chunk with audible content
// is queued the device stays paused and silent chunks are dropped; that
// chunk unpauses it.
func (m *Mixer) Play() error {
	if len(m.buf) == 0 {
		return nil
	}
	m.out = encode(m.out, m.buf, m.spec.Format, m.master)

	step := m.spec.ChunkSamples() * m.spec.BytesPerSample()
	for off := 0; off < len(m.out); off += step {
		chunk := m.out[off:min(off+step, len(m.out))]
		if !m.playing && allZero(chunk) {
			continue
		}
		if err := m.dev.Queue(chunk); err != nil {
			return fmt.Errorf("%w: %w", ErrDeviceIO, err)
		}
		if !m.playing {
			m.dev.Pause(false)
			m.playing = true
		}
	}
	return nil
}

// Close pauses and closes the device.
func (m *Mixer) Close() error {
	m.dev.Pause(true)
	m.playing = false
	return m.dev.Close()
}
