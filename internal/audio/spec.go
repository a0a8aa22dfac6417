package audio

import (
	"fmt"
	"time"
)

// SampleFormat is the wire format the device consumes.
type SampleFormat int

const (
	// FormatS16 is signed 16-bit little endian.
	FormatS16 SampleFormat = iota
	// FormatF32 is 32-bit float little endian.
	FormatF32
)

// String returns the format name used in configuration files.
func (f SampleFormat) String() string {
	switch f {
	case FormatS16:
		return "s16"
	case FormatF32:
		return "f32"
	default:
		return "unknown"
	}
}

// ParseSampleFormat parses a format name.
func ParseSampleFormat(s string) (SampleFormat, error) {
	switch s {
	case "s16", "":
		return FormatS16, nil
	case "f32":
		return FormatF32, nil
	}
	return FormatS16, fmt.Errorf("audio: unknown sample format %q", s)
}

// Spec describes a device format as negotiated at open time.
type Spec struct {
	SampleRate int          // Frames per second
	Channels   int          // Interleaved channels per frame
	Samples    int          // Frames per device chunk
	Format     SampleFormat // Wire format
}

// Validate rejects specs the mixer cannot size buffers for.
func (s Spec) Validate() error {
	if s.SampleRate <= 0 || s.Channels <= 0 || s.Samples <= 0 {
		return fmt.Errorf("audio: invalid spec %d Hz, %d channels, %d-frame chunks", s.SampleRate, s.Channels, s.Samples)
	}
	return nil
}

// ChunkSamples is the device buffer granularity in interleaved samples.
func (s Spec) ChunkSamples() int {
	return s.Samples * s.Channels
}

// BytesPerSample returns the size of one sample on the wire.
func (s Spec) BytesPerSample() int {
	if s.Format == FormatF32 {
		return 4
	}
	return 2
}

// FrameBytes returns the size of one interleaved frame on the wire.
func (s Spec) FrameBytes() int {
	return s.BytesPerSample() * s.Channels
}

// SamplesFor converts a duration in milliseconds to interleaved samples,
// truncating.
func (s Spec) SamplesFor(ms int) int {
	return int(int64(ms) * int64(s.SampleRate) * int64(s.Channels) / 1000)
}

// Duration returns how long n interleaved samples last.
func (s Spec) Duration(n int) time.Duration {
	if s.SampleRate <= 0 || s.Channels <= 0 {
		return 0
	}
	frames := int64(n / s.Channels)
	return time.Duration(frames) * time.Second / time.Duration(s.SampleRate)
}
