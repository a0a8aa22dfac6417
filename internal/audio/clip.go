package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is the beep interpolation quality used when the source
// rate differs from the device rate.
const resampleQuality = 4

// maxClipDuration bounds decoding so an endless streamer cannot exhaust memory.
var maxClipDuration = 10 * time.Minute

// Clip is a decoded sound already converted to the device spec. Its samples
// are never modified after construction and may be shared by any number of
// sounds.
type Clip struct {
	name    string
	spec    Spec
	samples []Level
}

// Name returns the asset name or path the clip was loaded from.
func (c *Clip) Name() string {
	return c.name
}

// Spec returns the format the clip was converted to.
func (c *Clip) Spec() Spec {
	return c.spec
}

// Len returns the number of interleaved samples.
func (c *Clip) Len() int {
	return len(c.samples)
}

// At returns sample i.
func (c *Clip) At(i int) Level {
	return c.samples[i]
}

// Duration returns the playback length.
func (c *Clip) Duration() time.Duration {
	return c.spec.Duration(len(c.samples))
}

// LoadClip reads a WAV file and converts it to spec.
func LoadClip(path string, spec Spec) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ClipError{Path: path, Kind: ErrClipOpen, Err: err}
	}
	defer f.Close()

	clip, err := DecodeClip(f, spec)
	if err != nil {
		var ce *ClipError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, err
	}
	clip.name = path
	return clip, nil
}

// DecodeClip decodes a WAV stream and converts it to spec.
func DecodeClip(r io.Reader, spec Spec) (*Clip, error) {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return nil, &ClipError{Kind: ErrUnsupportedFormat, Err: err}
	}
	defer streamer.Close()

	return ClipFromStreamer(streamer, format.SampleRate, spec)
}

// ClipFromStreamer drains a finite beep streamer, resampling from rate to
// spec.SampleRate and converting stereo frames to spec.Channels.
func ClipFromStreamer(s beep.Streamer, rate beep.SampleRate, spec Spec) (*Clip, error) {
	if err := spec.Validate(); err != nil {
		return nil, &ClipError{Kind: ErrDecode, Err: err}
	}
	if rate <= 0 {
		return nil, &ClipError{Kind: ErrUnsupportedFormat, Err: fmt.Errorf("sample rate %d", rate)}
	}

	target := beep.SampleRate(spec.SampleRate)
	if rate != target {
		s = beep.Resample(resampleQuality, rate, target, s)
	}

	maxFrames := target.N(maxClipDuration)
	samples := make([]Level, 0, spec.ChunkSamples())
	buf := make([][2]float64, 512)
	frames := 0
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			samples = appendFrame(samples, frame, spec.Channels)
		}
		frames += n
		if !ok {
			break
		}
		if frames > maxFrames {
			return nil, &ClipError{Kind: ErrDecode, Err: fmt.Errorf("clip longer than %v", maxClipDuration)}
		}
	}
	if err := s.Err(); err != nil {
		return nil, &ClipError{Kind: ErrDecode, Err: err}
	}

	return &Clip{spec: spec, samples: samples}, nil
}

// NewClip wraps already converted samples. The slice is copied.
func NewClip(name string, spec Spec, samples []Level) *Clip {
	return &Clip{name: name, spec: spec, samples: append([]Level(nil), samples...)}
}

func appendFrame(dst []Level, frame [2]float64, channels int) []Level {
	if channels == 1 {
		return append(dst, ToDB((frame[0]+frame[1])/2))
	}
	for ch := 0; ch < channels; ch++ {
		dst = append(dst, ToDB(frame[ch%2]))
	}
	return dst
}
