package demo

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/firedays/internal/audio"
)

// padNotes is a pentatonic run, one per pad button (Hz).
var padNotes = [padCount]float64{261.63, 293.66, 329.63, 392.00, 440.00, 523.25, 587.33, 659.25}

const (
	noteLength  = 250 * time.Millisecond
	droneLength = 2 * time.Second
)

// decay fades a streamer out linearly over n frames.
type decay struct {
	s   beep.Streamer
	pos int
	n   int
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.s.Stream(samples)
	for i := range samples[:n] {
		g := 1 - float64(d.pos)/float64(d.n)
		if g < 0 {
			g = 0
		}
		samples[i][0] *= g
		samples[i][1] *= g
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.s.Err() }

// gain scales a streamer by a linear volume.
func gain(s beep.Streamer, vol float64) beep.Streamer {
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func sine(rate beep.SampleRate, freq float64) (beep.Streamer, error) {
	return generators.SineTone(rate, freq)
}

// note synthesizes a plucked note: the fundamental plus a quiet octave,
// fading out over length.
func note(rate beep.SampleRate, freq float64, length time.Duration) (beep.Streamer, error) {
	n := rate.N(length)
	fund, err := sine(rate, freq)
	if err != nil {
		return nil, err
	}
	octave, err := sine(rate, freq*2)
	if err != nil {
		return nil, err
	}
	mix := beep.Mix(gain(fund, 0.35), gain(octave, 0.1))
	return &decay{s: beep.Take(n, mix), n: n}, nil
}

func noteClip(spec audio.Spec, freq float64) (*audio.Clip, error) {
	rate := beep.SampleRate(spec.SampleRate)
	s, err := note(rate, freq, noteLength)
	if err != nil {
		return nil, err
	}
	return audio.ClipFromStreamer(s, rate, spec)
}

// chimeClip is two short rising notes played when the drone is toggled.
func chimeClip(spec audio.Spec) (*audio.Clip, error) {
	rate := beep.SampleRate(spec.SampleRate)
	first, err := note(rate, 523.25, noteLength/2)
	if err != nil {
		return nil, err
	}
	second, err := note(rate, 783.99, noteLength/2)
	if err != nil {
		return nil, err
	}
	return audio.ClipFromStreamer(beep.Seq(first, second), rate, spec)
}

// droneClip synthesizes a loopable fifth. Both frequencies complete whole
// cycles in droneLength, so the loop point is seamless.
func droneClip(spec audio.Spec) (*audio.Clip, error) {
	rate := beep.SampleRate(spec.SampleRate)
	low, err := sine(rate, 110)
	if err != nil {
		return nil, err
	}
	high, err := sine(rate, 165)
	if err != nil {
		return nil, err
	}
	drone := beep.Take(rate.N(droneLength), beep.Mix(gain(low, 0.2), gain(high, 0.12)))
	return audio.ClipFromStreamer(drone, rate, spec)
}
