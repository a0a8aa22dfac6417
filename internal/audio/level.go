// Package audio implements the retained-mode mixer: decoded clips, sound
// cursors grouped into channels, and a device sink that tops up the
// hardware queue only by the amount it is short of the latency target.
//
// Samples are kept in the decibel domain (see Level). Mixing converts both
// operands to linear amplitude, sums, and converts back; volumes are
// applied as dB gain.
package audio

import "math"

// FloorDB is the quietest representable intensity, in dBFS. Anything at
// or below it collapses to Silence.
const FloorDB = -96.0

// Level is one sample in the decibel domain. The sign carries polarity and
// the magnitude is the intensity in dB above FloorDB, so full scale is
// ±96 and Silence is 0.
type Level float64

// Silence is the sentinel every freshly cleared buffer is filled with.
const Silence Level = 0

// ToDB converts a linear amplitude in [-1, 1] to a Level. Amplitudes
// beyond full scale are clipped.
func ToDB(amplitude float64) Level {
	mag := math.Abs(amplitude)
	if mag == 0 || math.IsNaN(mag) {
		return Silence
	}
	if mag > 1 {
		mag = 1
	}
	db := 20*math.Log10(mag) - FloorDB
	if db <= 0 {
		return Silence
	}
	if amplitude < 0 {
		return Level(-db)
	}
	return Level(db)
}

// ToLinear converts a level back to a linear amplitude in [-1, 1].
func ToLinear(l Level) float64 {
	if l == Silence {
		return 0
	}
	mag := math.Pow(10, (math.Abs(float64(l))+FloorDB)/20)
	if l < 0 {
		return -mag
	}
	return mag
}

// MixDB adds two levels: both are converted to linear amplitude, summed,
// and converted back.
func MixDB(a, b Level) Level {
	if b == Silence {
		return a
	}
	if a == Silence {
		return b
	}
	return ToDB(ToLinear(a) + ToLinear(b))
}

// Attenuate applies a volume in [0, 1] to l as a dB gain.
func Attenuate(l Level, volume float64) Level {
	if volume >= 1 || l == Silence {
		return l
	}
	if volume <= 0 {
		return Silence
	}
	mag := math.Abs(float64(l)) + 20*math.Log10(volume)
	if mag <= 0 {
		return Silence
	}
	if l < 0 {
		return Level(-mag)
	}
	return Level(mag)
}
