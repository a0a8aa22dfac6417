package audio

import (
	"encoding/binary"
	"math"
)

// encode converts levels to the wire format, applying the master volume.
// dst is reused when large enough.
func encode(dst []byte, src []Level, format SampleFormat, master float64) []byte {
	size := 2
	if format == FormatF32 {
		size = 4
	}
	n := len(src) * size
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	for i, l := range src {
		v := ToLinear(Attenuate(l, master))
		switch format {
		case FormatF32:
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(float32(v)))
		default:
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(int16(math.Round(v*math.MaxInt16))))
		}
	}
	return dst
}

func allZero(p []byte) bool {
	for _, b := range p {
		if b != 0 {
			return false
		}
	}
	return true
}
