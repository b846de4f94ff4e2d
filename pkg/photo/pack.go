package photo

import (
	"github.com/akeil/twtw/internal/errors"
)

// Bits5Size returns the packed size of n 5-bit samples.
func Bits5Size(n int) int {
	return (n + 7) / 8 * 5
}

// PackBits5 keeps the top 5 bits of each sample and packs groups of eight
// samples into five bytes. Sample i occupies bits [5i, 5i+5) of the group,
// counted from the most significant bit of the first byte. A short last
// group is padded with zeros.
func PackBits5(samples []byte) []byte {
	out := make([]byte, Bits5Size(len(samples)))
	for g := 0; g*8 < len(samples); g++ {
		var acc uint64
		for k := 0; k < 8; k++ {
			var v uint64
			if i := g*8 + k; i < len(samples) {
				v = uint64(samples[i] >> 3)
			}
			acc = acc<<5 | v
		}
		o := out[g*5 : g*5+5]
		o[0] = byte(acc >> 32)
		o[1] = byte(acc >> 24)
		o[2] = byte(acc >> 16)
		o[3] = byte(acc >> 8)
		o[4] = byte(acc)
	}
	return out
}

// UnpackBits5 reverses PackBits5 and returns n samples scaled back to
// eight bits with the low three bits cleared.
func UnpackBits5(data []byte, n int) ([]byte, error) {
	if n < 0 || len(data) < Bits5Size(n) {
		return nil, errors.NewInvalidFormat("5-bit plane of %d bytes too short for %d samples", len(data), n)
	}
	out := make([]byte, n)
	for g := 0; g*8 < n; g++ {
		o := data[g*5 : g*5+5]
		acc := uint64(o[0])<<32 | uint64(o[1])<<24 | uint64(o[2])<<16 | uint64(o[3])<<8 | uint64(o[4])
		for k := 0; k < 8; k++ {
			i := g*8 + k
			if i >= n {
				break
			}
			v := (acc >> uint(35-5*k)) & 0x1f
			out[i] = byte(v << 3)
		}
	}
	return out, nil
}

// PackNibbles keeps the top 4 bits of each sample and packs two samples
// per byte, the first one in the high nibble.
func PackNibbles(samples []byte) []byte {
	out := make([]byte, (len(samples)+1)/2)
	for i, s := range samples {
		if i%2 == 0 {
			out[i/2] = s & 0xf0
		} else {
			out[i/2] |= s >> 4
		}
	}
	return out
}

// UnpackNibbles reverses PackNibbles and returns n samples scaled back to
// eight bits with the low four bits cleared.
func UnpackNibbles(data []byte, n int) ([]byte, error) {
	if n < 0 || len(data) < (n+1)/2 {
		return nil, errors.NewInvalidFormat("4-bit plane of %d bytes too short for %d samples", len(data), n)
	}
	out := make([]byte, n)
	for i := range out {
		b := data[i/2]
		if i%2 == 0 {
			out[i] = b & 0xf0
		} else {
			out[i] = b << 4
		}
	}
	return out, nil
}
