// ABOUTME: Raw sample conversion between PCM byte formats and float32
// ABOUTME: Encode/decode helpers used by decoders, converter and devices
package audio

import (
	"encoding/binary"
	"math"
)

// DecodeSamples converts raw little-endian samples in format f to float32
// values in [-1, 1], writing into dst. It returns the number of samples
// decoded, bounded by both len(src)/f.Width() and len(dst).
func DecodeSamples(f SampleFormat, src []byte, dst []float32) int {
	width := f.Width()
	if width == 0 {
		return 0
	}
	n := len(src) / width
	if n > len(dst) {
		n = len(dst)
	}
	switch f {
	case FormatU8:
		for i := 0; i < n; i++ {
			dst[i] = float32(int(src[i])-128) / 128.0
		}
	case FormatS16:
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(src[i*2:]))
			dst[i] = float32(v) / 32768.0
		}
	case FormatS24:
		for i := 0; i < n; i++ {
			v := int32(src[i*3]) | int32(src[i*3+1])<<8 | int32(src[i*3+2])<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xFFFFFF)
			}
			dst[i] = float32(v) / 8388608.0
		}
	case FormatS32:
		for i := 0; i < n; i++ {
			v := int32(binary.LittleEndian.Uint32(src[i*4:]))
			dst[i] = float32(float64(v) / 2147483648.0)
		}
	case FormatF32:
		for i := 0; i < n; i++ {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
		}
	}
	return n
}

// EncodeSamples converts float32 samples in [-1, 1] to raw little-endian
// samples in format f, writing into dst. Values outside [-1, 1] are clamped.
// It returns the number of bytes written, bounded by len(dst).
func EncodeSamples(f SampleFormat, src []float32, dst []byte) int {
	width := f.Width()
	if width == 0 {
		return 0
	}
	n := len(src)
	if max := len(dst) / width; n > max {
		n = max
	}
	switch f {
	case FormatU8:
		for i := 0; i < n; i++ {
			dst[i] = uint8(clampInt(roundf(src[i]*128)+128, 0, 255))
		}
	case FormatS16:
		for i := 0; i < n; i++ {
			v := clampInt(roundf(src[i]*32768), -32768, 32767)
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(int16(v)))
		}
	case FormatS24:
		for i := 0; i < n; i++ {
			v := clampInt(roundf(src[i]*8388608), -8388608, 8388607)
			dst[i*3] = byte(v)
			dst[i*3+1] = byte(v >> 8)
			dst[i*3+2] = byte(v >> 16)
		}
	case FormatS32:
		for i := 0; i < n; i++ {
			v := int64(math.Round(float64(clampf(src[i])) * 2147483648.0))
			if v > 2147483647 {
				v = 2147483647
			} else if v < -2147483648 {
				v = -2147483648
			}
			binary.LittleEndian.PutUint32(dst[i*4:], uint32(int32(v)))
		}
	case FormatF32:
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(src[i]))
		}
	}
	return n * width
}

func clampf(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func roundf(v float32) int {
	return int(math.Round(float64(v)))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
