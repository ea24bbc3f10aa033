// ABOUTME: Dither noise generation
// ABOUTME: Rectangular and triangular noise for bit depth narrowing
package convert

import (
	"math/rand"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// ditherer adds shaped noise scaled to one LSB of the target format before
// quantization. Only applied when narrowing bit depth; widening or equal
// conversions stay untouched.
type ditherer struct {
	mode audio.DitherMode
	rng  *rand.Rand
}

func newDitherer(mode audio.DitherMode) *ditherer {
	return &ditherer{mode: mode, rng: rand.New(rand.NewSource(1))}
}

// apply adds noise in place. lsb is the step size of the target format.
func (d *ditherer) apply(samples []float32, lsb float32) {
	switch d.mode {
	case audio.DitherRectangle:
		for i := range samples {
			samples[i] += (d.rng.Float32() - 0.5) * lsb
		}
	case audio.DitherTriangle:
		for i := range samples {
			samples[i] += (d.rng.Float32() - d.rng.Float32()) * lsb
		}
	}
}

// lsbFor returns the quantization step of a sample format, or 0 when the
// format does not quantize (float).
func lsbFor(f audio.SampleFormat) float32 {
	switch f {
	case audio.FormatU8:
		return 1.0 / 128
	case audio.FormatS16:
		return 1.0 / 32768
	case audio.FormatS24:
		return 1.0 / 8388608
	case audio.FormatS32:
		return 1.0 / 2147483648
	}
	return 0
}
