// ABOUTME: Channel count remixing
// ABOUTME: Builds weight matrices for average, simple and custom mix modes
package convert

import (
	"fmt"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// remixer converts interleaved frames between channel counts using a
// [out][in] weight matrix applied per frame.
type remixer struct {
	in      int
	out     int
	weights [][]float32
	buf     []float32
}

func newRemixer(in, out int, mode audio.ChannelMixMode, custom [][]float32) (*remixer, error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("%w: remix %d -> %d channels", audio.ErrInvalidConfig, in, out)
	}

	weights := make([][]float32, out)
	for o := range weights {
		weights[o] = make([]float32, in)
	}

	switch mode {
	case audio.MixAverage:
		// Rectangular weighting: inputs are partitioned evenly over the
		// outputs when downmixing, duplicated when upmixing.
		if out <= in {
			for o := 0; o < out; o++ {
				lo, hi := o*in/out, (o+1)*in/out
				for i := lo; i < hi; i++ {
					weights[o][i] = 1.0 / float32(hi-lo)
				}
			}
		} else {
			for o := 0; o < out; o++ {
				weights[o][o*in/out] = 1.0
			}
		}
	case audio.MixSimple:
		// Drop excess inputs, duplicate the last input for excess outputs.
		for o := 0; o < out; o++ {
			i := o
			if i >= in {
				i = in - 1
			}
			weights[o][i] = 1.0
		}
	case audio.MixCustom:
		if len(custom) != out {
			return nil, fmt.Errorf("%w: weight matrix has %d output rows, want %d",
				audio.ErrInvalidConfig, len(custom), out)
		}
		for o, row := range custom {
			if len(row) != in {
				return nil, fmt.Errorf("%w: weight row %d has %d entries, want %d",
					audio.ErrInvalidConfig, o, len(row), in)
			}
			copy(weights[o], row)
		}
	default:
		return nil, fmt.Errorf("%w: mix mode %d", audio.ErrInvalidConfig, mode)
	}

	return &remixer{in: in, out: out, weights: weights}, nil
}

// remix converts frames whole interleaved frames. The returned slice is
// reused between calls.
func (m *remixer) remix(in []float32, frames int) []float32 {
	if m.in == m.out {
		return in[:frames*m.in]
	}
	need := frames * m.out
	if cap(m.buf) < need {
		m.buf = make([]float32, need)
	}
	m.buf = m.buf[:need]

	for f := 0; f < frames; f++ {
		inFrame := in[f*m.in:]
		for o := 0; o < m.out; o++ {
			var acc float32
			for i, w := range m.weights[o] {
				if w != 0 {
					acc += inFrame[i] * w
				}
			}
			m.buf[f*m.out+o] = acc
		}
	}
	return m.buf
}
