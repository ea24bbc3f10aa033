// ABOUTME: Streaming resamplers
// ABOUTME: Linear interpolation plus windowed-sinc via oov/audio
package convert

import (
	"github.com/oov/audio/resampler"
)

// Quality selects the resampling algorithm.
type Quality int

const (
	// QualityLinear interpolates linearly between neighboring frames.
	QualityLinear Quality = iota
	// QualitySinc delegates to a windowed-sinc resampler.
	QualitySinc
)

// sincQuality is the oov/audio quality level used for QualitySinc.
const sincQuality = 10

// frameResampler is a streaming rate converter over interleaved frames.
// process appends converted frames to dst and carries state across calls;
// flush drains whatever the algorithm still holds after the input ends.
type frameResampler interface {
	process(in []float32, dst []float32) []float32
	flush(dst []float32) []float32
}

// identityResampler passes frames through untouched.
type identityResampler struct{}

func (identityResampler) process(in []float32, dst []float32) []float32 {
	return append(dst, in...)
}

func (identityResampler) flush(dst []float32) []float32 { return dst }

// linearResampler interpolates between the previously seen frame and each
// incoming frame. The fractional position is carried between calls so chunk
// boundaries introduce no discontinuity.
type linearResampler struct {
	channels int
	ratio    float64 // input frames advanced per output frame
	pos      float64 // position between prev and the next incoming frame
	prev     []float32
	hasPrev  bool
}

func newLinearResampler(channels, inRate, outRate int) *linearResampler {
	return &linearResampler{
		channels: channels,
		ratio:    float64(inRate) / float64(outRate),
		prev:     make([]float32, channels),
	}
}

func (r *linearResampler) process(in []float32, dst []float32) []float32 {
	ch := r.channels
	frames := len(in) / ch

	for f := 0; f < frames; f++ {
		next := in[f*ch : (f+1)*ch]
		if !r.hasPrev {
			copy(r.prev, next)
			r.hasPrev = true
			continue
		}
		for r.pos < 1.0 {
			frac := float32(r.pos)
			for c := 0; c < ch; c++ {
				dst = append(dst, r.prev[c]*(1-frac)+next[c]*frac)
			}
			r.pos += r.ratio
		}
		r.pos -= 1.0
		copy(r.prev, next)
	}
	return dst
}

// flush emits the interpolation positions that still fall before the held
// final frame, using that frame as both endpoints.
func (r *linearResampler) flush(dst []float32) []float32 {
	if !r.hasPrev {
		return dst
	}
	for r.pos < 1.0 {
		dst = append(dst, r.prev...)
		r.pos += r.ratio
	}
	r.hasPrev = false
	return dst
}

// sincResampler wraps the oov/audio windowed-sinc resampler, which works on
// planar channels, behind the interleaved frameResampler interface.
type sincResampler struct {
	channels int
	rs       *resampler.Resampler
	planarIn [][]float32 // unconsumed input per channel
	outBuf   []float32
}

func newSincResampler(channels, inRate, outRate int) *sincResampler {
	return &sincResampler{
		channels: channels,
		rs:       resampler.New(channels, inRate, outRate, sincQuality),
		planarIn: make([][]float32, channels),
	}
}

func (r *sincResampler) process(in []float32, dst []float32) []float32 {
	ch := r.channels
	frames := len(in) / ch
	for c := 0; c < ch; c++ {
		for f := 0; f < frames; f++ {
			r.planarIn[c] = append(r.planarIn[c], in[f*ch+c])
		}
	}
	return r.drain(dst)
}

func (r *sincResampler) drain(dst []float32) []float32 {
	ch := r.channels
	pending := len(r.planarIn[0])
	if pending == 0 {
		return dst
	}

	// The resampler consumes the same amount from every channel since all
	// channel states share identical parameters and input lengths.
	outCap := pending*4 + 64
	if cap(r.outBuf) < outCap*ch {
		r.outBuf = make([]float32, outCap*ch)
	}

	read, written := 0, 0
	for c := 0; c < ch; c++ {
		read, written = r.rs.ProcessFloat32(c, r.planarIn[c], r.outBuf[c*outCap:(c+1)*outCap])
	}
	for c := 0; c < ch; c++ {
		r.planarIn[c] = r.planarIn[c][read:]
	}

	for f := 0; f < written; f++ {
		for c := 0; c < ch; c++ {
			dst = append(dst, r.outBuf[c*outCap+f])
		}
	}
	return dst
}

func (r *sincResampler) flush(dst []float32) []float32 {
	// Push silence through to recover the frames held in the filter delay
	// line, then drop whatever input remains unconsumed.
	tail := make([]float32, len(r.planarIn[0])+sincQuality*8)
	for c := 0; c < r.channels; c++ {
		r.planarIn[c] = append(r.planarIn[c], tail...)
	}
	dst = r.drain(dst)
	for c := 0; c < r.channels; c++ {
		r.planarIn[c] = nil
	}
	return dst
}
