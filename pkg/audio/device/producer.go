// ABOUTME: Producer adapters
// ABOUTME: Bridges audio.Source frames into device-format bytes
package device

import (
	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// SourceProducer adapts an audio.Source to the Producer interface by
// encoding its float32 frames into the device sample format. The source's
// channel count and rate must already match the device; use the convert
// package upstream when they do not.
type SourceProducer struct {
	src    audio.Source
	format audio.SampleFormat
	buf    []float32
}

// NewSourceProducer wraps src, encoding into f for the device.
func NewSourceProducer(src audio.Source, f audio.SampleFormat) *SourceProducer {
	return &SourceProducer{src: src, format: f}
}

func (sp *SourceProducer) Produce(dst []byte) (int, error) {
	ch := sp.src.Format().Channels
	frames := len(dst) / (sp.format.Width() * ch)
	need := frames * ch
	if cap(sp.buf) < need {
		sp.buf = make([]float32, need)
	}
	sp.buf = sp.buf[:need]

	n, err := sp.src.ReadFrames(sp.buf)
	audio.EncodeSamples(sp.format, sp.buf[:n*ch], dst)
	return n * ch * sp.format.Width(), err
}
