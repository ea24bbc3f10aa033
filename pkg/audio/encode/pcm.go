// ABOUTME: PCM audio encoder
// ABOUTME: Encodes float32 samples to raw little-endian PCM bytes
package encode

import (
	"fmt"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// PCMEncoder encodes raw PCM at a fixed sample format.
type PCMEncoder struct {
	format audio.SampleFormat
}

// NewPCM creates a PCM encoder for the given sample format.
func NewPCM(format audio.SampleFormat) (*PCMEncoder, error) {
	if format.Width() == 0 {
		return nil, fmt.Errorf("%w: sample format %v", audio.ErrInvalidConfig, format)
	}
	return &PCMEncoder{format: format}, nil
}

// Encode converts float32 samples to PCM bytes.
func (e *PCMEncoder) Encode(samples []float32) ([]byte, error) {
	out := make([]byte, len(samples)*e.format.Width())
	audio.EncodeSamples(e.format, samples, out)
	return out, nil
}

// Close releases resources.
func (e *PCMEncoder) Close() error { return nil }
