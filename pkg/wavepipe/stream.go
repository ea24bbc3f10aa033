// ABOUTME: Stream-any convenience
// ABOUTME: Decode plus convert in one call
package wavepipe

import (
	"github.com/wavepipe/wavepipe-go/pkg/audio"
	"github.com/wavepipe/wavepipe-go/pkg/audio/convert"
	"github.com/wavepipe/wavepipe-go/pkg/audio/decode"
)

// StreamConfig describes the output stream Stream should produce. Zero
// values keep the decoded stream's native layout.
type StreamConfig struct {
	// FileFormat hints the codec. FileUnknown sniffs the source, which
	// then must be seekable.
	FileFormat audio.FileFormat

	// SampleRate and Channels pick the output layout.
	SampleRate int
	Channels   int

	// MixMode controls channel remixing, Quality the resampler.
	MixMode audio.ChannelMixMode
	Quality convert.Quality

	// Dither applies when the stream is later re-encoded to a narrower
	// sample format via ReadEncoded.
	Dither audio.DitherMode
}

// Stream decodes src and converts it to the requested layout. The caller
// remains responsible for closing src after the returned converter is done.
func Stream(src audio.ByteSource, cfg StreamConfig) (*convert.Converter, error) {
	decoded, err := decode.NewBridge(src, cfg.FileFormat)
	if err != nil {
		return nil, err
	}
	conv, err := convert.New(decoded, convert.Config{
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
		MixMode:    cfg.MixMode,
		Weights:    nil,
		Quality:    cfg.Quality,
		Dither:     cfg.Dither,
	})
	if err != nil {
		decoded.Close()
		return nil, err
	}
	return conv, nil
}
