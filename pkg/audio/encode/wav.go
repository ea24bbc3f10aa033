// ABOUTME: WAV file writer
// ABOUTME: Saves float32 frames as a PCM WAV file
package encode

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// WriteWAVFile writes interleaved samples to path as a PCM WAV file in the
// given sample format. Only integer widths are supported.
func WriteWAVFile(path string, samples []float32, format audio.Format) error {
	if err := format.Validate(); err != nil {
		return err
	}
	switch format.SampleFormat {
	case audio.FormatS16, audio.FormatS24, audio.FormatS32:
	default:
		return fmt.Errorf("%w: wav writer supports s16, s24 and s32 PCM",
			audio.ErrUnsupportedFormat)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}

	bitDepth := format.SampleFormat.Width() * 8
	enc := wav.NewEncoder(f, format.SampleRate, bitDepth, format.Channels, 1)

	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: format.Channels,
			SampleRate:  format.SampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: bitDepth,
	}
	scale := float64(int64(1) << (bitDepth - 1))
	max := int(scale) - 1
	min := -int(scale)
	for i, s := range samples {
		v := int(float64(s) * scale)
		if v > max {
			v = max
		} else if v < min {
			v = min
		}
		buf.Data[i] = v
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize wav file: %w", err)
	}
	return f.Close()
}
