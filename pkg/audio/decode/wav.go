// ABOUTME: WAV codec wrapper
// ABOUTME: Streams PCM frames from a RIFF/WAVE container via go-audio/wav
package decode

import (
	"io"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

func init() {
	Register(audio.FileWAV, newWAV)
}

type wavSource struct {
	dec       *wav.Decoder
	format    audio.Format
	numFrames int
	duration  float64
	scale     float32
	intBuf    *gaudio.IntBuffer
	exhausted bool
}

// newWAV opens a RIFF/WAVE stream. The container chunk walk needs a
// seekable source.
func newWAV(src audio.ByteSource) (audio.Source, error) {
	dec := wav.NewDecoder(&byteSourceSeeker{src: src})
	if !dec.IsValidFile() {
		return nil, audio.NewDecodeError("wav open", dec.Err())
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, audio.NewDecodeError("wav open", err)
	}

	var sf audio.SampleFormat
	switch dec.BitDepth {
	case 8:
		sf = audio.FormatU8
	case 16:
		sf = audio.FormatS16
	case 24:
		sf = audio.FormatS24
	case 32:
		sf = audio.FormatS32
	default:
		return nil, audio.NewDecodeError("wav open", audio.ErrUnsupportedFormat)
	}

	format := audio.Format{
		SampleFormat: sf,
		Channels:     int(dec.NumChans),
		SampleRate:   int(dec.SampleRate),
	}
	if err := format.Validate(); err != nil {
		return nil, audio.NewDecodeError("wav open", err)
	}

	frames := int(dec.PCMLen() / int64(format.FrameBytes()))
	var duration float64
	if format.SampleRate > 0 {
		duration = float64(frames) / float64(format.SampleRate)
	}

	return &wavSource{
		dec:       dec,
		format:    format,
		numFrames: frames,
		duration:  duration,
		scale:     float32(int64(1) << (dec.BitDepth - 1)),
		intBuf: &gaudio.IntBuffer{
			Format: &gaudio.Format{
				NumChannels: format.Channels,
				SampleRate:  format.SampleRate,
			},
			SourceBitDepth: int(dec.BitDepth),
		},
	}, nil
}

func (s *wavSource) Format() audio.Format { return s.format }

func (s *wavSource) ReadFrames(dst []float32) (int, error) {
	if s.exhausted {
		return 0, io.EOF
	}
	if len(s.intBuf.Data) < len(dst) {
		s.intBuf.Data = make([]int, len(dst))
	}
	s.intBuf.Data = s.intBuf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, audio.NewDecodeError("wav decode", err)
	}
	if s.format.SampleFormat == audio.FormatU8 {
		// 8-bit WAV is unsigned, centered on 128.
		for i := 0; i < n; i++ {
			dst[i] = float32(s.intBuf.Data[i]-128) / 128.0
		}
	} else {
		for i := 0; i < n; i++ {
			dst[i] = float32(s.intBuf.Data[i]) / s.scale
		}
	}
	if n < len(dst) {
		s.exhausted = true
		if n == 0 {
			return 0, io.EOF
		}
	}
	return n / s.format.Channels, nil
}

func (s *wavSource) Close() error { return nil }

func (s *wavSource) info() audio.FileInfo {
	return audio.FileInfo{
		FileFormat:   audio.FileWAV,
		Channels:     s.format.Channels,
		SampleRate:   s.format.SampleRate,
		SampleFormat: s.format.SampleFormat,
		NumFrames:    s.numFrames,
		Duration:     s.duration,
	}
}
