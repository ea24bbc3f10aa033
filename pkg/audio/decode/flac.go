// ABOUTME: FLAC codec wrapper
// ABOUTME: Streams PCM frames from a FLAC stream via mewkiz/flac
package decode

import (
	"io"

	"github.com/mewkiz/flac"
	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

func init() {
	Register(audio.FileFLAC, newFLAC)
}

type flacSource struct {
	stream    *flac.Stream
	format    audio.Format
	numFrames int
	scale     float32
	pending   []float32 // interleaved leftovers from the last parsed frame
	exhausted bool
}

func newFLAC(src audio.ByteSource) (audio.Source, error) {
	stream, err := flac.New(src)
	if err != nil {
		return nil, audio.NewDecodeError("flac open", err)
	}
	info := stream.Info

	var sf audio.SampleFormat
	switch {
	case info.BitsPerSample <= 8:
		sf = audio.FormatU8
	case info.BitsPerSample <= 16:
		sf = audio.FormatS16
	case info.BitsPerSample <= 24:
		sf = audio.FormatS24
	default:
		sf = audio.FormatS32
	}

	format := audio.Format{
		SampleFormat: sf,
		Channels:     int(info.NChannels),
		SampleRate:   int(info.SampleRate),
	}
	if err := format.Validate(); err != nil {
		return nil, audio.NewDecodeError("flac open", err)
	}

	return &flacSource{
		stream:    stream,
		format:    format,
		numFrames: int(info.NSamples),
		scale:     float32(int64(1) << (info.BitsPerSample - 1)),
	}, nil
}

func (s *flacSource) Format() audio.Format { return s.format }

func (s *flacSource) ReadFrames(dst []float32) (int, error) {
	if s.exhausted && len(s.pending) == 0 {
		return 0, io.EOF
	}
	channels := s.format.Channels
	want := len(dst) / channels * channels
	written := 0

	for written < want {
		if len(s.pending) == 0 {
			if s.exhausted {
				break
			}
			if err := s.parseNext(); err != nil {
				if err == io.EOF {
					s.exhausted = true
					continue
				}
				return written / channels, err
			}
		}
		n := copy(dst[written:want], s.pending)
		s.pending = s.pending[n:]
		written += n
	}

	if written == 0 {
		return 0, io.EOF
	}
	return written / channels, nil
}

// parseNext decodes one FLAC frame and interleaves its planar subframe
// samples into the pending buffer.
func (s *flacSource) parseNext() error {
	f, err := s.stream.ParseNext()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return audio.NewDecodeError("flac decode", err)
	}

	channels := len(f.Subframes)
	if channels == 0 {
		return io.EOF
	}
	blockSize := len(f.Subframes[0].Samples)
	s.pending = make([]float32, blockSize*channels)
	for ch, sub := range f.Subframes {
		for i, v := range sub.Samples {
			s.pending[i*channels+ch] = float32(v) / s.scale
		}
	}
	return nil
}

func (s *flacSource) Close() error { return nil }

func (s *flacSource) info() audio.FileInfo {
	var duration float64
	if s.format.SampleRate > 0 {
		duration = float64(s.numFrames) / float64(s.format.SampleRate)
	}
	return audio.FileInfo{
		FileFormat:   audio.FileFLAC,
		Channels:     s.format.Channels,
		SampleRate:   s.format.SampleRate,
		SampleFormat: s.format.SampleFormat,
		NumFrames:    s.numFrames,
		Duration:     duration,
	}
}
