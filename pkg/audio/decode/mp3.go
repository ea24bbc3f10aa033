// ABOUTME: MP3 codec wrapper
// ABOUTME: Streams PCM frames from an MP3 stream via hajimehoshi/go-mp3
package decode

import (
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

func init() {
	Register(audio.FileMP3, newMP3)
}

// go-mp3 always produces 16-bit little-endian stereo.
const mp3Channels = 2

type mp3Source struct {
	dec       *mp3.Decoder
	format    audio.Format
	buf       []byte
	seekable  bool
	exhausted bool
}

func newMP3(src audio.ByteSource) (audio.Source, error) {
	// A seekable source lets go-mp3 scan the stream once and know its
	// total length.
	var r io.Reader = src
	seekable := false
	if bss := seekerFor(src); bss != nil {
		r = bss
		seekable = true
	}
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, audio.NewDecodeError("mp3 open", err)
	}
	return &mp3Source{
		dec:      dec,
		seekable: seekable,
		format: audio.Format{
			SampleFormat: audio.FormatS16,
			Channels:     mp3Channels,
			SampleRate:   dec.SampleRate(),
		},
	}, nil
}

func (s *mp3Source) Format() audio.Format { return s.format }

func (s *mp3Source) ReadFrames(dst []float32) (int, error) {
	if s.exhausted {
		return 0, io.EOF
	}
	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	// go-mp3 may return short reads mid-stream; fill the chunk unless the
	// stream ends.
	filled := 0
	for filled < need {
		n, err := s.dec.Read(s.buf[filled:])
		filled += n
		if err == io.EOF {
			s.exhausted = true
			break
		}
		if err != nil {
			return 0, audio.NewDecodeError("mp3 decode", err)
		}
		if n == 0 {
			break
		}
	}

	samples := audio.DecodeSamples(audio.FormatS16, s.buf[:filled], dst)
	if samples == 0 && s.exhausted {
		return 0, io.EOF
	}
	return samples / s.format.Channels, nil
}

// seekFrame jumps to a frame offset. go-mp3 seeks over the decoded PCM
// byte stream, 4 bytes per frame.
func (s *mp3Source) seekFrame(frame int) error {
	if !s.seekable {
		return audio.ErrSeekUnsupported
	}
	_, err := s.dec.Seek(int64(frame)*2*mp3Channels, io.SeekStart)
	return err
}

func (s *mp3Source) Close() error { return nil }

func (s *mp3Source) info() audio.FileInfo {
	// Length is only known when the underlying source is seekable.
	frames := 0
	if l := s.dec.Length(); l > 0 {
		frames = int(l / (2 * mp3Channels))
	}
	var duration float64
	if s.format.SampleRate > 0 {
		duration = float64(frames) / float64(s.format.SampleRate)
	}
	return audio.FileInfo{
		FileFormat:   audio.FileMP3,
		Channels:     s.format.Channels,
		SampleRate:   s.format.SampleRate,
		SampleFormat: s.format.SampleFormat,
		NumFrames:    frames,
		Duration:     duration,
	}
}
