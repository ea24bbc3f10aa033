// ABOUTME: Ogg Vorbis codec wrapper
// ABOUTME: Streams PCM frames from an Ogg stream via jfreymuth/oggvorbis
package decode

import (
	"io"

	"github.com/jfreymuth/oggvorbis"
	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

func init() {
	Register(audio.FileVorbis, newVorbis)
}

type vorbisSource struct {
	dec       *oggvorbis.Reader
	format    audio.Format
	seekable  bool
	exhausted bool
}

func newVorbis(src audio.ByteSource) (audio.Source, error) {
	// oggvorbis finds the stream length from the last Ogg page, which
	// takes end-relative seeks; only hand it a seeker when the source
	// reports its size.
	var r io.Reader = src
	seekable := false
	if _, hasSize := src.(interface{ Size() int64 }); hasSize {
		if bss := seekerFor(src); bss != nil {
			r = bss
			seekable = true
		}
	}
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, audio.NewDecodeError("vorbis open", err)
	}
	format := audio.Format{
		// Vorbis decodes natively to float32.
		SampleFormat: audio.FormatF32,
		Channels:     dec.Channels(),
		SampleRate:   dec.SampleRate(),
	}
	if err := format.Validate(); err != nil {
		return nil, audio.NewDecodeError("vorbis open", err)
	}
	return &vorbisSource{dec: dec, format: format, seekable: seekable}, nil
}

func (s *vorbisSource) Format() audio.Format { return s.format }

func (s *vorbisSource) ReadFrames(dst []float32) (int, error) {
	if s.exhausted {
		return 0, io.EOF
	}
	channels := s.format.Channels
	want := len(dst) / channels * channels
	written := 0

	for written < want {
		n, err := s.dec.Read(dst[written:want])
		written += n
		if err == io.EOF {
			s.exhausted = true
			break
		}
		if err != nil {
			return written / channels, audio.NewDecodeError("vorbis decode", err)
		}
		if n == 0 {
			break
		}
	}

	if written == 0 && s.exhausted {
		return 0, io.EOF
	}
	return written / channels, nil
}

// seekFrame jumps to a sample position on seekable sources.
func (s *vorbisSource) seekFrame(frame int) error {
	if !s.seekable {
		return audio.ErrSeekUnsupported
	}
	return s.dec.SetPosition(int64(frame))
}

func (s *vorbisSource) Close() error { return nil }

func (s *vorbisSource) info() audio.FileInfo {
	// Length is only known for seekable streams.
	frames := int(s.dec.Length())
	var duration float64
	if s.format.SampleRate > 0 {
		duration = float64(frames) / float64(s.format.SampleRate)
	}
	return audio.FileInfo{
		FileFormat:   audio.FileVorbis,
		Channels:     s.format.Channels,
		SampleRate:   s.format.SampleRate,
		SampleFormat: s.format.SampleFormat,
		NumFrames:    frames,
		Duration:     duration,
	}
}
