// ABOUTME: Codec registry and bridge construction
// ABOUTME: Maps FileFormat to codec openers and sniffs unknown streams
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// streamSource extends audio.Source with the codec's metadata view. All
// codec wrappers in this package implement it.
type streamSource interface {
	audio.Source
	info() audio.FileInfo
}

// Opener constructs a frame source from a byte source. Openers fail fast
// with a *audio.DecodeError when the stream is not valid for their codec.
type Opener func(src audio.ByteSource) (audio.Source, error)

var (
	registryMu sync.Mutex
	registry   = map[audio.FileFormat]Opener{}
)

// Register installs an opener for a file format. The built-in codecs
// register themselves; callers may override or extend.
func Register(format audio.FileFormat, open Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[format] = open
}

func opener(format audio.FileFormat) (Opener, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	open, ok := registry[format]
	return open, ok
}

// NewBridge wraps src in a codec for the given format and returns the
// resulting frame source. With audio.FileUnknown the stream's leading bytes
// are sniffed, which requires a seekable source.
//
// The returned source borrows src for its lifetime; closing the source does
// not close src. The sequence it yields is finite and not restartable: once
// exhausted, construct a fresh bridge (re-seeking src to its start) to
// decode again.
func NewBridge(src audio.ByteSource, format audio.FileFormat) (audio.Source, error) {
	if format == audio.FileUnknown {
		detected, err := DetectFormat(src)
		if err != nil {
			return nil, err
		}
		format = detected
	}
	open, ok := opener(format)
	if !ok {
		return nil, audio.NewDecodeError("open", fmt.Errorf("%w: %v", audio.ErrUnsupportedFormat, format))
	}
	return open(src)
}

// NewBridgeAt opens a bridge like NewBridge and positions it at startFrame,
// so a reconstructed bridge can resume mid-file. Codecs with native seek
// support on a seekable source jump directly; the rest decode and discard
// the prefix. A start past the end of the stream yields an exhausted
// source, not an error.
func NewBridgeAt(src audio.ByteSource, format audio.FileFormat, startFrame int) (audio.Source, error) {
	s, err := NewBridge(src, format)
	if err != nil {
		return nil, err
	}
	if startFrame <= 0 {
		return s, nil
	}
	if fs, ok := s.(frameSeeker); ok {
		switch err := fs.seekFrame(startFrame); {
		case err == nil:
			return s, nil
		case !errors.Is(err, audio.ErrSeekUnsupported):
			s.Close()
			return nil, audio.NewDecodeError("seek", err)
		}
	}
	if err := discardFrames(s, startFrame); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// frameSeeker is implemented by codec wrappers that can jump to a frame
// offset without decoding the prefix. seekFrame returns
// audio.ErrSeekUnsupported when the underlying source cannot seek.
type frameSeeker interface {
	seekFrame(frame int) error
}

// discardFrames decodes and drops frames; reaching the end early is not an
// error, the caller just gets an exhausted source.
func discardFrames(s audio.Source, frames int) error {
	const chunk = 1024
	ch := s.Format().Channels
	buf := make([]float32, chunk*ch)
	for frames > 0 {
		want := frames
		if want > chunk {
			want = chunk
		}
		n, err := s.ReadFrames(buf[:want*ch])
		frames -= n
		if err == io.EOF || (err == nil && n == 0) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DetectFormat sniffs the container magic at the current stream position,
// restoring the position afterwards. It fails on unseekable sources.
func DetectFormat(src audio.ByteSource) (audio.FileFormat, error) {
	header := make([]byte, 12)
	n, err := io.ReadFull(src, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return audio.FileUnknown, audio.NewDecodeError("detect format", err)
	}
	if !src.Seek(int64(-n), audio.SeekCurrent) {
		return audio.FileUnknown, audio.ErrSeekUnsupported
	}
	header = header[:n]

	switch {
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return audio.FileWAV, nil
	case len(header) >= 4 && bytes.Equal(header[:4], []byte("fLaC")):
		return audio.FileFLAC, nil
	case len(header) >= 4 && bytes.Equal(header[:4], []byte("OggS")):
		return audio.FileVorbis, nil
	case len(header) >= 3 && bytes.Equal(header[:3], []byte("ID3")):
		return audio.FileMP3, nil
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return audio.FileMP3, nil
	}
	return audio.FileUnknown, audio.NewDecodeError("detect format", audio.ErrUnsupportedFormat)
}

// seekerFor returns an io.ReadSeeker view of src, or nil when src cannot
// seek. Seekability is probed with a zero-offset seek.
func seekerFor(src audio.ByteSource) *byteSourceSeeker {
	if !src.Seek(0, audio.SeekCurrent) {
		return nil
	}
	return &byteSourceSeeker{src: src}
}

// byteSourceSeeker adapts an audio.ByteSource to io.ReadSeeker for codec
// libraries that require seeking (container parsing, length scans).
// End-relative seeks work when the source reports its Size.
type byteSourceSeeker struct {
	src audio.ByteSource
	pos int64
}

func (s *byteSourceSeeker) Read(p []byte) (int, error) {
	n, err := s.src.Read(p)
	s.pos += int64(n)
	return n, err
}

func (s *byteSourceSeeker) Seek(offset int64, whence int) (int64, error) {
	var ok bool
	switch whence {
	case io.SeekStart:
		ok = s.src.Seek(offset, audio.SeekStart)
		if ok {
			s.pos = offset
		}
	case io.SeekCurrent:
		ok = s.src.Seek(offset, audio.SeekCurrent)
		if ok {
			s.pos += offset
		}
	case io.SeekEnd:
		sized, hasSize := s.src.(interface{ Size() int64 })
		if !hasSize {
			return s.pos, fmt.Errorf("%w: seek from end", audio.ErrSeekUnsupported)
		}
		end := sized.Size() + offset
		ok = s.src.Seek(end, audio.SeekStart)
		if ok {
			s.pos = end
		}
	default:
		return s.pos, fmt.Errorf("%w: whence %d", audio.ErrSeekUnsupported, whence)
	}
	if !ok {
		return s.pos, audio.ErrSeekUnsupported
	}
	return s.pos, nil
}
