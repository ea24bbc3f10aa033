// ABOUTME: File-backed ByteSource
// ABOUTME: Wraps an os.File with seek support
package source

import (
	"io"
	"os"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// File is a seekable audio.ByteSource over a file on disk.
type File struct {
	f    *os.File
	size int64
}

// NewFile opens path for streaming.
func NewFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, size: fi.Size()}, nil
}

func (s *File) Read(p []byte) (int, error) {
	return s.f.Read(p)
}

func (s *File) Seek(offset int64, origin audio.SeekOrigin) bool {
	whence := io.SeekStart
	if origin == audio.SeekCurrent {
		whence = io.SeekCurrent
	}
	_, err := s.f.Seek(offset, whence)
	return err == nil
}

func (s *File) Close() error {
	return s.f.Close()
}

// Name returns the path the source was opened with.
func (s *File) Name() string {
	return s.f.Name()
}

// Size returns the file's byte length, enabling end-relative seek
// arithmetic in consumers that need it.
func (s *File) Size() int64 { return s.size }
