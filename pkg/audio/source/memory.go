// ABOUTME: Memory-backed ByteSource
// ABOUTME: Normalizes sample slices to a flat byte view at construction
package source

import (
	"io"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// Memory is a seekable audio.ByteSource over an in-memory byte buffer.
//
// The From* constructors accept contiguous sample slices and normalize them
// to a flat little-endian byte view once, at the boundary; reads afterwards
// never convert again.
type Memory struct {
	data []byte
	pos  int64
}

// NewMemory wraps data without copying. The caller must not mutate data
// while the source is in use.
func NewMemory(data []byte) *Memory {
	return &Memory{data: data}
}

// FromInt16 copies int16 samples into a little-endian byte view.
func FromInt16(samples []int16) *Memory {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		data[i*2] = byte(s)
		data[i*2+1] = byte(s >> 8)
	}
	return &Memory{data: data}
}

// FromInt32 copies int32 samples into a little-endian byte view.
func FromInt32(samples []int32) *Memory {
	data := make([]byte, len(samples)*4)
	for i, s := range samples {
		data[i*4] = byte(s)
		data[i*4+1] = byte(s >> 8)
		data[i*4+2] = byte(s >> 16)
		data[i*4+3] = byte(s >> 24)
	}
	return &Memory{data: data}
}

// FromFloat32 encodes float32 samples into a little-endian byte view.
func FromFloat32(samples []float32) *Memory {
	data := make([]byte, len(samples)*4)
	audio.EncodeSamples(audio.FormatF32, samples, data)
	return &Memory{data: data}
}

func (s *Memory) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *Memory) Seek(offset int64, origin audio.SeekOrigin) bool {
	pos := offset
	if origin == audio.SeekCurrent {
		pos = s.pos + offset
	}
	if pos < 0 || pos > int64(len(s.data)) {
		return false
	}
	s.pos = pos
	return true
}

func (s *Memory) Close() error { return nil }

// Len returns the total byte length of the buffer.
func (s *Memory) Len() int { return len(s.data) }

// Size is Len as an int64, enabling end-relative seek arithmetic in
// consumers that need it.
func (s *Memory) Size() int64 { return int64(len(s.data)) }
