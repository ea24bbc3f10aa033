// ABOUTME: One-shot whole-stream decoding conveniences
// ABOUTME: ReadFile and ReadBytes decode an entire stream into memory
package decode

import (
	"io"
	"path/filepath"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
	"github.com/wavepipe/wavepipe-go/pkg/audio/source"
)

// readChunkFrames is the pull size used when draining a whole stream.
const readChunkFrames = 4096

// ReadAll drains a frame source into a DecodedFile. The source is consumed
// but not closed.
func ReadAll(s audio.Source, name string, fileFormat audio.FileFormat) (*audio.DecodedFile, error) {
	format := s.Format()
	chunk := make([]float32, readChunkFrames*format.Channels)
	var samples []float32

	for {
		n, err := s.ReadFrames(chunk)
		samples = append(samples, chunk[:n*format.Channels]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}

	frames := len(samples) / format.Channels
	var duration float64
	if format.SampleRate > 0 {
		duration = float64(frames) / float64(format.SampleRate)
	}
	return &audio.DecodedFile{
		FileInfo: audio.FileInfo{
			Name:         name,
			FileFormat:   fileFormat,
			Channels:     format.Channels,
			SampleRate:   format.SampleRate,
			SampleFormat: format.SampleFormat,
			NumFrames:    frames,
			Duration:     duration,
		},
		Samples: samples,
	}, nil
}

// ReadBytes decodes an entire in-memory encoded stream.
func ReadBytes(data []byte, format audio.FileFormat) (*audio.DecodedFile, error) {
	src := source.NewMemory(data)
	s, err := NewBridge(src, format)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return ReadAll(s, "", format)
}

// ReadFile decodes an entire audio file into memory. For large files prefer
// the streaming bridge.
func ReadFile(path string) (*audio.DecodedFile, error) {
	src, err := source.NewFile(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	format, err := DetectFormat(src)
	if err != nil {
		return nil, err
	}
	s, err := NewBridge(src, format)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return ReadAll(s, filepath.Base(path), format)
}
