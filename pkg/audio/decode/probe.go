// ABOUTME: Stream metadata probing
// ABOUTME: Returns FileInfo without decoding audio payload
package decode

import (
	"path/filepath"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
	"github.com/wavepipe/wavepipe-go/pkg/audio/source"
)

// Probe initializes a codec on src and returns the stream's metadata
// snapshot. The stream position is consumed up to the start of audio data;
// re-seek (or reopen) before decoding. Frame counts are zero only when the
// source cannot seek (network streams), where mp3 and vorbis have no way
// to learn the total length.
func Probe(src audio.ByteSource, name string, format audio.FileFormat) (audio.FileInfo, error) {
	s, err := NewBridge(src, format)
	if err != nil {
		return audio.FileInfo{}, err
	}
	defer s.Close()

	ss, ok := s.(streamSource)
	if !ok {
		return audio.FileInfo{}, audio.NewDecodeError("probe", audio.ErrUnsupportedFormat)
	}
	info := ss.info()
	info.Name = name
	return info, nil
}

// ProbeFile returns the metadata snapshot for an audio file on disk.
func ProbeFile(path string) (audio.FileInfo, error) {
	src, err := source.NewFile(path)
	if err != nil {
		return audio.FileInfo{}, err
	}
	defer src.Close()
	return Probe(src, filepath.Base(path), audio.FileUnknown)
}
