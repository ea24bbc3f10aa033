// ABOUTME: Metadata snapshot types for probed and decoded audio files
// ABOUTME: Defines FileInfo and DecodedFile
package audio

import "fmt"

// FileInfo is an immutable metadata snapshot of an encoded audio stream,
// created once per probe or decode call.
type FileInfo struct {
	Name         string
	FileFormat   FileFormat
	Channels     int
	SampleRate   int
	SampleFormat SampleFormat
	NumFrames    int
	Duration     float64 // seconds
}

func (i FileInfo) String() string {
	return fmt.Sprintf("%s: %v %dHz %dch %v, %.2fs (%d frames)",
		i.Name, i.FileFormat, i.SampleRate, i.Channels, i.SampleFormat,
		i.Duration, i.NumFrames)
}

// DecodedFile is a fully decoded sound file. It owns its sample buffer
// exclusively and is immutable after the decode that created it. Samples are
// interleaved float32; SampleFormat records the stream's native encoding.
type DecodedFile struct {
	FileInfo
	Samples []float32
}

// Bytes re-encodes the decoded samples into raw PCM in the given format.
func (d *DecodedFile) Bytes(f SampleFormat) []byte {
	out := make([]byte, len(d.Samples)*f.Width())
	EncodeSamples(f, d.Samples, out)
	return out
}
