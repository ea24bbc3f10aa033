// ABOUTME: Sample format and container format descriptors
// ABOUTME: Defines SampleFormat, FileFormat, mix/dither modes and Format
package audio

import "fmt"

// SampleFormat identifies the binary encoding of a single PCM sample.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatU8                   // unsigned 8-bit
	FormatS16                  // signed 16-bit little-endian
	FormatS24                  // signed 24-bit little-endian, packed
	FormatS32                  // signed 32-bit little-endian
	FormatF32                  // 32-bit IEEE float little-endian
)

// Width returns the byte width of one sample in this format.
func (f SampleFormat) Width() int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatS24:
		return 3
	case FormatS32, FormatF32:
		return 4
	}
	return 0
}

func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatS16:
		return "s16"
	case FormatS24:
		return "s24"
	case FormatS32:
		return "s32"
	case FormatF32:
		return "f32"
	}
	return "unknown"
}

// FileFormat identifies an encoded audio container/codec.
type FileFormat int

const (
	FileUnknown FileFormat = iota
	FileWAV
	FileFLAC
	FileMP3
	FileVorbis
)

func (f FileFormat) String() string {
	switch f {
	case FileWAV:
		return "wav"
	case FileFLAC:
		return "flac"
	case FileMP3:
		return "mp3"
	case FileVorbis:
		return "ogg vorbis"
	}
	return "unknown"
}

// ChannelMixMode selects how the converter remixes channel counts.
type ChannelMixMode int

const (
	// MixAverage spreads every input channel evenly over the output
	// channels (rectangular weighting).
	MixAverage ChannelMixMode = iota
	// MixSimple drops excess channels or duplicates the last one.
	MixSimple
	// MixCustom uses a caller-supplied weight matrix.
	MixCustom
)

// DitherMode selects the noise shape applied when narrowing bit depth.
type DitherMode int

const (
	DitherNone DitherMode = iota
	DitherRectangle
	DitherTriangle
)

// SeekOrigin is the reference point for ByteSource.Seek.
type SeekOrigin int

const (
	SeekStart SeekOrigin = iota
	SeekCurrent
)

// Format describes a PCM stream: sample encoding, channel count and rate.
type Format struct {
	SampleFormat SampleFormat
	Channels     int
	SampleRate   int
}

// FrameBytes returns the byte size of one interleaved frame.
func (f Format) FrameBytes() int {
	return f.SampleFormat.Width() * f.Channels
}

// Validate reports a configuration error for impossible formats.
func (f Format) Validate() error {
	if f.Channels <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidConfig, f.Channels)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, f.SampleRate)
	}
	if f.SampleFormat.Width() == 0 {
		return fmt.Errorf("%w: sample format %v", ErrInvalidConfig, f.SampleFormat)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz %dch %v", f.SampleRate, f.Channels, f.SampleFormat)
}
