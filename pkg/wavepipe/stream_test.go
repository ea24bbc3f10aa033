// ABOUTME: Stream helper tests
// ABOUTME: Verifies the decode-convert chain over an in-memory WAV
package wavepipe

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
	"github.com/wavepipe/wavepipe-go/pkg/audio/source"
)

// wav16 builds a minimal PCM WAV file from 16-bit samples.
func wav16(sampleRate, channels int, samples []int16) []byte {
	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	var buf bytes.Buffer
	dataLen := data.Len()
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(data.Bytes())
	return buf.Bytes()
}

func TestStreamDecodesAndConverts(t *testing.T) {
	// 100 frames of mono 22050 Hz, streamed out as stereo 44100 Hz.
	samples := make([]int16, 100)
	for i := range samples {
		samples[i] = int16(i * 100)
	}
	src := source.NewMemory(wav16(22050, 1, samples))

	stream, err := Stream(src, StreamConfig{SampleRate: 44100, Channels: 2})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer stream.Close()

	f := stream.Format()
	if f.Channels != 2 || f.SampleRate != 44100 {
		t.Fatalf("Format() = %v, want stereo 44100", f)
	}
	if f.SampleFormat != audio.FormatS16 {
		t.Fatalf("native sample format = %v, want s16", f.SampleFormat)
	}

	var total int
	buf := make([]float32, 64)
	for {
		n, err := stream.ReadFrames(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadFrames: %v", err)
		}
	}
	if total < 195 || total > 205 {
		t.Fatalf("got %d frames, want about 200", total)
	}
}

func TestStreamNativeLayoutByDefault(t *testing.T) {
	src := source.NewMemory(wav16(8000, 2, make([]int16, 32)))
	stream, err := Stream(src, StreamConfig{})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer stream.Close()

	if f := stream.Format(); f.Channels != 2 || f.SampleRate != 8000 {
		t.Fatalf("Format() = %v, want native stereo 8000", f)
	}
}

func TestStreamRejectsGarbage(t *testing.T) {
	src := source.NewMemory([]byte("this is not audio data at all"))
	if _, err := Stream(src, StreamConfig{}); !errors.Is(err, audio.ErrUnsupportedFormat) {
		t.Fatalf("Stream() error = %v, want ErrUnsupportedFormat", err)
	}
}
