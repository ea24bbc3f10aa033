// ABOUTME: Tests for the WAV codec wrapper and the decoder bridge
// ABOUTME: Uses generated in-memory RIFF fixtures
package decode

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
	"github.com/wavepipe/wavepipe-go/pkg/audio/source"
)

// makeWAV builds a canonical 44-byte-header PCM16 RIFF/WAVE stream.
func makeWAV(channels, rate int, samples []int16) []byte {
	var buf bytes.Buffer
	dataLen := len(samples) * 2
	blockAlign := channels * 2

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(&buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

// sineWAV generates one second of 440Hz mono sine at the given rate.
func sineWAV(rate int) []byte {
	samples := make([]int16, rate)
	for i := range samples {
		samples[i] = int16(16000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	return makeWAV(1, rate, samples)
}

func TestProbeOneSecondMonoWAV(t *testing.T) {
	src := source.NewMemory(sineWAV(44100))
	info, err := Probe(src, "tone.wav", audio.FileUnknown)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}

	if info.NumFrames != 44100 {
		t.Errorf("expected 44100 frames, got %d", info.NumFrames)
	}
	if info.Duration != 1.0 {
		t.Errorf("expected duration 1.0, got %v", info.Duration)
	}
	if info.Channels != 1 || info.SampleRate != 44100 {
		t.Errorf("unexpected format: %dch %dHz", info.Channels, info.SampleRate)
	}
	if info.SampleFormat != audio.FormatS16 {
		t.Errorf("expected s16, got %v", info.SampleFormat)
	}
	if info.FileFormat != audio.FileWAV {
		t.Errorf("expected wav, got %v", info.FileFormat)
	}
}

func TestWAVChunkedStreaming(t *testing.T) {
	src := source.NewMemory(sineWAV(44100))
	s, err := NewBridge(src, audio.FileWAV)
	if err != nil {
		t.Fatalf("bridge failed: %v", err)
	}
	defer s.Close()

	const chunkFrames = 1024
	dst := make([]float32, chunkFrames)

	var chunks []int
	total := 0
	for {
		n, err := s.ReadFrames(dst)
		if n > 0 {
			chunks = append(chunks, n)
			total += n
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if n == 0 {
			break
		}
	}

	if total != 44100 {
		t.Errorf("expected 44100 total frames, got %d", total)
	}
	if len(chunks) != 44 {
		t.Errorf("expected 44 chunks, got %d", len(chunks))
	}
	if last := chunks[len(chunks)-1]; last != 908 {
		t.Errorf("expected final chunk of 908 frames, got %d", last)
	}
	for i, c := range chunks[:len(chunks)-1] {
		if c != chunkFrames {
			t.Errorf("chunk %d: expected %d frames, got %d", i, chunkFrames, c)
		}
	}
}

func TestBridgeExhaustionIsTerminal(t *testing.T) {
	src := source.NewMemory(makeWAV(1, 8000, make([]int16, 100)))
	s, err := NewBridge(src, audio.FileWAV)
	if err != nil {
		t.Fatalf("bridge failed: %v", err)
	}
	defer s.Close()

	dst := make([]float32, 4096)
	for {
		n, err := s.ReadFrames(dst)
		if err == io.EOF || n == 0 {
			break
		}
	}

	// Idempotent EOF: every further pull yields empty.
	for i := 0; i < 5; i++ {
		n, err := s.ReadFrames(dst)
		if n != 0 || err != io.EOF {
			t.Fatalf("pull after exhaustion %d: expected (0, EOF), got (%d, %v)", i, n, err)
		}
	}
}

func TestWAVSampleValues(t *testing.T) {
	samples := []int16{0, 16384, -16384, 32767}
	src := source.NewMemory(makeWAV(2, 44100, samples))
	s, err := NewBridge(src, audio.FileWAV)
	if err != nil {
		t.Fatalf("bridge failed: %v", err)
	}
	defer s.Close()

	dst := make([]float32, 4)
	n, err := s.ReadFrames(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("read failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 stereo frames, got %d", n)
	}

	want := []float32{0, 0.5, -0.5, float32(32767) / 32768}
	for i := range want {
		if math.Abs(float64(dst[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], dst[i])
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   audio.FileFormat
		ok     bool
	}{
		{"wav", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), audio.FileWAV, true},
		{"flac", []byte("fLaC\x00\x00\x00\x22padpad"), audio.FileFLAC, true},
		{"ogg", []byte("OggS\x00\x02padpadpad"), audio.FileVorbis, true},
		{"mp3 id3", []byte("ID3\x04\x00padpadpadp"), audio.FileMP3, true},
		{"mp3 sync", []byte{0xFF, 0xFB, 0x90, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}, audio.FileMP3, true},
		{"garbage", []byte("not audio at"), audio.FileUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := source.NewMemory(tt.header)
			got, err := DetectFormat(src)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected error for unknown format")
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			// The sniff must restore the stream position.
			buf := make([]byte, 4)
			if _, err := io.ReadFull(src, buf); err != nil {
				t.Fatalf("read after detect failed: %v", err)
			}
			if !bytes.Equal(buf, tt.header[:4]) {
				t.Error("detect did not restore stream position")
			}
		})
	}
}

func TestReadBytesWholeFile(t *testing.T) {
	samples := []int16{100, 200, 300, 400, 500, 600}
	decoded, err := ReadBytes(makeWAV(2, 22050, samples), audio.FileUnknown)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded.NumFrames != 3 {
		t.Errorf("expected 3 frames, got %d", decoded.NumFrames)
	}
	if decoded.Channels != 2 || decoded.SampleRate != 22050 {
		t.Errorf("unexpected format: %dch %dHz", decoded.Channels, decoded.SampleRate)
	}
	if len(decoded.Samples) != 6 {
		t.Errorf("expected 6 samples, got %d", len(decoded.Samples))
	}

	// Re-encoding to the native format reproduces the original data.
	raw := decoded.Bytes(audio.FormatS16)
	for i, s := range samples {
		got := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		if got != s {
			t.Errorf("sample %d: expected %d, got %d", i, s, got)
		}
	}
}

func TestNewBridgeAtWAVStartsMidStream(t *testing.T) {
	samples := make([]int16, 2000)
	for i := range samples {
		samples[i] = int16(i)
	}
	src := source.NewMemory(makeWAV(1, 8000, samples))

	const start = 750
	s, err := NewBridgeAt(src, audio.FileWAV, start)
	if err != nil {
		t.Fatalf("open at offset failed: %v", err)
	}
	defer s.Close()

	dst := make([]float32, 100)
	n, err := s.ReadFrames(dst)
	if err != nil && err != io.EOF {
		t.Fatalf("read failed: %v", err)
	}
	if n != 100 {
		t.Fatalf("expected 100 frames, got %d", n)
	}
	for i := 0; i < n; i++ {
		want := float32(samples[start+i]) / 32768.0
		if dst[i] != want {
			t.Fatalf("frame %d: expected %v, got %v", i, want, dst[i])
		}
	}
}

func TestNewBridgeAtPastEndIsExhausted(t *testing.T) {
	src := source.NewMemory(makeWAV(1, 8000, make([]int16, 50)))
	s, err := NewBridgeAt(src, audio.FileWAV, 500)
	if err != nil {
		t.Fatalf("open past end failed: %v", err)
	}
	defer s.Close()

	dst := make([]float32, 16)
	n, err := s.ReadFrames(dst)
	if n != 0 || err != io.EOF {
		t.Fatalf("expected (0, EOF) past the end, got (%d, %v)", n, err)
	}
}

func TestNewBridgeUnsupportedFormat(t *testing.T) {
	src := source.NewMemory([]byte("garbage 12 bytes"))
	_, err := NewBridge(src, audio.FileFormat(99))
	if err == nil {
		t.Fatal("expected error for unregistered format")
	}
	if !audio.IsDecodeError(err) {
		t.Errorf("expected DecodeError, got %T", err)
	}
}

func TestNewBridgeCorruptWAV(t *testing.T) {
	// Valid magic, truncated body: construction must fail fast.
	src := source.NewMemory([]byte("RIFF\x24\x00\x00\x00WAVEfmt "))
	_, err := NewBridge(src, audio.FileWAV)
	if err == nil {
		t.Fatal("expected error for corrupt stream")
	}
	if !audio.IsDecodeError(err) {
		t.Errorf("expected DecodeError, got %T", err)
	}
}
