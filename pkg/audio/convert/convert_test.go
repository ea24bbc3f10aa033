// ABOUTME: Tests for the streaming converter
// ABOUTME: Covers remixing, resampling continuity and encoded output
package convert

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// sliceSource serves a fixed sample slice as an audio.Source, optionally
// capping how many frames a single ReadFrames call may return.
type sliceSource struct {
	format   audio.Format
	samples  []float32
	maxRead  int // frames per call, 0 for unlimited
	done     bool
	failWith error // returned instead of io.EOF when the data runs out
}

func (s *sliceSource) Format() audio.Format { return s.format }

func (s *sliceSource) ReadFrames(dst []float32) (int, error) {
	if s.done {
		if s.failWith != nil {
			return 0, s.failWith
		}
		return 0, io.EOF
	}
	ch := s.format.Channels
	want := len(dst) / ch
	if s.maxRead > 0 && want > s.maxRead {
		want = s.maxRead
	}
	avail := len(s.samples) / ch
	n := want
	if avail < n {
		n = avail
	}
	copy(dst, s.samples[:n*ch])
	s.samples = s.samples[n*ch:]
	if len(s.samples) == 0 {
		s.done = true
		if s.failWith != nil {
			return n, s.failWith
		}
		return n, io.EOF
	}
	return n, nil
}

func (s *sliceSource) Close() error { return nil }

func monoRamp(frames int) []float32 {
	out := make([]float32, frames)
	for i := range out {
		out[i] = float32(i) / float32(frames)
	}
	return out
}

func drainSource(t *testing.T, src audio.Source, chunkFrames int) []float32 {
	t.Helper()
	ch := src.Format().Channels
	buf := make([]float32, chunkFrames*ch)
	var out []float32
	for {
		n, err := src.ReadFrames(buf)
		out = append(out, buf[:n*ch]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadFrames: %v", err)
		}
	}
}

func TestIdentityPassthrough(t *testing.T) {
	data := monoRamp(3000)
	src := &sliceSource{
		format:  audio.Format{SampleFormat: audio.FormatF32, Channels: 1, SampleRate: 44100},
		samples: append([]float32(nil), data...),
	}
	conv, err := New(src, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := conv.Format(); got.Channels != 1 || got.SampleRate != 44100 {
		t.Fatalf("Format() = %v, want mono 44100", got)
	}

	out := drainSource(t, conv, 512)
	if len(out) != len(data) {
		t.Fatalf("got %d samples, want %d", len(out), len(data))
	}
	for i := range out {
		if out[i] != data[i] {
			t.Fatalf("sample %d = %v, want %v", i, out[i], data[i])
		}
	}
}

func TestMonoToStereoDoublesRate(t *testing.T) {
	// 22050 Hz mono in, 44100 Hz stereo out: frame count doubles (within
	// one frame of interpolation slack) and both channels stay identical.
	const inFrames = 22050
	src := &sliceSource{
		format:  audio.Format{SampleFormat: audio.FormatS16, Channels: 1, SampleRate: 22050},
		samples: monoRamp(inFrames),
	}
	conv, err := New(src, Config{SampleRate: 44100, Channels: 2, Quality: QualityLinear})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out := drainSource(t, conv, 1024)
	frames := len(out) / 2
	if frames < 2*inFrames-2 || frames > 2*inFrames+2 {
		t.Fatalf("got %d frames, want about %d", frames, 2*inFrames)
	}
	for f := 0; f < frames; f++ {
		if out[2*f] != out[2*f+1] {
			t.Fatalf("frame %d: channels differ (%v vs %v)", f, out[2*f], out[2*f+1])
		}
	}
	// Interpolated output of a ramp is still monotonic.
	for f := 1; f < frames; f++ {
		if out[2*f] < out[2*(f-1)] {
			t.Fatalf("frame %d: ramp not monotonic", f)
		}
	}
}

func TestChunkedMatchesWhole(t *testing.T) {
	data := monoRamp(10000)
	newConv := func(maxRead int) *Converter {
		src := &sliceSource{
			format:  audio.Format{SampleFormat: audio.FormatF32, Channels: 1, SampleRate: 48000},
			samples: append([]float32(nil), data...),
			maxRead: maxRead,
		}
		conv, err := New(src, Config{SampleRate: 44100, Quality: QualityLinear})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return conv
	}

	whole := drainSource(t, newConv(0), len(data)*2)

	// Awkward chunk sizes on both sides of the converter must produce the
	// identical sample sequence.
	for _, chunk := range []int{1, 7, 100, 1023} {
		got := drainSource(t, newConv(131), chunk)
		if len(got) != len(whole) {
			t.Fatalf("chunk %d: got %d samples, want %d", chunk, len(got), len(whole))
		}
		for i := range got {
			if got[i] != whole[i] {
				t.Fatalf("chunk %d: sample %d = %v, want %v", chunk, i, got[i], whole[i])
			}
		}
	}
}

func TestRemix(t *testing.T) {
	frame := []float32{0.5, -0.25, 0.75, 0.1}

	tests := []struct {
		name    string
		in, out int
		mode    audio.ChannelMixMode
		weights [][]float32
		want    []float32
	}{
		{
			name: "stereo to mono average",
			in:   2, out: 1, mode: audio.MixAverage,
			want: []float32{0.125},
		},
		{
			name: "quad to stereo average",
			in:   4, out: 2, mode: audio.MixAverage,
			want: []float32{0.125, 0.425},
		},
		{
			name: "stereo to quad simple",
			in:   2, out: 4, mode: audio.MixSimple,
			want: []float32{0.5, -0.25, -0.25, -0.25},
		},
		{
			name: "quad to stereo simple",
			in:   4, out: 2, mode: audio.MixSimple,
			want: []float32{0.5, -0.25},
		},
		{
			name: "custom matrix",
			in:   2, out: 1, mode: audio.MixCustom,
			weights: [][]float32{{1, 0}},
			want:    []float32{0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newRemixer(tt.in, tt.out, tt.mode, tt.weights)
			if err != nil {
				t.Fatalf("newRemixer: %v", err)
			}
			got := m.remix(frame[:tt.in], 1)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d samples, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-6 {
					t.Fatalf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	src := &sliceSource{
		format:  audio.Format{SampleFormat: audio.FormatF32, Channels: 2, SampleRate: 44100},
		samples: make([]float32, 64),
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative channels", Config{Channels: -1}},
		{"custom without weights", Config{Channels: 1, MixMode: audio.MixCustom}},
		{"weight row wrong width", Config{Channels: 1, MixMode: audio.MixCustom,
			Weights: [][]float32{{1, 0, 0}}}},
		{"bad quality", Config{SampleRate: 22050, Quality: Quality(99)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(src, tt.cfg); !errors.Is(err, audio.ErrInvalidConfig) {
				t.Fatalf("New() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestUpstreamErrorPropagates(t *testing.T) {
	decodeErr := audio.NewDecodeError("mp3 decode", errors.New("bad frame"))
	src := &sliceSource{
		format:   audio.Format{SampleFormat: audio.FormatS16, Channels: 1, SampleRate: 44100},
		samples:  monoRamp(500),
		failWith: decodeErr,
	}
	conv, err := New(src, Config{SampleRate: 22050, Quality: QualityLinear})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	buf := make([]float32, 4096)
	var last error
	for i := 0; i < 10; i++ {
		_, last = conv.ReadFrames(buf)
		if last != nil {
			break
		}
	}
	if !audio.IsDecodeError(last) {
		t.Fatalf("error = %v, want DecodeError", last)
	}
	if n, err := conv.ReadFrames(buf); n != 0 || !audio.IsDecodeError(err) {
		t.Fatalf("after failure got (%d, %v), want (0, DecodeError)", n, err)
	}
}

func TestExhaustionIsTerminal(t *testing.T) {
	src := &sliceSource{
		format:  audio.Format{SampleFormat: audio.FormatF32, Channels: 2, SampleRate: 44100},
		samples: make([]float32, 200),
	}
	conv, err := New(src, Config{Channels: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	drainSource(t, conv, 64)
	for i := 0; i < 3; i++ {
		if n, err := conv.ReadFrames(make([]float32, 64)); n != 0 || err != io.EOF {
			t.Fatalf("call %d after exhaustion got (%d, %v), want (0, io.EOF)", i, n, err)
		}
	}
}

func TestReadEncoded(t *testing.T) {
	data := []float32{0, 0.5, -0.5, 1.0}
	src := &sliceSource{
		format:  audio.Format{SampleFormat: audio.FormatF32, Channels: 1, SampleRate: 44100},
		samples: data,
	}
	conv, err := New(src, Config{Dither: audio.DitherTriangle})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dst := make([]byte, len(data)*2)
	n, _ := conv.ReadEncoded(dst, audio.FormatS16)
	if n != len(data) {
		t.Fatalf("ReadEncoded frames = %d, want %d", n, len(data))
	}

	clean := make([]byte, len(dst))
	audio.EncodeSamples(audio.FormatS16, data, clean)
	for f := 0; f < n; f++ {
		got := int16(uint16(dst[2*f]) | uint16(dst[2*f+1])<<8)
		want := int16(uint16(clean[2*f]) | uint16(clean[2*f+1])<<8)
		diff := int(got) - int(want)
		if diff < -2 || diff > 2 {
			t.Fatalf("frame %d: encoded %d, undithered %d, off by %d", f, got, want, diff)
		}
	}
}

func TestReadEncodedNoDitherWhenWidening(t *testing.T) {
	// Source is 16-bit native; encoding to 32-bit must be exact.
	data := []float32{0.25, -0.125}
	src := &sliceSource{
		format:  audio.Format{SampleFormat: audio.FormatS16, Channels: 1, SampleRate: 8000},
		samples: append([]float32(nil), data...),
	}
	conv, err := New(src, Config{Dither: audio.DitherTriangle})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dst := make([]byte, len(data)*4)
	if n, _ := conv.ReadEncoded(dst, audio.FormatS32); n != len(data) {
		t.Fatalf("ReadEncoded frames = %d, want %d", n, len(data))
	}
	want := make([]byte, len(dst))
	audio.EncodeSamples(audio.FormatS32, data, want)
	for i := range dst {
		if dst[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, dst[i], want[i])
		}
	}
}
