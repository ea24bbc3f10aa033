// ABOUTME: Tests for device lifecycle and callback fill logic
// ABOUTME: Exercises the pure parts that need no audio hardware
package device

import (
	"errors"
	"io"
	"testing"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

func TestLifecycleTransitions(t *testing.T) {
	var lc lifecycle

	if err := lc.start(); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := lc.start(); !errors.Is(err, audio.ErrDeviceStarted) {
		t.Fatalf("double start error = %v, want ErrDeviceStarted", err)
	}
	if !lc.running() {
		t.Fatal("running() = false after start")
	}

	if wasStarted, err := lc.stop(); err != nil || !wasStarted {
		t.Fatalf("stop = (%v, %v), want (true, nil)", wasStarted, err)
	}
	if wasStarted, _ := lc.stop(); wasStarted {
		t.Fatal("second stop reported wasStarted")
	}
	if err := lc.start(); err != nil {
		t.Fatalf("restart after stop: %v", err)
	}

	if first := lc.close(); !first {
		t.Fatal("close() = false on first close")
	}
	if first := lc.close(); first {
		t.Fatal("close() = true on second close")
	}
	if err := lc.start(); !errors.Is(err, audio.ErrDeviceClosed) {
		t.Fatalf("start after close error = %v, want ErrDeviceClosed", err)
	}
	if _, err := lc.stop(); !errors.Is(err, audio.ErrDeviceClosed) {
		t.Fatalf("stop after close error = %v, want ErrDeviceClosed", err)
	}
}

// scriptedProducer returns its canned responses one call at a time.
type scriptedProducer struct {
	steps []struct {
		n    int
		err  error
		fill byte
	}
	calls int
}

func (p *scriptedProducer) Produce(dst []byte) (int, error) {
	if p.calls >= len(p.steps) {
		return 0, io.EOF
	}
	step := p.steps[p.calls]
	p.calls++
	for i := 0; i < step.n && i < len(dst); i++ {
		dst[i] = step.fill
	}
	return step.n, step.err
}

func TestFillOutputZeroFillsShortPeriod(t *testing.T) {
	p := &scriptedProducer{}
	p.steps = append(p.steps, struct {
		n    int
		err  error
		fill byte
	}{n: 4, fill: 0xAA})

	var fs fillState
	out := make([]byte, 8)
	for i := range out {
		out[i] = 0xFF // stale buffer contents
	}
	fs.fillOutput(p, out, nil)

	for i := 0; i < 4; i++ {
		if out[i] != 0xAA {
			t.Fatalf("byte %d = %#x, want produced 0xAA", i, out[i])
		}
	}
	for i := 4; i < 8; i++ {
		if out[i] != 0 {
			t.Fatalf("byte %d = %#x, want zero-filled", i, out[i])
		}
	}
}

func TestFillOutputSilentAfterEOF(t *testing.T) {
	p := &scriptedProducer{} // immediately EOF

	var fs fillState
	out := make([]byte, 16)
	fs.fillOutput(p, out, nil)
	if !fs.exhausted {
		t.Fatal("not exhausted after io.EOF")
	}

	// Later periods never call the producer again.
	before := p.calls
	for i := range out {
		out[i] = 0xFF
	}
	fs.fillOutput(p, out, nil)
	if p.calls != before {
		t.Fatal("producer called after exhaustion")
	}
	for i, b := range out {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want silence", i, b)
		}
	}
}

func TestFillOutputReportsProducerError(t *testing.T) {
	bad := errors.New("ring buffer torn")
	p := &scriptedProducer{}
	p.steps = append(p.steps, struct {
		n    int
		err  error
		fill byte
	}{n: 2, err: bad, fill: 0x01})

	var fs fillState
	var got error
	fs.fillOutput(p, make([]byte, 8), func(err error) { got = err })
	if !errors.Is(got, bad) {
		t.Fatalf("reported error = %v, want %v", got, bad)
	}
	if !fs.exhausted {
		t.Fatal("producer error must silence the stream")
	}
}

// echoPair implements Producer and Consumer over a shared FIFO, the shape
// a duplex loopback takes.
type echoPair struct {
	buf []byte
}

func (e *echoPair) Consume(data []byte) error {
	e.buf = append(e.buf, data...)
	return nil
}

func (e *echoPair) Produce(dst []byte) (int, error) {
	n := copy(dst, e.buf)
	e.buf = e.buf[n:]
	return n, nil
}

func TestDuplexCallbackDeliversCaptureFirst(t *testing.T) {
	echo := &echoPair{}
	s := &stream{producer: echo, consumer: echo}

	in := []byte{0x11, 0x22, 0x33, 0x44}
	out := make([]byte, 4)
	s.onData(out, in, 1)

	// The captured period must reach the producer side before the output
	// is filled; a loopback must echo the current period, not silence.
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("out[%d] = %#x, want echoed %#x", i, out[i], in[i])
		}
	}
	if len(echo.buf) != 0 {
		t.Fatalf("%d bytes stuck in the loopback buffer", len(echo.buf))
	}
}

func TestFillOutputResumesAfterRestart(t *testing.T) {
	p := &scriptedProducer{}
	p.steps = append(p.steps, struct {
		n    int
		err  error
		fill byte
	}{}, struct {
		n    int
		err  error
		fill byte
	}{n: 4, fill: 0xBB})

	var fs fillState
	out := make([]byte, 4)
	fs.fillOutput(p, out, nil) // zero-length read, no error: stream goes on
	if fs.exhausted {
		t.Fatal("short read without error marked the stream exhausted")
	}

	fs.exhausted = true  // producer ran dry mid-session
	fs.exhausted = false // Start clears the flag on restart
	fs.fillOutput(p, out, nil)
	if p.calls != 2 {
		t.Fatalf("producer calls = %d, want 2 after restart", p.calls)
	}
	for i := range out {
		if out[i] != 0xBB {
			t.Fatalf("byte %d = %#x, want produced 0xBB", i, out[i])
		}
	}
}

func TestSourceProducerEncodes(t *testing.T) {
	src := &fixedSource{
		format:  audio.Format{SampleFormat: audio.FormatF32, Channels: 2, SampleRate: 48000},
		samples: []float32{0, 0.5, -0.5, 1.0},
	}
	sp := NewSourceProducer(src, audio.FormatS16)

	dst := make([]byte, 8)
	n, err := sp.Produce(dst)
	if n != 8 || err != io.EOF {
		t.Fatalf("Produce = (%d, %v), want (8, io.EOF)", n, err)
	}

	want := make([]byte, 8)
	audio.EncodeSamples(audio.FormatS16, []float32{0, 0.5, -0.5, 1.0}, want)
	for i := range dst {
		if dst[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, dst[i], want[i])
		}
	}
}

func TestConfigValidate(t *testing.T) {
	base := Config{SampleFormat: audio.FormatS16, Channels: 2, SampleRate: 44100}
	if err := base.validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		change func(*Config)
	}{
		{"bad sample format", func(c *Config) { c.SampleFormat = audio.SampleFormat(42) }},
		{"zero channels", func(c *Config) { c.Channels = 0 }},
		{"negative rate", func(c *Config) { c.SampleRate = -1 }},
		{"negative buffer", func(c *Config) { c.BufferSizeMillis = -5 }},
		{"unknown backend", func(c *Config) { c.Backends = []Backend{Backend(77)} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.change(&cfg)
			if err := cfg.validate(); !errors.Is(err, audio.ErrInvalidConfig) {
				t.Fatalf("validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

// fixedSource is a minimal audio.Source over a sample slice.
type fixedSource struct {
	format  audio.Format
	samples []float32
	done    bool
}

func (s *fixedSource) Format() audio.Format { return s.format }

func (s *fixedSource) ReadFrames(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}
	n := copy(dst, s.samples)
	s.samples = s.samples[n:]
	if len(s.samples) == 0 {
		s.done = true
		return n / s.format.Channels, io.EOF
	}
	return n / s.format.Channels, nil
}

func (s *fixedSource) Close() error { return nil }
