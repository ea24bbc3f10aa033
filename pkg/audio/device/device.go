// ABOUTME: Device lifecycle and callback plumbing
// ABOUTME: Playback, capture and duplex devices over malgo
package device

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// Producer supplies raw sample bytes in the device format. Produce fills
// dst from the front and returns the number of bytes written; io.EOF marks
// the stream as finished. Produce runs on the audio thread and must not
// block for long.
type Producer interface {
	Produce(dst []byte) (int, error)
}

// Consumer receives captured sample bytes in the device format. The slice
// is only valid for the duration of the call. A non-nil error is fatal to
// the device: the stream stops and the error is reported by Err.
type Consumer interface {
	Consume(data []byte) error
}

// ProducerFunc adapts a function to the Producer interface.
type ProducerFunc func(dst []byte) (int, error)

func (f ProducerFunc) Produce(dst []byte) (int, error) { return f(dst) }

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(data []byte) error

func (f ConsumerFunc) Consume(data []byte) error { return f(data) }

type state int

const (
	stateReady state = iota
	stateStarted
	stateStopped
	stateClosed
)

// lifecycle is the started/stopped/closed state machine shared by all
// device kinds. It is locked independently of the audio thread, which never
// touches it.
type lifecycle struct {
	mu sync.Mutex
	st state
}

func (l *lifecycle) start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.st {
	case stateClosed:
		return audio.ErrDeviceClosed
	case stateStarted:
		return audio.ErrDeviceStarted
	}
	l.st = stateStarted
	return nil
}

func (l *lifecycle) stop() (wasStarted bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.st == stateClosed {
		return false, audio.ErrDeviceClosed
	}
	wasStarted = l.st == stateStarted
	l.st = stateStopped
	return wasStarted, nil
}

// close transitions to closed and reports whether this call did the work.
func (l *lifecycle) close() (first bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	first = l.st != stateClosed
	l.st = stateClosed
	return first
}

func (l *lifecycle) running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st == stateStarted
}

// stream owns the malgo context and device plus the callback-side state.
type stream struct {
	lc  lifecycle
	cfg Config

	malgoCtx *malgo.AllocatedContext
	dev      *malgo.Device

	producer Producer
	consumer Consumer
	fill     fillState

	errMu    sync.Mutex
	err      error
	stopOnce sync.Once
}

func newStream(cfg Config, kind malgo.DeviceType, p Producer, c Consumer) (*stream, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &stream{cfg: cfg, producer: p, consumer: c}

	ctx, err := malgo.InitContext(cfg.malgoBackends(), cfg.contextConfig(), nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	s.malgoCtx = ctx

	dev, err := malgo.InitDevice(ctx.Context, cfg.deviceConfig(kind), malgo.DeviceCallbacks{
		Data: s.onData,
	})
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("init device: %w", err)
	}
	s.dev = dev
	return s, nil
}

// onData runs on the audio thread for every period. Captured input is
// delivered before the output is filled, so a duplex consumer that feeds
// the producer hears the current period, not the previous one.
func (s *stream) onData(out, in []byte, frameCount uint32) {
	if s.consumer != nil && in != nil {
		if err := s.consumer.Consume(in); err != nil {
			s.reportErr(err)
			s.fatalStop()
		}
	}
	if s.producer != nil && out != nil {
		s.fill.fillOutput(s.producer, out, s.reportErr)
	}
}

func (s *stream) reportErr(err error) {
	s.errMu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errMu.Unlock()
}

// fatalStop stops the device from outside the audio thread. Stopping from
// within the callback would deadlock miniaudio.
func (s *stream) fatalStop() {
	s.stopOnce.Do(func() {
		go func() {
			if wasStarted, err := s.lc.stop(); err == nil && wasStarted {
				s.dev.Stop()
			}
		}()
	})
}

// Start begins the hardware stream. Starting an already started device
// returns ErrDeviceStarted; a closed device returns ErrDeviceClosed. A
// restart clears playback exhaustion, so a producer that has more data
// after a stop (or a rewound source) is pulled again; producers backed by
// a finished audio.Source keep returning io.EOF and stay silent.
func (s *stream) Start() error {
	if err := s.lc.start(); err != nil {
		return err
	}
	s.fill.exhausted = false
	if err := s.dev.Start(); err != nil {
		s.lc.stop()
		return fmt.Errorf("start device: %w", err)
	}
	return nil
}

// Stop halts the hardware stream. The device can be started again.
// Stopping an already stopped device is a no-op.
func (s *stream) Stop() error {
	wasStarted, err := s.lc.stop()
	if err != nil {
		return err
	}
	if !wasStarted {
		return nil
	}
	if err := s.dev.Stop(); err != nil {
		return fmt.Errorf("stop device: %w", err)
	}
	return nil
}

// Close stops the device and releases the backend. Close is idempotent and
// the device cannot be used afterwards.
func (s *stream) Close() error {
	if !s.lc.close() {
		return nil
	}
	s.dev.Uninit()
	s.malgoCtx.Uninit()
	s.malgoCtx.Free()
	return nil
}

// Running reports whether the device is currently started.
func (s *stream) Running() bool { return s.lc.running() }

// Err returns the first pipeline error seen on the audio thread, or nil.
// Producer failure and consumer failure both surface here.
func (s *stream) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Format reports the hardware stream layout.
func (s *stream) Format() audio.Format { return s.cfg.Format() }

// Playback pulls bytes from a Producer and renders them on an output
// device.
type Playback struct{ *stream }

// NewPlayback opens a playback device bound to p. The device is created
// stopped; call Start to begin rendering.
func NewPlayback(p Producer, cfg Config) (*Playback, error) {
	if p == nil {
		return nil, audio.ErrNoProducer
	}
	s, err := newStream(cfg, malgo.Playback, p, nil)
	if err != nil {
		return nil, err
	}
	return &Playback{stream: s}, nil
}

// Capture records from an input device and hands each period to c.
type Capture struct{ *stream }

// NewCapture opens a capture device bound to c.
func NewCapture(c Consumer, cfg Config) (*Capture, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: capture needs a consumer", audio.ErrInvalidConfig)
	}
	s, err := newStream(cfg, malgo.Capture, nil, c)
	if err != nil {
		return nil, err
	}
	return &Capture{stream: s}, nil
}

// Duplex runs capture and playback in lockstep: every callback first
// delivers the captured period to c, then fills the output from p. Both
// sides share one format.
type Duplex struct{ *stream }

// NewDuplex opens a full-duplex device.
func NewDuplex(p Producer, c Consumer, cfg Config) (*Duplex, error) {
	if p == nil {
		return nil, audio.ErrNoProducer
	}
	if c == nil {
		return nil, fmt.Errorf("%w: duplex needs a consumer", audio.ErrInvalidConfig)
	}
	s, err := newStream(cfg, malgo.Duplex, p, c)
	if err != nil {
		return nil, err
	}
	return &Duplex{stream: s}, nil
}
