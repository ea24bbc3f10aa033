// ABOUTME: High-level playback API
// ABOUTME: Renders a frame source on the default output device
package wavepipe

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
	"github.com/wavepipe/wavepipe-go/pkg/audio/device"
	"github.com/wavepipe/wavepipe-go/pkg/audio/output"
	"github.com/wavepipe/wavepipe-go/pkg/audio/source"
)

// PlayerConfig tunes a Player. The zero value plays 16-bit on the default
// device with a 200 ms buffer.
type PlayerConfig struct {
	// SampleFormat is the hardware format. Zero selects 16-bit.
	SampleFormat audio.SampleFormat

	// BufferMillis is the device buffer length. Zero uses the device
	// package default.
	BufferMillis int

	// Backends restricts the host APIs tried for the output device.
	Backends []device.Backend

	// OnDone fires once when the source is exhausted. The device keeps
	// running silently until stopped or closed.
	OnDone func()
}

// Player renders an audio.Source on a hardware output device. The source's
// channel count and sample rate drive the device configuration; run the
// source through Stream or convert.New first to pick a different layout.
type Player struct {
	dev *device.Playback
	src audio.Source
	vol *volumeSource

	doneOnce sync.Once
	done     chan struct{}
}

// volumeSource scales frames on their way to the device. It sits between
// the caller's source and the producer so volume changes apply even though
// the device pulls raw bytes.
type volumeSource struct {
	src audio.Source

	mu     sync.Mutex
	volume int
	muted  bool
}

func (v *volumeSource) Format() audio.Format { return v.src.Format() }

func (v *volumeSource) ReadFrames(dst []float32) (int, error) {
	n, err := v.src.ReadFrames(dst)

	v.mu.Lock()
	volume, muted := v.volume, v.muted
	v.mu.Unlock()

	if muted || volume != 100 {
		scale := float32(volume) / 100.0
		if muted {
			scale = 0
		}
		for i := range dst[:n*v.src.Format().Channels] {
			dst[i] *= scale
		}
	}
	return n, err
}

func (v *volumeSource) Close() error { return v.src.Close() }

func (v *volumeSource) set(volume int, muted bool) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	v.mu.Lock()
	v.volume = volume
	v.muted = muted
	v.mu.Unlock()
}

func (v *volumeSource) get() (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.volume, v.muted
}

// NewPlayer opens an output device for src. The player is created stopped.
func NewPlayer(src audio.Source, cfg PlayerConfig) (*Player, error) {
	f := src.Format()
	sampleFormat := cfg.SampleFormat
	if sampleFormat == audio.FormatUnknown {
		sampleFormat = audio.FormatS16
	}

	vol := &volumeSource{src: src, volume: 100}
	p := &Player{src: src, vol: vol, done: make(chan struct{})}

	producer := device.NewSourceProducer(vol, sampleFormat)
	hook := device.ProducerFunc(func(dst []byte) (int, error) {
		n, err := producer.Produce(dst)
		if err == io.EOF {
			p.doneOnce.Do(func() {
				close(p.done)
				if cfg.OnDone != nil {
					go cfg.OnDone()
				}
			})
		}
		return n, err
	})

	dev, err := device.NewPlayback(hook, device.Config{
		SampleFormat:     sampleFormat,
		Channels:         f.Channels,
		SampleRate:       f.SampleRate,
		BufferSizeMillis: cfg.BufferMillis,
		Backends:         cfg.Backends,
	})
	if err != nil {
		return nil, fmt.Errorf("open playback device: %w", err)
	}
	p.dev = dev
	return p, nil
}

// Start begins playback.
func (p *Player) Start() error { return p.dev.Start() }

// Stop pauses the device; Start resumes it.
func (p *Player) Stop() error { return p.dev.Stop() }

// Running reports whether the device is started.
func (p *Player) Running() bool { return p.dev.Running() }

// Format reports the device stream layout.
func (p *Player) Format() audio.Format { return p.dev.Format() }

// Err returns the first playback pipeline error, if any.
func (p *Player) Err() error { return p.dev.Err() }

// SetVolume sets the software volume (0-100).
func (p *Player) SetVolume(volume int) {
	_, muted := p.vol.get()
	p.vol.set(volume, muted)
}

// SetMuted toggles mute without losing the volume setting.
func (p *Player) SetMuted(muted bool) {
	volume, _ := p.vol.get()
	p.vol.set(volume, muted)
}

// Wait blocks until the source is exhausted or ctx is canceled.
func (p *Player) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the device and closes the source.
func (p *Player) Close() error {
	err := p.dev.Close()
	if cerr := p.src.Close(); err == nil {
		err = cerr
	}
	return err
}

// PlayFile decodes path and plays it through the blocking oto sink,
// returning when the file ends or ctx is canceled.
func PlayFile(ctx context.Context, path string) error {
	src, err := source.NewFile(path)
	if err != nil {
		return err
	}
	defer src.Close()
	stream, err := Stream(src, StreamConfig{})
	if err != nil {
		return err
	}
	defer stream.Close()

	out := output.NewOto()
	if err := out.Open(stream.Format()); err != nil {
		return err
	}
	defer out.Close()

	log.Printf("Playing %s (%s)", path, stream.Format())

	buf := make([]float32, 1024*stream.Format().Channels)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, rerr := stream.ReadFrames(buf)
		if n > 0 {
			if werr := out.Write(buf[:n*stream.Format().Channels]); werr != nil {
				return werr
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}
