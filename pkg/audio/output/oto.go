// ABOUTME: Oto-based audio output implementation
// ABOUTME: PCM playback with software volume control using the oto library
package output

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// Oto plays audio through the ebitengine/oto library. Frames are encoded to
// 16-bit, the only format oto renders reliably across platforms, and fed to
// a persistent player through a pipe so Write blocks at the speaker's pace.
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	format     audio.Format
	volume     int
	muted      bool
	ready      bool
}

// NewOto creates an oto output. Call Open before writing.
func NewOto() *Oto {
	return &Oto{volume: 100}
}

// Open initializes the speaker context. Oto allows a single context per
// process, so a format change after the first Open keeps the old rate and
// logs a warning rather than failing playback outright.
func (o *Oto) Open(format audio.Format) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := format.Validate(); err != nil {
		return err
	}

	if o.otoCtx != nil {
		if o.format.Channels == format.Channels && o.format.SampleRate == format.SampleRate {
			return nil
		}
		log.Printf("Warning: format change (%s -> %s) not supported by oto, keeping existing context",
			o.format, format)
		return nil
	}

	ctx, readyChan, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.format = format

	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = ctx.NewPlayer(o.pipeReader)
	o.player.Play()
	o.ready = true

	log.Printf("Audio output initialized: %s", format)
	return nil
}

// Write pushes interleaved frames to the speaker, blocking until the pipe
// accepts them.
func (o *Oto) Write(samples []float32) error {
	o.mu.Lock()
	if !o.ready {
		o.mu.Unlock()
		return fmt.Errorf("output not initialized")
	}
	volume, muted, w := o.volume, o.muted, o.pipeWriter
	o.mu.Unlock()

	buf := make([]float32, len(samples))
	copy(buf, samples)
	applyVolume(buf, volume, muted)

	encoded := make([]byte, len(buf)*2)
	audio.EncodeSamples(audio.FormatS16, buf, encoded)

	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}
	return nil
}

// Close releases the player and suspends the context.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
		o.ready = false
	}
	return nil
}

// SetVolume sets the volume (0-100).
func (o *Oto) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.mu.Lock()
	o.volume = volume
	o.mu.Unlock()
}

// SetMuted sets mute state.
func (o *Oto) SetMuted(muted bool) {
	o.mu.Lock()
	o.muted = muted
	o.mu.Unlock()
}

// Volume returns the current volume.
func (o *Oto) Volume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// Muted returns the mute state.
func (o *Oto) Muted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}
