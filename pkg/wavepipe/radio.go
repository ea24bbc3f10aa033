// ABOUTME: Internet radio convenience
// ABOUTME: Connects an ICY station to a playback device
package wavepipe

import (
	"context"
	"fmt"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
	"github.com/wavepipe/wavepipe-go/pkg/audio/netstream"
)

// RadioConfig tunes an internet radio session.
type RadioConfig struct {
	// OnTitle is called when the station announces a new track.
	OnTitle func(title string)

	// SampleRate and Channels override the device layout. Zero keeps the
	// station's native stream layout.
	SampleRate int
	Channels   int

	// BufferMillis is the device buffer length.
	BufferMillis int
}

// Radio is a playing internet radio station.
type Radio struct {
	client *netstream.Client
	player *Player
}

// OpenRadio connects to an ICY station, decodes its stream and binds it to
// an output device. The radio is created stopped; call Start.
func OpenRadio(url string, cfg RadioConfig) (*Radio, error) {
	client, err := netstream.Connect(url, netstream.ClientConfig{OnTitle: cfg.OnTitle})
	if err != nil {
		return nil, err
	}
	if client.FileFormat() == audio.FileUnknown {
		client.Close()
		return nil, fmt.Errorf("%w: station did not announce a known codec",
			audio.ErrUnsupportedFormat)
	}

	stream, err := Stream(client, StreamConfig{
		FileFormat: client.FileFormat(),
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	player, err := NewPlayer(stream, PlayerConfig{BufferMillis: cfg.BufferMillis})
	if err != nil {
		stream.Close()
		return nil, err
	}
	return &Radio{client: client, player: player}, nil
}

// Start begins playback.
func (r *Radio) Start() error { return r.player.Start() }

// Stop pauses playback. The station keeps buffering in the background.
func (r *Radio) Stop() error { return r.player.Stop() }

// Running reports whether audio is being rendered.
func (r *Radio) Running() bool { return r.player.Running() }

// StationName returns the station's icy-name header.
func (r *Radio) StationName() string { return r.client.StationName() }

// Genre returns the station's icy-genre header.
func (r *Radio) Genre() string { return r.client.Genre() }

// AudioInfo returns the station's ice-audio-info header.
func (r *Radio) AudioInfo() string { return r.client.AudioInfo() }

// Codec returns the stream's announced file format.
func (r *Radio) Codec() audio.FileFormat { return r.client.FileFormat() }

// Format reports the device stream layout after conversion.
func (r *Radio) Format() audio.Format { return r.player.Format() }

// Title returns the current track title.
func (r *Radio) Title() string { return r.client.Title() }

// SetVolume sets the playback volume (0-100).
func (r *Radio) SetVolume(volume int) { r.player.SetVolume(volume) }

// SetMuted toggles mute.
func (r *Radio) SetMuted(muted bool) { r.player.SetMuted(muted) }

// Err returns the first playback pipeline error, if any.
func (r *Radio) Err() error { return r.player.Err() }

// Wait blocks until the stream ends or ctx is canceled.
func (r *Radio) Wait(ctx context.Context) error { return r.player.Wait(ctx) }

// Close tears the whole chain down: device, converter, decoder and the
// network connection.
func (r *Radio) Close() error {
	err := r.player.Close()
	r.client.Close()
	return err
}
