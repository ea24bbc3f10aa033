// ABOUTME: Audio output interface definition
// ABOUTME: Common interface plus software volume helpers
package output

import "github.com/wavepipe/wavepipe-go/pkg/audio"

// Output is a blocking audio sink.
type Output interface {
	// Open initializes the sink for the given stream layout.
	Open(format audio.Format) error

	// Write pushes interleaved float32 frames and blocks until the sink
	// has accepted them.
	Write(samples []float32) error

	// SetVolume sets the software volume (0-100).
	SetVolume(volume int)

	// SetMuted toggles mute without losing the volume setting.
	SetMuted(muted bool)

	// Close releases the sink. Pending audio may be dropped.
	Close() error
}

// applyVolume scales samples in place with clipping protection.
func applyVolume(samples []float32, volume int, muted bool) {
	m := volumeMultiplier(volume, muted)
	if m == 1.0 {
		return
	}
	for i, s := range samples {
		v := s * m
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		samples[i] = v
	}
}

func volumeMultiplier(volume int, muted bool) float32 {
	if muted {
		return 0.0
	}
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	return float32(volume) / 100.0
}
