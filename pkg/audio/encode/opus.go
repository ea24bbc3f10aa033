// ABOUTME: Opus packet encoder
// ABOUTME: Frames float32 samples into 20ms Opus packets
package encode

import (
	"fmt"

	"gopkg.in/hraban/opus.v2"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// maxOpusPacket is the largest packet Opus can produce.
const maxOpusPacket = 4000

// OpusPacketEncoder produces one Opus packet per 20 ms of audio, the
// counterpart of decode.OpusPacketDecoder. Samples that do not fill a whole
// frame are buffered until the next call.
type OpusPacketEncoder struct {
	encoder  *opus.Encoder
	channels int
	frameLen int // samples per frame, all channels
	pending  []int16
}

// NewOpusPacket creates an Opus encoder. The sample rate must be one Opus
// supports (8000, 12000, 16000, 24000 or 48000 Hz).
func NewOpusPacket(sampleRate, channels int) (*OpusPacketEncoder, error) {
	encoder, err := opus.NewEncoder(sampleRate, channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("create opus encoder: %w", err)
	}
	return &OpusPacketEncoder{
		encoder:  encoder,
		channels: channels,
		frameLen: sampleRate / 50 * channels, // 20ms frames
	}, nil
}

// EncodePackets converts samples into zero or more Opus packets. A partial
// trailing frame is held back for the next call.
func (e *OpusPacketEncoder) EncodePackets(samples []float32) ([][]byte, error) {
	for _, s := range samples {
		e.pending = append(e.pending, pcm16(s))
	}

	var packets [][]byte
	for len(e.pending) >= e.frameLen {
		data := make([]byte, maxOpusPacket)
		n, err := e.encoder.Encode(e.pending[:e.frameLen], data)
		if err != nil {
			return packets, audio.NewDecodeError("opus encode", err)
		}
		packets = append(packets, data[:n])
		e.pending = e.pending[:copy(e.pending, e.pending[e.frameLen:])]
	}
	return packets, nil
}

// Flush pads the buffered partial frame with silence and encodes it.
func (e *OpusPacketEncoder) Flush() ([]byte, error) {
	if len(e.pending) == 0 {
		return nil, nil
	}
	for len(e.pending) < e.frameLen {
		e.pending = append(e.pending, 0)
	}
	data := make([]byte, maxOpusPacket)
	n, err := e.encoder.Encode(e.pending, data)
	e.pending = e.pending[:0]
	if err != nil {
		return nil, audio.NewDecodeError("opus encode", err)
	}
	return data[:n], nil
}

// Close releases resources.
func (e *OpusPacketEncoder) Close() error { return nil }

func pcm16(s float32) int16 {
	if s > 1.0 {
		s = 1.0
	} else if s < -1.0 {
		s = -1.0
	}
	return int16(s * 32767)
}
