// ABOUTME: Opus packet decoder
// ABOUTME: Decodes individually framed opus packets for network transports
package decode

import (
	"github.com/wavepipe/wavepipe-go/pkg/audio"
	opus "gopkg.in/hraban/opus.v2"
)

// maxOpusFrame is the largest possible opus frame: 120ms at 48kHz.
const maxOpusFrame = 5760

// OpusPacketDecoder decodes opus packets to PCM frames. Unlike the
// ByteSource codecs, packets arrive individually framed (one websocket
// message, one packet), so this type exposes a per-packet Decode instead of
// implementing audio.Source.
type OpusPacketDecoder struct {
	dec    *opus.Decoder
	format audio.Format
	pcm    []int16
}

// NewOpusPacket creates a packet decoder for the given stream parameters.
func NewOpusPacket(sampleRate, channels int) (*OpusPacketDecoder, error) {
	format := audio.Format{
		SampleFormat: audio.FormatS16,
		Channels:     channels,
		SampleRate:   sampleRate,
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	dec, err := opus.NewDecoder(sampleRate, channels)
	if err != nil {
		return nil, audio.NewDecodeError("opus open", err)
	}
	return &OpusPacketDecoder{
		dec:    dec,
		format: format,
		pcm:    make([]int16, maxOpusFrame*channels),
	}, nil
}

// Format describes the decoded output.
func (d *OpusPacketDecoder) Format() audio.Format { return d.format }

// Decode decodes one packet, appending the resulting interleaved float32
// samples to dst and returning the extended slice.
func (d *OpusPacketDecoder) Decode(packet []byte, dst []float32) ([]float32, error) {
	n, err := d.dec.Decode(packet, d.pcm)
	if err != nil {
		return dst, audio.NewDecodeError("opus decode", err)
	}
	samples := n * d.format.Channels
	for i := 0; i < samples; i++ {
		dst = append(dst, float32(d.pcm[i])/32768.0)
	}
	return dst, nil
}

// DecodeBytes decodes one packet straight to raw little-endian s16 bytes.
func (d *OpusPacketDecoder) DecodeBytes(packet []byte) ([]byte, error) {
	n, err := d.dec.Decode(packet, d.pcm)
	if err != nil {
		return nil, audio.NewDecodeError("opus decode", err)
	}
	samples := n * d.format.Channels
	out := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		out[i*2] = byte(d.pcm[i])
		out[i*2+1] = byte(d.pcm[i] >> 8)
	}
	return out, nil
}
