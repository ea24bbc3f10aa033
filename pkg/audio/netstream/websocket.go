// ABOUTME: WebSocket PCM/Opus source
// ABOUTME: Turns pushed websocket frames into an audio.Source
package netstream

import (
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
	"github.com/wavepipe/wavepipe-go/pkg/audio/decode"
)

// WSCodec identifies how the binary websocket messages are encoded.
type WSCodec int

const (
	// WSCodecPCM16 is raw interleaved 16-bit little-endian PCM.
	WSCodecPCM16 WSCodec = iota
	// WSCodecOpus is one Opus packet per websocket message.
	WSCodecOpus
)

// WSConfig describes the stream a websocket sender pushes.
type WSConfig struct {
	Channels   int
	SampleRate int
	Codec      WSCodec

	// Dialer overrides the websocket dialer.
	Dialer *websocket.Dialer
}

// WebSocketSource reads binary audio messages from a websocket connection
// and implements audio.Source. Text messages are ignored. A connection
// error or peer close ends the source with io.EOF.
type WebSocketSource struct {
	id      string
	conn    *websocket.Conn
	format  audio.Format
	opus    *decode.OpusPacketDecoder
	pending []float32
	done    bool
}

// DialWebSocket connects to url and returns a source for the pushed audio.
func DialWebSocket(url string, cfg WSConfig) (*WebSocketSource, error) {
	if cfg.Channels <= 0 || cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: websocket stream needs channels and rate",
			audio.ErrInvalidConfig)
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	s := &WebSocketSource{
		id:   uuid.New().String(),
		conn: conn,
		format: audio.Format{
			SampleFormat: audio.FormatS16,
			Channels:     cfg.Channels,
			SampleRate:   cfg.SampleRate,
		},
	}

	if cfg.Codec == WSCodecOpus {
		dec, err := decode.NewOpusPacket(cfg.SampleRate, cfg.Channels)
		if err != nil {
			conn.Close()
			return nil, err
		}
		s.opus = dec
		s.format.SampleFormat = audio.FormatF32
	}

	log.Printf("WebSocket stream %s connected to %s", s.id, url)
	return s, nil
}

// ID returns the connection identifier used in logs.
func (s *WebSocketSource) ID() string { return s.id }

// Format reports the stream layout declared at dial time.
func (s *WebSocketSource) Format() audio.Format { return s.format }

// ReadFrames fills dst from pending messages, pulling further websocket
// frames as needed. Exhaustion is terminal.
func (s *WebSocketSource) ReadFrames(dst []float32) (int, error) {
	ch := s.format.Channels
	want := len(dst) / ch * ch

	filled := 0
	for filled < want {
		if len(s.pending) == 0 {
			if s.done {
				break
			}
			if err := s.pull(); err != nil {
				s.done = true
				break
			}
		}
		n := copy(dst[filled:want], s.pending)
		s.pending = s.pending[n:]
		filled += n
	}

	if filled < want {
		return filled / ch, io.EOF
	}
	return filled / ch, nil
}

// pull reads one binary message and decodes it into pending samples.
func (s *WebSocketSource) pull() error {
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}
		if msgType != websocket.BinaryMessage || len(data) == 0 {
			continue
		}
		if s.opus != nil {
			s.pending, err = s.opus.Decode(data, s.pending)
			if err != nil {
				return err
			}
			return nil
		}
		samples := make([]float32, len(data)/2)
		audio.DecodeSamples(audio.FormatS16, data, samples)
		s.pending = append(s.pending, samples...)
		return nil
	}
}

// Close shuts the connection down. A concurrent ReadFrames unblocks and
// returns io.EOF.
func (s *WebSocketSource) Close() error {
	s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}
