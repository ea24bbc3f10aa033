// ABOUTME: ICY/IceCast internet radio client
// ABOUTME: Buffers the stream ahead and strips in-band ICY metadata
package netstream

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

const (
	icyBlockSize     = 8 * 1024
	icyBufferSize    = 64 * 1024
	metadataChunkLen = 16
)

// ClientConfig tunes an ICY client. The zero value works.
type ClientConfig struct {
	// OnTitle is invoked from the download goroutine whenever the stream
	// title changes. It must not call back into the client.
	OnTitle func(title string)

	// ReadTimeout bounds each Read when the buffer is empty. Zero blocks
	// until data arrives or the stream ends.
	ReadTimeout time.Duration

	// BufferSize is the read-ahead buffer in bytes. Zero selects 64 KiB.
	BufferSize int

	// HTTPClient overrides the client used for the stream request.
	HTTPClient *http.Client
}

// Client streams an IceCast/Shoutcast station and implements
// audio.ByteSource. Reads return the audio bytes only; metadata blocks are
// consumed by the download goroutine.
type Client struct {
	url string
	cfg ClientConfig

	stationName string
	genre       string
	audioInfo   string
	fileFormat  audio.FileFormat

	buf    *ring
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	title string

	closeOnce sync.Once
}

// Connect opens the stream and starts buffering in the background. The
// station headers are available as soon as Connect returns; the title
// updates as metadata blocks arrive.
func Connect(url string, cfg ClientConfig) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("icecast request: %w", err)
	}
	req.Header.Set("Icy-MetaData", "1")

	resp, err := httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("icecast connect: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("icecast connect: unexpected status %s", resp.Status)
	}

	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = icyBufferSize
	}

	c := &Client{
		url:         url,
		cfg:         cfg,
		stationName: resp.Header.Get("icy-name"),
		genre:       resp.Header.Get("icy-genre"),
		audioInfo:   resp.Header.Get("ice-audio-info"),
		fileFormat:  formatFromContentType(resp.Header.Get("Content-Type")),
		buf:         newRing(bufSize),
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	metaInterval, _ := strconv.Atoi(resp.Header.Get("icy-metaint"))
	go c.download(resp.Body, metaInterval)

	return c, nil
}

// formatFromContentType maps a stream MIME type to a decodable format.
func formatFromContentType(contentType string) audio.FileFormat {
	mime, _, _ := strings.Cut(contentType, ";")
	mime = strings.TrimSpace(mime)
	switch {
	case mime == "audio/mpeg":
		return audio.FileMP3
	case mime == "audio/flac":
		return audio.FileFLAC
	case strings.HasSuffix(mime, "/ogg"):
		return audio.FileVorbis
	case mime == "audio/wav" || mime == "audio/x-wav":
		return audio.FileWAV
	}
	return audio.FileUnknown
}

// download runs until the connection drops or the client is closed. The
// ring buffer's bounded capacity throttles it to playback speed. Any
// failure ends the stream as io.EOF for the reader.
func (c *Client) download(body io.ReadCloser, metaInterval int) {
	defer close(c.done)
	defer body.Close()
	defer c.buf.closeWrite()

	if metaInterval <= 0 {
		chunk := make([]byte, icyBlockSize)
		for {
			n, err := body.Read(chunk)
			if n > 0 {
				if _, werr := c.buf.write(chunk[:n]); werr != nil {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}

	// The metadata interval is fixed for the whole stream: every
	// metaInterval audio bytes are followed by one length byte and
	// length*16 bytes of metadata.
	chunk := make([]byte, metaInterval)
	meta := make([]byte, 255*metadataChunkLen)
	for {
		if _, err := io.ReadFull(body, chunk); err != nil {
			return
		}
		if _, err := c.buf.write(chunk); err != nil {
			return
		}

		var lenByte [1]byte
		if _, err := io.ReadFull(body, lenByte[:]); err != nil {
			return
		}
		metaLen := int(lenByte[0]) * metadataChunkLen
		if metaLen == 0 {
			continue
		}
		if _, err := io.ReadFull(body, meta[:metaLen]); err != nil {
			return
		}
		c.handleMetadata(string(trimNUL(meta[:metaLen])))
	}
}

func (c *Client) handleMetadata(metadata string) {
	if metadata == "" {
		return
	}
	title, ok := parseICYMetadata(metadata)["StreamTitle"]
	if !ok {
		return
	}

	c.mu.Lock()
	changed := title != c.title
	c.title = title
	c.mu.Unlock()

	if changed {
		log.Printf("Stream title: %s", title)
		if c.cfg.OnTitle != nil {
			c.cfg.OnTitle(title)
		}
	}
}

// parseICYMetadata splits "StreamTitle='...';StreamUrl='...';" into keys
// and values, unescaping HTML entities first.
func parseICYMetadata(metadata string) map[string]string {
	meta := make(map[string]string)
	for _, part := range strings.Split(html.UnescapeString(metadata), ";") {
		key, value, _ := strings.Cut(part, "=")
		if key != "" {
			meta[key] = strings.Trim(value, "'")
		}
	}
	return meta
}

func trimNUL(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return b
}

// Read fills p with buffered audio bytes, blocking until the requested
// amount has been downloaded. When the connection has died it returns the
// drained remainder, then io.EOF.
func (c *Client) Read(p []byte) (int, error) {
	var deadline time.Time
	if c.cfg.ReadTimeout > 0 {
		deadline = time.Now().Add(c.cfg.ReadTimeout)
	}
	total := 0
	for total < len(p) {
		n, err := c.buf.read(p[total:], deadline)
		total += n
		if err == io.EOF && total > 0 {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Seek always reports false: radio streams are not seekable.
func (c *Client) Seek(offset int64, origin audio.SeekOrigin) bool { return false }

// Close aborts the download and waits for the background goroutine to
// finish. It is safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		c.buf.close()
		<-c.done
	})
	return nil
}

// StationName returns the icy-name header, if the station sent one.
func (c *Client) StationName() string { return c.stationName }

// Genre returns the icy-genre header.
func (c *Client) Genre() string { return c.genre }

// AudioInfo returns the ice-audio-info header, typically bitrate and rate.
func (c *Client) AudioInfo() string { return c.audioInfo }

// FileFormat reports the codec implied by the stream's Content-Type.
func (c *Client) FileFormat() audio.FileFormat { return c.fileFormat }

// Title returns the most recent stream title, or "" before the first
// metadata block arrives.
func (c *Client) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}
