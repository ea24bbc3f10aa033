// ABOUTME: Streaming converter core
// ABOUTME: Wraps a Source and re-emits remixed, resampled, re-encoded frames
package convert

import (
	"fmt"
	"io"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// inputChunkFrames is how many upstream frames the converter pulls per pump.
const inputChunkFrames = 1024

// Config describes the target stream a Converter produces.
type Config struct {
	// SampleRate is the output rate in Hz. Zero keeps the source rate.
	SampleRate int

	// Channels is the output channel count. Zero keeps the source layout.
	Channels int

	// MixMode selects how channels are combined when Channels differs from
	// the source. MixCustom requires Weights.
	MixMode audio.ChannelMixMode

	// Weights is the [output][input] mix matrix for MixCustom.
	Weights [][]float32

	// Quality selects the resampling algorithm when SampleRate differs
	// from the source.
	Quality Quality

	// Dither is applied by ReadEncoded when the target sample format is
	// narrower than the source's native format.
	Dither audio.DitherMode
}

// Converter adapts a Source to a different channel count and sample rate.
// It implements audio.Source itself, so converters stack and feed anything
// downstream that consumes frames.
type Converter struct {
	src       audio.Source
	srcFormat audio.Format
	outFormat audio.Format

	remix    *remixer
	resample frameResampler
	dither   *ditherer

	inBuf     []float32 // upstream read buffer, inputChunkFrames frames
	carry     []float32 // converted samples not yet handed out
	encodeBuf []float32 // staging for ReadEncoded

	exhausted bool
	err       error // sticky upstream failure
}

// New wraps src in a Converter producing cfg's format. The source's native
// SampleFormat is preserved in the reported format so callers can re-encode
// at the original width.
func New(src audio.Source, cfg Config) (*Converter, error) {
	sf := src.Format()
	if err := sf.Validate(); err != nil {
		return nil, err
	}

	outCh := cfg.Channels
	if outCh == 0 {
		outCh = sf.Channels
	}
	outRate := cfg.SampleRate
	if outRate == 0 {
		outRate = sf.SampleRate
	}
	if outCh < 0 || outRate < 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", audio.ErrInvalidConfig, outCh, outRate)
	}

	remix, err := newRemixer(sf.Channels, outCh, cfg.MixMode, cfg.Weights)
	if err != nil {
		return nil, err
	}

	var rs frameResampler
	switch {
	case outRate == sf.SampleRate:
		rs = identityResampler{}
	case cfg.Quality == QualityLinear:
		rs = newLinearResampler(outCh, sf.SampleRate, outRate)
	case cfg.Quality == QualitySinc:
		rs = newSincResampler(outCh, sf.SampleRate, outRate)
	default:
		return nil, fmt.Errorf("%w: resample quality %d", audio.ErrInvalidConfig, cfg.Quality)
	}

	return &Converter{
		src:       src,
		srcFormat: sf,
		outFormat: audio.Format{
			SampleFormat: sf.SampleFormat,
			Channels:     outCh,
			SampleRate:   outRate,
		},
		remix:    remix,
		resample: rs,
		dither:   newDitherer(cfg.Dither),
		inBuf:    make([]float32, inputChunkFrames*sf.Channels),
	}, nil
}

// Format reports the output layout. SampleFormat carries through from the
// source unchanged.
func (c *Converter) Format() audio.Format { return c.outFormat }

// ReadFrames fills dst with converted frames. It returns short only when
// the upstream source is exhausted, and (0, io.EOF) forever after that.
func (c *Converter) ReadFrames(dst []float32) (int, error) {
	ch := c.outFormat.Channels
	want := len(dst) / ch

	for len(c.carry) < want*ch && !c.exhausted && c.err == nil {
		c.pump()
	}

	avail := len(c.carry) / ch
	n := want
	if avail < n {
		n = avail
	}
	copy(dst, c.carry[:n*ch])
	c.carry = c.carry[:copy(c.carry, c.carry[n*ch:])]

	if n < want || (c.exhausted && len(c.carry) == 0) {
		if c.err != nil {
			return n, c.err
		}
		return n, io.EOF
	}
	return n, nil
}

// pump pulls one chunk from the source and runs it through remix and
// resample, appending the result to the carry buffer.
func (c *Converter) pump() {
	n, err := c.src.ReadFrames(c.inBuf)
	if n > 0 {
		mixed := c.remix.remix(c.inBuf, n)
		c.carry = c.resample.process(mixed, c.carry)
	}
	if err != nil {
		c.exhausted = true
		c.carry = c.resample.flush(c.carry)
		if err != io.EOF {
			c.err = err
		}
	}
}

// ReadEncoded converts frames and encodes them into dst as raw interleaved
// samples in format f, little endian. It returns the number of whole frames
// written. Dither is applied only when f is narrower than the stream's
// native sample format.
func (c *Converter) ReadEncoded(dst []byte, f audio.SampleFormat) (int, error) {
	frameBytes := f.Width() * c.outFormat.Channels
	want := len(dst) / frameBytes

	need := want * c.outFormat.Channels
	if cap(c.encodeBuf) < need {
		c.encodeBuf = make([]float32, need)
	}
	c.encodeBuf = c.encodeBuf[:need]

	n, err := c.ReadFrames(c.encodeBuf)
	samples := c.encodeBuf[:n*c.outFormat.Channels]
	if f.Width() < c.srcFormat.SampleFormat.Width() {
		c.dither.apply(samples, lsbFor(f))
	}
	audio.EncodeSamples(f, samples, dst)
	return n, err
}

// Close closes the wrapped source.
func (c *Converter) Close() error { return c.src.Close() }
