// ABOUTME: Stream capability interfaces for the pipeline
// ABOUTME: Defines ByteSource (encoded bytes) and Source (PCM frames)
package audio

import "io"

// ByteSource is a pull-style source of encoded audio bytes. Files, memory
// buffers and network streams all implement it; the decoder bridge holds one
// for its lifetime.
//
// Read follows io.Reader semantics: it returns io.EOF once the stream is
// exhausted. Sources that cannot seek (network streams) return false from
// Seek and the decoder falls back to sequential reading.
type ByteSource interface {
	io.Reader

	// Seek repositions the stream. It reports whether the seek was honored.
	Seek(offset int64, origin SeekOrigin) bool

	// Close releases the underlying resource. The source must not be read
	// after Close returns.
	Close() error
}

// Source is a producer of interleaved PCM frames as float32 samples in
// [-1, 1]. ReadFrames fills dst, whose length must be a multiple of the
// channel count, and returns the number of whole frames written.
//
// A Source fills dst completely unless the stream is exhausted; at the end
// it returns the remaining frames (possibly zero) together with io.EOF, and
// every later call returns (0, io.EOF). Exhaustion is terminal: a fresh
// Source must be constructed to replay a stream.
//
// A Source is not safe for concurrent use; exactly one consumer drives it.
type Source interface {
	// Format describes the frames produced: channel count and sample rate.
	// The SampleFormat field names the stream's native encoding, which
	// callers need when they want to re-encode without widening.
	Format() Format

	ReadFrames(dst []float32) (int, error)

	Close() error
}

// ReadFull pulls from src until dst is full or the stream ends. It exists
// for sources that may return short counts mid-stream; the frame count
// returned follows the same convention as Source.ReadFrames.
func ReadFull(src Source, dst []float32) (int, error) {
	channels := src.Format().Channels
	want := len(dst) / channels
	done := 0
	for done < want {
		n, err := src.ReadFrames(dst[done*channels : want*channels])
		done += n
		if err != nil {
			return done, err
		}
		if n == 0 {
			break
		}
	}
	return done, nil
}
