// ABOUTME: Decoder bridge package
// ABOUTME: Adapts codec libraries to the pipeline's Source interface
// Package decode bridges encoded audio to PCM frames.
//
// Each supported codec (WAV, FLAC, MP3, Ogg Vorbis) is wrapped behind the
// audio.Source interface: the wrapper pulls encoded bytes from an
// audio.ByteSource on demand and yields interleaved float32 frames, decoding
// only as much input as each ReadFrames call requires. Nothing is ever read
// ahead beyond the codec's own framing, so arbitrarily large files and
// endless network streams use constant memory.
//
// NewBridge is the entry point: it detects (or is told) the stream format,
// initializes the codec and returns the frame source. Probe returns stream
// metadata without decoding audio, and ReadFile/ReadBytes are one-shot
// conveniences that decode a whole stream into memory.
//
// Opus packet decoding for network transports is also provided; it is not a
// ByteSource codec since opus packets arrive individually framed.
package decode
