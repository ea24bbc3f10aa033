// ABOUTME: Audio fundamentals package providing core types and interfaces
// ABOUTME: Defines sample formats, stream interfaces and the error taxonomy
// Package audio provides the fundamental types shared by the wavepipe
// streaming pipeline.
//
// This package defines the two capabilities the pipeline is built from:
//   - ByteSource: a pull-style source of encoded audio bytes (file, memory,
//     network stream). Consumed by the decoder bridge.
//   - Source: a producer of interleaved PCM frames as float32 samples in
//     [-1, 1]. Decoders produce one, the converter wraps one, and playback
//     devices pull from one.
//
// It also provides raw sample encoding/decoding between the supported PCM
// sample formats (unsigned 8-bit through float32) and the float32 pipeline
// representation.
//
// Example:
//
//	src, err := source.NewFile("song.mp3")
//	if err != nil { ... }
//	defer src.Close()
//
//	stream, err := decode.NewBridge(src, audio.FileMP3)
//	if err != nil { ... }
//
//	frames := make([]float32, 1024*stream.Format().Channels)
//	n, err := stream.ReadFrames(frames)
package audio
