// ABOUTME: Audio encoder package
// ABOUTME: PCM and Opus packet encoders plus a WAV file writer
// Package encode turns float32 frames back into bytes.
//
// PCM encodes raw little-endian samples at any supported width, Opus
// produces one packet per 20 ms frame for network transport, and WriteWAVFile
// saves a decoded stream as a playable WAV file.
//
// Example:
//
//	enc, err := encode.NewPCM(audio.FormatS16)
//	data, err := enc.Encode(samples)
package encode
