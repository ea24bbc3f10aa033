// ABOUTME: High-level wavepipe library API
// ABOUTME: One-call streaming, playback and radio helpers
// Package wavepipe is the high-level entry point of the library.
//
// It wires the lower layers together for the common cases:
//   - Stream: decode any encoded source and convert it to a target layout
//   - Player: render a frame source on the default output device
//   - PlayFile: open, decode and play a file, blocking until done
//   - Radio: play an internet radio station with title updates
//
// For lower-level control, see the audio, decode, convert, device, output
// and netstream packages.
//
// Example:
//
//	src, err := source.NewFile("song.flac")
//	stream, err := wavepipe.Stream(src, wavepipe.StreamConfig{
//	    SampleRate: 48000,
//	    Channels:   2,
//	})
//	player, err := wavepipe.NewPlayer(stream, wavepipe.PlayerConfig{})
//	err = player.Start()
package wavepipe
