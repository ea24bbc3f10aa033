// ABOUTME: Network streaming package doc
// ABOUTME: ICY internet radio client and websocket PCM source
// Package netstream feeds the pipeline from the network.
//
// Client streams internet radio over HTTP with ICY metadata support: it
// buffers ahead in a background goroutine, strips the in-band metadata
// blocks and reports title changes, and exposes the remaining audio bytes
// as an audio.ByteSource for the decoder.
//
// WebSocketSource consumes PCM or Opus frames pushed over a websocket and
// exposes them as an audio.Source.
//
// Network failures are not surfaced mid-read: once a connection dies the
// source simply ends with io.EOF, so playback stops cleanly instead of
// crashing the pipeline.
package netstream
