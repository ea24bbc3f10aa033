// ABOUTME: Streaming sample converter package
// ABOUTME: Channel remix, resampling and sample format conversion
// Package convert implements the streaming converter stage of the pipeline.
//
// A Converter wraps any audio.Source and re-emits its frames remixed to a
// target channel count, resampled to a target rate (linear interpolation or
// windowed-sinc) and, via ReadEncoded, re-encoded to a target sample format
// with optional dithering when the bit depth narrows.
//
// The converter is frame-accurate: every ReadFrames call returns exactly the
// requested number of frames until the upstream source is exhausted,
// regardless of the call-size sequence. Fractional frames produced by
// resampling are carried between calls, never dropped or duplicated.
package convert
