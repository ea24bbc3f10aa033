// ABOUTME: Blocking audio output package
// ABOUTME: Provides Output interface and the oto-based speaker sink
// Package output provides a blocking, push-style audio sink.
//
// Where the device package hands control to a hardware callback, output
// inverts it: the caller pushes frames with Write, which blocks until the
// sink has taken them. That suits simple play-a-file flows where pull-based
// callbacks are overkill.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(audio.Format{SampleFormat: audio.FormatS16, Channels: 2, SampleRate: 48000})
//	err = out.Write(samples)
package output
