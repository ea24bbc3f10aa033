// ABOUTME: Device package doc
// ABOUTME: Callback-driven playback, capture and duplex over miniaudio
// Package device binds the pipeline to real audio hardware through the
// malgo (miniaudio) library.
//
// A device is created in a ready state, started explicitly, and may be
// stopped and restarted any number of times before Close. Close is
// idempotent and terminal. Playback devices pull raw sample bytes from a
// Producer on the audio thread; capture devices push captured bytes into a
// Consumer; duplex devices do both in the same callback.
//
// The audio callback never blocks on the pipeline: when a producer cannot
// fill a whole period the remainder is zero-filled, and once the producer
// reports io.EOF the device keeps running and emits silence until stopped.
package device
