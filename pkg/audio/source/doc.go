// ABOUTME: Concrete ByteSource implementations
// ABOUTME: File-backed and memory-backed encoded audio sources
// Package source provides the file and memory implementations of
// audio.ByteSource. Network-backed sources live in package netstream.
package source
