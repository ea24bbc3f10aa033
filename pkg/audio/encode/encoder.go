// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for all audio encoders
package encode

// Encoder encodes interleaved float32 frames to wire bytes.
type Encoder interface {
	// Encode converts samples to encoded audio data. Encoders that frame
	// their input (Opus) may buffer a partial frame and return nil until
	// enough samples arrive.
	Encode(samples []float32) ([]byte, error)

	// Close releases encoder resources.
	Close() error
}
