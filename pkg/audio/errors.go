// ABOUTME: Error taxonomy for the audio pipeline
// ABOUTME: Defines DecodeError plus misuse sentinel errors
package audio

import (
	"errors"
	"fmt"
)

// Misuse errors: invalid configuration or operating on something in the
// wrong lifecycle state. These always indicate a caller bug.
var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrDeviceClosed      = errors.New("device is closed")
	ErrDeviceStarted     = errors.New("device already started")
	ErrNoProducer        = errors.New("no producer bound to device")
	ErrSeekUnsupported   = errors.New("source does not support seeking")
)

// DecodeError reports malformed or unsupported encoded data. It surfaces at
// the exact read that encountered the problem; frames already delivered
// before it remain valid.
type DecodeError struct {
	Op  string // operation that failed, e.g. "mp3 decode"
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode error: %s", e.Op)
	}
	return fmt.Sprintf("decode error: %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecodeError wraps err as a DecodeError for operation op.
func NewDecodeError(op string, err error) *DecodeError {
	return &DecodeError{Op: op, Err: err}
}

// IsDecodeError reports whether err is (or wraps) a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
