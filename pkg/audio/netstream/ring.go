// ABOUTME: Bounded byte ring buffer
// ABOUTME: Blocking reader/writer handoff between download goroutine and decoder
package netstream

import (
	"io"
	"sync"
	"time"
)

// errTimeout is returned by ring reads that exceed their deadline.
type timeoutError struct{}

func (timeoutError) Error() string { return "netstream: read timeout" }
func (timeoutError) Timeout() bool { return true }

// ErrReadTimeout is returned when a read deadline elapses with no data.
var ErrReadTimeout error = timeoutError{}

// ring is a bounded FIFO of bytes. The writer blocks when the buffer is
// full, which is what throttles the download goroutine to playback speed.
// The reader blocks until data arrives or the writer finishes.
type ring struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buf   []byte
	r, w  int
	count int

	writeDone bool // writer finished, drained reads return io.EOF
	closed    bool // reader side closed, everything unblocks
}

func newRing(capacity int) *ring {
	rb := &ring{buf: make([]byte, capacity)}
	rb.notEmpty = sync.NewCond(&rb.mu)
	rb.notFull = sync.NewCond(&rb.mu)
	return rb
}

// write appends p, blocking while the buffer is full. It returns
// io.ErrClosedPipe once the reader has closed the ring.
func (rb *ring) write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	written := 0
	for written < len(p) {
		for rb.count == len(rb.buf) && !rb.closed {
			rb.notFull.Wait()
		}
		if rb.closed {
			return written, io.ErrClosedPipe
		}
		for written < len(p) && rb.count < len(rb.buf) {
			rb.buf[rb.w] = p[written]
			rb.w = (rb.w + 1) % len(rb.buf)
			rb.count++
			written++
		}
		rb.notEmpty.Broadcast()
	}
	return written, nil
}

// read fills p with up to len(p) buffered bytes, blocking until at least
// one byte is available. After closeWrite it drains the remainder and then
// returns io.EOF. A zero deadline blocks indefinitely.
func (rb *ring) read(p []byte, deadline time.Time) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	var timer *time.Timer
	if !deadline.IsZero() {
		timer = time.AfterFunc(time.Until(deadline), func() {
			rb.mu.Lock()
			rb.notEmpty.Broadcast()
			rb.mu.Unlock()
		})
		defer timer.Stop()
	}

	for rb.count == 0 {
		if rb.closed || rb.writeDone {
			return 0, io.EOF
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return 0, ErrReadTimeout
		}
		rb.notEmpty.Wait()
	}

	n := 0
	for n < len(p) && rb.count > 0 {
		p[n] = rb.buf[rb.r]
		rb.r = (rb.r + 1) % len(rb.buf)
		rb.count--
		n++
	}
	rb.notFull.Broadcast()
	return n, nil
}

// closeWrite marks the producer side finished. Buffered bytes remain
// readable; reads past them return io.EOF.
func (rb *ring) closeWrite() {
	rb.mu.Lock()
	rb.writeDone = true
	rb.notEmpty.Broadcast()
	rb.mu.Unlock()
}

// close tears the ring down from the consumer side, unblocking both ends.
func (rb *ring) close() {
	rb.mu.Lock()
	rb.closed = true
	rb.notEmpty.Broadcast()
	rb.notFull.Broadcast()
	rb.mu.Unlock()
}
