// ABOUTME: Output period filling
// ABOUTME: Pulls producer bytes, zero-fills shortfall, silences after EOF
package device

import "io"

// fillState tracks producer exhaustion across callbacks. Once the producer
// reports io.EOF the output stays silent until the device is restarted,
// which clears the flag and pulls the producer again.
type fillState struct {
	exhausted bool
}

// fillOutput fills one output period from p. Shortfalls are zero-filled so
// the hardware never replays stale buffer contents. Non-EOF errors are
// handed to report and also silence the stream.
func (f *fillState) fillOutput(p Producer, out []byte, report func(error)) {
	if f.exhausted {
		zero(out)
		return
	}
	n, err := p.Produce(out)
	if n < 0 {
		n = 0
	}
	if n > len(out) {
		n = len(out)
	}
	zero(out[n:])
	if err != nil {
		f.exhausted = true
		if err != io.EOF && report != nil {
			report(err)
		}
	}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
