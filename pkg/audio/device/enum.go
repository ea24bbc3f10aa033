// ABOUTME: Hardware enumeration
// ABOUTME: Lists playback and capture devices and usable backends
package device

import (
	"fmt"

	"github.com/gen2brain/malgo"
)

// Info identifies one hardware device as reported by the backend. Pass it
// in Config.PlaybackDevice or Config.CaptureDevice to select it.
type Info struct {
	id        malgo.DeviceID
	Name      string
	IsDefault bool
}

func (i Info) String() string {
	if i.IsDefault {
		return i.Name + " (default)"
	}
	return i.Name
}

// Playbacks lists the playback devices visible through the given backends.
// An empty backend list uses the platform defaults.
func Playbacks(backends ...Backend) ([]Info, error) {
	return enumerate(malgo.Playback, backends)
}

// Captures lists the capture devices visible through the given backends.
func Captures(backends ...Backend) ([]Info, error) {
	return enumerate(malgo.Capture, backends)
}

func enumerate(kind malgo.DeviceType, backends []Backend) ([]Info, error) {
	var mb []malgo.Backend
	for _, b := range backends {
		conv, ok := backendToMalgo[b]
		if !ok {
			return nil, fmt.Errorf("unknown backend %d", int(b))
		}
		mb = append(mb, conv)
	}

	ctx, err := malgo.InitContext(mb, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		ctx.Uninit()
		ctx.Free()
	}()

	devs, err := ctx.Devices(kind)
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	out := make([]Info, 0, len(devs))
	for _, d := range devs {
		out = append(out, Info{
			id:        d.ID,
			Name:      d.Name(),
			IsDefault: d.IsDefault != 0,
		})
	}
	return out, nil
}

// IsBackendEnabled reports whether the given backend can be initialized on
// this system.
func IsBackendEnabled(b Backend) bool {
	mb, ok := backendToMalgo[b]
	if !ok {
		return false
	}
	ctx, err := malgo.InitContext([]malgo.Backend{mb}, malgo.ContextConfig{}, nil)
	if err != nil {
		return false
	}
	ctx.Uninit()
	ctx.Free()
	return true
}

// IsLoopbackSupported reports whether a backend can open loopback capture
// devices. miniaudio implements loopback capture on WASAPI only.
func IsLoopbackSupported(b Backend) bool {
	return b == BackendWASAPI
}

// EnabledBackends probes which backends can be initialized on this system.
func EnabledBackends() []Backend {
	var out []Backend
	for b, mb := range backendToMalgo {
		if b == BackendNull {
			continue
		}
		ctx, err := malgo.InitContext([]malgo.Backend{mb}, malgo.ContextConfig{}, nil)
		if err != nil {
			continue
		}
		ctx.Uninit()
		ctx.Free()
		out = append(out, b)
	}
	return out
}
