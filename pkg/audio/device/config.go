// ABOUTME: Device configuration and enum mappings
// ABOUTME: Translates package-level config into malgo context and device config
package device

import (
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/wavepipe/wavepipe-go/pkg/audio"
)

// Backend identifies a host audio API.
type Backend int

const (
	BackendWASAPI Backend = iota
	BackendDSound
	BackendWinMM
	BackendCoreAudio
	BackendSndio
	BackendAudio4
	BackendOSS
	BackendPulseAudio
	BackendALSA
	BackendJACK
	BackendAAudio
	BackendOpenSL
	BackendWebAudio
	BackendNull
)

var backendToMalgo = map[Backend]malgo.Backend{
	BackendWASAPI:     malgo.BackendWasapi,
	BackendDSound:     malgo.BackendDsound,
	BackendWinMM:      malgo.BackendWinmm,
	BackendCoreAudio:  malgo.BackendCoreaudio,
	BackendSndio:      malgo.BackendSndio,
	BackendAudio4:     malgo.BackendAudio4,
	BackendOSS:        malgo.BackendOss,
	BackendPulseAudio: malgo.BackendPulseaudio,
	BackendALSA:       malgo.BackendAlsa,
	BackendJACK:       malgo.BackendJack,
	BackendAAudio:     malgo.BackendAaudio,
	BackendOpenSL:     malgo.BackendOpensl,
	BackendWebAudio:   malgo.BackendWebaudio,
	BackendNull:       malgo.BackendNull,
}

func (b Backend) String() string {
	names := map[Backend]string{
		BackendWASAPI: "wasapi", BackendDSound: "dsound", BackendWinMM: "winmm",
		BackendCoreAudio: "coreaudio", BackendSndio: "sndio", BackendAudio4: "audio4",
		BackendOSS: "oss", BackendPulseAudio: "pulseaudio", BackendALSA: "alsa",
		BackendJACK: "jack", BackendAAudio: "aaudio", BackendOpenSL: "opensl",
		BackendWebAudio: "webaudio", BackendNull: "null",
	}
	if n, ok := names[b]; ok {
		return n
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// ThreadPriority sets the priority of the audio thread.
type ThreadPriority int

const (
	PriorityDefault ThreadPriority = iota
	PriorityIdle
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityHighest
	PriorityRealtime
)

var priorityToMalgo = map[ThreadPriority]malgo.ThreadPriority{
	PriorityDefault:  malgo.ThreadPriorityDefault,
	PriorityIdle:     malgo.ThreadPriorityIdle,
	PriorityLow:      malgo.ThreadPriorityLow,
	PriorityNormal:   malgo.ThreadPriorityNormal,
	PriorityHigh:     malgo.ThreadPriorityHigh,
	PriorityHighest:  malgo.ThreadPriorityHighest,
	PriorityRealtime: malgo.ThreadPriorityRealtime,
}

var formatToMalgo = map[audio.SampleFormat]malgo.FormatType{
	audio.FormatU8:  malgo.FormatU8,
	audio.FormatS16: malgo.FormatS16,
	audio.FormatS24: malgo.FormatS24,
	audio.FormatS32: malgo.FormatS32,
	audio.FormatF32: malgo.FormatF32,
}

// Config describes the hardware format and tuning of a device. The zero
// value is not usable: SampleFormat, Channels and SampleRate are required.
type Config struct {
	SampleFormat audio.SampleFormat
	Channels     int
	SampleRate   int

	// BufferSizeMillis is the total device buffer length. Zero selects
	// defaultBufferMillis.
	BufferSizeMillis int

	// Periods subdivides the buffer. Zero lets the backend choose.
	Periods int

	// Backends restricts which host APIs are tried, in order. Empty tries
	// the platform defaults.
	Backends []Backend

	// ThreadPriority applies to the backend's audio thread.
	ThreadPriority ThreadPriority

	// AppName is shown by sound servers that display client names.
	AppName string

	// PlaybackDevice and CaptureDevice select non-default hardware, from
	// Playbacks and Captures. Nil means system default.
	PlaybackDevice *Info
	CaptureDevice  *Info
}

const defaultBufferMillis = 200

func (c Config) validate() error {
	if _, ok := formatToMalgo[c.SampleFormat]; !ok {
		return fmt.Errorf("%w: sample format %v", audio.ErrInvalidConfig, c.SampleFormat)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("%w: %d channels", audio.ErrInvalidConfig, c.Channels)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", audio.ErrInvalidConfig, c.SampleRate)
	}
	if c.BufferSizeMillis < 0 || c.Periods < 0 {
		return fmt.Errorf("%w: negative buffer tuning", audio.ErrInvalidConfig)
	}
	for _, b := range c.Backends {
		if _, ok := backendToMalgo[b]; !ok {
			return fmt.Errorf("%w: unknown backend %d", audio.ErrInvalidConfig, int(b))
		}
	}
	return nil
}

// Format reports the stream layout the device runs at.
func (c Config) Format() audio.Format {
	return audio.Format{
		SampleFormat: c.SampleFormat,
		Channels:     c.Channels,
		SampleRate:   c.SampleRate,
	}
}

// frameBytes is the size of one interleaved frame in device bytes.
func (c Config) frameBytes() int {
	return c.SampleFormat.Width() * c.Channels
}

func (c Config) malgoBackends() []malgo.Backend {
	if len(c.Backends) == 0 {
		return nil
	}
	out := make([]malgo.Backend, len(c.Backends))
	for i, b := range c.Backends {
		out[i] = backendToMalgo[b]
	}
	return out
}

func (c Config) contextConfig() malgo.ContextConfig {
	cc := malgo.ContextConfig{}
	cc.ThreadPriority = priorityToMalgo[c.ThreadPriority]
	if c.AppName != "" {
		name := append([]byte(c.AppName), 0)
		cc.Pulse.PApplicationName = &name[0]
		cc.Jack.PClientName = &name[0]
	}
	return cc
}

func (c Config) deviceConfig(kind malgo.DeviceType) malgo.DeviceConfig {
	dc := malgo.DefaultDeviceConfig(kind)
	dc.SampleRate = uint32(c.SampleRate)
	buf := c.BufferSizeMillis
	if buf == 0 {
		buf = defaultBufferMillis
	}
	dc.PeriodSizeInMilliseconds = uint32(buf)
	if c.Periods > 0 {
		dc.Periods = uint32(c.Periods)
	}
	dc.Alsa.NoMMap = 1

	mf := formatToMalgo[c.SampleFormat]
	if kind == malgo.Playback || kind == malgo.Duplex {
		dc.Playback.Format = mf
		dc.Playback.Channels = uint32(c.Channels)
		if c.PlaybackDevice != nil {
			dc.Playback.DeviceID = c.PlaybackDevice.id.Pointer()
		}
	}
	if kind == malgo.Capture || kind == malgo.Duplex {
		dc.Capture.Format = mf
		dc.Capture.Channels = uint32(c.Channels)
		if c.CaptureDevice != nil {
			dc.Capture.DeviceID = c.CaptureDevice.id.Pointer()
		}
	}
	return dc
}
