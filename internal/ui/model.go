// ABOUTME: Bubbletea model for the radio TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state
type Model struct {
	// Connection
	connected   bool
	url         string
	stationName string
	genre       string

	// Stream
	codec      string
	sampleRate int
	channels   int
	audioInfo  string

	// Metadata
	title string

	// Playback
	playing bool
	volume  int
	muted   bool

	// Errors
	lastError string

	// Dimensions
	width  int
	height int

	controls *Controls
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderNowPlaying()
	s += m.renderControls()
	s += m.renderHelp()

	return s
}

// renderHeader renders connection status and station identity
func (m Model) renderHeader() string {
	status := "Connecting..."
	if m.connected {
		status = fmt.Sprintf("Tuned to %s", m.stationName)
		if m.genre != "" {
			status += fmt.Sprintf(" [%s]", m.genre)
		}
	}
	if m.lastError != "" {
		status = "Error: " + m.lastError
	}

	return fmt.Sprintf(`┌─ Wavepipe Radio ─────────────────────────────────────┐
│ Status: %-45s │
├──────────────────────────────────────────────────────┤
`, truncate(status, 45))
}

// renderNowPlaying renders the current track and stream format
func (m Model) renderNowPlaying() string {
	if !m.connected {
		return "│ No stream                                            │\n"
	}

	s := "│ Now Playing:                                         │\n"
	if m.title != "" {
		s += fmt.Sprintf("│   %-50s │\n", truncate(m.title, 50))
	} else {
		s += "│   (no title yet)                                     │\n"
	}

	s += "│                                                      │\n"
	format := fmt.Sprintf("%s %dHz %s", m.codec, m.sampleRate, channelName(m.channels))
	if m.audioInfo != "" {
		format += " " + m.audioInfo
	}
	s += fmt.Sprintf("│ Format: %-45s │\n", truncate(format, 45))

	return s
}

// renderControls renders playback state and volume
func (m Model) renderControls() string {
	state := "⏸ Paused"
	if m.playing {
		state = "▶ Playing"
	}

	muteIcon := ""
	if m.muted {
		muteIcon = " 🔇"
	}

	volumeBar := renderBar(m.volume, 100, 10)

	return fmt.Sprintf("│                                                      │\n"+
		"│ %-52s │\n"+
		"│ Volume: [%s] %d%%%s%-17s │\n",
		state, volumeBar, m.volume, muteIcon, "")
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `├──────────────────────────────────────────────────────┤
│ space:Pause  ↑/↓:Volume  m:Mute  q:Quit              │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.controls.quit()
		return m, tea.Quit
	case " ":
		m.playing = !m.playing
		m.controls.send(Command{TogglePause: true})
	case "up":
		m.volume += 5
		if m.volume > 100 {
			m.volume = 100
		}
		m.controls.send(Command{SetVolume: &m.volume})
	case "down":
		m.volume -= 5
		if m.volume < 0 {
			m.volume = 0
		}
		m.controls.send(Command{SetVolume: &m.volume})
	case "m":
		m.muted = !m.muted
		m.controls.send(Command{SetMuted: &m.muted})
	}

	return m, nil
}

// applyStatus updates model from a status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Connected != nil {
		m.connected = *msg.Connected
	}
	if msg.StationName != "" {
		m.stationName = msg.StationName
	}
	if msg.Genre != "" {
		m.genre = msg.Genre
	}
	if msg.AudioInfo != "" {
		m.audioInfo = msg.AudioInfo
	}
	if msg.Codec != "" {
		m.codec = msg.Codec
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
	}
	if msg.Title != "" {
		m.title = msg.Title
	}
	if msg.Playing != nil {
		m.playing = *msg.Playing
	}
	if msg.Err != nil {
		m.lastError = msg.Err.Error()
	}
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Connected   *bool
	StationName string
	Genre       string
	AudioInfo   string
	Codec       string
	SampleRate  int
	Channels    int
	Title       string
	Playing     *bool
	Err         error
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
