// ABOUTME: Entry point for the wavepipe internet radio player
// ABOUTME: Parses CLI flags and runs the TUI around the playback pipeline
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wavepipe/wavepipe-go/internal/ui"
	"github.com/wavepipe/wavepipe-go/internal/version"
	"github.com/wavepipe/wavepipe-go/pkg/wavepipe"
)

var (
	stationURL  = flag.String("url", "", "Internet radio stream URL (required)")
	sampleRate  = flag.Int("rate", 0, "Output sample rate (0 = stream native)")
	channels    = flag.Int("channels", 0, "Output channel count (0 = stream native)")
	bufferMs    = flag.Int("buffer-ms", 200, "Device buffer size in milliseconds")
	logFile     = flag.String("log-file", "wavepipe-radio.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}
	if *stationURL == "" {
		fmt.Fprintln(os.Stderr, "usage: wavepipe-radio -url <stream-url>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file, the terminal belongs to bubbletea
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
		log.Printf("Starting %s %s", version.Product, version.Version)
	}

	// TUI setup
	var tuiProg *tea.Program
	var controls *ui.Controls

	if useTUI {
		controls = ui.NewControls()
		tuiProg, err = ui.Run(controls)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go tuiProg.Run()
	}

	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	radio, err := wavepipe.OpenRadio(*stationURL, wavepipe.RadioConfig{
		SampleRate:   *sampleRate,
		Channels:     *channels,
		BufferMillis: *bufferMs,
		OnTitle: func(title string) {
			log.Printf("Now playing: %s", title)
			updateTUI(ui.StatusMsg{Title: title})
		},
	})
	if err != nil {
		if tuiProg != nil {
			tuiProg.Quit()
		}
		log.Fatalf("Failed to open station: %v", err)
	}

	if err := radio.Start(); err != nil {
		log.Fatalf("Failed to start playback: %v", err)
	}

	log.Printf("Tuned to %s (%s)", radio.StationName(), *stationURL)

	connected := true
	playing := true
	format := radio.Format()
	updateTUI(ui.StatusMsg{
		Connected:   &connected,
		StationName: radio.StationName(),
		Genre:       radio.Genre(),
		AudioInfo:   radio.AudioInfo(),
		Codec:       radio.Codec().String(),
		SampleRate:  format.SampleRate,
		Channels:    format.Channels,
		Playing:     &playing,
	})

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if controls != nil {
		runControlLoop(radio, controls, sigChan, updateTUI)
	} else {
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	if err := radio.Close(); err != nil {
		log.Printf("Error closing radio: %v", err)
	}
	log.Printf("Radio stopped")
}

// runControlLoop applies TUI commands to the radio until quit.
func runControlLoop(radio *wavepipe.Radio, controls *ui.Controls,
	sigChan chan os.Signal, updateTUI func(ui.StatusMsg)) {
	for {
		select {
		case cmd := <-controls.Commands:
			applyCommand(radio, cmd, updateTUI)
		case <-controls.Quit:
			log.Printf("Received quit signal from TUI")
			return
		case <-sigChan:
			log.Printf("Shutdown signal received")
			return
		}
	}
}

func applyCommand(radio *wavepipe.Radio, cmd ui.Command, updateTUI func(ui.StatusMsg)) {
	if cmd.TogglePause {
		var err error
		if radio.Running() {
			err = radio.Stop()
		} else {
			err = radio.Start()
		}
		if err != nil {
			log.Printf("Pause toggle failed: %v", err)
			updateTUI(ui.StatusMsg{Err: err})
			return
		}
		playing := radio.Running()
		updateTUI(ui.StatusMsg{Playing: &playing})
	}
	if cmd.SetVolume != nil {
		log.Printf("Volume change: %d%%", *cmd.SetVolume)
		radio.SetVolume(*cmd.SetVolume)
	}
	if cmd.SetMuted != nil {
		log.Printf("Muted: %v", *cmd.SetMuted)
		radio.SetMuted(*cmd.SetMuted)
	}
}
