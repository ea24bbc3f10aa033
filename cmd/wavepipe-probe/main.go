// ABOUTME: File inspection CLI
// ABOUTME: Prints stream details for audio files without playing them
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wavepipe/wavepipe-go/pkg/audio/decode"
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: wavepipe-probe <file> [file...]")
		os.Exit(2)
	}

	exitCode := 0
	for _, path := range flag.Args() {
		info, err := decode.ProbeFile(path)
		if err != nil {
			log.Printf("%s: %v", path, err)
			exitCode = 1
			continue
		}
		fmt.Printf("%s:\n", path)
		fmt.Printf("  format:      %s\n", info.FileFormat)
		fmt.Printf("  channels:    %d\n", info.Channels)
		fmt.Printf("  sample rate: %d Hz\n", info.SampleRate)
		fmt.Printf("  samples as:  %s\n", info.SampleFormat)
		if info.NumFrames > 0 {
			fmt.Printf("  frames:      %d\n", info.NumFrames)
			fmt.Printf("  duration:    %.2fs\n", info.Duration)
		}
	}
	os.Exit(exitCode)
}
