// Package cmd is the chordlegend command line: the API server plus offline
// timeline tools.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chordlegend",
	Short: "Chord timelines for YouTube videos",
	Long: `chordlegend detects or predicts the chords of a YouTube video and keeps
them in sync with playback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
