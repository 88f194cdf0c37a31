package cmd

import "github.com/spf13/cobra"

var interactiveCmd = &cobra.Command{
	Use:     "interactive [file]",
	Aliases: []string{"i", "ui"},
	Short:   "Launch interactive TUI",
	Long: `Launch an interactive terminal UI for converting romanized Manchu.

Features:
  - Live conversion as you type, failed words highlighted
  - Strict and tolerant modes
  - Phoneme table
  - Glyph art when a Mongolian-script font is installed

An optional text file pre-fills the input.

Controls:
  ctrl+t  Toggle tolerant mode
  ctrl+y  Copy output
  esc     Focus menu`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
