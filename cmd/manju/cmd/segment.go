package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/manju/internal/manchu"
	"github.com/f3rmion/manju/internal/tui/bigchar"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var segmentCmd = &cobra.Command{
	Use:   "segment <word...>",
	Short: "Show how words split into Manchu letters",
	Long: `Show the letter units a romanized word is matched into, with the
code point and glyph of each.

Multi-character spellings (ng, dz, ts', c'y, k', g', h') are matched
greedily before single letters.

Examples:
  manju segment wesimburengge
  manju segment --big manju`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSegment,
}

var segmentBig bool

var (
	segWordStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	segHeadStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	segErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

func init() {
	rootCmd.AddCommand(segmentCmd)
	segmentCmd.Flags().BoolVar(&segmentBig, "big", false, "render each glyph as block art (needs a Mongolian-script font)")
}

func runSegment(cmd *cobra.Command, args []string) error {
	conv := newConverter()
	out := cmd.OutOrStdout()

	var renderer *bigchar.Renderer
	if segmentBig {
		renderer = newRenderer()
		if renderer == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "No Mongolian-script font found; set 'font' in config.yaml for --big.")
		}
	}

	var errs []error
	for _, word := range args {
		units, err := conv.Segment(word)
		fmt.Fprintln(out, segWordStyle.Render(word))
		if err != nil {
			fmt.Fprintln(out, segErrorStyle.Render("  "+err.Error()))
			fmt.Fprintln(out)
			errs = append(errs, err)
			continue
		}
		printUnits(out, units)
		if renderer != nil {
			printGlyphs(out, renderer, units)
		}
		fmt.Fprintln(out)
	}

	return errors.Join(errs...)
}

func printUnits(w io.Writer, units []manchu.Unit) {
	header := "  " + runewidth.FillRight("Latin", 8) + runewidth.FillRight("Code", 10) + runewidth.FillRight("Offset", 8) + "Script"
	fmt.Fprintln(w, segHeadStyle.Render(header))
	for _, u := range units {
		fmt.Fprintf(w, "  %s%s%s%c\n",
			runewidth.FillRight(u.Spelling, 8),
			runewidth.FillRight(fmt.Sprintf("U+%04X", u.Rune), 10),
			runewidth.FillRight(fmt.Sprint(u.Offset), 8),
			u.Rune,
		)
	}
}

func printGlyphs(w io.Writer, renderer *bigchar.Renderer, units []manchu.Unit) {
	var cells []string
	for _, u := range units {
		art := renderer.Render(u.Rune, 12, 6)
		if art == "" {
			continue
		}
		cells = append(cells, lipgloss.JoinVertical(lipgloss.Center, art, u.Spelling), " ")
	}
	if len(cells) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
}
