package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/f3rmion/manju/internal/manchu"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the phoneme table",
	Long: `Print every romanized spelling and the Manchu letter it maps to,
ordered by code point.`,
	Args: cobra.NoArgs,
	RunE: runTable,
}

var tableJSON bool

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.Flags().BoolVar(&tableJSON, "json", false, "print the table as JSON")
}

func runTable(cmd *cobra.Command, args []string) error {
	entries := manchu.DefaultTable().Entries()
	out := cmd.OutOrStdout()

	if tableJSON {
		type row struct {
			Spelling  string `json:"spelling"`
			CodePoint string `json:"code_point"`
			Script    string `json:"script"`
		}
		rows := make([]row, len(entries))
		for i, e := range entries {
			rows[i] = row{Spelling: e.Spelling, CodePoint: fmt.Sprintf("U+%04X", e.Rune), Script: string(e.Rune)}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprintln(out, segHeadStyle.Render(runewidth.FillRight("Latin", 8)+runewidth.FillRight("Code", 10)+"Script"))
	for _, e := range entries {
		fmt.Fprintf(out, "%s%s%c\n",
			runewidth.FillRight(e.Spelling, 8),
			runewidth.FillRight(fmt.Sprintf("U+%04X", e.Rune), 10),
			e.Rune,
		)
	}
	fmt.Fprintf(out, "\n%d entries\n", len(entries))

	return nil
}
