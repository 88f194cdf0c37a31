package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/f3rmion/manju/internal/manchu"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [text...]",
	Short: "Convert romanized Manchu to Manchu script",
	Long: `Convert romanized Manchu text to Manchu script.

Input comes from the arguments, from --file, or from stdin. Line breaks
are kept; words on a line are re-joined with single spaces.

Output formats:
  text        Manchu script (default)
  json        per-line, per-word breakdown with units and errors
  codepoints  U+XXXX sequence for every word

Examples:
  manju convert cooha be acaha
  manju convert --file poem.txt --output poem.mnc
  echo "takūrafi" | manju convert --format codepoints`,
	RunE: runConvert,
}

var (
	convertFile   string
	convertOutput string
	convertFormat string
)

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertFile, "file", "f", "", "read input from file")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (stdout if not specified)")
	convertCmd.Flags().StringVar(&convertFormat, "format", "text", "output format: text, json, codepoints")
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case convertFile != "":
		data, err := os.ReadFile(convertFile)
		if err != nil {
			return "", fmt.Errorf("reading input file: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	switch convertFormat {
	case "text", "json", "codepoints":
	default:
		return fmt.Errorf("unknown format: %s", convertFormat)
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	conv := newConverter()
	res := conv.Analyze(text)
	slog.Debug("converted",
		"lines", len(res.Lines),
		"failed", len(res.Failed),
		"ignore_errors", conv.IgnoresErrors(),
	)

	// JSON carries the failures itself; the plain formats print nothing
	// on failure, and no output file is created.
	if convertFormat != "json" && res.Err() != nil {
		return reportFailed(cmd, res)
	}

	var rendered string
	switch convertFormat {
	case "text":
		rendered = withNewline(res.Text())
	case "codepoints":
		rendered = withNewline(codepoints(res))
	case "json":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		rendered = string(data) + "\n"
	}

	if err := writeOutput(cmd, rendered); err != nil {
		return err
	}
	return res.Err()
}

// writeOutput writes s to --output, or to stdout when it is unset.
func writeOutput(cmd *cobra.Command, s string) (err error) {
	if convertOutput == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), s)
		return err
	}

	f, err := os.Create(convertOutput)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	if _, err := io.WriteString(f, s); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// reportFailed prints every distinct unmappable word and returns the
// aggregate error.
func reportFailed(cmd *cobra.Command, res manchu.Result) error {
	err := res.Err()
	var convErr *manchu.ConversionError
	if !errors.As(err, &convErr) {
		return err
	}

	w := cmd.ErrOrStderr()
	unique := lo.Uniq(convErr.Words)
	fmt.Fprintf(w, "%d unmappable word(s):\n", len(unique))
	for _, word := range unique {
		fmt.Fprintf(w, "  %s\n", word)
	}
	fmt.Fprintln(w, "Use --ignore-errors to copy them through unchanged.")
	return err
}

// codepoints renders each converted word as bracketed U+XXXX labels,
// keeping failed words verbatim.
func codepoints(res manchu.Result) string {
	lines := lo.Map(res.Lines, func(line manchu.LineResult, _ int) string {
		words := lo.Map(line.Words, func(w manchu.WordResult, _ int) string {
			if !w.OK() {
				return w.Output
			}
			labels := lo.Map(w.Units, func(u manchu.Unit, _ int) string {
				return fmt.Sprintf("U+%04X", u.Rune)
			})
			return "[" + strings.Join(labels, " ") + "]"
		})
		return strings.Join(words, " ")
	})
	return strings.Join(lines, "\n")
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
