package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/f3rmion/manju/internal/anki"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Work with Anki decks",
	Long:  `Commands for reading Anki .apkg files and adding Manchu script to them.`,
}

var ankiInspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Inspect an Anki deck",
	Long: `Inspect an Anki .apkg file to see its structure:
  - Decks
  - Note types (models) and their fields
  - Sample notes

Example:
  manju anki inspect manchu.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiInspect,
}

var ankiAugmentCmd = &cobra.Command{
	Use:   "augment <file.apkg>",
	Short: "Add Manchu script to Anki notes",
	Long: `Read an Anki deck and convert a romanized Manchu field into script.

This command:
1. Reads the .apkg file
2. Finds the field holding romanized Manchu (or uses --field)
3. Converts it for every note
4. Outputs the results as JSON or CSV, or writes a new .apkg with a
   Manchu field added to each affected note type

Notes whose text cannot be converted are listed and left unchanged.

Examples:
  manju anki augment manchu.apkg
  manju anki augment manchu.apkg --field Romanized --format csv
  manju anki augment manchu.apkg --format apkg --output manchu_script.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiAugment,
}

var (
	ankiInspectLimit  int
	ankiAugmentField  string
	ankiAugmentTarget string
	ankiAugmentOutput string
	ankiAugmentFormat string
)

func init() {
	rootCmd.AddCommand(ankiCmd)
	ankiCmd.AddCommand(ankiInspectCmd)
	ankiCmd.AddCommand(ankiAugmentCmd)

	ankiInspectCmd.Flags().IntVarP(&ankiInspectLimit, "limit", "n", 5, "Number of sample notes to show")

	ankiAugmentCmd.Flags().StringVarP(&ankiAugmentField, "field", "f", "", "Field holding romanized Manchu (auto-detect if not specified)")
	ankiAugmentCmd.Flags().StringVarP(&ankiAugmentTarget, "target", "t", "", "Field that receives Manchu script (default from config)")
	ankiAugmentCmd.Flags().StringVarP(&ankiAugmentOutput, "output", "o", "", "Output file (stdout, or <input>_manju.apkg for apkg)")
	ankiAugmentCmd.Flags().StringVar(&ankiAugmentFormat, "format", "json", "Output format: json, csv, apkg")
}

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Opening: %s\n\n", path)

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	fmt.Fprint(out, pkg.Summary())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Field Details:")
	for _, model := range pkg.Models {
		fmt.Fprintf(out, "  %s:\n", model.Name)
		for _, field := range model.Fields {
			fmt.Fprintf(out, "    [%d] %s\n", field.Ord, field.Name)
		}
	}
	fmt.Fprintln(out)

	if field := anki.DetectRomanizedField(pkg, newConverter()); field != "" {
		fmt.Fprintf(out, "Romanized Manchu field: %s\n\n", field)
	}

	fmt.Fprintf(out, "Sample Notes (first %d):\n", ankiInspectLimit)
	for _, note := range lo.Slice(pkg.Notes, 0, ankiInspectLimit) {
		modelName := "unknown"
		if model := pkg.GetModel(note); model != nil {
			modelName = model.Name
		}

		fmt.Fprintf(out, "\n  Note %d (Model: %s):\n", note.ID, modelName)
		fieldNames := pkg.GetFieldNames(note)
		for i, value := range note.Fields {
			fieldName := fmt.Sprintf("Field %d", i)
			if i < len(fieldNames) {
				fieldName = fieldNames[i]
			}
			value = anki.StripHTML(value)
			if r := []rune(value); len(r) > 100 {
				value = string(r[:100]) + "..."
			}
			fmt.Fprintf(out, "    %s: %s\n", fieldName, value)
		}
	}

	return nil
}

func runAnkiAugment(cmd *cobra.Command, args []string) error {
	path := args[0]
	stderr := cmd.ErrOrStderr()

	switch ankiAugmentFormat {
	case "json", "csv", "apkg":
	default:
		return fmt.Errorf("unknown format: %s", ankiAugmentFormat)
	}

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	fmt.Fprintf(stderr, "Opened: %s (%d notes)\n", path, len(pkg.Notes))

	conv := newConverter()

	source := lo.CoalesceOrEmpty(ankiAugmentField, appConfig.Anki.SourceField)
	if source == "" {
		source = anki.DetectRomanizedField(pkg, conv)
		if source == "" {
			return fmt.Errorf("could not auto-detect a romanized Manchu field. Use --field to specify")
		}
		fmt.Fprintf(stderr, "Auto-detected romanized field: %s\n", source)
	}
	target := lo.CoalesceOrEmpty(ankiAugmentTarget, appConfig.Anki.TargetField, "Manchu")

	results, err := anki.Augment(pkg, conv, source, target)
	if err != nil {
		return fmt.Errorf("augmenting notes: %w", err)
	}

	converted := lo.CountBy(results, func(r anki.AugmentedNote) bool { return r.OK() })
	for _, r := range lo.Reject(results, func(r anki.AugmentedNote, _ int) bool { return r.OK() }) {
		fmt.Fprintf(stderr, "  note %d: unmappable %s\n", r.NoteID, strings.Join(lo.Uniq(r.Failed), ", "))
	}

	if ankiAugmentFormat == "apkg" {
		outputPath := ankiAugmentOutput
		if outputPath == "" {
			ext := filepath.Ext(path)
			outputPath = strings.TrimSuffix(path, ext) + "_manju" + ext
		}
		if err := pkg.SaveAs(outputPath); err != nil {
			return fmt.Errorf("saving augmented package: %w", err)
		}
		fmt.Fprintf(stderr, "Converted %d of %d notes into field %q\n", converted, len(results), target)
		fmt.Fprintf(stderr, "Wrote augmented deck to: %s\n", outputPath)
		return nil
	}

	out := cmd.OutOrStdout()
	if ankiAugmentOutput != "" {
		f, err := os.Create(ankiAugmentOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch ankiAugmentFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	case "csv":
		if err := writeAugmentedCSV(out, results); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
	}

	fmt.Fprintf(stderr, "Converted %d of %d notes\n", converted, len(results))
	return nil
}

func writeAugmentedCSV(w io.Writer, results []anki.AugmentedNote) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"note_id", "source", "manchu", "failed"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			strconv.FormatInt(r.NoteID, 10),
			r.Source,
			r.Manchu,
			strings.Join(r.Failed, ";"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
