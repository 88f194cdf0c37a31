package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/manju/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize manju configuration",
	Long: `Write a default config.yaml to your config directory.

Settings:
  ignore_errors       copy unmappable words through instead of failing
  log.level           debug, info, warn, error
  log.format          pretty or json
  anki.source_field   romanized field for 'anki augment' (auto-detect if empty)
  anki.target_field   field that receives Manchu script
  font                Mongolian-script font for glyph art

Every setting can also be given as a MANJU_* environment variable,
e.g. MANJU_IGNORE_ERRORS=true or MANJU_LOG_LEVEL=debug.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	configDir := getConfigDir()
	path := filepath.Join(configDir, config.FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := config.EnsureDir(configDir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Set 'font' if glyph art should use a specific Mongolian-script font")
	fmt.Fprintln(out, "  2. Run 'manju convert cooha be acaha' to try a conversion")
	fmt.Fprintln(out, "  3. Run 'manju' to open the interactive UI")

	return nil
}
