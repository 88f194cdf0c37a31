// Package cmd contains all CLI commands for the manju tool.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/manju/internal/config"
	"github.com/f3rmion/manju/internal/logger"
	"github.com/f3rmion/manju/internal/manchu"
	"github.com/f3rmion/manju/internal/tui"
	"github.com/f3rmion/manju/internal/tui/bigchar"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// appConfig is the merged file, env and flag configuration,
	// loaded before any command runs.
	appConfig = config.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "manju",
	Short: "Transliterate romanized Manchu into Manchu script",
	Long: `manju converts romanized Manchu (Möllendorff transliteration) into
Manchu script in the Unicode Mongolian block.

  manju convert cooha be acaha
  echo "manju gisun" | manju convert

Words that cannot be mapped are reported together. With --ignore-errors
they are copied into the output unchanged instead.

Running 'manju' without arguments launches the interactive TUI.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/manju)")
	flags.Bool("verbose", false, "verbose output (same as --log-level debug)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: pretty or json")
	flags.BoolP("ignore-errors", "i", false, "copy unmappable words to the output instead of failing")

	viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.format", flags.Lookup("log-format"))
	viper.BindPFlag("ignore_errors", flags.Lookup("ignore-errors"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("MANJU")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadConfig reads config.yaml and lets MANJU_* variables and flags
// override it, then installs the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadDir(getConfigDir())
	if err != nil {
		return err
	}

	if viper.IsSet("ignore_errors") {
		cfg.IgnoreErrors = viper.GetBool("ignore_errors")
	}
	if v := viper.GetString("log.level"); v != "" {
		cfg.Log.Level = v
	}
	if v := viper.GetString("log.format"); v != "" {
		cfg.Log.Format = v
	}
	if viper.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}
	if v := viper.GetString("font"); v != "" {
		cfg.Font = v
	}
	if v := viper.GetString("anki.source_field"); v != "" {
		cfg.Anki.SourceField = v
	}
	if v := viper.GetString("anki.target_field"); v != "" {
		cfg.Anki.TargetField = v
	}

	appConfig = cfg
	logger.Init(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	slog.Debug("config loaded",
		"dir", getConfigDir(),
		"ignore_errors", cfg.IgnoreErrors,
		"font", cfg.Font,
	)
	return nil
}

// newConverter builds a converter honoring --ignore-errors.
func newConverter() *manchu.Converter {
	return manchu.NewConverter(manchu.Options{IgnoreErrors: appConfig.IgnoreErrors})
}

// newRenderer loads the glyph font, or returns nil when none is usable.
func newRenderer() *bigchar.Renderer {
	renderer, err := bigchar.NewRenderer(appConfig.Font)
	if err != nil {
		slog.Debug("glyph art disabled", "error", err)
		return nil
	}
	return renderer
}

// runTUI launches the TUI, optionally pre-filled with a text file.
func runTUI(cmd *cobra.Command, args []string) error {
	renderer := newRenderer()

	app := tui.NewApp(appConfig, renderer)
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}
		app = tui.NewAppWithText(appConfig, renderer, strings.TrimRight(string(data), "\n"))
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
