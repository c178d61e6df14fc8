package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fontsnip/fontsnip"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "fontsnip",
		Short: "Identify the font used in a captured piece of on-screen text",
		Long: `Fontsnip compares geometric fingerprints of the glyphs in a captured
image against a precomputed per-font database and prints the closest
matches.

Run 'fontsnip build' once to fingerprint the fonts installed on this
machine, then 'fontsnip match' on captured images.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config file (default: the user config dir)")

	cmd.AddCommand(
		newMatchCmd(&configPath),
		newBuildCmd(),
		newFontsCmd(),
	)
	return cmd
}

// loadConfig resolves the effective configuration: an explicit --config
// path, or the standard per-user file, falling back to defaults when
// neither exists.
func loadConfig(path string) (fontsnip.Config, error) {
	if path == "" {
		standard, err := fontsnip.DefaultConfigPath()
		if err != nil {
			return fontsnip.DefaultConfig(), nil
		}
		path = standard
	}
	return fontsnip.LoadConfig(path)
}

// resolveDatabasePath picks the database location: flag, then config, then
// the standard per-user file.
func resolveDatabasePath(flag string, cfg fontsnip.Config) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if cfg.DatabasePath != "" {
		return cfg.DatabasePath, nil
	}
	return fontsnip.DefaultDatabasePath()
}
