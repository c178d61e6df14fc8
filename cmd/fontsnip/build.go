package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fontsnip/fontsnip"
)

func newBuildCmd() *cobra.Command {
	var (
		dbPath   string
		fontDirs []string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fingerprint installed fonts into the match database",
		Long: `Renders the reference alphabet (a-z, A-Z, 0-9) for every discovered
font file, averages the per-glyph feature vectors, and writes the result
to the font database. Matching only ever reads this file; rerun build
after installing new fonts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := fontsnip.FindFontFiles(fontDirs)
			if len(paths) == 0 {
				return fmt.Errorf("no font files found")
			}
			slog.Info("discovered fonts", "count", len(paths))

			db, err := fontsnip.BuildDatabase(paths, slog.Default())
			if err != nil {
				return err
			}

			out := dbPath
			if out == "" {
				if out, err = fontsnip.DefaultDatabasePath(); err != nil {
					return err
				}
			}
			if err := db.Save(out); err != nil {
				return err
			}
			slog.Info("font database written", "fonts", db.Len(), "path", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "output path for the font database")
	cmd.Flags().StringSliceVar(&fontDirs, "font-dir", nil,
		"font directory to scan (repeatable; default: system font dirs)")
	return cmd
}

func newFontsCmd() *cobra.Command {
	var fontDirs []string

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List the font files that build would fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range fontsnip.FindFontFiles(fontDirs) {
				fmt.Println(path)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&fontDirs, "font-dir", nil,
		"font directory to scan (repeatable; default: system font dirs)")
	return cmd
}
