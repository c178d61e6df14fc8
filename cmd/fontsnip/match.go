package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/fontsnip/fontsnip"
	"github.com/fontsnip/fontsnip/tesseract"
)

func newMatchCmd(configPath *string) *cobra.Command {
	var (
		dbPath    string
		topN      int
		languages []string
	)

	cmd := &cobra.Command{
		Use:   "match IMAGE",
		Short: "Rank candidate fonts for the text in a captured image",
		Example: `  # Match against the default database
  fontsnip match snip.png

  # Show the ten closest fonts from a custom database
  fontsnip match snip.png --db ./fonts.db --top 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if topN > 0 {
				cfg.TopN = topN
			}

			path, err := resolveDatabasePath(dbPath, cfg)
			if err != nil {
				return err
			}
			db, err := fontsnip.LoadDatabase(path)
			if err != nil {
				return err
			}
			slog.Info("loaded font database", "fonts", db.Len(), "path", path)

			img := gocv.IMRead(args[0], gocv.IMReadColor)
			if img.Empty() {
				return fmt.Errorf("could not read image from %s", args[0])
			}
			defer img.Close()

			reader, err := tesseract.NewReader(languages...)
			if err != nil {
				return err
			}
			defer reader.Close()

			ident, err := fontsnip.NewIdentifier(db, reader, cfg, slog.Default())
			if err != nil {
				return err
			}
			results, err := ident.Identify(cmd.Context(), img)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println("no font resembles this capture")
				return nil
			}
			for i, res := range results {
				fmt.Printf("%2d. %-40s %.4f\n",
					i+1, filepath.Base(res.FontID), res.Similarity)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "path to the font database")
	cmd.Flags().IntVar(&topN, "top", 0, "number of matches to show (default: from config)")
	cmd.Flags().StringSliceVar(&languages, "lang", nil, "OCR languages (default: eng)")
	return cmd
}
