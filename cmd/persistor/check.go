package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/persistor/pkg/adapters/fs"
	"github.com/aretw0/persistor/pkg/mapper"
)

var checkCmd = &cobra.Command{
	Use:   "check [glob...]",
	Short: "Verify that text records parse",
	Long: `Expand each glob (doublestar syntax, e.g. "data/**/*.dat") and parse every
matching text record. Files that are not ".dat" records are skipped.
Exits with an error if any record is malformed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		checked, failed := 0, 0

		for _, pattern := range args {
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, path := range matches {
				if filepath.Ext(path) != fs.TextExt {
					slog.Debug("skipping non-text file", "path", path)
					continue
				}
				checked++
				if err := checkRecord(path); err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					continue
				}
				slog.Debug("record ok", "path", path)
			}
		}

		fmt.Fprintf(out, "%d checked, %d failed\n", checked, failed)
		if failed > 0 {
			return fmt.Errorf("%d malformed record(s)", failed)
		}
		return nil
	},
}

func checkRecord(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	rec, err := mapper.Parse(string(data))
	if err != nil {
		return err
	}
	if rec.Tag == "" {
		return fmt.Errorf("missing %s line", mapper.ClassPrefix)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
