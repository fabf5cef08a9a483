package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/aretw0/persistor/pkg/mapper"
	"github.com/spf13/cobra"
)

var (
	inspectJSON bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file.dat]",
	Short: "Show the structure of a text record",
	Long:  `Parse a text record and print its type tag, scalar fields and collections. Use --json for machine-readable output.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading record: %w", err)
		}

		rec, err := mapper.Parse(string(data))
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", args[0], err)
		}

		if inspectJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(recordView(rec))
		}
		printRecord(cmd.OutOrStdout(), rec)
		return nil
	},
}

type recordJSON struct {
	Tag         string              `json:"tag"`
	Scalars     map[string]string   `json:"scalars"`
	Collections map[string][]string `json:"collections"`
}

func recordView(rec *mapper.Record) recordJSON {
	view := recordJSON{
		Tag:         rec.Tag,
		Scalars:     rec.Scalars,
		Collections: make(map[string][]string, len(rec.Collections)),
	}
	for name := range rec.Collections {
		view.Collections[name] = rec.Items(name)
	}
	return view
}

func printRecord(w io.Writer, rec *mapper.Record) {
	tag := rec.Tag
	if tag == "" {
		tag = "(none)"
	}
	fmt.Fprintf(w, "type: %s\n", tag)

	for _, name := range sortedKeys(rec.Scalars) {
		fmt.Fprintf(w, "%s = %s\n", name, rec.Scalars[name])
	}
	for _, name := range sortedKeys(rec.Collections) {
		for i, item := range rec.Items(name) {
			fmt.Fprintf(w, "%s[%d] = %s\n", name, i, item)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output in JSON format")
}
