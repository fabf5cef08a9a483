package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/persistor/internal/platform"
)

var (
	configPath   string
	contextsJSON bool
)

var contextsCmd = &cobra.Command{
	Use:   "contexts",
	Short: "List the contexts of a configuration file",
	Long: `Load the configuration (--config, or the nearest persistor.yaml, persistor.yml
or persistor.json above the working directory) and list its contexts with
their kind, resource directory and supervision logs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			found, err := platform.FindConfig(".")
			if err != nil {
				return err
			}
			path = found
		}
		slog.Debug("loading config", "path", path)

		cfg, err := platform.LoadConfig(path)
		if err != nil {
			return err
		}

		views := make([]contextView, 0, len(cfg.Contexts))
		for _, name := range cfg.Names() {
			cc := cfg.Contexts[name]
			kind, _ := platform.NormalizeKind(cc.KindName())
			views = append(views, contextView{
				Name:     name,
				Kind:     kind,
				Resource: cfg.Resolve(cc.ResourcePath()),
				Audit:    cfg.Resolve(cc.Audit),
				Trace:    cfg.Resolve(cc.Trace),
			})
		}

		if contextsJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(views)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tRESOURCE\tAUDIT\tTRACE")
		for _, v := range views {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", v.Name, v.Kind, v.Resource, dash(v.Audit), dash(v.Trace))
		}
		return w.Flush()
	},
}

type contextView struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Resource string `json:"resource"`
	Audit    string `json:"audit,omitempty"`
	Trace    string `json:"trace,omitempty"`
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(contextsCmd)
	contextsCmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: nearest persistor.yaml)")
	contextsCmd.Flags().BoolVar(&contextsJSON, "json", false, "Output in JSON format")
}
