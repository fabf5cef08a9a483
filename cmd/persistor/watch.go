package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/persistor/pkg/adapters/fs"
	"github.com/aretw0/persistor/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Print record changes in a resource directory",
	Long:  `Watch a resource directory and print one line per created, modified or deleted record until interrupted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchDir(ctx, args[0], cmd)
	},
}

func watchDir(ctx context.Context, dir string, cmd *cobra.Command) error {
	events, err := fs.Watch(ctx, dir, slog.Default())
	if err != nil {
		return err
	}

	source := lifecycle.NewSource(events)
	if err := source.Start(ctx); err != nil {
		return err
	}
	slog.Info("watching", "dir", dir)

	for e := range source.Events() {
		fmt.Fprintln(cmd.OutOrStdout(), e.String())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
