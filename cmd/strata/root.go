package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/chazu/strata/pkg/topo"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "strata",
		Short: "Strata: planar layer preparation for 3D printing",
		Long: `
Strata evaluates a Lisp model script into stacked planar outlines, rebuilds
each layer's closed loops and generates the paths a printer traces: offset
perimeter shells, raster or pen-ordered infill and a brim around the first
layer.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden by environment variables and flags.")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log loop rebuilding and offset details.")
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(cmd.ErrOrStderr(), verbose)
	}

	root.AddCommand(newPrepareCmd(), newVersionCmd())
	return root
}

// setupLogging installs a text logger on stderr for the geometry packages.
// Warnings are always shown; verbose adds debug records.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	topo.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the strata version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "strata %s\n", version)
		},
	}
}
