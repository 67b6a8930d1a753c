package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "importer",
		Short:         "Load cosmogony cities into administrative_regions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	importCmd := newImportCmd()
	root.AddCommand(importCmd)
	// `importer --input ...` is the same as `importer import --input ...`
	root.Flags().AddFlagSet(importCmd.Flags())
	root.RunE = importCmd.RunE

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
