// Package main provides the CLI entry point for imgtable.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ukaji3/imgtable-go/pkg/imgtable"
)

// DefaultImage is converted when no image argument is given.
const DefaultImage = "table3.jpg"

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Critical error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imgtable [image]",
		Short: "Convert a table image into a spreadsheet",
		Long: `imgtable reads a photographed or scanned table with OCR, rebuilds its
rows and columns, optionally cleans it up with a language model, and
writes it to an .xlsx workbook.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args)
		},
	}

	addFlags(rootCmd.Flags())
	return rootCmd
}

func run(cmd *cobra.Command, v *viper.Viper, args []string) error {
	imagePath := DefaultImage
	if len(args) > 0 {
		imagePath = args[0]
	}

	cfg, err := readConfig(v)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := buildOptions(cfg, logger)
	opts.Progress = cmd.OutOrStdout()

	result, err := imgtable.Convert(ctx, imagePath, opts)
	if err != nil {
		return err
	}
	if result.RefineError != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "AI refinement skipped: %v\n", result.RefineError)
	}
	return nil
}
