package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tagrun/internal/config"
	"tagrun/internal/dispatch"
	"tagrun/internal/osa"
	"tagrun/internal/tag"
)

const configFile = "tagrun.yaml"

type runFlags struct {
	file         string
	dryRun       bool
	verbose      bool
	ignoreLedger bool
	resetLedger  bool
	timeout      int
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "Path to the markdown file to scan")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "Verbose logging")
	cmd.Flags().BoolVar(&f.ignoreLedger, "ignore-ledger", false, "Dispatch even when the ledger already records an identity")
	cmd.Flags().BoolVar(&f.resetLedger, "reset-ledger", false, "Wipe the ledger before processing")
	cmd.Flags().IntVar(&f.timeout, "timeout", 0, "Per-action executor timeout in seconds (default from config)")
	cmd.MarkFlagRequired("file")
}

func runTag(schema tag.Schema, flags runFlags) error {
	ctx := context.Background()
	log := newLogger(flags.verbose)

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	led, err := openLedger(ctx, cfg)
	if err != nil {
		return err
	}
	defer led.Close(ctx)

	timeout := flags.timeout
	if timeout <= 0 {
		timeout = cfg.Defaults.TimeoutSeconds
	}

	var defaultDestination string
	switch schema.Tag {
	case "reminder":
		defaultDestination = cfg.Defaults.List
	case "calendar":
		defaultDestination = cfg.Defaults.Calendar
	}

	opts := dispatch.Options{
		DryRun:             flags.dryRun,
		IgnoreLedger:       flags.ignoreLedger,
		ResetLedger:        flags.resetLedger,
		Timeout:            time.Duration(timeout) * time.Second,
		DefaultDestination: defaultDestination,
		Out:                os.Stdout,
	}

	result, err := dispatch.Run(ctx, flags.file, schema, led, osa.New(log), opts, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Scanned %d @%s tag(s): %d dispatched, %d skipped.\n",
		result.Scanned, schema.Tag, result.Dispatched, result.Skipped)

	if len(result.Errors) > 0 {
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stderr, "  - %v\n", item)
		}
		return fmt.Errorf("completed with %d error(s)", len(result.Errors))
	}
	return nil
}
