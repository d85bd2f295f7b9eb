package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagrun/internal/config"
)

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or reset the idempotency ledger",
	}
	cmd.AddCommand(ledgerListCmd())
	cmd.AddCommand(ledgerResetCmd())
	return cmd
}

func ledgerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded dispatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			led, err := openLedger(ctx, cfg)
			if err != nil {
				return err
			}
			defer led.Close(ctx)

			entries, err := led.Load(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(os.Stdout, "Ledger is empty.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(os.Stdout, "%s\t%s\t%q", e.LoggedAt, e.Identity, e.Message)
				if e.At != "" {
					fmt.Fprintf(os.Stdout, "\t@ %s", e.At)
				}
				fmt.Fprintln(os.Stdout)
			}
			return nil
		},
	}
}

func ledgerResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe the ledger so every tag dispatches again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			led, err := openLedger(ctx, cfg)
			if err != nil {
				return err
			}
			defer led.Close(ctx)

			if err := led.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "Ledger reset.")
			return nil
		},
	}
}
