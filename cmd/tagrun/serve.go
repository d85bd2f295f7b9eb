package main

import (
	"context"

	"github.com/spf13/cobra"

	"tagrun/internal/config"
	"tagrun/internal/mcp"
	"tagrun/internal/osa"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			log := newLogger(verbose)

			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			led, err := openLedger(ctx, cfg)
			if err != nil {
				return err
			}
			defer led.Close(ctx)

			server := mcp.NewServer(cfg, led, osa.New(log), version, log)
			return server.Run(ctx, &sdk.StdioTransport{})
		},
	}
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	return cmd
}
