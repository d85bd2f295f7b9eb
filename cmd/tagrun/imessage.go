package main

import (
	"github.com/spf13/cobra"

	"tagrun/internal/tag"
)

func imessageCmd() *cobra.Command {
	var flags runFlags
	var yes bool
	cmd := &cobra.Command{
		Use:   "imessage",
		Short: "Send iMessages from @imessage tags in a markdown file",
		Long:  "Send iMessages from @imessage tags. Dry-run by default; pass --yes to actually send.",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.dryRun = !yes
			return runTag(tag.IMessageSchema, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&yes, "yes", false, "Actually send messages (otherwise dry-run)")
	return cmd
}
