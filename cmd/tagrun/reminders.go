package main

import (
	"github.com/spf13/cobra"

	"tagrun/internal/tag"
)

func remindersCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Create reminders from @reminder tags in a markdown file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTag(tag.ReminderSchema, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Parse and print actions without creating reminders")
	return cmd
}
