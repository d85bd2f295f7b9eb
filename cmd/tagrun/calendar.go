package main

import (
	"github.com/spf13/cobra"

	"tagrun/internal/tag"
)

func calendarCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Create calendar events from @calendar tags in a markdown file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTag(tag.CalendarSchema, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Parse and print actions without creating events")
	return cmd
}
