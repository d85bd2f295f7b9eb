package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter tagrun.yaml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(projectName string) error {
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("%s already exists", configFile)
	}

	contents := fmt.Sprintf(`project: %s
version: 1

ledger:
  dsn: file://.tagrun/ledger.json

defaults:
  list: ""
  calendar: ""
  timeout_seconds: 12
`, projectName)
	if err := os.WriteFile(configFile, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	return nil
}
