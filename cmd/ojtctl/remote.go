package main

import (
	"context"
	"fmt"

	"github.com/localnerve/ojt-tracker/pkg/client"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show a user's progress report from a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := remoteClient(ctx)
		if err != nil {
			return err
		}
		if _, err := c.RefreshTasks(ctx); err != nil {
			return fmt.Errorf("fetch tasks: %w", err)
		}
		p, err := c.Progress(ctx)
		if err != nil {
			return fmt.Errorf("fetch progress: %w", err)
		}
		return printJSON(p)
	},
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List a user's tasks from a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := remoteClient(ctx)
		if err != nil {
			return err
		}
		tasks, err := c.RefreshTasks(ctx)
		if err != nil {
			return fmt.Errorf("fetch tasks: %w", err)
		}
		return printJSON(tasks)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{progressCmd, tasksCmd} {
		cmd.Flags().String("server", "http://localhost:3000", "server base URL")
		cmd.Flags().String("username", "", "account username or email (required)")
		cmd.Flags().String("password", "", "account password (required)")
		cmd.Flags().Float64("required-hours", 480, "hours target for the progress report computed from the task list")
	}
}

// remoteClient signs in to the server named by --server
func remoteClient(ctx context.Context) (*client.Client, error) {
	username := settings.GetString("username")
	password := settings.GetString("password")
	if username == "" || password == "" {
		return nil, fmt.Errorf("--username and --password (or OJT_USERNAME and OJT_PASSWORD) are required")
	}

	c, err := client.New(settings.GetString("server"), client.WithRequiredHours(settings.GetFloat64("required-hours")))
	if err != nil {
		return nil, err
	}
	if _, err := c.Login(ctx, username, password, false); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c, nil
}
