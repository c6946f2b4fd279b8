package main

import (
	"fmt"

	"github.com/localnerve/ojt-tracker/internal/database"
	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var (
	userUsername string
	userEmail    string
	userFullName string
	userPassword string
	userAdmin    bool
)

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	Long: `Add creates an active account under the same rules as signup.

Example:
  ojtctl user add --username alice --email alice@example.com --full-name "Alice Liddell" --password secret1
  ojtctl user add --username root --email root@example.com --full-name Root --password secret1 --admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		role := models.RoleUser
		if userAdmin {
			role = models.RoleAdmin
		}
		user, err := services.CreateUser(db, services.SignupInput{
			Username: userUsername,
			Email:    userEmail,
			Password: userPassword,
			FullName: userFullName,
		}, role)
		if err != nil {
			return fmt.Errorf("add user: %w", err)
		}
		return printJSON(services.NewSessionUser(user))
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts with their task counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		users, err := services.ListUsers(db)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return printJSON(users)
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userUsername, "username", "", "username (required)")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "email address (required)")
	userAddCmd.Flags().StringVar(&userFullName, "full-name", "", "full name (required)")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password (required)")
	userAddCmd.Flags().BoolVar(&userAdmin, "admin", false, "grant the admin role")
	for _, name := range []string{"username", "email", "full-name", "password"} {
		_ = userAddCmd.MarkFlagRequired(name)
	}

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
}
