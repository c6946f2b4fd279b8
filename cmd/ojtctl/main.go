// main.go
//
// OJT task tracker service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of ojt-tracker.
// ojt-tracker is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// ojt-tracker is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with ojt-tracker.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Command ojtctl administers an OJT tracker installation: database setup,
// accounts, document reconciliation and quick remote reports.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ojtctl",
	Short: "Administer an OJT tracker installation",
	Long: `ojtctl manages the OJT tracker database and uploads directly, and reads
reports from a running server through its API.

Settings come from the same .env file and environment as the server. Flags
and OJT_* environment variables override them, e.g. --db-name or OJT_DB_NAME.`,
	SilenceUsage:      true,
	PersistentPreRunE: bindSettings,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("env-file", "", "path to a .env file (default: ./.env when present)")
	flags.String("db-type", "", "database type: mysql, mariadb, postgres, sqlite, sqlite-pure, sqlserver")
	flags.String("db-host", "", "database host")
	flags.String("db-port", "", "database port")
	flags.String("db-name", "", "database name, or file for sqlite")
	flags.String("db-user", "", "database user")
	flags.String("db-password", "", "database password")
	flags.String("upload-dir", "", "document upload directory")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(tasksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printJSON writes v to stdout as indented JSON
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
