package main

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/ojt-tracker/internal/database"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/storage"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Println("Database migrated")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate, load the lookup tables and create the admin account",
	Long: `Seed migrates the schema, inserts any missing categories, priorities and
statuses, and creates the ADMIN_USERNAME account when ADMIN_PASSWORD is set.
Running it again is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cfg, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		created, err := database.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Created admin account %s\n", cfg.AdminUsername)
		}
		fmt.Println("Database seeded")
		return nil
	},
}

var reconcileGrace time.Duration

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Finish pending document deletes and remove orphaned uploads once",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cfg, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		grace := cfg.OrphanGrace
		if cmd.Flags().Changed("grace") {
			grace = reconcileGrace
		}
		res, err := services.ReconcileDocuments(context.Background(), db, storage.NewLocal(cfg.UploadDir), grace, time.Now())
		if err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}
		return printJSON(res)
	},
}

type columnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Primary  bool   `json:"primary"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the tables and columns of the connected database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		migrator := db.Migrator()
		tables, err := migrator.GetTables()
		if err != nil {
			return fmt.Errorf("list tables: %w", err)
		}

		schema := make(map[string][]columnInfo, len(tables))
		for _, table := range tables {
			types, err := migrator.ColumnTypes(table)
			if err != nil {
				return fmt.Errorf("columns of %s: %w", table, err)
			}
			cols := make([]columnInfo, 0, len(types))
			for _, ct := range types {
				col := columnInfo{Name: ct.Name(), Type: ct.DatabaseTypeName()}
				col.Nullable, _ = ct.Nullable()
				col.Primary, _ = ct.PrimaryKey()
				cols = append(cols, col)
			}
			schema[table] = cols
		}
		return printJSON(schema)
	},
}

func init() {
	reconcileCmd.Flags().DurationVar(&reconcileGrace, "grace", time.Hour, "minimum age of an unreferenced file before it is removed")
}
