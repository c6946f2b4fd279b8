package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/localnerve/ojt-tracker/internal/config"
	"github.com/localnerve/ojt-tracker/internal/database"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// settings holds flag and OJT_* environment overrides
var settings = viper.New()

func bindSettings(cmd *cobra.Command, args []string) error {
	settings.SetEnvPrefix("OJT")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	if err := settings.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	return nil
}

// localConfig reads the server configuration and overlays the CLI settings.
// Only the database settings are required.
func localConfig() (*config.Config, error) {
	if path := settings.GetString("env-file"); path != "" {
		if err := os.Setenv("ENV_FILE", path); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	overlay := map[string]*string{
		"db-type":     &cfg.DBType,
		"db-host":     &cfg.DBHost,
		"db-port":     &cfg.DBPort,
		"db-name":     &cfg.DBName,
		"db-user":     &cfg.DBUser,
		"db-password": &cfg.DBPassword,
		"upload-dir":  &cfg.UploadDir,
	}
	for key, field := range overlay {
		if v := settings.GetString(key); v != "" {
			*field = v
		}
	}

	if cfg.DBName == "" {
		return nil, fmt.Errorf("no database configured: set DB_NAME, OJT_DB_NAME or --db-name")
	}
	return cfg, nil
}

// openDB connects to the configured database. The caller closes it.
func openDB() (*gorm.DB, *config.Config, error) {
	cfg, err := localConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return db, cfg, nil
}
