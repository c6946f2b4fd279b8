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

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/localnerve/ojt-tracker/internal/config"
	"github.com/localnerve/ojt-tracker/internal/database"
	"github.com/localnerve/ojt-tracker/internal/logger"
	"github.com/localnerve/ojt-tracker/internal/scheduler"
	"github.com/localnerve/ojt-tracker/internal/server"
	"github.com/localnerve/ojt-tracker/internal/storage"
)

// @title OJT Tracker API
// @version 1.0.0
// @description On-the-job training task tracker with progress reporting
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/ojt-tracker
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name ojt_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	accessLog := logger.Init(cfg.Log)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations and seed the lookup tables
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	created, err := database.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}
	if created {
		logger.Info("admin account created", "username", cfg.AdminUsername)
	}

	store := storage.NewLocal(cfg.UploadDir)
	if err := store.Writable(); err != nil {
		log.Fatalf("Upload directory %s is not writable: %v", cfg.UploadDir, err)
	}

	reconciler, err := scheduler.New(db, store, cfg.ReconcileSchedule, cfg.OrphanGrace)
	if err != nil {
		log.Fatalf("Failed to schedule reconciliation: %v", err)
	}
	reconciler.Start()

	app := server.New(cfg, db, store, accessLog)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("gracefully shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		reconciler.Stop(ctx)
		_ = app.ShutdownWithContext(ctx)
	}()

	logger.Info("starting server", "port", cfg.Port, "db_type", cfg.DBType, "metrics", cfg.MetricsEnabled)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	logger.Info("server stopped")
}
