// Package server assembles the Fiber application: middleware, routes and
// the error handler.
package server

import (
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/ojt-tracker/internal/config"
	"github.com/localnerve/ojt-tracker/internal/handlers"
	"github.com/localnerve/ojt-tracker/internal/middleware"
	"github.com/localnerve/ojt-tracker/internal/storage"
	"github.com/localnerve/ojt-tracker/internal/types"
	"github.com/localnerve/ojt-tracker/internal/utils"
	"gorm.io/gorm"

	_ "github.com/localnerve/ojt-tracker/docs/api" // Swagger docs
)

// New builds the application. Access logs go to accessLog, stdout when nil.
func New(cfg *config.Config, db *gorm.DB, store *storage.Local, accessLog io.Writer) *fiber.App {
	if accessLog == nil {
		accessLog = os.Stdout
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		BodyLimit:             bodyLimit(cfg.MaxUploadBytes),
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Output:     accessLog,
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","error":"${error}"}` + "\n",
		TimeFormat: time.RFC3339,
	}))
	app.Use(compress.New())
	app.Use(preflightOK(cors.New(cors.Config{
		AllowOrigins:     cfg.AppURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Api-Version",
		AllowCredentials: cfg.AppURL != "*",
	})))

	if cfg.MetricsEnabled {
		prometheus := fiberprometheus.New("ojt_tracker")
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded files
	app.Static("/"+storage.PublicPrefix, store.Root(), fiber.Static{ByteRange: true})

	auth := middleware.NewAuth(cfg, db)
	user := auth.AuthUser()
	admin := auth.AuthAdmin()

	taskH := &handlers.TaskHandler{DB: db}
	lookupH := &handlers.LookupHandler{DB: db}
	progressH := &handlers.ProgressHandler{DB: db, RequiredHours: cfg.RequiredHours}
	authH := &handlers.AuthHandler{DB: db, Auth: auth}
	docH := &handlers.DocumentHandler{DB: db, Store: store, MaxBytes: cfg.MaxUploadBytes}
	activityH := &handlers.ActivityHandler{DB: db}
	adminH := &handlers.AdminHandler{DB: db, Auth: auth}
	healthH := &handlers.HealthHandler{Cfg: cfg, DB: db, Store: store}

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	api.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api.Get("/health", healthH.Health)

	// Session lifecycle
	api.Post("/login", authH.Login)
	api.Post("/signup", authH.Signup)
	api.Post("/logout", authH.Logout)
	api.Get("/check_auth", authH.CheckAuth)

	// Reference data
	api.Get("/categories", lookupH.Categories)
	api.Get("/priorities", lookupH.Priorities)
	api.Get("/statuses", lookupH.Statuses)

	// Signed-in routes
	api.Get("/tasks", user, taskH.Get)
	api.Post("/tasks", user, taskH.Create)
	api.Put("/tasks", user, taskH.Update)
	api.Delete("/tasks", user, taskH.Delete)

	api.Get("/progress", user, progressH.Get)
	api.Get("/export/tasks", user, progressH.Export)

	api.Get("/documents", user, docH.List)
	api.Post("/documents", user, docH.Upload)
	api.Delete("/documents", user, docH.Delete)

	api.Get("/activity", user, activityH.List)
	api.Post("/activity", user, activityH.Append)

	api.Post("/update_user", user, adminH.UpdateUser)

	// Admin-only routes
	api.Get("/get_users", admin, adminH.GetUsers)
	api.Post("/delete_user", admin, adminH.DeleteUser)

	// 405 for known paths, 404 for everything else
	allowed := routeMethods(app)
	app.Use(func(c *fiber.Ctx) error {
		if methods, ok := allowed[normalizePath(c.Path())]; ok {
			c.Set(fiber.HeaderAllow, strings.Join(methods, ", "))
			return utils.ErrorResponse(c, "Method not allowed", fiber.StatusMethodNotAllowed, "method_not_allowed")
		}
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	return app
}

// preflightOK answers CORS preflight requests with 200 instead of 204
func preflightOK(corsHandler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := corsHandler(c); err != nil {
			return err
		}
		if c.Method() == fiber.MethodOptions && c.Response().StatusCode() == fiber.StatusNoContent {
			c.Status(fiber.StatusOK)
		}
		return nil
	}
}

// routeMethods maps each static route path to the methods registered on it
func routeMethods(app *fiber.App) map[string][]string {
	allowed := map[string][]string{}
	for _, r := range app.GetRoutes(true) {
		if strings.ContainsAny(r.Path, "*:") {
			continue
		}
		path := normalizePath(r.Path)
		if !slices.Contains(allowed[path], r.Method) {
			allowed[path] = append(allowed[path], r.Method)
		}
	}
	for path := range allowed {
		slices.Sort(allowed[path])
	}
	return allowed
}

func normalizePath(path string) string {
	if trimmed := strings.TrimRight(path, "/"); trimmed != "" {
		return trimmed
	}
	return "/"
}

// bodyLimit leaves room for multipart framing around the largest upload
func bodyLimit(maxUpload int64) int {
	const floor = 4 * 1024 * 1024
	return max(int(2*maxUpload), floor)
}

// customErrorHandler renders errors returned from handlers and middleware in the error envelope
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var ce *types.CustomError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ce):
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
		errorType = "http"
	}

	return utils.ErrorResponse(c, message, code, errorType)
}
