// main is the entry point of the student CRUD HTTP API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the student store (in-memory by default, or SQLite) and seed it
//  4. Register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, close the store
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/student-crud/internal/app"
	"github.com/aanand-mishra/student-crud/internal/attachment"
	"github.com/aanand-mishra/student-crud/internal/config"
	attachmenthandler "github.com/aanand-mishra/student-crud/internal/http/handlers/attachment"
	"github.com/aanand-mishra/student-crud/internal/http/handlers/student"
	"github.com/aanand-mishra/student-crud/internal/metrics"
	"github.com/aanand-mishra/student-crud/internal/validation"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers log through the package-level slog functions, so the
	// configured logger is installed as the default.
	log := app.NewLogger(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.1.0"),
	)

	profile, err := validation.ParseProfile(cfg.Validation.Profile)
	if err != nil {
		log.Error("invalid validation profile", slog.String("error", err.Error()))
		os.Exit(1)
	}
	validator := validation.New(profile)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	store, err := app.NewStore(cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised",
		slog.String("backend", cfg.Storage.Backend),
		slog.String("path", cfg.Storage.Path),
		slog.String("validation", string(profile)))

	attachments := attachment.NewRegistry(cfg.Attachments.MaxBytes)

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	//   POST   /api/students            → create a new student
	//   GET    /api/students            → list all students
	//   GET    /api/students/{id}       → get one student by ID
	//   PUT    /api/students/{id}       → update a student in place
	//   DELETE /api/students/{id}       → delete a student
	//   POST   /api/attachments         → upload an image or PDF
	//   GET    /api/attachments/{ref}   → preview an upload
	//   DELETE /api/attachments/{ref}   → forget an upload
	//   GET    /metrics                 → Prometheus metrics
	router := http.NewServeMux()

	routes := map[string]http.HandlerFunc{
		"POST /api/students":            student.New(store, validator),
		"GET /api/students":             student.GetList(store),
		"GET /api/students/{id}":        student.GetByID(store),
		"PUT /api/students/{id}":        student.Update(store, validator),
		"DELETE /api/students/{id}":     student.Delete(store),
		"POST /api/attachments":         attachmenthandler.Upload(attachments),
		"GET /api/attachments/{ref}":    attachmenthandler.Get(attachments),
		"DELETE /api/attachments/{ref}": attachmenthandler.Delete(attachments),
	}
	for pattern, handler := range routes {
		router.HandleFunc(pattern, metrics.Instrument(pattern, handler))
	}
	router.Handle("GET /metrics", promhttp.Handler())

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Serve Until Shutdown ───────────────────────────────────────────
	if err := run(log, server); err != nil {
		log.Error("server stopped with an error", slog.String("error", err.Error()))
		// os.Exit skips deferred calls; close the store first.
		store.Close()
		os.Exit(1)
	}
}

// run starts the server in a goroutine and blocks until an OS signal or a
// listen failure, then shuts the server down gracefully.
func run(log *slog.Logger, server *http.Server) error {
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", server.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case err := <-serverErr:
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	case <-done:
	}

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
