// students-shell is an interactive terminal front end for the student list.
//
//	go run ./cmd/students-shell --config=config/local.yaml
//
// Without --config (or CONFIG_PATH) it runs on environment variables and
// defaults: an empty in-memory store with the strict validation profile.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/student-crud/internal/app"
	"github.com/aanand-mishra/student-crud/internal/attachment"
	"github.com/aanand-mishra/student-crud/internal/config"
	"github.com/aanand-mishra/student-crud/internal/form"
	"github.com/aanand-mishra/student-crud/internal/shell"
	"github.com/aanand-mishra/student-crud/internal/validation"
)

var (
	configPath string
	profile    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "students-shell",
	Short: "Add, edit, delete and list students from the terminal",
	Long: `An interactive form over the student list.

Type "help" at the prompt for the list of commands.`,
	SilenceUsage: true,
	RunE:         runShell,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "Path to the configuration YAML file")
	rootCmd.Flags().StringVar(&profile, "profile", "", "Validation profile override: basic, email or strict")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr at the configured level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Logs go to stderr so they never interleave with the table on stdout.
	// Unless asked for, keep the shell quiet.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		log = app.NewLogger(cfg.Env, os.Stderr)
	}
	slog.SetDefault(log)

	if profile != "" {
		cfg.Validation.Profile = profile
	}
	p, err := validation.ParseProfile(cfg.Validation.Profile)
	if err != nil {
		return err
	}

	store, err := app.NewStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialise storage: %w", err)
	}
	defer store.Close()

	log.Info("shell started",
		slog.String("backend", cfg.Storage.Backend),
		slog.String("validation", string(p)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := form.NewSession(store, validation.New(p), log)
	sh := shell.New(session, attachment.NewRegistry(cfg.Attachments.MaxBytes), cmd.InOrStdin(), cmd.OutOrStdout())

	// Ctrl+C is the normal way out, not a failure.
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.FromEnv()
	}
	return config.Load(configPath)
}
