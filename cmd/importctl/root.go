package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/config"
	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/core"
	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/logging"
)

var version = "dev"

type rootOptions struct {
	logLevel string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "importctl",
		Short: "Preview and commit pet-welfare case import files",
		Long: `importctl runs case import files through the same detect, map and
validate pipeline as the server.

Examples:
  # Show what would be imported
  importctl preview voicemail.csv waitwhile.json

  # Import the valid records into the configured database
  importctl commit intake.csv

  # Run a commit against an in-memory store
  importctl commit --dry-run intake.csv`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; the environment may already be set.
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg

			level := cfg.Logging.Level
			if opts.logLevel != "" {
				level = opts.logLevel
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (default: LOG_LEVEL or info)")

	cmd.AddCommand(newPreviewCmd(opts))
	cmd.AddCommand(newCommitCmd(opts))
	return cmd
}

// readFiles loads every path into an upload, named by its base name.
func readFiles(paths []string) ([]core.UploadFile, error) {
	files := make([]core.UploadFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, core.UploadFile{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

func newService(cfg *config.Config, store core.Store) *core.Service {
	return core.NewService(store, core.Options{
		MaxFileSize: cfg.Import.MaxFileSize.Bytes(),
		Timeout:     cfg.Import.Timeout,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
