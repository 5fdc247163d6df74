package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/drustvo/internal/config"
	"github.com/erazemk/drustvo/internal/db"
	"github.com/erazemk/drustvo/internal/logger"
)

var (
	configPath string
	dbPath     string
	logPath    string

	rootCmd = &cobra.Command{
		Use:           "drustvo",
		Short:         "Inventory ledger and induction scoring for student organisations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", "", "log file path (overrides config)")

	rootCmd.AddCommand(serveCmd, orgCmd, reconcileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logPath != "" {
		cfg.Logger.FilePath = logPath
	}
	return cfg, nil
}

// setup loads the configuration, builds the logger and opens the database
// with its schema in place. The returned cleanup closes both.
func setup() (*config.Config, *zap.Logger, *sql.DB, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	zap.ReplaceGlobals(log)

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Sync()
		return nil, nil, nil, nil, err
	}

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		log.Sync()
		return nil, nil, nil, nil, err
	}

	cleanup := func() {
		database.Close()
		log.Sync()
	}
	return cfg, log, database, cleanup, nil
}
