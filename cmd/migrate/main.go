package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"

	"github.com/noah-isme/cms-api/pkg/config"
	"github.com/noah-isme/cms-api/pkg/database"
	"github.com/noah-isme/cms-api/pkg/logger"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	m, err := database.NewMigrator(db, logr)
	if err != nil {
		logr.Fatal("migration init failed", zap.Error(err))
	}

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logr.Fatal("up failed", zap.Error(err))
		}
		logr.Info("migrations: up completed")

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				logr.Fatal("down: invalid steps argument", zap.String("arg", args[1]))
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logr.Fatal("down failed", zap.Error(err))
		}
		logr.Info("migrations: down completed", zap.Int("steps", steps))

	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			logr.Fatal("version failed", zap.Error(err))
		}
		fmt.Printf("version: %d  dirty: %v\n", v, dirty)

	case "force":
		if len(args) < 2 {
			logr.Fatal("force: version argument required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			logr.Fatal("force: invalid version", zap.String("arg", args[1]))
		}
		if err := m.Force(v); err != nil {
			logr.Fatal("force failed", zap.Error(err))
		}
		logr.Info("migrations: forced", zap.Int("version", v))

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Roll back N migrations (default: 1)
  version      Print current migration version
  force <V>    Force the migration version (clears dirty state)

Connection settings come from the same DB_* variables as the API server.`)
}
