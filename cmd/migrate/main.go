package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/config"
	"github.com/spec-kit/employee-directory/internal/observability"
	"github.com/spec-kit/employee-directory/internal/persistence"
)

func main() {
	dir := flag.String("dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-dir path] [up|down|drop|version]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	action := persistence.MigrateUp
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	source := cfg.Postgres.MigrationsDir
	if *dir != "" {
		source = *dir
	}

	if err := persistence.RunMigration(action, source, cfg.Postgres.DSN, logger); err != nil {
		logger.Fatal("migration failed", zap.String("action", action), zap.Error(err))
	}
}
