package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

func main() {
	mode := flag.String("mode", "up", "migration mode: up, down or status")
	dir := flag.String("dir", "migrations", "directory holding NNN_name.up.sql / NNN_name.down.sql files")
	steps := flag.Int("steps", 1, "number of migrations to revert in down mode, 0 reverts all")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()
	log := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       "info",
		Format:      "text",
		ServiceName: "storedesk-migrate",
	})

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Error(ctx, "DATABASE_URL environment variable is required", nil, nil)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Error(ctx, "failed to connect database", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Error(ctx, "failed to ping database", err, nil)
		os.Exit(1)
	}

	m := &migrator{db: db, now: time.Now}
	if err := m.ensureSchemaMigrations(ctx); err != nil {
		log.Error(ctx, "failed to ensure schema_migrations", err, nil)
		os.Exit(1)
	}

	ups, downs, skipped, err := loadMigrationFiles(*dir)
	if err != nil {
		log.Error(ctx, "failed to load migrations", err, map[string]interface{}{"dir": *dir})
		os.Exit(1)
	}
	for _, name := range skipped {
		log.Warn(ctx, "skip file that is not a migration", map[string]interface{}{"file": name})
	}

	applied, err := m.applied(ctx)
	if err != nil {
		log.Error(ctx, "failed to read applied migrations", err, nil)
		os.Exit(1)
	}

	switch strings.ToLower(*mode) {
	case "up":
		for _, f := range pendingUp(ups, applied) {
			log.Info(ctx, "applying migration", map[string]interface{}{"version": f.version, "name": f.name})
			if err := m.run(ctx, f); err != nil {
				log.Error(ctx, "migration up failed", err, map[string]interface{}{"version": f.version})
				os.Exit(1)
			}
		}
		log.Info(ctx, "Migration up completed successfully", nil)
	case "down":
		for _, f := range revertibleDown(downs, applied, *steps) {
			log.Info(ctx, "reverting migration", map[string]interface{}{"version": f.version, "name": f.name})
			if err := m.run(ctx, f); err != nil {
				log.Error(ctx, "migration down failed", err, map[string]interface{}{"version": f.version})
				os.Exit(1)
			}
		}
		log.Info(ctx, "Migration down completed successfully", nil)
	case "status":
		for _, f := range ups {
			fields := map[string]interface{}{"version": f.version, "name": f.name, "applied": false}
			if at, ok := applied[f.version]; ok {
				fields["applied"] = true
				fields["applied_at"] = at.Format(time.RFC3339)
			}
			log.Info(ctx, "migration", fields)
		}
	default:
		log.Error(ctx, "unknown mode", nil, map[string]interface{}{"mode": *mode})
		os.Exit(1)
	}
}
