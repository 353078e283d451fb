package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

type migrationKind string

const (
	kindUp   migrationKind = "up"
	kindDown migrationKind = "down"
)

type migrationFile struct {
	version int
	name    string
	path    string
	kind    migrationKind
}

var errInvalidFilename = errors.New("invalid migration filename")

// parseMigrationFilename expects 001_create_products.up.sql or 001_create_products.down.sql
func parseMigrationFilename(filename string) (int, string, migrationKind, error) {
	lower := strings.ToLower(filename)

	var kind migrationKind
	switch {
	case strings.HasSuffix(lower, ".up.sql"):
		kind = kindUp
	case strings.HasSuffix(lower, ".down.sql"):
		kind = kindDown
	default:
		return 0, "", "", errInvalidFilename
	}

	base := filename[:len(filename)-len("."+string(kind)+".sql")]
	parts := strings.SplitN(base, "_", 2)
	if len(parts) < 2 || parts[1] == "" {
		return 0, "", "", errInvalidFilename
	}
	version, err := strconv.Atoi(parts[0])
	if err != nil || version <= 0 {
		return 0, "", "", errInvalidFilename
	}
	return version, parts[1], kind, nil
}

// loadMigrationFiles returns up files ascending and down files descending
func loadMigrationFiles(dir string) (ups, downs []migrationFile, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, nil, err
	}

	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		version, name, kind, err := parseMigrationFilename(e.Name())
		if err != nil {
			skipped = append(skipped, e.Name())
			continue
		}

		key := fmt.Sprintf("%d/%s", version, kind)
		if prev, dup := seen[key]; dup {
			return nil, nil, nil, fmt.Errorf("duplicate %s migration version %03d: %s and %s", kind, version, prev, e.Name())
		}
		seen[key] = e.Name()

		f := migrationFile{version: version, name: name, path: filepath.Join(dir, e.Name()), kind: kind}
		if kind == kindUp {
			ups = append(ups, f)
		} else {
			downs = append(downs, f)
		}
	}

	sort.Slice(ups, func(i, j int) bool { return ups[i].version < ups[j].version })
	sort.Slice(downs, func(i, j int) bool { return downs[i].version > downs[j].version })
	return ups, downs, skipped, nil
}

type migrator struct {
	db  *sql.DB
	now func() time.Time
}

func (m *migrator) ensureSchemaMigrations(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

func (m *migrator) applied(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]time.Time)
	for rows.Next() {
		var (
			version int
			at      time.Time
		)
		if err := rows.Scan(&version, &at); err != nil {
			return nil, err
		}
		out[version] = at
	}
	return out, rows.Err()
}

// run executes one migration file and its bookkeeping in a single transaction
func (m *migrator) run(ctx context.Context, f migrationFile) error {
	body, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("failed executing %s: %w", f.path, err)
	}

	if f.kind == kindUp {
		_, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, $3)`,
			f.version, f.name, m.now())
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, f.version)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// pendingUp lists up migrations not yet applied
func pendingUp(ups []migrationFile, applied map[int]time.Time) []migrationFile {
	var out []migrationFile
	for _, f := range ups {
		if _, ok := applied[f.version]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// revertibleDown lists at most steps applied down migrations, newest first. steps <= 0 means all.
func revertibleDown(downs []migrationFile, applied map[int]time.Time, steps int) []migrationFile {
	var out []migrationFile
	for _, f := range downs {
		if _, ok := applied[f.version]; !ok {
			continue
		}
		if steps > 0 && len(out) == steps {
			break
		}
		out = append(out, f)
	}
	return out
}
