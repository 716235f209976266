package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/empathy-ledger/campaign-workflow-api/pkg/utils"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

const migrationTable = "schema_migrations"

var (
	queryCreateMigrationTable = DBQuery{
		ID: "CW-MIG-01",
		Query: `CREATE TABLE IF NOT EXISTS schema_migrations (
    name VARCHAR(255) NOT NULL PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`,
		SQLiteQuery: `CREATE TABLE IF NOT EXISTS schema_migrations (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`,
	}
	queryIsApplied = DBQuery{
		ID:    "CW-MIG-02",
		Query: "SELECT 1 FROM " + migrationTable + " WHERE name = ?",
	}
	queryRecordMigration = DBQuery{
		ID:          "CW-MIG-03",
		Query:       "INSERT IGNORE INTO " + migrationTable + " (name, applied_at) VALUES (?, ?)",
		SQLiteQuery: "INSERT OR IGNORE INTO " + migrationTable + " (name, applied_at) VALUES (?, ?)",
	}
)

// Migrate applies the embedded schema for the connection's dialect.
// Each file runs at most once and is recorded in schema_migrations.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	root := path.Join("migrations", db.dbType)
	return applyMigrations(ctx, db, migrationFiles, root)
}

func applyMigrations(ctx context.Context, db *DB, migrationFS fs.FS, root string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	if _, err := db.ExecContext(ctx, queryCreateMigrationTable.GetQuery(db.dbType)); err != nil {
		return nil, fmt.Errorf("ensure migration table: %w", err)
	}

	var applied []string
	for _, file := range sqlFiles {
		done, err := isApplied(ctx, db, file)
		if err != nil {
			return applied, fmt.Errorf("check migration %s: %w", file, err)
		}
		if done {
			continue
		}

		content, err := fs.ReadFile(migrationFS, path.Join(root, file))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := ExtractUpMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		err = db.WithTransaction(ctx, func(tx *Transaction) error {
			if _, err := tx.ExecContext(ctx, upSQL); err != nil && !IsAlreadyExistsError(err) {
				return fmt.Errorf("exec migration %s: %w", file, err)
			}
			if _, err := tx.ExecContext(ctx, queryRecordMigration.GetQuery(db.dbType), file, utils.GetCurrentTimeMillis()); err != nil {
				return fmt.Errorf("record migration %s: %w", file, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}

		db.logger.WithFields(logrus.Fields{
			"migration": file,
			"db_type":   db.dbType,
		}).Info("Applied migration")
		applied = append(applied, file)
	}

	return applied, nil
}

// ExtractUpMigration returns the SQL in the -- +migrate Up section
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, "-- +migrate Down")
	if downIdx == -1 {
		return content[upIdx+len("-- +migrate Up"):]
	}
	return content[upIdx+len("-- +migrate Up") : downIdx]
}

// IsAlreadyExistsError reports whether err comes from DDL that already ran
func IsAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func isApplied(ctx context.Context, db *DB, name string) (bool, error) {
	var found int
	err := db.QueryRowxContext(ctx, queryIsApplied.GetQuery(db.dbType), name).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
