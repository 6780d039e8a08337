package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// migrationLockID сериализует миграции параллельных инстансов через advisory lock.
const migrationLockID = 480312

//go:embed migrations/*.sql
var migrationFS embed.FS

// Pool выдает соединение, на котором выполняются все миграции.
type Pool interface {
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
}

// Conn описывает методы pgxpool.Conn, нужные миграциям.
// Advisory lock принадлежит сессии, поэтому блокировка, миграции и
// разблокировка идут через одно соединение.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Migrate применяет еще не примененные SQL-миграции в порядке имен файлов.
func Migrate(ctx context.Context, pool Pool, logger *slog.Logger) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire migration connection: %w", err)
	}
	defer conn.Release()

	return migrate(ctx, conn, logger)
}

func migrate(ctx context.Context, conn Conn, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer releaseLock(context.WithoutCancel(ctx), conn, logger)

	if _, err := conn.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	names, err := migrationNames()
	if err != nil {
		return err
	}

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		return err
	}

	for _, name := range names {
		if applied[name] {
			continue
		}

		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if err := applyMigration(ctx, conn, name, string(data)); err != nil {
			return err
		}

		logger.Info("migration applied", slog.String("file", name))
	}

	return nil
}

// applyMigration выполняет файл и запись о нем в одной транзакции.
func applyMigration(ctx context.Context, conn Conn, name, sql string) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("apply migration %s: %w", name, err)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", name); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("record migration %s: %w", name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}

	return nil
}

func releaseLock(ctx context.Context, conn Conn, logger *slog.Logger) {
	var released bool
	if err := conn.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID).Scan(&released); err != nil {
		logger.Warn("failed to release migration lock", slog.String("error", err.Error()))
		return
	}
	if !released {
		logger.Warn("migration lock was not held by this session", slog.Int("lock_id", migrationLockID))
	}
}

func migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return names, nil
}

func appliedMigrations(ctx context.Context, conn Conn) (map[string]bool, error) {
	rows, err := conn.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan migration row: %w", err)
		}
		applied[name] = true
	}

	return applied, rows.Err()
}
