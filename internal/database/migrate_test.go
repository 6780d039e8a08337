package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockConn(t *testing.T) pgxmock.PgxConnIface {
	t.Helper()

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mock.Close(context.Background())
	})

	return mock
}

func expectLock(mock pgxmock.PgxConnIface) {
	mock.ExpectExec("SELECT pg_advisory_lock").
		WithArgs(migrationLockID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
}

func expectUnlock(mock pgxmock.PgxConnIface, released bool) {
	mock.ExpectQuery("SELECT pg_advisory_unlock").
		WithArgs(migrationLockID).
		WillReturnRows(pgxmock.NewRows([]string{"pg_advisory_unlock"}).AddRow(released))
}

// TestMigrationNamesSorted проверяет порядок встроенных файлов миграций.
func TestMigrationNamesSorted(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])

	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

// TestMigrateFreshDatabase проверяет, что каждый файл применяется в своей транзакции
// на том же соединении, что держит блокировку.
func TestMigrateFreshDatabase(t *testing.T) {
	mock := newMockConn(t)

	names, err := migrationNames()
	require.NoError(t, err)

	expectLock(mock)
	mock.ExpectQuery("SELECT filename FROM schema_migrations").
		WillReturnRows(pgxmock.NewRows([]string{"filename"}))
	for _, name := range names {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectExec("INSERT INTO schema_migrations").
			WithArgs(name).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
	}
	expectUnlock(mock, true)

	require.NoError(t, migrate(context.Background(), mock, discardLogger()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMigrateSkipsApplied проверяет, что примененные файлы не выполняются повторно.
func TestMigrateSkipsApplied(t *testing.T) {
	mock := newMockConn(t)

	names, err := migrationNames()
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"filename"})
	for _, name := range names {
		rows.AddRow(name)
	}

	expectLock(mock)
	mock.ExpectQuery("SELECT filename FROM schema_migrations").WillReturnRows(rows)
	expectUnlock(mock, true)

	require.NoError(t, migrate(context.Background(), mock, discardLogger()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMigrateApplyFailureRollsBack проверяет откат транзакции и снятие блокировки
// при ошибке в файле миграции.
func TestMigrateApplyFailureRollsBack(t *testing.T) {
	mock := newMockConn(t)

	expectLock(mock)
	mock.ExpectQuery("SELECT filename FROM schema_migrations").
		WillReturnRows(pgxmock.NewRows([]string{"filename"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()
	expectUnlock(mock, true)

	err := migrate(context.Background(), mock, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply migration 001_init.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMigrateRecordFailureRollsBack проверяет, что файл без записи в schema_migrations
// не фиксируется.
func TestMigrateRecordFailureRollsBack(t *testing.T) {
	mock := newMockConn(t)

	expectLock(mock)
	mock.ExpectQuery("SELECT filename FROM schema_migrations").
		WillReturnRows(pgxmock.NewRows([]string{"filename"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("001_init.sql").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()
	expectUnlock(mock, true)

	err := migrate(context.Background(), mock, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record migration 001_init.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMigrateLockNotHeld проверяет, что неснятая блокировка не ломает успешный прогон.
func TestMigrateLockNotHeld(t *testing.T) {
	mock := newMockConn(t)

	names, err := migrationNames()
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"filename"})
	for _, name := range names {
		rows.AddRow(name)
	}

	expectLock(mock)
	mock.ExpectQuery("SELECT filename FROM schema_migrations").WillReturnRows(rows)
	expectUnlock(mock, false)

	require.NoError(t, migrate(context.Background(), mock, discardLogger()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMigrateAcquireFailure проверяет ошибку, когда пул не выдал соединение.
func TestMigrateAcquireFailure(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	err = Migrate(context.Background(), pool, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire migration connection")
}
