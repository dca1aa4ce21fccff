package kv

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/messmate/internal/database"
)

func TestSQLStoreMySQLUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)")).
		WithArgs(KeyUsers, []byte(`{"9876543210":"owner_1"}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := NewSQLStore(db, MySQL)
	require.NoError(t, Write(context.Background(), s, KeyUsers, map[string]string{"9876543210": "owner_1"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreMySQLGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT v FROM kv_entries WHERE k = ?")).
		WithArgs(KeyStudents).
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow([]byte(`["s1","s2"]`)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT v FROM kv_entries WHERE k = ?")).
		WithArgs(KeyMesses).
		WillReturnRows(sqlmock.NewRows([]string{"v"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT v FROM kv_entries WHERE k = ?")).
		WithArgs(KeyAttendance).
		WillReturnError(errors.New("connection reset"))

	s := NewSQLStore(db, MySQL)
	ctx := context.Background()

	assert.Equal(t, []string{"s1", "s2"}, Read(ctx, s, KeyStudents, []string{}))

	_, err = s.Get(ctx, KeyMesses)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"default"}, Read(ctx, s, KeyAttendance, []string{"default"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateExecutesSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_entries").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db, MySQL))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(ctx, db, SQLite))

	s := NewSQLStore(db, SQLite)

	require.NoError(t, Write(ctx, s, KeyAttendance, []string{"a"}))
	require.NoError(t, Write(ctx, s, KeyAttendance, []string{"b", "c"}))
	assert.Equal(t, []string{"b", "c"}, Read(ctx, s, KeyAttendance, []string{}))

	require.NoError(t, Delete(ctx, s, KeyAttendance))
	assert.False(t, Exists(ctx, s, KeyAttendance))
}
