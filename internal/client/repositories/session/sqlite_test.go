package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE session (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte{0x01, 0x02}))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, v)
}

func TestGet_NotExists_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "role", []byte("user")))
	require.NoError(t, r.Set(ctx, "role", []byte("admin")))

	v, err := r.Get(ctx, "role")
	require.NoError(t, err)
	require.Equal(t, []byte("admin"), v)
}

func TestSetMany_WritesAll(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string][]byte{
		"token":    []byte("t"),
		"role":     []byte("user"),
		"username": []byte("op1"),
	}))

	for k, want := range map[string]string{"token": "t", "role": "user", "username": "op1"} {
		v, err := r.Get(ctx, k)
		require.NoError(t, err)
		require.Equal(t, want, string(v))
	}
}

func TestDelete_RemovesKey_AndIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("t")))
	require.NoError(t, r.Delete(ctx, "token"))
	require.NoError(t, r.Delete(ctx, "token"))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSQLiteRepository_PropagatesDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteRepository(db)
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	mock.ExpectQuery("SELECT value FROM session").WithArgs("token").WillReturnError(boom)
	_, err = r.Get(ctx, "token")
	require.ErrorIs(t, err, boom)

	mock.ExpectExec("DELETE FROM session").WithArgs("token").WillReturnError(boom)
	require.ErrorIs(t, r.Delete(ctx, "token"), boom)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO session").WithArgs("token", []byte("t")).WillReturnError(boom)
	mock.ExpectRollback()
	require.ErrorIs(t, r.SetMany(ctx, map[string][]byte{"token": []byte("t")}), boom)

	require.NoError(t, mock.ExpectationsWereMet())
}
