package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dsn        string
		wantSqlite bool
		wantName   string
	}{
		{dsn: ":memory:", wantSqlite: true, wantName: "sqlite"},
		{dsn: "file:dish.db?_pragma=foreign_keys(1)", wantSqlite: true, wantName: "sqlite"},
		{dsn: "sqlite:dish.db", wantSqlite: true, wantName: "sqlite"},
		{dsn: "postgres://u:p@localhost:5432/dish?sslmode=disable", wantSqlite: false, wantName: "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			t.Parallel()
			d, isSqlite := Dialector(tt.dsn)
			assert.Equal(t, tt.wantSqlite, isSqlite)
			assert.Equal(t, tt.wantName, d.Name())
		})
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "")
	require.Error(t, err)
}

func TestOpen_SqliteMemory(t *testing.T) {
	t.Parallel()

	gdb, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { Close(gdb) })

	require.NoError(t, Ping(context.Background(), gdb))
}
