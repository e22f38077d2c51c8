package database

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var (
	_ DBTX = (*pgxpool.Pool)(nil)
	_ DBTX = (pgxmock.PgxPoolIface)(nil)

	_ Querier = (pgx.Tx)(nil)
)

// NewMockPool creates a pgxmock pool that satisfies DBTX and closes it when
// the test ends. Call ExpectationsWereMet at the end of each test.
func NewMockPool(t testing.TB) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create pgxmock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}
