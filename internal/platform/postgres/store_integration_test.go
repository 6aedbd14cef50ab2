//go:build integration

package postgres_test

import (
	"database/sql"
	"testing"

	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/platform/postgres"
	"github.com/phrazzld/lingua-api/internal/store"
	"github.com/phrazzld/lingua-api/internal/store/storetest"
	"github.com/phrazzld/lingua-api/internal/testdb"
)

// The subtests share one database and reset it between runs, so they are
// not parallel.
func TestPostgresStores(t *testing.T) {
	storetest.Run(t, storetest.Harness{
		Dialect: testdb.Postgres,
		Open: func(t *testing.T) (*sql.DB, store.VocabularyStore, store.ProgressStore) {
			db := testdb.GetTestPostgres(t)
			l, _ := logger.NewTestLogger(t)
			return db, postgres.NewPostgresVocabularyStore(db, l), postgres.NewPostgresProgressStore(db, l)
		},
	})
}
