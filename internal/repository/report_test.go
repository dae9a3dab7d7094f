package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/fala_cidadao/internal/models"
	"github.com/shenikar/fala_cidadao/internal/repository"
	"github.com/shenikar/fala_cidadao/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	loadQuery     = `SELECT document\s+FROM reports\s+ORDER BY position`
	seededQuery   = `SELECT value\s+FROM store_flags\s+WHERE key = \$1`
	markSeedQuery = `INSERT INTO store_flags`
	clearQuery    = `DELETE FROM reports`
)

var copyColumns = []string{"id", "position", "document", "created_at", "updated_at"}

type repoFixture struct {
	repo service.ReportRepository
	db   pgxmock.PgxPoolIface
	mr   *miniredis.Miniredis
	hook *test.Hook
}

// newTestRepository - репозиторий поверх pgxmock и miniredis
func newTestRepository(t *testing.T) *repoFixture {
	t.Helper()

	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(db.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger, hook := test.NewNullLogger()

	return &repoFixture{
		repo: repository.NewReportRepository(db, client, time.Minute, logger),
		db:   db,
		mr:   mr,
		hook: hook,
	}
}

func reportDoc(t *testing.T, id string) []byte {
	t.Helper()
	doc, err := json.Marshal(&models.Report{
		ID:        id,
		City:      "recife",
		CreatedAt: models.NewDate(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return doc
}

func cachedIDs(t *testing.T, mr *miniredis.Miniredis) []string {
	t.Helper()
	raw, err := mr.Get(repository.CollectionCacheKey)
	require.NoError(t, err)
	var reports []*models.Report
	require.NoError(t, json.Unmarshal([]byte(raw), &reports))
	return ids(reports)
}

func ids(reports []*models.Report) []string {
	out := make([]string, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.ID)
	}
	return out
}

func TestLoad_ReadsInPositionOrderWithoutFillingCache(t *testing.T) {
	// Подготовка
	f := newTestRepository(t)

	// Ожидания
	f.db.ExpectQuery(loadQuery).WillReturnRows(
		pgxmock.NewRows([]string{"document"}).
			AddRow(reportDoc(t, "DMD-2025-1218-0002")).
			AddRow(reportDoc(t, "DMD-2025-1201-0001")),
	)

	// Действие
	reports, err := f.repo.Load(context.Background())

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, []string{"DMD-2025-1218-0002", "DMD-2025-1201-0001"}, ids(reports))
	assert.Equal(t, "2025-12-01", reports[1].CreatedAt.String())
	assert.False(t, f.mr.Exists(repository.CollectionCacheKey))
	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestLoad_CacheHitSkipsDatabase(t *testing.T) {
	f := newTestRepository(t)
	require.NoError(t, f.mr.Set(repository.CollectionCacheKey, `[{"id":"DMD-2025-1201-0001"}]`))

	reports, err := f.repo.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"DMD-2025-1201-0001"}, ids(reports))
	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestLoad_EmptyCollection(t *testing.T) {
	f := newTestRepository(t)
	f.db.ExpectQuery(loadQuery).WillReturnRows(pgxmock.NewRows([]string{"document"}))

	reports, err := f.repo.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}

func TestLoad_QueryError(t *testing.T) {
	f := newTestRepository(t)
	f.db.ExpectQuery(loadQuery).WillReturnError(errors.New("connection reset"))

	_, err := f.repo.Load(context.Background())

	assert.ErrorContains(t, err, "failed to load reports")
	assert.ErrorContains(t, err, "connection reset")
}

func TestLoad_BrokenDocument(t *testing.T) {
	f := newTestRepository(t)
	f.db.ExpectQuery(loadQuery).WillReturnRows(
		pgxmock.NewRows([]string{"document"}).AddRow([]byte(`{"id":`)),
	)

	_, err := f.repo.Load(context.Background())

	assert.ErrorContains(t, err, "failed to decode report document")
}

func TestLoadFresh_IgnoresStaleCacheAndRefreshesIt(t *testing.T) {
	// Подготовка: в кеше снимок до последней записи
	f := newTestRepository(t)
	require.NoError(t, f.mr.Set(repository.CollectionCacheKey, `[{"id":"DMD-2025-1201-0001"}]`))

	// Ожидания
	f.db.ExpectQuery(loadQuery).WillReturnRows(
		pgxmock.NewRows([]string{"document"}).
			AddRow(reportDoc(t, "DMD-2025-1218-0002")).
			AddRow(reportDoc(t, "DMD-2025-1201-0001")),
	)

	// Действие
	reports, err := f.repo.LoadFresh(context.Background())

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, []string{"DMD-2025-1218-0002", "DMD-2025-1201-0001"}, ids(reports))
	assert.Equal(t, []string{"DMD-2025-1218-0002", "DMD-2025-1201-0001"}, cachedIDs(t, f.mr))
	assert.Equal(t, time.Minute, f.mr.TTL(repository.CollectionCacheKey))
	assert.NoError(t, f.db.ExpectationsWereMet())

	// последующее чтение без блокировки получает свежий снимок из кеша
	again, err := f.repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ids(reports), ids(again))
	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestLoadFresh_CacheFailureOnlyWarns(t *testing.T) {
	f := newTestRepository(t)
	f.db.ExpectQuery(loadQuery).WillReturnRows(
		pgxmock.NewRows([]string{"document"}).AddRow(reportDoc(t, "DMD-2025-1201-0001")),
	)
	f.mr.SetError("ERR cache unavailable")

	reports, err := f.repo.LoadFresh(context.Background())

	require.NoError(t, err)
	assert.Len(t, reports, 1)
	require.NotNil(t, f.hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, f.hook.LastEntry().Level)
}

func TestSave_RewritesCollectionAndCache(t *testing.T) {
	// Подготовка
	f := newTestRepository(t)
	require.NoError(t, f.mr.Set(repository.CollectionCacheKey, `[{"id":"DMD-2025-1201-0001"}]`))
	reports := []*models.Report{
		{ID: "DMD-2025-1218-0002", CreatedAt: models.NewDate(time.Date(2025, 12, 18, 0, 0, 0, 0, time.UTC))},
		{ID: "DMD-2025-1201-0001", CreatedAt: models.NewDate(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))},
	}

	// Ожидания
	f.db.ExpectBegin()
	f.db.ExpectExec(clearQuery).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	f.db.ExpectCopyFrom(pgx.Identifier{"reports"}, copyColumns).WillReturnResult(2)
	f.db.ExpectCommit()

	// Действие
	err := f.repo.Save(context.Background(), reports)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, []string{"DMD-2025-1218-0002", "DMD-2025-1201-0001"}, cachedIDs(t, f.mr))
	assert.NoError(t, f.db.ExpectationsWereMet())
	assert.Empty(t, f.hook.AllEntries())
}

func TestSave_CacheFailureAfterCommitIsNotAnError(t *testing.T) {
	// Подготовка
	f := newTestRepository(t)
	reports := []*models.Report{{ID: "DMD-2025-1201-0001"}}

	// Ожидания
	f.db.ExpectBegin()
	f.db.ExpectExec(clearQuery).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	f.db.ExpectCopyFrom(pgx.Identifier{"reports"}, copyColumns).WillReturnResult(1)
	f.db.ExpectCommit()
	f.mr.SetError("ERR cache unavailable")

	// Действие
	err := f.repo.Save(context.Background(), reports)

	// Проверки
	require.NoError(t, err)
	assert.NoError(t, f.db.ExpectationsWereMet())
	entries := f.hook.AllEntries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, logrus.WarnLevel, e.Level)
	}
}

func TestSave_CopyErrorRollsBackAndKeepsCache(t *testing.T) {
	f := newTestRepository(t)
	require.NoError(t, f.mr.Set(repository.CollectionCacheKey, `[{"id":"DMD-2025-1201-0001"}]`))

	f.db.ExpectBegin()
	f.db.ExpectExec(clearQuery).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	f.db.ExpectCopyFrom(pgx.Identifier{"reports"}, copyColumns).WillReturnError(errors.New("disk full"))
	f.db.ExpectRollback()

	err := f.repo.Save(context.Background(), []*models.Report{{ID: "DMD-2025-1218-0002"}})

	assert.ErrorContains(t, err, "failed to copy reports")
	assert.Equal(t, []string{"DMD-2025-1201-0001"}, cachedIDs(t, f.mr))
	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestSave_ClearErrorRollsBack(t *testing.T) {
	f := newTestRepository(t)

	f.db.ExpectBegin()
	f.db.ExpectExec(clearQuery).WillReturnError(errors.New("lock timeout"))
	f.db.ExpectRollback()

	err := f.repo.Save(context.Background(), []*models.Report{{ID: "DMD-2025-1218-0002"}})

	assert.ErrorContains(t, err, "failed to clear reports")
	assert.NoError(t, f.db.ExpectationsWereMet())
}

func TestIsSeeded(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(db pgxmock.PgxPoolIface)
		want    bool
		wantErr string
	}{
		{
			name: "flag set",
			prepare: func(db pgxmock.PgxPoolIface) {
				db.ExpectQuery(seededQuery).WithArgs(repository.SeededFlagKey).
					WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("1"))
			},
			want: true,
		},
		{
			name: "flag missing",
			prepare: func(db pgxmock.PgxPoolIface) {
				db.ExpectQuery(seededQuery).WithArgs(repository.SeededFlagKey).
					WillReturnError(pgx.ErrNoRows)
			},
			want: false,
		},
		{
			name: "database error",
			prepare: func(db pgxmock.PgxPoolIface) {
				db.ExpectQuery(seededQuery).WithArgs(repository.SeededFlagKey).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: "failed to read seeded flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestRepository(t)
			tt.prepare(f.db)

			got, err := f.repo.IsSeeded(context.Background())

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, f.db.ExpectationsWereMet())
		})
	}
}

func TestMarkSeeded(t *testing.T) {
	f := newTestRepository(t)
	f.db.ExpectExec(markSeedQuery).WithArgs(repository.SeededFlagKey).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := f.repo.MarkSeeded(context.Background())

	require.NoError(t, err)
	assert.NoError(t, f.db.ExpectationsWereMet())
}
