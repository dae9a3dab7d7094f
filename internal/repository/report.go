package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/fala_cidadao/internal/models"
	"github.com/shenikar/fala_cidadao/internal/service"
	"github.com/sirupsen/logrus"
)

// SeededFlagKey - флаг однократной загрузки стартовых данных
const SeededFlagKey = "falaCidadao:demandas:seeded"

var reportColumns = []string{"id", "position", "document", "created_at", "updated_at"}

// DBTX - часть pgxpool.Pool, которой пользуется репозиторий
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ReportRepository struct {
	db          DBTX
	redisClient *redis.Client
	cacheTTL    time.Duration
	logger      *logrus.Logger
}

func NewReportRepository(db DBTX, redisClient *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) service.ReportRepository {
	return &ReportRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Load отдаёт коллекцию для чтения без блокировки.
// При промахе кеш не заполняется: снимок, прочитанный мимо блокировки,
// может оказаться старше уже закоммиченной записи.
func (r *ReportRepository) Load(ctx context.Context) ([]*models.Report, error) {
	if cached, err := r.getCollectionFromCache(ctx); err == nil && cached != nil {
		return cached, nil
	}
	return r.loadFromDB(ctx)
}

// LoadFresh читает коллекцию из Postgres мимо кеша и обновляет кеш.
// Вызывается только под блокировкой коллекции.
func (r *ReportRepository) LoadFresh(ctx context.Context) ([]*models.Report, error) {
	reports, err := r.loadFromDB(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.setCollectionCache(ctx, reports); err != nil {
		r.logger.WithError(err).Warn("Failed to refresh reports cache")
	}
	return reports, nil
}

func (r *ReportRepository) loadFromDB(ctx context.Context) ([]*models.Report, error) {
	query := `
		SELECT document
		FROM reports
		ORDER BY position;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*models.Report, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		report := &models.Report{}
		if err := json.Unmarshal(doc, report); err != nil {
			return nil, fmt.Errorf("failed to decode report document: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return reports, nil
}

// Save перезаписывает коллекцию целиком в одной транзакции.
// После коммита запись считается успешной; сбой Redis только логируется.
func (r *ReportRepository) Save(ctx context.Context, reports []*models.Report) error {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(reports))
	for i, report := range reports {
		doc, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to encode report %s: %w", report.ID, err)
		}
		rows = append(rows, []any{report.ID, i, doc, report.CreatedAt.Time, now})
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM reports;`); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to clear reports: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"reports"}, reportColumns, pgx.CopyFromRows(rows)); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to copy reports: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reports: %w", err)
	}

	r.refreshCacheAfterSave(ctx, reports)
	return nil
}

// refreshCacheAfterSave кладёт в кеш только что записанную коллекцию;
// если записать не удалось, ключ удаляется, чтобы читатели пошли в Postgres
func (r *ReportRepository) refreshCacheAfterSave(ctx context.Context, reports []*models.Report) {
	err := r.setCollectionCache(ctx, reports)
	if err == nil {
		return
	}
	r.logger.WithError(err).Warn("Failed to update reports cache after save")
	if err := r.invalidateCollectionCache(ctx); err != nil {
		r.logger.WithError(err).Warn("Failed to invalidate reports cache after save")
	}
}

// IsSeeded сообщает, загружались ли уже стартовые данные
func (r *ReportRepository) IsSeeded(ctx context.Context) (bool, error) {
	query := `
		SELECT value
		FROM store_flags
		WHERE key = $1;
	`
	var value string
	err := r.db.QueryRow(ctx, query, SeededFlagKey).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read seeded flag: %w", err)
	}
	return value == "1", nil
}

// MarkSeeded выставляет флаг загрузки стартовых данных
func (r *ReportRepository) MarkSeeded(ctx context.Context) error {
	query := `
		INSERT INTO store_flags (key, value)
		VALUES ($1, '1')
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value;
	`
	if _, err := r.db.Exec(ctx, query, SeededFlagKey); err != nil {
		return fmt.Errorf("failed to set seeded flag: %w", err)
	}
	return nil
}
