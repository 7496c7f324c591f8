package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
)

type MetricRepository struct {
	db *sql.DB
}

func NewMetricRepository(db *sql.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UpsertBatch writes every sample in one transaction. A row sharing (date, user_id)
// with a stored row replaces its values.
func (r *MetricRepository) UpsertBatch(ctx context.Context, spec domain.KindSpec, samples []domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, s := range samples {
		if err := upsert(ctx, tx, spec, s); err != nil {
			tx.Rollback()
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s batch: %w", spec.Kind, err)
	}
	return nil
}

func upsert(ctx context.Context, ex execer, spec domain.KindSpec, s domain.Sample) error {
	if len(s.Values) != len(spec.Columns) {
		return fmt.Errorf("%w: %s expects %d values, got %d", domain.ErrInvalidArgument, spec.Kind, len(spec.Columns), len(s.Values))
	}

	args := make([]any, 0, len(s.Values)+2)
	args = append(args, s.Date.UTC(), s.UserID)
	args = append(args, s.Values...)

	if _, err := ex.ExecContext(ctx, upsertQuery(spec), args...); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", spec.Kind, classify(err))
	}
	return nil
}

// upsertAlias names the incoming row (MySQL 8.0.19+ row alias syntax).
const upsertAlias = "incoming"

func upsertQuery(spec domain.KindSpec) string {
	cols := []string{quote("date"), quote("user_id")}
	updates := make([]string, 0, len(spec.Columns))
	for _, c := range spec.Columns {
		cols = append(cols, quote(c.Target))
		updates = append(updates, fmt.Sprintf("%s = %s.%s", quote(c.Target), upsertAlias, quote(c.Target)))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS "+upsertAlias+" ON DUPLICATE KEY UPDATE %s",
		quote(spec.Table), strings.Join(cols, ", "), placeholders, strings.Join(updates, ", "))
}

func selectColumns(spec domain.KindSpec) string {
	cols := []string{quote("date"), quote("user_id")}
	for _, c := range spec.Columns {
		cols = append(cols, quote(c.Target))
	}
	return strings.Join(cols, ", ")
}

// Latest returns the sample with the greatest date, or nil when the user has none.
func (r *MetricRepository) Latest(ctx context.Context, spec domain.KindSpec, userID int64) (*domain.Sample, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE `user_id` = ? ORDER BY `date` DESC LIMIT 1",
		selectColumns(spec), quote(spec.Table))

	row := r.db.QueryRowContext(ctx, query, userID)
	s, err := scanSample(row, spec)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest %s: %w", spec.Kind, err)
	}
	return &s, nil
}

// Since returns samples dated at or after from, oldest first.
func (r *MetricRepository) Since(ctx context.Context, spec domain.KindSpec, userID int64, from time.Time) ([]domain.Sample, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE `user_id` = ? AND `date` >= ? ORDER BY `date` ASC",
		selectColumns(spec), quote(spec.Table))
	return r.list(ctx, spec, query, userID, from.UTC())
}

// Between returns samples dated in [from, to), oldest first.
func (r *MetricRepository) Between(ctx context.Context, spec domain.KindSpec, userID int64, from, to time.Time) ([]domain.Sample, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE `user_id` = ? AND `date` >= ? AND `date` < ? ORDER BY `date` ASC",
		selectColumns(spec), quote(spec.Table))
	return r.list(ctx, spec, query, userID, from.UTC(), to.UTC())
}

// Sum adds up an integer column over samples dated in [from, to).
func (r *MetricRepository) Sum(ctx context.Context, spec domain.KindSpec, column string, userID int64, from, to time.Time) (int64, error) {
	if spec.Index(column) < 0 {
		return 0, fmt.Errorf("%w: %s has no column %q", domain.ErrInvalidArgument, spec.Kind, column)
	}

	query := fmt.Sprintf("SELECT CAST(COALESCE(SUM(%s), 0) AS SIGNED) FROM %s WHERE `user_id` = ? AND `date` >= ? AND `date` < ?",
		quote(column), quote(spec.Table))

	var total int64
	if err := r.db.QueryRowContext(ctx, query, userID, from.UTC(), to.UTC()).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum %s: %w", spec.Kind, err)
	}
	return total, nil
}

func (r *MetricRepository) list(ctx context.Context, spec domain.KindSpec, query string, args ...any) ([]domain.Sample, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", spec.Kind, err)
	}
	defer rows.Close()

	samples := []domain.Sample{}
	for rows.Next() {
		s, err := scanSample(rows, spec)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", spec.Kind, err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSample(sc scanner, spec domain.KindSpec) (domain.Sample, error) {
	var s domain.Sample
	dest := []any{&s.Date, &s.UserID}
	for _, c := range spec.Columns {
		switch c.Type {
		case domain.Float:
			dest = append(dest, new(float64))
		case domain.Int:
			dest = append(dest, new(int64))
		default:
			dest = append(dest, new(string))
		}
	}

	if err := sc.Scan(dest...); err != nil {
		return domain.Sample{}, err
	}

	s.Values = make([]any, len(spec.Columns))
	for i := range spec.Columns {
		switch v := dest[i+2].(type) {
		case *float64:
			s.Values[i] = *v
		case *int64:
			s.Values[i] = *v
		case *string:
			s.Values[i] = *v
		}
	}
	s.Date = s.Date.UTC()
	return s, nil
}
