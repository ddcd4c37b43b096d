package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexanderramin/obra/internal/domain"
)

// PostgresActivityRepo implements ActivityRepo on a pgx pool.
type PostgresActivityRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresActivityRepo(pool *pgxpool.Pool) *PostgresActivityRepo {
	return &PostgresActivityRepo{pool: pool}
}

func (r *PostgresActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	query := `
		INSERT INTO activities (` + activityColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, nullIfEmpty(a.ProjectID), a.Title, a.Responsible, a.Type,
		string(a.Priority), string(a.Status),
		nullableDateToTime(a.StartDate), nullableDateToTime(a.DueDate),
		a.EstimatedHours, a.Notes, a.CompletedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`

	a, err := scanPgActivity(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("activity %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	return a, nil
}

func (r *PostgresActivityRepo) List(ctx context.Context, f ActivityFilter) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE 1=1`
	args := []any{}
	argIdx := 1

	if f.ProjectID != "" {
		query += fmt.Sprintf(" AND project_id = $%d", argIdx)
		args = append(args, f.ProjectID)
		argIdx++
	}
	if f.Responsible != "" {
		query += fmt.Sprintf(" AND responsible = $%d", argIdx)
		args = append(args, f.Responsible)
		argIdx++
	}
	if len(f.Statuses) > 0 {
		query += fmt.Sprintf(" AND status = ANY($%d)", argIdx)
		args = append(args, statusStrings(f.Statuses))
		argIdx++
	}
	if len(f.ExcludeStatuses) > 0 {
		query += fmt.Sprintf(" AND NOT (status = ANY($%d))", argIdx)
		args = append(args, statusStrings(f.ExcludeStatuses))
		argIdx++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND COALESCE(due_date, start_date) >= $%d", argIdx)
		args = append(args, f.From.Time())
		argIdx++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND COALESCE(due_date, start_date) <= $%d", argIdx)
		args = append(args, f.To.Time())
	}

	query += " ORDER BY COALESCE(due_date, start_date) NULLS FIRST, created_at, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var out []*domain.Activity
	for rows.Next() {
		a, err := scanPgActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return out, nil
}

func (r *PostgresActivityRepo) ListNonTerminalByResponsible(ctx context.Context, responsible string) ([]*domain.Activity, error) {
	return r.List(ctx, ActivityFilter{
		Responsible:     responsible,
		ExcludeStatuses: domain.TerminalStatuses,
	})
}

func (r *PostgresActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	query := `
		UPDATE activities SET
			project_id = $2, title = $3, responsible = $4, type = $5, priority = $6,
			status = $7, start_date = $8, due_date = $9, estimated_hours = $10,
			notes = $11, completed_at = $12, updated_at = $13
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		a.ID, nullIfEmpty(a.ProjectID), a.Title, a.Responsible, a.Type,
		string(a.Priority), string(a.Status),
		nullableDateToTime(a.StartDate), nullableDateToTime(a.DueDate),
		a.EstimatedHours, a.Notes, a.CompletedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity %s: %w", a.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresActivityRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PostgresActivityRepo) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE project_id = $1`, projectID)
	if err != nil {
		return 0, fmt.Errorf("deleting project activities: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanPgActivity(row pgx.Row) (*domain.Activity, error) {
	var a domain.Activity
	var projectID *string
	var priority, status string
	var startDate, dueDate *time.Time

	err := row.Scan(
		&a.ID, &projectID, &a.Title, &a.Responsible, &a.Type, &priority, &status,
		&startDate, &dueDate, &a.EstimatedHours, &a.Notes, &a.CompletedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if projectID != nil {
		a.ProjectID = *projectID
	}
	a.Priority = domain.Priority(priority)
	a.Status = domain.ActivityStatus(status)
	a.StartDate = dateFromNullableTime(startDate)
	a.DueDate = dateFromNullableTime(dueDate)
	return &a, nil
}

// compile-time interface checks
var (
	_ ActivityRepo = (*SQLiteActivityRepo)(nil)
	_ ActivityRepo = (*PostgresActivityRepo)(nil)
	_ ProjectRepo  = (*SQLiteProjectRepo)(nil)
	_ ProjectRepo  = (*PostgresProjectRepo)(nil)
)
