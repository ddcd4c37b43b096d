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

// PostgresProjectRepo implements ProjectRepo on a pgx pool.
type PostgresProjectRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresProjectRepo(pool *pgxpool.Pool) *PostgresProjectRepo {
	return &PostgresProjectRepo{pool: pool}
}

func (r *PostgresProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.ShortID, p.Name, p.Address, p.StartDate.Time(),
		nullableDateToTime(p.TargetDate), string(p.Status), p.ArchivedAt,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *PostgresProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
}

func (r *PostgresProjectRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE UPPER(short_id) = UPPER($1)`, shortID)
}

func (r *PostgresProjectRepo) getOne(ctx context.Context, query, key string) (*domain.Project, error) {
	p, err := scanPgProject(r.pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("querying project: %w", err)
	}
	return p, nil
}

func (r *PostgresProjectRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		p, err := scanPgProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return out, nil
}

func (r *PostgresProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `
		UPDATE projects SET
			short_id = $2, name = $3, address = $4, start_date = $5,
			target_date = $6, status = $7, updated_at = $8
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.ShortID, p.Name, p.Address, p.StartDate.Time(),
		nullableDateToTime(p.TargetDate), string(p.Status), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresProjectRepo) Archive(ctx context.Context, id string) error {
	return r.exec(ctx, "archiving project", id,
		`UPDATE projects SET status = 'archived', archived_at = $2, updated_at = $2 WHERE id = $1`,
		id, time.Now().UTC())
}

func (r *PostgresProjectRepo) Unarchive(ctx context.Context, id string) error {
	return r.exec(ctx, "unarchiving project", id,
		`UPDATE projects SET status = 'active', archived_at = NULL, updated_at = $2 WHERE id = $1`,
		id, time.Now().UTC())
}

func (r *PostgresProjectRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "deleting project", id, `DELETE FROM projects WHERE id = $1`, id)
}

func (r *PostgresProjectRepo) exec(ctx context.Context, what, id, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanPgProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	var status string
	var startDate time.Time
	var targetDate *time.Time

	err := row.Scan(
		&p.ID, &p.ShortID, &p.Name, &p.Address, &startDate, &targetDate,
		&status, &p.ArchivedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = domain.ProjectStatus(status)
	p.StartDate = domain.DateOf(startDate)
	p.TargetDate = dateFromNullableTime(targetDate)
	return &p, nil
}
