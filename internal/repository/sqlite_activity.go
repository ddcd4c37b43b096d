package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/db"
	"github.com/alexanderramin/obra/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

// NewSQLiteActivityRepo accepts a *sql.DB or a *sql.Tx, so it can be scoped
// to a unit of work.
func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

const activityColumns = `id, project_id, title, responsible, type, priority, status,
	start_date, due_date, estimated_hours, notes, completed_at, created_at, updated_at`

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	query := `INSERT INTO activities (` + activityColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		nullIfEmpty(a.ProjectID),
		a.Title,
		a.Responsible,
		a.Type,
		string(a.Priority),
		string(a.Status),
		nullableDateToString(a.StartDate),
		nullableDateToString(a.DueDate),
		a.EstimatedHours,
		a.Notes,
		nullableTimeToString(a.CompletedAt, time.RFC3339),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`
	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}
	return a, err
}

func (r *SQLiteActivityRepo) List(ctx context.Context, f ActivityFilter) ([]*domain.Activity, error) {
	var where []string
	var args []any

	if f.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.Responsible != "" {
		where = append(where, "responsible = ?")
		args = append(args, f.Responsible)
	}
	if len(f.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(f.Statuses))+")")
		for _, s := range statusStrings(f.Statuses) {
			args = append(args, s)
		}
	}
	if len(f.ExcludeStatuses) > 0 {
		where = append(where, "status NOT IN ("+placeholders(len(f.ExcludeStatuses))+")")
		for _, s := range statusStrings(f.ExcludeStatuses) {
			args = append(args, s)
		}
	}
	if f.From != nil {
		where = append(where, "COALESCE(due_date, start_date) >= ?")
		args = append(args, f.From.String())
	}
	if f.To != nil {
		where = append(where, "COALESCE(due_date, start_date) <= ?")
		args = append(args, f.To.String())
	}

	query := `SELECT ` + activityColumns + ` FROM activities`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY COALESCE(due_date, start_date), created_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return activities, nil
}

func (r *SQLiteActivityRepo) ListNonTerminalByResponsible(ctx context.Context, responsible string) ([]*domain.Activity, error) {
	return r.List(ctx, ActivityFilter{
		Responsible:     responsible,
		ExcludeStatuses: domain.TerminalStatuses,
	})
}

func (r *SQLiteActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	query := `UPDATE activities SET project_id = ?, title = ?, responsible = ?, type = ?, priority = ?,
		status = ?, start_date = ?, due_date = ?, estimated_hours = ?, notes = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullIfEmpty(a.ProjectID),
		a.Title,
		a.Responsible,
		a.Type,
		string(a.Priority),
		string(a.Status),
		nullableDateToString(a.StartDate),
		nullableDateToString(a.DueDate),
		a.EstimatedHours,
		a.Notes,
		nullableTimeToString(a.CompletedAt, time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	return requireAffected(res, "activity", a.ID)
}

func (r *SQLiteActivityRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return requireAffected(res, "activity", id)
}

func (r *SQLiteActivityRepo) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("deleting project activities: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted activities: %w", err)
	}
	return int(n), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	var projectID, startDate, dueDate, completedAt sql.NullString
	var priority, status, createdAt, updatedAt string

	err := row.Scan(
		&a.ID, &projectID, &a.Title, &a.Responsible, &a.Type, &priority, &status,
		&startDate, &dueDate, &a.EstimatedHours, &a.Notes, &completedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}

	a.ProjectID = projectID.String
	a.Priority = domain.Priority(priority)
	a.Status = domain.ActivityStatus(status)
	a.StartDate = parseNullableDate(startDate)
	a.DueDate = parseNullableDate(dueDate)
	a.CompletedAt = parseNullableTime(completedAt, time.RFC3339)

	var parseErr error
	a.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	a.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &a, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
