package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
)

type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Task, error)
	ListForStudent(ctx context.Context, campus, grade string) ([]model.Task, error)
}

type pgTaskRepository struct {
	db *sql.DB
}

func NewPgTaskRepository(db *sql.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

// Target sets are stored as jsonb arrays; the `?` operator tests string
// membership server-side for the student listing.
const taskColumns = `id, title, slug, description, language, campus_target, grade_target, created_by, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*model.Task, error) {
	t := &model.Task{}
	var campusTarget, gradeTarget []byte
	var createdBy sql.NullString
	err := row.Scan(
		&t.ID, &t.Title, &t.Slug, &t.Description, &t.Language,
		&campusTarget, &gradeTarget, &createdBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(campusTarget, &t.CampusTarget); err != nil {
		return nil, fmt.Errorf("decode campus_target: %w", err)
	}
	if err := json.Unmarshal(gradeTarget, &t.GradeTarget); err != nil {
		return nil, fmt.Errorf("decode grade_target: %w", err)
	}
	t.CreatedBy = createdBy.String
	return t, nil
}

func targetJSON(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func (r *pgTaskRepository) Create(ctx context.Context, t *model.Task) error {
	campusTarget, err := targetJSON(t.CampusTarget)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Create encode: %w", err)
	}
	gradeTarget, err := targetJSON(t.GradeTarget)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Create encode: %w", err)
	}

	query := `INSERT INTO tasks (id, title, slug, description, language, campus_target, grade_target, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.Title, t.Slug, t.Description, t.Language, campusTarget, gradeTarget, t.CreatedBy)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindByID: %w", err)
	}
	return t, nil
}

func (r *pgTaskRepository) Update(ctx context.Context, t *model.Task) error {
	campusTarget, err := targetJSON(t.CampusTarget)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Update encode: %w", err)
	}
	gradeTarget, err := targetJSON(t.GradeTarget)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Update encode: %w", err)
	}

	query := `UPDATE tasks SET
	            title = $1, slug = $2, description = $3, language = $4,
	            campus_target = $5, grade_target = $6, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query,
		t.Title, t.Slug, t.Description, t.Language, campusTarget, gradeTarget, t.ID)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	return r.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
}

func (r *pgTaskRepository) ListForStudent(ctx context.Context, campus, grade string) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
	          WHERE campus_target ? $1 AND grade_target ? $2
	          ORDER BY created_at DESC`
	return r.queryTasks(ctx, query, campus, grade)
}

func (r *pgTaskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository query: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("pgTaskRepository scan: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
