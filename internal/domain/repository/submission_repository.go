package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type SubmissionRepository interface {
	// Create relies on the (student_id, task_id) unique constraint; a second
	// submission for the same pair surfaces common.ErrDuplicateSubmission.
	Create(ctx context.Context, s *model.Submission) error
	FindByStudentTask(ctx context.Context, studentID, taskID string) (*model.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Submission, error)
	ListByTask(ctx context.Context, taskID string) ([]model.Submission, error)
	ListAll(ctx context.Context) ([]model.Submission, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

const submissionColumns = `id, student_id, task_id, code, output, status, submitted_at`

func scanSubmission(row interface{ Scan(...interface{}) error }) (*model.Submission, error) {
	s := &model.Submission{}
	err := row.Scan(&s.ID, &s.StudentID, &s.TaskID, &s.Code, &s.Output, &s.Status, &s.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	query := `INSERT INTO submissions (id, student_id, task_id, code, output, status, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.StudentID, s.TaskID, s.Code, s.Output, s.Status, s.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("submission for task %s by %s: %w", s.TaskID, s.StudentID, common.ErrDuplicateSubmission)
		}
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindByStudentTask(ctx context.Context, studentID, taskID string) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE student_id = $1 AND task_id = $2`
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, studentID, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByStudentTask: %w", err)
	}
	return s, nil
}

func (r *pgSubmissionRepository) ListByStudent(ctx context.Context, studentID string) ([]model.Submission, error) {
	return r.querySubmissions(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE student_id = $1 ORDER BY submitted_at DESC`, studentID)
}

func (r *pgSubmissionRepository) ListByTask(ctx context.Context, taskID string) ([]model.Submission, error) {
	return r.querySubmissions(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE task_id = $1 ORDER BY submitted_at DESC`, taskID)
}

func (r *pgSubmissionRepository) ListAll(ctx context.Context) ([]model.Submission, error) {
	return r.querySubmissions(ctx, `SELECT `+submissionColumns+` FROM submissions`)
}

func (r *pgSubmissionRepository) querySubmissions(ctx context.Context, query string, args ...interface{}) ([]model.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository query: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository scan: %w", err)
		}
		subs = append(subs, *s)
	}
	return subs, rows.Err()
}
