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

type StudentRepository interface {
	Create(ctx context.Context, s *model.Student) error
	FindByID(ctx context.Context, studentID string) (*model.Student, error)
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, studentID string) error
	List(ctx context.Context) ([]model.Student, error)
	ListByCampus(ctx context.Context, campus string) ([]model.Student, error)
	ListByCampusGrade(ctx context.Context, campus, grade string) ([]model.Student, error)
	CountByCampus(ctx context.Context, campus string) (int, error)
}

type pgStudentRepository struct {
	db *sql.DB
}

func NewPgStudentRepository(db *sql.DB) StudentRepository {
	return &pgStudentRepository{db: db}
}

const studentColumns = `student_id, name, campus, grade, section, hashed_password, created_at, updated_at`

func scanStudent(row interface{ Scan(...interface{}) error }) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(
		&s.StudentID, &s.Name, &s.Campus, &s.Grade, &s.Section,
		&s.HashedPassword, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgStudentRepository) Create(ctx context.Context, s *model.Student) error {
	query := `INSERT INTO students (student_id, name, campus, grade, section, hashed_password)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, s.StudentID, s.Name, s.Campus, s.Grade, s.Section, s.HashedPassword)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("student with ID %s already exists: %w", s.StudentID, common.ErrConflict)
		}
		return fmt.Errorf("pgStudentRepository.Create: %w", err)
	}
	return nil
}

func (r *pgStudentRepository) FindByID(ctx context.Context, studentID string) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1`
	s, err := scanStudent(r.db.QueryRowContext(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgStudentRepository.FindByID: %w", err)
	}
	return s, nil
}

func (r *pgStudentRepository) Update(ctx context.Context, s *model.Student) error {
	query := `UPDATE students SET
	            name = $1, campus = $2, grade = $3, section = $4,
	            hashed_password = $5, updated_at = CURRENT_TIMESTAMP
	          WHERE student_id = $6`
	res, err := r.db.ExecContext(ctx, query, s.Name, s.Campus, s.Grade, s.Section, s.HashedPassword, s.StudentID)
	if err != nil {
		return fmt.Errorf("pgStudentRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgStudentRepository) Delete(ctx context.Context, studentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE student_id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("pgStudentRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgStudentRepository) List(ctx context.Context) ([]model.Student, error) {
	return r.queryStudents(ctx, `SELECT `+studentColumns+` FROM students ORDER BY created_at DESC`)
}

func (r *pgStudentRepository) ListByCampus(ctx context.Context, campus string) ([]model.Student, error) {
	return r.queryStudents(ctx,
		`SELECT `+studentColumns+` FROM students WHERE campus = $1 ORDER BY created_at DESC`, campus)
}

func (r *pgStudentRepository) ListByCampusGrade(ctx context.Context, campus, grade string) ([]model.Student, error) {
	return r.queryStudents(ctx,
		`SELECT `+studentColumns+` FROM students WHERE campus = $1 AND grade = $2 ORDER BY created_at DESC`,
		campus, grade)
}

func (r *pgStudentRepository) CountByCampus(ctx context.Context, campus string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students WHERE campus = $1`, campus).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgStudentRepository.CountByCampus: %w", err)
	}
	return count, nil
}

func (r *pgStudentRepository) queryStudents(ctx context.Context, query string, args ...interface{}) ([]model.Student, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgStudentRepository query: %w", err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("pgStudentRepository scan: %w", err)
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}
