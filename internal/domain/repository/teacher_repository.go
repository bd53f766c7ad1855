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

type TeacherRepository interface {
	Create(ctx context.Context, t *model.Teacher) error
	FindByID(ctx context.Context, teacherID string) (*model.Teacher, error)
	Update(ctx context.Context, t *model.Teacher) error
	Delete(ctx context.Context, teacherID string) error
	List(ctx context.Context) ([]model.Teacher, error)
	CountByCampus(ctx context.Context, campus string) (int, error)
}

type pgTeacherRepository struct {
	db *sql.DB
}

func NewPgTeacherRepository(db *sql.DB) TeacherRepository {
	return &pgTeacherRepository{db: db}
}

const teacherColumns = `teacher_id, name, email, campus, can_manage_students, can_manage_tasks, hashed_password, created_at, updated_at`

func scanTeacher(row interface{ Scan(...interface{}) error }) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := row.Scan(
		&t.TeacherID, &t.Name, &t.Email, &t.Campus,
		&t.CanManageStudents, &t.CanManageTasks, &t.HashedPassword,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *pgTeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	query := `INSERT INTO teachers (teacher_id, name, email, campus, can_manage_students, can_manage_tasks, hashed_password)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		t.TeacherID, t.Name, t.Email, t.Campus, t.CanManageStudents, t.CanManageTasks, t.HashedPassword)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("teacher with ID %s already exists: %w", t.TeacherID, common.ErrConflict)
		}
		return fmt.Errorf("pgTeacherRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTeacherRepository) FindByID(ctx context.Context, teacherID string) (*model.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE teacher_id = $1`
	t, err := scanTeacher(r.db.QueryRowContext(ctx, query, teacherID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTeacherRepository.FindByID: %w", err)
	}
	return t, nil
}

func (r *pgTeacherRepository) Update(ctx context.Context, t *model.Teacher) error {
	query := `UPDATE teachers SET
	            name = $1, email = $2, campus = $3,
	            can_manage_students = $4, can_manage_tasks = $5,
	            hashed_password = $6, updated_at = CURRENT_TIMESTAMP
	          WHERE teacher_id = $7`
	res, err := r.db.ExecContext(ctx, query,
		t.Name, t.Email, t.Campus, t.CanManageStudents, t.CanManageTasks, t.HashedPassword, t.TeacherID)
	if err != nil {
		return fmt.Errorf("pgTeacherRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTeacherRepository) Delete(ctx context.Context, teacherID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teachers WHERE teacher_id = $1`, teacherID)
	if err != nil {
		return fmt.Errorf("pgTeacherRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTeacherRepository) List(ctx context.Context) ([]model.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgTeacherRepository.List: %w", err)
	}
	defer rows.Close()

	var teachers []model.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("pgTeacherRepository.List scan: %w", err)
		}
		teachers = append(teachers, *t)
	}
	return teachers, rows.Err()
}

func (r *pgTeacherRepository) CountByCampus(ctx context.Context, campus string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teachers WHERE campus = $1`, campus).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgTeacherRepository.CountByCampus: %w", err)
	}
	return count, nil
}
