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

type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	Count(ctx context.Context) (int, error)
}

type pgAdminRepository struct {
	db *sql.DB
}

func NewPgAdminRepository(db *sql.DB) AdminRepository {
	return &pgAdminRepository{db: db}
}

func (r *pgAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	query := `INSERT INTO admins (id, username, hashed_password) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, admin.ID, admin.Username, admin.HashedPassword)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("admin with this username already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgAdminRepository.Create: %w", err)
	}
	return nil
}

func (r *pgAdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	query := `SELECT id, username, hashed_password, created_at, updated_at
	          FROM admins WHERE username = $1`
	admin := &model.Admin{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&admin.ID, &admin.Username, &admin.HashedPassword, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAdminRepository.FindByUsername: %w", err)
	}
	return admin, nil
}

func (r *pgAdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgAdminRepository.Count: %w", err)
	}
	return count, nil
}
