package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
)

// ReferenceRepository serves the fixed campus and grade catalogues.
type ReferenceRepository interface {
	ListCampuses(ctx context.Context) ([]model.Campus, error)
	ListGrades(ctx context.Context) ([]model.Grade, error)
	FindCampus(ctx context.Context, name string) (*model.Campus, error)
	// Seed inserts the default catalogue, skipping rows that already exist.
	Seed(ctx context.Context) error
}

type pgReferenceRepository struct {
	db *sql.DB
}

func NewPgReferenceRepository(db *sql.DB) ReferenceRepository {
	return &pgReferenceRepository{db: db}
}

func (r *pgReferenceRepository) ListCampuses(ctx context.Context) ([]model.Campus, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, code FROM campuses ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("pgReferenceRepository.ListCampuses: %w", err)
	}
	defer rows.Close()

	var campuses []model.Campus
	for rows.Next() {
		c := model.Campus{}
		if err := rows.Scan(&c.Name, &c.Code); err != nil {
			return nil, fmt.Errorf("pgReferenceRepository.ListCampuses scan: %w", err)
		}
		campuses = append(campuses, c)
	}
	return campuses, rows.Err()
}

func (r *pgReferenceRepository) ListGrades(ctx context.Context) ([]model.Grade, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, level FROM grades ORDER BY level ASC`)
	if err != nil {
		return nil, fmt.Errorf("pgReferenceRepository.ListGrades: %w", err)
	}
	defer rows.Close()

	var grades []model.Grade
	for rows.Next() {
		g := model.Grade{}
		if err := rows.Scan(&g.Name, &g.Level); err != nil {
			return nil, fmt.Errorf("pgReferenceRepository.ListGrades scan: %w", err)
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

func (r *pgReferenceRepository) FindCampus(ctx context.Context, name string) (*model.Campus, error) {
	c := model.Campus{}
	err := r.db.QueryRowContext(ctx, `SELECT name, code FROM campuses WHERE name = $1`, name).
		Scan(&c.Name, &c.Code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pgReferenceRepository.FindCampus: %w", err)
	}
	return &c, nil
}

func (r *pgReferenceRepository) Seed(ctx context.Context) error {
	for _, c := range model.DefaultCampuses() {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO campuses (name, code) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			c.Name, c.Code)
		if err != nil {
			return fmt.Errorf("pgReferenceRepository.Seed campus %s: %w", c.Name, err)
		}
	}
	for _, g := range model.DefaultGrades() {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO grades (name, level) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			g.Name, g.Level)
		if err != nil {
			return fmt.Errorf("pgReferenceRepository.Seed grade %s: %w", g.Name, err)
		}
	}
	return nil
}
