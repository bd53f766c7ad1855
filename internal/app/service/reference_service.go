package service

import (
	"context"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/repository"
)

// ReferenceService fronts the seeded campus and grade catalogues.
type ReferenceService struct {
	referenceRepo repository.ReferenceRepository
}

func NewReferenceService(referenceRepo repository.ReferenceRepository) *ReferenceService {
	return &ReferenceService{referenceRepo: referenceRepo}
}

func (s *ReferenceService) Campuses(ctx context.Context) ([]model.Campus, error) {
	campuses, err := s.referenceRepo.ListCampuses(ctx)
	if err != nil {
		return nil, err
	}
	if campuses == nil {
		campuses = []model.Campus{}
	}
	return campuses, nil
}

func (s *ReferenceService) Grades(ctx context.Context) ([]model.Grade, error) {
	grades, err := s.referenceRepo.ListGrades(ctx)
	if err != nil {
		return nil, err
	}
	if grades == nil {
		grades = []model.Grade{}
	}
	return grades, nil
}

// Seed loads the default catalogue at startup; existing rows are untouched.
func (s *ReferenceService) Seed(ctx context.Context) error {
	return s.referenceRepo.Seed(ctx)
}
