package services

import (
	"context"

	"github.com/clearline-hq/clearline/modules/kpi/domain/entities/selection"
)

// SelectionService backs the reference pickers on the item creation screen.
type SelectionService struct {
	repo selection.Repository
}

func NewSelectionService(repo selection.Repository) *SelectionService {
	return &SelectionService{repo: repo}
}

func (s *SelectionService) ListSubjects(ctx context.Context) ([]selection.Subject, error) {
	return s.repo.ListSubjects(ctx)
}

func (s *SelectionService) ListDefinitions(ctx context.Context) ([]selection.Definition, error) {
	return s.repo.ListDefinitions(ctx)
}

func (s *SelectionService) ListMetrics(ctx context.Context) ([]selection.Metric, error) {
	return s.repo.ListMetrics(ctx)
}
