package article

import (
	"context"

	"yahveh/internal/core/apperror"
)

// Service provides read access to the article catalog.
type Service struct {
	repo Repository
}

// NewService creates the article catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all articles.
func (s *Service) List(ctx context.Context) ([]Article, error) {
	return s.repo.List(ctx)
}

// GetByID returns one article.
func (s *Service) GetByID(ctx context.Context, articleID string) (*Article, error) {
	if articleID == "" {
		return nil, apperror.NewValidation("article id is required").WithDetail("field", "articleId")
	}
	a, found, err := s.repo.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NewNotFound("article", articleID)
	}
	return a, nil
}

// ListByLine returns the articles of one line.
func (s *Service) ListByLine(ctx context.Context, lineID int32) ([]Article, error) {
	return s.repo.ListByLine(ctx, lineID)
}

// SearchByName returns articles whose description matches the pattern.
func (s *Service) SearchByName(ctx context.Context, name string) ([]Article, error) {
	if name == "" {
		return nil, apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return s.repo.SearchByName(ctx, name)
}
