package client

import (
	"context"

	"yahveh/internal/core/apperror"
	appctx "yahveh/internal/core/context"
	"yahveh/pkg/logger"
)

// Service provides client catalog operations. Referential rules (a client
// with notes cannot be deleted, duplicate tax ids) are enforced by
// p_abm_cliente and surface as business rule errors.
type Service struct {
	repo Repository
}

// NewService creates the client catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func actorID(ctx context.Context) (int64, error) {
	actor := appctx.GetActor(ctx)
	if actor == nil {
		return 0, apperror.NewUnauthorized("authentication required")
	}
	return actor.UserID, nil
}

// List returns all clients.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

// GetByID returns one client.
func (s *Service) GetByID(ctx context.Context, clientID int32) (*Client, error) {
	c, found, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NewNotFound("client", clientID)
	}
	return c, nil
}

// ListByZone returns the clients of one zone.
func (s *Service) ListByZone(ctx context.Context, zoneID int32) ([]Client, error) {
	return s.repo.ListByZone(ctx, zoneID)
}

// SearchByTaxID returns clients matching a tax id.
func (s *Service) SearchByTaxID(ctx context.Context, taxID string) ([]Client, error) {
	if taxID == "" {
		return nil, apperror.NewValidation("tax id is required").WithDetail("field", "taxId")
	}
	return s.repo.SearchByTaxID(ctx, taxID)
}

// SearchByName returns clients whose name matches the pattern.
func (s *Service) SearchByName(ctx context.Context, name string) ([]Client, error) {
	if name == "" {
		return nil, apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return s.repo.SearchByName(ctx, name)
}

// Create inserts a client and returns it.
func (s *Service) Create(ctx context.Context, in Input) (*Client, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	clientID, err := s.repo.Create(ctx, in, userID)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "client created", "client_id", clientID)
	return s.GetByID(ctx, clientID)
}

// Update changes a client and returns the updated record.
func (s *Service) Update(ctx context.Context, clientID int32, in Input) (*Client, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, clientID, in, userID); err != nil {
		return nil, err
	}

	logger.Info(ctx, "client updated", "client_id", clientID)
	return s.GetByID(ctx, clientID)
}

// Delete removes a client. The procedure rejects the call when delivery
// notes still reference it.
func (s *Service) Delete(ctx context.Context, clientID int32) error {
	userID, err := actorID(ctx)
	if err != nil {
		return err
	}

	if _, err := s.GetByID(ctx, clientID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, clientID, userID); err != nil {
		return err
	}

	logger.Info(ctx, "client deleted", "client_id", clientID, "user_id", userID)
	return nil
}
