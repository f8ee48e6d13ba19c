package client

import "context"

// Repository defines the stored-procedure-backed client catalog access.
type Repository interface {
	List(ctx context.Context) ([]Client, error)
	FindByID(ctx context.Context, clientID int32) (*Client, bool, error)
	ListByZone(ctx context.Context, zoneID int32) ([]Client, error)
	SearchByTaxID(ctx context.Context, taxID string) ([]Client, error)
	SearchByName(ctx context.Context, name string) ([]Client, error)

	Create(ctx context.Context, in Input, userID int64) (int32, error)
	Update(ctx context.Context, clientID int32, in Input, userID int64) error
	Delete(ctx context.Context, clientID int32, userID int64) error
}
