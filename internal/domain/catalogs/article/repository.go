package article

import "context"

// Repository defines the stored-procedure-backed article catalog access.
type Repository interface {
	List(ctx context.Context) ([]Article, error)
	FindByID(ctx context.Context, articleID string) (*Article, bool, error)
	ListByLine(ctx context.Context, lineID int32) ([]Article, error)
	SearchByName(ctx context.Context, name string) ([]Article, error)
}
