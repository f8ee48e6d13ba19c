package deliverynote

import (
	"context"
	"time"
)

// Repository defines the stored-procedure-backed operations for delivery
// note headers. Every method is a single procedure invocation.
type Repository interface {
	ListValid(ctx context.Context) ([]DeliveryNote, error)
	ListAll(ctx context.Context) ([]DeliveryNote, error)
	ListVoided(ctx context.Context) ([]DeliveryNote, error)

	// FindByID reports found=false when the note does not exist.
	FindByID(ctx context.Context, noteID int32) (*DeliveryNote, bool, error)

	ListByClient(ctx context.Context, clientID int32) ([]DeliveryNote, error)

	// ListByDateRange uses inclusive bounds; a nil side means unbounded.
	ListByDateRange(ctx context.Context, from, to *time.Time) ([]DeliveryNote, error)

	Create(ctx context.Context, clientID int32, date time.Time, address, zoneLabel string, userID int64) (int32, error)
	Update(ctx context.Context, noteID int32, date time.Time, address, zoneLabel string, userID int64) error

	// Void performs the anulation; the procedure reverses stock as a side
	// effect. Voiding an already-voided note surfaces whatever the
	// procedure reports, the application tier does not special-case it.
	Void(ctx context.Context, noteID int32, userID int64) error

	Delete(ctx context.Context, noteID int32, userID int64) error

	// FetchReportData returns the denormalized printable report for one
	// note, or a not-found error when the rowset is empty.
	FetchReportData(ctx context.Context, noteID int32) (*ReportAggregate, error)

	SalesReport(ctx context.Context, from, to time.Time) ([]SalesReportRow, error)
}

// DetailRepository defines the stored-procedure-backed operations for
// delivery note line items.
type DetailRepository interface {
	ListByNote(ctx context.Context, noteID int32) ([]Detail, error)

	// ListByNotesBatch hydrates details for many notes at once. The
	// result always has every requested id as a key, mapped to an empty
	// slice when the note has no details.
	ListByNotesBatch(ctx context.Context, noteIDs []int32) (map[int32][]Detail, error)

	FindByID(ctx context.Context, detailID int32) (*Detail, bool, error)

	Create(ctx context.Context, noteID int32, line LineInput, userID int64) (int32, error)
	Update(ctx context.Context, detailID int32, in DetailInput, userID int64) error
	Delete(ctx context.Context, detailID int32, userID int64) error
}
