package deliverynote

import (
	"context"
	"time"

	"yahveh/internal/core/apperror"
	appctx "yahveh/internal/core/context"
	"yahveh/internal/core/tx"
	"yahveh/pkg/logger"
)

// Service provides business operations for delivery notes. It coordinates
// the header and detail repositories; all business rules (stock checks,
// aggregate recomputation, stock reversal on void) live in the
// stored-procedure layer underneath.
type Service struct {
	notes     Repository
	details   DetailRepository
	txManager tx.Manager
}

// NewService creates a delivery note service.
func NewService(notes Repository, details DetailRepository, txManager tx.Manager) *Service {
	return &Service{
		notes:     notes,
		details:   details,
		txManager: txManager,
	}
}

// actorID extracts the authenticated user for audit attribution.
func actorID(ctx context.Context) (int64, error) {
	actor := appctx.GetActor(ctx)
	if actor == nil {
		return 0, apperror.NewUnauthorized("authentication required")
	}
	return actor.UserID, nil
}

// List returns all valid notes with their details hydrated in one batch.
func (s *Service) List(ctx context.Context) ([]DeliveryNote, error) {
	notes, err := s.notes.ListValid(ctx)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, notes)
}

// ListAll returns valid and voided notes with details.
func (s *Service) ListAll(ctx context.Context) ([]DeliveryNote, error) {
	notes, err := s.notes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, notes)
}

// ListVoided returns only voided notes with details.
func (s *Service) ListVoided(ctx context.Context) ([]DeliveryNote, error) {
	notes, err := s.notes.ListVoided(ctx)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, notes)
}

// ListByClient returns a client's valid notes with details.
func (s *Service) ListByClient(ctx context.Context, clientID int32) ([]DeliveryNote, error) {
	notes, err := s.notes.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, notes)
}

// ListByDateRange returns valid notes in the inclusive range with details.
// A nil bound leaves that side open.
func (s *Service) ListByDateRange(ctx context.Context, from, to *time.Time) ([]DeliveryNote, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperror.NewValidation("date range is inverted").
			WithDetail("from", from).
			WithDetail("to", to)
	}
	notes, err := s.notes.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, notes)
}

// GetByID returns one note with its details.
func (s *Service) GetByID(ctx context.Context, noteID int32) (*DeliveryNote, error) {
	note, found, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NewNotFound("delivery note", noteID)
	}

	details, err := s.details.ListByNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	note.Details = details
	return note, nil
}

// Create inserts the header and every line item in one transaction and
// returns the hydrated note. If any line insert fails the whole note
// rolls back; a note missing part of its intended lines is never
// committed.
func (s *Service) Create(ctx context.Context, in CreateInput) (*DeliveryNote, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	var created *DeliveryNote
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		noteID, err := s.notes.Create(ctx, in.ClientID, in.Date, in.Address, in.ZoneLabel, userID)
		if err != nil {
			return err
		}

		for _, line := range in.Lines {
			if _, err := s.details.Create(ctx, noteID, line, userID); err != nil {
				return err
			}
		}

		created, err = s.GetByID(ctx, noteID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery note created",
		"note_id", created.NoteID,
		"client_id", created.ClientID,
		"lines", len(created.Details),
	)
	return created, nil
}

// Update changes the mutable header fields and returns the updated note.
// Client identity is immutable after creation and details are untouched.
func (s *Service) Update(ctx context.Context, noteID int32, in UpdateInput) (*DeliveryNote, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ensureExists(ctx, noteID); err != nil {
		return nil, err
	}
	if err := s.notes.Update(ctx, noteID, in.Date, in.Address, in.ZoneLabel, userID); err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery note updated", "note_id", noteID)
	return s.GetByID(ctx, noteID)
}

// Void anulls the note; the procedure reverses the stock it consumed.
// Terminal transition: a voided note never returns to valid. Voiding an
// already-voided note surfaces the procedure's own verdict unchanged.
func (s *Service) Void(ctx context.Context, noteID int32) (*DeliveryNote, error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ensureExists(ctx, noteID); err != nil {
		return nil, err
	}
	if err := s.notes.Void(ctx, noteID, userID); err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery note voided", "note_id", noteID, "user_id", userID)
	return s.GetByID(ctx, noteID)
}

// Delete hard-deletes the note. Distinct from Void: any stock effect is
// entirely the procedure's responsibility.
func (s *Service) Delete(ctx context.Context, noteID int32) error {
	userID, err := actorID(ctx)
	if err != nil {
		return err
	}

	if err := s.ensureExists(ctx, noteID); err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, noteID, userID); err != nil {
		return err
	}

	logger.Info(ctx, "delivery note deleted", "note_id", noteID, "user_id", userID)
	return nil
}

// Report returns the denormalized printable report for one note.
func (s *Service) Report(ctx context.Context, noteID int32) (*ReportAggregate, error) {
	return s.notes.FetchReportData(ctx, noteID)
}

// SalesReport returns the sales rows for an inclusive date range. Both
// bounds are required here, unlike the open-ended note listing.
func (s *Service) SalesReport(ctx context.Context, from, to time.Time) ([]SalesReportRow, error) {
	if from.IsZero() || to.IsZero() {
		return nil, apperror.NewValidation("both dates are required").
			WithDetail("field", "from/to")
	}
	if to.Before(from) {
		return nil, apperror.NewValidation("date range is inverted").
			WithDetail("from", from).
			WithDetail("to", to)
	}
	return s.notes.SalesReport(ctx, from, to)
}

// GetDetail returns one line item.
func (s *Service) GetDetail(ctx context.Context, detailID int32) (*Detail, error) {
	detail, found, err := s.details.FindByID(ctx, detailID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NewNotFound("delivery note detail", detailID)
	}
	return detail, nil
}

// AddDetail appends a line item to an existing note. The procedure
// recomputes the note's aggregates.
func (s *Service) AddDetail(ctx context.Context, noteID int32, line LineInput) (*Detail, error) {
	if err := line.Validate(); err != nil {
		return nil, err
	}
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ensureExists(ctx, noteID); err != nil {
		return nil, err
	}
	detailID, err := s.details.Create(ctx, noteID, line, userID)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery note detail created",
		"note_id", noteID,
		"detail_id", detailID,
		"article_id", line.ArticleID,
	)
	return s.GetDetail(ctx, detailID)
}

// UpdateDetail changes a line item's quantity and prices.
func (s *Service) UpdateDetail(ctx context.Context, detailID int32, in DetailInput) (*Detail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetDetail(ctx, detailID); err != nil {
		return nil, err
	}
	if err := s.details.Update(ctx, detailID, in, userID); err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery note detail updated", "detail_id", detailID)
	return s.GetDetail(ctx, detailID)
}

// RemoveDetail deletes a line item; the procedure recomputes the parent
// note's aggregates.
func (s *Service) RemoveDetail(ctx context.Context, detailID int32) error {
	userID, err := actorID(ctx)
	if err != nil {
		return err
	}

	if _, err := s.GetDetail(ctx, detailID); err != nil {
		return err
	}
	if err := s.details.Delete(ctx, detailID, userID); err != nil {
		return err
	}

	logger.Info(ctx, "delivery note detail deleted", "detail_id", detailID, "user_id", userID)
	return nil
}

// hydrate fills Details for every note using the batch loader; listing N
// notes costs one batch round trip, never N individual calls.
func (s *Service) hydrate(ctx context.Context, notes []DeliveryNote) ([]DeliveryNote, error) {
	if len(notes) == 0 {
		return notes, nil
	}

	ids := make([]int32, 0, len(notes))
	seen := make(map[int32]struct{}, len(notes))
	for i := range notes {
		if _, ok := seen[notes[i].NoteID]; ok {
			continue
		}
		seen[notes[i].NoteID] = struct{}{}
		ids = append(ids, notes[i].NoteID)
	}

	detailsByNote, err := s.details.ListByNotesBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range notes {
		notes[i].Details = detailsByNote[notes[i].NoteID]
	}
	return notes, nil
}

func (s *Service) ensureExists(ctx context.Context, noteID int32) error {
	_, found, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NewNotFound("delivery note", noteID)
	}
	return nil
}
