package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"yahveh/internal/core/apperror"
	"yahveh/internal/domain/deliverynote"
)

// DateLayout is the wire format for dates in this API.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value, naming the offending field on
// failure.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return t, nil
}

// DeliveryNoteLineRequest is one requested line item.
type DeliveryNoteLineRequest struct {
	ArticleID      string          `json:"articleId" binding:"required"`
	Quantity       int32           `json:"quantity" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unitPrice" binding:"required"`
	NoInvoicePrice decimal.Decimal `json:"noInvoicePrice"`
}

func (r DeliveryNoteLineRequest) toLine() deliverynote.LineInput {
	return deliverynote.LineInput{
		ArticleID:      r.ArticleID,
		Quantity:       r.Quantity,
		UnitPrice:      r.UnitPrice,
		NoInvoicePrice: r.NoInvoicePrice,
	}
}

// CreateDeliveryNoteRequest is the payload for POST /delivery-notes.
type CreateDeliveryNoteRequest struct {
	ClientID  int32                     `json:"clientId" binding:"required"`
	Date      string                    `json:"date" binding:"required"`
	Address   string                    `json:"address"`
	ZoneLabel string                    `json:"zoneLabel"`
	Lines     []DeliveryNoteLineRequest `json:"lines" binding:"required"`
}

// ToInput converts the request to the service input.
func (r CreateDeliveryNoteRequest) ToInput() (deliverynote.CreateInput, error) {
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return deliverynote.CreateInput{}, err
	}

	lines := make([]deliverynote.LineInput, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, l.toLine())
	}

	return deliverynote.CreateInput{
		ClientID:  r.ClientID,
		Date:      date,
		Address:   r.Address,
		ZoneLabel: r.ZoneLabel,
		Lines:     lines,
	}, nil
}

// UpdateDeliveryNoteRequest is the payload for PUT /delivery-notes/:id.
// The client reference is immutable and deliberately not accepted.
type UpdateDeliveryNoteRequest struct {
	Date      string `json:"date" binding:"required"`
	Address   string `json:"address"`
	ZoneLabel string `json:"zoneLabel"`
}

// ToInput converts the request to the service input.
func (r UpdateDeliveryNoteRequest) ToInput() (deliverynote.UpdateInput, error) {
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return deliverynote.UpdateInput{}, err
	}
	return deliverynote.UpdateInput{
		Date:      date,
		Address:   r.Address,
		ZoneLabel: r.ZoneLabel,
	}, nil
}

// CreateDetailRequest is the payload for POST /delivery-note-details.
type CreateDetailRequest struct {
	NoteID int32 `json:"noteId" binding:"required"`
	DeliveryNoteLineRequest
}

// ToLine converts the request to the service input.
func (r CreateDetailRequest) ToLine() deliverynote.LineInput {
	return r.toLine()
}

// UpdateDetailRequest is the payload for PUT /delivery-note-details/:id.
type UpdateDetailRequest struct {
	Quantity       int32           `json:"quantity" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unitPrice" binding:"required"`
	NoInvoicePrice decimal.Decimal `json:"noInvoicePrice"`
}

// ToInput converts the request to the service input.
func (r UpdateDetailRequest) ToInput() deliverynote.DetailInput {
	return deliverynote.DetailInput{
		Quantity:       r.Quantity,
		UnitPrice:      r.UnitPrice,
		NoInvoicePrice: r.NoInvoicePrice,
	}
}
