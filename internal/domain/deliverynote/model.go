// Package deliverynote provides the delivery note document (nota de entrega).
package deliverynote

import (
	"time"

	"github.com/shopspring/decimal"

	"yahveh/internal/core/apperror"
)

// Note status values as stored by the procedure layer.
const (
	StatusVoided int32 = 0
	StatusValid  int32 = 1
)

// DeliveryNote represents a delivery note header with its line items.
// Aggregates (TotalAmount, TotalArticleCount) are computed by the
// stored-procedure layer over the non-deleted details; the application
// tier never maintains them redundantly.
type DeliveryNote struct {
	NoteID     int32     `json:"noteId"`
	ClientID   int32     `json:"clientId"`
	ClientName string    `json:"clientName"`
	Date       time.Time `json:"date"`
	Address    string    `json:"address"`
	ZoneLabel  string    `json:"zoneLabel"`
	CreatedBy  int32     `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	Status     int32     `json:"status"`
	StatusText string    `json:"statusText"`

	TotalAmount       decimal.Decimal `json:"totalAmount"`
	TotalArticleCount int32           `json:"totalArticleCount"`

	Details []Detail `json:"details"`
}

// IsVoided reports whether the note has been voided (anulada).
func (n *DeliveryNote) IsVoided() bool {
	return n.Status == StatusVoided
}

// Detail represents one line item of a delivery note. Article description
// and line are denormalized at write time so the note stays historically
// accurate if the article master record changes later. LineTotal and the
// no-invoice subtotal are recomputed by the procedure on every write.
type Detail struct {
	DetailID            int32           `json:"detailId"`
	NoteID              int32           `json:"noteId"`
	ArticleID           string          `json:"articleId"`
	ArticleDescription  string          `json:"articleDescription"`
	ArticleDescription2 string          `json:"articleDescription2,omitempty"`
	ArticleLine         string          `json:"articleLine"`
	ArticleLineID       int32           `json:"articleLineId"`
	Quantity            int32           `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unitPrice"`
	LineTotal           decimal.Decimal `json:"lineTotal"`
	NoInvoicePrice      decimal.Decimal `json:"noInvoicePrice"`
	CreatedBy           int32           `json:"createdBy"`
}

// CreateInput carries the caller-supplied fields for creating a note with
// its initial line items.
type CreateInput struct {
	ClientID  int32
	Date      time.Time
	Address   string
	ZoneLabel string
	Lines     []LineInput
}

// LineInput carries the caller-supplied fields of one line item.
// Everything else on a Detail is computed or denormalized server-side.
type LineInput struct {
	ArticleID      string
	Quantity       int32
	UnitPrice      decimal.Decimal
	NoInvoicePrice decimal.Decimal
}

// UpdateInput carries the mutable header fields. Client identity is
// immutable after creation and deliberately absent here.
type UpdateInput struct {
	Date      time.Time
	Address   string
	ZoneLabel string
}

// Validate checks the create request before any database work.
func (in *CreateInput) Validate() error {
	if in.ClientID <= 0 {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}
	if in.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if len(in.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	for i := range in.Lines {
		if err := in.Lines[i].Validate(); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("lineNo", i+1)
			}
			return err
		}
	}
	return nil
}

// Validate checks one line item.
func (l *LineInput) Validate() error {
	if l.ArticleID == "" {
		return apperror.NewValidation("article is required").
			WithDetail("field", "articleId")
	}
	if l.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if l.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	if l.NoInvoicePrice.IsNegative() {
		return apperror.NewValidation("no-invoice price cannot be negative").
			WithDetail("field", "noInvoicePrice")
	}
	return nil
}

// DetailInput carries the mutable fields of an existing line item. The
// article reference is fixed at creation; changing the article means
// deleting the line and adding a new one.
type DetailInput struct {
	Quantity       int32
	UnitPrice      decimal.Decimal
	NoInvoicePrice decimal.Decimal
}

// Validate checks the line item update request.
func (in *DetailInput) Validate() error {
	if in.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if in.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	if in.NoInvoicePrice.IsNegative() {
		return apperror.NewValidation("no-invoice price cannot be negative").
			WithDetail("field", "noInvoicePrice")
	}
	return nil
}

// Validate checks the header update request.
func (in *UpdateInput) Validate() error {
	if in.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// ReportAggregate is the fully denormalized note used by the printable
// report: header plus client fiscal data plus one entry per line item.
type ReportAggregate struct {
	NoteID       int32     `json:"noteId"`
	Date         time.Time `json:"date"`
	ClientID     int32     `json:"clientId"`
	ClientName   string    `json:"clientName"`
	TaxID        string    `json:"taxId"`
	BusinessName string    `json:"businessName"`
	Address      string    `json:"address"`
	ZoneLabel    string    `json:"zoneLabel"`
	Phones       string    `json:"phones"`
	Status       int32     `json:"status"`
	StatusText   string    `json:"statusText"`

	TotalAmount       decimal.Decimal `json:"totalAmount"`
	TotalNoInvoice    decimal.Decimal `json:"totalNoInvoice"`
	TotalArticleCount int32           `json:"totalArticleCount"`

	Lines []ReportLine `json:"lines"`
}

// ReportLine is one article row of the printable report.
type ReportLine struct {
	ArticleID          string          `json:"articleId"`
	ArticleLine        string          `json:"articleLine"`
	ArticleDescription string          `json:"articleDescription"`
	Quantity           int32           `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	LineTotal          decimal.Decimal `json:"lineTotal"`
	NoInvoicePrice     decimal.Decimal `json:"noInvoicePrice"`
	NoInvoiceSubtotal  decimal.Decimal `json:"noInvoiceSubtotal"`
}

// Sales report row kinds. The procedure emits detail rows followed by a
// trailing grand-total row marked in the status text column.
const (
	SalesRowDetail = "DETALLE"
	SalesRowTotal  = "TOTAL"
)

// SalesReportRow is one row of the sales report over a date range. Most
// columns are nullable because the trailing total row carries only the
// aggregate figures.
type SalesReportRow struct {
	RowType      string           `json:"rowType"`
	Date         *time.Time       `json:"date,omitempty"`
	ClientID     *int32           `json:"clientId,omitempty"`
	ClientName   string           `json:"clientName,omitempty"`
	Address      string           `json:"address,omitempty"`
	City         string           `json:"city,omitempty"`
	ArticleID    string           `json:"articleId,omitempty"`
	ArticleLine  string           `json:"articleLine,omitempty"`
	ProductFull  string           `json:"productFull,omitempty"`
	Quantity     *int32           `json:"quantity,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unitPrice,omitempty"`
	Discount     *decimal.Decimal `json:"discount,omitempty"`
	TotalBs      *decimal.Decimal `json:"totalBs,omitempty"`
	DiscountBs   *decimal.Decimal `json:"discountBs,omitempty"`
	UnitBs       *decimal.Decimal `json:"unitBs,omitempty"`
	TotalBsDisc  *decimal.Decimal `json:"totalBsDisc,omitempty"`
	GrandTotalBs *decimal.Decimal `json:"grandTotalBs,omitempty"`
}
