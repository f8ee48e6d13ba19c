// Package deliverynote_repo implements the delivery note repositories over
// the stored-procedure layer. Every method is one procedure invocation;
// the procedures own all business rules and the schema itself.
package deliverynote_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"yahveh/internal/core/abm"
	"yahveh/internal/core/apperror"
	"yahveh/internal/domain/deliverynote"
	"yahveh/internal/infrastructure/storage/postgres"
)

// NoteRepository persists delivery note headers via p_abm_nota_entrega
// and reads them via p_list_nota_entrega.
type NoteRepository struct {
	db *postgres.Gateway
}

var _ deliverynote.Repository = (*NoteRepository)(nil)

// NewNoteRepository creates the header repository.
func NewNoteRepository(db *postgres.Gateway) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `cod_nota_entrega, cod_cliente, nombre_cliente, fecha, direccion, zona,
	       aud_usuario, aud_fecha, estado, estado_texto, total_general, total_articulos`

// noteRow scans identities at their native BIGINT width; narrowing to the
// API's int32 happens in toDomain with the warn-and-truncate policy.
type noteRow struct {
	NoteID            int64           `db:"cod_nota_entrega"`
	ClientID          int64           `db:"cod_cliente"`
	ClientName        *string         `db:"nombre_cliente"`
	Date              time.Time       `db:"fecha"`
	Address           *string         `db:"direccion"`
	ZoneLabel         *string         `db:"zona"`
	CreatedBy         int64           `db:"aud_usuario"`
	CreatedAt         time.Time       `db:"aud_fecha"`
	Status            int32           `db:"estado"`
	StatusText        *string         `db:"estado_texto"`
	TotalAmount       decimal.Decimal `db:"total_general"`
	TotalArticleCount int32           `db:"total_articulos"`
}

func (r noteRow) toDomain(ctx context.Context) deliverynote.DeliveryNote {
	return deliverynote.DeliveryNote{
		NoteID:            postgres.NarrowID(ctx, "cod_nota_entrega", r.NoteID),
		ClientID:          postgres.NarrowID(ctx, "cod_cliente", r.ClientID),
		ClientName:        deref(r.ClientName),
		Date:              r.Date,
		Address:           deref(r.Address),
		ZoneLabel:         deref(r.ZoneLabel),
		CreatedBy:         postgres.NarrowID(ctx, "aud_usuario", r.CreatedBy),
		CreatedAt:         r.CreatedAt,
		Status:            r.Status,
		StatusText:        deref(r.StatusText),
		TotalAmount:       r.TotalAmount,
		TotalArticleCount: r.TotalArticleCount,
	}
}

func (r *NoteRepository) list(ctx context.Context, sql string, args ...any) ([]deliverynote.DeliveryNote, error) {
	var rows []noteRow
	if err := r.db.QueryList(ctx, &rows, sql, args...); err != nil {
		return nil, err
	}
	notes := make([]deliverynote.DeliveryNote, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.toDomain(ctx))
	}
	return notes, nil
}

// ListValid returns notes with estado = 1.
func (r *NoteRepository) ListValid(ctx context.Context) ([]deliverynote.DeliveryNote, error) {
	sql := `SELECT ` + noteColumns + ` FROM p_list_nota_entrega(p_estado := 1)`
	return r.list(ctx, sql)
}

// ListAll returns valid and voided notes, no filters.
func (r *NoteRepository) ListAll(ctx context.Context) ([]deliverynote.DeliveryNote, error) {
	sql := `SELECT ` + noteColumns + ` FROM p_list_nota_entrega()`
	return r.list(ctx, sql)
}

// ListVoided returns notes with estado = 0.
func (r *NoteRepository) ListVoided(ctx context.Context) ([]deliverynote.DeliveryNote, error) {
	sql := `SELECT ` + noteColumns + ` FROM p_list_nota_entrega(p_estado := 0)`
	return r.list(ctx, sql)
}

// FindByID looks a note up regardless of status.
func (r *NoteRepository) FindByID(ctx context.Context, noteID int32) (*deliverynote.DeliveryNote, bool, error) {
	sql := `SELECT ` + noteColumns + ` FROM p_list_nota_entrega(p_codnotaentrega := $1)`

	var row noteRow
	found, err := r.db.QueryOne(ctx, &row, sql, noteID)
	if err != nil || !found {
		return nil, false, err
	}
	note := row.toDomain(ctx)
	return &note, true, nil
}

// ListByClient returns a client's valid notes.
func (r *NoteRepository) ListByClient(ctx context.Context, clientID int32) ([]deliverynote.DeliveryNote, error) {
	sql := `SELECT ` + noteColumns + ` FROM p_list_nota_entrega(p_codcliente := $1, p_estado := 1)`
	return r.list(ctx, sql, clientID)
}

// ListByDateRange returns valid notes within the inclusive bounds; a nil
// bound is passed as NULL which the procedure treats as unbounded.
func (r *NoteRepository) ListByDateRange(ctx context.Context, from, to *time.Time) ([]deliverynote.DeliveryNote, error) {
	sql := `SELECT ` + noteColumns + `
	  FROM p_list_nota_entrega(p_fecha_desde := $1::DATE, p_fecha_hasta := $2::DATE, p_estado := 1)`
	return r.list(ctx, sql, from, to)
}

// Create inserts a header and returns the generated note id.
func (r *NoteRepository) Create(ctx context.Context, clientID int32, date time.Time, address, zoneLabel string, userID int64) (int32, error) {
	sql := `SELECT p_error, p_errormsg, p_result
	  FROM p_abm_nota_entrega(
	       p_codcliente := $1::BIGINT,
	       p_fecha := $2::DATE,
	       p_direccion := $3::VARCHAR,
	       p_zona := $4::VARCHAR,
	       p_audusuario := $5::BIGINT,
	       p_accion := $6::VARCHAR)`

	result, err := r.db.ExecABM(ctx, sql, clientID, date, address, zoneLabel, userID, abm.Insert.Flag())
	if err != nil {
		return 0, err
	}
	if result == nil {
		return 0, apperror.NewDatabase(fmt.Errorf("p_abm_nota_entrega returned no identity on insert"))
	}
	return postgres.NarrowID(ctx, "cod_nota_entrega", *result), nil
}

// Update changes the mutable header fields. The client reference is not
// part of the parameter set: immutable after creation.
func (r *NoteRepository) Update(ctx context.Context, noteID int32, date time.Time, address, zoneLabel string, userID int64) error {
	sql := `SELECT p_error, p_errormsg, p_result
	  FROM p_abm_nota_entrega(
	       p_codnotaentrega := $1::BIGINT,
	       p_fecha := $2::DATE,
	       p_direccion := $3::VARCHAR,
	       p_zona := $4::VARCHAR,
	       p_audusuario := $5::BIGINT,
	       p_accion := $6::VARCHAR)`

	_, err := r.db.ExecABM(ctx, sql, noteID, date, address, zoneLabel, userID, abm.Update.Flag())
	return err
}

// Void anulls the note. The procedure reverses the stock the note consumed
// in the same database transaction.
func (r *NoteRepository) Void(ctx context.Context, noteID int32, userID int64) error {
	sql := `SELECT p_error, p_errormsg, p_result
	  FROM p_abm_nota_entrega(
	       p_codnotaentrega := $1::BIGINT,
	       p_audusuario := $2::BIGINT,
	       p_accion := $3::VARCHAR)`

	_, err := r.db.ExecABM(ctx, sql, noteID, userID, abm.Void.Flag())
	return err
}

// Delete hard-deletes the note.
func (r *NoteRepository) Delete(ctx context.Context, noteID int32, userID int64) error {
	sql := `SELECT p_error, p_errormsg, p_result
	  FROM p_abm_nota_entrega(
	       p_codnotaentrega := $1::BIGINT,
	       p_audusuario := $2::BIGINT,
	       p_accion := $3::VARCHAR)`

	_, err := r.db.ExecABM(ctx, sql, noteID, userID, abm.Delete.Flag())
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefDecimal(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
