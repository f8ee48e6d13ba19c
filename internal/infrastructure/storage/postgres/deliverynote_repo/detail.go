package deliverynote_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"yahveh/internal/core/abm"
	"yahveh/internal/core/apperror"
	"yahveh/internal/domain/deliverynote"
	"yahveh/internal/infrastructure/storage/postgres"
)

// DetailRepository persists line items via p_abm_detalle_nota_entrega and
// reads them via p_list_detalle_nota_entrega.
type DetailRepository struct {
	db *postgres.Gateway
}

var _ deliverynote.DetailRepository = (*DetailRepository)(nil)

// NewDetailRepository creates the line item repository.
func NewDetailRepository(db *postgres.Gateway) *DetailRepository {
	return &DetailRepository{db: db}
}

const detailColumns = `cod_detalle, cod_nota_entrega, cod_articulo, descripcion_articulo,
	       descripcion2_articulo, linea_articulo, cod_linea, cantidad,
	       precio_unitario, precio_total, precio_sin_factura, aud_usuario`

const listByNoteSQL = `SELECT ` + detailColumns + `
	  FROM p_list_detalle_nota_entrega(p_codnotaentrega := $1)`

type detailRow struct {
	DetailID            int64            `db:"cod_detalle"`
	NoteID              int64            `db:"cod_nota_entrega"`
	ArticleID           string           `db:"cod_articulo"`
	ArticleDescription  *string          `db:"descripcion_articulo"`
	ArticleDescription2 *string          `db:"descripcion2_articulo"`
	ArticleLine         *string          `db:"linea_articulo"`
	ArticleLineID       int64            `db:"cod_linea"`
	Quantity            int32            `db:"cantidad"`
	UnitPrice           decimal.Decimal  `db:"precio_unitario"`
	LineTotal           decimal.Decimal  `db:"precio_total"`
	NoInvoicePrice      *decimal.Decimal `db:"precio_sin_factura"`
	CreatedBy           int64            `db:"aud_usuario"`
}

func (r detailRow) toDomain(ctx context.Context) deliverynote.Detail {
	return deliverynote.Detail{
		DetailID:            postgres.NarrowID(ctx, "cod_detalle", r.DetailID),
		NoteID:              postgres.NarrowID(ctx, "cod_nota_entrega", r.NoteID),
		ArticleID:           r.ArticleID,
		ArticleDescription:  deref(r.ArticleDescription),
		ArticleDescription2: deref(r.ArticleDescription2),
		ArticleLine:         deref(r.ArticleLine),
		ArticleLineID:       postgres.NarrowID(ctx, "cod_linea", r.ArticleLineID),
		Quantity:            r.Quantity,
		UnitPrice:           r.UnitPrice,
		LineTotal:           r.LineTotal,
		NoInvoicePrice:      derefDecimal(r.NoInvoicePrice),
		CreatedBy:           postgres.NarrowID(ctx, "aud_usuario", r.CreatedBy),
	}
}

// ListByNote returns all line items of one note.
func (r *DetailRepository) ListByNote(ctx context.Context, noteID int32) ([]deliverynote.Detail, error) {
	var rows []detailRow
	if err := r.db.QueryList(ctx, &rows, listByNoteSQL, noteID); err != nil {
		return nil, err
	}
	details := make([]deliverynote.Detail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.toDomain(ctx))
	}
	return details, nil
}

// ListByNotesBatch hydrates details for many notes in one database round
// trip. Every requested id is present in the result, mapped to an empty
// slice when the note has no details, so callers never hit a missing key.
// Duplicate ids are queried once.
func (r *DetailRepository) ListByNotesBatch(ctx context.Context, noteIDs []int32) (map[int32][]deliverynote.Detail, error) {
	ids := make([]int32, 0, len(noteIDs))
	seen := make(map[int32]struct{}, len(noteIDs))
	for _, id := range noteIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	result := make(map[int32][]deliverynote.Detail, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	if len(ids) == 1 {
		details, err := r.ListByNote(ctx, ids[0])
		if err != nil {
			return nil, err
		}
		result[ids[0]] = details
		return result, nil
	}

	for _, id := range ids {
		result[id] = make([]deliverynote.Detail, 0)
	}

	queries := make([]postgres.BatchQuery, len(ids))
	for i, id := range ids {
		queries[i] = postgres.BatchQuery{SQL: listByNoteSQL, Args: []any{id}}
	}

	err := r.db.QueryBatch(ctx, queries, func(i int, rows pgx.Rows) error {
		var scanned []detailRow
		if err := pgxscan.ScanAll(&scanned, rows); err != nil {
			return err
		}
		noteID := ids[i]
		for _, row := range scanned {
			result[noteID] = append(result[noteID], row.toDomain(ctx))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindByID looks one line item up.
func (r *DetailRepository) FindByID(ctx context.Context, detailID int32) (*deliverynote.Detail, bool, error) {
	sql := `SELECT ` + detailColumns + `
	  FROM p_list_detalle_nota_entrega(p_coddetalle := $1)`

	var row detailRow
	found, err := r.db.QueryOne(ctx, &row, sql, detailID)
	if err != nil || !found {
		return nil, false, err
	}
	detail := row.toDomain(ctx)
	return &detail, true, nil
}

// Create inserts a line item under an existing note and returns its id.
// The procedure denormalizes the article description, computes the line
// totals and updates the parent aggregates.
func (r *DetailRepository) Create(ctx context.Context, noteID int32, line deliverynote.LineInput, userID int64) (int32, error) {
	sql := `SELECT p_error, p_errormsg, p_result
	  FROM p_abm_detalle_nota_entrega(
	       p_codnotaentrega := $1,
	       p_codarticulo := $2,
	       p_cantidad := $3,
	       p_preciounitario := $4,
	       p_preciosinfactura := $5,
	       p_audusuario := $6,
	       p_accion := $7)`

	result, err := r.db.ExecABM(ctx, sql,
		noteID, line.ArticleID, line.Quantity, line.UnitPrice, line.NoInvoicePrice, userID, abm.Insert.Flag())
	if err != nil {
		return 0, err
	}
	if result == nil {
		return 0, apperror.NewDatabase(fmt.Errorf("p_abm_detalle_nota_entrega returned no identity on insert"))
	}
	return postgres.NarrowID(ctx, "cod_detalle", *result), nil
}

// Update changes quantity and prices; totals are recomputed server-side.
func (r *DetailRepository) Update(ctx context.Context, detailID int32, in deliverynote.DetailInput, userID int64) error {
	sql := `SELECT p_error, p_errormsg, p_result
	  FROM p_abm_detalle_nota_entrega(
	       p_coddetalle := $1,
	       p_cantidad := $2,
	       p_preciounitario := $3,
	       p_preciosinfactura := $4,
	       p_audusuario := $5,
	       p_accion := $6)`

	_, err := r.db.ExecABM(ctx, sql,
		detailID, in.Quantity, in.UnitPrice, in.NoInvoicePrice, userID, abm.Update.Flag())
	return err
}

// Delete removes a line item; the parent note's aggregates are recomputed
// by the procedure.
func (r *DetailRepository) Delete(ctx context.Context, detailID int32, userID int64) error {
	sql := `SELECT p_error, p_errormsg, p_result
	  FROM p_abm_detalle_nota_entrega(
	       p_coddetalle := $1,
	       p_audusuario := $2,
	       p_accion := $3)`

	_, err := r.db.ExecABM(ctx, sql, detailID, userID, abm.Delete.Flag())
	return err
}
