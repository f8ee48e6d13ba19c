package deliverynote_repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"yahveh/internal/core/abm"
	"yahveh/internal/core/apperror"
	"yahveh/internal/domain/deliverynote"
	"yahveh/internal/infrastructure/storage/postgres"
)

// reportRow is one row of the denormalized report rowset: header columns
// repeated on every row, article columns NULL on the header-only row a
// note without details produces.
type reportRow struct {
	NoteID            int64           `db:"cod_nota_entrega"`
	Date              time.Time       `db:"fecha"`
	ClientID          int64           `db:"cod_cliente"`
	ClientName        *string         `db:"nombre_cliente"`
	TaxID             *string         `db:"nit"`
	BusinessName      *string         `db:"razon_social"`
	Address           *string         `db:"direccion"`
	ZoneLabel         *string         `db:"zona"`
	Phones            *string         `db:"telefonos"`
	Status            int32           `db:"estado"`
	StatusText        *string         `db:"estado_texto"`
	TotalAmount       decimal.Decimal `db:"total_general"`
	TotalNoInvoice    decimal.Decimal `db:"total_sin_factura"`
	TotalArticleCount int32           `db:"total_articulos"`

	ArticleID          *string          `db:"cod_articulo"`
	ArticleLine        *string          `db:"linea_articulo"`
	ArticleDescription *string          `db:"descripcion_articulo"`
	Quantity           *int32           `db:"cantidad"`
	UnitPrice          *decimal.Decimal `db:"precio_unitario"`
	LineTotal          *decimal.Decimal `db:"precio_total"`
	NoInvoicePrice     *decimal.Decimal `db:"precio_sin_factura"`
	NoInvoiceSubtotal  *decimal.Decimal `db:"subtotal_sin_factura"`
}

// FetchReportData returns the printable report aggregate: one call brings
// back a row per detail line (or a single header-only row) and the rows
// collapse into header plus line list here.
func (r *NoteRepository) FetchReportData(ctx context.Context, noteID int32) (*deliverynote.ReportAggregate, error) {
	sql := `SELECT cod_nota_entrega, fecha, cod_cliente, nombre_cliente, nit, razon_social,
	       direccion, zona, telefonos, estado, estado_texto,
	       total_general, total_sin_factura, total_articulos,
	       cod_articulo, linea_articulo, descripcion_articulo, cantidad,
	       precio_unitario, precio_total, precio_sin_factura, subtotal_sin_factura
	  FROM p_list_nota_entrega(p_codnotaentrega := $1, p_accion := $2)`

	var rows []reportRow
	if err := r.db.QueryList(ctx, &rows, sql, noteID, abm.Report.Flag()); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NewNotFound("delivery note", noteID)
	}

	head := rows[0]
	agg := &deliverynote.ReportAggregate{
		NoteID:            postgres.NarrowID(ctx, "cod_nota_entrega", head.NoteID),
		Date:              head.Date,
		ClientID:          postgres.NarrowID(ctx, "cod_cliente", head.ClientID),
		ClientName:        deref(head.ClientName),
		TaxID:             deref(head.TaxID),
		BusinessName:      deref(head.BusinessName),
		Address:           deref(head.Address),
		ZoneLabel:         deref(head.ZoneLabel),
		Phones:            deref(head.Phones),
		Status:            head.Status,
		StatusText:        deref(head.StatusText),
		TotalAmount:       head.TotalAmount,
		TotalNoInvoice:    head.TotalNoInvoice,
		TotalArticleCount: head.TotalArticleCount,
		Lines:             make([]deliverynote.ReportLine, 0, len(rows)),
	}

	for _, row := range rows {
		if row.ArticleID == nil {
			continue
		}
		line := deliverynote.ReportLine{
			ArticleID:          *row.ArticleID,
			ArticleLine:        deref(row.ArticleLine),
			ArticleDescription: deref(row.ArticleDescription),
			UnitPrice:          derefDecimal(row.UnitPrice),
			LineTotal:          derefDecimal(row.LineTotal),
			NoInvoicePrice:     derefDecimal(row.NoInvoicePrice),
			NoInvoiceSubtotal:  derefDecimal(row.NoInvoiceSubtotal),
		}
		if row.Quantity != nil {
			line.Quantity = *row.Quantity
		}
		agg.Lines = append(agg.Lines, line)
	}

	return agg, nil
}

// salesRow is one row of the sales report. Mostly nullable: the procedure
// appends a grand-total row that carries only aggregate columns and is
// marked TOTAL in estado_texto.
type salesRow struct {
	Date         *time.Time       `db:"fecha"`
	ClientID     *int64           `db:"cod_cliente"`
	ClientName   *string          `db:"nombre_cliente"`
	Address      *string          `db:"direccion"`
	City         *string          `db:"zona"`
	ArticleID    *string          `db:"cod_articulo"`
	Quantity     *int32           `db:"cantidad"`
	ArticleLine  *string          `db:"linea_articulo"`
	ProductFull  *string          `db:"producto_completo"`
	UnitPrice    *decimal.Decimal `db:"precio_unitario"`
	Discount     *decimal.Decimal `db:"descuento"`
	TotalBs      *decimal.Decimal `db:"total_bs"`
	DiscountBs   *decimal.Decimal `db:"desc_bs"`
	UnitBs       *decimal.Decimal `db:"bs_unitario"`
	TotalBsDisc  *decimal.Decimal `db:"total_bs_desc"`
	GrandTotalBs *decimal.Decimal `db:"total_general_bs"`
	StatusText   *string          `db:"estado_texto"`
}

// SalesReport returns the sales rows for the inclusive date range via the
// 'V' report mode of the listing procedure.
func (r *NoteRepository) SalesReport(ctx context.Context, from, to time.Time) ([]deliverynote.SalesReportRow, error) {
	sql := `SELECT fecha, cod_cliente, nombre_cliente, direccion, zona,
	       cod_articulo, cantidad, linea_articulo, producto_completo,
	       precio_unitario, descuento, total_bs, desc_bs, bs_unitario,
	       total_bs_desc, total_general_bs, estado_texto
	  FROM p_list_nota_entrega(
	       p_accion := $1::VARCHAR,
	       p_codnotaentrega := NULL::BIGINT,
	       p_codcliente := NULL::BIGINT,
	       p_fecha_desde := $2::DATE,
	       p_fecha_hasta := $3::DATE,
	       p_estado := 1::INTEGER)`

	var rows []salesRow
	if err := r.db.QueryList(ctx, &rows, sql, abm.Sales.Flag(), from, to); err != nil {
		return nil, err
	}

	report := make([]deliverynote.SalesReportRow, 0, len(rows))
	for _, row := range rows {
		out := deliverynote.SalesReportRow{
			RowType:      deliverynote.SalesRowDetail,
			Date:         row.Date,
			ClientName:   deref(row.ClientName),
			Address:      deref(row.Address),
			City:         deref(row.City),
			ArticleID:    deref(row.ArticleID),
			ArticleLine:  deref(row.ArticleLine),
			ProductFull:  deref(row.ProductFull),
			Quantity:     row.Quantity,
			UnitPrice:    row.UnitPrice,
			Discount:     row.Discount,
			TotalBs:      row.TotalBs,
			DiscountBs:   row.DiscountBs,
			UnitBs:       row.UnitBs,
			TotalBsDisc:  row.TotalBsDisc,
			GrandTotalBs: row.GrandTotalBs,
		}
		if deref(row.StatusText) == deliverynote.SalesRowTotal {
			out.RowType = deliverynote.SalesRowTotal
		}
		if row.ClientID != nil {
			id := postgres.NarrowID(ctx, "cod_cliente", *row.ClientID)
			out.ClientID = &id
		}
		report = append(report, out)
	}
	return report, nil
}
