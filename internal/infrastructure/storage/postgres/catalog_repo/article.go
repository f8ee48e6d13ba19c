package catalog_repo

import (
	"context"

	"github.com/shopspring/decimal"

	"yahveh/internal/core/abm"
	"yahveh/internal/domain/catalogs/article"
	"yahveh/internal/infrastructure/storage/postgres"
)

// ArticleRepository reads the article catalog via p_list_articulo. This
// service never writes articles; stock moves only through delivery notes.
type ArticleRepository struct {
	db *postgres.Gateway
}

var _ article.Repository = (*ArticleRepository)(nil)

// NewArticleRepository creates the article catalog repository.
func NewArticleRepository(db *postgres.Gateway) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleColumns = `cod_articulo, cod_linea, linea, descripcion, descripcion2,
	       stock_actual, precio_actual, aud_usuario`

type articleRow struct {
	ArticleID    string          `db:"cod_articulo"`
	LineID       int64           `db:"cod_linea"`
	Line         *string         `db:"linea"`
	Description  *string         `db:"descripcion"`
	Description2 *string         `db:"descripcion2"`
	StockCurrent int32           `db:"stock_actual"`
	PriceCurrent decimal.Decimal `db:"precio_actual"`
	CreatedBy    int64           `db:"aud_usuario"`
}

func (r articleRow) toDomain(ctx context.Context) article.Article {
	return article.Article{
		ArticleID:    r.ArticleID,
		LineID:       postgres.NarrowID(ctx, "cod_linea", r.LineID),
		Line:         deref(r.Line),
		Description:  deref(r.Description),
		Description2: deref(r.Description2),
		StockCurrent: r.StockCurrent,
		PriceCurrent: r.PriceCurrent,
		CreatedBy:    postgres.NarrowID(ctx, "aud_usuario", r.CreatedBy),
	}
}

func (r *ArticleRepository) list(ctx context.Context, sql string, args ...any) ([]article.Article, error) {
	var rows []articleRow
	if err := r.db.QueryList(ctx, &rows, sql, args...); err != nil {
		return nil, err
	}
	articles := make([]article.Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, row.toDomain(ctx))
	}
	return articles, nil
}

// List returns all articles.
func (r *ArticleRepository) List(ctx context.Context) ([]article.Article, error) {
	sql := `SELECT ` + articleColumns + ` FROM p_list_articulo(p_accion := $1)`
	return r.list(ctx, sql, abm.List.Flag())
}

// FindByID looks one article up.
func (r *ArticleRepository) FindByID(ctx context.Context, articleID string) (*article.Article, bool, error) {
	sql := `SELECT ` + articleColumns + ` FROM p_list_articulo(p_codarticulo := $1, p_accion := $2)`

	var row articleRow
	found, err := r.db.QueryOne(ctx, &row, sql, articleID, abm.List.Flag())
	if err != nil || !found {
		return nil, false, err
	}
	a := row.toDomain(ctx)
	return &a, true, nil
}

// ListByLine returns the articles of one line.
func (r *ArticleRepository) ListByLine(ctx context.Context, lineID int32) ([]article.Article, error) {
	sql := `SELECT ` + articleColumns + ` FROM p_list_articulo(p_codlinea := $1, p_accion := $2)`
	return r.list(ctx, sql, lineID, abm.List.Flag())
}

// SearchByName returns articles whose description matches the pattern.
func (r *ArticleRepository) SearchByName(ctx context.Context, name string) ([]article.Article, error) {
	sql := `SELECT ` + articleColumns + ` FROM p_list_articulo(p_articulo := $1, p_accion := $2)`
	return r.list(ctx, sql, name, abm.List.Flag())
}
