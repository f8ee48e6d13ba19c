// Package article provides the article catalog (artículo), read-only for
// this service: stock and prices are maintained by other flows through
// the procedure layer.
package article

import "github.com/shopspring/decimal"

// Article is a catalog entry with its line denormalized and the current
// stock and price the procedure layer computes.
type Article struct {
	ArticleID    string          `json:"articleId"`
	LineID       int32           `json:"lineId"`
	Line         string          `json:"line"`
	Description  string          `json:"description"`
	Description2 string          `json:"description2,omitempty"`
	StockCurrent int32           `json:"stockCurrent"`
	PriceCurrent decimal.Decimal `json:"priceCurrent"`
	CreatedBy    int32           `json:"createdBy"`
}
