package handlers

import (
	"github.com/gin-gonic/gin"

	"yahveh/internal/core/apperror"
	"yahveh/internal/domain/catalogs/article"
)

// ArticleHandler handles the read-only article catalog endpoints.
type ArticleHandler struct {
	*BaseHandler
	service *article.Service
}

// NewArticleHandler creates an article handler.
func NewArticleHandler(base *BaseHandler, service *article.Service) *ArticleHandler {
	return &ArticleHandler{BaseHandler: base, service: service}
}

// List returns all articles.
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, articles)
}

// GetByID returns one article. Article codes are alphanumeric.
func (h *ArticleHandler) GetByID(c *gin.Context) {
	articleID := c.Param("id")
	if articleID == "" {
		h.Error(c, apperror.NewValidation("article id is required"))
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), articleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, found)
}

// ListByLine returns the articles of one product line.
func (h *ArticleHandler) ListByLine(c *gin.Context) {
	lineID, ok := h.ParseID(c, "lineId")
	if !ok {
		return
	}

	articles, err := h.service.ListByLine(c.Request.Context(), lineID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, articles)
}

// SearchByName returns articles matching ?q against the description.
func (h *ArticleHandler) SearchByName(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.Error(c, apperror.NewValidation("query parameter q is required"))
		return
	}

	articles, err := h.service.SearchByName(c.Request.Context(), query)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, articles)
}
