package handlers

import (
	"github.com/gin-gonic/gin"

	"yahveh/internal/domain/deliverynote"
	"yahveh/internal/infrastructure/http/v1/dto"
)

// DeliveryNoteDetailHandler handles the line item endpoints.
type DeliveryNoteDetailHandler struct {
	*BaseHandler
	service *deliverynote.Service
}

// NewDeliveryNoteDetailHandler creates a line item handler.
func NewDeliveryNoteDetailHandler(base *BaseHandler, service *deliverynote.Service) *DeliveryNoteDetailHandler {
	return &DeliveryNoteDetailHandler{BaseHandler: base, service: service}
}

// GetByID returns one line item.
func (h *DeliveryNoteDetailHandler) GetByID(c *gin.Context) {
	detailID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetDetail(c.Request.Context(), detailID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, detail)
}

// ListByNote returns the line items of one note.
func (h *DeliveryNoteDetailHandler) ListByNote(c *gin.Context) {
	noteID, ok := h.ParseID(c, "noteId")
	if !ok {
		return
	}

	note, err := h.service.GetByID(c.Request.Context(), noteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, note.Details)
}

// Create adds a line item to an existing note.
func (h *DeliveryNoteDetailHandler) Create(c *gin.Context) {
	var req dto.CreateDetailRequest
	if !h.BindJSON(c, &req) {
		return
	}

	detail, err := h.service.AddDetail(c.Request.Context(), req.NoteID, req.ToLine())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, detail)
}

// Update changes a line item's quantity and prices.
func (h *DeliveryNoteDetailHandler) Update(c *gin.Context) {
	detailID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDetailRequest
	if !h.BindJSON(c, &req) {
		return
	}

	detail, err := h.service.UpdateDetail(c.Request.Context(), detailID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, detail)
}

// Delete removes a line item.
func (h *DeliveryNoteDetailHandler) Delete(c *gin.Context) {
	detailID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.RemoveDetail(c.Request.Context(), detailID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
