package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"yahveh/internal/domain/deliverynote"
	"yahveh/internal/infrastructure/http/v1/dto"
)

// DeliveryNoteHandler handles the delivery note endpoints.
type DeliveryNoteHandler struct {
	*BaseHandler
	service *deliverynote.Service
}

// NewDeliveryNoteHandler creates a delivery note handler.
func NewDeliveryNoteHandler(base *BaseHandler, service *deliverynote.Service) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{BaseHandler: base, service: service}
}

// List returns all valid notes with details.
func (h *DeliveryNoteHandler) List(c *gin.Context) {
	notes, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, notes)
}

// ListAll returns valid and voided notes with details.
func (h *DeliveryNoteHandler) ListAll(c *gin.Context) {
	notes, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, notes)
}

// ListVoided returns voided notes with details.
func (h *DeliveryNoteHandler) ListVoided(c *gin.Context) {
	notes, err := h.service.ListVoided(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, notes)
}

// GetByID returns one note with details.
func (h *DeliveryNoteHandler) GetByID(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	note, err := h.service.GetByID(c.Request.Context(), noteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, note)
}

// ListByClient returns a client's valid notes.
func (h *DeliveryNoteHandler) ListByClient(c *gin.Context) {
	clientID, ok := h.ParseID(c, "clientId")
	if !ok {
		return
	}

	notes, err := h.service.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, notes)
}

// ListByDateRange returns valid notes between ?from and ?to (inclusive,
// each side optional).
func (h *DeliveryNoteHandler) ListByDateRange(c *gin.Context) {
	from, ok := h.parseOptionalDate(c, "from")
	if !ok {
		return
	}
	to, ok := h.parseOptionalDate(c, "to")
	if !ok {
		return
	}

	notes, err := h.service.ListByDateRange(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, notes)
}

// Create makes a note with its lines in one transaction.
func (h *DeliveryNoteHandler) Create(c *gin.Context) {
	var req dto.CreateDeliveryNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	note, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, note)
}

// Update changes the mutable header fields.
func (h *DeliveryNoteHandler) Update(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDeliveryNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	note, err := h.service.Update(c.Request.Context(), noteID, in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, note)
}

// Void anulls the note and returns it in its voided state.
func (h *DeliveryNoteHandler) Void(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	note, err := h.service.Void(c.Request.Context(), noteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, note)
}

// Delete hard-deletes the note.
func (h *DeliveryNoteHandler) Delete(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), noteID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Report returns the printable report aggregate for one note.
func (h *DeliveryNoteHandler) Report(c *gin.Context) {
	noteID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	report, err := h.service.Report(c.Request.Context(), noteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// SalesReport returns the sales rows between ?from and ?to (both required).
func (h *DeliveryNoteHandler) SalesReport(c *gin.Context) {
	var from, to time.Time
	if v := c.Query("from"); v != "" {
		parsed, err := dto.ParseDate("from", v)
		if err != nil {
			h.Error(c, err)
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := dto.ParseDate("to", v)
		if err != nil {
			h.Error(c, err)
			return
		}
		to = parsed
	}

	rows, err := h.service.SalesReport(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

func (h *DeliveryNoteHandler) parseOptionalDate(c *gin.Context, name string) (*time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	parsed, err := dto.ParseDate(name, value)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return &parsed, true
}
