package handlers

import (
	"github.com/gin-gonic/gin"

	"yahveh/internal/core/apperror"
	"yahveh/internal/domain/catalogs/client"
	"yahveh/internal/infrastructure/http/v1/dto"
)

// ClientHandler handles the client catalog endpoints.
type ClientHandler struct {
	*BaseHandler
	service *client.Service
}

// NewClientHandler creates a client handler.
func NewClientHandler(base *BaseHandler, service *client.Service) *ClientHandler {
	return &ClientHandler{BaseHandler: base, service: service}
}

// List returns all clients.
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, clients)
}

// GetByID returns one client.
func (h *ClientHandler) GetByID(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, found)
}

// ListByZone returns the clients of one zone.
func (h *ClientHandler) ListByZone(c *gin.Context) {
	zoneID, ok := h.ParseID(c, "zoneId")
	if !ok {
		return
	}

	clients, err := h.service.ListByZone(c.Request.Context(), zoneID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, clients)
}

// SearchByTaxID returns clients matching ?q against the tax id.
func (h *ClientHandler) SearchByTaxID(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.Error(c, apperror.NewValidation("query parameter q is required"))
		return
	}

	clients, err := h.service.SearchByTaxID(c.Request.Context(), query)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, clients)
}

// SearchByName returns clients matching ?q against the name.
func (h *ClientHandler) SearchByName(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.Error(c, apperror.NewValidation("query parameter q is required"))
		return
	}

	clients, err := h.service.SearchByName(c.Request.Context(), query)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, clients)
}

// Create makes a client.
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Update changes a client.
func (h *ClientHandler) Update(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), clientID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete removes a client.
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), clientID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
