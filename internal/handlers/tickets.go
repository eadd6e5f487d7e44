package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nexticket/internal/models"
)

// Tickets handlers

// CreateTicket - POST /api/tickets (vendor)
func (h *Handlers) CreateTicket(c *gin.Context) {
	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ticket, err := h.services.Tickets.Create(c.Request.Context(), actor(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, ticket)
}

// SearchTickets - GET /api/tickets
// Public browse: text search, transport filter, price sort, pagination.
func (h *Handlers) SearchTickets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	query := models.TicketSearchQuery{
		Query:         c.Query("query"),
		TransportType: c.Query("transportType"),
		SortPrice:     c.Query("sortPrice"),
		Page:          page,
		PageSize:      pageSize,
	}

	result, err := h.services.Tickets.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, result)
}

// AdvertisedTickets - GET /api/tickets/advertised
func (h *Handlers) AdvertisedTickets(c *gin.Context) {
	tickets, err := h.services.Tickets.Advertised(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, tickets)
}

// PendingTickets - GET /api/tickets/pending (admin)
func (h *Handlers) PendingTickets(c *gin.Context) {
	tickets, err := h.services.Tickets.Pending(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, tickets)
}

// LatestTickets - GET /api/tickets/latest
func (h *Handlers) LatestTickets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	tickets, err := h.services.Tickets.Latest(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, tickets)
}

// VendorTickets - GET /api/tickets/vendor/:email
func (h *Handlers) VendorTickets(c *gin.Context) {
	tickets, err := h.services.Tickets.ByVendor(c.Request.Context(), actor(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, tickets)
}

// GetTicket - GET /api/tickets/:id
func (h *Handlers) GetTicket(c *gin.Context) {
	ticket, err := h.services.Tickets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, ticket)
}

// UpdateTicket - PATCH /api/tickets/:id (owning vendor)
func (h *Handlers) UpdateTicket(c *gin.Context) {
	var req models.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ticket, err := h.services.Tickets.Update(c.Request.Context(), actor(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, ticket)
}

// VerifyTicket - PATCH /api/tickets/:id/verify (admin)
func (h *Handlers) VerifyTicket(c *gin.Context) {
	var req models.VerifyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ticket, err := h.services.Tickets.Verify(c.Request.Context(), actor(c), c.Param("id"), req.VerificationStatus)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, ticket)
}

// AdvertiseTicket - PATCH /api/tickets/:id/advertise (admin)
func (h *Handlers) AdvertiseTicket(c *gin.Context) {
	var req models.AdvertiseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ticket, err := h.services.Tickets.ToggleAdvertise(c.Request.Context(), actor(c), c.Param("id"), *req.IsAdvertised)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, ticket)
}

// DeleteTicket - DELETE /api/tickets/:id (owning vendor)
func (h *Handlers) DeleteTicket(c *gin.Context) {
	if err := h.services.Tickets.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"id": c.Param("id")})
}
