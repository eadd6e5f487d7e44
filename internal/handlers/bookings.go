package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexticket/internal/models"
)

// Bookings handlers

// CreateBooking - POST /api/bookings (user)
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.services.Bookings.Create(c.Request.Context(), actor(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, booking)
}

// UserBookings - GET /api/bookings/user/:email
func (h *Handlers) UserBookings(c *gin.Context) {
	bookings, err := h.services.Bookings.ByUser(c.Request.Context(), actor(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, bookings)
}

// VendorBookings - GET /api/bookings/vendor/:email
func (h *Handlers) VendorBookings(c *gin.Context) {
	bookings, err := h.services.Bookings.ByVendor(c.Request.Context(), actor(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, bookings)
}

// AcceptBooking - PATCH /api/bookings/:id/accept (owning vendor)
func (h *Handlers) AcceptBooking(c *gin.Context) {
	booking, err := h.services.Bookings.Accept(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, booking)
}

// RejectBooking - PATCH /api/bookings/:id/reject (owning vendor)
func (h *Handlers) RejectBooking(c *gin.Context) {
	booking, err := h.services.Bookings.Reject(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, booking)
}

// PayBooking - PATCH /api/bookings/:id/pay (owning user)
// Confirmation phase: verify the processor's verdict, mark paid, append
// the transaction record.
func (h *Handlers) PayBooking(c *gin.Context) {
	var req models.PayBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	booking, err := h.services.Bookings.Pay(c.Request.Context(), actor(c), c.Param("id"), req.TransactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, booking)
}
