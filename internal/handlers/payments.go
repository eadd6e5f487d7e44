package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexticket/internal/models"
)

// Payments handlers

// CreatePaymentIntent - POST /api/create-payment-intent (owning user)
// Intent phase: the amount is taken from the booking's snapshot price,
// never from the client.
func (h *Handlers) CreatePaymentIntent(c *gin.Context) {
	var req models.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	intent, err := h.services.Bookings.CreatePaymentIntent(c.Request.Context(), actor(c), req.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, intent)
}

// UserTransactions - GET /api/transactions/user/:email
func (h *Handlers) UserTransactions(c *gin.Context) {
	transactions, err := h.services.Bookings.TransactionsByUser(c.Request.Context(), actor(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, transactions)
}
