package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stats handlers

// VendorStats - GET /api/stats/vendor/:email
func (h *Handlers) VendorStats(c *gin.Context) {
	stats, err := h.services.Stats.Vendor(c.Request.Context(), actor(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, stats)
}

// AdminStats - GET /api/stats/admin (admin)
func (h *Handlers) AdminStats(c *gin.Context) {
	stats, err := h.services.Stats.Admin(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, stats)
}
