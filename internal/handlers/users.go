package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexticket/internal/models"
)

// Users handlers

// SaveUser - POST /api/users
// Upsert the profile after an external sign-in event.
func (h *Handlers) SaveUser(c *gin.Context) {
	var req models.SaveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.services.Users.Save(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, user)
}

// ListUsers - GET /api/users (admin)
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, users)
}

// GetUser - GET /api/users/:email
func (h *Handlers) GetUser(c *gin.Context) {
	user, err := h.services.Users.Get(c.Request.Context(), actor(c), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, user)
}

// UpdateUserRole - PATCH /api/users/:email/role (admin)
func (h *Handlers) UpdateUserRole(c *gin.Context) {
	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	email := c.Param("email")
	if err := h.services.Users.UpdateRole(c.Request.Context(), actor(c), email, req.Role); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"email": email, "role": req.Role})
}

// MarkUserFraud - PATCH /api/users/:email/fraud (admin)
// One-way vendor suppression.
func (h *Handlers) MarkUserFraud(c *gin.Context) {
	email := c.Param("email")
	if err := h.services.Users.MarkFraud(c.Request.Context(), actor(c), email); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"email": email, "isFraud": true})
}
