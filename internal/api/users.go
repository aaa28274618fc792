package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Guizzs26/go-order-guard/internal/db"
	"github.com/Guizzs26/go-order-guard/internal/service"
	"github.com/gin-gonic/gin"
)

// UsersHandler exposes the user API. GET /users/:id doubles as the
// existence-check endpoint the orders service validates against
type UsersHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUsersHandler(users *service.UserService, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

func (h *UsersHandler) Register(r *gin.Engine) {
	r.POST("/users", h.create)
	r.PUT("/users/:id", h.update)
	r.GET("/users/:id", h.get)
}

type userRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func (h *UsersHandler) create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		h.logger.Error("User creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UsersHandler) update(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), c.Param("id"), req.Name, req.Email)
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
	case err != nil:
		h.logger.Error("User update failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	default:
		c.JSON(http.StatusOK, user)
	}
}

func (h *UsersHandler) get(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
	case err != nil:
		h.logger.Error("User lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	default:
		c.JSON(http.StatusOK, user)
	}
}
