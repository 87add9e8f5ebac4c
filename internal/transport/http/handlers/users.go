package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/repository"
	"github.com/proGsa/travel-booking/internal/transport/http/middleware"
	"github.com/proGsa/travel-booking/internal/usecase"
)

// UserHandler exposes user profile endpoints.
type UserHandler struct {
	users *usecase.UserService
	auth  *usecase.AuthService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService, auth *usecase.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// RegisterRoutes binds user routes behind authentication.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", middleware.RequireAdmin(), h.list)
	r.GET("/:id", h.get)
	r.PUT("/:id", h.update)
	r.DELETE("/:id", h.delete)
}

func (h *UserHandler) authorize(c *gin.Context, targetID int64) bool {
	claims := getAccessTokenClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return false
	}

	if err := h.auth.Authorize(c.Request.Context(), claims, targetID); err != nil {
		if errors.Is(err, usecase.ErrInvalidAccessToken) {
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid access token"))
			return false
		}
		c.JSON(http.StatusForbidden, NewErrorResponse(c, "insufficient permissions"))
		return false
	}

	return true
}

func (h *UserHandler) get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if !h.authorize(c, id) {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "user not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load user"))
		return
	}

	c.JSON(http.StatusOK, newUserSummary(user))
}

func (h *UserHandler) list(c *gin.Context) {
	users, err := h.users.GetList(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		return
	}

	summaries := make([]UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, newUserSummary(&users[i]))
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *UserHandler) update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if !h.authorize(c, id) {
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	err := h.users.Update(c.Request.Context(), domain.User{
		ID:             id,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		PassportNumber: req.PassportNumber,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "user not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to update user"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user updated"})
}

func (h *UserHandler) delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if !h.authorize(c, id) {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "user not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to delete user"))
		return
	}

	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid id"))
		return 0, false
	}
	return id, true
}
