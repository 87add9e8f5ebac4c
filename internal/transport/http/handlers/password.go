package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proGsa/travel-booking/internal/infra/security"
	"github.com/proGsa/travel-booking/internal/usecase"
)

// PasswordHandler exposes the password rotation endpoint.
type PasswordHandler struct {
	passwords *usecase.PasswordService
}

// NewPasswordHandler constructs PasswordHandler.
func NewPasswordHandler(passwords *usecase.PasswordService) *PasswordHandler {
	return &PasswordHandler{passwords: passwords}
}

// RegisterRoutes binds password routes.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/change", h.change)
}

// Rotation is reachable without a bearer token: an account whose password
// has expired cannot complete the login flow to obtain one.
func (h *PasswordHandler) change(c *gin.Context) {
	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "login and new_password are required"))
		return
	}

	err := h.passwords.ChangePassword(c.Request.Context(), req.Login, req.OldPassword, req.NewPassword)
	if err != nil {
		var policyErr *security.PasswordValidationError
		if errors.As(err, &policyErr) {
			c.JSON(http.StatusUnprocessableEntity, NewErrorResponse(c, policyErr.Error()))
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid login or password"},
			{Err: usecase.ErrPasswordReuse, Status: http.StatusUnprocessableEntity, Message: "new password must differ from the current one"},
		}, http.StatusInternalServerError, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
