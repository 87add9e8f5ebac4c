package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proGsa/travel-booking/internal/infra/security"
	"github.com/proGsa/travel-booking/internal/transport/http/middleware"
	"github.com/proGsa/travel-booking/internal/usecase"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth           *usecase.AuthService
	registration   *usecase.RegistrationService
	accessTokenTTL int
}

// AuthHandlerOption configures optional AuthHandler dependencies.
type AuthHandlerOption func(*AuthHandler)

// WithRegistrationService injects the registration service dependency.
func WithRegistrationService(registration *usecase.RegistrationService) AuthHandlerOption {
	return func(h *AuthHandler) {
		h.registration = registration
	}
}

// WithAccessTokenTTL sets the expires_in value reported in token responses, in seconds.
func WithAccessTokenTTL(seconds int) AuthHandlerOption {
	return func(h *AuthHandler) {
		h.accessTokenTTL = seconds
	}
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, opts ...AuthHandlerOption) *AuthHandler {
	handler := &AuthHandler{auth: auth}

	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}

	return handler
}

// RouteMiddlewares carries optional middleware chains applied ahead of
// abuse-prone authentication endpoints.
type RouteMiddlewares struct {
	Login   []gin.HandlerFunc
	Recover []gin.HandlerFunc
}

// RegisterRoutes binds authentication routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, mw RouteMiddlewares) {
	r.POST("/register", h.register)
	r.POST("/login", withChain(mw.Login, h.login)...)
	r.POST("/verify", h.verify)
	r.POST("/recover", withChain(mw.Recover, h.recover)...)
}

func withChain(middlewares []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := append([]gin.HandlerFunc{}, middlewares...)
	return append(chain, handler)
}

func (h *AuthHandler) register(c *gin.Context) {
	if h.registration == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "registration service unavailable"))
		return
	}

	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, token, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		FullName:       strings.TrimSpace(req.FullName),
		PassportNumber: strings.TrimSpace(req.PassportNumber),
		Phone:          strings.TrimSpace(req.Phone),
		Email:          strings.TrimSpace(req.Email),
		Login:          strings.TrimSpace(req.Login),
		Password:       req.Password,
	})
	if err != nil {
		var policyErr *security.PasswordValidationError
		if errors.As(err, &policyErr) {
			c.JSON(http.StatusUnprocessableEntity, NewErrorResponse(c, policyErr.Error()))
			return
		}
		switch {
		case errors.Is(err, usecase.ErrDuplicateAccount):
			c.JSON(http.StatusConflict, NewErrorResponse(c, "login or contact already registered"))
		case errors.Is(err, usecase.ErrMissingField):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "missing required registration fields"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to register user"))
		}
		return
	}

	c.JSON(http.StatusCreated, RegistrationResponse{
		User:        newUserSummary(user),
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "login and password are required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Login, req.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, usecase.ErrPasswordExpired) {
			c.JSON(http.StatusForbidden, PasswordExpiredResponse{
				Error:           "password expired, rotation required",
				PasswordExpired: true,
				TraceID:         middleware.GetTraceID(c),
			})
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid login or password"},
			{Err: usecase.ErrAccountLocked, Status: http.StatusForbidden, Message: "account is temporarily locked"},
		}, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	c.JSON(http.StatusOK, LoginChallengeResponse{
		Message:   "verification code sent",
		Delivery:  result.Delivery,
		Contact:   result.Contact,
		ExpiresAt: result.ExpiresAt,
	})
}

func (h *AuthHandler) verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "login and code are required"))
		return
	}

	token, user, err := h.auth.VerifyTwoFactor(c.Request.Context(), req.Login, req.Code)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCode, Status: http.StatusUnauthorized, Message: "invalid verification code"},
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid login or password"},
			{Err: usecase.ErrChallengeExpired, Status: http.StatusGone, Message: "verification code expired"},
		}, http.StatusInternalServerError, "failed to verify code")
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.accessTokenTTL,
		User:        newUserSummary(user),
	})
}

func (h *AuthHandler) recover(c *gin.Context) {
	var req RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "login is required"))
		return
	}

	if err := h.auth.Recover(c.Request.Context(), req.Login, c.ClientIP()); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to recover account"))
		return
	}

	// Same response whether the login exists or not.
	c.JSON(http.StatusOK, MessageResponse{Message: "if the account exists, it has been unlocked"})
}

func getAccessTokenClaims(c *gin.Context) *usecase.AccessTokenClaims {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return nil
	}
	return claims
}
