package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proGsa/travel-booking/internal/repository"
	"github.com/proGsa/travel-booking/internal/usecase"
)

// TravelHandler exposes travel and route endpoints.
type TravelHandler struct {
	travels *usecase.TravelService
	auth    *usecase.AuthService
}

// NewTravelHandler constructs TravelHandler.
func NewTravelHandler(travels *usecase.TravelService, auth *usecase.AuthService) *TravelHandler {
	return &TravelHandler{travels: travels, auth: auth}
}

// RegisterRoutes binds travel and route endpoints behind authentication.
func (h *TravelHandler) RegisterRoutes(r *gin.RouterGroup) {
	travels := r.Group("/travels")
	travels.GET("", h.listTravels)
	travels.GET("/search", h.searchTravels)
	travels.GET("/:id", h.getTravel)
	travels.POST("", h.createTravel)
	travels.PUT("/:id", h.updateTravel)
	travels.DELETE("/:id", h.deleteTravel)

	routes := r.Group("/routes")
	routes.GET("", h.listRoutes)
	routes.GET("/:id", h.getRoute)
	routes.POST("", h.createRoute)
	routes.PUT("/:id", h.updateRoute)
	routes.DELETE("/:id", h.deleteRoute)
}

func (h *TravelHandler) authorizeOwner(c *gin.Context, ownerID int64) bool {
	claims := getAccessTokenClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return false
	}

	if err := h.auth.Authorize(c.Request.Context(), claims, ownerID); err != nil {
		if errors.Is(err, usecase.ErrInvalidAccessToken) {
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid access token"))
			return false
		}
		c.JSON(http.StatusForbidden, NewErrorResponse(c, "insufficient permissions"))
		return false
	}

	return true
}

func (h *TravelHandler) createTravel(c *gin.Context) {
	var req TravelPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid travel payload"))
		return
	}

	if !h.authorizeOwner(c, req.UserID) {
		return
	}

	id, err := h.travels.AddTravel(c.Request.Context(), req.toDomain())
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid travel status"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create travel"))
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id})
}

func (h *TravelHandler) getTravel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	travel, err := h.travels.GetTravel(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "travel not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load travel"))
		return
	}

	if !h.authorizeOwner(c, travel.UserID) {
		return
	}

	c.JSON(http.StatusOK, newTravelPayload(*travel))
}

func (h *TravelHandler) listTravels(c *gin.Context) {
	claims := getAccessTokenClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	travels, err := h.travels.ListTravels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list travels"))
		return
	}

	payloads := make([]TravelPayload, 0, len(travels))
	for _, travel := range travels {
		if !claims.IsAdmin && travel.UserID != claims.UserID {
			continue
		}
		payloads = append(payloads, newTravelPayload(travel))
	}

	c.JSON(http.StatusOK, payloads)
}

func (h *TravelHandler) searchTravels(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "city query parameter is required"))
		return
	}

	travels, err := h.travels.SearchTravelsByCity(c.Request.Context(), city)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to search travels"))
		return
	}

	payloads := make([]TravelPayload, 0, len(travels))
	for _, travel := range travels {
		payloads = append(payloads, newTravelPayload(travel))
	}

	c.JSON(http.StatusOK, payloads)
}

func (h *TravelHandler) updateTravel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req TravelPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid travel payload"))
		return
	}

	if !h.authorizeOwner(c, req.UserID) {
		return
	}

	travel := req.toDomain()
	travel.ID = id

	if err := h.travels.UpdateTravel(c.Request.Context(), travel); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid travel status"))
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "travel not found"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to update travel"))
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "travel updated"})
}

func (h *TravelHandler) deleteTravel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	travel, err := h.travels.GetTravel(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "travel not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load travel"))
		return
	}

	if !h.authorizeOwner(c, travel.UserID) {
		return
	}

	if err := h.travels.DeleteTravel(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to delete travel"))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TravelHandler) createRoute(c *gin.Context) {
	var req RoutePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid route payload"))
		return
	}

	id, err := h.travels.AddRoute(c.Request.Context(), req.toDomain())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "travel or directory route not found"))
			return
		}
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id})
}

func (h *TravelHandler) getRoute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	route, err := h.travels.GetRoute(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "route not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load route"))
		return
	}

	c.JSON(http.StatusOK, newRoutePayload(*route))
}

func (h *TravelHandler) listRoutes(c *gin.Context) {
	routes, err := h.travels.ListRoutes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list routes"))
		return
	}

	payloads := make([]RoutePayload, 0, len(routes))
	for _, route := range routes {
		payloads = append(payloads, newRoutePayload(route))
	}

	c.JSON(http.StatusOK, payloads)
}

func (h *TravelHandler) updateRoute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RoutePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid route payload"))
		return
	}

	route := req.toDomain()
	route.ID = id

	if err := h.travels.UpdateRoute(c.Request.Context(), route); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "route not found"))
			return
		}
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "route updated"})
}

func (h *TravelHandler) deleteRoute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.travels.DeleteRoute(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "route not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to delete route"))
		return
	}

	c.Status(http.StatusNoContent)
}
