package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/repository"
	"github.com/proGsa/travel-booking/internal/transport/http/middleware"
	"github.com/proGsa/travel-booking/internal/usecase"
)

// CatalogHandler exposes CRUD endpoints for reference data: cities,
// accommodations, entertainments, and transport connections.
type CatalogHandler struct {
	catalog *usecase.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *usecase.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes binds catalog routes. Reads are open to any authenticated
// user; writes require the admin flag.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := middleware.RequireAdmin()

	cities := r.Group("/cities")
	cities.GET("", h.listCities)
	cities.GET("/:id", h.getCity)
	cities.POST("", admin, h.createCity)
	cities.PUT("/:id", admin, h.updateCity)
	cities.DELETE("/:id", admin, h.deleteCity)

	accommodations := r.Group("/accommodations")
	accommodations.GET("", h.listAccommodations)
	accommodations.GET("/:id", h.getAccommodation)
	accommodations.POST("", admin, h.createAccommodation)
	accommodations.PUT("/:id", admin, h.updateAccommodation)
	accommodations.DELETE("/:id", admin, h.deleteAccommodation)

	entertainments := r.Group("/entertainments")
	entertainments.GET("", h.listEntertainments)
	entertainments.GET("/:id", h.getEntertainment)
	entertainments.POST("", admin, h.createEntertainment)
	entertainments.PUT("/:id", admin, h.updateEntertainment)
	entertainments.DELETE("/:id", admin, h.deleteEntertainment)

	directoryRoutes := r.Group("/directory-routes")
	directoryRoutes.GET("", h.listDirectoryRoutes)
	directoryRoutes.GET("/:id", h.getDirectoryRoute)
	directoryRoutes.POST("", admin, h.createDirectoryRoute)
	directoryRoutes.PUT("/:id", admin, h.updateDirectoryRoute)
	directoryRoutes.DELETE("/:id", admin, h.deleteDirectoryRoute)
}

func respondCatalogError(c *gin.Context, err error, notFoundMsg, fallbackMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, NewErrorResponse(c, notFoundMsg))
		return
	}
	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, fallbackMsg))
}

func (h *CatalogHandler) createCity(c *gin.Context) {
	var req CityPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "city name is required"))
		return
	}

	id, err := h.catalog.AddCity(c.Request.Context(), domain.City{Name: req.Name})
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create city"))
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id})
}

func (h *CatalogHandler) getCity(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	city, err := h.catalog.GetCity(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, "city not found", "failed to load city")
		return
	}

	c.JSON(http.StatusOK, newCityPayload(*city))
}

func (h *CatalogHandler) listCities(c *gin.Context) {
	cities, err := h.catalog.ListCities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list cities"))
		return
	}

	payloads := make([]CityPayload, 0, len(cities))
	for _, city := range cities {
		payloads = append(payloads, newCityPayload(city))
	}

	c.JSON(http.StatusOK, payloads)
}

func (h *CatalogHandler) updateCity(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CityPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "city name is required"))
		return
	}

	if err := h.catalog.UpdateCity(c.Request.Context(), domain.City{ID: id, Name: req.Name}); err != nil {
		respondCatalogError(c, err, "city not found", "failed to update city")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "city updated"})
}

func (h *CatalogHandler) deleteCity(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteCity(c.Request.Context(), id); err != nil {
		respondCatalogError(c, err, "city not found", "failed to delete city")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) createAccommodation(c *gin.Context) {
	var req AccommodationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid accommodation payload"))
		return
	}

	id, err := h.catalog.AddAccommodation(c.Request.Context(), req.toDomain())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create accommodation"))
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id})
}

func (h *CatalogHandler) getAccommodation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	acc, err := h.catalog.GetAccommodation(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, "accommodation not found", "failed to load accommodation")
		return
	}

	c.JSON(http.StatusOK, newAccommodationPayload(*acc))
}

func (h *CatalogHandler) listAccommodations(c *gin.Context) {
	accs, err := h.catalog.ListAccommodations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list accommodations"))
		return
	}

	payloads := make([]AccommodationPayload, 0, len(accs))
	for _, acc := range accs {
		payloads = append(payloads, newAccommodationPayload(acc))
	}

	c.JSON(http.StatusOK, payloads)
}

func (h *CatalogHandler) updateAccommodation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AccommodationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid accommodation payload"))
		return
	}

	acc := req.toDomain()
	acc.ID = id

	if err := h.catalog.UpdateAccommodation(c.Request.Context(), acc); err != nil {
		respondCatalogError(c, err, "accommodation not found", "failed to update accommodation")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "accommodation updated"})
}

func (h *CatalogHandler) deleteAccommodation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteAccommodation(c.Request.Context(), id); err != nil {
		respondCatalogError(c, err, "accommodation not found", "failed to delete accommodation")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) createEntertainment(c *gin.Context) {
	var req EntertainmentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid entertainment payload"))
		return
	}

	id, err := h.catalog.AddEntertainment(c.Request.Context(), req.toDomain())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create entertainment"))
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id})
}

func (h *CatalogHandler) getEntertainment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ent, err := h.catalog.GetEntertainment(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, "entertainment not found", "failed to load entertainment")
		return
	}

	c.JSON(http.StatusOK, newEntertainmentPayload(*ent))
}

func (h *CatalogHandler) listEntertainments(c *gin.Context) {
	ents, err := h.catalog.ListEntertainments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list entertainments"))
		return
	}

	payloads := make([]EntertainmentPayload, 0, len(ents))
	for _, ent := range ents {
		payloads = append(payloads, newEntertainmentPayload(ent))
	}

	c.JSON(http.StatusOK, payloads)
}

func (h *CatalogHandler) updateEntertainment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req EntertainmentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid entertainment payload"))
		return
	}

	ent := req.toDomain()
	ent.ID = id

	if err := h.catalog.UpdateEntertainment(c.Request.Context(), ent); err != nil {
		respondCatalogError(c, err, "entertainment not found", "failed to update entertainment")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "entertainment updated"})
}

func (h *CatalogHandler) deleteEntertainment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteEntertainment(c.Request.Context(), id); err != nil {
		respondCatalogError(c, err, "entertainment not found", "failed to delete entertainment")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) createDirectoryRoute(c *gin.Context) {
	var req DirectoryRoutePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid directory route payload"))
		return
	}

	id, err := h.catalog.AddDirectoryRoute(c.Request.Context(), req.toDomain())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create directory route"))
		return
	}

	c.JSON(http.StatusCreated, IDResponse{ID: id})
}

func (h *CatalogHandler) getDirectoryRoute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	route, err := h.catalog.GetDirectoryRoute(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, "directory route not found", "failed to load directory route")
		return
	}

	c.JSON(http.StatusOK, newDirectoryRoutePayload(*route))
}

func (h *CatalogHandler) listDirectoryRoutes(c *gin.Context) {
	routes, err := h.catalog.ListDirectoryRoutes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list directory routes"))
		return
	}

	payloads := make([]DirectoryRoutePayload, 0, len(routes))
	for _, route := range routes {
		payloads = append(payloads, newDirectoryRoutePayload(route))
	}

	c.JSON(http.StatusOK, payloads)
}

func (h *CatalogHandler) updateDirectoryRoute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req DirectoryRoutePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid directory route payload"))
		return
	}

	route := req.toDomain()
	route.ID = id

	if err := h.catalog.UpdateDirectoryRoute(c.Request.Context(), route); err != nil {
		respondCatalogError(c, err, "directory route not found", "failed to update directory route")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "directory route updated"})
}

func (h *CatalogHandler) deleteDirectoryRoute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteDirectoryRoute(c.Request.Context(), id); err != nil {
		respondCatalogError(c, err, "directory route not found", "failed to delete directory route")
		return
	}

	c.Status(http.StatusNoContent)
}
