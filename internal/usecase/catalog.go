package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/core/port"
)

// ErrInvalidStatus indicates a travel status outside the known lifecycle.
var ErrInvalidStatus = errors.New("invalid travel status")

// CatalogService manages the reference data travels are assembled from:
// cities, accommodations, entertainments, and transport connections.
type CatalogService struct {
	cities          port.CityRepository
	accommodations  port.AccommodationRepository
	entertainments  port.EntertainmentRepository
	directoryRoutes port.DirectoryRouteRepository
	logger          *zap.Logger
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(
	cities port.CityRepository,
	accommodations port.AccommodationRepository,
	entertainments port.EntertainmentRepository,
	directoryRoutes port.DirectoryRouteRepository,
	log *zap.Logger,
) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{
		cities:          cities,
		accommodations:  accommodations,
		entertainments:  entertainments,
		directoryRoutes: directoryRoutes,
		logger:          log,
	}
}

// AddCity validates and stores a city.
func (s *CatalogService) AddCity(ctx context.Context, city domain.City) (int64, error) {
	if strings.TrimSpace(city.Name) == "" {
		return 0, fmt.Errorf("city name is required")
	}
	return s.cities.Add(ctx, city)
}

// GetCity returns a city by identifier.
func (s *CatalogService) GetCity(ctx context.Context, id int64) (*domain.City, error) {
	return s.cities.GetByID(ctx, id)
}

// ListCities returns all cities.
func (s *CatalogService) ListCities(ctx context.Context) ([]domain.City, error) {
	return s.cities.GetList(ctx)
}

// UpdateCity rewrites a city.
func (s *CatalogService) UpdateCity(ctx context.Context, city domain.City) error {
	if city.ID <= 0 {
		return fmt.Errorf("city id is required")
	}
	if strings.TrimSpace(city.Name) == "" {
		return fmt.Errorf("city name is required")
	}
	return s.cities.Update(ctx, city)
}

// DeleteCity removes a city.
func (s *CatalogService) DeleteCity(ctx context.Context, id int64) error {
	return s.cities.Delete(ctx, id)
}

// AddAccommodation validates and stores an accommodation.
func (s *CatalogService) AddAccommodation(ctx context.Context, acc domain.Accommodation) (int64, error) {
	if strings.TrimSpace(acc.Name) == "" {
		return 0, fmt.Errorf("accommodation name is required")
	}
	if acc.CityID <= 0 {
		return 0, fmt.Errorf("city id is required")
	}
	if acc.Price < 0 {
		return 0, fmt.Errorf("price must not be negative")
	}
	return s.accommodations.Add(ctx, acc)
}

// GetAccommodation returns an accommodation by identifier.
func (s *CatalogService) GetAccommodation(ctx context.Context, id int64) (*domain.Accommodation, error) {
	return s.accommodations.GetByID(ctx, id)
}

// ListAccommodations returns all accommodations.
func (s *CatalogService) ListAccommodations(ctx context.Context) ([]domain.Accommodation, error) {
	return s.accommodations.GetList(ctx)
}

// UpdateAccommodation rewrites an accommodation.
func (s *CatalogService) UpdateAccommodation(ctx context.Context, acc domain.Accommodation) error {
	if acc.ID <= 0 {
		return fmt.Errorf("accommodation id is required")
	}
	return s.accommodations.Update(ctx, acc)
}

// DeleteAccommodation removes an accommodation.
func (s *CatalogService) DeleteAccommodation(ctx context.Context, id int64) error {
	return s.accommodations.Delete(ctx, id)
}

// AddEntertainment validates and stores an entertainment.
func (s *CatalogService) AddEntertainment(ctx context.Context, ent domain.Entertainment) (int64, error) {
	if strings.TrimSpace(ent.Name) == "" {
		return 0, fmt.Errorf("entertainment name is required")
	}
	if ent.CityID <= 0 {
		return 0, fmt.Errorf("city id is required")
	}
	return s.entertainments.Add(ctx, ent)
}

// GetEntertainment returns an entertainment by identifier.
func (s *CatalogService) GetEntertainment(ctx context.Context, id int64) (*domain.Entertainment, error) {
	return s.entertainments.GetByID(ctx, id)
}

// ListEntertainments returns all entertainments.
func (s *CatalogService) ListEntertainments(ctx context.Context) ([]domain.Entertainment, error) {
	return s.entertainments.GetList(ctx)
}

// UpdateEntertainment rewrites an entertainment.
func (s *CatalogService) UpdateEntertainment(ctx context.Context, ent domain.Entertainment) error {
	if ent.ID <= 0 {
		return fmt.Errorf("entertainment id is required")
	}
	return s.entertainments.Update(ctx, ent)
}

// DeleteEntertainment removes an entertainment.
func (s *CatalogService) DeleteEntertainment(ctx context.Context, id int64) error {
	return s.entertainments.Delete(ctx, id)
}

// AddDirectoryRoute validates and stores a transport connection.
func (s *CatalogService) AddDirectoryRoute(ctx context.Context, route domain.DirectoryRoute) (int64, error) {
	if strings.TrimSpace(route.TypeTransport) == "" {
		return 0, fmt.Errorf("transport type is required")
	}
	if route.CityFromID <= 0 || route.CityToID <= 0 {
		return 0, fmt.Errorf("origin and destination cities are required")
	}
	if route.CityFromID == route.CityToID {
		return 0, fmt.Errorf("origin and destination must differ")
	}
	return s.directoryRoutes.Add(ctx, route)
}

// GetDirectoryRoute returns a transport connection by identifier.
func (s *CatalogService) GetDirectoryRoute(ctx context.Context, id int64) (*domain.DirectoryRoute, error) {
	return s.directoryRoutes.GetByID(ctx, id)
}

// ListDirectoryRoutes returns all transport connections.
func (s *CatalogService) ListDirectoryRoutes(ctx context.Context) ([]domain.DirectoryRoute, error) {
	return s.directoryRoutes.GetList(ctx)
}

// UpdateDirectoryRoute rewrites a transport connection.
func (s *CatalogService) UpdateDirectoryRoute(ctx context.Context, route domain.DirectoryRoute) error {
	if route.ID <= 0 {
		return fmt.Errorf("directory route id is required")
	}
	return s.directoryRoutes.Update(ctx, route)
}

// DeleteDirectoryRoute removes a transport connection.
func (s *CatalogService) DeleteDirectoryRoute(ctx context.Context, id int64) error {
	return s.directoryRoutes.Delete(ctx, id)
}

// TravelService manages composite bookings and their scheduled legs.
type TravelService struct {
	travels port.TravelRepository
	routes  port.RouteRepository
	logger  *zap.Logger
}

// NewTravelService constructs a TravelService instance.
func NewTravelService(travels port.TravelRepository, routes port.RouteRepository, log *zap.Logger) *TravelService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TravelService{travels: travels, routes: routes, logger: log}
}

func validStatus(status domain.TravelStatus) bool {
	switch status {
	case domain.TravelStatusDraft, domain.TravelStatusInProgress,
		domain.TravelStatusCompleted, domain.TravelStatusCancelled:
		return true
	}
	return false
}

// AddTravel validates and stores a travel.
func (s *TravelService) AddTravel(ctx context.Context, travel domain.Travel) (int64, error) {
	if travel.UserID <= 0 {
		return 0, fmt.Errorf("user id is required")
	}
	if travel.Status == "" {
		travel.Status = domain.TravelStatusDraft
	}
	if !validStatus(travel.Status) {
		return 0, ErrInvalidStatus
	}
	return s.travels.Add(ctx, travel)
}

// GetTravel returns a travel by identifier.
func (s *TravelService) GetTravel(ctx context.Context, id int64) (*domain.Travel, error) {
	return s.travels.GetByID(ctx, id)
}

// ListTravels returns all travels.
func (s *TravelService) ListTravels(ctx context.Context) ([]domain.Travel, error) {
	return s.travels.GetList(ctx)
}

// UpdateTravel rewrites a travel.
func (s *TravelService) UpdateTravel(ctx context.Context, travel domain.Travel) error {
	if travel.ID <= 0 {
		return fmt.Errorf("travel id is required")
	}
	if !validStatus(travel.Status) {
		return ErrInvalidStatus
	}
	return s.travels.Update(ctx, travel)
}

// DeleteTravel removes a travel.
func (s *TravelService) DeleteTravel(ctx context.Context, id int64) error {
	return s.travels.Delete(ctx, id)
}

// SearchTravelsByCity returns travels whose routes touch the named city.
func (s *TravelService) SearchTravelsByCity(ctx context.Context, cityName string) ([]domain.Travel, error) {
	cityName = strings.TrimSpace(cityName)
	if cityName == "" {
		return nil, fmt.Errorf("city name is required")
	}
	return s.travels.SearchByCity(ctx, cityName)
}

// AddRoute validates and stores a scheduled leg.
func (s *TravelService) AddRoute(ctx context.Context, route domain.Route) (int64, error) {
	if route.DRouteID <= 0 {
		return 0, fmt.Errorf("directory route id is required")
	}
	if route.TravelID <= 0 {
		return 0, fmt.Errorf("travel id is required")
	}
	if !route.EndTime.After(route.StartTime) {
		return 0, fmt.Errorf("end time must follow start time")
	}
	return s.routes.Add(ctx, route)
}

// GetRoute returns a scheduled leg by identifier.
func (s *TravelService) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	return s.routes.GetByID(ctx, id)
}

// ListRoutes returns all scheduled legs.
func (s *TravelService) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	return s.routes.GetList(ctx)
}

// UpdateRoute rewrites a scheduled leg.
func (s *TravelService) UpdateRoute(ctx context.Context, route domain.Route) error {
	if route.ID <= 0 {
		return fmt.Errorf("route id is required")
	}
	if !route.EndTime.After(route.StartTime) {
		return fmt.Errorf("end time must follow start time")
	}
	return s.routes.Update(ctx, route)
}

// DeleteRoute removes a scheduled leg.
func (s *TravelService) DeleteRoute(ctx context.Context, id int64) error {
	return s.routes.Delete(ctx, id)
}
