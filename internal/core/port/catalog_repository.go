package port

import (
	"context"

	"github.com/proGsa/travel-booking/internal/core/domain"
)

// CityRepository exposes persistence behavior for cities.
type CityRepository interface {
	Add(ctx context.Context, city domain.City) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.City, error)
	GetList(ctx context.Context) ([]domain.City, error)
	Update(ctx context.Context, city domain.City) error
	Delete(ctx context.Context, id int64) error
}

// AccommodationRepository exposes persistence behavior for accommodations.
type AccommodationRepository interface {
	Add(ctx context.Context, acc domain.Accommodation) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Accommodation, error)
	GetList(ctx context.Context) ([]domain.Accommodation, error)
	Update(ctx context.Context, acc domain.Accommodation) error
	Delete(ctx context.Context, id int64) error
}

// EntertainmentRepository exposes persistence behavior for entertainments.
type EntertainmentRepository interface {
	Add(ctx context.Context, ent domain.Entertainment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Entertainment, error)
	GetList(ctx context.Context) ([]domain.Entertainment, error)
	Update(ctx context.Context, ent domain.Entertainment) error
	Delete(ctx context.Context, id int64) error
}

// DirectoryRouteRepository exposes persistence behavior for transport connections.
type DirectoryRouteRepository interface {
	Add(ctx context.Context, route domain.DirectoryRoute) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.DirectoryRoute, error)
	GetList(ctx context.Context) ([]domain.DirectoryRoute, error)
	Update(ctx context.Context, route domain.DirectoryRoute) error
	Delete(ctx context.Context, id int64) error
}

// RouteRepository exposes persistence behavior for scheduled travel legs.
type RouteRepository interface {
	Add(ctx context.Context, route domain.Route) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
	GetList(ctx context.Context) ([]domain.Route, error)
	Update(ctx context.Context, route domain.Route) error
	Delete(ctx context.Context, id int64) error
}

// TravelRepository exposes persistence behavior for composite bookings.
type TravelRepository interface {
	Add(ctx context.Context, travel domain.Travel) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Travel, error)
	GetList(ctx context.Context) ([]domain.Travel, error)
	Update(ctx context.Context, travel domain.Travel) error
	Delete(ctx context.Context, id int64) error
	// DeleteByUser removes all travels owned by the user, used by account deletion.
	DeleteByUser(ctx context.Context, userID int64) error
	// SearchByCity returns travels whose routes touch the named city.
	SearchByCity(ctx context.Context, cityName string) ([]domain.Travel, error)
}
