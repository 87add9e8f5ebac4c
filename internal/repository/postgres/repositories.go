package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users           *UserRepository
	Cities          *CityRepository
	Accommodations  *AccommodationRepository
	Entertainments  *EntertainmentRepository
	DirectoryRoutes *DirectoryRouteRepository
	Routes          *RouteRepository
	Travels         *TravelRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:           NewUserRepository(pool),
		Cities:          NewCityRepository(pool),
		Accommodations:  NewAccommodationRepository(pool),
		Entertainments:  NewEntertainmentRepository(pool),
		DirectoryRoutes: NewDirectoryRouteRepository(pool),
		Routes:          NewRouteRepository(pool),
		Travels:         NewTravelRepository(pool),
	}
}
