package domain

import "time"

// City is a destination reachable by the booking engine.
type City struct {
	ID   int64
	Name string
}

// Accommodation describes a bookable stay in a city.
type Accommodation struct {
	ID      int64
	Name    string
	Type    string
	Address string
	Price   int64
	Rating  float64
	CityID  int64
}

// Entertainment describes a bookable activity in a city.
type Entertainment struct {
	ID       int64
	Name     string
	Address  string
	Price    int64
	Duration string
	CityID   int64
}

// DirectoryRoute is a transport connection between two cities.
type DirectoryRoute struct {
	ID            int64
	TypeTransport string
	CityFromID    int64
	CityToID      int64
	Distance      int64
	Price         int64
}

// Route is a scheduled leg of a travel built from a directory route.
type Route struct {
	ID        int64
	DRouteID  int64
	TravelID  int64
	StartTime time.Time
	EndTime   time.Time
	Cost      int64
}

// TravelStatus enumerates travel lifecycle states.
type TravelStatus string

const (
	TravelStatusDraft      TravelStatus = "draft"
	TravelStatusInProgress TravelStatus = "in_progress"
	TravelStatusCompleted  TravelStatus = "completed"
	TravelStatusCancelled  TravelStatus = "cancelled"
)

// Travel is a composite booking owned by a user.
type Travel struct {
	ID               int64
	Status           TravelStatus
	UserID           int64
	AccommodationIDs []int64
	EntertainmentIDs []int64
}
