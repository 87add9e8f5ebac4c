package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/proGsa/travel-booking/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the state of downstream dependencies.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// UserSummary describes a minimal view of a user returned by the API.
type UserSummary struct {
	ID             int64  `json:"id"`
	FullName       string `json:"full_name"`
	Login          string `json:"login"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	PassportNumber string `json:"passport_number,omitempty"`
	IsAdmin        bool   `json:"is_admin"`
}

func newUserSummary(u *domain.User) UserSummary {
	return UserSummary{
		ID:             u.ID,
		FullName:       u.FullName,
		Login:          u.Login,
		Email:          u.Email,
		Phone:          u.Phone,
		PassportNumber: u.PassportNumber,
		IsAdmin:        u.IsAdmin,
	}
}

// RegistrationRequest defines the account registration payload.
type RegistrationRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	PassportNumber string `json:"passport_number" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Login          string `json:"login" binding:"required"`
	Password       string `json:"password" binding:"required,min=8"`
}

// RegistrationResponse contains the created account and its first access token.
type RegistrationResponse struct {
	User        UserSummary `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
}

// LoginRequest defines the payload for the first authentication step.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginChallengeResponse describes the pending second factor issued after a
// successful password check.
type LoginChallengeResponse struct {
	Message   string    `json:"message"`
	Delivery  string    `json:"delivery"`
	Contact   string    `json:"contact"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordExpiredResponse distinguishes the rotation-required 403 from a
// lockout 403 so clients can redirect to the change-password flow.
type PasswordExpiredResponse struct {
	Error           string `json:"error"`
	PasswordExpired bool   `json:"password_expired"`
	TraceID         string `json:"trace_id,omitempty"`
}

// VerifyRequest carries the one-time code for the second authentication step.
type VerifyRequest struct {
	Login string `json:"login" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// TokenResponse is returned once both authentication factors succeed.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        UserSummary `json:"user"`
}

// RecoverRequest identifies the account to unlock.
type RecoverRequest struct {
	Login string `json:"login" binding:"required"`
}

// PasswordChangeRequest rotates the caller's password. The current password
// is optional: an expired account cannot authenticate to prove it.
type PasswordChangeRequest struct {
	Login       string `json:"login" binding:"required"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UserUpdateRequest modifies profile fields of an existing user.
type UserUpdateRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PassportNumber string `json:"passport_number"`
}

// CityPayload is the wire form of a city.
type CityPayload struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name" binding:"required"`
}

func newCityPayload(c domain.City) CityPayload {
	return CityPayload{ID: c.ID, Name: c.Name}
}

// AccommodationPayload is the wire form of an accommodation.
type AccommodationPayload struct {
	ID      int64   `json:"id,omitempty"`
	Name    string  `json:"name" binding:"required"`
	Type    string  `json:"type"`
	Address string  `json:"address"`
	Price   int64   `json:"price"`
	Rating  float64 `json:"rating"`
	CityID  int64   `json:"city_id" binding:"required"`
}

func newAccommodationPayload(a domain.Accommodation) AccommodationPayload {
	return AccommodationPayload{
		ID:      a.ID,
		Name:    a.Name,
		Type:    a.Type,
		Address: a.Address,
		Price:   a.Price,
		Rating:  a.Rating,
		CityID:  a.CityID,
	}
}

func (p AccommodationPayload) toDomain() domain.Accommodation {
	return domain.Accommodation{
		ID:      p.ID,
		Name:    p.Name,
		Type:    p.Type,
		Address: p.Address,
		Price:   p.Price,
		Rating:  p.Rating,
		CityID:  p.CityID,
	}
}

// EntertainmentPayload is the wire form of an entertainment.
type EntertainmentPayload struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Price    int64  `json:"price"`
	Duration string `json:"duration"`
	CityID   int64  `json:"city_id" binding:"required"`
}

func newEntertainmentPayload(e domain.Entertainment) EntertainmentPayload {
	return EntertainmentPayload{
		ID:       e.ID,
		Name:     e.Name,
		Address:  e.Address,
		Price:    e.Price,
		Duration: e.Duration,
		CityID:   e.CityID,
	}
}

func (p EntertainmentPayload) toDomain() domain.Entertainment {
	return domain.Entertainment{
		ID:       p.ID,
		Name:     p.Name,
		Address:  p.Address,
		Price:    p.Price,
		Duration: p.Duration,
		CityID:   p.CityID,
	}
}

// DirectoryRoutePayload is the wire form of a transport connection.
type DirectoryRoutePayload struct {
	ID            int64  `json:"id,omitempty"`
	TypeTransport string `json:"type_transport" binding:"required"`
	CityFromID    int64  `json:"city_from_id" binding:"required"`
	CityToID      int64  `json:"city_to_id" binding:"required"`
	Distance      int64  `json:"distance"`
	Price         int64  `json:"price"`
}

func newDirectoryRoutePayload(r domain.DirectoryRoute) DirectoryRoutePayload {
	return DirectoryRoutePayload{
		ID:            r.ID,
		TypeTransport: r.TypeTransport,
		CityFromID:    r.CityFromID,
		CityToID:      r.CityToID,
		Distance:      r.Distance,
		Price:         r.Price,
	}
}

func (p DirectoryRoutePayload) toDomain() domain.DirectoryRoute {
	return domain.DirectoryRoute{
		ID:            p.ID,
		TypeTransport: p.TypeTransport,
		CityFromID:    p.CityFromID,
		CityToID:      p.CityToID,
		Distance:      p.Distance,
		Price:         p.Price,
	}
}

// RoutePayload is the wire form of a scheduled travel leg.
type RoutePayload struct {
	ID        int64     `json:"id,omitempty"`
	DRouteID  int64     `json:"d_route_id" binding:"required"`
	TravelID  int64     `json:"travel_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Cost      int64     `json:"cost"`
}

func newRoutePayload(r domain.Route) RoutePayload {
	return RoutePayload{
		ID:        r.ID,
		DRouteID:  r.DRouteID,
		TravelID:  r.TravelID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Cost:      r.Cost,
	}
}

func (p RoutePayload) toDomain() domain.Route {
	return domain.Route{
		ID:        p.ID,
		DRouteID:  p.DRouteID,
		TravelID:  p.TravelID,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Cost:      p.Cost,
	}
}

// TravelPayload is the wire form of a travel aggregate.
type TravelPayload struct {
	ID               int64   `json:"id,omitempty"`
	Status           string  `json:"status"`
	UserID           int64   `json:"user_id" binding:"required"`
	AccommodationIDs []int64 `json:"accommodation_ids"`
	EntertainmentIDs []int64 `json:"entertainment_ids"`
}

func newTravelPayload(t domain.Travel) TravelPayload {
	return TravelPayload{
		ID:               t.ID,
		Status:           string(t.Status),
		UserID:           t.UserID,
		AccommodationIDs: t.AccommodationIDs,
		EntertainmentIDs: t.EntertainmentIDs,
	}
}

func (p TravelPayload) toDomain() domain.Travel {
	return domain.Travel{
		ID:               p.ID,
		Status:           domain.TravelStatus(p.Status),
		UserID:           p.UserID,
		AccommodationIDs: p.AccommodationIDs,
		EntertainmentIDs: p.EntertainmentIDs,
	}
}

// IDResponse returns the identifier assigned to a created resource.
type IDResponse struct {
	ID int64 `json:"id"`
}
