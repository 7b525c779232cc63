package rides

import (
	"time"

	"rideconnect/internal/domain"
)

// CreateRequest is the body for POST /rides.
type CreateRequest struct {
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DateTime       time.Time `json:"date_time"`
	AvailableSeats int       `json:"available_seats"`
	Price          *float64  `json:"price"`
	CarDetails     *string   `json:"car_details"`
	Preferences    *string   `json:"preferences"`
	RideType       string    `json:"ride_type"`
}

// UpdateRequest is the body for PUT /rides/{id}. Absent fields are left
// untouched.
type UpdateRequest struct {
	Origin         *string    `json:"origin"`
	Destination    *string    `json:"destination"`
	DateTime       *time.Time `json:"date_time"`
	AvailableSeats *int       `json:"available_seats"`
	Price          *float64   `json:"price"`
	CarDetails     *string    `json:"car_details"`
	Preferences    *string    `json:"preferences"`
	Status         *string    `json:"status"`
}

// Patch returns the field update set of the request.
func (r UpdateRequest) Patch() domain.Patch {
	p := domain.Patch{}
	domain.Set(p, "origin", r.Origin)
	domain.Set(p, "destination", r.Destination)
	if r.DateTime != nil {
		p["date_time"] = r.DateTime.UTC()
	}
	domain.Set(p, "available_seats", r.AvailableSeats)
	domain.Set(p, "price", r.Price)
	domain.Set(p, "car_details", r.CarDetails)
	domain.Set(p, "preferences", r.Preferences)
	domain.Set(p, "status", r.Status)
	return p
}

// WithOwner is a ride joined with its owner; User is nil when the owner no
// longer exists.
type WithOwner struct {
	domain.Ride
	User *domain.User `json:"user"`
}

// SeatRequest is the body for POST /rides/request.
type SeatRequest struct {
	RideID  string  `json:"ride_id"`
	Message *string `json:"message"`
}

// SentRequest is one of the actor's own requests joined with its ride.
type SentRequest struct {
	domain.RideRequest
	Ride *domain.Ride `json:"ride"`
}

// ReceivedRequest is a request against one of the actor's rides.
type ReceivedRequest struct {
	domain.RideRequest
	Requester *domain.User `json:"requester"`
	Ride      *domain.Ride `json:"ride"`
}
