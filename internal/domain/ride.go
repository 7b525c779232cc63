package domain

import "time"

const (
	RideOffering   = "offering"
	RideRequesting = "requesting"
)

const (
	RideActive    = "active"
	RideCompleted = "completed"
	RideCancelled = "cancelled"
)

const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Ride is a posted offer or request for a shared trip.
type Ride struct {
	RideID         string    `json:"ride_id"`
	UserID         string    `json:"user_id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DateTime       time.Time `json:"date_time"`
	AvailableSeats int       `json:"available_seats"`
	Price          *float64  `json:"price"`
	CarDetails     *string   `json:"car_details"`
	Preferences    *string   `json:"preferences"`
	RideType       string    `json:"ride_type"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// RideRequest is a passenger's bid for a seat, adjudicated by the ride owner.
type RideRequest struct {
	RequestID   string    `json:"request_id"`
	RideID      string    `json:"ride_id"`
	RequesterID string    `json:"requester_id"`
	Status      string    `json:"status"`
	Message     *string   `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// RideFilter selects rides. Origin and Destination are case-insensitive
// substrings; results are ordered newest first.
type RideFilter struct {
	OwnerID     string
	Origin      string
	Destination string
	RideType    string
	Status      string
	Limit       int
}

// RideRequestFilter selects ride requests, newest first.
type RideRequestFilter struct {
	RequesterID string
	RideIDs     []string
	Limit       int
}

func ValidRideType(t string) bool {
	return t == RideOffering || t == RideRequesting
}

func ValidRideStatus(s string) bool {
	switch s {
	case RideActive, RideCompleted, RideCancelled:
		return true
	}
	return false
}
