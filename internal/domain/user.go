package domain

import "time"

const (
	AuthEmail  = "email"
	AuthPhone  = "phone"
	AuthGoogle = "google"
	AuthGuest  = "guest"
)

const (
	ProfileRider     = "rider"
	ProfilePassenger = "passenger"
)

// User is a registered, guest or externally authenticated account.
type User struct {
	UserID         string    `json:"user_id"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Name           string    `json:"name"`
	ProfilePicture *string   `json:"profile_picture"`
	Bio            *string   `json:"bio"`
	ProfileType    string    `json:"profile_type"`
	IsPublic       bool      `json:"is_public"`
	AuthType       string    `json:"auth_type"`
	CreatedAt      time.Time `json:"created_at"`
}

// Credential is the password hash of an email-registered user.
type Credential struct {
	UserID       string
	PasswordHash string
}

// Session binds an opaque bearer token to a user until ExpiresAt.
type Session struct {
	UserID       string    `json:"user_id"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the session no longer authenticates at now.
// A session expiring exactly at now is already expired.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.UTC().After(now.UTC())
}

// Stats are the public counters shown on a profile.
type Stats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Rides     int64 `json:"rides"`
}

func ValidAuthType(t string) bool {
	switch t {
	case AuthEmail, AuthPhone, AuthGoogle, AuthGuest:
		return true
	}
	return false
}

func ValidProfileType(t string) bool {
	return t == ProfileRider || t == ProfilePassenger
}
