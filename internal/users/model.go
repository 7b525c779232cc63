package users

import (
	"encoding/json"

	"rideconnect/internal/domain"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Name     string  `json:"name"`
	AuthType string  `json:"auth_type"`
}

// LoginRequest is the body for POST /auth/login. Email wins over phone.
type LoginRequest struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
}

// ExternalLoginRequest is the body for POST /auth/google/callback.
type ExternalLoginRequest struct {
	SessionID string `json:"session_id"`
}

// UpdateProfileRequest is the body for PUT /users/me. Absent fields are left
// untouched.
type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
	ProfileType    *string `json:"profile_type"`
	IsPublic       *bool   `json:"is_public"`
}

// Patch returns the field update set of the request.
func (r UpdateProfileRequest) Patch() domain.Patch {
	p := domain.Patch{}
	domain.Set(p, "name", r.Name)
	domain.Set(p, "bio", r.Bio)
	domain.Set(p, "profile_picture", r.ProfilePicture)
	domain.Set(p, "profile_type", r.ProfileType)
	domain.Set(p, "is_public", r.IsPublic)
	return p
}

// AuthResponse is returned by every login flavour.
type AuthResponse struct {
	UserID       string `json:"user_id"`
	SessionToken string `json:"session_token"`
	Name         string `json:"name"`
}

// PrivateProfile is what strangers see of a private account.
type PrivateProfile struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
	ProfileType    string  `json:"profile_type"`
	IsPublic       bool    `json:"is_public"`
	IsPrivate      bool    `json:"is_private"`
}

// ProfileView is either the full profile or the redacted one; exactly one
// field is set.
type ProfileView struct {
	Full     *domain.User
	Redacted *PrivateProfile
}

func (v ProfileView) MarshalJSON() ([]byte, error) {
	if v.Redacted != nil {
		return json.Marshal(v.Redacted)
	}
	return json.Marshal(v.Full)
}

func redact(u *domain.User) *PrivateProfile {
	return &PrivateProfile{
		UserID:         u.UserID,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		ProfileType:    u.ProfileType,
		IsPublic:       u.IsPublic,
		IsPrivate:      true,
	}
}
