package validation

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRegex.MatchString(email) && len(email) <= 200
}

func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	return phone != "" && phoneRegex.MatchString(phone) && len(phone) <= 50
}

// ValidateName accepts display names of 1 to 200 characters after trimming.
func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= 200
}

func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}

// ValidatePlace accepts free-form origin/destination text.
func ValidatePlace(place string) bool {
	place = strings.TrimSpace(place)
	return place != "" && len(place) <= 300
}

// ValidateSeats bounds the seat count of a ride.
func ValidateSeats(n int) bool { return n >= 0 && n <= 50 }

// ValidateMessage bounds optional free text such as request messages and bios.
func ValidateMessage(s string) bool { return len(s) <= 1000 }
