package domain

import (
	"net/mail"
	"regexp"
	"time"
	"unicode/utf8"
)

// Role is the coarse-grained permission tier attached to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Authority returns the role in the wire format clients receive in the
// authentication response.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// Valid reports whether the role is a known tier.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the domain model for managed accounts.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordSpecial = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// ValidateUser checks a registration or update payload and returns one
// message per failed field rule. An empty slice means the payload is valid.
func ValidateUser(username, password, email string) []string {
	var messages []string

	switch {
	case username == "":
		messages = append(messages, "Username is mandatory")
	case utf8.RuneCountInString(username) < 4 || utf8.RuneCountInString(username) > 20:
		messages = append(messages, "Username must be between 4 and 20 characters")
	}

	switch {
	case password == "":
		messages = append(messages, "Password is mandatory")
	case utf8.RuneCountInString(password) < 8:
		messages = append(messages, "Password must have at least 8 characters")
	case !passwordStrong(password):
		messages = append(messages, "Password must contain a digit, a lowercase letter, an uppercase letter, and a special character")
	}

	if email == "" {
		messages = append(messages, "Email is mandatory")
	} else if _, err := mail.ParseAddress(email); err != nil {
		messages = append(messages, "Email should be valid")
	}

	return messages
}

func passwordStrong(password string) bool {
	return passwordDigit.MatchString(password) &&
		passwordLower.MatchString(password) &&
		passwordUpper.MatchString(password) &&
		passwordSpecial.MatchString(password)
}
