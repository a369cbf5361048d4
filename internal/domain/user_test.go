package domain

import (
	"strings"
	"testing"
)

const goodPassword = "Str0ng!pass"

func TestValidateUser_Valid(t *testing.T) {
	if messages := ValidateUser("alice", goodPassword, "alice@example.com"); len(messages) != 0 {
		t.Errorf("ValidateUser() = %v, want no messages", messages)
	}
}

func TestValidateUser_FieldRules(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		email    string
		want     string
	}{
		{"blank username", "", goodPassword, "a@example.com", "Username is mandatory"},
		{"short username", "abc", goodPassword, "a@example.com", "Username must be between 4 and 20 characters"},
		{"long username", strings.Repeat("a", 21), goodPassword, "a@example.com", "Username must be between 4 and 20 characters"},
		{"blank password", "alice", "", "a@example.com", "Password is mandatory"},
		{"short password", "alice", "Ab1!", "a@example.com", "Password must have at least 8 characters"},
		{"no digit", "alice", "Password!", "a@example.com", "Password must contain a digit"},
		{"no uppercase", "alice", "password1!", "a@example.com", "Password must contain a digit"},
		{"no special", "alice", "Password1", "a@example.com", "Password must contain a digit"},
		{"blank email", "alice", goodPassword, "", "Email is mandatory"},
		{"bad email", "alice", goodPassword, "not-an-email", "Email should be valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := ValidateUser(tt.username, tt.password, tt.email)
			joined := strings.Join(messages, ", ")
			if !strings.Contains(joined, tt.want) {
				t.Errorf("messages = %q, want containing %q", joined, tt.want)
			}
		})
	}
}

func TestValidateUser_CollectsAllFailures(t *testing.T) {
	messages := ValidateUser("", "", "")
	if len(messages) != 3 {
		t.Errorf("got %d messages (%v), want one per field", len(messages), messages)
	}
}

func TestRoleAuthority(t *testing.T) {
	if got := RoleUser.Authority(); got != "ROLE_USER" {
		t.Errorf("Authority() = %q, want ROLE_USER", got)
	}
	if got := RoleAdmin.Authority(); got != "ROLE_ADMIN" {
		t.Errorf("Authority() = %q, want ROLE_ADMIN", got)
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleUser.Valid() || !RoleAdmin.Valid() {
		t.Error("known roles must be valid")
	}
	if Role("ROOT").Valid() {
		t.Error("unknown role must be invalid")
	}
}
