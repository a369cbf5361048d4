package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/user-management-service/internal/domain"
)

func TestIssueAndExtractSubject(t *testing.T) {
	tm := NewTokenManager("test-secret", 1)

	token, expiresAt, err := tm.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}

	subject, err := tm.ExtractSubject(token)
	if err != nil {
		t.Fatalf("ExtractSubject() error = %v", err)
	}
	if subject != "alice" {
		t.Errorf("subject = %q, want %q", subject, "alice")
	}
}

func TestExtractSubject_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", 1)

	past := time.Now().Add(-2 * time.Hour)
	tm.now = func() time.Time { return past }
	token, _, err := tm.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tm.now = time.Now
	_, err = tm.ExtractSubject(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
	if tm.Validate(token, "alice") {
		t.Error("Validate() should fail once the clock passes expiry, even with a correct signature")
	}
}

func TestExtractSubject_Malformed(t *testing.T) {
	tm := NewTokenManager("test-secret", 1)

	for _, token := range []string{"", "garbage", "abc.def", "a.b.c"} {
		if _, err := tm.ExtractSubject(token); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("ExtractSubject(%q) err = %v, want ErrTokenMalformed", token, err)
		}
	}
}

func TestExtractSubject_WrongSecret(t *testing.T) {
	tm := NewTokenManager("correct-secret", 1)
	token, _, err := tm.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other := NewTokenManager("wrong-secret", 1)
	if _, err := other.ExtractSubject(token); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("err = %v, want ErrTokenMalformed", err)
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	tm := NewTokenManager("test-secret", 1)
	token, _, err := tm.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	// Flip each signature byte in turn; every variant must fail validation.
	sig := parts[2]
	for i := 0; i < len(sig); i++ {
		flipped := byte('A')
		if sig[i] == 'A' {
			flipped = 'B'
		}
		tampered := parts[0] + "." + parts[1] + "." + sig[:i] + string(flipped) + sig[i+1:]
		if tampered == token {
			continue
		}
		if tm.Validate(tampered, "alice") {
			t.Fatalf("Validate() accepted token with signature byte %d flipped", i)
		}
	}
}

func TestValidate_SubjectMismatch(t *testing.T) {
	tm := NewTokenManager("test-secret", 1)
	token, _, err := tm.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if !tm.Validate(token, "alice") {
		t.Error("Validate() should accept the issued subject")
	}
	if tm.Validate(token, "bob") {
		t.Error("Validate() should reject a different subject")
	}
}

func TestValidate_NeverPanicsOnGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 1)
	for _, token := range []string{"", ".", "..", "\x00\x01", strings.Repeat("x", 4096)} {
		if tm.Validate(token, "alice") {
			t.Errorf("Validate(%q) = true, want false", token)
		}
	}
}
