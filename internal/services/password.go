package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/pbkdf2"

	"github.com/zerodesign/zerodesign-backend/internal/platform/apierr"
)

const (
	pbkdf2Iterations = 100000
	pbkdf2KeyLen     = 32
	saltBytes        = 16
	minPasswordLen   = 8
	passwordSpecials = `!@#$%^&*(),.?":{}|<>`
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// HashPassword returns "salt:hash" where salt is 32 hex characters whose
// ASCII bytes seed PBKDF2-HMAC-SHA256.
func HashPassword(password string) (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)
	return salt + ":" + derive(password, salt), nil
}

func VerifyPassword(password, stored string) bool {
	salt, want, ok := strings.Cut(stored, ":")
	if !ok || salt == "" || want == "" {
		return false
	}
	got := derive(password, salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword enforces length plus one upper, lower, digit and special.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return apierr.Invalid("weak_password", fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	switch {
	case !upper:
		return apierr.Invalid("weak_password", "password must contain an uppercase letter")
	case !lower:
		return apierr.Invalid("weak_password", "password must contain a lowercase letter")
	case !digit:
		return apierr.Invalid("weak_password", "password must contain a digit")
	case !special:
		return apierr.Invalid("weak_password", "password must contain a special character")
	}
	return nil
}

// SanitizeInput trims and HTML-escapes free text.
func SanitizeInput(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
