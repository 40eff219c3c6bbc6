// Package validation holds input validation rules for signup and profile
// updates.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

const (
	MinPasswordLen = 12
	MaxPasswordLen = 128
	MinUsernameLen = 3
	MaxUsernameLen = 30
	MaxEmailLen    = 254
)

// ValidatePassword enforces the password policy: length bounds plus at least
// one upper, lower, digit and special character.
func ValidatePassword(password string) error {
	length := len([]rune(password))
	if length < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if length > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLen)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain an uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain a lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain a digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain a special character")
	}
	return nil
}

// ValidateUsername allows letters, digits, underscore and dash, and requires
// the name to start and end with a letter or digit.
func ValidateUsername(username string) error {
	length := len(username)
	if length < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters", MinUsernameLen)
	}
	if length > MaxUsernameLen {
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLen)
	}

	for _, r := range username {
		if !isUsernameRune(r) {
			return fmt.Errorf("username may only contain letters, digits, underscores and dashes")
		}
	}
	if !isAlnum(rune(username[0])) || !isAlnum(rune(username[length-1])) {
		return fmt.Errorf("username must start and end with a letter or digit")
	}
	return nil
}

func isUsernameRune(r rune) bool {
	return isAlnum(r) || r == '_' || r == '-'
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// ValidateEmail checks RFC 5322 address syntax plus a few practical rules
// the parser alone does not enforce.
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLen)
	}
	if strings.ContainsAny(email, " \t") {
		return fmt.Errorf("email must not contain whitespace")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}

	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if domain == "" || strings.HasSuffix(domain, ".") || !strings.Contains(domain, ".") {
		return fmt.Errorf("invalid email domain")
	}
	return nil
}
