package utils

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPhone    = errors.New("phone must be a 10-digit number")
	ErrInvalidName     = errors.New("name must be at least 3 characters")
	ErrInvalidMessName = errors.New("mess name must be at least 3 characters")
	ErrInvalidRate     = errors.New("rate must be a non-negative number")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidMonth    = errors.New("month must be between 0 and 11")
	ErrInvalidRole     = errors.New("role must be OWNER or STUDENT")
)

const (
	phoneDigits = 10
	minNameLen  = 3
)

// NormalizePhone strips every non-digit character.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone checks a phone that has already been normalized.
func ValidatePhone(phone string) error {
	if len(phone) != phoneDigits {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateName checks a person's display name.
func ValidateName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < minNameLen {
		return ErrInvalidName
	}
	return nil
}

// ValidateMessName checks the name given to a new or renamed mess.
func ValidateMessName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < minNameLen {
		return ErrInvalidMessName
	}
	return nil
}

// ParseRate parses a per-meal rate and rejects negatives.
func ParseRate(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero, ErrInvalidRate
	}
	return d, nil
}

// ValidateDate checks a YYYY-MM-DD calendar day.
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ValidateMonth checks a zero-based month index.
func ValidateMonth(month int) error {
	if month < 0 || month > 11 {
		return ErrInvalidMonth
	}
	return nil
}
