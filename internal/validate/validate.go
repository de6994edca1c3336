package validate

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reSlug     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// Query normalizes a free-text catalogue query: trimmed, lowercased, and
// silently truncated to 60 characters. Anything beyond the cap never
// participates in matching.
func Query(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		s = s[:60]
	}
	return strings.ToLower(s)
}

// PriceBound parses a price filter bound. Inputs longer than 6 characters
// or that fail to parse are dropped, not rejected; the caller treats a nil
// result as "no bound".
func PriceBound(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 6 {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func Slug(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, reSlug.MatchString(s)
}

func Label(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > max {
		return "", false
	}
	return s, true
}

func Rarity(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "common", "rare", "legendary":
		return s, true
	}
	return "", false
}

// Price validates an item price: positive, at most 7 digits with 2
// decimal places.
func Price(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 10 {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || d.Exponent() < -2 {
		return decimal.Zero, false
	}
	if d.GreaterThanOrEqual(decimal.New(1, 5)) { // max_digits=7, decimal_places=2
		return decimal.Zero, false
	}
	return d, true
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces a simple length window.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 64
}
