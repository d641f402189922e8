package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalid = errors.New("invalid")

	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	isbn10Re = regexp.MustCompile(`^[0-9]{9}[0-9X]$`)
	isbn13Re = regexp.MustCompile(`^[0-9]{13}$`)
	uuidRe   = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// RequireBounded trims and ensures length bounds.
func RequireBounded(name, s string, min, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < min || utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// OptionalBounded trims and enforces only the upper bound; empty stays empty.
func OptionalBounded(name, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must be at most " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// IntInRange checks inclusive bounds.
func IntInRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return errors.New(name + " must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi))
	}
	return nil
}

// NormalizeISBN strips hyphens/spaces and checks the 10- or 13-digit shape
// (trailing X allowed for ISBN-10). Returns the cleaned value.
func NormalizeISBN(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return "", errors.New("isbn is empty")
	}
	if !isbn10Re.MatchString(s) && !isbn13Re.MatchString(s) {
		return "", errors.New("isbn must be 10 or 13 digits")
	}
	return s, nil
}

func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

func IsUUID(s string) bool { return uuidRe.MatchString(s) }

// ClampPage parses page/page_size query values and clamps them instead of
// rejecting: page >= 1, 1 <= size <= max (default def).
func ClampPage(pageRaw, sizeRaw string, def, max int) (int, int) {
	page := 1
	if v, err := strconv.Atoi(strings.TrimSpace(pageRaw)); err == nil && v >= 1 {
		page = v
	}
	size := def
	if v, err := strconv.Atoi(strings.TrimSpace(sizeRaw)); err == nil {
		switch {
		case v < 1:
			size = 1
		case v > max:
			size = max
		default:
			size = v
		}
	}
	return page, size
}

// ParseBoolParam maps ""->nil, true-ish->true, everything else->false.
func ParseBoolParam(s string) *bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	b := s == "1" || strings.EqualFold(s, "true") || strings.EqualFold(s, "yes")
	return &b
}
