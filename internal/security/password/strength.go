package password

import (
	"errors"
	"strings"
)

const MinLen = 8

var ErrTooShort = errors.New("password must be at least 8 characters")

// Warning carries a warn-only strength verdict back to the client.
type Warning struct {
	Score       int      `json:"score"` // 0..4
	Message     string   `json:"message,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Check trims the password and blocks only on MinLen. Weak but acceptable
// passwords come back with a warning; hints (username, email) lower the
// score when the password contains them.
func Check(pwd string, hints ...string) (string, *Warning, error) {
	trimmed := strings.TrimSpace(pwd)
	if len(trimmed) < MinLen {
		return trimmed, nil, ErrTooShort
	}
	score, msg, sugg := strength(trimmed, hints...)
	if score >= 3 {
		return trimmed, nil, nil
	}
	return trimmed, &Warning{Score: score, Message: msg, Suggestions: sugg}, nil
}

func strength(pwd string, hints ...string) (int, string, []string) {
	l := len(pwd)
	classes := charClasses(pwd)

	lower := strings.ToLower(pwd)
	for _, h := range hints {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" && strings.Contains(lower, h) && l < 16 {
			if classes > 1 {
				classes--
			}
			break
		}
	}

	switch {
	case l >= 14 && classes >= 3:
		return 4, "", nil
	case l >= 12 && classes >= 3:
		return 3, "", nil
	case l >= 10 && classes >= 2:
		return 2, "Short or low variety.", []string{"Add length and mix letters, numbers and symbols."}
	default:
		return 1, "Too short or predictable.", []string{"Use at least 12 characters with mixed types."}
	}
}

func charClasses(pwd string) int {
	var hasL, hasU, hasD, hasS bool
	for _, r := range pwd {
		switch {
		case r >= 'a' && r <= 'z':
			hasL = true
		case r >= 'A' && r <= 'Z':
			hasU = true
		case r >= '0' && r <= '9':
			hasD = true
		default:
			hasS = true
		}
	}
	n := 0
	for _, b := range []bool{hasL, hasU, hasD, hasS} {
		if b {
			n++
		}
	}
	return n
}
