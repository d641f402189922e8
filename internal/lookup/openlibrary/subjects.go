package openlibrary

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeSubjects folds raw subject strings into stable ASCII-ish tags
// ([a-z0-9] with single '-' separators), dedupes them, and caps the count.
// Open Library subjects arrive in mixed case and with accents; normalizing
// them keeps the stored payload comparable across books.
func NormalizeSubjects(raw []string, limit int) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, limit)
	for _, s := range raw {
		tag := subjectTag(s)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func subjectTag(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Normalize and strip combining marks (accent folding)
	t := transform.Chain(
		norm.NFKD,
		transform.RemoveFunc(func(r rune) bool { return unicode.Is(unicode.Mn, r) }),
		norm.NFC,
	)
	normed, _, _ := transform.String(t, s)

	var b strings.Builder
	b.Grow(len(normed))
	prevDash := false

	for _, r := range normed {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}

		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '_' || r == '-' || r == '/' || unicode.IsSpace(r):
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		case r == '\'' || r == '’':
			// drop apostrophes entirely (no hyphen)
		default:
			// drop other punctuation/symbols
		}
	}

	out := strings.Trim(b.String(), "-")
	for strings.Contains(out, "--") { // safety
		out = strings.ReplaceAll(out, "--", "-")
	}
	return out
}
