package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var yearRegex = regexp.MustCompile(`\s*[\(\[]((?:18|19|20)\d{2})[\)\]]\s*$`)

// SplitTitleYear separates a trailing year from a catalog title.
// "Heat (1995)" yields ("Heat", 1995); titles without a year yield 0.
func SplitTitleYear(title string) (string, int) {
	matches := yearRegex.FindStringSubmatchIndex(title)
	if matches == nil {
		return strings.TrimSpace(title), 0
	}

	name := strings.TrimSpace(title[:matches[0]])
	if name == "" {
		return strings.TrimSpace(title), 0
	}
	year, err := strconv.Atoi(title[matches[2]:matches[3]])
	if err != nil {
		return strings.TrimSpace(title), 0
	}
	return name, year
}

// NormalizeTitle lowercases a title and strips accents and punctuation so
// "Amélie" and "amelie" compare equal
func NormalizeTitle(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case unicode.IsSpace(r) || r == '-' || r == ':':
			if !space && b.Len() > 0 {
				b.WriteRune(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// ParseReleaseDate parses a YYYY-MM-DD date, returning nil when empty or malformed
func ParseReleaseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &date
}
