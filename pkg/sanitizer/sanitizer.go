package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reTag = regexp.MustCompile(`[^0-9\p{L}]+`)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}
	return result.String()
}

// SanitizeTitle canonicalizes a booking title: whitespace collapsed, control
// characters stripped, original casing kept.
func SanitizeTitle(input string) string {
	p := Pipeline{
		stripControl,
		TrimAndNormalize,
	}
	return p.Apply(input)
}

// SanitizeNotes behaves like SanitizeTitle but preserves newlines so
// multi-line notes stay readable.
func SanitizeNotes(input string) string {
	p := Pipeline{
		stripControlKeepNewlines,
		func(s string) string { return strings.TrimSpace(s) },
	}
	return p.Apply(input)
}

// SanitizeEventType lowercases the event category tag and drops everything
// that is not a letter or digit, so "Corporate Retreat" and "corporate-retreat"
// collapse to the same tag.
func SanitizeEventType(input string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToLower,
		func(s string) string { return reTag.ReplaceAllString(s, "") },
	}
	return p.Apply(input)
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func stripControlKeepNewlines(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
