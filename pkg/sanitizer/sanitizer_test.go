package sanitizer

import "testing"

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  Annual Gala  ", "Annual Gala"},
		{"collapses runs", "Annual \t\t Gala", "Annual Gala"},
		{"keeps casing", "Corporate Retreat", "Corporate Retreat"},
		{"strips control chars", "Annual\x00 Gala\x07", "Annual Gala"},
		{"empty stays empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.input); got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeTitle_Idempotent(t *testing.T) {
	input := "  Product   Launch "
	once := SanitizeTitle(input)
	twice := SanitizeTitle(once)
	if once != twice {
		t.Errorf("sanitization not idempotent: %q vs %q", once, twice)
	}
}

func TestSanitizeNotes_PreservesNewlines(t *testing.T) {
	got := SanitizeNotes("line one\nline two\x00\n  ")
	want := "line one\nline two"
	if got != want {
		t.Errorf("SanitizeNotes() = %q, want %q", got, want)
	}
}

func TestSanitizeEventType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Gala", "gala"},
		{"collapses spacing and punctuation", "Corporate Retreat", "corporateretreat"},
		{"hyphenated tag", "corporate-retreat", "corporateretreat"},
		{"unicode letters survive", "Fête", "fête"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeEventType(tt.input); got != tt.want {
				t.Errorf("SanitizeEventType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
