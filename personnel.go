package servicedoc

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExtractPersonnel finds the first roster name mentioned in text.
//
// Roster order is priority order. For each name the variants NAME, name,
// "by NAME", "read by NAME", "led by NAME", "- NAME" and "(NAME)" are tested
// case-insensitively; the first hit is removed from text (first occurrence)
// and the remainder is trimmed of hyphens, commas and whitespace. Without a
// hit, text is returned unchanged with an empty name.
func ExtractPersonnel(text string, roster []string) (cleaned string, name string) {
	for _, person := range roster {
		if strings.TrimSpace(person) == "" {
			continue
		}
		for _, variant := range personnelVariants(person) {
			start, end := indexFold(text, variant)
			if start < 0 {
				continue
			}
			return trimSeparators(text[:start] + text[end:]), person
		}
	}
	return text, ""
}

// indexFold returns the byte span of the first case-insensitive occurrence
// of substr in s, or -1, -1.
func indexFold(s, substr string) (start, end int) {
	n := utf8.RuneCountInString(substr)
	for i := range s {
		j := i
		for k := 0; k < n && j < len(s); k++ {
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
		}
		if strings.EqualFold(s[i:j], substr) {
			return i, j
		}
	}
	return -1, -1
}

func personnelVariants(person string) []string {
	return []string{
		person,
		strings.ToLower(person),
		"by " + person,
		"read by " + person,
		"led by " + person,
		"- " + person,
		"(" + person + ")",
	}
}

// trimSeparators strips leading and trailing hyphens, commas and whitespace.
func trimSeparators(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == '-' || r == ',' || unicode.IsSpace(r)
	})
}

// PersonnelService stores the ordered roster of people who lead service items.
type PersonnelService interface {
	// Roster returns the stored names in priority order.
	Roster(ctx context.Context) ([]string, error)

	// ReplaceRoster replaces the stored roster. Blank names are dropped and
	// duplicates keep their first position.
	ReplaceRoster(ctx context.Context, names []string) error
}

// NormalizeRoster trims names, drops blanks and removes later duplicates.
func NormalizeRoster(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
