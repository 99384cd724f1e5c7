package search

import (
	"strings"

	"github.com/shilpkaar/marketplace-api/internal/domain"
)

// productText flattens the searchable fields of p into one line: name,
// category, and tags first, then the description.
func productText(p domain.Product) string {
	parts := make([]string, 0, 3+len(p.Tags))
	parts = append(parts, p.Name, p.Category)
	parts = append(parts, p.Tags...)
	parts = append(parts, p.Description)

	var b strings.Builder
	for _, s := range parts {
		s = strings.TrimSpace(normalizeWhitespace(s))
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}

// normalizeWhitespace collapses runs of blanks and newlines into one space.
func normalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
