// Package ingest loads the recipe corpus from the food.com CSV dump and
// converts its loosely-typed columns into the strict domain.Recipe model.
// Parsing fails closed: rows missing an id, a title, or every ingredient are
// dropped and counted rather than propagated half-formed into the index.
package ingest

import "strings"

// ParseRList parses the dataset's R-style list notation c("a", "b") into a
// string slice. Bare quoted strings and plain values are treated as
// single-element lists; empty and NA values yield nil. Quoting may use
// double or single quotes and backslash escapes.
func ParseRList(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") || s == "character(0)" {
		return nil
	}

	if !strings.HasPrefix(s, "c(") || !strings.HasSuffix(s, ")") {
		return []string{unquote(s)}
	}

	content := strings.TrimSpace(s[2 : len(s)-1])
	if content == "" {
		return nil
	}

	var (
		items   []string
		current strings.Builder
		quote   rune
		escaped bool
	)
	flush := func() {
		item := unquote(strings.TrimSpace(current.String()))
		if item != "" {
			items = append(items, item)
		}
		current.Reset()
	}
	for _, r := range content {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			current.WriteRune(r)
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			current.WriteRune(r)
		case r == ',':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return items
}

// unquote strips one matching layer of surrounding quotes and unescapes
// backslash sequences inside it.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	if strings.ContainsRune(s, '\\') {
		s = strings.ReplaceAll(s, `\"`, `"`)
		s = strings.ReplaceAll(s, `\'`, `'`)
		s = strings.ReplaceAll(s, `\\`, `\`)
	}
	return strings.TrimSpace(s)
}
