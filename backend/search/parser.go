// Package search parses the free-form query strings accepted by the
// list endpoints into structured filters.
package search

import (
	"strings"
	"unicode"
)

// Operator defines the type of comparison for a filter.
type Operator string

const (
	OpEqual          Operator = "="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpRange          Operator = ".." // for date:2025-04..2025-06
)

// Filter represents a structured criteria derived from the query string.
type Filter struct {
	Key      string   // e.g., "opponent", "date", "violations"
	Value    string   // e.g., "Falcons", "2025-05-01", "true"
	MaxValue string   // Used only for OpRange
	Operator Operator // e.g., "=", ">="
}

// Query represents the parsed search query.
type Query struct {
	Filters  []Filter
	FreeText []string
}

// comparison prefixes ordered so two-character operators are tried
// before their one-character prefixes.
var opPrefixes = []struct {
	prefix string
	op     Operator
}{
	{">=", OpGreaterOrEqual},
	{"<=", OpLessOrEqual},
	{">", OpGreater},
	{"<", OpLess},
}

// Parse parses a search query string into a structured Query object.
// It handles:
// - quoted strings (key:"value with spaces")
// - key:value pairs
// - comparison operators and ranges for ordered values (mainly dates)
// - flags (violations:true)
func Parse(input string) Query {
	q := Query{
		Filters:  make([]Filter, 0),
		FreeText: make([]string, 0),
	}

	for _, token := range tokenize(input) {
		if f, ok := parseFilter(token); ok {
			q.Filters = append(q.Filters, f)
		} else {
			q.FreeText = append(q.FreeText, stripQuotes(token))
		}
	}

	return q
}

// parseFilter tries to interpret a token as key:value. Tokens that do
// not fit the shape fall back to free text.
func parseFilter(token string) (Filter, bool) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return Filter{}, false
	}
	key := strings.ToLower(strings.TrimSpace(parts[0]))
	val := strings.TrimSpace(parts[1])

	if key == "" || val == "" {
		// e.g. "foo:" or ":bar"
		return Filter{}, false
	}

	// An unquoted colon inside the value is ambiguous (e.g.
	// broken:range:..), keep it as free text.
	if strings.Contains(val, ":") && !strings.HasPrefix(val, "\"") && !strings.HasPrefix(val, "'") {
		return Filter{}, false
	}

	if lo, hi, ok := strings.Cut(val, ".."); ok {
		return Filter{
			Key:      key,
			Value:    lo,
			MaxValue: hi,
			Operator: OpRange,
		}, true
	}

	for _, p := range opPrefixes {
		if strings.HasPrefix(val, p.prefix) {
			return Filter{
				Key:      key,
				Value:    stripQuotes(strings.TrimPrefix(val, p.prefix)),
				Operator: p.op,
			}, true
		}
	}

	return Filter{
		Key:      key,
		Value:    stripQuotes(val),
		Operator: OpEqual,
	}, true
}

// tokenize splits the string by spaces, respecting quotes.
func tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, r := range input {
		switch {
		case inQuote:
			current.WriteRune(r)
			if r == quoteChar {
				inQuote = false
			}
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		case r == '"' || r == '\'':
			inQuote = true
			quoteChar = r
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first := s[0]
		last := s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
