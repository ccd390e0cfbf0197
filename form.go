package weburl

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Pair a name-value pair of an application/x-www-form-urlencoded string.
type Pair struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// decodeFormComponent replaces '+' with space, percent-decodes and
// replaces invalid UTF-8 with U+FFFD.
func decodeFormComponent(s string) string {
	s = PercentDecode(strings.ReplaceAll(s, "+", " "))
	if utf8.ValidString(s) {
		return s
	}
	decoded, err := unicode.UTF8.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, "\uFFFD")
	}
	return decoded
}

// ParseForm parses an application/x-www-form-urlencoded string.
func ParseForm(s string) []Pair {
	var pairs []Pair
	for len(s) > 0 {
		var seq string
		seq, s, _ = strings.Cut(s, "&")
		if seq == "" {
			continue
		}
		name, value, _ := strings.Cut(seq, "=")
		pairs = append(pairs, Pair{decodeFormComponent(name), decodeFormComponent(value)})
	}
	return pairs
}

// SerializeForm serializes the pairs as application/x-www-form-urlencoded.
func SerializeForm(pairs []Pair) string {
	var b strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		appendEncoded(&b, pair.Name, FormSet, true)
		b.WriteByte('=')
		appendEncoded(&b, pair.Value, FormSet, true)
	}
	return b.String()
}
