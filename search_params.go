package weburl

import (
	"iter"
	"slices"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// SearchParams an ordered list of name-value pairs. A SearchParams
// returned by URL.SearchParams writes every change back to the URL query.
type SearchParams struct {
	list []Pair
	url  *URL
}

// NewSearchParams parses the query, a leading '?' is ignored.
func NewSearchParams(query string) *SearchParams {
	return &SearchParams{list: ParseForm(strings.TrimPrefix(query, "?"))}
}

// SearchParamsFromPairs creates a SearchParams from [name, value] tuples.
func SearchParamsFromPairs(pairs [][]string) (*SearchParams, error) {
	s := &SearchParams{list: make([]Pair, 0, len(pairs))}
	for _, pair := range pairs {
		if len(pair) != 2 {
			return nil, ErrInvalidTuple
		}
		s.list = append(s.list, Pair{pair[0], pair[1]})
	}
	return s, nil
}

// SearchParamsFromMap creates a SearchParams from the map, values are
// converted with cast.ToString. The pairs follow keys if given, otherwise
// the sorted map keys.
func SearchParamsFromMap(m map[string]any, keys ...string) *SearchParams {
	if len(keys) == 0 {
		keys = make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	s := &SearchParams{list: make([]Pair, 0, len(keys))}
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		s.list = append(s.list, Pair{k, cast.ToString(v)})
	}
	return s
}

// reset replaces the list with the parsed query.
func (s *SearchParams) reset(query *string) {
	if query == nil {
		s.list = nil
		return
	}
	s.list = ParseForm(*query)
}

// update writes the list back to the owning URL.
func (s *SearchParams) update() {
	if s.url == nil {
		return
	}
	serialized := SerializeForm(s.list)
	if serialized == "" {
		s.url.query = nil
		s.url.stripTrailingSpaces()
		return
	}
	s.url.query = &serialized
}

// URL returns the owning URL, or nil.
func (s *SearchParams) URL() *URL { return s.url }

// Size returns the number of pairs.
func (s *SearchParams) Size() int { return len(s.list) }

// At returns the pair at index i.
func (s *SearchParams) At(i int) (Pair, bool) {
	if i < 0 || i >= len(s.list) {
		return Pair{}, false
	}
	return s.list[i], true
}

// Pairs returns a copy of the pairs.
func (s *SearchParams) Pairs() []Pair { return slices.Clone(s.list) }

// Append appends a pair.
func (s *SearchParams) Append(name, value string) {
	s.list = append(s.list, Pair{name, value})
	s.update()
}

// matches reports whether the pair has the name, and the value if given.
func matches(pair Pair, name string, value []string) bool {
	return pair.Name == name && (len(value) == 0 || pair.Value == value[0])
}

// Delete removes all pairs with the name, and the value if given.
func (s *SearchParams) Delete(name string, value ...string) {
	s.list = slices.DeleteFunc(s.list, func(p Pair) bool { return matches(p, name, value) })
	s.update()
}

// Get returns the value of the first pair with the name.
func (s *SearchParams) Get(name string) (string, bool) {
	for _, pair := range s.list {
		if pair.Name == name {
			return pair.Value, true
		}
	}
	return "", false
}

// GetAll returns the values of all pairs with the name.
func (s *SearchParams) GetAll(name string) []string {
	values := make([]string, 0)
	for _, pair := range s.list {
		if pair.Name == name {
			values = append(values, pair.Value)
		}
	}
	return values
}

// Has reports whether a pair with the name, and the value if given, exists.
func (s *SearchParams) Has(name string, value ...string) bool {
	return slices.ContainsFunc(s.list, func(p Pair) bool { return matches(p, name, value) })
}

// Set sets the value of the first pair with the name and removes
// the others, or appends a new pair.
func (s *SearchParams) Set(name, value string) {
	i := slices.IndexFunc(s.list, func(p Pair) bool { return p.Name == name })
	if i == -1 {
		s.Append(name, value)
		return
	}
	s.list[i].Value = value
	tail := slices.DeleteFunc(s.list[i+1:], func(p Pair) bool { return p.Name == name })
	s.list = s.list[:i+1+len(tail)]
	s.update()
}

// compareUTF16 compares two strings by their UTF-16 code units.
func compareUTF16(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if ra != rb {
			return slices.Compare(utf16.AppendRune(nil, ra), utf16.AppendRune(nil, rb))
		}
		a, b = a[na:], b[nb:]
	}
	return len(a) - len(b)
}

// Sort sorts the pairs by name in UTF-16 code unit order, keeping
// the relative order of pairs with the same name.
func (s *SearchParams) Sort() {
	slices.SortStableFunc(s.list, func(a, b Pair) int { return compareUTF16(a.Name, b.Name) })
	s.update()
}

// String returns the application/x-www-form-urlencoded serialization.
func (s *SearchParams) String() string { return SerializeForm(s.list) }

// Entries returns an iterator over the pairs. The iterator reads the
// list by index so changes made during iteration are observed.
func (s *SearchParams) Entries() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i := 0; i < len(s.list); i++ {
			if !yield(s.list[i].Name, s.list[i].Value) {
				return
			}
		}
	}
}

// Keys returns an iterator over the names.
func (s *SearchParams) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range s.Entries() {
			if !yield(name) {
				return
			}
		}
	}
}

// Values returns an iterator over the values.
func (s *SearchParams) Values() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, value := range s.Entries() {
			if !yield(value) {
				return
			}
		}
	}
}
