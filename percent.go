package weburl

import "strings"

// EncodeSet is a set of bytes which must be percent-encoded.
// ref: https://url.spec.whatwg.org/#percent-encoded-bytes
type EncodeSet struct{ bits [4]uint64 }

// Contains reports whether the byte c is in the set.
func (s *EncodeSet) Contains(c byte) bool { return s.bits[c>>6]&(1<<(c&63)) != 0 }

func (s *EncodeSet) add(c byte) { s.bits[c>>6] |= 1 << (c & 63) }

// extend returns a copy of s with the given ASCII characters added.
func (s EncodeSet) extend(chars string) *EncodeSet {
	for i := 0; i < len(chars); i++ {
		s.add(chars[i])
	}
	return &s
}

func c0ControlSet() EncodeSet {
	var s EncodeSet
	for c := 0; c < 0x20; c++ {
		s.add(byte(c))
	}
	for c := 0x7F; c <= 0xFF; c++ {
		s.add(byte(c))
	}
	return s
}

var (
	// C0ControlSet C0 controls and all code points greater than U+007E (~).
	C0ControlSet = func() *EncodeSet { s := c0ControlSet(); return &s }()
	// FragmentSet the fragment percent-encode set.
	FragmentSet = C0ControlSet.extend(" \"<>`")
	// QuerySet the query percent-encode set.
	QuerySet = C0ControlSet.extend(" \"#<>")
	// SpecialQuerySet the query set and U+0027 (').
	SpecialQuerySet = QuerySet.extend("'")
	// PathSet the path percent-encode set.
	PathSet = QuerySet.extend("?`{}")
	// UserinfoSet the userinfo percent-encode set.
	UserinfoSet = PathSet.extend("/:;=@[\\]^|")
	// ComponentSet the component percent-encode set.
	ComponentSet = UserinfoSet.extend("$%&+,")
	// FormSet the application/x-www-form-urlencoded percent-encode set.
	FormSet = ComponentSet.extend("!'()~")
)

const upperhex = "0123456789ABCDEF"

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// PercentEncode UTF-8 percent-encodes every byte of s contained in set.
func PercentEncode(s string, set *EncodeSet) string {
	var b strings.Builder
	appendEncoded(&b, s, set, false)
	return b.String()
}

// appendEncoded writes s to b, percent-encoding the bytes in set.
// If spaceAsPlus, U+0020 is written as '+'.
func appendEncoded(b *strings.Builder, s string, set *EncodeSet, spaceAsPlus bool) {
	escape := 0
	for i := 0; i < len(s); i++ {
		if set.Contains(s[i]) {
			escape += 2
		}
	}
	if escape == 0 {
		b.WriteString(s)
		return
	}

	b.Grow(len(s) + escape)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case spaceAsPlus && c == ' ':
			b.WriteByte('+')
		case set.Contains(c):
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0F])
		default:
			b.WriteByte(c)
		}
	}
}

// PercentDecode decodes every well-formed %XX triplet of s.
// Malformed sequences are left verbatim, so it never fails.
func PercentDecode(s string) string {
	i := strings.IndexByte(s, '%')
	if i == -1 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for ; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
