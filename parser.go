package weburl

import (
	"strings"
	"unicode/utf8"
)

// Parser parses URLs. The zero value uses the UTS46 IDNA profile.
type Parser struct {
	// IDNA converts non-ASCII domains, nil means UTS46.
	IDNA IDNA
}

// DefaultParser is the default Parser used by Parse.
var DefaultParser = &Parser{}

func (p *Parser) idna() IDNA {
	if p == nil || p.IDNA == nil {
		return UTS46
	}
	return p.IDNA
}

// Parse parses the input against an optional base URL.
func Parse(input string, base *URL) (*URL, error) { return DefaultParser.Parse(input, base) }

// ParseRef parses the input against the base string, an empty base means none.
func ParseRef(input, base string) (*URL, error) { return DefaultParser.ParseRef(input, base) }

// CanParse reports whether the input parses against the base string.
func CanParse(input, base string) bool {
	_, err := DefaultParser.ParseRef(input, base)
	return err == nil
}

// MustParse is like Parse but panics if the input cannot be parsed.
func MustParse(input string) *URL {
	u, err := Parse(input, nil)
	if err != nil {
		panic(err)
	}
	return u
}

// Parse see Parse.
func (p *Parser) Parse(input string, base *URL) (*URL, error) {
	u := &URL{port: -1, parser: p}
	if err := p.run(input, base, u, stateNone); err != nil {
		e := &ParseError{Input: input, Err: err}
		if base != nil {
			e.Base = base.Href()
		}
		return nil, e
	}
	return u, nil
}

// ParseRef see ParseRef.
func (p *Parser) ParseRef(input, base string) (*URL, error) {
	if base == "" {
		return p.Parse(input, nil)
	}
	b, err := p.Parse(base, nil)
	if err != nil {
		return nil, &ParseError{Input: input, Base: base, Err: err}
	}
	return p.Parse(input, b)
}

const eof rune = -1

// parser the state of a single basic URL parser run.
type parser struct {
	conf     *Parser
	input    []rune
	pointer  int
	buf      strings.Builder
	url      *URL
	base     *URL
	state    state
	override state

	atSignSeen        bool
	insideBrackets    bool
	passwordTokenSeen bool
}

func isC0ControlOrSpace(r rune) bool { return r >= 0 && r <= 0x20 }

func isTabOrNewline(r rune) bool { return r == '\t' || r == '\n' || r == '\r' }

// run runs the basic URL parser over input, writing into u.
// With an override the run starts in that state and may stop early.
func (p *Parser) run(input string, base, u *URL, override state) error {
	if override == stateNone {
		input = strings.TrimFunc(input, isC0ControlOrSpace)
	}
	if strings.ContainsAny(input, "\t\n\r") {
		input = strings.Map(func(r rune) rune {
			if isTabOrNewline(r) {
				return -1
			}
			return r
		}, input)
	}

	ps := &parser{
		conf:     p,
		input:    []rune(input),
		url:      u,
		base:     base,
		state:    override,
		override: override,
	}
	if ps.state == stateNone {
		ps.state = stateSchemeStart
	}
	return ps.loop()
}

func (p *parser) loop() error {
	for {
		c := eof
		if p.pointer < len(p.input) {
			c = p.input[p.pointer]
		}
		stop, err := stateFuncs[p.state](p, c)
		if err != nil {
			return err
		}
		if stop || p.pointer >= len(p.input) {
			return nil
		}
		p.pointer++
	}
}

// remaining returns the code points after the pointer.
func (p *parser) remaining() []rune {
	if p.pointer+1 >= len(p.input) {
		return nil
	}
	return p.input[p.pointer+1:]
}

func (p *parser) remainingStartsWith(s string) bool {
	rest := p.remaining()
	for i, r := range []rune(s) {
		if i >= len(rest) || rest[i] != r {
			return false
		}
	}
	return true
}

func (p *parser) hasOverride() bool { return p.override != stateNone }

func (p *parser) special() bool { return isSpecial(p.url.scheme) }

// isSlash reports whether c ends a path segment for the current scheme.
func (p *parser) isSlash(c rune) bool { return c == '/' || (c == '\\' && p.special()) }

// appendRune UTF-8 percent-encodes the code point into b.
func appendRune(b *strings.Builder, c rune, set *EncodeSet) {
	if c < utf8.RuneSelf && !set.Contains(byte(c)) {
		b.WriteByte(byte(c))
		return
	}
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], c)
	for _, x := range tmp[:n] {
		if set.Contains(x) {
			b.WriteByte('%')
			b.WriteByte(upperhex[x>>4])
			b.WriteByte(upperhex[x&0x0F])
		} else {
			b.WriteByte(x)
		}
	}
}

func isASCIIAlpha(r rune) bool { return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') }

func isASCIIAlphanumeric(r rune) bool { return isASCIIAlpha(r) || ('0' <= r && r <= '9') }

func toLower(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}

// isWindowsDriveLetter reports whether s is a letter followed by ':' or '|',
// normalized only accepts ':'.
func isWindowsDriveLetter(s string, normalized bool) bool {
	if len(s) != 2 || !isASCIIAlpha(rune(s[0])) {
		return false
	}
	return s[1] == ':' || (!normalized && s[1] == '|')
}

// startsWithWindowsDriveLetter reports whether the code points start with
// a drive letter that is the whole segment.
func startsWithWindowsDriveLetter(rs []rune) bool {
	if len(rs) < 2 || !isASCIIAlpha(rs[0]) || (rs[1] != ':' && rs[1] != '|') {
		return false
	}
	if len(rs) == 2 {
		return true
	}
	switch rs[2] {
	case '/', '\\', '?', '#':
		return true
	}
	return false
}

func isSingleDot(s string) bool { return s == "." || strings.EqualFold(s, "%2e") }

func isDoubleDot(s string) bool {
	switch strings.ToLower(s) {
	case "..", ".%2e", "%2e.", "%2e%2e":
		return true
	}
	return false
}
