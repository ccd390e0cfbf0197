package weburl

import (
	"strings"
	"unicode/utf8"
)

// state a state of the basic URL parser.
type state uint8

const (
	stateNone state = iota
	stateSchemeStart
	stateScheme
	stateNoScheme
	stateSpecialRelativeOrAuthority
	statePathOrAuthority
	stateRelative
	stateRelativeSlash
	stateSpecialAuthoritySlashes
	stateSpecialAuthorityIgnoreSlashes
	stateAuthority
	stateHost
	stateHostname
	statePort
	stateFile
	stateFileSlash
	stateFileHost
	statePathStart
	statePath
	stateOpaquePath
	stateQuery
	stateFragment
)

var stateNames = [...]string{
	stateNone:                          "none",
	stateSchemeStart:                   "scheme start",
	stateScheme:                        "scheme",
	stateNoScheme:                      "no scheme",
	stateSpecialRelativeOrAuthority:    "special relative or authority",
	statePathOrAuthority:               "path or authority",
	stateRelative:                      "relative",
	stateRelativeSlash:                 "relative slash",
	stateSpecialAuthoritySlashes:       "special authority slashes",
	stateSpecialAuthorityIgnoreSlashes: "special authority ignore slashes",
	stateAuthority:                     "authority",
	stateHost:                          "host",
	stateHostname:                      "hostname",
	statePort:                          "port",
	stateFile:                          "file",
	stateFileSlash:                     "file slash",
	stateFileHost:                      "file host",
	statePathStart:                     "path start",
	statePath:                          "path",
	stateOpaquePath:                    "opaque path",
	stateQuery:                         "query",
	stateFragment:                      "fragment",
}

func (s state) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// stateFunc handles one code point, stop ends the run successfully.
type stateFunc func(p *parser, c rune) (stop bool, err error)

var stateFuncs [stateFragment + 1]stateFunc

func init() {
	stateFuncs = [...]stateFunc{
		stateSchemeStart:                   (*parser).schemeStart,
		stateScheme:                        (*parser).schemeState,
		stateNoScheme:                      (*parser).noScheme,
		stateSpecialRelativeOrAuthority:    (*parser).specialRelativeOrAuthority,
		statePathOrAuthority:               (*parser).pathOrAuthority,
		stateRelative:                      (*parser).relative,
		stateRelativeSlash:                 (*parser).relativeSlash,
		stateSpecialAuthoritySlashes:       (*parser).specialAuthoritySlashes,
		stateSpecialAuthorityIgnoreSlashes: (*parser).specialAuthorityIgnoreSlashes,
		stateAuthority:                     (*parser).authority,
		stateHost:                          (*parser).hostState,
		stateHostname:                      (*parser).hostState,
		statePort:                          (*parser).portState,
		stateFile:                          (*parser).file,
		stateFileSlash:                     (*parser).fileSlash,
		stateFileHost:                      (*parser).fileHost,
		statePathStart:                     (*parser).pathStart,
		statePath:                          (*parser).pathState,
		stateOpaquePath:                    (*parser).opaquePath,
		stateQuery:                         (*parser).queryState,
		stateFragment:                      (*parser).fragmentState,
	}
}

func (p *parser) schemeStart(c rune) (bool, error) {
	switch {
	case isASCIIAlpha(c):
		p.buf.WriteRune(toLower(c))
		p.state = stateScheme
	case !p.hasOverride():
		p.state = stateNoScheme
		p.pointer--
	default:
		return false, errOverride
	}
	return false, nil
}

func (p *parser) schemeState(c rune) (bool, error) {
	switch {
	case isASCIIAlphanumeric(c) || c == '+' || c == '-' || c == '.':
		p.buf.WriteRune(toLower(c))
		return false, nil
	case c == ':':
	case !p.hasOverride():
		p.buf.Reset()
		p.state = stateNoScheme
		p.pointer = -1
		return false, nil
	default:
		return false, errOverride
	}

	scheme := p.buf.String()
	u := p.url
	if p.hasOverride() {
		if isSpecial(u.scheme) != isSpecial(scheme) {
			return true, nil
		}
		if (u.hasCredentials() || u.port != -1) && scheme == "file" {
			return true, nil
		}
		if u.scheme == "file" && u.host.IsEmpty() {
			return true, nil
		}
	}
	u.scheme = scheme
	if p.hasOverride() {
		if u.port == defaultPort(scheme) {
			u.port = -1
		}
		return true, nil
	}
	p.buf.Reset()

	switch {
	case scheme == "file":
		p.state = stateFile
	case isSpecial(scheme) && p.base != nil && p.base.scheme == scheme:
		p.state = stateSpecialRelativeOrAuthority
	case isSpecial(scheme):
		p.state = stateSpecialAuthoritySlashes
	case p.remainingStartsWith("/"):
		p.state = statePathOrAuthority
		p.pointer++
	default:
		u.opaque = new(string)
		p.state = stateOpaquePath
	}
	return false, nil
}

func (p *parser) noScheme(c rune) (bool, error) {
	base := p.base
	switch {
	case base == nil || (base.opaque != nil && c != '#'):
		return false, errMissingScheme
	case base.opaque != nil && c == '#':
		p.url.scheme = base.scheme
		p.url.opaque = cloneString(base.opaque)
		p.url.query = cloneString(base.query)
		p.url.fragment = new(string)
		p.state = stateFragment
	case base.scheme != "file":
		p.state = stateRelative
		p.pointer--
	default:
		p.state = stateFile
		p.pointer--
	}
	return false, nil
}

func (p *parser) specialRelativeOrAuthority(c rune) (bool, error) {
	if c == '/' && p.remainingStartsWith("/") {
		p.state = stateSpecialAuthorityIgnoreSlashes
		p.pointer++
	} else {
		p.state = stateRelative
		p.pointer--
	}
	return false, nil
}

func (p *parser) pathOrAuthority(c rune) (bool, error) {
	if c == '/' {
		p.state = stateAuthority
	} else {
		p.state = statePath
		p.pointer--
	}
	return false, nil
}

func (p *parser) relative(c rune) (bool, error) {
	u, base := p.url, p.base
	u.scheme = base.scheme
	if p.isSlash(c) {
		p.state = stateRelativeSlash
		return false, nil
	}

	u.username, u.password = base.username, base.password
	u.host, u.port = cloneHost(base.host), base.port
	u.path = cloneSlice(base.path)
	u.query = cloneString(base.query)
	switch c {
	case '?':
		u.query = new(string)
		p.state = stateQuery
	case '#':
		u.fragment = new(string)
		p.state = stateFragment
	case eof:
	default:
		u.query = nil
		u.shortenPath()
		p.state = statePath
		p.pointer--
	}
	return false, nil
}

func (p *parser) relativeSlash(c rune) (bool, error) {
	switch {
	case p.special() && (c == '/' || c == '\\'):
		p.state = stateSpecialAuthorityIgnoreSlashes
	case c == '/':
		p.state = stateAuthority
	default:
		u, base := p.url, p.base
		u.username, u.password = base.username, base.password
		u.host, u.port = cloneHost(base.host), base.port
		p.state = statePath
		p.pointer--
	}
	return false, nil
}

func (p *parser) specialAuthoritySlashes(c rune) (bool, error) {
	if c == '/' && p.remainingStartsWith("/") {
		p.pointer++
	} else {
		p.pointer--
	}
	p.state = stateSpecialAuthorityIgnoreSlashes
	return false, nil
}

func (p *parser) specialAuthorityIgnoreSlashes(c rune) (bool, error) {
	if c != '/' && c != '\\' {
		p.state = stateAuthority
		p.pointer--
	}
	return false, nil
}

func (p *parser) authority(c rune) (bool, error) {
	switch {
	case c == '@':
		buf := p.buf.String()
		if p.atSignSeen {
			buf = "%40" + buf
		}
		p.atSignSeen = true
		var user, pass strings.Builder
		user.WriteString(p.url.username)
		pass.WriteString(p.url.password)
		for _, r := range buf {
			if r == ':' && !p.passwordTokenSeen {
				p.passwordTokenSeen = true
				continue
			}
			if p.passwordTokenSeen {
				appendRune(&pass, r, UserinfoSet)
			} else {
				appendRune(&user, r, UserinfoSet)
			}
		}
		p.url.username, p.url.password = user.String(), pass.String()
		p.buf.Reset()
	case c == eof || c == '/' || c == '?' || c == '#' || (c == '\\' && p.special()):
		if p.atSignSeen && p.buf.Len() == 0 {
			return false, errInvalidCredential
		}
		p.pointer -= utf8.RuneCountInString(p.buf.String()) + 1
		p.buf.Reset()
		p.state = stateHost
	default:
		p.buf.WriteRune(c)
	}
	return false, nil
}

func (p *parser) hostState(c rune) (bool, error) {
	u := p.url
	if p.hasOverride() && u.scheme == "file" {
		p.pointer--
		p.state = stateFileHost
		return false, nil
	}

	switch {
	case c == ':' && !p.insideBrackets:
		if p.buf.Len() == 0 {
			return false, errMissingHost
		}
		if p.override == stateHostname {
			return false, errOverride
		}
		host, err := p.conf.ParseHost(p.buf.String(), p.special())
		if err != nil {
			return false, err
		}
		u.host = host
		p.buf.Reset()
		p.state = statePort
	case c == eof || c == '/' || c == '?' || c == '#' || (c == '\\' && p.special()):
		p.pointer--
		if p.special() && p.buf.Len() == 0 {
			return false, errMissingHost
		}
		if p.hasOverride() && p.buf.Len() == 0 && (u.hasCredentials() || u.port != -1) {
			return false, errOverride
		}
		host, err := p.conf.ParseHost(p.buf.String(), p.special())
		if err != nil {
			return false, err
		}
		u.host = host
		p.buf.Reset()
		p.state = statePathStart
		if p.hasOverride() {
			return true, nil
		}
	default:
		if c == '[' {
			p.insideBrackets = true
		} else if c == ']' {
			p.insideBrackets = false
		}
		p.buf.WriteRune(c)
	}
	return false, nil
}

func (p *parser) portState(c rune) (bool, error) {
	switch {
	case '0' <= c && c <= '9':
		p.buf.WriteRune(c)
		return false, nil
	case c == eof || c == '/' || c == '?' || c == '#' || (c == '\\' && p.special()) || p.hasOverride():
		if p.buf.Len() != 0 {
			port := 0
			for _, d := range p.buf.String() {
				port = port*10 + int(d-'0')
				if port > 0xFFFF {
					return false, errInvalidPort
				}
			}
			if port == defaultPort(p.url.scheme) {
				port = -1
			}
			p.url.port = port
			p.buf.Reset()
			if p.hasOverride() {
				return true, nil
			}
		}
		if p.hasOverride() {
			return true, nil
		}
		p.state = statePathStart
		p.pointer--
		return false, nil
	}
	return false, errInvalidPort
}

func (p *parser) file(c rune) (bool, error) {
	u, base := p.url, p.base
	u.scheme = "file"
	u.host = &Host{Kind: HostEmpty}
	switch {
	case c == '/' || c == '\\':
		p.state = stateFileSlash
	case base != nil && base.scheme == "file":
		u.host = cloneHost(base.host)
		u.path = cloneSlice(base.path)
		u.query = cloneString(base.query)
		switch c {
		case '?':
			u.query = new(string)
			p.state = stateQuery
		case '#':
			u.fragment = new(string)
			p.state = stateFragment
		case eof:
		default:
			u.query = nil
			if !startsWithWindowsDriveLetter(p.input[p.pointer:]) {
				u.shortenPath()
			} else {
				u.path = nil
			}
			p.state = statePath
			p.pointer--
		}
	default:
		p.state = statePath
		p.pointer--
	}
	return false, nil
}

func (p *parser) fileSlash(c rune) (bool, error) {
	if c == '/' || c == '\\' {
		p.state = stateFileHost
		return false, nil
	}
	if base := p.base; base != nil && base.scheme == "file" {
		p.url.host = cloneHost(base.host)
		if !startsWithWindowsDriveLetter(p.input[p.pointer:]) &&
			len(base.path) > 0 && isWindowsDriveLetter(base.path[0], true) {
			p.url.path = append(p.url.path, base.path[0])
		}
	}
	p.state = statePath
	p.pointer--
	return false, nil
}

func (p *parser) fileHost(c rune) (bool, error) {
	switch c {
	case eof, '/', '\\', '?', '#':
	default:
		p.buf.WriteRune(c)
		return false, nil
	}

	p.pointer--
	buf := p.buf.String()
	switch {
	case !p.hasOverride() && isWindowsDriveLetter(buf, false):
		p.state = statePath
	case buf == "":
		p.url.host = &Host{Kind: HostEmpty}
		if p.hasOverride() {
			return true, nil
		}
		p.state = statePathStart
	default:
		host, err := p.conf.ParseHost(buf, true)
		if err != nil {
			return false, err
		}
		if host.Kind == HostDomain && host.Domain == "localhost" {
			host = &Host{Kind: HostEmpty}
		}
		p.url.host = host
		if p.hasOverride() {
			return true, nil
		}
		p.buf.Reset()
		p.state = statePathStart
	}
	return false, nil
}

func (p *parser) pathStart(c rune) (bool, error) {
	switch {
	case p.special():
		p.state = statePath
		if c != '/' && c != '\\' {
			p.pointer--
		}
	case !p.hasOverride() && c == '?':
		p.url.query = new(string)
		p.state = stateQuery
	case !p.hasOverride() && c == '#':
		p.url.fragment = new(string)
		p.state = stateFragment
	case c != eof:
		p.state = statePath
		if c != '/' {
			p.pointer--
		}
	case p.hasOverride() && p.url.host == nil:
		p.url.path = append(p.url.path, "")
	}
	return false, nil
}

func (p *parser) pathState(c rune) (bool, error) {
	u := p.url
	slash := p.isSlash(c)
	if !(c == eof || slash || (!p.hasOverride() && (c == '?' || c == '#'))) {
		appendRune(&p.buf, c, PathSet)
		return false, nil
	}

	buf := p.buf.String()
	switch {
	case isDoubleDot(buf):
		u.shortenPath()
		if !slash {
			u.path = append(u.path, "")
		}
	case isSingleDot(buf):
		if !slash {
			u.path = append(u.path, "")
		}
	default:
		if u.scheme == "file" && len(u.path) == 0 && isWindowsDriveLetter(buf, false) {
			buf = buf[:1] + ":"
		}
		u.path = append(u.path, buf)
	}
	p.buf.Reset()

	switch c {
	case '?':
		u.query = new(string)
		p.state = stateQuery
	case '#':
		u.fragment = new(string)
		p.state = stateFragment
	}
	return false, nil
}

func (p *parser) opaquePath(c rune) (bool, error) {
	switch c {
	case '?':
		p.url.query = new(string)
		p.state = stateQuery
	case '#':
		p.url.fragment = new(string)
		p.state = stateFragment
	case eof:
	default:
		appendRune(&p.buf, c, C0ControlSet)
		return false, nil
	}
	*p.url.opaque += p.buf.String()
	p.buf.Reset()
	return false, nil
}

func (p *parser) queryState(c rune) (bool, error) {
	if c != eof && (p.hasOverride() || c != '#') {
		p.buf.WriteRune(c)
		return false, nil
	}

	set := QuerySet
	if p.special() {
		set = SpecialQuerySet
	}
	var b strings.Builder
	b.WriteString(*p.url.query)
	appendEncoded(&b, p.buf.String(), set, false)
	*p.url.query = b.String()
	p.buf.Reset()
	if c == '#' {
		p.url.fragment = new(string)
		p.state = stateFragment
	}
	return false, nil
}

func (p *parser) fragmentState(c rune) (bool, error) {
	if c != eof {
		appendRune(&p.buf, c, FragmentSet)
		return false, nil
	}
	*p.url.fragment += p.buf.String()
	p.buf.Reset()
	return false, nil
}
