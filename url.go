package weburl

import (
	"encoding/json"
	"strconv"
	"strings"
)

var specialSchemes = map[string]int{
	"ftp":   21,
	"file":  -1,
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
}

func isSpecial(scheme string) bool {
	_, ok := specialSchemes[scheme]
	return ok
}

// defaultPort returns the default port of the scheme, or -1 if none.
func defaultPort(scheme string) int {
	if port, ok := specialSchemes[scheme]; ok {
		return port
	}
	return -1
}

// URL a parsed URL record.
// A URL and its SearchParams are not safe for concurrent use.
type URL struct {
	scheme   string
	username string
	password string
	host     *Host
	port     int
	path     []string
	opaque   *string
	query    *string
	fragment *string

	params *SearchParams
	parser *Parser
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneHost(h *Host) *Host {
	if h == nil {
		return nil
	}
	v := *h
	return &v
}

func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// clone returns a copy of the record without its SearchParams.
func (u *URL) clone() *URL {
	return &URL{
		scheme:   u.scheme,
		username: u.username,
		password: u.password,
		host:     cloneHost(u.host),
		port:     u.port,
		path:     cloneSlice(u.path),
		opaque:   cloneString(u.opaque),
		query:    cloneString(u.query),
		fragment: cloneString(u.fragment),
		parser:   u.parser,
	}
}

// commit copies the record fields of v into u, keeping u's SearchParams.
func (u *URL) commit(v *URL) {
	params := u.params
	*u = *v
	u.params = params
}

// Clone returns a deep copy of the URL, the SearchParams are not shared.
func (u *URL) Clone() *URL { return u.clone() }

func (u *URL) conf() *Parser {
	if u.parser == nil {
		return DefaultParser
	}
	return u.parser
}

func (u *URL) hasCredentials() bool { return u.username != "" || u.password != "" }

// cannotHaveCredentialsOrPort reports whether the URL has no usable host or is a file URL.
func (u *URL) cannotHaveCredentialsOrPort() bool {
	return u.host == nil || u.host.Kind == HostEmpty || u.scheme == "file"
}

func (u *URL) shortenPath() {
	if u.scheme == "file" && len(u.path) == 1 && isWindowsDriveLetter(u.path[0], true) {
		return
	}
	if len(u.path) > 0 {
		u.path = u.path[:len(u.path)-1]
	}
}

// IsSpecial reports whether the scheme is one of ftp, file, http, https, ws or wss.
func (u *URL) IsSpecial() bool { return isSpecial(u.scheme) }

// HasOpaquePath reports whether the path is a single opaque string.
func (u *URL) HasOpaquePath() bool { return u.opaque != nil }

// Scheme returns the scheme without the trailing colon.
func (u *URL) Scheme() string { return u.scheme }

// HostRecord returns the parsed host, or nil if the URL has none.
func (u *URL) HostRecord() *Host { return cloneHost(u.host) }

// PortNumber returns the port, or -1 if none.
func (u *URL) PortNumber() int { return u.port }

// Segments returns a copy of the path segments, nil for an opaque path.
func (u *URL) Segments() []string { return cloneSlice(u.path) }

// Href returns the URL serialization.
func (u *URL) Href() string { return u.serialize(false) }

func (u *URL) String() string { return u.Href() }

func (u *URL) serialize(excludeFragment bool) string {
	var b strings.Builder
	b.WriteString(u.scheme)
	b.WriteByte(':')
	if u.host != nil {
		b.WriteString("//")
		if u.hasCredentials() {
			b.WriteString(u.username)
			if u.password != "" {
				b.WriteByte(':')
				b.WriteString(u.password)
			}
			b.WriteByte('@')
		}
		b.WriteString(u.host.String())
		if u.port != -1 {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(u.port))
		}
	} else if u.opaque == nil && len(u.path) > 1 && u.path[0] == "" {
		b.WriteString("/.")
	}
	b.WriteString(u.Pathname())
	if u.query != nil {
		b.WriteByte('?')
		b.WriteString(*u.query)
	}
	if !excludeFragment && u.fragment != nil {
		b.WriteByte('#')
		b.WriteString(*u.fragment)
	}
	return b.String()
}

// Protocol returns the scheme followed by ':'.
func (u *URL) Protocol() string { return u.scheme + ":" }

// Username returns the percent-encoded username.
func (u *URL) Username() string { return u.username }

// Password returns the percent-encoded password.
func (u *URL) Password() string { return u.password }

// Host returns the host and port, or an empty string if the URL has no host.
func (u *URL) Host() string {
	if u.host == nil {
		return ""
	}
	if u.port == -1 {
		return u.host.String()
	}
	return u.host.String() + ":" + strconv.Itoa(u.port)
}

// Hostname returns the host without the port.
func (u *URL) Hostname() string { return u.host.String() }

// Port returns the port, or an empty string if none.
func (u *URL) Port() string {
	if u.port == -1 {
		return ""
	}
	return strconv.Itoa(u.port)
}

// Pathname returns the path serialization.
func (u *URL) Pathname() string {
	if u.opaque != nil {
		return *u.opaque
	}
	var b strings.Builder
	for _, segment := range u.path {
		b.WriteByte('/')
		b.WriteString(segment)
	}
	return b.String()
}

// Search returns the query with a leading '?', or an empty string if
// the query is none or empty.
func (u *URL) Search() string {
	if u.query == nil || *u.query == "" {
		return ""
	}
	return "?" + *u.query
}

// Query returns the query without '?', ok is false if the URL has no query.
func (u *URL) Query() (query string, ok bool) {
	if u.query == nil {
		return "", false
	}
	return *u.query, true
}

// Hash returns the fragment with a leading '#', or an empty string if
// the fragment is none or empty.
func (u *URL) Hash() string {
	if u.fragment == nil || *u.fragment == "" {
		return ""
	}
	return "#" + *u.fragment
}

// Fragment returns the fragment without '#', ok is false if the URL has no fragment.
func (u *URL) Fragment() (fragment string, ok bool) {
	if u.fragment == nil {
		return "", false
	}
	return *u.fragment, true
}

// Origin returns the ASCII serialization of the origin, "null" for
// an opaque origin.
func (u *URL) Origin() string {
	switch u.scheme {
	case "blob":
		inner, err := u.conf().Parse(u.Pathname(), nil)
		if err != nil || (inner.scheme != "http" && inner.scheme != "https") {
			return "null"
		}
		return inner.Origin()
	case "ftp", "http", "https", "ws", "wss":
		origin := u.scheme + "://" + u.host.String()
		if u.port != -1 {
			origin += ":" + strconv.Itoa(u.port)
		}
		return origin
	}
	return "null"
}

// Equal reports whether both URLs serialize the same, optionally ignoring fragments.
func (u *URL) Equal(v *URL, excludeFragment bool) bool {
	return u.serialize(excludeFragment) == v.serialize(excludeFragment)
}

// MarshalText implements encoding.TextMarshaler.
func (u *URL) MarshalText() ([]byte, error) { return []byte(u.Href()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *URL) UnmarshalText(text []byte) error {
	v, err := u.conf().Parse(string(text), nil)
	if err != nil {
		return err
	}
	u.commit(v)
	if u.params != nil {
		u.params.reset(u.query)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (u *URL) MarshalJSON() ([]byte, error) { return json.Marshal(u.Href()) }

// UnmarshalJSON implements json.Unmarshaler.
func (u *URL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return u.UnmarshalText([]byte(s))
}

// Components the serialized components of a URL.
type Components struct {
	Href     string `json:"href" yaml:"href"`
	Origin   string `json:"origin" yaml:"origin"`
	Protocol string `json:"protocol" yaml:"protocol"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Host     string `json:"host" yaml:"host"`
	Hostname string `json:"hostname" yaml:"hostname"`
	Port     string `json:"port" yaml:"port"`
	Pathname string `json:"pathname" yaml:"pathname"`
	Search   string `json:"search" yaml:"search"`
	Hash     string `json:"hash" yaml:"hash"`
}

// Components returns all component getters of the URL.
func (u *URL) Components() Components {
	return Components{
		Href:     u.Href(),
		Origin:   u.Origin(),
		Protocol: u.Protocol(),
		Username: u.Username(),
		Password: u.Password(),
		Host:     u.Host(),
		Hostname: u.Hostname(),
		Port:     u.Port(),
		Pathname: u.Pathname(),
		Search:   u.Search(),
		Hash:     u.Hash(),
	}
}
