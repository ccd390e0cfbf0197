package weburl

import "strings"

// setComponent runs the parser over a copy of the record starting in
// the override state, the copy replaces the record only on success.
func (u *URL) setComponent(input string, override state) bool {
	v := u.clone()
	if override == statePathStart {
		v.path = nil
	}
	if err := u.conf().run(input, nil, v, override); err != nil {
		return false
	}
	u.commit(v)
	return true
}

// stripTrailingSpaces potentially strips trailing spaces from an opaque path.
func (u *URL) stripTrailingSpaces() {
	if u.opaque == nil || u.query != nil || u.fragment != nil {
		return
	}
	*u.opaque = strings.TrimRight(*u.opaque, " ")
}

// SetHref replaces the whole URL, the SearchParams are kept and re-populated.
func (u *URL) SetHref(href string) error {
	v, err := u.conf().Parse(href, nil)
	if err != nil {
		return err
	}
	u.commit(v)
	if u.params != nil {
		u.params.reset(u.query)
	}
	return nil
}

// SetProtocol sets the scheme, invalid values are ignored.
func (u *URL) SetProtocol(protocol string) {
	u.setComponent(protocol+":", stateSchemeStart)
}

// SetUsername sets the percent-encoded username.
func (u *URL) SetUsername(username string) {
	if u.cannotHaveCredentialsOrPort() {
		return
	}
	u.username = PercentEncode(username, UserinfoSet)
}

// SetPassword sets the percent-encoded password.
func (u *URL) SetPassword(password string) {
	if u.cannotHaveCredentialsOrPort() {
		return
	}
	u.password = PercentEncode(password, UserinfoSet)
}

// SetHost sets the host and an optional port.
func (u *URL) SetHost(host string) {
	if u.opaque != nil {
		return
	}
	u.setComponent(host, stateHost)
}

// SetHostname sets the host, a value with a port is ignored.
func (u *URL) SetHostname(hostname string) {
	if u.opaque != nil {
		return
	}
	u.setComponent(hostname, stateHostname)
}

// SetPort sets the port. An empty value clears the port, a leading
// run of digits is used as the port, a value with digits that does not
// start with one clears the port, any other value is ignored.
func (u *URL) SetPort(port string) {
	if u.cannotHaveCredentialsOrPort() {
		return
	}
	switch {
	case port == "":
		u.port = -1
	case isDigit(port[0]):
		u.setComponent(port, statePort)
	case strings.ContainsAny(port, "0123456789"):
		u.port = -1
	}
}

// SetPathname replaces the path, ignored for an opaque path.
func (u *URL) SetPathname(pathname string) {
	if u.opaque != nil {
		return
	}
	u.setComponent(pathname, statePathStart)
}

// SetSearch sets the query and re-populates the SearchParams.
func (u *URL) SetSearch(search string) {
	if search == "" {
		u.query = nil
		u.stripTrailingSpaces()
	} else {
		v := u.clone()
		v.query = new(string)
		if err := u.conf().run(strings.TrimPrefix(search, "?"), nil, v, stateQuery); err != nil {
			return
		}
		u.commit(v)
	}
	if u.params != nil {
		u.params.reset(u.query)
	}
}

// SetHash sets the fragment.
func (u *URL) SetHash(hash string) {
	if hash == "" {
		u.fragment = nil
		u.stripTrailingSpaces()
		return
	}
	v := u.clone()
	v.fragment = new(string)
	if err := u.conf().run(strings.TrimPrefix(hash, "#"), nil, v, stateFragment); err != nil {
		return
	}
	u.commit(v)
}

// SearchParams returns the SearchParams bound to the query,
// every call returns the same instance.
func (u *URL) SearchParams() *SearchParams {
	if u.params == nil {
		u.params = &SearchParams{url: u}
		u.params.reset(u.query)
	}
	return u.params
}
