package weburl

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// HostKind the kind of parsed host.
type HostKind uint8

const (
	// HostDomain an ASCII domain name.
	HostDomain HostKind = iota + 1
	// HostIPv4 a 32-bit IPv4 address.
	HostIPv4
	// HostIPv6 a 128-bit IPv6 address.
	HostIPv6
	// HostOpaque a percent-encoded host of a non-special URL.
	HostOpaque
	// HostEmpty the empty host.
	HostEmpty
)

func (k HostKind) String() string {
	switch k {
	case HostDomain:
		return "domain"
	case HostIPv4:
		return "ipv4"
	case HostIPv6:
		return "ipv6"
	case HostOpaque:
		return "opaque"
	case HostEmpty:
		return "empty"
	}
	return "unknown"
}

// Host a parsed URL host. Domain holds the text of a
// domain or an opaque host.
type Host struct {
	Kind   HostKind
	Domain string
	IPv4   uint32
	IPv6   [8]uint16
}

// String returns the host serialization.
func (h *Host) String() string {
	if h == nil {
		return ""
	}
	switch h.Kind {
	case HostIPv4:
		return serializeIPv4(h.IPv4)
	case HostIPv6:
		return "[" + serializeIPv6(h.IPv6) + "]"
	case HostEmpty:
		return ""
	}
	return h.Domain
}

// IsEmpty reports whether the host is the empty host.
func (h *Host) IsEmpty() bool { return h != nil && h.Kind == HostEmpty }

const forbiddenHost = "\x00\t\n\r #/:<>?@[\\]^|"

func isForbiddenHost(c byte) bool { return strings.IndexByte(forbiddenHost, c) >= 0 }

func isForbiddenDomain(c byte) bool {
	return isForbiddenHost(c) || c <= 0x1F || c == '%' || c == 0x7F
}

// ParseHost parses the host with the default parser.
func ParseHost(input string, special bool) (*Host, error) {
	return DefaultParser.ParseHost(input, special)
}

// ParseHost parses the input as a host, special reports whether
// the host belongs to a special URL.
func (p *Parser) ParseHost(input string, special bool) (*Host, error) {
	if strings.HasPrefix(input, "[") {
		if !strings.HasSuffix(input, "]") || len(input) < 2 {
			return nil, &HostParseError{input, "unclosed IPv6 address"}
		}
		addr, err := parseIPv6(input[1 : len(input)-1])
		if err != nil {
			return nil, err
		}
		return &Host{Kind: HostIPv6, IPv6: addr}, nil
	}

	if !special {
		return parseOpaqueHost(input)
	}
	if input == "" {
		return nil, &HostParseError{input, "empty host"}
	}

	domain, err := unicode.UTF8.NewDecoder().String(PercentDecode(input))
	if err != nil {
		return nil, &HostParseError{input, err.Error()}
	}
	ascii, err := domainToASCII(p.idna(), domain)
	if err != nil {
		return nil, &HostParseError{input, err.Error()}
	}
	if ascii == "" {
		return nil, &HostParseError{input, "empty host"}
	}
	for i := 0; i < len(ascii); i++ {
		if isForbiddenDomain(ascii[i]) {
			return nil, &HostParseError{input, "forbidden domain code point"}
		}
	}

	if endsInNumber(ascii) {
		addr, err := parseIPv4(ascii)
		if err != nil {
			return nil, err
		}
		return &Host{Kind: HostIPv4, IPv4: addr}, nil
	}
	return &Host{Kind: HostDomain, Domain: ascii}, nil
}

func parseOpaqueHost(input string) (*Host, error) {
	if input == "" {
		return &Host{Kind: HostEmpty}, nil
	}
	for i := 0; i < len(input); i++ {
		if input[i] != '%' && isForbiddenHost(input[i]) {
			return nil, &HostParseError{input, "forbidden host code point"}
		}
	}
	return &Host{Kind: HostOpaque, Domain: PercentEncode(input, C0ControlSet)}, nil
}
