package weburl

import (
	"strings"

	"golang.org/x/net/idna"
)

// IDNA converts internationalized domain names.
// Implementations must be pure functions.
type IDNA interface {
	// ToASCII converts the domain to its ASCII (Punycode) form.
	ToASCII(domain string) (string, error)
	// ToUnicode converts the domain to its Unicode form.
	ToUnicode(domain string) (string, error)
}

// UTS46 the UTS #46 non-transitional processing used by the URL standard
// (CheckHyphens=false, CheckBidi=true, CheckJoiners=true,
// UseSTD3ASCIIRules=false, VerifyDnsLength=false).
var UTS46 IDNA = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.BidiRule(),
	idna.CheckJoiners(true),
	idna.CheckHyphens(false),
	idna.StrictDomainName(false),
	idna.VerifyDNSLength(false),
)

// domainToASCII runs the IDNA collaborator unless every label is
// plain ASCII without an "xn--" prefix, then the domain is only lowercased.
func domainToASCII(conv IDNA, domain string) (string, error) {
	if isASCII(domain) && !hasACELabel(domain) {
		return strings.ToLower(domain), nil
	}
	return conv.ToASCII(domain)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func hasACELabel(domain string) bool {
	for _, label := range strings.Split(domain, ".") {
		if len(label) >= 4 && strings.EqualFold(label[:4], "xn--") {
			return true
		}
	}
	return false
}

// DomainToASCII returns the Punycode ASCII serialization of the domain,
// or an empty string if the domain is invalid.
func DomainToASCII(domain string) string { return DefaultParser.DomainToASCII(domain) }

// DomainToUnicode returns the Unicode serialization of the domain,
// or an empty string if the domain is invalid.
func DomainToUnicode(domain string) string { return DefaultParser.DomainToUnicode(domain) }

// DomainToASCII see DomainToASCII.
func (p *Parser) DomainToASCII(domain string) string {
	host, err := p.ParseHost(domain, true)
	if err != nil {
		return ""
	}
	return host.String()
}

// DomainToUnicode see DomainToUnicode.
func (p *Parser) DomainToUnicode(domain string) string {
	host, err := p.ParseHost(domain, true)
	if err != nil {
		return ""
	}
	if host.Kind != HostDomain {
		return host.String()
	}
	unicode, err := p.idna().ToUnicode(host.Domain)
	if err != nil {
		return ""
	}
	return unicode
}
