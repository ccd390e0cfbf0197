// Package links resolves the links of an HTML document against a base URL.
package links

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/shiroyk/weburl"
)

// DefaultSelector the default selector of the link elements
const DefaultSelector = "a[href]"

// attributes the URL attributes in lookup order
var attributes = [...]string{"href", "src", "action", "data"}

// Link a resolved link of the document.
type Link struct {
	Tag  string `json:"tag" yaml:"tag"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	Raw  string `json:"raw" yaml:"raw"`
	Href string `json:"href,omitempty" yaml:"href,omitempty"`
	Err  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Resolve reads the HTML document and resolves the URL attribute of every
// element matched by the selector. The document <base href> takes precedence
// over the given base, which may be nil.
func Resolve(r io.Reader, base *weburl.URL, selector string) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if selector == "" {
		selector = DefaultSelector
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if u, err := weburl.Parse(href, base); err == nil {
			base = u
		}
	}

	var links []Link
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		raw, ok := attr(sel)
		if !ok {
			return
		}
		link := Link{
			Tag:  goquery.NodeName(sel),
			Text: sel.Text(),
			Raw:  raw,
		}
		if u, err := weburl.Parse(raw, base); err != nil {
			link.Err = err.Error()
		} else {
			link.Href = u.Href()
		}
		links = append(links, link)
	})
	return links, nil
}

func attr(sel *goquery.Selection) (string, bool) {
	for _, name := range attributes {
		if value, ok := sel.Attr(name); ok {
			return value, true
		}
	}
	return "", false
}
