package links

import (
	"strings"
	"testing"

	"github.com/shiroyk/weburl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `<html>
<head><title>links</title></head>
<body>
	<a href="/about">About</a>
	<a href="../up?q=a b">Up</a>
	<a href="https://Example.COM:443/x">External</a>
	<a href="http://[::1">Broken</a>
	<a>No href</a>
	<img src="img/logo.png">
	<form action="search"></form>
</body>
</html>`

func TestResolve(t *testing.T) {
	t.Parallel()
	base := weburl.MustParse("https://example.org/docs/page.html")

	t.Run("default selector", func(t *testing.T) {
		links, err := Resolve(strings.NewReader(document), base, "")
		require.NoError(t, err)
		require.Len(t, links, 4)

		assert.Equal(t, Link{Tag: "a", Text: "About", Raw: "/about", Href: "https://example.org/about"}, links[0])
		assert.Equal(t, "https://example.org/up?q=a%20b", links[1].Href)
		assert.Equal(t, "https://example.com/x", links[2].Href)
		assert.Empty(t, links[3].Href)
		assert.NotEmpty(t, links[3].Err)
	})

	t.Run("selector", func(t *testing.T) {
		links, err := Resolve(strings.NewReader(document), base, "img, form")
		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "https://example.org/docs/img/logo.png", links[0].Href)
		assert.Equal(t, "form", links[1].Tag)
		assert.Equal(t, "https://example.org/docs/search", links[1].Href)
	})

	t.Run("base element", func(t *testing.T) {
		doc := `<head><base href="/v2/"></head><a href="guide">Guide</a>`
		links, err := Resolve(strings.NewReader(doc), base, "")
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.org/v2/guide", links[0].Href)
	})

	t.Run("no base", func(t *testing.T) {
		links, err := Resolve(strings.NewReader(document), nil, "")
		require.NoError(t, err)
		require.Len(t, links, 4)
		assert.NotEmpty(t, links[0].Err)
		assert.Equal(t, "https://example.com/x", links[2].Href)
	})
}
