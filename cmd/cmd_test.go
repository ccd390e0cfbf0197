package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shiroyk/weburl"
	"github.com/shiroyk/weburl/links"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	parseBaseArg, parseFormatArg = "", formatJSON
	querySortArg, queryFormatArg = false, formatJSON
	domainUnicodeArg = false
	linksBaseArg, linksSelectorArg, linksFormatArg = "", links.DefaultSelector, formatJSON
	runTimeoutArg, runFormatArg = 0, formatJSON
	configGenArg = ""

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	args = append(args, "--config", filepath.Join(t.TempDir(), "config.yml"))
	err := ExecuteContext(context.Background(), args...)
	return out.String(), err
}

func TestParse(t *testing.T) {
	out, err := execute(t, "", "parse", "../c?d#e", "--base", "https://user@example.org/a/b")
	require.NoError(t, err)

	var c weburl.Components
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "https://user@example.org/c?d#e", c.Href)
	assert.Equal(t, "https://example.org", c.Origin)
	assert.Equal(t, "user", c.Username)

	out, err = execute(t, "", "parse", "http://example.org:8080", "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "port: \"8080\"")

	_, err = execute(t, "", "parse", "nope")
	assert.ErrorIs(t, err, weburl.ErrInvalidURL)

	_, err = execute(t, "", "parse", "https://example.org", "-f", "xml")
	assert.ErrorContains(t, err, "unsupported format xml")
}

func TestQuery(t *testing.T) {
	out, err := execute(t, "", "query", "?b=2&a=1+1&c", "--sort")
	require.NoError(t, err)

	var pairs []weburl.Pair
	require.NoError(t, json.Unmarshal([]byte(out), &pairs))
	assert.Equal(t, []weburl.Pair{{Name: "a", Value: "1 1"}, {Name: "b", Value: "2"}, {Name: "c"}}, pairs)

	out, err = execute(t, "", "query", "")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestDomain(t *testing.T) {
	out, err := execute(t, "", "domain", "bücher.example")
	require.NoError(t, err)
	assert.Equal(t, "xn--bcher-kva.example\n", out)

	out, err = execute(t, "", "domain", "xn--bcher-kva.example", "-u")
	require.NoError(t, err)
	assert.Equal(t, "bücher.example\n", out)

	_, err = execute(t, "", "domain", "xn--iñvalid.com")
	assert.ErrorContains(t, err, "invalid domain")
}

func TestLinks(t *testing.T) {
	html := `<html><body><a href="/a">A</a><a href="b">B</a><img src="c.png"></body></html>`

	out, err := execute(t, html, "links", "-", "--base", "https://example.org/x/")
	require.NoError(t, err)
	var result []links.Link
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "https://example.org/a", result[0].Href)
	assert.Equal(t, "https://example.org/x/b", result[1].Href)

	file := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(file, []byte(html), 0o644))
	out, err = execute(t, "", "links", file, "-b", "https://example.org/", "-s", "img")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result, 1)
	assert.Equal(t, "https://example.org/c.png", result[0].Href)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resolve.js"),
		[]byte(`export const resolve = (ref, base) => new URL(ref, base).href;`), 0o644))
	script := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(script, []byte(`
		import { resolve } from "./resolve.js";
		export default (ref) => resolve(ref, "https://example.org/a/");
	`), 0o644))

	out, err := execute(t, "", "run", script, "../b")
	require.NoError(t, err)
	assert.Equal(t, "\"https://example.org/b\"\n", out)

	out, err = execute(t, `export default () => new URLSearchParams({ a: "1", b: "x y" }).toString()`, "run", "-")
	require.NoError(t, err)
	assert.Equal(t, "\"a=1\\u0026b=x+y\"\n", out)

	_, err = execute(t, `export default () => { while (true) {} }`, "run", "-", "--timeout", "100ms")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "weburl.yml")
	_, err := execute(t, "", "config", "--gen", file)
	require.NoError(t, err)
	assert.FileExists(t, file)

	_, err = execute(t, "", "config", "--gen", file)
	assert.Error(t, err)

	out, err := execute(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "address: localhost:8080")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "weburl (untracked)/(unknown)\n", out)
}
