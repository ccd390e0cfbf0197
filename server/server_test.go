package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/weburl/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(e *echo.Echo, method, target, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestParse(t *testing.T) {
	t.Parallel()
	e := Server(Options{})

	t.Run("ok", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/v1/parse", `{"input": "../c?q=a b#f", "base": "https://user@Example.org:8443/a/b/"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var res map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "https://user@example.org:8443/a/c?q=a%20b#f", res["href"])
		assert.Equal(t, "https://example.org:8443", res["origin"])
		assert.Equal(t, "8443", res["port"])
		assert.Equal(t, "?q=a%20b", res["search"])
		assert.Equal(t, "#f", res["hash"])
	})

	t.Run("invalid", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/v1/parse", `{"input": "/relative"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var res message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.NotEmpty(t, res.Msg)
	})

	t.Run("bad body", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/v1/parse", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestParseStore(t *testing.T) {
	t.Parallel()
	s, err := store.New(store.Options{Path: t.TempDir(), TTL: time.Minute})
	require.NoError(t, err)
	defer s.Close()

	e := Server(Options{Store: s})
	body := `{"input": "HTTP://EXAMPLE.ORG/./a"}`
	for i := 0; i < 2; i++ {
		rec := do(e, http.MethodPost, "/v1/parse", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"href":"http://example.org/a"`)
	}

	cached, ok := s.Get(store.Key("HTTP://EXAMPLE.ORG/./a", ""))
	assert.True(t, ok)
	assert.Contains(t, string(cached), `"pathname":"/a"`)

	rec := do(e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `weburl_parse_total{result="cached"} 1`)
	assert.Contains(t, rec.Body.String(), `weburl_parse_total{result="ok"} 1`)
}

func TestQuery(t *testing.T) {
	t.Parallel()
	e := Server(Options{})

	rec := do(e, http.MethodPost, "/v1/query", `{"query": "?b=2&a=1+1&a=%zz", "sort": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res queryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Pairs, 3)
	assert.Equal(t, "a", res.Pairs[0].Name)
	assert.Equal(t, "1 1", res.Pairs[0].Value)
	assert.Equal(t, "%zz", res.Pairs[1].Value)
	assert.Equal(t, "a=1+1&a=%25zz&b=2", res.String)

	rec = do(e, http.MethodPost, "/v1/query", `{"query": ""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pairs": [], "string": ""}`, rec.Body.String())
}

func TestDomain(t *testing.T) {
	t.Parallel()
	e := Server(Options{})

	tests := []struct {
		target string
		code   int
		result string
	}{
		{"/v1/domain?name=espa%C3%B1ol.com", http.StatusOK, "xn--espaol-zwa.com"},
		{"/v1/domain?name=xn--espaol-zwa.com&unicode=true", http.StatusOK, "español.com"},
		{"/v1/domain?name=xn--i%C3%B1valid.com", http.StatusBadRequest, ""},
		{"/v1/domain", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(e, http.MethodGet, tt.target, "")
			require.Equal(t, tt.code, rec.Code)
			if tt.code != http.StatusOK {
				return
			}
			var res domainResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, tt.result, res.Result)
		})
	}
}

func TestAuth(t *testing.T) {
	t.Parallel()
	e := Server(Options{Token: "secret"})

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/ping", "").Code)
	assert.Equal(t, http.StatusUnauthorized,
		do(e, http.MethodPost, "/v1/query", `{"query": "a=1"}`, echo.HeaderAuthorization, "Bearer wrong").Code)
	assert.NotEqual(t, http.StatusOK, do(e, http.MethodPost, "/v1/query", `{"query": "a=1"}`).Code)
	assert.Equal(t, http.StatusOK,
		do(e, http.MethodPost, "/v1/query", `{"query": "a=1"}`, echo.HeaderAuthorization, "Bearer secret").Code)
}
