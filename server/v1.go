package server

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/weburl"
	"github.com/shiroyk/weburl/store"
	"github.com/spf13/cast"
)

// message the error message
type message struct {
	Msg string `json:"msg"`
}

type (
	parseRequest struct {
		Input string `json:"input"`
		Base  string `json:"base"`
	}

	queryRequest struct {
		Query string `json:"query"`
		Sort  bool   `json:"sort"`
	}

	queryResponse struct {
		Pairs  []weburl.Pair `json:"pairs"`
		String string        `json:"string"`
	}

	domainResponse struct {
		Name   string `json:"name"`
		Result string `json:"result"`
	}
)

type handler struct {
	store   *store.Store
	metrics *metrics
}

// parse parses the input against the optional base, an empty base means none.
func (h *handler) parse(c echo.Context) error {
	var req parseRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	var key string
	if h.store != nil {
		key = store.Key(req.Input, req.Base)
		if data, ok := h.store.Get(key); ok {
			h.metrics.parseTotal.WithLabelValues("cached").Inc()
			return c.JSONBlob(http.StatusOK, data)
		}
	}

	u, err := weburl.ParseRef(req.Input, req.Base)
	if err != nil {
		h.metrics.parseTotal.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.metrics.parseTotal.WithLabelValues("ok").Inc()

	data, err := json.Marshal(u.Components())
	if err != nil {
		return err
	}
	if h.store != nil {
		h.store.Set(key, data)
	}
	return c.JSONBlob(http.StatusOK, data)
}

// query decodes the application/x-www-form-urlencoded string.
func (h *handler) query(c echo.Context) error {
	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	params := weburl.NewSearchParams(req.Query)
	if req.Sort {
		params.Sort()
	}
	pairs := params.Pairs()
	if pairs == nil {
		pairs = []weburl.Pair{}
	}
	return c.JSON(http.StatusOK, queryResponse{Pairs: pairs, String: params.String()})
}

// domain converts the domain to ASCII, or to Unicode if the unicode param is true.
func (h *handler) domain(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	var result string
	if cast.ToBool(c.QueryParam("unicode")) {
		result = weburl.DomainToUnicode(name)
	} else {
		result = weburl.DomainToASCII(name)
	}
	if result == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid domain "+name)
	}
	return c.JSON(http.StatusOK, domainResponse{Name: name, Result: result})
}
