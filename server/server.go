// Package server the HTTP API of the URL parser.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shiroyk/weburl/store"
)

const (
	// DefaultTimeout the default timeout
	DefaultTimeout = time.Minute
	// DefaultAddress the api default address
	DefaultAddress = "localhost:8080"
)

// Options the api server configuration
type Options struct {
	Logger  *slog.Logger  `yaml:"-"`
	Store   *store.Store  `yaml:"-"`
	Token   string        `yaml:"token"`
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`
}

// Server the api service
func Server(opt Options) *echo.Echo {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	registry := prometheus.NewRegistry()
	m := newMetrics(registry)
	h := &handler{store: opt.Store, metrics: m}

	e := echo.New()
	e.HTTPErrorHandler = errorHandler(opt.Logger)
	e.HideBanner = true
	e.HidePort = true
	e.Use(loggerMiddleware(opt), m.middleware(), authMiddleware(opt))
	if opt.Timeout > 0 {
		e.Use(timeoutMiddleware(opt))
	}
	e.Any("/ping", ping)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := e.Group("/v1")
	v1.POST("/parse", h.parse)
	v1.POST("/query", h.query)
	v1.GET("/domain", h.domain)
	return e
}

func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
		}
		if code >= http.StatusInternalServerError {
			logger.Error("request error", "path", c.Request().URL.Path, "error", err)
		}

		if err = c.JSON(code, message{msg}); err != nil {
			logger.Error("write response error", "error", err)
		}
	}
}

func ping(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
