package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	loggerKey         = "logger"
	maxQueryLogLength = 2048
)

// RequestID propagates X-Request-ID or generates a uuid for it
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

func requestIDOf(c echo.Context) string {
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// RequestLogger writes one structured access log line per request. It also attaches a
// request-scoped logger to the echo context and to the request context, so services can
// log through log.Ctx(ctx).
//
// Level follows the outcome: error for 5xx, warn for 4xx, info otherwise.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			route := c.Path()
			if route == "" {
				route = req.URL.Path
			}
			l := log.With().
				Str("request_id", requestIDOf(c)).
				Str("method", req.Method).
				Str("route", route).
				Str("remote_ip", c.RealIP()).
				Logger()

			c.Set(loggerKey, &l)
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is known
				c.Error(err)
			}

			status := c.Response().Status
			ev := l.With().
				Int("status", status).
				Dur("latency", time.Since(start)).
				Int64("bytes_out", c.Response().Size).
				Str("query", truncate(req.URL.RawQuery, maxQueryLogLength))
			if id, ok := ViewerFrom(c).ID(); ok {
				ev = ev.Uint("user_id", id)
			}
			line := ev.Logger()

			switch {
			case status >= http.StatusInternalServerError:
				line.Error().Err(err).Msg("request")
			case status >= http.StatusBadRequest:
				line.Warn().Msg("request")
			default:
				line.Info().Msg("request")
			}
			return nil
		}
	}
}

// Recover turns a panic into a logged 500
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					LoggerFrom(c).Error().
						Interface("panic", rec).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")
					err = echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
				}
			}()
			return next(c)
		}
	}
}

// LoggerFrom returns the request-scoped logger, or the global one outside a request
func LoggerFrom(c echo.Context) *zerolog.Logger {
	if lg, ok := c.Get(loggerKey).(*zerolog.Logger); ok {
		return lg
	}
	l := log.With().Logger()
	return &l
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
