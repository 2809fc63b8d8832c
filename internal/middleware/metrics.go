package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-desk/internal/metrics"
)

// Metrics records a request counter and a latency histogram per route
// template.  Unmatched paths are grouped under "unmatched".
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo write the error response so the status is final.
				c.Error(err)
			}

			route := c.Path()
			if !registered(c.Echo(), route) {
				route = "unmatched"
			}
			method := c.Request().Method
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			return nil
		}
	}
}

// registered keeps raw request paths of unknown routes out of the label set.
func registered(e *echo.Echo, path string) bool {
	if path == "" {
		return false
	}
	for _, r := range e.Routes() {
		if r.Path == path {
			return true
		}
	}
	return false
}
