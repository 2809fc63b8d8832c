package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-desk/internal/database"
)

// failure writes store errors.  Timeouts become 504; everything else is a
// 500 whose body carries the raw error only when expose is set.
type failure struct {
	log    *slog.Logger
	expose bool
}

func (f failure) store(c echo.Context, op string, err error) error {
	if errors.Is(err, database.ErrTimeout) {
		f.log.Warn("store timeout", "op", op, "err", err, "request_id", requestID(c))
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "database timeout"})
	}
	f.log.Error("store failure", "op", op, "err", err, "request_id", requestID(c))
	body := echo.Map{"error": "database error"}
	if f.expose {
		body["detail"] = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, body)
}

func badRequest(c echo.Context, msg string, err error) error {
	body := echo.Map{"error": msg}
	if fields := invalidFields(err); len(fields) > 0 {
		body["fields"] = fields
	}
	return c.JSON(http.StatusBadRequest, body)
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
