package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-desk/internal/model"
)

// requestTimeout bounds a whole handler; each statement has its own,
// shorter, gateway timeout.
const requestTimeout = 10 * time.Second

// PersonStore inserts rows into the Person table.
type PersonStore interface {
	Insert(ctx context.Context, p model.Person) error
}

type PersonHandler struct {
	people PersonStore
	fail   failure
}

func NewPersonHandler(people PersonStore, log *slog.Logger, exposeStoreErrors bool) *PersonHandler {
	return &PersonHandler{people: people, fail: failure{log: log, expose: exposeStoreErrors}}
}

// Insert handles POST /insert.
func (h *PersonHandler) Insert(c echo.Context) error {
	var req insertPersonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "Name is required", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.people.Insert(ctx, model.Person{Name: req.Name.String()}); err != nil {
		return h.fail.store(c, "insert person", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Inserted successfully"})
}
