package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-desk/internal/service"
)

// AccountHandler serves registration, login and account lookup.
type AccountHandler struct {
	accounts *service.AccountService
	fail     failure
}

func NewAccountHandler(accounts *service.AccountService, log *slog.Logger, exposeStoreErrors bool) *AccountHandler {
	return &AccountHandler{accounts: accounts, fail: failure{log: log, expose: exposeStoreErrors}}
}

// Register handles POST /register.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "All fields are required", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	err := h.accounts.Register(ctx, service.RegisterCommand{
		Username:   req.Username.String(),
		Department: req.Department.String(),
		UserID:     req.UserID.String(),
		Password:   req.Password,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Inserted successfully"})
	case errors.Is(err, service.ErrValidation):
		return badRequest(c, "All fields are required", err)
	case errors.Is(err, service.ErrAccountExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "User already exists"})
	}
	return h.fail.store(c, "register", err)
}

// Login handles POST /login.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "USERID and PASSWORD are required", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	a, err := h.accounts.Login(ctx, req.UserID.String(), req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{
			"message":    "Login successful",
			"name":       a.Username,
			"department": a.Department,
		})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	case errors.Is(err, service.ErrValidation):
		return badRequest(c, "USERID and PASSWORD are required", err)
	}
	return h.fail.store(c, "login", err)
}

// GetPerson handles GET /person/:id.  The stored password is never returned.
func (h *AccountHandler) GetPerson(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	a, err := h.accounts.GetByID(ctx, id)
	if errors.Is(err, service.ErrAccountNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Person not found"})
	}
	if err != nil {
		return h.fail.store(c, "get person", err)
	}
	return c.JSON(http.StatusOK, a.View())
}
