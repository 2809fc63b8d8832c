package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/facility-desk/internal/service"
)

// CachePurger drops cached listings after a ticket changes.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// TicketHandler serves the ticket listing and the assign/close transitions.
type TicketHandler struct {
	tickets *service.TicketService
	cache   CachePurger
	log     *slog.Logger
	fail    failure
}

// NewTicketHandler builds the handler.  cache may be nil.
func NewTicketHandler(tickets *service.TicketService, cache CachePurger, log *slog.Logger, exposeStoreErrors bool) *TicketHandler {
	return &TicketHandler{
		tickets: tickets,
		cache:   cache,
		log:     log,
		fail:    failure{log: log, expose: exposeStoreErrors},
	}
}

// People handles GET /people.
func (h *TicketHandler) People(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	list, err := h.tickets.List(ctx)
	if err != nil {
		return h.fail.store(c, "list tickets", err)
	}
	return c.JSON(http.StatusOK, list)
}

// Assign handles POST /assign.
func (h *TicketHandler) Assign(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "userid, roomNo and department are required", err)
	}
	if req.Status != "" {
		h.log.Debug("assign with client status", "client_status", req.Status.String(), "room_no", req.RoomNo.String())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := h.tickets.Assign(ctx, service.AssignCommand{
		UserID:        req.UserID.String(),
		RoomNo:        req.RoomNo.String(),
		Department:    req.Department.String(),
		ForceReassign: req.ForceReassign,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		return badRequest(c, "userid, roomNo and department are required", err)
	case errors.Is(err, service.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Ticket not found"})
	case errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Ticket is closed and cannot be assigned."})
	case errors.Is(err, service.ErrConcurrentUpdate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Ticket changed while assigning, please retry."})
	default:
		return h.fail.store(c, "assign", err)
	}

	switch res.Outcome {
	case service.ConflictPrompt:
		return c.JSON(http.StatusOK, echo.Map{
			"alreadyAssigned": true,
			"currentUser":     res.CurrentUser,
			"message":         fmt.Sprintf("Already assigned to %s. Do you want to reassign?", res.CurrentUser),
		})
	case service.Reassigned:
		h.purge(ctx)
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Reassigned successfully."})
	default:
		h.purge(ctx)
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Assigned successfully."})
	}
}

// CloseTicket handles POST /close-ticket.
func (h *TicketHandler) CloseTicket(c echo.Context) error {
	var req closeTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "ROOMNO and USERID are required", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	err := h.tickets.Close(ctx, service.CloseCommand{
		RoomNo:     req.RoomNo.String(),
		Department: req.Department.String(),
		UserID:     req.UserID.String(),
	})
	switch {
	case err == nil:
		h.purge(ctx)
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Ticket completed and closed successfully."})
	case errors.Is(err, service.ErrValidation):
		return badRequest(c, "ROOMNO and USERID are required", err)
	case errors.Is(err, service.ErrAlreadyClosedOrNotFound):
		reason := "already_closed"
		if errors.Is(err, service.ErrTicketNotFound) {
			reason = "not_found"
		}
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Ticket is already closed or not found.",
			"reason":  reason,
		})
	}
	return h.fail.store(c, "close ticket", err)
}

func (h *TicketHandler) purge(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Purge(ctx); err != nil {
		h.log.Warn("cache purge failed", "err", err)
	}
}
