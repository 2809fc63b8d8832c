package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/facility-desk/internal/metrics"
	"github.com/iliyamo/facility-desk/internal/model"
	"github.com/iliyamo/facility-desk/internal/repository"
	"github.com/iliyamo/facility-desk/internal/utils"
)

// maxAssignAttempts bounds how often Assign re-reads a ticket after losing
// a guarded write.  States only move forward, so two rounds settle every
// race; the third is slack.
const maxAssignAttempts = 3

// TicketStore is the data contract of the state machine.  Each mutating
// method is a single conditional update that reports whether its guard
// matched.
type TicketStore interface {
	List(ctx context.Context) ([]model.TicketSummary, error)
	Get(ctx context.Context, roomNo, dept string) (model.Ticket, error)
	ClaimUnassigned(ctx context.Context, roomNo, dept, userID string, at time.Time) (bool, error)
	Reassign(ctx context.Context, roomNo, dept, userID string) (bool, error)
	Close(ctx context.Context, roomNo, dept, userID string, at time.Time) (int64, error)
	Exists(ctx context.Context, roomNo, dept string) (bool, error)
}

// AssignOutcome is the non-error result of Assign.
type AssignOutcome int

const (
	// Assigned: the ticket moved from UNASSIGNED to ASSIGNED.
	Assigned AssignOutcome = iota + 1
	// ConflictPrompt: the ticket is held by someone and the caller must
	// confirm a reassignment.  Nothing was written.
	ConflictPrompt
	// Reassigned: the holder changed; the assignment time did not.
	Reassigned
)

func (o AssignOutcome) String() string {
	switch o {
	case Assigned:
		return "assigned"
	case ConflictPrompt:
		return "conflict_prompt"
	case Reassigned:
		return "reassigned"
	}
	return "unknown"
}

// AssignCommand asks for roomNo/department to be assigned to UserID.
type AssignCommand struct {
	UserID        string
	RoomNo        string
	Department    string
	ForceReassign bool
}

// AssignResult carries the outcome and, for ConflictPrompt, the holder.
type AssignResult struct {
	Outcome     AssignOutcome
	CurrentUser string
}

// CloseCommand closes the open tickets of RoomNo on behalf of UserID.
// Department is optional and narrows the close to one ticket.
type CloseCommand struct {
	RoomNo     string
	Department string
	UserID     string
}

// TicketService implements the assign/reassign/close transitions.  It keeps
// no ticket state of its own: every decision is made against a fresh read
// or enforced by the store's guarded update.
type TicketService struct {
	store TicketStore
	now   func() time.Time
	log   *slog.Logger
}

// TicketOption customizes a TicketService.
type TicketOption func(*TicketService)

// WithClock replaces the clock used for assigned/completed timestamps.
// The value is converted to IST before it is stored.
func WithClock(now func() time.Time) TicketOption {
	return func(s *TicketService) { s.now = now }
}

func NewTicketService(store TicketStore, log *slog.Logger, opts ...TicketOption) *TicketService {
	s := &TicketService{store: store, now: utils.NowIST, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every ticket's summary.
func (s *TicketService) List(ctx context.Context) ([]model.TicketSummary, error) {
	return s.store.List(ctx)
}

// Assign runs the assignment state machine:
//
//	UNASSIGNED            -> ASSIGNED (Assigned)
//	ASSIGNED, !force      -> unchanged (ConflictPrompt naming the holder)
//	ASSIGNED, force       -> ASSIGNED with the new holder (Reassigned)
//	CLOSED                -> ErrInvalidTransition
//
// A missing ticket yields ErrTicketNotFound.
func (s *TicketService) Assign(ctx context.Context, cmd AssignCommand) (AssignResult, error) {
	cmd.UserID = strings.TrimSpace(cmd.UserID)
	cmd.RoomNo = strings.TrimSpace(cmd.RoomNo)
	cmd.Department = strings.TrimSpace(cmd.Department)
	if cmd.UserID == "" || cmd.RoomNo == "" || cmd.Department == "" {
		return AssignResult{}, fmt.Errorf("%w: userid, roomNo and department are required", ErrValidation)
	}
	log := s.log.With("room_no", cmd.RoomNo, "dept", cmd.Department, "user_id", cmd.UserID)

	for attempt := 0; attempt < maxAssignAttempts; attempt++ {
		claimed, err := s.store.ClaimUnassigned(ctx, cmd.RoomNo, cmd.Department, cmd.UserID, s.stamp())
		if err != nil {
			return AssignResult{}, err
		}
		if claimed {
			log.Info("ticket assigned")
			return s.assignResult(AssignResult{Outcome: Assigned}), nil
		}

		t, err := s.store.Get(ctx, cmd.RoomNo, cmd.Department)
		if errors.Is(err, repository.ErrNotFound) {
			metrics.TicketTransitions.WithLabelValues("assign", "not_found").Inc()
			return AssignResult{}, ErrTicketNotFound
		}
		if err != nil {
			return AssignResult{}, err
		}

		switch t.State() {
		case model.StateClosed:
			metrics.TicketTransitions.WithLabelValues("assign", "invalid_transition").Inc()
			log.Warn("assign rejected", "state", t.State().String())
			return AssignResult{}, ErrInvalidTransition
		case model.StateAssigned:
			if !cmd.ForceReassign {
				return s.assignResult(AssignResult{Outcome: ConflictPrompt, CurrentUser: t.AssignedTo()}), nil
			}
			moved, err := s.store.Reassign(ctx, cmd.RoomNo, cmd.Department, cmd.UserID)
			if err != nil {
				return AssignResult{}, err
			}
			if moved {
				log.Info("ticket reassigned", "previous_user_id", t.AssignedTo())
				return s.assignResult(AssignResult{Outcome: Reassigned}), nil
			}
		}
		// The guard lost a race with another writer; decide again on the
		// new state.
		log.Debug("assign retry", "attempt", attempt+1, "state", t.State().String())
	}
	metrics.TicketTransitions.WithLabelValues("assign", "concurrent_update").Inc()
	return AssignResult{}, ErrConcurrentUpdate
}

func (s *TicketService) assignResult(r AssignResult) AssignResult {
	metrics.TicketTransitions.WithLabelValues("assign", r.Outcome.String()).Inc()
	return r
}

// Close completes the open tickets of a room in one guarded update.  When
// nothing was updated the error matches ErrAlreadyClosedOrNotFound and,
// more specifically, ErrTicketNotFound or ErrTicketClosed.
func (s *TicketService) Close(ctx context.Context, cmd CloseCommand) error {
	cmd.RoomNo = strings.TrimSpace(cmd.RoomNo)
	cmd.UserID = strings.TrimSpace(cmd.UserID)
	cmd.Department = strings.TrimSpace(cmd.Department)
	if cmd.RoomNo == "" || cmd.UserID == "" {
		return fmt.Errorf("%w: ROOMNO and USERID are required", ErrValidation)
	}

	n, err := s.store.Close(ctx, cmd.RoomNo, cmd.Department, cmd.UserID, s.stamp())
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.TicketTransitions.WithLabelValues("close", "closed").Inc()
		s.log.Info("ticket closed", "room_no", cmd.RoomNo, "dept", cmd.Department, "user_id", cmd.UserID, "rows", n)
		return nil
	}

	exists, err := s.store.Exists(ctx, cmd.RoomNo, cmd.Department)
	if err != nil {
		return err
	}
	if !exists {
		metrics.TicketTransitions.WithLabelValues("close", "not_found").Inc()
		return errors.Join(ErrAlreadyClosedOrNotFound, ErrTicketNotFound)
	}
	metrics.TicketTransitions.WithLabelValues("close", "already_closed").Inc()
	return errors.Join(ErrAlreadyClosedOrNotFound, ErrTicketClosed)
}

func (s *TicketService) stamp() time.Time {
	return s.now().In(utils.IST)
}
