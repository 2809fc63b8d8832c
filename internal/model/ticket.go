package model

import "time"

// TicketState is the assignment state derived from a ticket row.
type TicketState int

const (
	// StateUnassigned: status 0 or NULL and not closed.
	StateUnassigned TicketState = iota
	// StateAssigned: status 1 and not closed.
	StateAssigned
	// StateClosed is terminal.  It covers the closed flag as well as any
	// status code other than 0 and 1 (completed, SLA breached).
	StateClosed
)

func (s TicketState) String() string {
	switch s {
	case StateUnassigned:
		return "UNASSIGNED"
	case StateAssigned:
		return "ASSIGNED"
	default:
		return "CLOSED"
	}
}

// Status codes stored in facility_check_details.status.
const (
	StatusUnassigned = 0
	StatusAssigned   = 1
)

// TicketClosedFlag is the tkt_status value of a closed ticket.
const TicketClosedFlag = 1

// Ticket represents a row of the `facility_check_details` table.  A ticket
// is identified by the (RoomNo, Department) pair; there is no surrogate key.
//
// Fields:
//  RoomNo         – facility_check_details.FACILITY_CKD_ROOMNO
//  Department     – facility_check_details.FACILITY_CKD_DEPT
//  Status         – assignment status, nil when the column is NULL
//  AssignedUserID – user currently holding the ticket (nullable)
//  AssignedTime   – when the ticket was first claimed, IST (nullable)
//  CompletedTime  – when the ticket was closed, IST (nullable)
//  Closed         – tkt_status = 1
type Ticket struct {
	RoomNo         string
	Department     string
	Status         *int
	AssignedUserID *string
	AssignedTime   *time.Time
	CompletedTime  *time.Time
	Closed         bool
}

// State derives the assignment state from the stored columns.
func (t Ticket) State() TicketState {
	if t.Closed {
		return StateClosed
	}
	if t.Status == nil {
		return StateUnassigned
	}
	switch *t.Status {
	case StatusUnassigned:
		return StateUnassigned
	case StatusAssigned:
		return StateAssigned
	}
	return StateClosed
}

// AssignedTo returns the holder's user id, or "" when nobody holds it.
func (t Ticket) AssignedTo() string {
	if t.AssignedUserID == nil {
		return ""
	}
	return *t.AssignedUserID
}

// TicketSummary is the list projection returned by GET /people.
type TicketSummary struct {
	RoomNo string  `json:"roomNo"`
	Dept   string  `json:"dept"`
	Status *int    `json:"status"`
	UserID *string `json:"userId"`
}
