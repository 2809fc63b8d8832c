package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/facility-desk/internal/database"
	"github.com/iliyamo/facility-desk/internal/model"
)

// notClosed matches open tickets.  A NULL tkt_status counts as open, which
// a bare "tkt_status <> 1" would silently exclude.
const notClosed = `(tkt_status IS NULL OR tkt_status <> 1)`

// TicketRepo provides data access to the facility_check_details table.
// Every state change is a single guarded UPDATE whose WHERE clause carries
// the precondition, so the affected-row count tells the caller whether the
// transition happened.
type TicketRepo struct{ gw *database.Gateway }

func NewTicketRepo(gw *database.Gateway) *TicketRepo { return &TicketRepo{gw: gw} }

// List returns every ticket projected to room, department, status and user.
func (r *TicketRepo) List(ctx context.Context) ([]model.TicketSummary, error) {
	const q = `SELECT FACILITY_CKD_ROOMNO, FACILITY_CKD_DEPT, status, userid
	           FROM facility_check_details
	           ORDER BY FACILITY_CKD_ROOMNO, FACILITY_CKD_DEPT`
	out := []model.TicketSummary{}
	err := r.gw.Query(ctx, q, func(rows *sql.Rows) error {
		var (
			s      model.TicketSummary
			status sql.NullInt64
			userID sql.NullString
		)
		if err := rows.Scan(&s.RoomNo, &s.Dept, &status, &userID); err != nil {
			return err
		}
		s.Status = nullInt(status)
		s.UserID = nullString(userID)
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads the ticket identified by (roomNo, dept).  It returns
// ErrNotFound when no such row exists.
func (r *TicketRepo) Get(ctx context.Context, roomNo, dept string) (model.Ticket, error) {
	const q = `SELECT FACILITY_CKD_ROOMNO, FACILITY_CKD_DEPT, status, userid, ASSIGNED_TIME, COMPLETED_TIME, tkt_status
	           FROM facility_check_details
	           WHERE FACILITY_CKD_ROOMNO = ? AND FACILITY_CKD_DEPT = ?`
	var (
		t         model.Ticket
		status    sql.NullInt64
		userID    sql.NullString
		assigned  sql.NullTime
		completed sql.NullTime
		tktStatus sql.NullInt64
	)
	err := r.gw.QueryRow(ctx, q, []any{roomNo, dept},
		&t.RoomNo, &t.Department, &status, &userID, &assigned, &completed, &tktStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, ErrNotFound
	}
	if err != nil {
		return model.Ticket{}, err
	}
	t.Status = nullInt(status)
	t.AssignedUserID = nullString(userID)
	t.AssignedTime = nullTime(assigned)
	t.CompletedTime = nullTime(completed)
	t.Closed = tktStatus.Valid && tktStatus.Int64 == model.TicketClosedFlag
	return t, nil
}

// ClaimUnassigned moves an open, unassigned ticket to ASSIGNED for userID
// and stamps the assignment time.  It reports false when the ticket was not
// in that state (or does not exist).
func (r *TicketRepo) ClaimUnassigned(ctx context.Context, roomNo, dept, userID string, at time.Time) (bool, error) {
	const q = `UPDATE facility_check_details
	           SET status = ?, userid = ?, ASSIGNED_TIME = ?
	           WHERE FACILITY_CKD_ROOMNO = ? AND FACILITY_CKD_DEPT = ?
	             AND (status IS NULL OR status = ?) AND ` + notClosed
	n, err := r.gw.Exec(ctx, q, model.StatusAssigned, userID, at, roomNo, dept, model.StatusUnassigned)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Reassign hands an open, assigned ticket to userID.  The assignment time is
// left as it was.  It reports false when the ticket is not open and assigned.
func (r *TicketRepo) Reassign(ctx context.Context, roomNo, dept, userID string) (bool, error) {
	const q = `UPDATE facility_check_details
	           SET userid = ?
	           WHERE FACILITY_CKD_ROOMNO = ? AND FACILITY_CKD_DEPT = ?
	             AND status = ? AND ` + notClosed
	n, err := r.gw.Exec(ctx, q, userID, roomNo, dept, model.StatusAssigned)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close marks every open ticket of roomNo as closed by userID at the given
// time and returns how many rows changed.  A non-empty dept narrows the
// update to that single ticket.
func (r *TicketRepo) Close(ctx context.Context, roomNo, dept, userID string, at time.Time) (int64, error) {
	const base = `UPDATE facility_check_details
	              SET COMPLETED_TIME = ?, userid = ?, tkt_status = ?
	              WHERE FACILITY_CKD_ROOMNO = ? AND ` + notClosed
	if dept == "" {
		return r.gw.Exec(ctx, base, at, userID, model.TicketClosedFlag, roomNo)
	}
	return r.gw.Exec(ctx, base+` AND FACILITY_CKD_DEPT = ?`, at, userID, model.TicketClosedFlag, roomNo, dept)
}

// Exists reports whether any ticket for roomNo (and dept, when given) exists,
// regardless of its state.
func (r *TicketRepo) Exists(ctx context.Context, roomNo, dept string) (bool, error) {
	q := `SELECT COUNT(*) FROM facility_check_details WHERE FACILITY_CKD_ROOMNO = ?`
	args := []any{roomNo}
	if dept != "" {
		q += ` AND FACILITY_CKD_DEPT = ?`
		args = append(args, dept)
	}
	var n int64
	if err := r.gw.QueryRow(ctx, q, args, &n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
