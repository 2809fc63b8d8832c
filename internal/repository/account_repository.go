package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/facility-desk/internal/database"
	"github.com/iliyamo/facility-desk/internal/model"
)

// AccountRepo persists staff credentials in the `login` table.
type AccountRepo struct{ gw *database.Gateway }

func NewAccountRepo(gw *database.Gateway) *AccountRepo { return &AccountRepo{gw: gw} }

// Create inserts an account.  The password must already be in its stored
// form.  A duplicate user id yields ErrConflict.
func (r *AccountRepo) Create(ctx context.Context, a model.Account) error {
	_, err := r.gw.Exec(ctx,
		"INSERT INTO login (USERNAME, DEPT, USERID, PASSWORD) VALUES (?, ?, ?, ?)",
		a.Username, a.Department, a.UserID, a.Password)
	return conflictOr(err)
}

// GetByUserID fetches an account by its login handle.
func (r *AccountRepo) GetByUserID(ctx context.Context, userID string) (model.Account, error) {
	var a model.Account
	err := r.gw.QueryRow(ctx,
		"SELECT USERID, USERNAME, DEPT, PASSWORD FROM login WHERE USERID = ?",
		[]any{userID}, &a.UserID, &a.Username, &a.Department, &a.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}
