package repository

import (
	"context"

	"github.com/iliyamo/facility-desk/internal/database"
	"github.com/iliyamo/facility-desk/internal/model"
)

// PersonRepo writes to the `Person` table.
type PersonRepo struct{ gw *database.Gateway }

func NewPersonRepo(gw *database.Gateway) *PersonRepo { return &PersonRepo{gw: gw} }

// Insert stores a person record.
func (r *PersonRepo) Insert(ctx context.Context, p model.Person) error {
	_, err := r.gw.Exec(ctx, "INSERT INTO Person (Name) VALUES (?)", p.Name)
	return err
}
