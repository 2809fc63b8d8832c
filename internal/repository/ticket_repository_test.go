package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/facility-desk/internal/database/dbtest"
	"github.com/iliyamo/facility-desk/internal/model"
	"github.com/iliyamo/facility-desk/internal/utils"
)

func TestTicketRepo_ClaimAndGet(t *testing.T) {
	gw := dbtest.New(t)
	repo := NewTicketRepo(gw)
	ctx := context.Background()
	dbtest.SeedTicket(t, gw, "101", "Housekeeping")
	at := time.Date(2026, 10, 19, 9, 30, 0, 0, utils.IST)

	ok, err := repo.ClaimUnassigned(ctx, "101", "Housekeeping", "U9", at)
	require.NoError(t, err)
	assert.True(t, ok)

	tk, err := repo.Get(ctx, "101", "Housekeeping")
	require.NoError(t, err)
	assert.Equal(t, model.StateAssigned, tk.State())
	assert.Equal(t, "U9", tk.AssignedTo())
	require.NotNil(t, tk.AssignedTime)
	assert.True(t, at.Equal(*tk.AssignedTime))
	assert.Nil(t, tk.CompletedTime)

	ok, err = repo.ClaimUnassigned(ctx, "101", "Housekeeping", "U7", at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "an assigned ticket cannot be claimed again")
}

func TestTicketRepo_ClaimTreatsNullStatusAsUnassigned(t *testing.T) {
	gw := dbtest.New(t)
	repo := NewTicketRepo(gw)
	dbtest.Exec(t, gw, "INSERT INTO facility_check_details (FACILITY_CKD_ROOMNO, FACILITY_CKD_DEPT) VALUES (?, ?)", "102", "Electrical")

	ok, err := repo.ClaimUnassigned(context.Background(), "102", "Electrical", "U1", utils.NowIST())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTicketRepo_GetMissing(t *testing.T) {
	repo := NewTicketRepo(dbtest.New(t))

	_, err := repo.Get(context.Background(), "999", "Nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTicketRepo_ReassignKeepsAssignedTime(t *testing.T) {
	gw := dbtest.New(t)
	repo := NewTicketRepo(gw)
	ctx := context.Background()
	dbtest.SeedTicket(t, gw, "101", "Housekeeping")
	at := time.Date(2026, 10, 19, 9, 30, 0, 0, utils.IST)

	_, err := repo.ClaimUnassigned(ctx, "101", "Housekeeping", "U9", at)
	require.NoError(t, err)

	ok, err := repo.Reassign(ctx, "101", "Housekeeping", "U3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Reassign(ctx, "101", "Housekeeping", "U3")
	require.NoError(t, err)
	assert.True(t, ok, "same holder still matches the guard")

	tk, err := repo.Get(ctx, "101", "Housekeeping")
	require.NoError(t, err)
	assert.Equal(t, "U3", tk.AssignedTo())
	require.NotNil(t, tk.AssignedTime)
	assert.True(t, at.Equal(*tk.AssignedTime))
}

func TestTicketRepo_ReassignRequiresAssigned(t *testing.T) {
	gw := dbtest.New(t)
	repo := NewTicketRepo(gw)
	dbtest.SeedTicket(t, gw, "101", "Housekeeping")

	ok, err := repo.Reassign(context.Background(), "101", "Housekeeping", "U3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTicketRepo_CloseOnce(t *testing.T) {
	gw := dbtest.New(t)
	repo := NewTicketRepo(gw)
	ctx := context.Background()
	dbtest.SeedTicket(t, gw, "101", "Housekeeping")
	at := time.Date(2026, 10, 19, 18, 0, 0, 0, utils.IST)

	n, err := repo.Close(ctx, "101", "", "U9", at)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.Close(ctx, "101", "", "U9", at)
	require.NoError(t, err)
	assert.Zero(t, n)

	tk, err := repo.Get(ctx, "101", "Housekeeping")
	require.NoError(t, err)
	assert.Equal(t, model.StateClosed, tk.State())
	assert.Equal(t, "U9", tk.AssignedTo())
	require.NotNil(t, tk.CompletedTime)
	assert.True(t, at.Equal(*tk.CompletedTime))

	ok, err := repo.ClaimUnassigned(ctx, "101", "Housekeeping", "U1", at)
	require.NoError(t, err)
	assert.False(t, ok, "closed tickets cannot be claimed")
}

func TestTicketRepo_CloseMatchesNullClosedFlag(t *testing.T) {
	gw := dbtest.New(t)
	repo := NewTicketRepo(gw)
	dbtest.Exec(t, gw, "INSERT INTO facility_check_details (FACILITY_CKD_ROOMNO, FACILITY_CKD_DEPT, status) VALUES (?, ?, 1)", "103", "Plumbing")

	n, err := repo.Close(context.Background(), "103", "", "U2", utils.NowIST())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestTicketRepo_CloseByDepartment(t *testing.T) {
	gw := dbtest.New(t)
	repo := NewTicketRepo(gw)
	ctx := context.Background()
	dbtest.SeedTicket(t, gw, "101", "Housekeeping")
	dbtest.SeedTicket(t, gw, "101", "Electrical")

	n, err := repo.Close(ctx, "101", "Electrical", "U9", utils.NowIST())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	hk, err := repo.Get(ctx, "101", "Housekeeping")
	require.NoError(t, err)
	assert.Equal(t, model.StateUnassigned, hk.State())

	n, err = repo.Close(ctx, "101", "", "U9", utils.NowIST())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "only the remaining open ticket closes")
}

func TestTicketRepo_ExistsAndList(t *testing.T) {
	gw := dbtest.New(t)
	repo := NewTicketRepo(gw)
	ctx := context.Background()
	dbtest.SeedTicket(t, gw, "202", "Electrical")
	dbtest.SeedTicket(t, gw, "101", "Housekeeping")

	ok, err := repo.Exists(ctx, "101", "")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, "101", "Electrical")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.ClaimUnassigned(ctx, "101", "Housekeeping", "U9", utils.NowIST())
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "101", list[0].RoomNo)
	assert.Equal(t, "Housekeeping", list[0].Dept)
	require.NotNil(t, list[0].Status)
	assert.Equal(t, 1, *list[0].Status)
	require.NotNil(t, list[0].UserID)
	assert.Equal(t, "U9", *list[0].UserID)
	assert.Equal(t, "202", list[1].RoomNo)
	assert.Nil(t, list[1].UserID)
}

func TestTicketRepo_ListEmpty(t *testing.T) {
	list, err := NewTicketRepo(dbtest.New(t)).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
