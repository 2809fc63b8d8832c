package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_AcceptsStringsAndNumbers(t *testing.T) {
	var req closeTicketReq
	require.NoError(t, json.Unmarshal([]byte(`{"ROOMNO": 101, "USERID": " U9 ", "DEPT": null}`), &req))
	assert.Equal(t, "101", req.RoomNo.String())
	assert.Equal(t, "U9", req.UserID.String())
	assert.Empty(t, req.Department.String())
}

func TestFlexString_RejectsObjects(t *testing.T) {
	var req closeTicketReq
	assert.Error(t, json.Unmarshal([]byte(`{"ROOMNO": {"n": 1}}`), &req))
}

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&assignReq{UserID: "U1"})
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"roomNo", "department"}, invalidFields(err))

	assert.NoError(t, v.Validate(&assignReq{UserID: "U1", RoomNo: "101", Department: "HK"}))
}
