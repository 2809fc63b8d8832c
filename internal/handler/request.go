package handler

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// flexString accepts a JSON string or number and keeps it as trimmed text.
// Room numbers and user ids arrive both ways from the mobile client.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

type insertPersonReq struct {
	Name flexString `json:"name" validate:"required"`
}

type registerReq struct {
	Username   flexString `json:"USERNAME" validate:"required"`
	Department flexString `json:"DEPT" validate:"required"`
	UserID     flexString `json:"USERID" validate:"required"`
	Password   string     `json:"PASSWORD" validate:"required"`
}

type loginReq struct {
	UserID   flexString `json:"USERID" validate:"required"`
	Password string     `json:"PASSWORD" validate:"required"`
}

type closeTicketReq struct {
	RoomNo     flexString `json:"ROOMNO" validate:"required"`
	UserID     flexString `json:"USERID" validate:"required"`
	Department flexString `json:"DEPT"`
}

// assignReq.Status is what the client believed the status to be.  It is
// only logged; the state machine always re-reads the ticket.
type assignReq struct {
	UserID        flexString `json:"userid" validate:"required"`
	Status        flexString `json:"status"`
	RoomNo        flexString `json:"roomNo" validate:"required"`
	Department    flexString `json:"department" validate:"required"`
	ForceReassign bool       `json:"forceReassign"`
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
