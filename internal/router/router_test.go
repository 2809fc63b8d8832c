package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/facility-desk/internal/config"
	"github.com/iliyamo/facility-desk/internal/database"
	"github.com/iliyamo/facility-desk/internal/database/dbtest"
	"github.com/iliyamo/facility-desk/internal/logger"
)

type testServer struct {
	e  *echo.Echo
	gw *database.Gateway
	mr *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	gw := dbtest.New(t)
	cfg := config.Config{
		PasswordMode: config.PasswordModeBcrypt,
		BcryptCost:   4,
		RateLimit: config.RateLimitConfig{
			Enabled: true, Capacity: 100, RefillTokens: 1,
			RefillInterval: time.Minute, TTL: time.Hour, Prefix: "rl",
		},
		Cache: config.CacheConfig{
			Enabled: true, Methods: []string{"GET"}, TTL: time.Minute,
			Prefix: "cache", MaxBodyBytes: 1 << 20,
		},
	}
	e, err := New(Deps{Config: cfg, Log: logger.Discard(), Gateway: gw, Redis: rdb})
	require.NoError(t, err)
	return &testServer{e: e, gw: gw, mr: mr}
}

func (s *testServer) call(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestAssignFlow(t *testing.T) {
	s := newTestServer(t)
	dbtest.SeedTicket(t, s.gw, "101", "Housekeeping")

	rec := s.call(http.MethodPost, "/assign", `{"userid":"U9","status":0,"roomNo":"101","department":"Housekeeping","forceReassign":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "message": "Assigned successfully."}, decode(t, rec))

	rec = s.call(http.MethodPost, "/assign", `{"userid":"U9","roomNo":"101","department":"Housekeeping","forceReassign":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"alreadyAssigned": true,
		"currentUser":     "U9",
		"message":         "Already assigned to U9. Do you want to reassign?",
	}, decode(t, rec))

	rec = s.call(http.MethodPost, "/assign", `{"userid":"U3","roomNo":101,"department":"Housekeeping","forceReassign":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Reassigned successfully.", decode(t, rec)["message"])
}

func TestAssignErrors(t *testing.T) {
	s := newTestServer(t)
	dbtest.SeedTicket(t, s.gw, "101", "Housekeeping")

	rec := s.call(http.MethodPost, "/assign", `{"userid":"U1","roomNo":"404","department":"Nowhere"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.call(http.MethodPost, "/assign", `{"userid":"U1","roomNo":"101"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "department")

	rec = s.call(http.MethodPost, "/assign", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusOK, s.call(http.MethodPost, "/close-ticket", `{"ROOMNO":"101","USERID":"U1"}`).Code)
	rec = s.call(http.MethodPost, "/assign", `{"userid":"U2","roomNo":"101","department":"Housekeeping","forceReassign":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloseTicket(t *testing.T) {
	s := newTestServer(t)
	dbtest.SeedTicket(t, s.gw, "101", "Housekeeping")

	rec := s.call(http.MethodPost, "/close-ticket", `{"ROOMNO":"101","USERID":"U5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "message": "Ticket completed and closed successfully."}, decode(t, rec))

	rec = s.call(http.MethodPost, "/close-ticket", `{"ROOMNO":"101","USERID":"U5"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Ticket is already closed or not found.", body["message"])
	assert.Equal(t, "already_closed", body["reason"])

	rec = s.call(http.MethodPost, "/close-ticket", `{"ROOMNO":"999","USERID":"U5"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["reason"])

	rec = s.call(http.MethodPost, "/close-ticket", `{"ROOMNO":"101"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ROOMNO and USERID are required", decode(t, rec)["error"])
}

func TestPeopleIsCachedAndPurgedOnAssign(t *testing.T) {
	s := newTestServer(t)
	dbtest.SeedTicket(t, s.gw, "101", "Housekeeping")

	rec := s.call(http.MethodGet, "/people", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `[{"roomNo":"101","dept":"Housekeeping","status":0,"userId":null}]`, rec.Body.String())

	rec = s.call(http.MethodGet, "/people", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	require.Equal(t, http.StatusOK, s.call(http.MethodPost, "/assign", `{"userid":"U9","roomNo":"101","department":"Housekeeping"}`).Code)

	rec = s.call(http.MethodGet, "/people", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `[{"roomNo":"101","dept":"Housekeeping","status":1,"userId":"U9"}]`, rec.Body.String())
}

func TestRegisterLoginAndLookup(t *testing.T) {
	s := newTestServer(t)

	rec := s.call(http.MethodPost, "/register", `{"USERNAME":"Asha","DEPT":"Housekeeping","USERID":1001,"PASSWORD":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "message": "Inserted successfully"}, decode(t, rec))

	rec = s.call(http.MethodPost, "/register", `{"USERNAME":"Asha","DEPT":"Housekeeping","USERID":"1001","PASSWORD":"x"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.call(http.MethodPost, "/register", `{"USERNAME":"Asha","DEPT":"Housekeeping"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", decode(t, rec)["error"])

	rec = s.call(http.MethodPost, "/login", `{"USERID":"1001","PASSWORD":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"message": "Login successful", "name": "Asha", "department": "Housekeeping"}, decode(t, rec))

	rec = s.call(http.MethodPost, "/login", `{"USERID":"1001","PASSWORD":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decode(t, rec)["message"])

	rec = s.call(http.MethodPost, "/login", `{"USERID":"1001"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.call(http.MethodGet, "/person/1001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"USERNAME":"Asha","DEPT":"Housekeeping","USERID":"1001"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "PASSWORD")

	assert.Equal(t, http.StatusNotFound, s.call(http.MethodGet, "/person/42", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.call(http.MethodGet, "/person/abc", "").Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	s := newTestServer(t)
	limited := false
	for i := 0; i < 101; i++ {
		rec := s.call(http.MethodPost, "/login", `{"USERID":"1","PASSWORD":"x"}`)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}

func TestInsertPerson(t *testing.T) {
	s := newTestServer(t)

	rec := s.call(http.MethodPost, "/insert", `{"name":"Ravi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "message": "Inserted successfully"}, decode(t, rec))

	rec = s.call(http.MethodPost, "/insert", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name is required", decode(t, rec)["error"])
}

func TestStoreFailureHidesDriverText(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.gw.Close())

	rec := s.call(http.MethodGet, "/people", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "database error"}, decode(t, rec))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.call(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = s.call(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "facility_http_requests_total")

	require.NoError(t, s.gw.Close())
	assert.Equal(t, http.StatusServiceUnavailable, s.call(http.MethodGet, "/healthz", "").Code)
}
