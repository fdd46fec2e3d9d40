package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/internal/users"
)

func listUsers(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ListUsers(rec, req)
	return rec
}

func TestListUsersStatusFilter(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	handler := NewHandler(f.service, nil)

	for _, u := range []*users.User{
		{Name: "Alice", Email: "alice@x.test", Role: auth.RolePatient, IsActive: true},
		{Name: "Bob", Email: "bob@x.test", Role: auth.RolePatient, IsActive: true},
		{Name: "Carol", Email: "carol@x.test", Role: auth.RolePatient, IsActive: false},
	} {
		require.NoError(t, f.users.Create(ctx, u))
	}

	var body struct {
		Users []*users.User `json:"users"`
		Total int64         `json:"total"`
	}

	rec := listUsers(t, handler, "/api/admin/users?status=active")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(2), body.Total)

	rec = listUsers(t, handler, "/api/admin/users?status=suspended")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(1), body.Total)
	require.Len(t, body.Users, 1)
	assert.Equal(t, "Carol", body.Users[0].Name)

	rec = listUsers(t, handler, "/api/admin/users?status=frozen")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
