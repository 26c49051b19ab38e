package adminserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	employeehttpmapper "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/adapters/http/mapper"
	apierrors "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/shared/errors"
)

func TestEmployeeAPI_Lifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/employees", "", `{"username": "bob", "firstName": "Bob", "email": "bob@example.com", "storeIds": ["s-2", "s-1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[employeehttpmapper.Employee](t, rec)
	require.Equal(t, "bob", created.Username)
	require.Equal(t, "staff", created.Role)
	require.Equal(t, []string{"s-1", "s-2"}, created.StoreIDs)
	require.NotNil(t, created.Active)
	require.True(t, *created.Active)

	requireProblem(t, srv.do(t, http.MethodPost, "/api/employees", "", `{"username": "bob"}`), http.StatusConflict, apierrors.TypeConflict)

	rec = srv.do(t, http.MethodPut, "/api/employees/bob", "", `{"username": "ignored", "role": "manager", "active": false, "storeIds": []}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[employeehttpmapper.Employee](t, rec)
	require.Equal(t, "bob", updated.Username)
	require.Equal(t, "manager", updated.Role)
	require.False(t, *updated.Active)

	rec = srv.do(t, http.MethodGet, "/api/employees/bob", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "manager", decode[employeehttpmapper.Employee](t, rec).Role)

	rec = srv.do(t, http.MethodGet, "/api/employees", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]employeehttpmapper.Employee](t, rec), 1)

	rec = srv.do(t, http.MethodDelete, "/api/employees/bob", "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	requireProblem(t, srv.do(t, http.MethodGet, "/api/employees/bob", "", ""), http.StatusNotFound, apierrors.TypeNotFound)
	requireProblem(t, srv.do(t, http.MethodDelete, "/api/employees/bob", "", ""), http.StatusNotFound, apierrors.TypeNotFound)
}

func TestEmployeeAPI_RejectsInvalidPayloads(t *testing.T) {
	srv := newTestServer(t, nil)

	requireProblem(t, srv.do(t, http.MethodPost, "/api/employees", "", `{"username": "  "}`), http.StatusBadRequest, apierrors.TypeValidation)
	requireProblem(t, srv.do(t, http.MethodPost, "/api/employees", "", `{"username": "amy", "role": "owner"}`), http.StatusBadRequest, apierrors.TypeValidation)
	requireProblem(t, srv.do(t, http.MethodPost, "/api/employees", "", `{"username": "amy", "email": "nope"}`), http.StatusBadRequest, apierrors.TypeValidation)
	requireProblem(t, srv.do(t, http.MethodPost, "/api/employees", "", `[`), http.StatusBadRequest, apierrors.TypeBadRequest)
	requireProblem(t, srv.do(t, http.MethodPut, "/api/employees/ghost", "", `{"username": "ghost"}`), http.StatusNotFound, apierrors.TypeNotFound)
}
