package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	employeememory "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/adapters/memory"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/ports"
)

func TestCreateEmployee(t *testing.T) {
	svc := NewService(employeememory.NewRepository())
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, &domain.Employee{Username: "alice", Email: "alice@example.com", Active: true})
	require.NoError(t, err)
	require.Equal(t, domain.RoleStaff, created.Role)
	require.NotZero(t, created.ID)

	_, err = svc.CreateEmployee(ctx, &domain.Employee{Username: "alice"})
	require.ErrorIs(t, err, ports.ErrAlreadyExists)

	_, err = svc.CreateEmployee(ctx, &domain.Employee{Username: "bob", Email: "nope"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.CreateEmployee(ctx, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateEmployee_KeepsIdentity(t *testing.T) {
	svc := NewService(employeememory.NewRepository())
	ctx := context.Background()
	created, err := svc.CreateEmployee(ctx, &domain.Employee{Username: "alice", Active: true})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "alice", &domain.Employee{
		Username: "someone-else",
		Role:     domain.RoleManager,
		StoreIDs: []string{"s-2", "s-1"},
		Active:   false,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "alice", updated.Username)
	require.Equal(t, domain.RoleManager, updated.Role)
	require.Equal(t, []string{"s-1", "s-2"}, updated.StoreIDs)
	require.False(t, updated.Active)

	_, err = svc.Update(ctx, "missing", &domain.Employee{Username: "missing"})
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.Update(ctx, "alice", &domain.Employee{Role: domain.Role("owner")})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteAndList(t *testing.T) {
	svc := NewService(employeememory.NewRepository())
	ctx := context.Background()
	for _, name := range []string{"carol", "alice"} {
		_, err := svc.CreateEmployee(ctx, &domain.Employee{Username: name, Active: true})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "alice", list[0].Username)

	require.NoError(t, svc.Delete(ctx, "carol"))
	require.ErrorIs(t, svc.Delete(ctx, "carol"), ports.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, " "), ErrInvalidInput)

	_, err = svc.GetByUsername(ctx, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}
