package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/ports"
)

func TestRepository_SaveAssignsIDsAndUpserts(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	alice, err := domain.NewEmployee(0, "alice", domain.RoleAdmin)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, int64(1), saved.ID)

	saved.Deactivate()
	again, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	require.Equal(t, int64(1), again.ID)
	require.False(t, again.Active)

	bob, err := domain.NewEmployee(0, "bob", domain.RoleStaff)
	require.NoError(t, err)
	savedBob, err := repo.Save(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, int64(2), savedBob.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "alice", list[0].Username)
}

func TestRepository_GetAndDelete(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	employee, err := domain.NewEmployee(0, "carol", domain.RoleManager)
	require.NoError(t, err)
	employee.AssignStores([]string{"s-1"})
	_, err = repo.Save(ctx, employee)
	require.NoError(t, err)

	loaded, err := repo.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	loaded.StoreIDs[0] = "mutated"
	reloaded, err := repo.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	require.Equal(t, []string{"s-1"}, reloaded.StoreIDs)

	require.NoError(t, repo.Delete(ctx, "carol"))
	require.ErrorIs(t, repo.Delete(ctx, "carol"), ports.ErrNotFound)
	_, err = repo.GetByUsername(ctx, "carol")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
