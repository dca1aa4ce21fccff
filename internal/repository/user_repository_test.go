package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/messmate/internal/kv"
	"github.com/iliyamo/messmate/internal/model"
)

func TestUserCreateRejectsDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo(kv.NewMemoryStore())

	first := model.User{ID: "u1", Name: "Amit", Phone: "9000000001", Role: model.RoleStudent}
	require.NoError(t, r.Create(ctx, first))

	err := r.Create(ctx, model.User{ID: "u2", Name: "Other", Phone: "9000000001", Role: model.RoleOwner})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	got := r.GetByPhone(ctx, "9000000001")
	require.NotNil(t, got)
	assert.Equal(t, first, *got)
}

func TestUserLookupByPhoneScansValues(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo(kv.NewMemoryStore())

	// an entry stored under a non-phone key is still reachable by phone
	require.NoError(t, r.Put(ctx, "owner_1", model.User{ID: "owner_1", Phone: "9876543210", Role: model.RoleOwner}))

	got := r.GetByPhone(ctx, "9876543210")
	require.NotNil(t, got)
	assert.Equal(t, "owner_1", got.ID)

	err := r.Create(ctx, model.User{ID: "x", Phone: "9876543210"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestUserGetByID(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo(kv.NewMemoryStore())
	require.NoError(t, r.Create(ctx, model.User{ID: "u7", Phone: "9000000007"}))

	key, u := r.GetByID(ctx, "u7")
	require.NotNil(t, u)
	assert.Equal(t, "9000000007", key)

	key, u = r.GetByID(ctx, "missing")
	assert.Nil(t, u)
	assert.Empty(t, key)
}

func TestSessionRepoKeys(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	r := NewSessionRepo(store)

	require.NoError(t, r.Put(ctx, "", model.User{ID: "default"}))
	require.NoError(t, r.Put(ctx, "abc", model.User{ID: "scoped"}))

	assert.True(t, kv.Exists(ctx, store, "current_session"))
	assert.True(t, kv.Exists(ctx, store, "current_session:abc"))
	assert.Equal(t, "default", r.Get(ctx, "").ID)
	assert.Equal(t, "scoped", r.Get(ctx, "abc").ID)

	require.NoError(t, r.Clear(ctx, "abc"))
	assert.Nil(t, r.Get(ctx, "abc"))
	assert.NotNil(t, r.Get(ctx, ""))
}
