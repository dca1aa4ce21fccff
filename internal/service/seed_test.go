package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/messmate/internal/kv"
	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/queue"
)

func TestSeedIsNoopWhenOwnerExists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, false))

	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-03-01", "s1", true))

	require.NoError(t, f.seeder.Seed(ctx, false))
	assert.True(t, f.ledger.GetDay(ctx, DemoMessID, "2024-03-01")["s1"])
}

func TestForcedSeedKeepsOtherData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, false))

	owner, err := f.identity.Register(ctx, "", RegisterInput{Name: "Other Owner", Phone: "9777777777", Role: model.RoleOwner, MessName: "Other Mess"})
	require.NoError(t, err)
	other := f.mess.ByOwner(ctx, owner.ID)
	require.NotNil(t, other)
	_, err = f.roster.Add(ctx, other.ID, "Outside Student", "9888888888")
	require.NoError(t, err)
	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-03-02", "s2", true))

	// the demo owner goes missing and a demo login reseeds
	users := f.users.All(ctx)
	delete(users, DemoOwnerPhone)
	require.NoError(t, f.users.ReplaceAll(ctx, users))
	u, err := f.identity.Login(ctx, "", DemoOwnerPhone)
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.NotNil(t, f.users.GetByPhone(ctx, "9777777777"))
	assert.NotNil(t, f.mess.ByID(ctx, other.ID))
	assert.Len(t, f.roster.ListByMess(ctx, other.ID), 1)
	assert.Len(t, f.roster.ListByMess(ctx, DemoMessID), 4)
	assert.True(t, f.ledger.GetDay(ctx, DemoMessID, "2024-03-02")["s2"])
}

func TestSeedWritesEmptyLedgerWhenMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, true))

	raw, err := f.store.Get(ctx, kv.KeyAttendance)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	for _, phone := range []string{"9000000001", "9000000002", "9000000003", "9000000004"} {
		u := f.users.GetByPhone(ctx, phone)
		require.NotNil(t, u, phone)
		assert.Equal(t, model.RoleStudent, u.Role)
		assert.Equal(t, DemoMessID, u.MessID)
	}
}

func TestForcedSeedKeepsUserHoldingSeedPhone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, false))

	// 9000000002 is freed and taken by a new owner before the demo owner disappears
	users := f.users.All(ctx)
	delete(users, DemoOwnerPhone)
	delete(users, "9000000002")
	require.NoError(t, f.users.ReplaceAll(ctx, users))
	owner, err := f.identity.Register(ctx, "", RegisterInput{Name: "Phone Holder", Phone: "9000000002", Role: model.RoleOwner, MessName: "Holder Mess"})
	require.NoError(t, err)

	require.NoError(t, f.seeder.Seed(ctx, true))

	got := f.users.GetByPhone(ctx, "9000000002")
	require.NotNil(t, got)
	assert.Equal(t, owner.ID, got.ID)
	assert.Equal(t, model.RoleOwner, got.Role)
	assert.NotNil(t, f.users.GetByPhone(ctx, DemoOwnerPhone))
	assert.Equal(t, "s1", f.users.GetByPhone(ctx, "9000000001").ID)
}

func TestForcedSeedPublishesMessUpdated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, false))
	assert.Empty(t, f.pub.types())

	rate := decimal.NewFromInt(120)
	_, err := f.mess.Update(ctx, DemoMessID, model.MessUpdate{PerMealRate: &rate})
	require.NoError(t, err)
	f.pub.events = nil

	require.NoError(t, f.seeder.Seed(ctx, true))
	assert.Equal(t, []string{queue.EventMessUpdated}, f.pub.types())
	assert.Equal(t, DemoMessID, f.pub.events[0].MessID)
	assert.Equal(t, "80", f.mess.ByID(ctx, DemoMessID).PerMealRate.String())
}
