package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/queue"
)

func TestAddStudentCreatesUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	st, err := f.roster.Add(ctx, "m1", "Neha Gupta", "(900) 000-0010")
	require.NoError(t, err)
	assert.Equal(t, "9000000010", st.Phone)
	assert.Equal(t, fixedNow, st.JoinedAt)

	u := f.users.GetByPhone(ctx, "9000000010")
	require.NotNil(t, u)
	assert.Equal(t, st.ID, u.ID)
	assert.Equal(t, model.RoleStudent, u.Role)
	assert.Equal(t, "m1", u.MessID)

	assert.Equal(t, []string{queue.EventStudentAdded}, f.pub.types())
	assert.Equal(t, st.ID, f.pub.events[0].StudentID)
}

func TestAddStudentBackfillsUnlinkedStudent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reg, err := f.identity.Register(ctx, "", RegisterInput{Name: "Arjun", Phone: "9000000011", Role: model.RoleStudent})
	require.NoError(t, err)

	st, err := f.roster.Add(ctx, "m1", "Arjun", "9000000011")
	require.NoError(t, err)

	u := f.users.GetByPhone(ctx, "9000000011")
	require.NotNil(t, u)
	assert.Equal(t, reg.ID, u.ID)
	assert.NotEqual(t, st.ID, u.ID)
	assert.Equal(t, "m1", u.MessID)
	assert.Len(t, f.users.All(ctx), 1)
}

func TestAddStudentLeavesOtherMessAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.roster.Add(ctx, "m_a", "Dev", "9000000012")
	require.NoError(t, err)

	_, err = f.roster.Add(ctx, "m_b", "Dev", "9000000012")
	require.NoError(t, err)

	u := f.users.GetByPhone(ctx, "9000000012")
	require.NotNil(t, u)
	assert.Equal(t, "m_a", u.MessID)
	assert.Len(t, f.roster.ListByMess(ctx, "m_a"), 1)
	assert.Len(t, f.roster.ListByMess(ctx, "m_b"), 1)
}

func TestAddStudentNeverTouchesOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, err := f.identity.Register(ctx, "", RegisterInput{Name: "Owner Also Eats", Phone: "9000000013", Role: model.RoleOwner})
	require.NoError(t, err)

	_, err = f.roster.Add(ctx, "m1", "Owner Also Eats", "9000000013")
	require.NoError(t, err)

	u := f.users.GetByPhone(ctx, "9000000013")
	require.NotNil(t, u)
	assert.Equal(t, *owner, *u)
}

func TestRosterOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i, n := range []string{"First", "Second", "Third"} {
		_, err := f.roster.Add(ctx, "m1", n, fmt.Sprintf("900000003%d", i))
		require.NoError(t, err)
	}
	_, err := f.roster.Add(ctx, "m2", "Elsewhere", "9000000039")
	require.NoError(t, err)

	var names []string
	for _, st := range f.roster.ListByMess(ctx, "m1") {
		names = append(names, st.Name)
	}
	assert.Equal(t, []string{"First", "Second", "Third"}, names)
	assert.NotNil(t, f.roster.ListByMess(ctx, "none"))
}
