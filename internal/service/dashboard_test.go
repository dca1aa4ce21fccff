package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/queue"
	"github.com/iliyamo/messmate/internal/repository"
)

func TestOwnerDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, false))
	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-03-15", "s1", true))
	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-03-15", "s2", false))
	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-03-15", "s3", true))

	d, err := f.dashboard.Owner(ctx, "owner_1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", d.Date)
	assert.Equal(t, 4, d.StudentCount)
	assert.Equal(t, 2, d.PresentToday)
	assert.Equal(t, "80", d.Mess.PerMealRate.String())

	_, err = f.dashboard.Owner(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStudentDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.identity.Login(ctx, "sid", DemoStudentPhone)
	require.NoError(t, err)
	f.pub.events = nil
	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-03-14", "s1", true))
	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-03-15", "s1", false))

	d, err := f.dashboard.Student(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, d.Mess)
	assert.Equal(t, "Annapurna Mess", d.Mess.Name)
	require.NotNil(t, d.TodayStatus)
	assert.False(t, *d.TodayStatus)
	require.NotNil(t, d.Bill)
	assert.Equal(t, 1, d.Bill.TotalMeals)
	assert.Equal(t, "80", d.Bill.TotalAmount.String())
	assert.Equal(t, []string{queue.EventAttendanceMarked, queue.EventAttendanceMarked}, f.pub.types())
}

func TestStudentDashboardMatchesRosterByPhone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, false))
	_, err := f.identity.Register(ctx, "sid", RegisterInput{Name: "Late Joiner", Phone: "9000000020", Role: model.RoleStudent})
	require.NoError(t, err)
	st, err := f.roster.Add(ctx, DemoMessID, "Late Joiner", "9000000020")
	require.NoError(t, err)
	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-03-15", st.ID, true))

	d, err := f.dashboard.Student(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, DemoMessID, d.User.MessID)
	require.NotNil(t, d.TodayStatus)
	assert.True(t, *d.TodayStatus)
	require.NotNil(t, d.Bill)
	assert.Equal(t, st.ID, d.Bill.StudentID)
}

func TestStudentDashboardWithoutMess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.identity.Register(ctx, "sid", RegisterInput{Name: "Unlinked", Phone: "9000000021", Role: model.RoleStudent})
	require.NoError(t, err)

	d, err := f.dashboard.Student(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, d.Mess)
	assert.Nil(t, d.TodayStatus)
	assert.Nil(t, d.Bill)

	_, err = f.dashboard.Student(ctx, "no-session")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
