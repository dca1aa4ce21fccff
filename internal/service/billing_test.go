package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/queue"
	"github.com/iliyamo/messmate/internal/repository"
	"github.com/iliyamo/messmate/internal/utils"
)

// marchOf marks studentID true on the first `ate` days of March 2024 and
// false on the following `skipped` days.
func marchOf(t *testing.T, f *fixture, messID, studentID string, ate, skipped int) {
	t.Helper()
	ctx := context.Background()
	for d := 1; d <= ate+skipped; d++ {
		date := fmt.Sprintf("2024-03-%02d", d)
		require.NoError(t, f.ledger.Mark(ctx, messID, date, studentID, d <= ate))
	}
}

func TestMonthlyReportTenMeals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, false))
	marchOf(t, f, DemoMessID, "s1", 10, 5)

	lines := f.billing.MonthlyReport(ctx, DemoMessID, 2024, 2)
	require.Len(t, lines, 4)
	assert.Equal(t, "s1", lines[0].StudentID)
	assert.Equal(t, 10, lines[0].TotalMeals)
	assert.True(t, lines[0].TotalAmount.Equal(decimal.NewFromInt(800)))
	for _, l := range lines[1:] {
		assert.Zero(t, l.TotalMeals)
		assert.True(t, l.TotalAmount.IsZero())
	}

	// rate changes apply retroactively
	rate := decimal.NewFromInt(100)
	_, err := f.mess.Update(ctx, DemoMessID, model.MessUpdate{PerMealRate: &rate})
	require.NoError(t, err)
	lines = f.billing.MonthlyReport(ctx, DemoMessID, 2024, 2)
	assert.True(t, lines[0].TotalAmount.Equal(decimal.NewFromInt(1000)))
}

func TestMonthlyReportFiltersMonthAndMess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, false))

	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-02-29", "s1", true))
	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-03-01", "s1", true))
	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-04-01", "s1", true))
	require.NoError(t, f.ledger.Mark(ctx, "other", "2024-03-02", "s1", true))
	// a flag for someone no longer on the roster is ignored
	require.NoError(t, f.ledger.Mark(ctx, DemoMessID, "2024-03-02", "gone", true))

	lines := f.billing.MonthlyReport(ctx, DemoMessID, 2024, 2)
	require.Len(t, lines, 4)
	assert.Equal(t, 1, lines[0].TotalMeals)
	for _, l := range lines {
		assert.NotEqual(t, "gone", l.StudentID)
	}
}

func TestMonthlyReportUnknownMess(t *testing.T) {
	f := newFixture(t)
	lines := f.billing.MonthlyReport(context.Background(), "nope", 2024, 2)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestMonthPrefix(t *testing.T) {
	assert.Equal(t, "2024-01", MonthPrefix(2024, 0))
	assert.Equal(t, "2024-12", MonthPrefix(2024, 11))
	assert.Equal(t, "0999-03", MonthPrefix(999, 2))
}

func TestSummarySortedByAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, false))
	marchOf(t, f, DemoMessID, "s1", 2, 0)
	marchOf(t, f, DemoMessID, "s3", 5, 1)

	sum, err := f.billing.Summary(ctx, DemoMessID, 2024, 2, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"s3", "s1", "s2", "s4"}, lineIDs(sum.Lines))
	assert.Equal(t, 7, sum.TotalMeals)
	assert.Equal(t, 2, sum.ActiveStudents)
	assert.True(t, sum.TotalRevenue.Equal(decimal.NewFromInt(560)))
	assert.Equal(t, model.DefaultCurrency, sum.Currency)

	sum, err = f.billing.Summary(ctx, DemoMessID, 2024, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3", "s4"}, lineIDs(sum.Lines))
}

func TestSummaryErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.billing.Summary(ctx, "nope", 2024, 2, false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.billing.Summary(ctx, "nope", 2024, 12, false)
	assert.ErrorIs(t, err, utils.ErrInvalidMonth)
}

func TestRateUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.seeder.Seed(ctx, false))

	neg := decimal.NewFromInt(-1)
	_, err := f.mess.Update(ctx, DemoMessID, model.MessUpdate{PerMealRate: &neg})
	assert.ErrorIs(t, err, utils.ErrInvalidRate)

	_, err = f.mess.Update(ctx, "ghost", model.MessUpdate{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	name := "Annapurna Bhojanalaya"
	m, err := f.mess.Update(ctx, DemoMessID, model.MessUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "80", m.PerMealRate.String())
	assert.Equal(t, []string{queue.EventMessUpdated}, f.pub.types())
	f.pub.events = nil

	rate := decimal.RequireFromString("92.5")
	m, err = f.mess.Update(ctx, DemoMessID, model.MessUpdate{PerMealRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, name, m.Name)
	require.Equal(t, []string{queue.EventRateChanged}, f.pub.types())
	assert.Equal(t, "80", f.pub.events[0].OldRate)
	assert.Equal(t, "92.5", f.pub.events[0].NewRate)
}

func lineIDs(lines []model.BillLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.StudentID)
	}
	return out
}
