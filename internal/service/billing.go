package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/repository"
	"github.com/iliyamo/messmate/internal/utils"
)

// BillingService derives monthly bills from the roster, the ledger and the
// mess's current rate. Nothing it computes is stored.
type BillingService struct {
	Messes     *repository.MessRepo
	Students   *repository.StudentRepo
	Attendance *repository.AttendanceRepo
}

func NewBillingService(messes *repository.MessRepo, students *repository.StudentRepo, attendance *repository.AttendanceRepo) *BillingService {
	return &BillingService{Messes: messes, Students: students, Attendance: attendance}
}

// MonthPrefix renders the "YYYY-MM" prefix for a zero-based month.
func MonthPrefix(year, month0 int) string {
	return fmt.Sprintf("%04d-%02d", year, month0+1)
}

// MonthlyReport returns one line per current roster member of messID, in
// roster order, for the given zero-based month. Students with no meals get
// a zero line. Amounts use the current rate. An unknown mess yields an
// empty report.
func (s *BillingService) MonthlyReport(ctx context.Context, messID string, year, month0 int) []model.BillLine {
	mess := s.Messes.GetByID(ctx, messID)
	if mess == nil {
		return []model.BillLine{}
	}
	return s.report(ctx, *mess, year, month0)
}

func (s *BillingService) report(ctx context.Context, mess model.Mess, year, month0 int) []model.BillLine {
	meals := map[string]int{}
	for _, day := range s.Attendance.ListByPrefix(ctx, mess.ID, MonthPrefix(year, month0)) {
		for studentID, ate := range day.Records {
			if ate {
				meals[studentID]++
			}
		}
	}

	roster := s.Students.ListByMess(ctx, mess.ID)
	lines := make([]model.BillLine, 0, len(roster))
	for _, st := range roster {
		n := meals[st.ID]
		lines = append(lines, model.BillLine{
			StudentID:    st.ID,
			StudentName:  st.Name,
			StudentPhone: st.Phone,
			TotalMeals:   n,
			TotalAmount:  mess.PerMealRate.Mul(decimal.NewFromInt(int64(n))),
		})
	}
	return lines
}

// Summary wraps the monthly report with totals. When byAmount is set the
// lines are ordered by amount, highest first; ties keep roster order.
func (s *BillingService) Summary(ctx context.Context, messID string, year, month0 int, byAmount bool) (*model.BillingSummary, error) {
	if err := utils.ValidateMonth(month0); err != nil {
		return nil, err
	}
	mess := s.Messes.GetByID(ctx, messID)
	if mess == nil {
		return nil, repository.ErrNotFound
	}

	lines := s.report(ctx, *mess, year, month0)
	if byAmount {
		sort.SliceStable(lines, func(i, j int) bool {
			return lines[i].TotalAmount.GreaterThan(lines[j].TotalAmount)
		})
	}

	sum := &model.BillingSummary{
		Year:         year,
		Month:        month0,
		Currency:     mess.Currency,
		PerMealRate:  mess.PerMealRate,
		TotalRevenue: decimal.Zero,
		Lines:        lines,
	}
	for _, l := range lines {
		sum.TotalRevenue = sum.TotalRevenue.Add(l.TotalAmount)
		sum.TotalMeals += l.TotalMeals
		if l.TotalMeals > 0 {
			sum.ActiveStudents++
		}
	}
	return sum, nil
}
