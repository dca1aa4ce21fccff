package service

import (
	"context"
	"time"

	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/repository"
)

// OwnerDashboard is the owner's landing view.
type OwnerDashboard struct {
	Mess         model.Mess `json:"mess"`
	Date         string     `json:"date"`
	StudentCount int        `json:"studentCount"`
	PresentToday int        `json:"presentToday"`
}

// StudentDashboard is the student's landing view. Mess, TodayStatus and
// Bill are nil when they do not apply.
type StudentDashboard struct {
	User        model.User      `json:"user"`
	Mess        *model.Mess     `json:"mess,omitempty"`
	Date        string          `json:"date"`
	TodayStatus *bool           `json:"todayStatus"`
	Bill        *model.BillLine `json:"bill,omitempty"`
}

// DashboardService composes the other services into landing views.
type DashboardService struct {
	Identity *IdentityService
	Messes   *MessService
	Roster   *RosterService
	Ledger   *LedgerService
	Billing  *BillingService
	Now      func() time.Time
}

func NewDashboardService(identity *IdentityService, messes *MessService, roster *RosterService, ledger *LedgerService, billing *BillingService) *DashboardService {
	return &DashboardService{Identity: identity, Messes: messes, Roster: roster, Ledger: ledger, Billing: billing, Now: time.Now}
}

// Owner builds the owner's view for today.
func (s *DashboardService) Owner(ctx context.Context, ownerID string) (*OwnerDashboard, error) {
	mess := s.Messes.ByOwner(ctx, ownerID)
	if mess == nil {
		return nil, repository.ErrNotFound
	}
	today := s.Now().Format(model.DateLayout)
	day := model.DayRecord{Date: today, MessID: mess.ID, Records: s.Ledger.GetDay(ctx, mess.ID, today)}
	return &OwnerDashboard{
		Mess:         *mess,
		Date:         today,
		StudentCount: len(s.Roster.ListByMess(ctx, mess.ID)),
		PresentToday: day.Present(),
	}, nil
}

// Student refreshes the session and builds the student's view for today:
// their mess, today's attendance flag and their bill line for this month.
// The roster entry is matched by user id first and then by phone, since a
// student who registered before being enrolled has a different roster id.
func (s *DashboardService) Student(ctx context.Context, sid string) (*StudentDashboard, error) {
	u := s.Identity.RefreshSession(ctx, sid)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	now := s.Now()
	out := &StudentDashboard{User: *u, Date: now.Format(model.DateLayout)}
	if u.MessID == "" {
		return out, nil
	}
	out.Mess = s.Messes.ByID(ctx, u.MessID)
	if out.Mess == nil {
		return out, nil
	}

	rosterID := u.ID
	for _, st := range s.Roster.ListByMess(ctx, u.MessID) {
		if st.ID == u.ID {
			rosterID = st.ID
			break
		}
		if st.Phone == u.Phone {
			rosterID = st.ID
		}
	}

	if ate, ok := s.Ledger.GetDay(ctx, u.MessID, out.Date)[rosterID]; ok {
		out.TodayStatus = &ate
	}
	for _, line := range s.Billing.MonthlyReport(ctx, u.MessID, now.Year(), int(now.Month())-1) {
		if line.StudentID == rosterID {
			out.Bill = &line
			break
		}
	}
	return out, nil
}
