package service

import (
	"context"

	"github.com/iliyamo/messmate/internal/queue"
	"github.com/iliyamo/messmate/internal/repository"
)

// LedgerService records daily meal attendance.
type LedgerService struct {
	Attendance *repository.AttendanceRepo
	Publisher  queue.Publisher
}

func NewLedgerService(attendance *repository.AttendanceRepo, pub queue.Publisher) *LedgerService {
	return &LedgerService{Attendance: attendance, Publisher: pub}
}

// GetDay returns studentID -> ate for one mess and date; empty when nothing
// is recorded.
func (s *LedgerService) GetDay(ctx context.Context, messID, date string) map[string]bool {
	return s.Attendance.GetDay(ctx, messID, date)
}

// Mark records whether studentID ate on date. Repeating a call is harmless
// and the latest call wins.
func (s *LedgerService) Mark(ctx context.Context, messID, date, studentID string, present bool) error {
	if err := s.Attendance.Mark(ctx, messID, date, studentID, present); err != nil {
		return err
	}
	publish(ctx, s.Publisher, queue.ActivityEvent{
		Type:      queue.EventAttendanceMarked,
		MessID:    messID,
		StudentID: studentID,
		Date:      date,
		Present:   &present,
	})
	return nil
}
