package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/queue"
	"github.com/iliyamo/messmate/internal/repository"
	"github.com/iliyamo/messmate/internal/utils"
)

// RosterService manages which students are enrolled in a mess.
type RosterService struct {
	Students  *repository.StudentRepo
	Users     *repository.UserRepo
	Publisher queue.Publisher
	Now       func() time.Time
}

func NewRosterService(students *repository.StudentRepo, users *repository.UserRepo, pub queue.Publisher) *RosterService {
	return &RosterService{Students: students, Users: users, Publisher: pub, Now: time.Now}
}

// ListByMess returns the mess's students in the order they were added.
func (s *RosterService) ListByMess(ctx context.Context, messID string) []model.Student {
	return s.Students.ListByMess(ctx, messID)
}

// Add enrolls a student and reconciles the identity directory:
//   - no user with the phone: a STUDENT user is created with the roster id;
//   - a STUDENT user with no mess: it is linked to messID;
//   - any other user is left alone, even when enrolled elsewhere.
func (s *RosterService) Add(ctx context.Context, messID, name, phone string) (*model.Student, error) {
	phone = utils.NormalizePhone(phone)
	st := model.Student{
		ID:       newID("s"),
		Name:     strings.TrimSpace(name),
		Phone:    phone,
		MessID:   messID,
		JoinedAt: s.Now().UTC(),
	}
	if err := s.Students.Append(ctx, st); err != nil {
		return nil, fmt.Errorf("append student: %w", err)
	}

	if err := s.reconcileUser(ctx, st); err != nil {
		return nil, err
	}

	slog.Info("student added", "mess_id", messID, "student_id", st.ID)
	publish(ctx, s.Publisher, queue.ActivityEvent{
		Type:      queue.EventStudentAdded,
		MessID:    messID,
		StudentID: st.ID,
		Name:      st.Name,
		Phone:     st.Phone,
	})
	return &st, nil
}

func (s *RosterService) reconcileUser(ctx context.Context, st model.Student) error {
	existing := s.Users.GetByPhone(ctx, st.Phone)
	switch {
	case existing == nil:
		u := model.User{ID: st.ID, Name: st.Name, Phone: st.Phone, Role: model.RoleStudent, MessID: st.MessID}
		if err := s.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("create student user: %w", err)
		}
	case existing.Role == model.RoleStudent && existing.MessID == "":
		key, _ := s.Users.GetByID(ctx, existing.ID)
		linked := *existing
		linked.MessID = st.MessID
		if err := s.Users.Put(ctx, key, linked); err != nil {
			return fmt.Errorf("link student user: %w", err)
		}
	}
	return nil
}
