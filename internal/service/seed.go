package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/messmate/internal/kv"
	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/queue"
	"github.com/iliyamo/messmate/internal/repository"
)

// Demo identities installed by the seeder.
const (
	DemoOwnerPhone   = "9876543210"
	DemoStudentPhone = "9000000001"
	DemoMessID       = "mess_1"
	demoOwnerID      = "owner_1"
)

// IsDemoPhone reports whether phone belongs to a seeded demo account.
func IsDemoPhone(phone string) bool {
	return phone == DemoOwnerPhone || phone == DemoStudentPhone
}

// Seeder installs the baseline demo data: one owner, one mess at 80 per
// meal and four students.
type Seeder struct {
	Users      *repository.UserRepo
	Messes     *repository.MessRepo
	Students   *repository.StudentRepo
	Attendance *repository.AttendanceRepo
	Publisher  queue.Publisher
	Now        func() time.Time
}

func NewSeeder(users *repository.UserRepo, messes *repository.MessRepo, students *repository.StudentRepo, attendance *repository.AttendanceRepo, pub queue.Publisher) *Seeder {
	return &Seeder{Users: users, Messes: messes, Students: students, Attendance: attendance, Publisher: pub, Now: time.Now}
}

// Seed installs the demo data. Without force it does nothing when the demo
// owner is already registered. Seed records are upserted by key so
// unrelated registrations survive: a seed user whose phone already belongs
// to a different account is skipped. Existing attendance is kept and an
// empty ledger is written only when none exists. A forced reseed publishes
// mess.updated for the demo mess since its rate may have been reset.
func (s *Seeder) Seed(ctx context.Context, force bool) error {
	if !force && s.Users.GetByPhone(ctx, DemoOwnerPhone) != nil {
		return nil
	}
	now := s.Now().UTC()

	owner := model.User{ID: demoOwnerID, Name: "Rajesh Kumar", Phone: DemoOwnerPhone, Role: model.RoleOwner}
	mess := model.Mess{
		ID:          DemoMessID,
		Name:        "Annapurna Mess",
		OwnerID:     demoOwnerID,
		PerMealRate: decimal.NewFromInt(80),
		Currency:    model.DefaultCurrency,
		CreatedAt:   now,
	}
	seedStudents := []model.Student{
		{ID: "s1", Name: "Amit Sharma", Phone: "9000000001", MessID: DemoMessID, JoinedAt: now},
		{ID: "s2", Name: "Rahul Verma", Phone: "9000000002", MessID: DemoMessID, JoinedAt: now},
		{ID: "s3", Name: "Priya Singh", Phone: "9000000003", MessID: DemoMessID, JoinedAt: now},
		{ID: "s4", Name: "Vikram Das", Phone: "9000000004", MessID: DemoMessID, JoinedAt: now},
	}

	users := s.Users.All(ctx)
	seedUsers := []model.User{owner}
	for _, st := range seedStudents {
		seedUsers = append(seedUsers, model.User{ID: st.ID, Name: st.Name, Phone: st.Phone, Role: model.RoleStudent, MessID: DemoMessID})
	}
	for _, u := range seedUsers {
		if cur, ok := users[u.Phone]; ok && cur.ID != u.ID {
			slog.Warn("seed phone taken, keeping registered user", "phone", u.Phone, "user_id", cur.ID)
			continue
		}
		users[u.Phone] = u
	}
	if err := s.Users.ReplaceAll(ctx, users); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	messes := s.Messes.All(ctx)
	messes[mess.ID] = mess
	if err := s.Messes.ReplaceAll(ctx, messes); err != nil {
		return fmt.Errorf("seed messes: %w", err)
	}

	seedIDs := make(map[string]bool, len(seedStudents))
	for _, st := range seedStudents {
		seedIDs[st.ID] = true
	}
	roster := append([]model.Student{}, seedStudents...)
	for _, st := range s.Students.All(ctx) {
		if !seedIDs[st.ID] {
			roster = append(roster, st)
		}
	}
	if err := s.Students.ReplaceAll(ctx, roster); err != nil {
		return fmt.Errorf("seed students: %w", err)
	}

	if !kv.Exists(ctx, s.Attendance.KV, kv.KeyAttendance) {
		if err := s.Attendance.Reset(ctx); err != nil {
			return fmt.Errorf("seed attendance: %w", err)
		}
	}

	if force {
		publish(ctx, s.Publisher, queue.ActivityEvent{Type: queue.EventMessUpdated, MessID: DemoMessID, Name: mess.Name})
	}
	slog.Info("demo data seeded", "force", force, "mess_id", DemoMessID, "students", len(seedStudents))
	return nil
}
