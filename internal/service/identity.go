package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/repository"
	"github.com/iliyamo/messmate/internal/utils"
)

// IdentityService resolves phone numbers to users and keeps session
// snapshots. Every session operation names its session explicitly; the
// empty id is the single default session.
type IdentityService struct {
	Users    *repository.UserRepo
	Messes   *repository.MessRepo
	Sessions *repository.SessionRepo
	Seeder   *Seeder
	Now      func() time.Time
}

func NewIdentityService(users *repository.UserRepo, messes *repository.MessRepo, sessions *repository.SessionRepo, seeder *Seeder) *IdentityService {
	return &IdentityService{Users: users, Messes: messes, Sessions: sessions, Seeder: seeder, Now: time.Now}
}

// RegisterInput carries a registration request. MessName only matters for
// owners.
type RegisterInput struct {
	Name     string
	Phone    string
	Role     model.Role
	MessName string
}

// Login looks up phone (normalized to digits) and makes the user the
// session's user. A miss on a demo number reseeds the baseline data and
// retries once. It returns nil, nil when no user matches.
func (s *IdentityService) Login(ctx context.Context, sid, phone string) (*model.User, error) {
	phone = utils.NormalizePhone(phone)
	u := s.Users.GetByPhone(ctx, phone)

	if u == nil && IsDemoPhone(phone) && s.Seeder != nil {
		slog.Warn("demo account missing, reseeding", "phone", phone)
		if err := s.Seeder.Seed(ctx, true); err != nil {
			return nil, fmt.Errorf("reseed: %w", err)
		}
		u = s.Users.GetByPhone(ctx, phone)
	}
	if u == nil {
		return nil, nil
	}
	if err := s.Sessions.Put(ctx, sid, *u); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	slog.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Register creates a user and, for an owner who named one, a mess with a
// zero rate. It fails with repository.ErrDuplicateUser when the phone is
// taken, leaving the directory unchanged.
func (s *IdentityService) Register(ctx context.Context, sid string, in RegisterInput) (*model.User, error) {
	phone := utils.NormalizePhone(in.Phone)
	if err := utils.ValidatePhone(phone); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, utils.ErrInvalidRole
	}

	u := model.User{
		ID:    newID("u"),
		Name:  strings.TrimSpace(in.Name),
		Phone: phone,
		Role:  in.Role,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	if in.Role == model.RoleOwner && strings.TrimSpace(in.MessName) != "" {
		mess := model.Mess{
			ID:          newID("m"),
			Name:        strings.TrimSpace(in.MessName),
			OwnerID:     u.ID,
			PerMealRate: decimal.Zero,
			Currency:    model.DefaultCurrency,
			CreatedAt:   s.Now().UTC(),
		}
		if err := s.Messes.Put(ctx, mess); err != nil {
			return nil, fmt.Errorf("create mess: %w", err)
		}
		slog.Info("mess created", "mess_id", mess.ID, "owner_id", u.ID)
	}

	if err := s.Sessions.Put(ctx, sid, u); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	slog.Info("user registered", "user_id", u.ID, "role", u.Role)
	return &u, nil
}

// Logout clears the session pointer. Directory data is untouched.
func (s *IdentityService) Logout(ctx context.Context, sid string) error {
	return s.Sessions.Clear(ctx, sid)
}

// CurrentSession returns the stored snapshot, which may be stale relative
// to later directory edits.
func (s *IdentityService) CurrentSession(ctx context.Context, sid string) *model.User {
	return s.Sessions.Get(ctx, sid)
}

// RefreshSession re-resolves the session's user against the directory and
// stores the fresh snapshot. If the user has vanished the stale snapshot is
// returned as is.
func (s *IdentityService) RefreshSession(ctx context.Context, sid string) *model.User {
	cur := s.Sessions.Get(ctx, sid)
	if cur == nil {
		return nil
	}
	_, fresh := s.Users.GetByID(ctx, cur.ID)
	if fresh == nil {
		return cur
	}
	if err := s.Sessions.Put(ctx, sid, *fresh); err != nil {
		slog.Warn("session refresh not persisted", "user_id", fresh.ID, "error", err)
	}
	return fresh
}

// UpdateUser applies upd to the user with id. When that user is the
// session's user the snapshot is refreshed too.
func (s *IdentityService) UpdateUser(ctx context.Context, sid, id string, upd model.UserUpdate) (*model.User, error) {
	key, u := s.Users.GetByID(ctx, id)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	updated := upd.Apply(*u)
	if err := s.Users.Put(ctx, key, updated); err != nil {
		return nil, err
	}
	if cur := s.Sessions.Get(ctx, sid); cur != nil && cur.ID == id {
		if err := s.Sessions.Put(ctx, sid, updated); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
	}
	return &updated, nil
}
