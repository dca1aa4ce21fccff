package repository

import (
	"context"

	"github.com/iliyamo/messmate/internal/kv"
	"github.com/iliyamo/messmate/internal/model"
)

// UserRepo is the identity directory: a map from phone number to User.
type UserRepo struct{ KV kv.Store }

func NewUserRepo(s kv.Store) *UserRepo { return &UserRepo{KV: s} }

// All returns the whole directory keyed by phone.
func (r *UserRepo) All(ctx context.Context) map[string]model.User {
	users := kv.Read(ctx, r.KV, kv.KeyUsers, map[string]model.User{})
	if users == nil {
		users = map[string]model.User{}
	}
	return users
}

// GetByPhone returns the user registered under phone, or nil. Entries whose
// map key drifted from their phone field are still found by a value scan.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) *model.User {
	users := r.All(ctx)
	if u, ok := users[phone]; ok {
		return &u
	}
	for _, u := range users {
		if u.Phone == phone {
			return &u
		}
	}
	return nil
}

// GetByID scans the directory for id. It returns the entry's map key with
// the user, or "" and nil.
func (r *UserRepo) GetByID(ctx context.Context, id string) (string, *model.User) {
	for key, u := range r.All(ctx) {
		if u.ID == id {
			return key, &u
		}
	}
	return "", nil
}

// Create adds u under its phone. It fails with ErrDuplicateUser, changing
// nothing, when the phone is already present.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	users := r.All(ctx)
	if _, taken := users[u.Phone]; taken {
		return ErrDuplicateUser
	}
	for _, existing := range users {
		if existing.Phone == u.Phone {
			return ErrDuplicateUser
		}
	}
	users[u.Phone] = u
	return kv.Write(ctx, r.KV, kv.KeyUsers, users)
}

// Put stores u under key, replacing whatever was there.
func (r *UserRepo) Put(ctx context.Context, key string, u model.User) error {
	users := r.All(ctx)
	users[key] = u
	return kv.Write(ctx, r.KV, kv.KeyUsers, users)
}

// ReplaceAll overwrites the directory.
func (r *UserRepo) ReplaceAll(ctx context.Context, users map[string]model.User) error {
	return kv.Write(ctx, r.KV, kv.KeyUsers, users)
}
