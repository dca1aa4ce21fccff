package repository

import (
	"context"

	"github.com/iliyamo/messmate/internal/kv"
	"github.com/iliyamo/messmate/internal/model"
)

// MessRepo is the mess directory: a map from mess ID to Mess.
type MessRepo struct{ KV kv.Store }

func NewMessRepo(s kv.Store) *MessRepo { return &MessRepo{KV: s} }

// All returns every mess keyed by ID.
func (r *MessRepo) All(ctx context.Context) map[string]model.Mess {
	messes := kv.Read(ctx, r.KV, kv.KeyMesses, map[string]model.Mess{})
	if messes == nil {
		messes = map[string]model.Mess{}
	}
	return messes
}

// GetByID returns the mess with id, or nil.
func (r *MessRepo) GetByID(ctx context.Context, id string) *model.Mess {
	if m, ok := r.All(ctx)[id]; ok {
		return &m
	}
	return nil
}

// GetByOwner returns a mess owned by ownerID, or nil. Owners are not
// prevented from having several messes; which one is returned is
// unspecified but stable for the earliest created.
func (r *MessRepo) GetByOwner(ctx context.Context, ownerID string) *model.Mess {
	var found *model.Mess
	for _, m := range r.All(ctx) {
		if m.OwnerID != ownerID {
			continue
		}
		if found == nil || m.CreatedAt.Before(found.CreatedAt) || (m.CreatedAt.Equal(found.CreatedAt) && m.ID < found.ID) {
			found = &m
		}
	}
	return found
}

// Put stores m under its ID, replacing any previous entry.
func (r *MessRepo) Put(ctx context.Context, m model.Mess) error {
	messes := r.All(ctx)
	messes[m.ID] = m
	return kv.Write(ctx, r.KV, kv.KeyMesses, messes)
}

// ReplaceAll overwrites the mess directory.
func (r *MessRepo) ReplaceAll(ctx context.Context, messes map[string]model.Mess) error {
	return kv.Write(ctx, r.KV, kv.KeyMesses, messes)
}
