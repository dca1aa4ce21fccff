package repository

import (
	"context"

	"github.com/iliyamo/messmate/internal/kv"
	"github.com/iliyamo/messmate/internal/model"
)

// SessionRepo keeps user snapshots for logged-in sessions. The empty
// session id addresses the single default pointer "current_session"; other
// ids live under "current_session:<sid>".
type SessionRepo struct{ KV kv.Store }

func NewSessionRepo(s kv.Store) *SessionRepo { return &SessionRepo{KV: s} }

func sessionKey(sid string) string {
	if sid == "" {
		return kv.KeyCurrentSession
	}
	return kv.KeyCurrentSession + ":" + sid
}

// Get returns the stored snapshot, or nil when the session is empty.
func (r *SessionRepo) Get(ctx context.Context, sid string) *model.User {
	return kv.Read[*model.User](ctx, r.KV, sessionKey(sid), nil)
}

// Put replaces the snapshot for sid.
func (r *SessionRepo) Put(ctx context.Context, sid string, u model.User) error {
	return kv.Write(ctx, r.KV, sessionKey(sid), u)
}

// Clear removes the snapshot for sid.
func (r *SessionRepo) Clear(ctx context.Context, sid string) error {
	return kv.Delete(ctx, r.KV, sessionKey(sid))
}
