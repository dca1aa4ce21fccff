package repository

import (
	"context"

	"github.com/iliyamo/messmate/internal/kv"
	"github.com/iliyamo/messmate/internal/model"
)

// StudentRepo holds the roster of every mess as one insertion-ordered list.
type StudentRepo struct{ KV kv.Store }

func NewStudentRepo(s kv.Store) *StudentRepo { return &StudentRepo{KV: s} }

// All returns every roster entry in insertion order.
func (r *StudentRepo) All(ctx context.Context) []model.Student {
	return kv.Read(ctx, r.KV, kv.KeyStudents, []model.Student{})
}

// ListByMess returns the roster of one mess in insertion order. The result
// is never nil.
func (r *StudentRepo) ListByMess(ctx context.Context, messID string) []model.Student {
	out := []model.Student{}
	for _, s := range r.All(ctx) {
		if s.MessID == messID {
			out = append(out, s)
		}
	}
	return out
}

// Append adds s to the end of the roster.
func (r *StudentRepo) Append(ctx context.Context, s model.Student) error {
	students := append(r.All(ctx), s)
	return kv.Write(ctx, r.KV, kv.KeyStudents, students)
}

// ReplaceAll overwrites the roster.
func (r *StudentRepo) ReplaceAll(ctx context.Context, students []model.Student) error {
	return kv.Write(ctx, r.KV, kv.KeyStudents, students)
}
