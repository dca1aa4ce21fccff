package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/messmate/internal/kv"
	"github.com/iliyamo/messmate/internal/model"
)

// AttendanceRepo is the ledger: one DayRecord per (mess, date) pair, kept
// as a single sequence.
type AttendanceRepo struct{ KV kv.Store }

func NewAttendanceRepo(s kv.Store) *AttendanceRepo { return &AttendanceRepo{KV: s} }

// All returns every day record.
func (r *AttendanceRepo) All(ctx context.Context) []model.DayRecord {
	return kv.Read(ctx, r.KV, kv.KeyAttendance, []model.DayRecord{})
}

// GetDay returns the flags recorded for one mess on one date. The map is
// empty, never nil, when no record exists.
func (r *AttendanceRepo) GetDay(ctx context.Context, messID, date string) map[string]bool {
	for _, d := range r.All(ctx) {
		if d.MessID == messID && d.Date == date {
			if d.Records == nil {
				return map[string]bool{}
			}
			return d.Records
		}
	}
	return map[string]bool{}
}

// Mark sets one student's flag for (messID, date), creating the day record
// on first use. Other students' flags are untouched. The whole ledger is
// written in one call, so a failed write leaves the prior state in place.
func (r *AttendanceRepo) Mark(ctx context.Context, messID, date, studentID string, present bool) error {
	days := r.All(ctx)
	idx := -1
	for i, d := range days {
		if d.MessID == messID && d.Date == date {
			idx = i
			break
		}
	}
	if idx >= 0 {
		if days[idx].Records == nil {
			days[idx].Records = map[string]bool{}
		}
		days[idx].Records[studentID] = present
	} else {
		days = append(days, model.DayRecord{
			Date:    date,
			MessID:  messID,
			Records: map[string]bool{studentID: present},
		})
	}
	return kv.Write(ctx, r.KV, kv.KeyAttendance, days)
}

// ListByPrefix returns the mess's day records whose date starts with
// prefix, e.g. "2024-03" for March 2024.
func (r *AttendanceRepo) ListByPrefix(ctx context.Context, messID, prefix string) []model.DayRecord {
	var out []model.DayRecord
	for _, d := range r.All(ctx) {
		if d.MessID == messID && strings.HasPrefix(d.Date, prefix) {
			out = append(out, d)
		}
	}
	return out
}

// Reset writes an empty ledger.
func (r *AttendanceRepo) Reset(ctx context.Context) error {
	return kv.Write(ctx, r.KV, kv.KeyAttendance, []model.DayRecord{})
}
