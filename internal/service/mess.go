package service

import (
	"context"
	"log/slog"

	"github.com/iliyamo/messmate/internal/model"
	"github.com/iliyamo/messmate/internal/queue"
	"github.com/iliyamo/messmate/internal/repository"
	"github.com/iliyamo/messmate/internal/utils"
)

// MessService reads and edits mess settings.
type MessService struct {
	Messes    *repository.MessRepo
	Publisher queue.Publisher
}

func NewMessService(messes *repository.MessRepo, pub queue.Publisher) *MessService {
	return &MessService{Messes: messes, Publisher: pub}
}

// ByOwner returns the mess owned by ownerID, or nil.
func (s *MessService) ByOwner(ctx context.Context, ownerID string) *model.Mess {
	return s.Messes.GetByOwner(ctx, ownerID)
}

// ByID returns the mess with id, or nil.
func (s *MessService) ByID(ctx context.Context, id string) *model.Mess {
	return s.Messes.GetByID(ctx, id)
}

// Update merges the explicit fields of upd into the mess. A new rate applies
// to every month's report from now on, past months included.
func (s *MessService) Update(ctx context.Context, id string, upd model.MessUpdate) (*model.Mess, error) {
	cur := s.Messes.GetByID(ctx, id)
	if cur == nil {
		return nil, repository.ErrNotFound
	}
	if upd.PerMealRate != nil && upd.PerMealRate.IsNegative() {
		return nil, utils.ErrInvalidRate
	}
	if upd.Name != nil {
		if err := utils.ValidateMessName(*upd.Name); err != nil {
			return nil, err
		}
	}

	updated := upd.Apply(*cur)
	if err := s.Messes.Put(ctx, updated); err != nil {
		return nil, err
	}

	if !updated.PerMealRate.Equal(cur.PerMealRate) {
		slog.Info("mess rate changed", "mess_id", id, "old", cur.PerMealRate.String(), "new", updated.PerMealRate.String())
		publish(ctx, s.Publisher, queue.ActivityEvent{
			Type:    queue.EventRateChanged,
			MessID:  id,
			OldRate: cur.PerMealRate.String(),
			NewRate: updated.PerMealRate.String(),
		})
	} else if updated.Name != cur.Name || updated.Currency != cur.Currency {
		publish(ctx, s.Publisher, queue.ActivityEvent{Type: queue.EventMessUpdated, MessID: id, Name: updated.Name})
	}
	return &updated, nil
}
