package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the symbol given to every new mess.
const DefaultCurrency = "₹"

// Rates and amounts are stored and served as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Mess is a meal-subscription service run by one owner, stored in the
// "messes" map keyed by ID. PerMealRate is never negative.
type Mess struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	OwnerID     string          `json:"ownerId"`
	PerMealRate decimal.Decimal `json:"perMealRate"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// MessUpdate lists the mess fields an owner may edit. Nil means unchanged.
type MessUpdate struct {
	Name        *string
	PerMealRate *decimal.Decimal
	Currency    *string
}

// Apply returns a copy of m with the non-nil fields of upd applied.
func (upd MessUpdate) Apply(m Mess) Mess {
	if upd.Name != nil {
		m.Name = *upd.Name
	}
	if upd.PerMealRate != nil {
		m.PerMealRate = *upd.PerMealRate
	}
	if upd.Currency != nil {
		m.Currency = *upd.Currency
	}
	return m
}
