package billing

import (
	"time"

	"github.com/google/uuid"
)

// NewFromCreateRequest builds a persistable cycle from a validated request.
func NewFromCreateRequest(req CreateBillingCycleRequest) BillingCycle {
	now := time.Now().UTC()

	c := BillingCycle{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Month:     req.Month,
		Year:      req.Year,
		Credits:   req.Credits,
		Debits:    req.Debits,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if c.Credits == nil {
		c.Credits = []Credit{}
	}

	if c.Debits == nil {
		c.Debits = []Debit{}
	}

	return c
}

// Totals sums this cycle's credits and debits.
func (b BillingCycle) Totals() Summary {
	var s Summary

	for _, credit := range b.Credits {
		s.Credit += credit.Value
	}

	for _, debit := range b.Debits {
		s.Debit += debit.Value
	}

	return s
}
