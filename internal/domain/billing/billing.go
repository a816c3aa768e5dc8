package billing

import "time"

// A billing cycle groups the credits and debits of one month.

type Credit struct {
	Name  string  `json:"name" binding:"required"`
	Value float64 `json:"value"`
}

type Debit struct {
	Name   string  `json:"name" binding:"required"`
	Value  float64 `json:"value"`
	Status string  `json:"status" binding:"required,oneof=PAGO PENDENTE AGENDADO"`
}

type BillingCycle struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Credits   []Credit  `json:"credits"`
	Debits    []Debit   `json:"debits"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is the consolidated credit/debit total across all cycles.
type Summary struct {
	Credit float64 `json:"credit"`
	Debit  float64 `json:"debit"`
}

type CreateBillingCycleRequest struct {
	Name    string   `json:"name" binding:"required"`
	Month   int      `json:"month" binding:"required,min=1,max=12"`
	Year    int      `json:"year" binding:"required,min=1970,max=2100"`
	Credits []Credit `json:"credits" binding:"omitempty,dive"`
	Debits  []Debit  `json:"debits" binding:"omitempty,dive"`
}

type UpdateBillingCycleRequest struct {
	Name    string   `json:"name" binding:"required"`
	Month   int      `json:"month" binding:"required,min=1,max=12"`
	Year    int      `json:"year" binding:"required,min=1970,max=2100"`
	Credits []Credit `json:"credits" binding:"omitempty,dive"`
	Debits  []Debit  `json:"debits" binding:"omitempty,dive"`
}

type ListFilter struct {
	Skip  int
	Limit int
}
