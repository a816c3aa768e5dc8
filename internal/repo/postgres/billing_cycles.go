package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mymoneyapp/backend/internal/domain/billing"
	"github.com/mymoneyapp/backend/internal/observability"
)

var ErrBillingCycleNotFound = errors.New("billing cycle not found")

type BillingCyclesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewBillingCyclesRepo(pool *pgxpool.Pool, prom *observability.Prom) *BillingCyclesRepo {
	return &BillingCyclesRepo{pool: pool, prom: prom}
}

func (r *BillingCyclesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *BillingCyclesRepo) Create(ctx context.Context, req billing.CreateBillingCycleRequest) (billing.BillingCycle, error) {
	b := billing.NewFromCreateRequest(req)

	credits, err := json.Marshal(b.Credits)
	if err != nil {
		return billing.BillingCycle{}, err
	}

	debits, err := json.Marshal(b.Debits)
	if err != nil {
		return billing.BillingCycle{}, err
	}

	err = r.observe("billing_cycles.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO billing_cycles(id, name, month, year, credits, debits, created_at, updated_at)
             VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
			b.ID, b.Name, b.Month, b.Year, credits, debits, b.CreatedAt, b.UpdatedAt)

		return err
	})

	if err != nil {
		return billing.BillingCycle{}, err
	}

	return b, nil
}

func (r *BillingCyclesRepo) GetByID(ctx context.Context, id string) (billing.BillingCycle, error) {
	var (
		b       billing.BillingCycle
		credits []byte
		debits  []byte
	)

	err := r.observe("billing_cycles.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, month, year, credits, debits, created_at, updated_at
             FROM billing_cycles
             WHERE id = $1`,
			id,
		).Scan(&b.ID, &b.Name, &b.Month, &b.Year, &credits, &debits, &b.CreatedAt, &b.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return billing.BillingCycle{}, ErrBillingCycleNotFound
		}

		return billing.BillingCycle{}, err
	}

	if err := unmarshalEntries(credits, debits, &b); err != nil {
		return billing.BillingCycle{}, err
	}

	return b, nil
}

func (r *BillingCyclesRepo) List(ctx context.Context, filter billing.ListFilter) ([]billing.BillingCycle, error) {
	limit := filter.Limit

	if limit <= 0 || limit > 100 {
		limit = 10
	}

	skip := filter.Skip

	if skip < 0 {
		skip = 0
	}

	var out []billing.BillingCycle

	err := r.observe("billing_cycles.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, name, month, year, credits, debits, created_at, updated_at
             FROM billing_cycles
             ORDER BY year DESC, month DESC, created_at DESC
             LIMIT $1 OFFSET $2`,
			limit, skip)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var (
				b       billing.BillingCycle
				credits []byte
				debits  []byte
			)

			err = rows.Scan(&b.ID, &b.Name, &b.Month, &b.Year, &credits, &debits, &b.CreatedAt, &b.UpdatedAt)

			if err != nil {
				return err
			}

			if err := unmarshalEntries(credits, debits, &b); err != nil {
				return err
			}

			out = append(out, b)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	if out == nil {
		out = []billing.BillingCycle{}
	}

	return out, nil
}

func (r *BillingCyclesRepo) Count(ctx context.Context) (int, error) {
	var count int

	err := r.observe("billing_cycles.count", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM billing_cycles`).Scan(&count)
	})

	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *BillingCyclesRepo) Update(ctx context.Context, id string, req billing.UpdateBillingCycleRequest) (billing.BillingCycle, error) {
	credits := req.Credits

	if credits == nil {
		credits = []billing.Credit{}
	}

	debits := req.Debits

	if debits == nil {
		debits = []billing.Debit{}
	}

	creditsJSON, err := json.Marshal(credits)
	if err != nil {
		return billing.BillingCycle{}, err
	}

	debitsJSON, err := json.Marshal(debits)
	if err != nil {
		return billing.BillingCycle{}, err
	}

	var affected int64

	err = r.observe("billing_cycles.update", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE billing_cycles
             SET name = $2, month = $3, year = $4, credits = $5, debits = $6, updated_at = now()
             WHERE id = $1`,
			id, req.Name, req.Month, req.Year, creditsJSON, debitsJSON)

		affected = tag.RowsAffected()

		return err
	})

	if err != nil {
		return billing.BillingCycle{}, err
	}

	if affected == 0 {
		return billing.BillingCycle{}, ErrBillingCycleNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *BillingCyclesRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("billing_cycles.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM billing_cycles WHERE id = $1`, id)

		affected = tag.RowsAffected()

		return err
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrBillingCycleNotFound
	}

	return nil
}

// Summary sums every credit and debit value across all stored cycles.
func (r *BillingCyclesRepo) Summary(ctx context.Context) (billing.Summary, error) {
	var s billing.Summary

	err := r.observe("billing_cycles.summary", func() error {
		err := r.pool.QueryRow(ctx,
			`SELECT COALESCE(SUM((c->>'value')::numeric), 0)
             FROM billing_cycles, jsonb_array_elements(credits) AS c`,
		).Scan(&s.Credit)

		if err != nil {
			return err
		}

		return r.pool.QueryRow(ctx,
			`SELECT COALESCE(SUM((d->>'value')::numeric), 0)
             FROM billing_cycles, jsonb_array_elements(debits) AS d`,
		).Scan(&s.Debit)
	})

	if err != nil {
		return billing.Summary{}, err
	}

	return s, nil
}

func unmarshalEntries(credits, debits []byte, b *billing.BillingCycle) error {
	if err := json.Unmarshal(credits, &b.Credits); err != nil {
		return err
	}

	return json.Unmarshal(debits, &b.Debits)
}
