package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/mymoneyapp/backend/internal/domain/billing"
	"github.com/mymoneyapp/backend/internal/http/handlers"
	"github.com/mymoneyapp/backend/internal/repo/postgres"
)

// Fake store implementing handlers.BillingCyclesStore

type fakeBillingRepo struct {
	createFn  func(ctx context.Context, req billing.CreateBillingCycleRequest) (billing.BillingCycle, error)
	getFn     func(ctx context.Context, id string) (billing.BillingCycle, error)
	listFn    func(ctx context.Context, filter billing.ListFilter) ([]billing.BillingCycle, error)
	countFn   func(ctx context.Context) (int, error)
	updateFn  func(ctx context.Context, id string, req billing.UpdateBillingCycleRequest) (billing.BillingCycle, error)
	deleteFn  func(ctx context.Context, id string) error
	summaryFn func(ctx context.Context) (billing.Summary, error)

	summaryCalls int
}

func (f *fakeBillingRepo) Create(ctx context.Context, req billing.CreateBillingCycleRequest) (billing.BillingCycle, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}

	return billing.NewFromCreateRequest(req), nil
}

func (f *fakeBillingRepo) GetByID(ctx context.Context, id string) (billing.BillingCycle, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}

	return billing.BillingCycle{}, postgres.ErrBillingCycleNotFound
}

func (f *fakeBillingRepo) List(ctx context.Context, filter billing.ListFilter) ([]billing.BillingCycle, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}

	return []billing.BillingCycle{}, nil
}

func (f *fakeBillingRepo) Count(ctx context.Context) (int, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}

	return 0, nil
}

func (f *fakeBillingRepo) Update(ctx context.Context, id string, req billing.UpdateBillingCycleRequest) (billing.BillingCycle, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}

	return billing.BillingCycle{}, postgres.ErrBillingCycleNotFound
}

func (f *fakeBillingRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}

	return nil
}

func (f *fakeBillingRepo) Summary(ctx context.Context) (billing.Summary, error) {
	f.summaryCalls++

	if f.summaryFn != nil {
		return f.summaryFn(ctx)
	}

	return billing.Summary{}, nil
}

// Fake summary cache

type fakeSummaryCache struct {
	summary     *billing.Summary
	setCalls    int
	invalidated int
}

func (f *fakeSummaryCache) GetSummary(ctx context.Context) (billing.Summary, bool) {
	if f.summary == nil {
		return billing.Summary{}, false
	}

	return *f.summary, true
}

func (f *fakeSummaryCache) SetSummary(ctx context.Context, s billing.Summary) {
	f.setCalls++
	f.summary = &s
}

func (f *fakeSummaryCache) InvalidateSummary(ctx context.Context) {
	f.invalidated++
	f.summary = nil
}

func TestCreateBillingCycle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid cycle",
			body:       `{"name":"Janeiro/2026","month":1,"year":2026,"credits":[{"name":"Salário","value":5000}],"debits":[{"name":"Aluguel","value":1500,"status":"PAGO"}]}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       `{"month":1,"year":2026}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "month out of range",
			body:       `{"name":"x","month":13,"year":2026}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{nope`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBillingRepo{}
			cache := &fakeSummaryCache{}
			h := handlers.NewBillingCyclesHandler(repo, cache)
			r := setupRouter(http.MethodPost, "/api/billingCycles", h.CreateBillingCycle)

			w := doJSON(t, r, http.MethodPost, "/api/billingCycles", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantStatus == http.StatusCreated {
				body := decodeBody(t, w)

				if body["id"] == "" || body["name"] != "Janeiro/2026" {
					t.Errorf("unexpected cycle: %v", body)
				}

				// writes must drop the cached summary
				if cache.invalidated != 1 {
					t.Errorf("summary invalidated %d times, want 1", cache.invalidated)
				}
			}
		})
	}
}

func TestGetBillingCycleByIdNotFound(t *testing.T) {
	repo := &fakeBillingRepo{}
	h := handlers.NewBillingCyclesHandler(repo, nil)
	r := setupRouter(http.MethodGet, "/api/billingCycles/:id", h.GetBillingCycleById)

	w := doJSON(t, r, http.MethodGet, "/api/billingCycles/nope", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetSummaryUsesCache(t *testing.T) {
	repo := &fakeBillingRepo{
		summaryFn: func(ctx context.Context) (billing.Summary, error) {
			return billing.Summary{Credit: 5000, Debit: 1500}, nil
		},
	}

	cache := &fakeSummaryCache{}
	h := handlers.NewBillingCyclesHandler(repo, cache)
	r := setupRouter(http.MethodGet, "/api/billingCycles/summary", h.GetSummary)

	// first call misses the cache and hits the store
	w := doJSON(t, r, http.MethodGet, "/api/billingCycles/summary", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if repo.summaryCalls != 1 || cache.setCalls != 1 {
		t.Fatalf("summaryCalls = %d, setCalls = %d", repo.summaryCalls, cache.setCalls)
	}

	body := decodeBody(t, w)

	if body["credit"] != float64(5000) || body["debit"] != float64(1500) {
		t.Errorf("unexpected summary: %v", body)
	}

	// second call is served from the cache
	w = doJSON(t, r, http.MethodGet, "/api/billingCycles/summary", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if repo.summaryCalls != 1 {
		t.Errorf("store hit again despite warm cache (%d calls)", repo.summaryCalls)
	}
}

func TestDeleteBillingCycleInvalidatesSummary(t *testing.T) {
	repo := &fakeBillingRepo{
		deleteFn: func(ctx context.Context, id string) error {
			return nil
		},
	}

	cache := &fakeSummaryCache{summary: &billing.Summary{Credit: 1}}
	h := handlers.NewBillingCyclesHandler(repo, cache)
	r := setupRouter(http.MethodDelete, "/api/billingCycles/:id", h.DeleteBillingCycle)

	w := doJSON(t, r, http.MethodDelete, "/api/billingCycles/abc", "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	if cache.invalidated != 1 {
		t.Errorf("summary invalidated %d times, want 1", cache.invalidated)
	}
}

func TestListBillingCyclesSetsETag(t *testing.T) {
	repo := &fakeBillingRepo{
		listFn: func(ctx context.Context, filter billing.ListFilter) ([]billing.BillingCycle, error) {
			return []billing.BillingCycle{}, nil
		},
	}

	h := handlers.NewBillingCyclesHandler(repo, nil)
	r := setupRouter(http.MethodGet, "/api/billingCycles", h.ListBillingCycles)

	w := doJSON(t, r, http.MethodGet, "/api/billingCycles", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	etag := w.Header().Get("ETag")

	if etag == "" {
		t.Fatal("missing ETag header")
	}

	// replay with If-None-Match and expect 304
	req, _ := http.NewRequest(http.MethodGet, "/api/billingCycles", nil)
	req.Header.Set("If-None-Match", etag)

	w2 := doRequest(r, req)

	if w2.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", w2.Code)
	}
}
