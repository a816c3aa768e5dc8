package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mymoneyapp/backend/internal/config"
	"github.com/mymoneyapp/backend/internal/domain/billing"
	"github.com/mymoneyapp/backend/internal/repo/postgres"
)

type BillingCyclesStore interface {
	Create(ctx context.Context, req billing.CreateBillingCycleRequest) (billing.BillingCycle, error)
	GetByID(ctx context.Context, id string) (billing.BillingCycle, error)
	List(ctx context.Context, filter billing.ListFilter) ([]billing.BillingCycle, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, req billing.UpdateBillingCycleRequest) (billing.BillingCycle, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (billing.Summary, error)
}

// SummaryCache keeps the consolidated totals out of the hot path. A nil
// cache means every summary request hits the database.
type SummaryCache interface {
	GetSummary(ctx context.Context) (billing.Summary, bool)
	SetSummary(ctx context.Context, s billing.Summary)
	InvalidateSummary(ctx context.Context)
}

type BillingCyclesHandler struct {
	repo  BillingCyclesStore
	cache SummaryCache
}

func NewBillingCyclesHandler(repo BillingCyclesStore, cache SummaryCache) *BillingCyclesHandler {
	return &BillingCyclesHandler{repo: repo, cache: cache}
}

func (h *BillingCyclesHandler) CreateBillingCycle(ctx *gin.Context) {
	var req billing.CreateBillingCycleRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	cycle, err := h.repo.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create billing cycle")
		return
	}

	h.invalidateSummary(cctx)

	ctx.JSON(http.StatusCreated, cycle)
}

func (h *BillingCyclesHandler) ListBillingCycles(ctx *gin.Context) {
	filter := billing.ListFilter{
		Skip:  intQuery(ctx, "skip", 0),
		Limit: intQuery(ctx, "limit", 10),
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	cycles, err := h.repo.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list billing cycles")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": cycles,
		"count": len(cycles),
	})
}

func (h *BillingCyclesHandler) GetBillingCycleById(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	cycle, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrBillingCycleNotFound) {
			RespondNotFound(ctx, "Billing cycle not found")
			return
		}
		RespondInternal(ctx, "Could not fetch billing cycle")
		return
	}

	ctx.JSON(http.StatusOK, cycle)
}

func (h *BillingCyclesHandler) UpdateBillingCycle(ctx *gin.Context) {
	id := ctx.Param("id")

	var req billing.UpdateBillingCycleRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	cycle, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, postgres.ErrBillingCycleNotFound) {
			RespondNotFound(ctx, "Billing cycle not found")
			return
		}
		RespondInternal(ctx, "Could not update billing cycle")
		return
	}

	h.invalidateSummary(cctx)

	ctx.JSON(http.StatusOK, cycle)
}

func (h *BillingCyclesHandler) DeleteBillingCycle(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrBillingCycleNotFound) {
			RespondNotFound(ctx, "Billing cycle not found")
			return
		}
		RespondInternal(ctx, "Could not delete billing cycle")
		return
	}

	h.invalidateSummary(cctx)

	ctx.Status(http.StatusNoContent)
}

func (h *BillingCyclesHandler) CountBillingCycles(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	count, err := h.repo.Count(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not count billing cycles")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"value": count})
}

func (h *BillingCyclesHandler) GetSummary(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if h.cache != nil {
		s, ok := h.cache.GetSummary(cctx)

		if ok {
			ctx.JSON(http.StatusOK, s)
			return
		}
	}

	s, err := h.repo.Summary(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not compute summary")
		return
	}

	if h.cache != nil {
		h.cache.SetSummary(cctx, s)
	}

	ctx.JSON(http.StatusOK, s)
}

func (h *BillingCyclesHandler) invalidateSummary(ctx context.Context) {
	if h.cache != nil {
		h.cache.InvalidateSummary(ctx)
	}
}

func intQuery(ctx *gin.Context, key string, fallback int) int {
	raw := ctx.Query(key)

	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)

	if err != nil {
		return fallback
	}

	return n
}
