package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/calloway/itemvault/internal/apperr"
	"github.com/calloway/itemvault/internal/config"
	"github.com/calloway/itemvault/internal/domain/item"
	"github.com/calloway/itemvault/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// ItemStore is the store contract the items handler depends on; both the
// postgres and the in-memory repo satisfy it.
type ItemStore interface {
	List(ctx context.Context, ownerID string, f item.ListFilter) ([]item.Item, int, error)
	GetByID(ctx context.Context, ownerID, id string) (item.Item, error)
	Create(ctx context.Context, it item.Item) (item.Item, error)
	Update(ctx context.Context, ownerID, id string, f item.Fields) (item.Item, error)
	SoftDelete(ctx context.Context, ownerID, id string) error
	CategoryDensity(ctx context.Context, ownerID string) (item.CategoryDensity, error)
}

type ItemsHandler struct {
	repo ItemStore
	log  *slog.Logger
}

func NewItemsHandler(repo ItemStore, log *slog.Logger) *ItemsHandler {
	return &ItemsHandler{repo: repo, log: log}
}

func callerID(ctx *gin.Context) (string, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondError(ctx, apperr.Authentication(""))
	}

	return id, ok
}

// parseListFilter resolves the list query parameters. Enum filters and price
// bounds must parse; an unknown ordering token silently falls back to the
// default.
func parseListFilter(ctx *gin.Context, page, perPage int) (item.ListFilter, error) {
	f := item.ListFilter{
		OrderBy: item.DefaultOrdering,
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
	}

	if name := ctx.Query("name"); name != "" {
		f.Name = &name
	}

	if category := ctx.Query("category"); category != "" {
		if !item.ValidCategory(category) {
			return f, apperr.Validation("Invalid category filter.")
		}
		f.Category = &category
	}

	if status := ctx.Query("status"); status != "" {
		if !item.ValidStatus(status) {
			return f, apperr.Validation("Invalid status filter.")
		}
		f.Status = &status
	}

	if raw := ctx.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)

		if err != nil {
			return f, apperr.Validation("min_price must be a number.")
		}
		f.MinPrice = &v
	}

	if raw := ctx.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)

		if err != nil {
			return f, apperr.Validation("max_price must be a number.")
		}
		f.MaxPrice = &v
	}

	if ordering := ctx.Query("ordering"); ordering != "" {
		field := ordering

		if len(field) > 0 && field[0] == '-' {
			field = field[1:]
		}

		if item.OrderableFields[field] {
			f.OrderBy = ordering
		}
	}

	return f, nil
}

func (h *ItemsHandler) List(ctx *gin.Context) {
	ownerID, ok := callerID(ctx)

	if !ok {
		return
	}

	page, perPage := parsePage(ctx)

	filter, err := parseListFilter(ctx, page, perPage)

	if err != nil {
		RespondError(ctx, err)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, ownerID, filter)

	if err != nil {
		RespondError(ctx, err)
		return
	}

	next, previous := pageLinks(ctx, page, perPage, total)

	ctx.JSON(http.StatusOK, gin.H{
		"results":  items,
		"count":    total,
		"next":     next,
		"previous": previous,
	})
}

// Create forces the owner to the authenticated caller, whatever the payload
// says.
func (h *ItemsHandler) Create(ctx *gin.Context) {
	ownerID, ok := callerID(ctx)

	if !ok {
		return
	}

	var req item.CreateItemRequest

	if !BindJSON(ctx, &req) {
		return
	}

	fields, err := req.Validate()

	if err != nil {
		RespondError(ctx, apperr.Validation(err.Error()))
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	it, err := h.repo.Create(cctx, item.New(ownerID, fields))

	if err != nil {
		RespondError(ctx, err)
		return
	}

	h.log.Info("item created", "name", it.Name, "owner_id", ownerID)

	ctx.JSON(http.StatusCreated, it)
}

func (h *ItemsHandler) Get(ctx *gin.Context) {
	ownerID, ok := callerID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	it, err := h.repo.GetByID(cctx, ownerID, ctx.Param("id"))

	if err != nil {
		if err == item.ErrNotFound {
			RespondError(ctx, apperr.NotFound("Item not found."))
			return
		}

		RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, it)
}

func (h *ItemsHandler) Update(ctx *gin.Context) {
	ownerID, ok := callerID(ctx)

	if !ok {
		return
	}

	var req item.UpdateItemRequest

	if !BindJSON(ctx, &req) {
		return
	}

	fields, err := req.Validate()

	if err != nil {
		RespondError(ctx, apperr.Validation(err.Error()))
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	it, err := h.repo.Update(cctx, ownerID, ctx.Param("id"), fields)

	if err != nil {
		if err == item.ErrNotFound {
			RespondError(ctx, apperr.NotFound("Item not found."))
			return
		}

		RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, it)
}

// Delete soft-deletes: the flag flips, the row stays, and from here on the
// item reads as absent everywhere.
func (h *ItemsHandler) Delete(ctx *gin.Context) {
	ownerID, ok := callerID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	id := ctx.Param("id")

	_, err := h.repo.GetByID(cctx, ownerID, id)

	if err == nil {
		err = h.repo.SoftDelete(cctx, ownerID, id)
	}

	if err != nil {
		if err == item.ErrNotFound {
			RespondError(ctx, apperr.NotFound("Item not found."))
			return
		}

		RespondError(ctx, err)
		return
	}

	h.log.Info("item soft-deleted", "id", id, "owner_id", ownerID)

	ctx.Status(http.StatusNoContent)
}

func (h *ItemsHandler) CategoryDensity(ctx *gin.Context) {
	ownerID, ok := callerID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	density, err := h.repo.CategoryDensity(cctx, ownerID)

	if err != nil {
		RespondError(ctx, err)
		return
	}

	RespondData(ctx, http.StatusOK, density)
}
