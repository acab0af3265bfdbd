package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/calloway/itemvault/internal/domain/item"
)

// ItemsRepo keeps items in a map and re-implements the store contract the
// postgres repo provides: owner scoping, soft-delete exclusion, filters,
// whitelist ordering, offset pagination and the category aggregation.
type ItemsRepo struct {
	mu    sync.RWMutex
	items map[string]item.Item
}

func NewItemsRepo() *ItemsRepo {
	return &ItemsRepo{
		items: make(map[string]item.Item),
	}
}

func matches(it item.Item, ownerID string, f item.ListFilter) bool {
	if it.OwnerID != ownerID || it.IsDeleted {
		return false
	}

	if f.Name != nil && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(*f.Name)) {
		return false
	}

	if f.Category != nil && it.Category != *f.Category {
		return false
	}

	if f.Status != nil && it.Status != *f.Status {
		return false
	}

	if f.MinPrice != nil && it.Price < *f.MinPrice {
		return false
	}

	if f.MaxPrice != nil && it.Price > *f.MaxPrice {
		return false
	}

	return true
}

func sortItems(out []item.Item, orderBy string) {
	if orderBy == "" {
		orderBy = item.DefaultOrdering
	}

	field := orderBy
	desc := false

	if strings.HasPrefix(orderBy, "-") {
		field = orderBy[1:]
		desc = true
	}

	if !item.OrderableFields[field] {
		field = "created_at"
		desc = true
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		if desc {
			a, b = b, a
		}

		switch field {
		case "name":
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case "price":
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}

		return a.ID < b.ID
	})
}

func (r *ItemsRepo) List(ctx context.Context, ownerID string, f item.ListFilter) ([]item.Item, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]item.Item, 0)

	for _, it := range r.items {
		if matches(it, ownerID, f) {
			all = append(all, it)
		}
	}

	sortItems(all, f.OrderBy)

	total := len(all)

	if f.Offset < 0 {
		f.Offset = 0
	}

	if f.Offset >= total {
		return []item.Item{}, total, nil
	}

	end := f.Offset + f.Limit

	if f.Limit <= 0 || end > total {
		end = total
	}

	return all[f.Offset:end], total, nil
}

func (r *ItemsRepo) GetByID(ctx context.Context, ownerID, id string) (item.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]

	if !ok || it.OwnerID != ownerID || it.IsDeleted {
		return item.Item{}, item.ErrNotFound
	}

	return it, nil
}

func (r *ItemsRepo) Create(ctx context.Context, it item.Item) (item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[it.ID] = it

	return it, nil
}

func (r *ItemsRepo) Update(ctx context.Context, ownerID, id string, f item.Fields) (item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]

	if !ok || it.OwnerID != ownerID || it.IsDeleted {
		return item.Item{}, item.ErrNotFound
	}

	it.Name = f.Name
	it.Description = f.Description
	it.Category = f.Category
	it.Status = f.Status
	it.Price = f.Price
	it.UpdatedAt = time.Now().UTC()

	r.items[id] = it

	return it, nil
}

func (r *ItemsRepo) SoftDelete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]

	if !ok || it.OwnerID != ownerID || it.IsDeleted {
		return item.ErrNotFound
	}

	it.IsDeleted = true
	it.UpdatedAt = time.Now().UTC()

	r.items[id] = it

	return nil
}

func (r *ItemsRepo) CategoryDensity(ctx context.Context, ownerID string) (item.CategoryDensity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byCategory := make(map[string]int)

	for _, it := range r.items {
		if it.OwnerID == ownerID && !it.IsDeleted {
			byCategory[it.Category]++
		}
	}

	counts := make([]item.CategoryCount, 0, len(byCategory))

	for cat, n := range byCategory {
		counts = append(counts, item.CategoryCount{Category: cat, Count: n})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	return item.Density(counts), nil
}

// Raw returns the stored row regardless of the soft-delete flag; tests use it
// to assert that deletion keeps the record around.
func (r *ItemsRepo) Raw(id string) (item.Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]

	return it, ok
}
