package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calloway/itemvault/internal/domain/item"
	"github.com/calloway/itemvault/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Indexes backing the hot paths: (owner_id, is_deleted), category, status,
// created_at.
type ItemsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewItemsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ItemsRepo {
	return &ItemsRepo{pool: pool, prom: prom}
}

func (r *ItemsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const itemColumns = `id, name, description, category, status, price, owner_id, created_at, updated_at, is_deleted`

func scanItem(row pgx.Row, it *item.Item) error {
	return row.Scan(
		&it.ID,
		&it.Name,
		&it.Description,
		&it.Category,
		&it.Status,
		&it.Price,
		&it.OwnerID,
		&it.CreatedAt,
		&it.UpdatedAt,
		&it.IsDeleted,
	)
}

// listWhere builds the WHERE clause and its args shared by the page query
// and the fallback count query.
func listWhere(ownerID string, f item.ListFilter) (string, []interface{}) {
	conds := []string{"owner_id = $1", "is_deleted = FALSE"}
	args := []interface{}{ownerID}

	argsPosition := 2

	if f.Name != nil {
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", argsPosition))
		args = append(args, "%"+*f.Name+"%")
		argsPosition++
	}

	if f.Category != nil {
		conds = append(conds, fmt.Sprintf("category = $%d", argsPosition))
		args = append(args, *f.Category)
		argsPosition++
	}

	if f.Status != nil {
		conds = append(conds, fmt.Sprintf("status = $%d", argsPosition))
		args = append(args, *f.Status)
		argsPosition++
	}

	if f.MinPrice != nil {
		conds = append(conds, fmt.Sprintf("price >= $%d", argsPosition))
		args = append(args, *f.MinPrice)
		argsPosition++
	}

	if f.MaxPrice != nil {
		conds = append(conds, fmt.Sprintf("price <= $%d", argsPosition))
		args = append(args, *f.MaxPrice)
		argsPosition++
	}

	return strings.Join(conds, " AND "), args
}

// List returns one page of the owner's non-deleted items plus the total count
// for the full filtered set (COUNT(*) OVER avoids a second query on any page
// that has rows). An offset past the last row scans nothing, so the total
// falls back to a plain count; the memory repo returns the true total on the
// same input and the two must agree.
func (r *ItemsRepo) List(ctx context.Context, ownerID string, f item.ListFilter) ([]item.Item, int, error) {
	if f.Offset < 0 {
		f.Offset = 0
	}

	where, args := listWhere(ownerID, f)

	argsPosition := len(args) + 1

	query := `SELECT ` + itemColumns + `, COUNT(*) OVER() AS total FROM items WHERE ` +
		where +
		" ORDER BY " + orderClause(f.OrderBy) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, f.Limit, f.Offset)

	var rows pgx.Rows
	var err error

	err = r.observe("items.list", func() error {
		rows, err = r.pool.Query(ctx, query, args...)
		return err
	})

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	output := make([]item.Item, 0, f.Limit)
	total := 0

	for rows.Next() {
		var it item.Item
		var t int

		err = rows.Scan(&it.ID, &it.Name, &it.Description, &it.Category, &it.Status, &it.Price, &it.OwnerID, &it.CreatedAt, &it.UpdatedAt, &it.IsDeleted, &t)

		if err != nil {
			return nil, 0, err
		}

		total = t
		output = append(output, it)
	}

	err = rows.Err()

	if err != nil {
		return nil, 0, err
	}

	if len(output) == 0 && f.Offset > 0 {
		total, err = r.countItems(ctx, ownerID, f)

		if err != nil {
			return nil, 0, err
		}
	}

	return output, total, nil
}

func (r *ItemsRepo) countItems(ctx context.Context, ownerID string, f item.ListFilter) (int, error) {
	where, args := listWhere(ownerID, f)

	total := 0

	err := r.observe("items.count", func() error {
		return r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM items WHERE "+where, args...).Scan(&total)
	})

	return total, err
}

// orderClause maps the whitelisted ordering token to SQL; id breaks ties so
// pagination stays stable.
func orderClause(orderBy string) string {
	if orderBy == "" {
		orderBy = item.DefaultOrdering
	}

	field := orderBy
	dir := "ASC"

	if strings.HasPrefix(orderBy, "-") {
		field = orderBy[1:]
		dir = "DESC"
	}

	if !item.OrderableFields[field] {
		field = "created_at"
		dir = "DESC"
	}

	return field + " " + dir + ", id ASC"
}

// GetByID resolves an item only if it exists, is owned by ownerID and is not
// soft-deleted. Every other outcome is the same not-found, so nothing leaks
// across owners.
func (r *ItemsRepo) GetByID(ctx context.Context, ownerID, id string) (item.Item, error) {
	var it item.Item

	err := r.observe("items.get_by_id", func() error {
		return scanItem(r.pool.QueryRow(ctx,
			`SELECT `+itemColumns+` FROM items
			 WHERE id = $1 AND owner_id = $2 AND is_deleted = FALSE`,
			id, ownerID,
		), &it)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item.Item{}, item.ErrNotFound
		}

		return item.Item{}, err
	}

	return it, nil
}

func (r *ItemsRepo) Create(ctx context.Context, it item.Item) (item.Item, error) {
	err := r.observe("items.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO items (id, name, description, category, status, price, owner_id, created_at, updated_at, is_deleted)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			it.ID, it.Name, it.Description, it.Category, it.Status, it.Price, it.OwnerID, it.CreatedAt, it.UpdatedAt, it.IsDeleted,
		)
		return e
	})

	if err != nil {
		return item.Item{}, err
	}

	return it, nil
}

// Update replaces the mutable fields of an owner's non-deleted item.
func (r *ItemsRepo) Update(ctx context.Context, ownerID, id string, f item.Fields) (item.Item, error) {
	var it item.Item

	err := r.observe("items.update", func() error {
		return scanItem(r.pool.QueryRow(ctx,
			`UPDATE items
			 SET name = $3,
			     description = $4,
			     category = $5,
			     status = $6,
			     price = $7,
			     updated_at = NOW()
			 WHERE id = $1 AND owner_id = $2 AND is_deleted = FALSE
			 RETURNING `+itemColumns,
			id, ownerID, f.Name, f.Description, f.Category, f.Status, f.Price,
		), &it)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item.Item{}, item.ErrNotFound
		}

		return item.Item{}, err
	}

	return it, nil
}

// SoftDelete flips the flag and bumps updated_at; the row itself stays.
func (r *ItemsRepo) SoftDelete(ctx context.Context, ownerID, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("items.soft_delete", func() error {
		t, e := r.pool.Exec(ctx,
			`UPDATE items
			 SET is_deleted = TRUE, updated_at = NOW()
			 WHERE id = $1 AND owner_id = $2 AND is_deleted = FALSE`,
			id, ownerID,
		)
		tag = t
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return item.ErrNotFound
	}

	return nil
}

// CategoryDensity aggregates the owner's non-deleted items per category,
// largest group first. Percentages are computed in Go so the rounding rule
// lives in one place.
func (r *ItemsRepo) CategoryDensity(ctx context.Context, ownerID string) (item.CategoryDensity, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("items.category_density", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT category, COUNT(*) AS count
			 FROM items
			 WHERE owner_id = $1 AND is_deleted = FALSE
			 GROUP BY category
			 ORDER BY count DESC`,
			ownerID,
		)
		return err
	})

	if err != nil {
		return item.CategoryDensity{}, err
	}

	defer rows.Close()

	counts := make([]item.CategoryCount, 0)

	for rows.Next() {
		var c item.CategoryCount

		err = rows.Scan(&c.Category, &c.Count)

		if err != nil {
			return item.CategoryDensity{}, err
		}

		counts = append(counts, c)
	}

	err = rows.Err()

	if err != nil {
		return item.CategoryDensity{}, err
	}

	return item.Density(counts), nil
}
