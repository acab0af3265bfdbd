package item

import (
	"errors"
	"math"
	"strings"
	"time"
)

var ErrNotFound = errors.New("item not found")

const (
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryFood        = "food"
	CategoryBooks       = "books"
	CategoryOther       = "other"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

var Categories = []string{
	CategoryElectronics,
	CategoryClothing,
	CategoryFood,
	CategoryBooks,
	CategoryOther,
}

var Statuses = []string{StatusActive, StatusInactive, StatusArchived}

func ValidCategory(s string) bool {
	for _, c := range Categories {
		if s == c {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Price       float64   `json:"price"`
	OwnerID     string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsDeleted   bool      `json:"-"` // soft-delete flag, never serialized
}

// ListFilter holds the owner-scoped list query; optional filters are pointers
// so absence and zero values stay distinguishable.
type ListFilter struct {
	Name     *string
	Category *string
	Status   *string
	MinPrice *float64
	MaxPrice *float64
	OrderBy  string // created_at|name|price, '-' prefix for descending
	Limit    int
	Offset   int
}

// OrderableFields is the whitelist for the ordering query parameter; anything
// else falls back to the default -created_at.
var OrderableFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"price":      true,
}

const DefaultOrdering = "-created_at"

type CreateItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description" binding:"omitempty,max=1000"`
	Category    string  `json:"category" binding:"required,oneof=electronics clothing food books other"`
	Status      string  `json:"status" binding:"omitempty,oneof=active inactive archived"`
	Price       float64 `json:"price"`
}

// Full-replace update payload; same shape as create on purpose.
type UpdateItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description" binding:"omitempty,max=1000"`
	Category    string  `json:"category" binding:"required,oneof=electronics clothing food books other"`
	Status      string  `json:"status" binding:"omitempty,oneof=active inactive archived"`
	Price       float64 `json:"price"`
}

// Fields is the validated, normalized set of mutable item fields.
type Fields struct {
	Name        string
	Description string
	Category    string
	Status      string
	Price       float64
}

func validateFields(name, description, category, status string, price float64) (Fields, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return Fields{}, errors.New("Name cannot be blank.")
	}

	if price <= 0 {
		return Fields{}, errors.New("Price must be greater than zero.")
	}

	if status == "" {
		status = StatusActive
	}

	return Fields{
		Name:        name,
		Description: description,
		Category:    category,
		Status:      status,
		Price:       RoundPrice(price),
	}, nil
}

func (r CreateItemRequest) Validate() (Fields, error) {
	return validateFields(r.Name, r.Description, r.Category, r.Status, r.Price)
}

func (r UpdateItemRequest) Validate() (Fields, error) {
	return validateFields(r.Name, r.Description, r.Category, r.Status, r.Price)
}

// RoundPrice keeps prices at 2 fractional digits, matching the numeric(10,2)
// column.
func RoundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

type CategoryCount struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type CategoryDensity struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// Density turns raw per-category counts (already sorted by count descending)
// into the analytics payload. A zero total never divides.
func Density(counts []CategoryCount) CategoryDensity {
	total := 0

	for _, c := range counts {
		total += c.Count
	}

	if total == 0 {
		return CategoryDensity{Total: 0, Categories: []CategoryCount{}}
	}

	out := make([]CategoryCount, len(counts))

	for i, c := range counts {
		c.Percentage = math.Round(float64(c.Count)/float64(total)*100*100) / 100
		out[i] = c
	}

	return CategoryDensity{Total: total, Categories: out}
}
