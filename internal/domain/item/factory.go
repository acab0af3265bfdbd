package item

import (
	"time"

	"github.com/google/uuid"
)

// New builds an Item owned by ownerID from validated fields. The owner is
// fixed at creation and never changes afterwards.
func New(ownerID string, f Fields) Item {
	now := time.Now().UTC()

	return Item{
		ID:          uuid.NewString(),
		Name:        f.Name,
		Description: f.Description,
		Category:    f.Category,
		Status:      f.Status,
		Price:       f.Price,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
