package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bid is the immutable record of one accepted offer on an item. Once written
// to the ledger it is never mutated or deleted, it is the durable audit trail
// behind the item's denormalized CurrentBid summary
type Bid struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	BidderID  uuid.UUID
	Amount    float64
	CreatedAt time.Time
}

// NewBid creates a new Bid instance
func NewBid(id, itemID, bidderID uuid.UUID, amount float64, createdAt time.Time) *Bid {
	return &Bid{
		ID:        id,
		ItemID:    itemID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: createdAt,
	}
}
