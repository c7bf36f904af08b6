package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemRepository owns read and conditional-write access to the mutable bidding
// fields of a single item. The conditional methods are the only way to mutate
// those fields: the expected previous value is explicit in the signature so any
// storage engine can implement the same compare-and-swap contract
type ItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Create(ctx context.Context, item *Item) error
	// Update persists listing fields (title, prices, images...), never the
	// bidding summary, which only moves through ConditionalUpdateBid
	Update(ctx context.Context, item *Item) error

	// ConditionalUpdateBid sets current_bid/highest_bidder only if the stored
	// current_bid still equals expectedCurrentBid and the item is still active.
	// Returns ErrPreconditionFailed when another writer won the race
	ConditionalUpdateBid(ctx context.Context, id uuid.UUID, expectedCurrentBid, amount float64, bidderID uuid.UUID) error
	// ConditionalTransitionStatus moves the item to next only if its stored
	// status still equals expected. Returns ErrPreconditionFailed otherwise
	ConditionalTransitionStatus(ctx context.Context, id uuid.UUID, expected, next Status) error

	ListAll(ctx context.Context) ([]*Item, error)
	ListActive(ctx context.Context, now time.Time) ([]*Item, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*Item, error)
	ListFeatured(ctx context.Context, limit int) ([]*Item, error)
	// ListExpired returns active items whose end date has passed, for the
	// closing sweep
	ListExpired(ctx context.Context, now time.Time) ([]*Item, error)
}

// BidLedger is the append-only ordered store of accepted bids. Entries are
// immutable once written
type BidLedger interface {
	Append(ctx context.Context, bid *Bid) error
	// ListByItem returns the item's bids ordered by acceptance time, newest
	// first when newestFirst is set
	ListByItem(ctx context.Context, itemID uuid.UUID, newestFirst bool) ([]*Bid, error)
	ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*Bid, error)
	// HighestFor returns the bid with the highest amount for the item, or nil
	// when the item has no bids
	HighestFor(ctx context.Context, itemID uuid.UUID) (*Bid, error)
	CountByItem(ctx context.Context, itemID uuid.UUID) (int, error)
}
