package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
)

// BidRepository is an in-memory domain.BidLedger. Bids are kept per item in
// insertion order, which also serves as the tie-breaker for equal timestamps
type BidRepository struct {
	mu     sync.RWMutex
	byItem map[uuid.UUID][]*domain.Bid
}

func NewBidRepository() *BidRepository {
	return &BidRepository{byItem: make(map[uuid.UUID][]*domain.Bid)}
}

func (r *BidRepository) Append(_ context.Context, bid *domain.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *bid
	r.byItem[bid.ItemID] = append(r.byItem[bid.ItemID], &cp)
	return nil
}

func (r *BidRepository) ListByItem(_ context.Context, itemID uuid.UUID, newestFirst bool) ([]*domain.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.byItem[itemID]
	bids := make([]*domain.Bid, 0, len(stored))
	if newestFirst {
		for i := len(stored) - 1; i >= 0; i-- {
			cp := *stored[i]
			bids = append(bids, &cp)
		}
	} else {
		for _, b := range stored {
			cp := *b
			bids = append(bids, &cp)
		}
	}
	return bids, nil
}

func (r *BidRepository) ListByBidder(_ context.Context, bidderID uuid.UUID) ([]*domain.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var bids []*domain.Bid
	for _, stored := range r.byItem {
		for i := len(stored) - 1; i >= 0; i-- {
			if stored[i].BidderID == bidderID {
				cp := *stored[i]
				bids = append(bids, &cp)
			}
		}
	}
	return bids, nil
}

func (r *BidRepository) HighestFor(_ context.Context, itemID uuid.UUID) (*domain.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var highest *domain.Bid
	for _, b := range r.byItem[itemID] {
		// later entry wins ties, matching the ledger's acceptance order
		if highest == nil || b.Amount >= highest.Amount {
			highest = b
		}
	}
	if highest == nil {
		return nil, nil
	}
	cp := *highest
	return &cp, nil
}

func (r *BidRepository) CountByItem(_ context.Context, itemID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byItem[itemID]), nil
}
