package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
)

// ItemRepository is an in-memory domain.ItemRepository with the same
// compare-and-swap contract as the PostgreSQL one. The mutex only guards map
// access and the conditional check-then-write pairs, callers still race through
// the conditional methods exactly like they would against the database
type ItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.Item
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[uuid.UUID]*domain.Item)}
}

func (r *ItemRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return copyItem(item), nil
}

func (r *ItemRepository) Create(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	stored := copyItem(item)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.items[item.ID] = stored
	return nil
}

func (r *ItemRepository) Update(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return domain.ErrItemNotFound
	}
	stored.Title = item.Title
	stored.Description = item.Description
	stored.CategoryID = item.CategoryID
	stored.Condition = item.Condition
	stored.Images = append([]string(nil), item.Images...)
	stored.StartingPrice = item.StartingPrice
	stored.MinIncrement = item.MinIncrement
	stored.ReservePrice = item.ReservePrice
	stored.Featured = item.Featured
	stored.AuctionDuration = item.AuctionDuration
	stored.EndDate = item.EndDate
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *ItemRepository) ConditionalUpdateBid(_ context.Context, id uuid.UUID, expectedCurrentBid, amount float64, bidderID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	if stored.CurrentBid != expectedCurrentBid || stored.Status != domain.StatusActive {
		return domain.ErrPreconditionFailed
	}
	stored.CurrentBid = amount
	b := bidderID
	stored.HighestBidderID = &b
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *ItemRepository) ConditionalTransitionStatus(_ context.Context, id uuid.UUID, expected, next domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	if stored.Status != expected {
		return domain.ErrPreconditionFailed
	}
	stored.Status = next
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *ItemRepository) ListAll(_ context.Context) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*domain.Item) bool { return true }), nil
}

func (r *ItemRepository) ListActive(_ context.Context, now time.Time) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(i *domain.Item) bool {
		return i.Status == domain.StatusActive && i.EndDate.After(now)
	}), nil
}

func (r *ItemRepository) ListBySeller(_ context.Context, sellerID uuid.UUID) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(i *domain.Item) bool { return i.SellerID == sellerID }), nil
}

func (r *ItemRepository) ListFeatured(_ context.Context, limit int) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	featured := r.collect(func(i *domain.Item) bool {
		return i.Featured && i.Status == domain.StatusActive
	})
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured, nil
}

func (r *ItemRepository) ListExpired(_ context.Context, now time.Time) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(i *domain.Item) bool {
		return i.Status == domain.StatusActive && !i.EndDate.After(now)
	}), nil
}

// collect snapshots matching items newest-first, callers must hold the lock
func (r *ItemRepository) collect(match func(*domain.Item) bool) []*domain.Item {
	var items []*domain.Item
	for _, item := range r.items {
		if match(item) {
			items = append(items, copyItem(item))
		}
	}
	sort.Slice(items, func(a, b int) bool {
		return items[a].CreatedAt.After(items[b].CreatedAt)
	})
	return items
}

func copyItem(item *domain.Item) *domain.Item {
	cp := *item
	cp.Images = append([]string(nil), item.Images...)
	if item.HighestBidderID != nil {
		b := *item.HighestBidderID
		cp.HighestBidderID = &b
	}
	return &cp
}
