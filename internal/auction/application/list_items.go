package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
)

// FeaturedItemsLimit caps the featured carousel, matching the storefront layout
const FeaturedItemsLimit = 6

// ItemSummaryDTO is a listing row with its bid count resolved from the ledger
type ItemSummaryDTO struct {
	Item     *domain.Item `json:"item"`
	BidCount int          `json:"bid_count"`
}

// ListItemsUseCase serves the read-only listing queries of the storefront
type ListItemsUseCase struct {
	items  domain.ItemRepository
	ledger domain.BidLedger
	now    func() time.Time
}

func NewListItemsUseCase(items domain.ItemRepository, ledger domain.BidLedger) *ListItemsUseCase {
	return &ListItemsUseCase{items: items, ledger: ledger, now: time.Now}
}

func (uc *ListItemsUseCase) All(ctx context.Context) ([]*domain.Item, error) {
	return uc.items.ListAll(ctx)
}

// Active returns items open for bidding right now, the end-date filter uses the
// same clock the state machine classifies with
func (uc *ListItemsUseCase) Active(ctx context.Context) ([]*domain.Item, error) {
	return uc.items.ListActive(ctx, uc.now())
}

func (uc *ListItemsUseCase) Featured(ctx context.Context) ([]*domain.Item, error) {
	return uc.items.ListFeatured(ctx, FeaturedItemsLimit)
}

// BySeller returns a seller's listings with bid counts, for the "my items" view
func (uc *ListItemsUseCase) BySeller(ctx context.Context, sellerID uuid.UUID) ([]*ItemSummaryDTO, error) {
	items, err := uc.items.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*ItemSummaryDTO, 0, len(items))
	for _, item := range items {
		count, err := uc.ledger.CountByItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &ItemSummaryDTO{Item: item, BidCount: count})
	}
	return summaries, nil
}
