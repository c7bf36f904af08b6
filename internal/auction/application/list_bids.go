package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
)

// ListBidsUseCase serves the read-only ledger queries: bid history per item,
// highest bid, and a bidder's own history
type ListBidsUseCase struct {
	ledger domain.BidLedger
}

func NewListBidsUseCase(ledger domain.BidLedger) *ListBidsUseCase {
	return &ListBidsUseCase{ledger: ledger}
}

func (uc *ListBidsUseCase) ByItem(ctx context.Context, itemID uuid.UUID, newestFirst bool) ([]*domain.Bid, error) {
	return uc.ledger.ListByItem(ctx, itemID, newestFirst)
}

// HighestFor returns nil when the item has no bids yet
func (uc *ListBidsUseCase) HighestFor(ctx context.Context, itemID uuid.UUID) (*domain.Bid, error) {
	return uc.ledger.HighestFor(ctx, itemID)
}

func (uc *ListBidsUseCase) ByBidder(ctx context.Context, bidderID uuid.UUID) ([]*domain.Bid, error) {
	return uc.ledger.ListByBidder(ctx, bidderID)
}
