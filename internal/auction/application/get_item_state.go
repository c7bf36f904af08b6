package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
)

// ItemStateDTO is the output DTO exposing an item's live auction state
type ItemStateDTO struct {
	ItemID          uuid.UUID  `json:"item_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	StartingPrice   float64    `json:"starting_price"`
	MinIncrement    float64    `json:"min_increment"`
	CurrentBid      float64    `json:"current_bid"`
	HighestBidderID *uuid.UUID `json:"highest_bidder_id,omitempty"`
	EndDate         time.Time  `json:"end_date"`
	Status          string     `json:"status"`
	BidCount        int        `json:"bid_count"`
	LastBidAmount   float64    `json:"last_bid_amount,omitempty"`
	LastBidTime     *time.Time `json:"last_bid_time,omitempty"`
}

// GetItemStateUseCase retrieves the current auction state of an item. The
// returned status is the effective one: an active item past its deadline is
// reported as ended even before the sweep persists that
type GetItemStateUseCase struct {
	items  domain.ItemRepository
	ledger domain.BidLedger
	now    func() time.Time
}

// NewGetItemStateUseCase creates a new instance of GetItemStateUseCase
func NewGetItemStateUseCase(items domain.ItemRepository, ledger domain.BidLedger) *GetItemStateUseCase {
	return &GetItemStateUseCase{items: items, ledger: ledger, now: time.Now}
}

func (uc *GetItemStateUseCase) Execute(ctx context.Context, itemID uuid.UUID) (*ItemStateDTO, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	dto := &ItemStateDTO{
		ItemID:          item.ID,
		Title:           item.Title,
		Description:     item.Description,
		StartingPrice:   item.StartingPrice,
		MinIncrement:    item.MinIncrement,
		CurrentBid:      item.CurrentBid,
		HighestBidderID: item.HighestBidderID,
		EndDate:         item.EndDate,
		Status:          string(domain.Classify(item, uc.now())),
	}

	if count, err := uc.ledger.CountByItem(ctx, itemID); err == nil {
		dto.BidCount = count
	}

	// latest accepted bid gives the last-activity details
	if bids, err := uc.ledger.ListByItem(ctx, itemID, true); err == nil && len(bids) > 0 {
		dto.LastBidAmount = bids[0].Amount
		t := bids[0].CreatedAt
		dto.LastBidTime = &t
	}

	return dto, nil
}
