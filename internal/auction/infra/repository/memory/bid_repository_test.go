package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
)

func TestLedgerOrderAndHighest(t *testing.T) {
	ctx := context.Background()
	r := NewBidRepository()
	itemID := uuid.New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	u1, u2 := uuid.New(), uuid.New()
	for i, bid := range []*domain.Bid{
		domain.NewBid(uuid.New(), itemID, u1, 10, base),
		domain.NewBid(uuid.New(), itemID, u2, 12, base.Add(time.Minute)),
		domain.NewBid(uuid.New(), itemID, u1, 15, base.Add(2*time.Minute)),
	} {
		if err := r.Append(ctx, bid); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	oldest, err := r.ListByItem(ctx, itemID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(oldest) != 3 || oldest[0].Amount != 10 || oldest[2].Amount != 15 {
		t.Errorf("oldest-first order wrong: %v", amounts(oldest))
	}

	newest, _ := r.ListByItem(ctx, itemID, true)
	if newest[0].Amount != 15 {
		t.Errorf("newest-first should start at 15, got %v", newest[0].Amount)
	}

	highest, _ := r.HighestFor(ctx, itemID)
	if highest.Amount != 15 || highest.BidderID != u1 {
		t.Errorf("highest = (%v, %v), want (15, %v)", highest.Amount, highest.BidderID, u1)
	}

	count, _ := r.CountByItem(ctx, itemID)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestHighestForEmpty(t *testing.T) {
	r := NewBidRepository()
	highest, err := r.HighestFor(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if highest != nil {
		t.Errorf("highest for unknown item = %v, want nil", highest)
	}
}

func TestListByBidder(t *testing.T) {
	ctx := context.Background()
	r := NewBidRepository()
	bidder := uuid.New()
	base := time.Now()

	_ = r.Append(ctx, domain.NewBid(uuid.New(), uuid.New(), bidder, 10, base))
	_ = r.Append(ctx, domain.NewBid(uuid.New(), uuid.New(), uuid.New(), 20, base))
	_ = r.Append(ctx, domain.NewBid(uuid.New(), uuid.New(), bidder, 30, base))

	bids, err := r.ListByBidder(ctx, bidder)
	if err != nil {
		t.Fatal(err)
	}
	if len(bids) != 2 {
		t.Errorf("got %d bids, want 2", len(bids))
	}
}

func amounts(bids []*domain.Bid) []float64 {
	out := make([]float64, len(bids))
	for i, b := range bids {
		out[i] = b.Amount
	}
	return out
}
