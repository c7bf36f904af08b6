package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
	"github.com/lmoreau/auctionhouse/internal/auction/infra/repository/memory"
)

func newTestItem(t *testing.T, items *memory.ItemRepository, sellerID uuid.UUID, startingPrice, minIncrement float64, start time.Time) *domain.Item {
	t.Helper()
	item := domain.NewItem(uuid.New(), sellerID, uuid.New(), "antique clock", "", domain.ConditionGood,
		nil, startingPrice, minIncrement, 0, 7, start)
	if err := items.Create(context.Background(), item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

// fixedClock pins the use case to a deterministic now
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// TestPlaceBidScenario walks the reference sequence: open at starting price,
// reject a repeat of the floor, accept a higher bid, reject the seller, reject
// after the deadline
func TestPlaceBidScenario(t *testing.T) {
	ctx := context.Background()
	items := memory.NewItemRepository()
	ledger := memory.NewBidRepository()

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)

	seller := uuid.New()
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	item := newTestItem(t, items, seller, 10, 1, start)

	uc := NewPlaceBidUseCase(items, ledger, 3)
	uc.now = fixedClock(now)

	// A: first bid at the starting price is accepted
	res, err := uc.Execute(ctx, PlaceBidDTO{ItemID: item.ID, BidderID: u1, Amount: 10})
	if err != nil {
		t.Fatalf("bid A: %v", err)
	}
	if res.Item.CurrentBid != 10 {
		t.Errorf("after A currentBid = %v, want 10", res.Item.CurrentBid)
	}

	// B: same amount again is below the new floor of 11
	_, err = uc.Execute(ctx, PlaceBidDTO{ItemID: item.ID, BidderID: u2, Amount: 10})
	var tooLow *domain.BidTooLowError
	if !errors.As(err, &tooLow) {
		t.Fatalf("bid B: got %v, want BidTooLowError", err)
	}
	if tooLow.Minimum != 11 {
		t.Errorf("bid B minimum = %v, want 11", tooLow.Minimum)
	}

	// C: higher bid accepted, summary moves
	res, err = uc.Execute(ctx, PlaceBidDTO{ItemID: item.ID, BidderID: u2, Amount: 15})
	if err != nil {
		t.Fatalf("bid C: %v", err)
	}
	if res.Item.CurrentBid != 15 || res.Item.HighestBidderID == nil || *res.Item.HighestBidderID != u2 {
		t.Errorf("after C summary = (%v, %v), want (15, %v)", res.Item.CurrentBid, res.Item.HighestBidderID, u2)
	}

	// D: seller can never bid, regardless of amount
	_, err = uc.Execute(ctx, PlaceBidDTO{ItemID: item.ID, BidderID: seller, Amount: 15})
	if !errors.Is(err, domain.ErrSelfBid) {
		t.Fatalf("bid D: got %v, want ErrSelfBid", err)
	}

	// E: past the deadline the auction is closed
	uc.now = fixedClock(start.Add(8 * 24 * time.Hour))
	_, err = uc.Execute(ctx, PlaceBidDTO{ItemID: item.ID, BidderID: u3, Amount: 20})
	if !errors.Is(err, domain.ErrAuctionClosed) {
		t.Fatalf("bid E: got %v, want ErrAuctionClosed", err)
	}

	// final state: summary frozen, status lazily persisted as ended
	final, err := items.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if final.CurrentBid != 15 || *final.HighestBidderID != u2 {
		t.Errorf("final summary = (%v, %v), want (15, %v)", final.CurrentBid, final.HighestBidderID, u2)
	}
	if final.Status != domain.StatusEnded {
		t.Errorf("final status = %v, want ended (lazy expiry)", final.Status)
	}

	// ledger is consistent with the item summary
	highest, err := ledger.HighestFor(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if highest.Amount != final.CurrentBid || highest.BidderID != *final.HighestBidderID {
		t.Errorf("ledger highest = (%v, %v), item summary = (%v, %v)",
			highest.Amount, highest.BidderID, final.CurrentBid, *final.HighestBidderID)
	}
}

func TestPlaceBidItemNotFound(t *testing.T) {
	uc := NewPlaceBidUseCase(memory.NewItemRepository(), memory.NewBidRepository(), 3)

	_, err := uc.Execute(context.Background(), PlaceBidDTO{ItemID: uuid.New(), BidderID: uuid.New(), Amount: 10})
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("got %v, want ErrItemNotFound", err)
	}
}

func TestPlaceBidInvalidAmount(t *testing.T) {
	uc := NewPlaceBidUseCase(memory.NewItemRepository(), memory.NewBidRepository(), 3)

	for _, amount := range []float64{0, -5} {
		_, err := uc.Execute(context.Background(), PlaceBidDTO{ItemID: uuid.New(), BidderID: uuid.New(), Amount: amount})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("amount %v: got %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestPlaceBidNonActiveStates(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, status := range []domain.Status{domain.StatusDraft, domain.StatusCancelled} {
		items := memory.NewItemRepository()
		ledger := memory.NewBidRepository()
		item := domain.NewItem(uuid.New(), uuid.New(), uuid.New(), "clock", "", domain.ConditionGood,
			nil, 10, 1, 0, 7, start)
		item.Status = status
		if err := items.Create(ctx, item); err != nil {
			t.Fatal(err)
		}

		uc := NewPlaceBidUseCase(items, ledger, 3)
		uc.now = fixedClock(start.Add(time.Hour))

		_, err := uc.Execute(ctx, PlaceBidDTO{ItemID: item.ID, BidderID: uuid.New(), Amount: 10})
		if !errors.Is(err, domain.ErrAuctionNotActive) {
			t.Errorf("status %v: got %v, want ErrAuctionNotActive", status, err)
		}
		// rejection paths must not touch the ledger
		if count, _ := ledger.CountByItem(ctx, item.ID); count != 0 {
			t.Errorf("status %v: ledger has %d entries, want 0", status, count)
		}
	}
}

// contentionItemRepo always loses the compare-and-swap, forcing the retry budget
type contentionItemRepo struct {
	*memory.ItemRepository
	attempts int
}

func (r *contentionItemRepo) ConditionalUpdateBid(ctx context.Context, id uuid.UUID, expected, amount float64, bidderID uuid.UUID) error {
	r.attempts++
	return domain.ErrPreconditionFailed
}

func TestPlaceBidContention(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	inner := memory.NewItemRepository()
	items := &contentionItemRepo{ItemRepository: inner}
	ledger := memory.NewBidRepository()
	item := newTestItem(t, inner, uuid.New(), 10, 1, start)

	uc := NewPlaceBidUseCase(items, ledger, 3)
	uc.now = fixedClock(start.Add(time.Hour))

	_, err := uc.Execute(ctx, PlaceBidDTO{ItemID: item.ID, BidderID: uuid.New(), Amount: 50})
	if !errors.Is(err, domain.ErrContention) {
		t.Fatalf("got %v, want ErrContention", err)
	}
	if items.attempts != 3 {
		t.Errorf("conditional update attempted %d times, want 3", items.attempts)
	}
	if count, _ := ledger.CountByItem(ctx, item.ID); count != 0 {
		t.Errorf("ledger has %d entries after contention failure, want 0", count)
	}
}

// failingLedger rejects every append to simulate a ledger outage after the item
// summary already moved
type failingLedger struct {
	*memory.BidRepository
}

func (l *failingLedger) Append(ctx context.Context, bid *domain.Bid) error {
	return errors.New("ledger unavailable")
}

func TestPlaceBidLedgerInconsistency(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	items := memory.NewItemRepository()
	ledger := &failingLedger{BidRepository: memory.NewBidRepository()}
	item := newTestItem(t, items, uuid.New(), 10, 1, start)

	uc := NewPlaceBidUseCase(items, ledger, 3)
	uc.now = fixedClock(start.Add(time.Hour))

	_, err := uc.Execute(ctx, PlaceBidDTO{ItemID: item.ID, BidderID: uuid.New(), Amount: 10})
	if !errors.Is(err, domain.ErrLedgerInconsistency) {
		t.Fatalf("got %v, want ErrLedgerInconsistency", err)
	}

	// the item summary did move, that is exactly the inconsistency being surfaced
	stored, _ := items.GetByID(ctx, item.ID)
	if stored.CurrentBid != 10 {
		t.Errorf("currentBid = %v, want 10", stored.CurrentBid)
	}
}

// TestPlaceBidMonotonicity accepts a sequence of valid bids and checks the
// ledger amounts strictly increase by at least the minimum increment
func TestPlaceBidMonotonicity(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	items := memory.NewItemRepository()
	ledger := memory.NewBidRepository()
	item := newTestItem(t, items, uuid.New(), 10, 2, start)

	uc := NewPlaceBidUseCase(items, ledger, 3)
	uc.now = fixedClock(start.Add(time.Hour))

	for _, amount := range []float64{10, 12, 14, 20, 22} {
		if _, err := uc.Execute(ctx, PlaceBidDTO{ItemID: item.ID, BidderID: uuid.New(), Amount: amount}); err != nil {
			t.Fatalf("bid %v: %v", amount, err)
		}
	}

	bids, err := ledger.ListByItem(ctx, item.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(bids); i++ {
		if bids[i].Amount < bids[i-1].Amount+item.MinIncrement {
			t.Errorf("bid %d amount %v does not exceed %v by the increment %v",
				i, bids[i].Amount, bids[i-1].Amount, item.MinIncrement)
		}
	}
}

// TestPlaceBidConcurrent fires many concurrent valid proposals at one item and
// checks the atomicity property: every attempt ends in an accept or an explicit
// rejection, exactly one summary state results, and it matches the ledger
func TestPlaceBidConcurrent(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	items := memory.NewItemRepository()
	ledger := memory.NewBidRepository()
	item := newTestItem(t, items, uuid.New(), 10, 1, start)

	// generous retry budget so most racers resolve instead of giving up
	uc := NewPlaceBidUseCase(items, ledger, 50)
	uc.now = fixedClock(start.Add(time.Hour))

	const bidders = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := make(map[float64]bool)

	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			amount := float64(10 + i)
			_, err := uc.Execute(ctx, PlaceBidDTO{ItemID: item.ID, BidderID: uuid.New(), Amount: amount})
			if err == nil {
				mu.Lock()
				accepted[amount] = true
				mu.Unlock()
				return
			}
			// losing is fine, but only through an explicit rejection kind
			var tooLow *domain.BidTooLowError
			if !errors.As(err, &tooLow) && !errors.Is(err, domain.ErrContention) {
				t.Errorf("bid %v failed with unexpected error: %v", amount, err)
			}
		}(i)
	}
	wg.Wait()

	if len(accepted) == 0 {
		t.Fatal("no bid was accepted")
	}

	final, err := items.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}

	// the summary must reflect the highest accepted amount
	var maxAccepted float64
	for amount := range accepted {
		if amount > maxAccepted {
			maxAccepted = amount
		}
	}
	if final.CurrentBid != maxAccepted {
		t.Errorf("currentBid = %v, want highest accepted %v", final.CurrentBid, maxAccepted)
	}

	// one ledger entry per accepted bid, highest consistent with the summary
	count, _ := ledger.CountByItem(ctx, item.ID)
	if count != len(accepted) {
		t.Errorf("ledger has %d entries, want %d", count, len(accepted))
	}
	highest, _ := ledger.HighestFor(ctx, item.ID)
	if highest == nil || highest.Amount != final.CurrentBid {
		t.Errorf("ledger highest = %v, item summary = %v", highest, final.CurrentBid)
	}
	if final.HighestBidderID == nil || highest.BidderID != *final.HighestBidderID {
		t.Error("highest bidder in ledger does not match item summary")
	}
}
