package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
	"github.com/lmoreau/auctionhouse/internal/shared/logger"
)

var log = logger.GetLogger()

// DefaultBidMaxRetries bounds the optimistic-concurrency retry loop
const DefaultBidMaxRetries = 3

// PlaceBidDTO is the input for the PlaceBid use case
type PlaceBidDTO struct {
	ItemID   uuid.UUID
	BidderID uuid.UUID
	Amount   float64
}

// PlaceBidResult carries the accepted bid together with the updated item snapshot
type PlaceBidResult struct {
	Bid  *domain.Bid
	Item *domain.Item
}

// PlaceBidUseCase validates a proposed bid against the item state machine and
// the monotonic-price rule, then commits it with a compare-and-swap on the item
// summary followed by an append to the bid ledger. No lock serializes bids for
// an item, correctness relies on the conditional update: two bidders who read
// the same stale current bid can never both succeed
type PlaceBidUseCase struct {
	items      domain.ItemRepository
	ledger     domain.BidLedger
	now        func() time.Time
	maxRetries int
}

// NewPlaceBidUseCase creates a new instance of PlaceBidUseCase, dependencies
// injected. maxRetries <= 0 falls back to DefaultBidMaxRetries
func NewPlaceBidUseCase(items domain.ItemRepository, ledger domain.BidLedger, maxRetries int) *PlaceBidUseCase {
	if maxRetries <= 0 {
		maxRetries = DefaultBidMaxRetries
	}
	return &PlaceBidUseCase{
		items:      items,
		ledger:     ledger,
		now:        time.Now,
		maxRetries: maxRetries,
	}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, cmd PlaceBidDTO) (*PlaceBidResult, error) {
	log.Info("Executing PlaceBidUseCase",
		zap.String("itemID", cmd.ItemID.String()),
		zap.String("bidderID", cmd.BidderID.String()),
		zap.Float64("amount", cmd.Amount),
	)

	if cmd.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	// every attempt re-reads the item and revalidates against fresh state, so a
	// lost race never turns into a lost update
	for attempt := 0; attempt < uc.maxRetries; attempt++ {
		res, err := uc.attempt(ctx, cmd)
		if err != nil {
			if errors.Is(err, domain.ErrPreconditionFailed) {
				log.Info("PlaceBidUseCase: conditional update lost race, retrying",
					zap.String("itemID", cmd.ItemID.String()),
					zap.Int("attempt", attempt+1),
				)
				continue
			}
			return nil, err
		}
		return res, nil
	}

	log.Warn("PlaceBidUseCase: retry budget exhausted",
		zap.String("itemID", cmd.ItemID.String()),
		zap.String("bidderID", cmd.BidderID.String()),
		zap.Int("maxRetries", uc.maxRetries),
	)
	return nil, domain.ErrContention
}

// attempt runs one full read-validate-commit cycle. A domain.ErrPreconditionFailed
// return means another writer moved the price first and the caller should retry
func (uc *PlaceBidUseCase) attempt(ctx context.Context, cmd PlaceBidDTO) (*PlaceBidResult, error) {
	item, err := uc.items.GetByID(ctx, cmd.ItemID)
	if err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			log.Error("PlaceBidUseCase: failed to get item",
				zap.String("itemID", cmd.ItemID.String()),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("place bid: get item %s: %w", cmd.ItemID, err)
	}

	now := uc.now()
	switch domain.Classify(item, now) {
	case domain.StatusActive:
		// open for bidding
	case domain.StatusEnded:
		// lazy expiry: persist the transition best-effort before rejecting. The
		// rejection is correct either way, so a failed or lost write is ignored
		if item.Status == domain.StatusActive {
			if terr := uc.items.ConditionalTransitionStatus(ctx, item.ID, domain.StatusActive, domain.StatusEnded); terr != nil && !errors.Is(terr, domain.ErrPreconditionFailed) {
				log.Warn("PlaceBidUseCase: lazy expiry write failed",
					zap.String("itemID", item.ID.String()),
					zap.Error(terr),
				)
			}
		}
		return nil, domain.ErrAuctionClosed
	default:
		return nil, domain.ErrAuctionNotActive
	}

	if cmd.BidderID == item.SellerID {
		log.Warn("Bid rejected: seller bidding on own item",
			zap.String("itemID", item.ID.String()),
			zap.String("bidderID", cmd.BidderID.String()),
		)
		return nil, domain.ErrSelfBid
	}

	minimum := item.MinimumAcceptableBid()
	if cmd.Amount < minimum {
		log.Warn("Bid rejected: amount too low",
			zap.String("itemID", item.ID.String()),
			zap.Float64("amount", cmd.Amount),
			zap.Float64("minimum", minimum),
			zap.String("bidderID", cmd.BidderID.String()),
		)
		return nil, &domain.BidTooLowError{Minimum: minimum}
	}

	// commit conditioned on the current bid we validated against, this is the
	// critical correctness mechanism of the whole protocol
	expected := item.CurrentBid
	if err := uc.items.ConditionalUpdateBid(ctx, item.ID, expected, cmd.Amount, cmd.BidderID); err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, err
		}
		log.Error("PlaceBidUseCase: conditional update failed",
			zap.String("itemID", item.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("place bid: update item %s: %w", item.ID, err)
	}

	bid := domain.NewBid(uuid.New(), item.ID, cmd.BidderID, cmd.Amount, now)
	if err := uc.ledger.Append(ctx, bid); err != nil {
		// the item summary moved but the audit trail did not: durable mismatch
		// between the two stores, surfaced as fatal for reconciliation
		log.Error("PlaceBidUseCase: LEDGER INCONSISTENCY, item updated but bid append failed",
			zap.String("itemID", item.ID.String()),
			zap.String("bidID", bid.ID.String()),
			zap.Float64("amount", cmd.Amount),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerInconsistency, err)
	}

	item.CurrentBid = cmd.Amount
	bidder := cmd.BidderID
	item.HighestBidderID = &bidder

	log.Info("Bid placed successfully",
		zap.String("itemID", item.ID.String()),
		zap.String("bidID", bid.ID.String()),
		zap.String("bidderID", cmd.BidderID.String()),
		zap.Float64("amount", cmd.Amount),
	)

	return &PlaceBidResult{Bid: bid, Item: item}, nil
}
