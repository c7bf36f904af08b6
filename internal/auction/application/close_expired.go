package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
)

// CloseExpiredUseCase sweeps active items whose end date has passed and
// transitions each to ended. Every transition is conditional on the item still
// being active, so the sweep can run concurrently with bid placement: a
// last-moment legitimate bid is never clobbered by the close, and a close that
// already happened lazily is simply skipped
type CloseExpiredUseCase struct {
	items domain.ItemRepository
}

func NewCloseExpiredUseCase(items domain.ItemRepository) *CloseExpiredUseCase {
	return &CloseExpiredUseCase{items: items}
}

// Execute closes every expired auction independently and returns how many
// transitions it committed. Per-item failures are logged and do not stop the sweep
func (uc *CloseExpiredUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	expired, err := uc.items.ListExpired(ctx, now)
	if err != nil {
		log.Error("CloseExpiredUseCase: failed to list expired items", zap.Error(err))
		return 0, err
	}

	closed := 0
	for _, item := range expired {
		err := uc.items.ConditionalTransitionStatus(ctx, item.ID, domain.StatusActive, domain.StatusEnded)
		if err != nil {
			if errors.Is(err, domain.ErrPreconditionFailed) {
				// someone else already moved it, nothing to do
				continue
			}
			log.Error("CloseExpiredUseCase: failed to close item",
				zap.String("itemID", item.ID.String()),
				zap.Error(err),
			)
			continue
		}
		closed++
		log.Info("Auction closed",
			zap.String("itemID", item.ID.String()),
			zap.Float64("finalPrice", item.CurrentBid),
			zap.Time("endDate", item.EndDate),
		)
	}
	return closed, nil
}

// RunSweep blocks running the sweep on every tick until the context is cancelled.
// Intended to be started as a goroutine from the composition root
func (uc *CloseExpiredUseCase) RunSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Auction closing sweep started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			log.Info("Auction closing sweep stopped")
			return
		case now := <-ticker.C:
			if _, err := uc.Execute(ctx, now); err != nil {
				log.Error("Auction closing sweep iteration failed", zap.Error(err))
			}
		}
	}
}
