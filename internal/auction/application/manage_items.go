package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
	"github.com/lmoreau/auctionhouse/internal/shared/auth"
)

// CreateItemDTO carries the listing fields a seller submits
type CreateItemDTO struct {
	SellerID        uuid.UUID
	CategoryID      uuid.UUID
	Title           string
	Description     string
	Condition       domain.Condition
	Images          []string
	StartingPrice   float64
	MinIncrement    float64
	ReservePrice    float64
	AuctionDuration int
}

// UpdateItemDTO carries the mutable listing fields. Nil pointers mean "leave as is"
type UpdateItemDTO struct {
	ItemID          uuid.UUID
	ActorID         uuid.UUID
	ActorRole       string
	Title           *string
	Description     *string
	CategoryID      *uuid.UUID
	Condition       *domain.Condition
	StartingPrice   *float64
	MinIncrement    *float64
	ReservePrice    *float64
	AuctionDuration *int
}

// ManageItemsUseCase covers the listing lifecycle outside of bidding: create,
// update, cancel and feature. Write access is restricted to the seller or an admin
type ManageItemsUseCase struct {
	items domain.ItemRepository
	now   func() time.Time
}

func NewManageItemsUseCase(items domain.ItemRepository) *ManageItemsUseCase {
	return &ManageItemsUseCase{items: items, now: time.Now}
}

func (uc *ManageItemsUseCase) Create(ctx context.Context, cmd CreateItemDTO) (*domain.Item, error) {
	if cmd.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if cmd.StartingPrice < 0 || cmd.ReservePrice < 0 {
		return nil, fmt.Errorf("%w: prices must be non-negative", domain.ErrValidation)
	}
	if cmd.AuctionDuration < 1 {
		return nil, fmt.Errorf("%w: auction duration must be at least one day", domain.ErrValidation)
	}
	if !domain.ValidCondition(cmd.Condition) {
		return nil, fmt.Errorf("%w: unknown condition %q", domain.ErrValidation, cmd.Condition)
	}

	item := domain.NewItem(uuid.New(), cmd.SellerID, cmd.CategoryID, cmd.Title, cmd.Description,
		cmd.Condition, cmd.Images, cmd.StartingPrice, cmd.MinIncrement, cmd.ReservePrice,
		cmd.AuctionDuration, uc.now())

	if err := uc.items.Create(ctx, item); err != nil {
		log.Error("ManageItemsUseCase: failed to create item",
			zap.String("sellerID", cmd.SellerID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create item: %w", err)
	}

	log.Info("Item created",
		zap.String("itemID", item.ID.String()),
		zap.String("sellerID", item.SellerID.String()),
		zap.Time("endDate", item.EndDate),
	)
	return item, nil
}

func (uc *ManageItemsUseCase) Update(ctx context.Context, cmd UpdateItemDTO) (*domain.Item, error) {
	item, err := uc.items.GetByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}
	if err := authorize(item, cmd.ActorID, cmd.ActorRole); err != nil {
		return nil, err
	}
	if item.Status != domain.StatusActive && cmd.ActorRole != auth.RoleAdmin {
		return nil, domain.ErrItemNotOpen
	}

	if cmd.Title != nil {
		item.Title = *cmd.Title
	}
	if cmd.Description != nil {
		item.Description = *cmd.Description
	}
	if cmd.CategoryID != nil {
		item.CategoryID = *cmd.CategoryID
	}
	if cmd.Condition != nil {
		if !domain.ValidCondition(*cmd.Condition) {
			return nil, fmt.Errorf("%w: unknown condition %q", domain.ErrValidation, *cmd.Condition)
		}
		item.Condition = *cmd.Condition
	}
	if cmd.StartingPrice != nil {
		item.StartingPrice = *cmd.StartingPrice
	}
	if cmd.MinIncrement != nil {
		item.MinIncrement = *cmd.MinIncrement
	}
	if cmd.ReservePrice != nil {
		item.ReservePrice = *cmd.ReservePrice
	}
	// the deadline is immutable once bidding started, duration changes only
	// recompute it while no bid has been accepted
	if cmd.AuctionDuration != nil && !item.HasBids() {
		item.AuctionDuration = *cmd.AuctionDuration
		item.EndDate = domain.ComputeEndDate(item.StartDate, item.AuctionDuration)
	}

	if err := uc.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item %s: %w", item.ID, err)
	}
	return item, nil
}

// Cancel moves an item to cancelled, only allowed from draft or active and only
// for the seller or an admin
func (uc *ManageItemsUseCase) Cancel(ctx context.Context, itemID, actorID uuid.UUID, actorRole string) (*domain.Item, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := authorize(item, actorID, actorRole); err != nil {
		return nil, err
	}
	if !item.CanCancel() {
		return nil, domain.ErrItemNotOpen
	}

	if err := uc.items.ConditionalTransitionStatus(ctx, item.ID, item.Status, domain.StatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel item %s: %w", item.ID, err)
	}
	item.Status = domain.StatusCancelled

	log.Info("Item cancelled",
		zap.String("itemID", item.ID.String()),
		zap.String("actorID", actorID.String()),
	)
	return item, nil
}

// SetFeatured flags a listing for the featured carousel, admin only
func (uc *ManageItemsUseCase) SetFeatured(ctx context.Context, itemID uuid.UUID, featured bool, actorRole string) (*domain.Item, error) {
	if actorRole != auth.RoleAdmin {
		return nil, domain.ErrAccessDenied
	}
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item.Featured = featured
	if err := uc.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("feature item %s: %w", item.ID, err)
	}
	return item, nil
}

func authorize(item *domain.Item, actorID uuid.UUID, actorRole string) error {
	if item.SellerID != actorID && actorRole != auth.RoleAdmin {
		return domain.ErrAccessDenied
	}
	return nil
}
