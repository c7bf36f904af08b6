package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
)

// AuctionService is the application interface of the auction module, it exposes
// the use cases to the outer layers (http handlers, sweeps)
type AuctionService interface {
	// PlaceBid handles a user's bid on an item, returns the accepted bid with
	// the updated item snapshot or a rejection error from the domain taxonomy
	PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*PlaceBidResult, error)
	GetItemState(ctx context.Context, itemID uuid.UUID) (*ItemStateDTO, error)
	CloseExpired(ctx context.Context, now time.Time) (int, error)

	CreateItem(ctx context.Context, cmd CreateItemDTO) (*domain.Item, error)
	UpdateItem(ctx context.Context, cmd UpdateItemDTO) (*domain.Item, error)
	CancelItem(ctx context.Context, itemID, actorID uuid.UUID, actorRole string) (*domain.Item, error)
	SetItemFeatured(ctx context.Context, itemID uuid.UUID, featured bool, actorRole string) (*domain.Item, error)

	ListAllItems(ctx context.Context) ([]*domain.Item, error)
	ListActiveItems(ctx context.Context) ([]*domain.Item, error)
	ListFeaturedItems(ctx context.Context) ([]*domain.Item, error)
	ListItemsBySeller(ctx context.Context, sellerID uuid.UUID) ([]*ItemSummaryDTO, error)

	ListBidsByItem(ctx context.Context, itemID uuid.UUID, newestFirst bool) ([]*domain.Bid, error)
	HighestBidFor(ctx context.Context, itemID uuid.UUID) (*domain.Bid, error)
	ListBidsByBidder(ctx context.Context, bidderID uuid.UUID) ([]*domain.Bid, error)
}

// concrete implementation of AuctionService
type auctionService struct {
	placeBidUC     *PlaceBidUseCase
	getItemStateUC *GetItemStateUseCase
	closeExpiredUC *CloseExpiredUseCase
	manageItemsUC  *ManageItemsUseCase
	listItemsUC    *ListItemsUseCase
	listBidsUC     *ListBidsUseCase
}

func NewAuctionService(
	placeBidUC *PlaceBidUseCase,
	getItemStateUC *GetItemStateUseCase,
	closeExpiredUC *CloseExpiredUseCase,
	manageItemsUC *ManageItemsUseCase,
	listItemsUC *ListItemsUseCase,
	listBidsUC *ListBidsUseCase,
) AuctionService {
	return &auctionService{
		placeBidUC:     placeBidUC,
		getItemStateUC: getItemStateUC,
		closeExpiredUC: closeExpiredUC,
		manageItemsUC:  manageItemsUC,
		listItemsUC:    listItemsUC,
		listBidsUC:     listBidsUC,
	}
}

func (as *auctionService) PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*PlaceBidResult, error) {
	return as.placeBidUC.Execute(ctx, cmd)
}

func (as *auctionService) GetItemState(ctx context.Context, itemID uuid.UUID) (*ItemStateDTO, error) {
	return as.getItemStateUC.Execute(ctx, itemID)
}

func (as *auctionService) CloseExpired(ctx context.Context, now time.Time) (int, error) {
	return as.closeExpiredUC.Execute(ctx, now)
}

func (as *auctionService) CreateItem(ctx context.Context, cmd CreateItemDTO) (*domain.Item, error) {
	return as.manageItemsUC.Create(ctx, cmd)
}

func (as *auctionService) UpdateItem(ctx context.Context, cmd UpdateItemDTO) (*domain.Item, error) {
	return as.manageItemsUC.Update(ctx, cmd)
}

func (as *auctionService) CancelItem(ctx context.Context, itemID, actorID uuid.UUID, actorRole string) (*domain.Item, error) {
	return as.manageItemsUC.Cancel(ctx, itemID, actorID, actorRole)
}

func (as *auctionService) SetItemFeatured(ctx context.Context, itemID uuid.UUID, featured bool, actorRole string) (*domain.Item, error) {
	return as.manageItemsUC.SetFeatured(ctx, itemID, featured, actorRole)
}

func (as *auctionService) ListAllItems(ctx context.Context) ([]*domain.Item, error) {
	return as.listItemsUC.All(ctx)
}

func (as *auctionService) ListActiveItems(ctx context.Context) ([]*domain.Item, error) {
	return as.listItemsUC.Active(ctx)
}

func (as *auctionService) ListFeaturedItems(ctx context.Context) ([]*domain.Item, error) {
	return as.listItemsUC.Featured(ctx)
}

func (as *auctionService) ListItemsBySeller(ctx context.Context, sellerID uuid.UUID) ([]*ItemSummaryDTO, error) {
	return as.listItemsUC.BySeller(ctx, sellerID)
}

func (as *auctionService) ListBidsByItem(ctx context.Context, itemID uuid.UUID, newestFirst bool) ([]*domain.Bid, error) {
	return as.listBidsUC.ByItem(ctx, itemID, newestFirst)
}

func (as *auctionService) HighestBidFor(ctx context.Context, itemID uuid.UUID) (*domain.Bid, error) {
	return as.listBidsUC.HighestFor(ctx, itemID)
}

func (as *auctionService) ListBidsByBidder(ctx context.Context, bidderID uuid.UUID) ([]*domain.Bid, error) {
	return as.listBidsUC.ByBidder(ctx, bidderID)
}
