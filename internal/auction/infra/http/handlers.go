package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lmoreau/auctionhouse/internal/auction/application"
	"github.com/lmoreau/auctionhouse/internal/auction/domain"
	"github.com/lmoreau/auctionhouse/internal/shared/auth"
	"github.com/lmoreau/auctionhouse/internal/shared/logger"
)

var log = logger.GetLogger()

// AuctionHandler exposes the auction module over HTTP, mapping the domain's
// rejection taxonomy to status codes
type AuctionHandler struct {
	service application.AuctionService
}

// NewAuctionHandler creates a new instance of AuctionHandler
func NewAuctionHandler(service application.AuctionService) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// RegisterRoutes mounts the item and bid endpoints. authMW must populate the
// auth locals for the protected routes
func (h *AuctionHandler) RegisterRoutes(api fiber.Router, authMW fiber.Handler) {
	items := api.Group("/items")
	items.Get("/", h.listItems)
	items.Get("/active", h.listActiveItems)
	items.Get("/featured", h.listFeaturedItems)
	items.Get("/my-items", authMW, h.listMyItems)
	items.Get("/seller/:sellerId", h.listItemsBySeller)
	items.Get("/:id", h.getItem)
	items.Post("/", authMW, h.createItem)
	items.Put("/:id", authMW, h.updateItem)
	items.Patch("/:id/cancel", authMW, h.cancelItem)
	items.Patch("/:id/feature", authMW, auth.RequireAdmin(), h.featureItem)

	bids := api.Group("/bids")
	bids.Post("/", authMW, h.placeBid)
	bids.Get("/my-bids", authMW, h.listMyBids)
	bids.Get("/item/:itemId", h.listBidsByItem)
	bids.Get("/item/:itemId/highest", h.highestBid)
}

type placeBidRequest struct {
	ItemID string  `json:"item_id"`
	Amount float64 `json:"amount"`
}

func (h *AuctionHandler) placeBid(c *fiber.Ctx) error {
	var req placeBidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return badRequest(c, "item ID and bid amount are required")
	}
	bidderID, ok := c.Locals(auth.LocalsUserID).(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "authentication required"})
	}

	result, err := h.service.PlaceBid(c.Context(), application.PlaceBidDTO{
		ItemID:   itemID,
		BidderID: bidderID,
		Amount:   req.Amount,
	})
	if err != nil {
		return rejectionResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "bid placed successfully",
		"data": fiber.Map{
			"bid":  result.Bid,
			"item": result.Item,
		},
	})
}

func (h *AuctionHandler) listBidsByItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return badRequest(c, "invalid item ID")
	}
	newestFirst := c.Query("sort", "newest") != "oldest"

	bids, err := h.service.ListBidsByItem(c.Context(), itemID, newestFirst)
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(bids), "data": bids})
}

func (h *AuctionHandler) highestBid(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return badRequest(c, "invalid item ID")
	}
	bid, err := h.service.HighestBidFor(c.Context(), itemID)
	if err != nil {
		return rejectionResponse(c, err)
	}
	if bid == nil {
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"amount": 0}})
	}
	return c.JSON(fiber.Map{"success": true, "data": bid})
}

func (h *AuctionHandler) listMyBids(c *fiber.Ctx) error {
	bidderID, ok := c.Locals(auth.LocalsUserID).(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "authentication required"})
	}
	bids, err := h.service.ListBidsByBidder(c.Context(), bidderID)
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(bids), "data": bids})
}

func (h *AuctionHandler) getItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid item ID")
	}
	state, err := h.service.GetItemState(c.Context(), itemID)
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": state})
}

func (h *AuctionHandler) listItems(c *fiber.Ctx) error {
	items, err := h.service.ListAllItems(c.Context())
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(items), "data": items})
}

func (h *AuctionHandler) listActiveItems(c *fiber.Ctx) error {
	items, err := h.service.ListActiveItems(c.Context())
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(items), "data": items})
}

func (h *AuctionHandler) listFeaturedItems(c *fiber.Ctx) error {
	items, err := h.service.ListFeaturedItems(c.Context())
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(items), "data": items})
}

func (h *AuctionHandler) listItemsBySeller(c *fiber.Ctx) error {
	sellerID, err := uuid.Parse(c.Params("sellerId"))
	if err != nil {
		return badRequest(c, "invalid seller ID")
	}
	items, err := h.service.ListItemsBySeller(c.Context(), sellerID)
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(items), "data": items})
}

func (h *AuctionHandler) listMyItems(c *fiber.Ctx) error {
	sellerID, ok := c.Locals(auth.LocalsUserID).(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "authentication required"})
	}
	items, err := h.service.ListItemsBySeller(c.Context(), sellerID)
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "count": len(items), "data": items})
}

type createItemRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	CategoryID      string   `json:"category_id"`
	Condition       string   `json:"item_condition"`
	Images          []string `json:"images"`
	StartingPrice   float64  `json:"starting_price"`
	MinIncrement    float64  `json:"min_increment"`
	ReservePrice    float64  `json:"reserve_price"`
	AuctionDuration int      `json:"auction_duration"`
}

func (h *AuctionHandler) createItem(c *fiber.Ctx) error {
	var req createItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return badRequest(c, "invalid category ID")
	}
	sellerID, ok := c.Locals(auth.LocalsUserID).(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "authentication required"})
	}

	item, err := h.service.CreateItem(c.Context(), application.CreateItemDTO{
		SellerID:        sellerID,
		CategoryID:      categoryID,
		Title:           req.Title,
		Description:     req.Description,
		Condition:       domain.Condition(req.Condition),
		Images:          req.Images,
		StartingPrice:   req.StartingPrice,
		MinIncrement:    req.MinIncrement,
		ReservePrice:    req.ReservePrice,
		AuctionDuration: req.AuctionDuration,
	})
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

type updateItemRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	CategoryID      *string  `json:"category_id"`
	Condition       *string  `json:"item_condition"`
	StartingPrice   *float64 `json:"starting_price"`
	MinIncrement    *float64 `json:"min_increment"`
	ReservePrice    *float64 `json:"reserve_price"`
	AuctionDuration *int     `json:"auction_duration"`
}

func (h *AuctionHandler) updateItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid item ID")
	}
	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	actorID, _ := c.Locals(auth.LocalsUserID).(uuid.UUID)
	actorRole, _ := c.Locals(auth.LocalsRole).(string)

	cmd := application.UpdateItemDTO{
		ItemID:          itemID,
		ActorID:         actorID,
		ActorRole:       actorRole,
		Title:           req.Title,
		Description:     req.Description,
		StartingPrice:   req.StartingPrice,
		MinIncrement:    req.MinIncrement,
		ReservePrice:    req.ReservePrice,
		AuctionDuration: req.AuctionDuration,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return badRequest(c, "invalid category ID")
		}
		cmd.CategoryID = &categoryID
	}
	if req.Condition != nil {
		cond := domain.Condition(*req.Condition)
		cmd.Condition = &cond
	}

	item, err := h.service.UpdateItem(c.Context(), cmd)
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *AuctionHandler) cancelItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid item ID")
	}
	actorID, _ := c.Locals(auth.LocalsUserID).(uuid.UUID)
	actorRole, _ := c.Locals(auth.LocalsRole).(string)

	item, err := h.service.CancelItem(c.Context(), itemID, actorID, actorRole)
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

type featureItemRequest struct {
	Featured bool `json:"featured"`
}

func (h *AuctionHandler) featureItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid item ID")
	}
	req := featureItemRequest{Featured: true}
	_ = c.BodyParser(&req)
	actorRole, _ := c.Locals(auth.LocalsRole).(string)

	item, err := h.service.SetItemFeatured(c.Context(), itemID, req.Featured, actorRole)
	if err != nil {
		return rejectionResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": message})
}

// rejectionResponse maps the domain error taxonomy to HTTP status codes.
// BidTooLow carries the computed floor so clients can retry with a corrected amount
func rejectionResponse(c *fiber.Ctx, err error) error {
	var tooLow *domain.BidTooLowError
	switch {
	case errors.As(err, &tooLow):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": tooLow.Error(),
			"minimum": tooLow.Minimum,
		})
	case errors.Is(err, domain.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "item not found"})
	case errors.Is(err, domain.ErrAuctionClosed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "this auction has ended"})
	case errors.Is(err, domain.ErrAuctionNotActive):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "this auction is not active"})
	case errors.Is(err, domain.ErrSelfBid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "you cannot bid on your own item"})
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrItemNotOpen), errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, domain.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "access denied"})
	case errors.Is(err, domain.ErrContention):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "too many concurrent bids, please retry"})
	default:
		log.Error("unhandled error in auction handler", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "server error"})
	}
}
