package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the persisted lifecycle state of an auction item
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusEnded     Status = "ended"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether an item in this status can never accept another bid
func (s Status) Terminal() bool {
	return s == StatusEnded || s == StatusCancelled
}

// Condition is the declared physical condition of the listed item
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionLikeNew   Condition = "likeNew"
	ConditionExcellent Condition = "excellent"
	ConditionVeryGood  Condition = "veryGood"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
	ConditionForParts  Condition = "forParts"
)

// ValidCondition reports whether c is one of the known condition values
func ValidCondition(c Condition) bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionExcellent, ConditionVeryGood,
		ConditionGood, ConditionFair, ConditionPoor, ConditionForParts:
		return true
	}
	return false
}

// Item is an auction listing. CurrentBid and HighestBidderID are the mutable
// denormalized summary of the bid ledger: CurrentBid is monotonically
// non-decreasing and always derivable as the max ledger amount for the item,
// and CurrentBid > 0 implies HighestBidderID is set
type Item struct {
	ID              uuid.UUID
	SellerID        uuid.UUID
	CategoryID      uuid.UUID
	Title           string
	Description     string
	Condition       Condition
	Images          []string
	StartingPrice   float64
	MinIncrement    float64
	ReservePrice    float64
	CurrentBid      float64
	HighestBidderID *uuid.UUID
	Status          Status
	Featured        bool
	// auction length in days, EndDate is derived from it at creation
	AuctionDuration int
	StartDate       time.Time
	EndDate         time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewItem builds a listing in active state with its end date computed from the
// start date plus the auction duration in days
func NewItem(id, sellerID, categoryID uuid.UUID, title, description string, condition Condition,
	images []string, startingPrice, minIncrement, reservePrice float64,
	auctionDuration int, startDate time.Time) *Item {

	if minIncrement <= 0 {
		minIncrement = 1
	}
	return &Item{
		ID:              id,
		SellerID:        sellerID,
		CategoryID:      categoryID,
		Title:           title,
		Description:     description,
		Condition:       condition,
		Images:          images,
		StartingPrice:   startingPrice,
		MinIncrement:    minIncrement,
		ReservePrice:    reservePrice,
		CurrentBid:      0,
		Status:          StatusActive,
		AuctionDuration: auctionDuration,
		StartDate:       startDate,
		EndDate:         ComputeEndDate(startDate, auctionDuration),
	}
}

// ComputeEndDate derives the auction deadline from its start and duration in days
func ComputeEndDate(startDate time.Time, durationDays int) time.Time {
	return startDate.Add(time.Duration(durationDays) * 24 * time.Hour)
}

// Classify returns the state the item should be treated as having right now.
// Terminal states are returned as-is; an active item whose end date has passed
// classifies as ended even if that transition has not been persisted yet (lazy
// expiry, the caller persists it best-effort). Pure function, no side effects:
// this is the single source of truth for "is this item biddable"
func Classify(item *Item, now time.Time) Status {
	if item.Status.Terminal() {
		return item.Status
	}
	if item.Status == StatusActive && !now.Before(item.EndDate) {
		return StatusEnded
	}
	return item.Status
}

// MinimumAcceptableBid is the lowest amount the next bid may carry: the
// starting price opens the auction, after that each bid must beat the current
// one by at least the minimum increment. The returned floor itself is a valid
// bid, strictly below it is not
func (i *Item) MinimumAcceptableBid() float64 {
	if i.CurrentBid == 0 {
		return i.StartingPrice
	}
	return i.CurrentBid + i.MinIncrement
}

// HasBids reports whether any bid has been accepted on this item
func (i *Item) HasBids() bool {
	return i.CurrentBid > 0
}

// CanCancel reports whether the item may transition to cancelled: only from
// draft or active, never out of a terminal state
func (i *Item) CanCancel() bool {
	return i.Status == StatusDraft || i.Status == StatusActive
}
