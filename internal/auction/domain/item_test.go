package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  Status
		endDate time.Time
		want    Status
	}{
		{"active before deadline", StatusActive, now.Add(time.Hour), StatusActive},
		{"active past deadline", StatusActive, now.Add(-time.Hour), StatusEnded},
		{"active exactly at deadline", StatusActive, now, StatusEnded},
		{"draft ignores deadline", StatusDraft, now.Add(-time.Hour), StatusDraft},
		{"ended stays ended", StatusEnded, now.Add(time.Hour), StatusEnded},
		{"cancelled stays cancelled", StatusCancelled, now.Add(-time.Hour), StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{Status: tt.status, EndDate: tt.endDate}
			if got := Classify(item, now); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	now := time.Now()
	item := &Item{Status: StatusActive, EndDate: now.Add(-time.Minute)}

	if got := Classify(item, now); got != StatusEnded {
		t.Fatalf("Classify() = %v, want %v", got, StatusEnded)
	}
	// the persisted status must not change, classification is lazy
	if item.Status != StatusActive {
		t.Errorf("Classify mutated item status to %v", item.Status)
	}
}

func TestMinimumAcceptableBid(t *testing.T) {
	tests := []struct {
		name          string
		startingPrice float64
		minIncrement  float64
		currentBid    float64
		want          float64
	}{
		{"no bids yet opens at starting price", 10, 1, 0, 10},
		{"after first bid floor moves by increment", 10, 1, 10, 11},
		{"larger increment", 100, 5, 120, 125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{
				StartingPrice: tt.startingPrice,
				MinIncrement:  tt.minIncrement,
				CurrentBid:    tt.currentBid,
			}
			if got := item.MinimumAcceptableBid(); got != tt.want {
				t.Errorf("MinimumAcceptableBid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewItemComputesEndDate(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	item := NewItem(uuid.New(), uuid.New(), uuid.New(), "vase", "old vase", ConditionGood,
		nil, 10, 1, 0, 3, start)

	wantEnd := start.Add(3 * 24 * time.Hour)
	if !item.EndDate.Equal(wantEnd) {
		t.Errorf("EndDate = %v, want %v", item.EndDate, wantEnd)
	}
	if item.Status != StatusActive {
		t.Errorf("Status = %v, want %v", item.Status, StatusActive)
	}
	if item.CurrentBid != 0 {
		t.Errorf("CurrentBid = %v, want 0", item.CurrentBid)
	}
	if item.HighestBidderID != nil {
		t.Error("new item must have no highest bidder")
	}
}

func TestNewItemDefaultsMinIncrement(t *testing.T) {
	item := NewItem(uuid.New(), uuid.New(), uuid.New(), "vase", "", ConditionNew,
		nil, 10, 0, 0, 1, time.Now())
	if item.MinIncrement != 1 {
		t.Errorf("MinIncrement = %v, want 1", item.MinIncrement)
	}
}

func TestCanCancel(t *testing.T) {
	for status, want := range map[Status]bool{
		StatusDraft:     true,
		StatusActive:    true,
		StatusEnded:     false,
		StatusCancelled: false,
	} {
		item := &Item{Status: status}
		if got := item.CanCancel(); got != want {
			t.Errorf("CanCancel() with status %v = %v, want %v", status, got, want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusActive.Terminal() || StatusDraft.Terminal() {
		t.Error("draft and active must not be terminal")
	}
	if !StatusEnded.Terminal() || !StatusCancelled.Terminal() {
		t.Error("ended and cancelled must be terminal")
	}
}
