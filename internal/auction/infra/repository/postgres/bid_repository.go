package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
)

// BidRepository implements domain.BidLedger on PostgreSQL. Rows are only ever
// inserted, the seq column breaks created_at ties so the per-item order is total
type BidRepository struct {
	pool *pgxpool.Pool
}

// NewBidRepository creates a new instance of BidRepository
func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

func (r *BidRepository) Append(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, item_id, bidder_id, amount, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.pool.Exec(ctx, query,
		bid.ID,
		bid.ItemID,
		bid.BidderID,
		bid.Amount,
		bid.CreatedAt,
	)
	return err
}

func (r *BidRepository) ListByItem(ctx context.Context, itemID uuid.UUID, newestFirst bool) ([]*domain.Bid, error) {
	order := "ASC"
	if newestFirst {
		order = "DESC"
	}
	query := `
        SELECT id, item_id, bidder_id, amount, created_at
        FROM bids
        WHERE item_id = $1
        ORDER BY created_at ` + order + `, seq ` + order
	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBids(rows)
}

func (r *BidRepository) ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*domain.Bid, error) {
	query := `
        SELECT id, item_id, bidder_id, amount, created_at
        FROM bids
        WHERE bidder_id = $1
        ORDER BY created_at DESC, seq DESC
    `
	rows, err := r.pool.Query(ctx, query, bidderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBids(rows)
}

// HighestFor returns nil without error when the item has no bids
func (r *BidRepository) HighestFor(ctx context.Context, itemID uuid.UUID) (*domain.Bid, error) {
	query := `
        SELECT id, item_id, bidder_id, amount, created_at
        FROM bids
        WHERE item_id = $1
        ORDER BY amount DESC, seq DESC
        LIMIT 1
    `
	bid := &domain.Bid{}
	err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&bid.ID,
		&bid.ItemID,
		&bid.BidderID,
		&bid.Amount,
		&bid.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return bid, nil
}

func (r *BidRepository) CountByItem(ctx context.Context, itemID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bids WHERE item_id = $1`, itemID).Scan(&count)
	return count, err
}

func scanBids(rows pgx.Rows) ([]*domain.Bid, error) {
	var bids []*domain.Bid
	for rows.Next() {
		bid := &domain.Bid{}
		err := rows.Scan(
			&bid.ID,
			&bid.ItemID,
			&bid.BidderID,
			&bid.Amount,
			&bid.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bids, nil
}
