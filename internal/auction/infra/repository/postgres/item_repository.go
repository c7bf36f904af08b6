package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmoreau/auctionhouse/internal/auction/domain"
)

const itemColumns = `id, seller_id, category_id, title, description, item_condition, images,
        starting_price, min_increment, reserve_price, current_bid, highest_bidder_id,
        status, featured, auction_duration, start_date, end_date, created_at, updated_at`

// ItemRepository implements domain.ItemRepository on PostgreSQL. The bidding
// summary only moves through conditional UPDATEs whose WHERE clause carries the
// expected previous value, rows-affected zero means the precondition failed
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository creates a new instance of ItemRepository
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
        INSERT INTO items (id, seller_id, category_id, title, description, item_condition, images,
            starting_price, min_increment, reserve_price, current_bid, highest_bidder_id,
            status, featured, auction_duration, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
    `
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.SellerID,
		item.CategoryID,
		item.Title,
		item.Description,
		item.Condition,
		item.Images,
		item.StartingPrice,
		item.MinIncrement,
		item.ReservePrice,
		item.CurrentBid,
		item.HighestBidderID,
		item.Status,
		item.Featured,
		item.AuctionDuration,
		item.StartDate,
		item.EndDate,
	)
	return err
}

// Update persists listing fields only, the bidding summary and status move
// exclusively through the conditional methods below
func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
        UPDATE items
        SET title = $2,
            description = $3,
            category_id = $4,
            item_condition = $5,
            images = $6,
            starting_price = $7,
            min_increment = $8,
            reserve_price = $9,
            featured = $10,
            auction_duration = $11,
            end_date = $12,
            updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.CategoryID,
		item.Condition,
		item.Images,
		item.StartingPrice,
		item.MinIncrement,
		item.ReservePrice,
		item.Featured,
		item.AuctionDuration,
		item.EndDate,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// ConditionalUpdateBid is the compare-and-swap behind the bid placement
// protocol: the UPDATE only lands if current_bid still equals the value the
// caller validated against and the item is still active
func (r *ItemRepository) ConditionalUpdateBid(ctx context.Context, id uuid.UUID, expectedCurrentBid, amount float64, bidderID uuid.UUID) error {
	query := `
        UPDATE items
        SET current_bid = $2,
            highest_bidder_id = $3,
            updated_at = NOW()
        WHERE id = $1 AND current_bid = $4 AND status = $5
    `
	tag, err := r.pool.Exec(ctx, query, id, amount, bidderID, expectedCurrentBid, domain.StatusActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPreconditionFailed
	}
	return nil
}

func (r *ItemRepository) ConditionalTransitionStatus(ctx context.Context, id uuid.UUID, expected, next domain.Status) error {
	query := `
        UPDATE items
        SET status = $2, updated_at = NOW()
        WHERE id = $1 AND status = $3
    `
	tag, err := r.pool.Exec(ctx, query, id, next, expected)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPreconditionFailed
	}
	return nil
}

func (r *ItemRepository) ListAll(ctx context.Context) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *ItemRepository) ListActive(ctx context.Context, now time.Time) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + `
        FROM items
        WHERE status = $1 AND end_date > $2
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, domain.StatusActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *ItemRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + `
        FROM items
        WHERE seller_id = $1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *ItemRepository) ListFeatured(ctx context.Context, limit int) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + `
        FROM items
        WHERE featured = TRUE AND status = $1
        ORDER BY created_at DESC
        LIMIT $2`
	rows, err := r.pool.Query(ctx, query, domain.StatusActive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *ItemRepository) ListExpired(ctx context.Context, now time.Time) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + `
        FROM items
        WHERE status = $1 AND end_date <= $2`
	rows, err := r.pool.Query(ctx, query, domain.StatusActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItem(row pgx.Row) (*domain.Item, error) {
	item := &domain.Item{}
	var highestBidder *uuid.UUID // pointer to handle NULL

	err := row.Scan(
		&item.ID,
		&item.SellerID,
		&item.CategoryID,
		&item.Title,
		&item.Description,
		&item.Condition,
		&item.Images,
		&item.StartingPrice,
		&item.MinIncrement,
		&item.ReservePrice,
		&item.CurrentBid,
		&highestBidder,
		&item.Status,
		&item.Featured,
		&item.AuctionDuration,
		&item.StartDate,
		&item.EndDate,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.HighestBidderID = highestBidder
	return item, nil
}

func scanItems(rows pgx.Rows) ([]*domain.Item, error) {
	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
