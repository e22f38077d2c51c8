package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/EcommerceGo/wishlist/pkg/database"
	apperrors "github.com/utafrali/EcommerceGo/wishlist/pkg/errors"
)

// CustomerWishlistRepository implements repository.CustomerWishlistRepository
// using PostgreSQL. customer_id is the primary key of customer_wishlists, so
// a customer can own at most one wishlist. New wishlists are created through
// the wishlist store inside the linking transaction.
type CustomerWishlistRepository struct {
	db        database.DBTX
	wishlists *WishlistRepository
}

// NewCustomerWishlistRepository creates a new PostgreSQL-backed link repository.
func NewCustomerWishlistRepository(db database.DBTX, wishlists *WishlistRepository) *CustomerWishlistRepository {
	return &CustomerWishlistRepository{db: db, wishlists: wishlists}
}

// GetWishlistID returns the id of the wishlist linked to customerID.
func (r *CustomerWishlistRepository) GetWishlistID(ctx context.Context, customerID string) (_ string, err error) {
	query := `SELECT wishlist_id FROM customer_wishlists WHERE customer_id = $1`

	ctx, end := database.TraceQuery(ctx, "GetCustomerWishlist", query)
	defer func() { end(err) }()

	var wishlistID string
	if err := r.db.QueryRow(ctx, query, customerID).Scan(&wishlistID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("customer wishlist", customerID)
		}
		return "", fmt.Errorf("get customer wishlist: %w", err)
	}
	return wishlistID, nil
}

// CreateWithWishlist creates a wishlist and links it to customerID in one
// transaction. If another transaction linked a wishlist to the customer
// first, nothing is written and the existing link is returned instead.
func (r *CustomerWishlistRepository) CreateWithWishlist(ctx context.Context, customerID string) (_ string, _ bool, err error) {
	linkQuery := `
		INSERT INTO customer_wishlists (customer_id, wishlist_id)
		VALUES ($1, $2)
		ON CONFLICT (customer_id) DO NOTHING`

	traceCtx, end := database.TraceQuery(ctx, "CreateCustomerWishlist", linkQuery)
	defer func() { end(err) }()

	tx, err := r.db.Begin(traceCtx)
	if err != nil {
		return "", false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(traceCtx) }()

	wishlist, err := r.wishlists.createIn(traceCtx, tx)
	if err != nil {
		return "", false, err
	}
	wishlistID := wishlist.ID

	ct, err := tx.Exec(traceCtx, linkQuery, customerID, wishlistID)
	if err != nil {
		return "", false, fmt.Errorf("link customer wishlist: %w", err)
	}

	if ct.RowsAffected() == 0 {
		// Lost the race: drop our wishlist and use the winner's.
		if err := tx.Rollback(traceCtx); err != nil {
			return "", false, fmt.Errorf("rollback transaction: %w", err)
		}
		existing, err := r.GetWishlistID(ctx, customerID)
		if err != nil {
			return "", false, err
		}
		return existing, false, nil
	}

	if err := tx.Commit(traceCtx); err != nil {
		return "", false, fmt.Errorf("commit transaction: %w", err)
	}
	return wishlistID, true, nil
}

// Delete removes the link of customerID. A missing link is not an error.
func (r *CustomerWishlistRepository) Delete(ctx context.Context, customerID string) (err error) {
	query := `DELETE FROM customer_wishlists WHERE customer_id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteCustomerWishlist", query)
	defer func() { end(err) }()

	if _, err := r.db.Exec(ctx, query, customerID); err != nil {
		return fmt.Errorf("delete customer wishlist: %w", err)
	}
	return nil
}
