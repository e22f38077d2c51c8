package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/EcommerceGo/wishlist/internal/domain"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/database"
	apperrors "github.com/utafrali/EcommerceGo/wishlist/pkg/errors"
)

const itemColumns = `id, wishlist_id, product_id, product_variant_id, quantity, created_at, updated_at`

// WishlistRepository implements repository.WishlistRepository using PostgreSQL.
type WishlistRepository struct {
	db database.DBTX
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(db database.DBTX) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Create inserts an empty wishlist.
func (r *WishlistRepository) Create(ctx context.Context) (*domain.Wishlist, error) {
	return r.createIn(ctx, r.db)
}

// createIn inserts an empty wishlist through q, which is either the pool or a
// transaction owned by the caller.
func (r *WishlistRepository) createIn(ctx context.Context, q database.Querier) (_ *domain.Wishlist, err error) {
	query := `INSERT INTO wishlists (id) VALUES ($1) RETURNING created_at`

	ctx, end := database.TraceQuery(ctx, "CreateWishlist", query)
	defer func() { end(err) }()

	w := &domain.Wishlist{ID: uuid.NewString()}
	if err := q.QueryRow(ctx, query, w.ID).Scan(&w.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert wishlist: %w", err)
	}
	return w, nil
}

// AddOrUpdateItem locks the wishlist row, then either overwrites the quantity
// of the item matching product and variant or inserts a new item. The
// insert-or-update decision looks at the variant id alone, so a variant
// already saved under another product takes the update branch, and that
// update matches nothing.
//
// Both the existence check and the update are limited to wishlistID. This
// deliberately departs from a global variant check, under which a variant
// saved by one customer would decide the branch taken for everyone else and
// block their inserts.
func (r *WishlistRepository) AddOrUpdateItem(ctx context.Context, wishlistID string, in domain.ItemInput) (_ []domain.WishlistItem, err error) {
	lockQuery := `SELECT id FROM wishlists WHERE id = $1 FOR UPDATE`
	existsQuery := `
		SELECT EXISTS(
			SELECT 1 FROM wishlist_items
			WHERE wishlist_id = $1 AND product_variant_id = $2
		)`
	updateQuery := `
		UPDATE wishlist_items
		SET quantity = $4, updated_at = NOW()
		WHERE wishlist_id = $1 AND product_id = $2 AND product_variant_id = $3
		RETURNING ` + itemColumns
	insertQuery := `
		INSERT INTO wishlist_items (id, wishlist_id, product_id, product_variant_id, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + itemColumns

	ctx, end := database.TraceQuery(ctx, "AddOrUpdateWishlistItem", existsQuery)
	defer func() { end(err) }()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lockedID string
	if err := tx.QueryRow(ctx, lockQuery, wishlistID).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("wishlist", wishlistID)
		}
		return nil, fmt.Errorf("lock wishlist: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, existsQuery, wishlistID, in.ProductVariantID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check wishlist item exists: %w", err)
	}

	var rows pgx.Rows
	if exists {
		rows, err = tx.Query(ctx, updateQuery, wishlistID, in.ProductID, in.ProductVariantID, in.Quantity)
	} else {
		rows, err = tx.Query(ctx, insertQuery, uuid.NewString(), wishlistID, in.ProductID, in.ProductVariantID, in.Quantity)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("wishlist item", "product_variant_id", in.ProductVariantID)
		}
		return nil, fmt.Errorf("upsert wishlist item: %w", err)
	}

	items, err := collectItems(rows)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("wishlist item", "product_variant_id", in.ProductVariantID)
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return items, nil
}

// DeleteItem removes the items of the wishlist matching product and variant.
func (r *WishlistRepository) DeleteItem(ctx context.Context, wishlistID, productID, productVariantID string) (err error) {
	query := `
		DELETE FROM wishlist_items
		WHERE wishlist_id = $1 AND product_id = $2 AND product_variant_id = $3`

	ctx, end := database.TraceQuery(ctx, "DeleteWishlistItem", query)
	defer func() { end(err) }()

	if _, err := r.db.Exec(ctx, query, wishlistID, productID, productVariantID); err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}

// GetByID retrieves a wishlist, with its items ordered by creation when
// includeItems is set.
func (r *WishlistRepository) GetByID(ctx context.Context, wishlistID string, includeItems bool) (_ *domain.Wishlist, err error) {
	query := `SELECT id, created_at FROM wishlists WHERE id = $1`
	itemsQuery := `
		SELECT ` + itemColumns + `
		FROM wishlist_items
		WHERE wishlist_id = $1
		ORDER BY created_at, id`

	ctx, end := database.TraceQuery(ctx, "GetWishlist", query)
	defer func() { end(err) }()

	var w domain.Wishlist
	if err := r.db.QueryRow(ctx, query, wishlistID).Scan(&w.ID, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("wishlist", wishlistID)
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	if !includeItems {
		return &w, nil
	}

	rows, err := r.db.Query(ctx, itemsQuery, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist items: %w", err)
	}
	if w.Items, err = collectItems(rows); err != nil {
		return nil, err
	}
	return &w, nil
}

// Delete removes the wishlist and all of its items in one transaction.
func (r *WishlistRepository) Delete(ctx context.Context, wishlistID string) (err error) {
	itemsQuery := `DELETE FROM wishlist_items WHERE wishlist_id = $1`
	query := `DELETE FROM wishlists WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteWishlist", query)
	defer func() { end(err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, itemsQuery, wishlistID); err != nil {
		return fmt.Errorf("delete wishlist items: %w", err)
	}

	ct, err := tx.Exec(ctx, query, wishlistID)
	if err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("wishlist", wishlistID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// collectItems scans and closes rows. It never returns a nil slice on success.
func collectItems(rows pgx.Rows) ([]domain.WishlistItem, error) {
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		var it domain.WishlistItem
		if err := rows.Scan(
			&it.ID,
			&it.WishlistID,
			&it.ProductID,
			&it.ProductVariantID,
			&it.Quantity,
			&it.CreatedAt,
			&it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist item rows: %w", err)
	}
	return items, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
