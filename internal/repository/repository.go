package repository

import (
	"context"

	"github.com/utafrali/EcommerceGo/wishlist/internal/domain"
)

// WishlistRepository persists wishlists and their items.
type WishlistRepository interface {
	// Create inserts an empty wishlist.
	Create(ctx context.Context) (*domain.Wishlist, error)

	// AddOrUpdateItem overwrites the quantity of the item matching the
	// product and variant when the wishlist already holds the variant, and
	// inserts a new item otherwise. It returns the affected items.
	AddOrUpdateItem(ctx context.Context, wishlistID string, item domain.ItemInput) ([]domain.WishlistItem, error)

	// DeleteItem removes items matching the product and variant. Removing a
	// missing item is not an error.
	DeleteItem(ctx context.Context, wishlistID, productID, productVariantID string) error

	// GetByID returns the wishlist, loading its items when includeItems is set.
	GetByID(ctx context.Context, wishlistID string, includeItems bool) (*domain.Wishlist, error)

	// Delete removes the wishlist together with all of its items.
	Delete(ctx context.Context, wishlistID string) error
}

// CustomerWishlistRepository persists the customer to wishlist link.
type CustomerWishlistRepository interface {
	// GetWishlistID returns the id of the customer's wishlist, or a NotFound
	// error when the customer has none.
	GetWishlistID(ctx context.Context, customerID string) (string, error)

	// CreateWithWishlist atomically creates a wishlist and links it to the
	// customer. When a concurrent request linked one first, that wishlist's
	// id is returned with created set to false.
	CreateWithWishlist(ctx context.Context, customerID string) (wishlistID string, created bool, err error)

	// Delete removes the customer's link. Removing a missing link is not an error.
	Delete(ctx context.Context, customerID string) error
}

// LinkCache caches customer to wishlist ids in front of
// CustomerWishlistRepository.
type LinkCache interface {
	// Get returns the cached wishlist id or a NotFound error on a miss.
	Get(ctx context.Context, customerID string) (string, error)
	Set(ctx context.Context, customerID, wishlistID string) error
	Delete(ctx context.Context, customerID string) error
}
