package domain

import "time"

// Wishlist is a customer's saved-for-later list. It exists independently of
// any customer link; Items is only populated when explicitly loaded.
type Wishlist struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Items     []WishlistItem `json:"items"`
}

// WishlistItem is one product variant saved in a wishlist.
type WishlistItem struct {
	ID               string    `json:"id"`
	WishlistID       string    `json:"wishlist_id"`
	ProductID        string    `json:"product_id"`
	ProductVariantID string    `json:"product_variant_id"`
	Quantity         int       `json:"quantity"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ItemInput selects an item by product and variant and carries the quantity
// to store. Quantity overwrites, it never accumulates.
type ItemInput struct {
	ProductID        string
	ProductVariantID string
	Quantity         int
}

// CustomerWishlist links a customer of the identity service to the one
// wishlist they own.
type CustomerWishlist struct {
	CustomerID string    `json:"customer_id"`
	WishlistID string    `json:"wishlist_id"`
	CreatedAt  time.Time `json:"created_at"`
}
