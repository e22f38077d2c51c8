package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/EcommerceGo/wishlist/internal/domain"
	"github.com/utafrali/EcommerceGo/wishlist/internal/repository"
	apperrors "github.com/utafrali/EcommerceGo/wishlist/pkg/errors"
)

var (
	// ErrCustomerRequired is returned when an operation that acts on the
	// caller's wishlist runs without a resolvable customer id.
	ErrCustomerRequired = apperrors.Unprocessable("CUSTOMER_REQUIRED", "a customer is required for this operation")

	// ErrNothingToShare is returned when a share token is requested by a
	// customer without a wishlist.
	ErrNothingToShare = apperrors.Unprocessable("WISHLIST_NOT_FOUND", "customer has no wishlist to share")

	// ErrInvalidShareToken is returned for every failed read by share token.
	// It never says whether the token was malformed or merely unknown.
	ErrInvalidShareToken = apperrors.Unprocessable("INVALID_TOKEN", "share token is invalid")
)

// EventPublisher publishes wishlist domain events.
type EventPublisher interface {
	PublishWishlistCreated(ctx context.Context, customerID, wishlistID string) error
	PublishItemUpserted(ctx context.Context, customerID, wishlistID string, items []domain.WishlistItem) error
	PublishItemRemoved(ctx context.Context, customerID, wishlistID, productID, productVariantID string) error
	PublishWishlistShared(ctx context.Context, customerID, wishlistID string) error
	PublishWishlistDeleted(ctx context.Context, customerID, wishlistID string) error
}

// TokenCodec issues and verifies share tokens.
type TokenCodec interface {
	Issue(customerID string) (string, error)
	Verify(token string) (string, error)
}

// WishlistService implements the business logic of customer wishlists.
type WishlistService struct {
	wishlists repository.WishlistRepository
	links     repository.CustomerWishlistRepository
	cache     repository.LinkCache
	tokens    TokenCodec
	events    EventPublisher
	logger    *slog.Logger
}

// NewWishlistService creates a new wishlist service. cache may be nil, in
// which case every link lookup goes to the link repository.
func NewWishlistService(
	wishlists repository.WishlistRepository,
	links repository.CustomerWishlistRepository,
	cache repository.LinkCache,
	tokens TokenCodec,
	events EventPublisher,
	logger *slog.Logger,
) *WishlistService {
	return &WishlistService{
		wishlists: wishlists,
		links:     links,
		cache:     cache,
		tokens:    tokens,
		events:    events,
		logger:    logger,
	}
}

// FindForCustomer returns the id of the customer's wishlist without creating
// one. It fails with a NotFound error when the customer has none.
func (s *WishlistService) FindForCustomer(ctx context.Context, customerID string) (string, error) {
	id, _, err := s.lookupWishlistID(ctx, customerID, true)
	return id, err
}

// GetOrCreateForCustomer returns the id of the customer's wishlist, creating
// and linking an empty one on first use. Repeated calls for the same
// customer return the same id.
func (s *WishlistService) GetOrCreateForCustomer(ctx context.Context, customerID string) (string, error) {
	id, _, err := s.resolveWishlistID(ctx, customerID, true, true)
	return id, err
}

// AddItem stores an item in the customer's wishlist, creating the wishlist
// if needed. An item already present for the variant has its quantity
// overwritten. It returns the wishlist with its items.
func (s *WishlistService) AddItem(ctx context.Context, customerID string, in domain.ItemInput) (*domain.Wishlist, error) {
	if customerID == "" {
		return nil, ErrCustomerRequired
	}
	if in.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if in.ProductVariantID == "" {
		return nil, apperrors.InvalidInput("product variant id is required")
	}
	if in.Quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	var items []domain.WishlistItem
	wishlistID, err := s.withWishlist(ctx, customerID, true, func(id string) error {
		var err error
		if items, err = s.wishlists.AddOrUpdateItem(ctx, id, in); err != nil {
			return fmt.Errorf("add wishlist item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	itemsUpserted.Inc()

	if err := s.events.PublishItemUpserted(ctx, customerID, wishlistID, items); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.item_upserted event",
			slog.String("wishlist_id", wishlistID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "wishlist item saved",
		slog.String("wishlist_id", wishlistID),
		slog.String("product_id", in.ProductID),
		slog.String("product_variant_id", in.ProductVariantID),
		slog.Int("quantity", in.Quantity),
	)

	return s.loadWishlist(ctx, wishlistID)
}

// RemoveItem removes an item from the customer's wishlist. A customer
// without a wishlist gets a nil wishlist and no error; no wishlist is
// created. Removing an absent item is not an error.
func (s *WishlistService) RemoveItem(ctx context.Context, customerID, productID, productVariantID string) (*domain.Wishlist, error) {
	if productID == "" || productVariantID == "" {
		return nil, apperrors.InvalidInput("product id and product variant id are required")
	}

	var wishlist *domain.Wishlist
	wishlistID, err := s.withWishlist(ctx, customerID, false, func(id string) error {
		if err := s.wishlists.DeleteItem(ctx, id, productID, productVariantID); err != nil {
			return fmt.Errorf("remove wishlist item: %w", err)
		}
		var err error
		wishlist, err = s.loadWishlist(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.events.PublishItemRemoved(ctx, customerID, wishlistID, productID, productVariantID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.item_removed event",
			slog.String("wishlist_id", wishlistID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "wishlist item removed",
		slog.String("wishlist_id", wishlistID),
		slog.String("product_id", productID),
		slog.String("product_variant_id", productVariantID),
	)

	return wishlist, nil
}

// IssueShareToken returns a token granting read access to the customer's
// wishlist. The customer must already have a wishlist.
func (s *WishlistService) IssueShareToken(ctx context.Context, customerID string) (string, error) {
	wishlistID, err := s.withWishlist(ctx, customerID, false, func(id string) error {
		if _, err := s.wishlists.GetByID(ctx, id, false); err != nil {
			return fmt.Errorf("get wishlist: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", ErrNothingToShare
		}
		return "", err
	}

	token, err := s.tokens.Issue(customerID)
	if err != nil {
		return "", fmt.Errorf("issue share token: %w", err)
	}
	shareTokensIssued.Inc()

	if err := s.events.PublishWishlistShared(ctx, customerID, wishlistID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.shared event",
			slog.String("wishlist_id", wishlistID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "wishlist share token issued",
		slog.String("wishlist_id", wishlistID),
	)

	return token, nil
}

// GetShared returns the wishlist, with items, of the customer a share token
// was issued for. Every failure that depends on the token fails with
// ErrInvalidShareToken.
func (s *WishlistService) GetShared(ctx context.Context, token string) (*domain.Wishlist, error) {
	customerID, err := s.tokens.Verify(token)
	if err != nil {
		sharedReads.WithLabelValues(sharedReadInvalidToken).Inc()
		return nil, ErrInvalidShareToken
	}

	var wishlist *domain.Wishlist
	_, err = s.withWishlist(ctx, customerID, false, func(id string) error {
		var err error
		wishlist, err = s.loadWishlist(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			sharedReads.WithLabelValues(sharedReadNoWishlist).Inc()
			return nil, ErrInvalidShareToken
		}
		sharedReads.WithLabelValues(sharedReadError).Inc()
		return nil, fmt.Errorf("get shared wishlist: %w", err)
	}

	sharedReads.WithLabelValues(sharedReadOK).Inc()
	return wishlist, nil
}

// GetForCustomer returns the customer's wishlist with items, or nil when the
// customer has none. No wishlist is created.
func (s *WishlistService) GetForCustomer(ctx context.Context, customerID string) (*domain.Wishlist, error) {
	var wishlist *domain.Wishlist
	_, err := s.withWishlist(ctx, customerID, false, func(id string) error {
		var err error
		wishlist, err = s.loadWishlist(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return wishlist, nil
}

// DeleteForCustomer deletes the customer's wishlist with all of its items
// and drops the customer link. Deleting when there is no wishlist is not an
// error.
func (s *WishlistService) DeleteForCustomer(ctx context.Context, customerID string) error {
	wishlistID, err := s.withWishlist(ctx, customerID, false, func(id string) error {
		if err := s.wishlists.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete wishlist: %w", err)
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound) && wishlistID == "":
		return nil
	case errors.Is(err, apperrors.ErrNotFound):
		// The link outlived its wishlist row; it is still dropped below.
	default:
		return err
	}

	if err := s.links.Delete(ctx, customerID); err != nil {
		return fmt.Errorf("delete wishlist link: %w", err)
	}
	s.forgetLink(ctx, customerID)

	if err := s.events.PublishWishlistDeleted(ctx, customerID, wishlistID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.deleted event",
			slog.String("wishlist_id", wishlistID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "wishlist deleted",
		slog.String("customer_id", customerID),
		slog.String("wishlist_id", wishlistID),
	)

	return nil
}

// withWishlist resolves the customer's wishlist and runs fn against it. When
// fn reports the wishlist as missing and its id came from the link cache,
// the cache entry is dropped and fn runs once more against the id held in
// storage. The returned id is empty only when no wishlist could be resolved.
func (s *WishlistService) withWishlist(ctx context.Context, customerID string, create bool, fn func(wishlistID string) error) (string, error) {
	wishlistID, cached, err := s.resolveWishlistID(ctx, customerID, create, true)
	if err != nil {
		return "", err
	}

	err = fn(wishlistID)
	if err == nil || !cached || !errors.Is(err, apperrors.ErrNotFound) {
		return wishlistID, err
	}

	s.logger.WarnContext(ctx, "cached wishlist link is stale",
		slog.String("customer_id", customerID),
		slog.String("wishlist_id", wishlistID),
	)
	s.forgetLink(ctx, customerID)

	if wishlistID, _, err = s.resolveWishlistID(ctx, customerID, create, false); err != nil {
		return "", err
	}
	return wishlistID, fn(wishlistID)
}

// resolveWishlistID looks up the customer's wishlist id, creating a wishlist
// when create is set and none is linked. The boolean reports whether the id
// was served from the link cache.
func (s *WishlistService) resolveWishlistID(ctx context.Context, customerID string, create, useCache bool) (string, bool, error) {
	id, cached, err := s.lookupWishlistID(ctx, customerID, useCache)
	if err == nil || !create || !errors.Is(err, apperrors.ErrNotFound) {
		return id, cached, err
	}

	id, created, err := s.links.CreateWithWishlist(ctx, customerID)
	if err != nil {
		return "", false, fmt.Errorf("create wishlist for customer: %w", err)
	}
	s.cacheLink(ctx, customerID, id)

	if created {
		if err := s.events.PublishWishlistCreated(ctx, customerID, id); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish wishlist.created event",
				slog.String("wishlist_id", id),
				slog.String("error", err.Error()),
			)
		}
		s.logger.InfoContext(ctx, "wishlist created",
			slog.String("customer_id", customerID),
			slog.String("wishlist_id", id),
		)
	}

	return id, false, nil
}

func (s *WishlistService) lookupWishlistID(ctx context.Context, customerID string, useCache bool) (string, bool, error) {
	if customerID == "" {
		return "", false, ErrCustomerRequired
	}

	if useCache {
		if id, ok := s.cachedLink(ctx, customerID); ok {
			return id, true, nil
		}
	}

	id, err := s.links.GetWishlistID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", false, err
		}
		return "", false, fmt.Errorf("find wishlist for customer: %w", err)
	}

	s.cacheLink(ctx, customerID, id)
	return id, false, nil
}

func (s *WishlistService) loadWishlist(ctx context.Context, wishlistID string) (*domain.Wishlist, error) {
	wishlist, err := s.wishlists.GetByID(ctx, wishlistID, true)
	if err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	return wishlist, nil
}

func (s *WishlistService) cachedLink(ctx context.Context, customerID string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	id, err := s.cache.Get(ctx, customerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "wishlist link cache read failed",
				slog.String("error", err.Error()),
			)
		}
		return "", false
	}
	return id, true
}

func (s *WishlistService) cacheLink(ctx context.Context, customerID, wishlistID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, customerID, wishlistID); err != nil {
		s.logger.WarnContext(ctx, "wishlist link cache write failed",
			slog.String("error", err.Error()),
		)
	}
}

func (s *WishlistService) forgetLink(ctx context.Context, customerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, customerID); err != nil {
		s.logger.WarnContext(ctx, "wishlist link cache delete failed",
			slog.String("error", err.Error()),
		)
	}
}
