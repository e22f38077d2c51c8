package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/EcommerceGo/wishlist/internal/domain"
	pkgkafka "github.com/utafrali/EcommerceGo/wishlist/pkg/kafka"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/logger"
)

// Event types published by the wishlist service. The topic of each is
// pkgkafka.Topic(AggregateTypeWishlist, <suffix>).
const (
	TypeWishlistCreated = "wishlist.created"
	TypeItemUpserted    = "wishlist.item_upserted"
	TypeItemRemoved     = "wishlist.item_removed"
	TypeWishlistShared  = "wishlist.shared"
	TypeWishlistDeleted = "wishlist.deleted"
)

// Kafka topic constants for wishlist domain events.
var (
	TopicWishlistCreated = pkgkafka.Topic(AggregateTypeWishlist, "created")
	TopicItemUpserted    = pkgkafka.Topic(AggregateTypeWishlist, "item_upserted")
	TopicItemRemoved     = pkgkafka.Topic(AggregateTypeWishlist, "item_removed")
	TopicWishlistShared  = pkgkafka.Topic(AggregateTypeWishlist, "shared")
	TopicWishlistDeleted = pkgkafka.Topic(AggregateTypeWishlist, "deleted")
)

// AggregateTypeWishlist is the aggregate type of every wishlist event.
const AggregateTypeWishlist = "wishlist"

// SourceWishlistService identifies events originating from this service.
const SourceWishlistService = "wishlist-service"

// metadataCustomerID is the metadata key carrying the owning customer id.
const metadataCustomerID = "customer_id"

// WishlistData is the payload of created, shared and deleted events.
type WishlistData struct {
	WishlistID string `json:"wishlist_id"`
	CustomerID string `json:"customer_id"`
}

// ItemUpsertedData is the payload of an item_upserted event.
type ItemUpsertedData struct {
	WishlistID string                `json:"wishlist_id"`
	CustomerID string                `json:"customer_id"`
	Items      []domain.WishlistItem `json:"items"`
}

// ItemRemovedData is the payload of an item_removed event.
type ItemRemovedData struct {
	WishlistID       string `json:"wishlist_id"`
	CustomerID       string `json:"customer_id"`
	ProductID        string `json:"product_id"`
	ProductVariantID string `json:"product_variant_id"`
}

// Publisher is the transport events are handed to; *pkgkafka.Producer
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes wishlist domain events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer for the wishlist service.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishWishlistCreated publishes a wishlist.created event.
func (p *Producer) PublishWishlistCreated(ctx context.Context, customerID, wishlistID string) error {
	return p.publish(ctx, TopicWishlistCreated, TypeWishlistCreated, customerID, wishlistID,
		WishlistData{WishlistID: wishlistID, CustomerID: customerID})
}

// PublishItemUpserted publishes a wishlist.item_upserted event.
func (p *Producer) PublishItemUpserted(ctx context.Context, customerID, wishlistID string, items []domain.WishlistItem) error {
	return p.publish(ctx, TopicItemUpserted, TypeItemUpserted, customerID, wishlistID,
		ItemUpsertedData{WishlistID: wishlistID, CustomerID: customerID, Items: items})
}

// PublishItemRemoved publishes a wishlist.item_removed event.
func (p *Producer) PublishItemRemoved(ctx context.Context, customerID, wishlistID, productID, productVariantID string) error {
	return p.publish(ctx, TopicItemRemoved, TypeItemRemoved, customerID, wishlistID, ItemRemovedData{
		WishlistID:       wishlistID,
		CustomerID:       customerID,
		ProductID:        productID,
		ProductVariantID: productVariantID,
	})
}

// PublishWishlistShared publishes a wishlist.shared event. The token itself
// is never part of the payload.
func (p *Producer) PublishWishlistShared(ctx context.Context, customerID, wishlistID string) error {
	return p.publish(ctx, TopicWishlistShared, TypeWishlistShared, customerID, wishlistID,
		WishlistData{WishlistID: wishlistID, CustomerID: customerID})
}

// PublishWishlistDeleted publishes a wishlist.deleted event.
func (p *Producer) PublishWishlistDeleted(ctx context.Context, customerID, wishlistID string) error {
	return p.publish(ctx, TopicWishlistDeleted, TypeWishlistDeleted, customerID, wishlistID,
		WishlistData{WishlistID: wishlistID, CustomerID: customerID})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, customerID, wishlistID string, data any) error {
	event, err := pkgkafka.NewEvent(eventType, wishlistID, AggregateTypeWishlist, SourceWishlistService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	event.WithMetadata(metadataCustomerID, customerID)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published "+eventType+" event",
		slog.String("wishlist_id", wishlistID),
	)
	return nil
}
