package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/EcommerceGo/wishlist/internal/domain"
	"github.com/utafrali/EcommerceGo/wishlist/internal/service"
	apperrors "github.com/utafrali/EcommerceGo/wishlist/pkg/errors"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/httputil"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/middleware"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request / response DTOs ---

// AddItemRequest is the JSON request body for adding an item to a wishlist.
type AddItemRequest struct {
	ProductID        string `json:"product_id" validate:"required,max=255"`
	ProductVariantID string `json:"product_variant_id" validate:"required,max=255"`
	Quantity         int    `json:"quantity" validate:"required,gte=1,lte=1000"`
}

// wishlistResponse renders as {} when the caller has no wishlist.
type wishlistResponse struct {
	Wishlist *domain.Wishlist `json:"wishlist,omitempty"`
}

type shareTokenResponse struct {
	SharedToken string `json:"shared_token"`
}

// --- Handlers ---

// GetMine handles GET /store/customers/me/wishlists
func (h *WishlistHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	wishlist, err := h.service.GetForCustomer(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, wishlistResponse{Wishlist: wishlist})
}

// DeleteMine handles DELETE /store/customers/me/wishlists
func (h *WishlistHandler) DeleteMine(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteForCustomer(r.Context(), middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, wishlistResponse{})
}

// AddItem handles POST /store/customers/me/wishlists/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	wishlist, err := h.service.AddItem(r.Context(), middleware.UserIDFromContext(r.Context()), domain.ItemInput{
		ProductID:        req.ProductID,
		ProductVariantID: req.ProductVariantID,
		Quantity:         req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, wishlistResponse{Wishlist: wishlist})
}

// RemoveItem handles DELETE /store/customers/me/wishlists/items?product_id=&product_variant_id=
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productID := q.Get("product_id")
	productVariantID := q.Get("product_variant_id")
	if productID == "" || productVariantID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("product_id and product_variant_id query parameters are required"), h.logger)
		return
	}

	wishlist, err := h.service.RemoveItem(r.Context(), middleware.UserIDFromContext(r.Context()), productID, productVariantID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, wishlistResponse{Wishlist: wishlist})
}

// IssueShareToken handles POST /store/customers/me/wishlists/share-token
func (h *WishlistHandler) IssueShareToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.IssueShareToken(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, shareTokenResponse{SharedToken: token})
}

// GetShared handles GET /store/wishlists?token=
func (h *WishlistHandler) GetShared(w http.ResponseWriter, r *http.Request) {
	wishlist, err := h.service.GetShared(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, wishlistResponse{Wishlist: wishlist})
}
