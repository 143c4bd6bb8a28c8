package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/apierr"
)

// Business-rule violations surfaced to the caller as status + message. None
// are logged as exceptional; persistence failures propagate opaque instead.
var (
	ErrUnauthorized       = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("request data not set in context"))
	ErrInvalidCredentials = apierr.New(http.StatusBadRequest, "invalid_credentials", errors.New("incorrect email or password"))
	ErrDuplicateItem      = apierr.New(http.StatusBadRequest, "duplicate_item", errors.New("product already in cart"))
	ErrProductNotFound    = apierr.New(http.StatusNotFound, "product_not_found", errors.New("product not found"))
	ErrInsufficientStock  = apierr.New(http.StatusBadRequest, "insufficient_stock", errors.New("insufficient stock"))
	ErrItemNotInCart      = apierr.New(http.StatusNotFound, "item_not_in_cart", errors.New("product not in cart"))
	ErrInvalidQuantity    = apierr.New(http.StatusBadRequest, "invalid_quantity", errors.New("quantity must be at least 1"))
	ErrAddressRequired    = apierr.New(http.StatusBadRequest, "address_required", errors.New("address is required for checkout"))
	ErrEmptyCart          = apierr.New(http.StatusBadRequest, "empty_cart", errors.New("cart is empty"))
)

func errInsufficientStockFor(title string) *apierr.Error {
	return apierr.New(http.StatusBadRequest, "insufficient_stock", fmt.Errorf("insufficient stock for product %s", title))
}

// runInTx wraps fn in a gorm transaction. Repos accept a nil tx and fall back
// to their own handle, so a nil db (unit tests with fake repos) runs fn
// directly.
func runInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
