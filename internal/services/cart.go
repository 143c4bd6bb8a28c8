package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
	"github.com/yungbote/storefront-backend/internal/requestdata"
	"github.com/yungbote/storefront-backend/internal/types"
)

// CartService is the cart/checkout workflow. Stock is checked on every
// mutation but never decremented; the check is advisory, not a reservation.
type CartService interface {
	GetActiveCart(ctx context.Context) (*types.Cart, error)
	AddItem(ctx context.Context, productID uuid.UUID, quantity int) (*types.Cart, error)
	UpdateItem(ctx context.Context, productID uuid.UUID, quantity int) (*types.Cart, error)
	RemoveItem(ctx context.Context, productID uuid.UUID) (*types.Cart, error)
	ClearCart(ctx context.Context) (*types.Cart, error)
	Checkout(ctx context.Context, address string) (*types.Order, error)
}

type cartService struct {
	db          *gorm.DB
	log         *logger.Logger
	cartRepo    repos.CartRepo
	productRepo repos.ProductRepo
	orderRepo   repos.OrderRepo
}

func NewCartService(db *gorm.DB, log *logger.Logger, cartRepo repos.CartRepo, productRepo repos.ProductRepo, orderRepo repos.OrderRepo) CartService {
	serviceLog := log.With("service", "CartService")
	return &cartService{
		db:          db,
		log:         serviceLog,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (cs *cartService) GetActiveCart(ctx context.Context) (*types.Cart, error) {
	userID, err := cs.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}
	var out *types.Cart
	if err := runInTx(ctx, cs.db, func(tx *gorm.DB) error {
		cart, rErr := cs.resolveActiveCart(ctx, tx, userID, true)
		if rErr != nil {
			return rErr
		}
		out = cart
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *cartService) AddItem(ctx context.Context, productID uuid.UUID, quantity int) (*types.Cart, error) {
	userID, err := cs.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	var out *types.Cart
	if err := runInTx(ctx, cs.db, func(tx *gorm.DB) error {
		cart, rErr := cs.resolveActiveCart(ctx, tx, userID, false)
		if rErr != nil {
			return rErr
		}
		for _, item := range cart.Items {
			if item.ProductID == productID {
				return ErrDuplicateItem
			}
		}
		product, pErr := cs.fetchProduct(ctx, tx, productID)
		if pErr != nil {
			return pErr
		}
		if product.Stock < quantity {
			return ErrInsufficientStock
		}
		item := &types.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: product.ID,
			UnitPrice: product.Price,
			Quantity:  quantity,
		}
		if aErr := cs.cartRepo.AddItem(ctx, tx, item); aErr != nil {
			return fmt.Errorf("failed to add cart item: %w", aErr)
		}
		total := recomputeTotal(append(cart.Items, *item))
		if tErr := cs.cartRepo.UpdateTotalAmount(ctx, tx, cart.ID, total); tErr != nil {
			return fmt.Errorf("failed to update cart total: %w", tErr)
		}
		populated, gErr := cs.cartRepo.GetActiveByUserID(ctx, tx, userID, true)
		if gErr != nil {
			return gErr
		}
		out = normalizeCart(populated)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *cartService) UpdateItem(ctx context.Context, productID uuid.UUID, quantity int) (*types.Cart, error) {
	userID, err := cs.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	var out *types.Cart
	if err := runInTx(ctx, cs.db, func(tx *gorm.DB) error {
		cart, rErr := cs.resolveActiveCart(ctx, tx, userID, false)
		if rErr != nil {
			return rErr
		}
		existing := findItem(cart.Items, productID)
		if existing == nil {
			return ErrItemNotInCart
		}
		product, pErr := cs.fetchProduct(ctx, tx, productID)
		if pErr != nil {
			return pErr
		}
		if product.Stock < quantity {
			return ErrInsufficientStock
		}
		if uErr := cs.cartRepo.UpdateItemQuantity(ctx, tx, existing.ID, quantity); uErr != nil {
			return fmt.Errorf("failed to update cart item: %w", uErr)
		}
		existing.Quantity = quantity
		if tErr := cs.cartRepo.UpdateTotalAmount(ctx, tx, cart.ID, recomputeTotal(cart.Items)); tErr != nil {
			return fmt.Errorf("failed to update cart total: %w", tErr)
		}
		populated, gErr := cs.cartRepo.GetActiveByUserID(ctx, tx, userID, true)
		if gErr != nil {
			return gErr
		}
		out = normalizeCart(populated)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *cartService) RemoveItem(ctx context.Context, productID uuid.UUID) (*types.Cart, error) {
	userID, err := cs.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}
	var out *types.Cart
	if err := runInTx(ctx, cs.db, func(tx *gorm.DB) error {
		cart, rErr := cs.resolveActiveCart(ctx, tx, userID, false)
		if rErr != nil {
			return rErr
		}
		existing := findItem(cart.Items, productID)
		if existing == nil {
			return ErrItemNotInCart
		}
		if dErr := cs.cartRepo.DeleteItem(ctx, tx, existing.ID); dErr != nil {
			return fmt.Errorf("failed to delete cart item: %w", dErr)
		}
		remaining := make([]types.CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.ProductID != productID {
				remaining = append(remaining, item)
			}
		}
		if tErr := cs.cartRepo.UpdateTotalAmount(ctx, tx, cart.ID, recomputeTotal(remaining)); tErr != nil {
			return fmt.Errorf("failed to update cart total: %w", tErr)
		}
		populated, gErr := cs.cartRepo.GetActiveByUserID(ctx, tx, userID, true)
		if gErr != nil {
			return gErr
		}
		out = normalizeCart(populated)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *cartService) ClearCart(ctx context.Context) (*types.Cart, error) {
	userID, err := cs.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}
	var out *types.Cart
	if err := runInTx(ctx, cs.db, func(tx *gorm.DB) error {
		cart, rErr := cs.resolveActiveCart(ctx, tx, userID, false)
		if rErr != nil {
			return rErr
		}
		if dErr := cs.cartRepo.DeleteItemsByCartID(ctx, tx, cart.ID); dErr != nil {
			return fmt.Errorf("failed to clear cart items: %w", dErr)
		}
		if tErr := cs.cartRepo.UpdateTotalAmount(ctx, tx, cart.ID, 0); tErr != nil {
			return fmt.Errorf("failed to update cart total: %w", tErr)
		}
		populated, gErr := cs.cartRepo.GetActiveByUserID(ctx, tx, userID, true)
		if gErr != nil {
			return gErr
		}
		out = normalizeCart(populated)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Checkout validates every line item against current catalog state before
// writing anything, then creates the order snapshot and retires the cart in
// one transaction.
func (cs *cartService) Checkout(ctx context.Context, address string) (*types.Order, error) {
	userID, err := cs.resolveUserID(ctx)
	if err != nil {
		return nil, err
	}
	address = strings.TrimSpace(address)
	var out *types.Order
	if err := runInTx(ctx, cs.db, func(tx *gorm.DB) error {
		cart, rErr := cs.resolveActiveCart(ctx, tx, userID, false)
		if rErr != nil {
			return rErr
		}
		if address == "" {
			return ErrAddressRequired
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		productIDs := make([]uuid.UUID, 0, len(cart.Items))
		for _, item := range cart.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		products, pErr := cs.productRepo.GetByIDs(ctx, tx, productIDs)
		if pErr != nil {
			return fmt.Errorf("error fetching products for checkout: %w", pErr)
		}
		byID := make(map[uuid.UUID]*types.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		orderItems := make([]types.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			product, ok := byID[item.ProductID]
			if !ok {
				return ErrProductNotFound
			}
			if product.Stock < item.Quantity {
				return errInsufficientStockFor(product.Title)
			}
			orderItems = append(orderItems, types.OrderItem{
				ID:           uuid.New(),
				Position:     len(orderItems),
				ProductTitle: product.Title,
				ProductImage: product.Image,
				UnitPrice:    item.UnitPrice,
				Quantity:     item.Quantity,
			})
		}

		order := &types.Order{
			ID:      uuid.New(),
			UserID:  userID,
			Items:   orderItems,
			Total:   cart.TotalAmount,
			Address: address,
		}
		if _, oErr := cs.orderRepo.Create(ctx, tx, []*types.Order{order}); oErr != nil {
			return fmt.Errorf("failed to create order: %w", oErr)
		}
		if sErr := cs.cartRepo.UpdateStatus(ctx, tx, cart.ID, types.CartStatusCompleted); sErr != nil {
			return fmt.Errorf("failed to complete cart: %w", sErr)
		}
		out = order
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *cartService) resolveUserID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, ErrUnauthorized
	}
	return rd.UserID, nil
}

// resolveActiveCart is the lazy find-or-create. Creation races land on the
// partial unique index and lose silently, so the re-read always returns the
// single active cart.
func (cs *cartService) resolveActiveCart(ctx context.Context, tx *gorm.DB, userID uuid.UUID, populateProducts bool) (*types.Cart, error) {
	cart, err := cs.cartRepo.GetActiveByUserID(ctx, tx, userID, populateProducts)
	if err != nil {
		return nil, fmt.Errorf("error fetching active cart: %w", err)
	}
	if cart != nil {
		return normalizeCart(cart), nil
	}
	fresh := &types.Cart{
		ID:          uuid.New(),
		UserID:      userID,
		Status:      types.CartStatusActive,
		TotalAmount: 0,
	}
	if cErr := cs.cartRepo.CreateActive(ctx, tx, fresh); cErr != nil {
		return nil, fmt.Errorf("error creating active cart: %w", cErr)
	}
	cart, err = cs.cartRepo.GetActiveByUserID(ctx, tx, userID, populateProducts)
	if err != nil {
		return nil, fmt.Errorf("error re-fetching active cart: %w", err)
	}
	if cart == nil {
		return nil, fmt.Errorf("active cart missing after create")
	}
	return normalizeCart(cart), nil
}

func (cs *cartService) fetchProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.Product, error) {
	products, err := cs.productRepo.GetByIDs(ctx, tx, []uuid.UUID{productID})
	if err != nil {
		return nil, fmt.Errorf("error fetching product: %w", err)
	}
	if len(products) == 0 || products[0] == nil {
		return nil, ErrProductNotFound
	}
	return products[0], nil
}

func findItem(items []types.CartItem, productID uuid.UUID) *types.CartItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}

func recomputeTotal(items []types.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

func normalizeCart(cart *types.Cart) *types.Cart {
	if cart != nil && cart.Items == nil {
		cart.Items = []types.CartItem{}
	}
	return cart
}
