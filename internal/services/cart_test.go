package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/apierr"
	"github.com/yungbote/storefront-backend/internal/logger"
	"github.com/yungbote/storefront-backend/internal/requestdata"
	"github.com/yungbote/storefront-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

type cartFixture struct {
	service     CartService
	cartRepo    *fakeCartRepo
	productRepo *fakeProductRepo
	orderRepo   *fakeOrderRepo
	ctx         context.Context
	userID      uuid.UUID
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	productRepo := &fakeProductRepo{}
	cartRepo := &fakeCartRepo{products: productRepo}
	orderRepo := &fakeOrderRepo{}
	userID := uuid.New()
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
		Email:  "shopper@example.com",
	})
	return &cartFixture{
		service:     NewCartService(nil, testLogger(t), cartRepo, productRepo, orderRepo),
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		ctx:         ctx,
		userID:      userID,
	}
}

func (f *cartFixture) seedProduct(t *testing.T, title string, price float64, stock int) uuid.UUID {
	t.Helper()
	p := &types.Product{ID: uuid.New(), Title: title, Image: title + ".png", Price: price, Stock: stock}
	f.productRepo.products = append(f.productRepo.products, p)
	return p.ID
}

func assertTotalMatchesItems(t *testing.T, cart *types.Cart) {
	t.Helper()
	var want float64
	for _, item := range cart.Items {
		want += item.UnitPrice * float64(item.Quantity)
	}
	if cart.TotalAmount != want {
		t.Fatalf("totalAmount=%v, want %v (sum over items)", cart.TotalAmount, want)
	}
}

func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected apierr, got %v", err)
	}
	if ae.Code != code {
		t.Fatalf("error code=%q, want %q (err=%v)", ae.Code, code, err)
	}
}

func TestGetActiveCart_CreatesLazily(t *testing.T) {
	f := newCartFixture(t)

	cart, err := f.service.GetActiveCart(f.ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cart.Status != types.CartStatusActive {
		t.Fatalf("status=%q, want active", cart.Status)
	}
	if len(cart.Items) != 0 || cart.TotalAmount != 0 {
		t.Fatalf("expected empty cart, got items=%d total=%v", len(cart.Items), cart.TotalAmount)
	}

	again, err := f.service.GetActiveCart(f.ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if again.ID != cart.ID {
		t.Fatalf("second resolve created a new cart: %s vs %s", again.ID, cart.ID)
	}
}

func TestGetActiveCart_Unauthorized(t *testing.T) {
	f := newCartFixture(t)
	if _, err := f.service.GetActiveCart(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCartMutations_Scenario(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)

	cart, err := f.service.AddItem(f.ctx, p1, 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if cart.TotalAmount != 20 {
		t.Fatalf("after add total=%v, want 20", cart.TotalAmount)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != p1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items after add: %+v", cart.Items)
	}
	if cart.Items[0].UnitPrice != 10 {
		t.Fatalf("unitPrice=%v, want snapshot 10", cart.Items[0].UnitPrice)
	}
	assertTotalMatchesItems(t, cart)

	cart, err = f.service.UpdateItem(f.ctx, p1, 3)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cart.TotalAmount != 30 {
		t.Fatalf("after update total=%v, want 30", cart.TotalAmount)
	}
	assertTotalMatchesItems(t, cart)

	cart, err = f.service.RemoveItem(f.ctx, p1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if cart.TotalAmount != 0 || len(cart.Items) != 0 {
		t.Fatalf("after remove total=%v items=%d, want 0/0", cart.TotalAmount, len(cart.Items))
	}
}

func TestAddItem_PriceSnapshotDoesNotTrackProduct(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)

	if _, err := f.service.AddItem(f.ctx, p1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	f.productRepo.products[0].Price = 99

	cart, err := f.service.GetActiveCart(f.ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.Items[0].UnitPrice != 10 {
		t.Fatalf("unitPrice=%v, want original snapshot 10", cart.Items[0].UnitPrice)
	}
	if cart.TotalAmount != 10 {
		t.Fatalf("total=%v, want 10", cart.TotalAmount)
	}
}

func TestAddItem_DuplicateFailsAndLeavesCartUnchanged(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)

	if _, err := f.service.AddItem(f.ctx, p1, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := f.service.AddItem(f.ctx, p1, 1)
	if !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}

	cart, err := f.service.GetActiveCart(f.ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 || cart.TotalAmount != 20 {
		t.Fatalf("cart changed by failed add: %+v total=%v", cart.Items, cart.TotalAmount)
	}
}

func TestAddItem_ProductNotFound(t *testing.T) {
	f := newCartFixture(t)
	_, err := f.service.AddItem(f.ctx, uuid.New(), 1)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddItem_InsufficientStockLeavesCartUnchanged(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)

	_, err := f.service.AddItem(f.ctx, p1, 10)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	cart, err := f.service.GetActiveCart(f.ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalAmount != 0 {
		t.Fatalf("cart changed by failed add: items=%d total=%v", len(cart.Items), cart.TotalAmount)
	}
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)
	if _, err := f.service.AddItem(f.ctx, p1, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestUpdateItem_NotInCart(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)
	if _, err := f.service.UpdateItem(f.ctx, p1, 2); !errors.Is(err, ErrItemNotInCart) {
		t.Fatalf("expected ErrItemNotInCart, got %v", err)
	}
}

func TestUpdateItem_InsufficientStockLeavesQuantityUnchanged(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)

	if _, err := f.service.AddItem(f.ctx, p1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := f.service.UpdateItem(f.ctx, p1, 6)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	cart, err := f.service.GetActiveCart(f.ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.Items[0].Quantity != 2 || cart.TotalAmount != 20 {
		t.Fatalf("cart changed by failed update: qty=%d total=%v", cart.Items[0].Quantity, cart.TotalAmount)
	}
}

func TestRemoveItem_NotInCart(t *testing.T) {
	f := newCartFixture(t)
	if _, err := f.service.RemoveItem(f.ctx, uuid.New()); !errors.Is(err, ErrItemNotInCart) {
		t.Fatalf("expected ErrItemNotInCart, got %v", err)
	}
}

func TestRemoveItem_RecomputesTotalFromRemaining(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)
	p2 := f.seedProduct(t, "P2", 7, 5)

	if _, err := f.service.AddItem(f.ctx, p1, 2); err != nil {
		t.Fatalf("add p1: %v", err)
	}
	if _, err := f.service.AddItem(f.ctx, p2, 3); err != nil {
		t.Fatalf("add p2: %v", err)
	}

	cart, err := f.service.RemoveItem(f.ctx, p1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != p2 {
		t.Fatalf("unexpected remaining items: %+v", cart.Items)
	}
	if cart.TotalAmount != 21 {
		t.Fatalf("total=%v, want 21", cart.TotalAmount)
	}
	assertTotalMatchesItems(t, cart)
}

func TestClearCart(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)

	if _, err := f.service.AddItem(f.ctx, p1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := f.service.ClearCart(f.ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalAmount != 0 {
		t.Fatalf("expected empty cart, got items=%d total=%v", len(cart.Items), cart.TotalAmount)
	}

	// clearing an already-empty cart is a no-op with the same result
	cart, err = f.service.ClearCart(f.ctx)
	if err != nil {
		t.Fatalf("clear empty: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalAmount != 0 {
		t.Fatalf("expected empty cart, got items=%d total=%v", len(cart.Items), cart.TotalAmount)
	}
}

func TestCheckout_AddressRequired(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)
	if _, err := f.service.AddItem(f.ctx, p1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := f.service.Checkout(f.ctx, "   ")
	if !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}

	cart, err := f.service.GetActiveCart(f.ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.Status != types.CartStatusActive || len(cart.Items) != 1 {
		t.Fatalf("cart changed by failed checkout: status=%q items=%d", cart.Status, len(cart.Items))
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCartFixture(t)
	if _, err := f.service.Checkout(f.ctx, "1 Main St"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_InsufficientStockAbortsWholeCheckout(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)
	p2 := f.seedProduct(t, "P2", 7, 5)

	if _, err := f.service.AddItem(f.ctx, p1, 2); err != nil {
		t.Fatalf("add p1: %v", err)
	}
	if _, err := f.service.AddItem(f.ctx, p2, 3); err != nil {
		t.Fatalf("add p2: %v", err)
	}
	// stock shrinks between add and checkout
	f.productRepo.products[1].Stock = 1

	_, err := f.service.Checkout(f.ctx, "1 Main St")
	assertErrCode(t, err, "insufficient_stock")

	if len(f.orderRepo.orders) != 0 {
		t.Fatalf("expected no order written, got %d", len(f.orderRepo.orders))
	}
	cart, err := f.service.GetActiveCart(f.ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.Status != types.CartStatusActive || len(cart.Items) != 2 {
		t.Fatalf("cart changed by failed checkout: status=%q items=%d", cart.Status, len(cart.Items))
	}
}

func TestCheckout_ProductGoneAborts(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)
	if _, err := f.service.AddItem(f.ctx, p1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	f.productRepo.products = nil

	if _, err := f.service.Checkout(f.ctx, "1 Main St"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if len(f.orderRepo.orders) != 0 {
		t.Fatalf("expected no order written, got %d", len(f.orderRepo.orders))
	}
}

func TestCheckout_Success(t *testing.T) {
	f := newCartFixture(t)
	p1 := f.seedProduct(t, "P1", 10, 5)
	p2 := f.seedProduct(t, "P2", 7, 5)

	if _, err := f.service.AddItem(f.ctx, p1, 2); err != nil {
		t.Fatalf("add p1: %v", err)
	}
	if _, err := f.service.AddItem(f.ctx, p2, 1); err != nil {
		t.Fatalf("add p2: %v", err)
	}
	before, err := f.service.GetActiveCart(f.ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	order, err := f.service.Checkout(f.ctx, "1 Main St")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if order.Total != before.TotalAmount {
		t.Fatalf("order total=%v, want cart total %v", order.Total, before.TotalAmount)
	}
	if order.Address != "1 Main St" || order.UserID != f.userID {
		t.Fatalf("unexpected order header: %+v", order)
	}
	if len(order.Items) != 2 {
		t.Fatalf("order items=%d, want 2", len(order.Items))
	}
	first := order.Items[0]
	if first.ProductTitle != "P1" || first.ProductImage != "P1.png" || first.UnitPrice != 10 || first.Quantity != 2 {
		t.Fatalf("order item not denormalized from cart snapshot: %+v", first)
	}
	for i, item := range order.Items {
		if item.Position != i {
			t.Fatalf("item %d has position %d, want cart order preserved", i, item.Position)
		}
	}

	// the old cart is retired; the next resolve returns a fresh empty one
	fresh, err := f.service.GetActiveCart(f.ctx)
	if err != nil {
		t.Fatalf("get after checkout: %v", err)
	}
	if fresh.ID == before.ID {
		t.Fatalf("expected a new active cart after checkout")
	}
	if len(fresh.Items) != 0 || fresh.TotalAmount != 0 {
		t.Fatalf("expected fresh empty cart, got items=%d total=%v", len(fresh.Items), fresh.TotalAmount)
	}

	orders, err := f.orderRepo.GetByUserIDs(f.ctx, nil, []uuid.UUID{f.userID})
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("expected persisted order, got %+v", orders)
	}
}
