package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/types"
)

// In-memory repo fakes. They ignore the tx parameter the same way the real
// repos fall back to their own handle when tx is nil.

type fakeProductRepo struct {
	products []*types.Product
	countErr error
}

func (fr *fakeProductRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error) {
	fr.products = append(fr.products, products...)
	return products, nil
}

func (fr *fakeProductRepo) GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.Product, error) {
	var out []*types.Product
	for _, id := range productIDs {
		for _, p := range fr.products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (fr *fakeProductRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Product, error) {
	return fr.products, nil
}

func (fr *fakeProductRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	if fr.countErr != nil {
		return 0, fr.countErr
	}
	return int64(len(fr.products)), nil
}

type fakeCartRepo struct {
	carts    []*types.Cart
	items    []*types.CartItem
	products *fakeProductRepo
}

func (fc *fakeCartRepo) GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, populateProducts bool) (*types.Cart, error) {
	for _, cart := range fc.carts {
		if cart.UserID != userID || cart.Status != types.CartStatusActive {
			continue
		}
		out := *cart
		out.Items = nil
		for _, item := range fc.items {
			if item.CartID != cart.ID {
				continue
			}
			cp := *item
			if populateProducts && fc.products != nil {
				for _, p := range fc.products.products {
					if p.ID == cp.ProductID {
						cp.Product = p
					}
				}
			}
			out.Items = append(out.Items, cp)
		}
		return &out, nil
	}
	return nil, nil
}

func (fc *fakeCartRepo) CreateActive(ctx context.Context, tx *gorm.DB, cart *types.Cart) error {
	for _, existing := range fc.carts {
		if existing.UserID == cart.UserID && existing.Status == types.CartStatusActive {
			// conflict target hit, insert skipped
			return nil
		}
	}
	cp := *cart
	fc.carts = append(fc.carts, &cp)
	return nil
}

func (fc *fakeCartRepo) AddItem(ctx context.Context, tx *gorm.DB, item *types.CartItem) error {
	cp := *item
	fc.items = append(fc.items, &cp)
	return nil
}

func (fc *fakeCartRepo) UpdateItemQuantity(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) error {
	for _, item := range fc.items {
		if item.ID == itemID {
			item.Quantity = quantity
		}
	}
	return nil
}

func (fc *fakeCartRepo) DeleteItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error {
	kept := fc.items[:0]
	for _, item := range fc.items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	fc.items = kept
	return nil
}

func (fc *fakeCartRepo) DeleteItemsByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	kept := fc.items[:0]
	for _, item := range fc.items {
		if item.CartID != cartID {
			kept = append(kept, item)
		}
	}
	fc.items = kept
	return nil
}

func (fc *fakeCartRepo) UpdateTotalAmount(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, total float64) error {
	for _, cart := range fc.carts {
		if cart.ID == cartID {
			cart.TotalAmount = total
		}
	}
	return nil
}

func (fc *fakeCartRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, status string) error {
	for _, cart := range fc.carts {
		if cart.ID == cartID {
			cart.Status = status
		}
	}
	return nil
}

type fakeOrderRepo struct {
	orders []*types.Order
}

func (fo *fakeOrderRepo) Create(ctx context.Context, tx *gorm.DB, orders []*types.Order) ([]*types.Order, error) {
	for _, order := range orders {
		cp := *order
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = time.Now()
		}
		fo.orders = append(fo.orders, &cp)
	}
	return orders, nil
}

func (fo *fakeOrderRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Order, error) {
	var out []*types.Order
	for _, id := range userIDs {
		for _, order := range fo.orders {
			if order.UserID == id {
				out = append(out, order)
			}
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users []*types.User
}

func (fu *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	fu.users = append(fu.users, users...)
	return users, nil
}

func (fu *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range userIDs {
		for _, u := range fu.users {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (fu *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
	var out []*types.User
	for _, email := range userEmails {
		for _, u := range fu.users {
			if u.Email == email {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (fu *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
	for _, u := range fu.users {
		if u.Email == userEmail {
			return true, nil
		}
	}
	return false, nil
}
