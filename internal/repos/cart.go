package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/storefront-backend/internal/logger"
	"github.com/yungbote/storefront-backend/internal/types"
)

type CartRepo interface {
	GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, populateProducts bool) (*types.Cart, error)
	CreateActive(ctx context.Context, tx *gorm.DB, cart *types.Cart) error
	AddItem(ctx context.Context, tx *gorm.DB, item *types.CartItem) error
	UpdateItemQuantity(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error
	DeleteItemsByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
	UpdateTotalAmount(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, total float64) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, status string) error
}

type cartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

// Items are an ordered sequence; add order is the presentation order.
func itemsInAddOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func NewCartRepo(db *gorm.DB, baseLog *logger.Logger) CartRepo {
	repoLog := baseLog.With("repo", "CartRepo")
	return &cartRepo{db: db, log: repoLog}
}

// GetActiveByUserID returns nil (no error) when the user has no active cart.
func (cr *cartRepo) GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, populateProducts bool) (*types.Cart, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	query := transaction.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, types.CartStatusActive).
		Preload("Items", itemsInAddOrder)
	if populateProducts {
		query = query.Preload("Items.Product")
	}
	var cart types.Cart
	if err := query.First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// CreateActive inserts a new active cart. The insert lands on the partial
// unique index uniq_cart_active_per_user, so a concurrent creator wins
// silently and the caller re-reads.
func (cr *cartRepo) CreateActive(ctx context.Context, tx *gorm.DB, cart *types.Cart) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "user_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Eq{Column: "status", Value: types.CartStatusActive}}},
			DoNothing:   true,
		}).
		Create(cart).Error
}

func (cr *cartRepo) AddItem(ctx context.Context, tx *gorm.DB, item *types.CartItem) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Create(item).Error
}

func (cr *cartRepo) UpdateItemQuantity(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (cr *cartRepo) DeleteItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&types.CartItem{}).Error
}

func (cr *cartRepo) DeleteItemsByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&types.CartItem{}).Error
}

func (cr *cartRepo) UpdateTotalAmount(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, total float64) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Cart{}).
		Where("id = ?", cartID).
		Update("total_amount", total).Error
}

func (cr *cartRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Cart{}).
		Where("id = ?", cartID).
		Update("status", status).Error
}
