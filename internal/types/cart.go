package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	CartStatusActive    = "active"
	CartStatusCompleted = "completed"
)

// Cart is the single mutable aggregate of the storefront. At most one cart
// per user may have status=active; a partial unique index on (user_id)
// enforces it.
type Cart struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Items       []CartItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:CartID;references:ID" json:"items"`
	TotalAmount float64    `gorm:"column:total_amount;not null;default:0" json:"totalAmount"`
	Status      string     `gorm:"column:status;not null;default:'active'" json:"status"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Cart) TableName() string { return "cart" }

// CartItem snapshots the product price at add-time; Product is populated on
// reads only and never re-priced.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_cart_item_product" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_cart_item_product" json:"productId"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	UnitPrice float64   `gorm:"column:unit_price;not null" json:"unitPrice"`
	Quantity  int       `gorm:"column:quantity;not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (CartItem) TableName() string { return "cart_item" }
