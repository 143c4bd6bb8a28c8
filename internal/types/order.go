package types

import (
	"time"

	"github.com/google/uuid"
)

// Order is the immutable checkout snapshot. Items are fully denormalized so
// later product edits cannot change order history.
type Order struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"userId"`
	User      *User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID;references:ID" json:"items"`
	Total     float64     `gorm:"column:total;not null" json:"total"`
	Address   string      `gorm:"column:address;not null" json:"address"`
	CreatedAt time.Time   `gorm:"not null;default:now()" json:"createdAt"`
}

func (Order) TableName() string { return "order" }

// OrderItem keeps its cart position so "my orders" lists line items in the
// order they were added.
type OrderItem struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position     int       `gorm:"column:position;not null;default:0" json:"-"`
	ProductTitle string    `gorm:"column:product_title;not null" json:"productTitle"`
	ProductImage string    `gorm:"column:product_image" json:"productImage"`
	UnitPrice    float64   `gorm:"column:unit_price;not null" json:"unitPrice"`
	Quantity     int       `gorm:"column:quantity;not null" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_item" }
