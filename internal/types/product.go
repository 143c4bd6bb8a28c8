package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	Image      string         `gorm:"column:image" json:"image"`
	Price      float64        `gorm:"column:price;not null" json:"price"`
	Stock      int            `gorm:"column:stock;not null;default:0" json:"stock"`
	Attributes datatypes.JSON `gorm:"column:attributes;type:jsonb" json:"attributes,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Product) TableName() string { return "product" }
