package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"uniqueIndex;not null"` // one cart per user
	Items     []CartLineItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLineItem is owned by exactly one cart and never referenced by an order.
type CartLineItem struct {
	ID        uint    `gorm:"primaryKey"`
	CartID    uint    `gorm:"uniqueIndex:idx_cart_product;not null"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_product;not null"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int     `gorm:"not null"`
	AddedAt   time.Time
}

func (i CartLineItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total prices the cart at the products' current prices.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
