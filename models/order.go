package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentPayPal         PaymentMethod = "paypal"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentPayPal, PaymentCashOnDelivery:
		return true
	}
	return false
}

type Order struct {
	ID                    uint            `gorm:"primaryKey"`
	UserID                uint            `gorm:"index;not null"`
	Items                 []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalPrice            decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	Status                OrderStatus     `gorm:"type:VARCHAR(10);default:'pending';not null"`
	PaymentMethod         *PaymentMethod  `gorm:"type:VARCHAR(20)"`
	DeliveryLocation      *string         `gorm:"size:255"`
	EstimatedDeliveryTime *time.Time
	CreatedAt             time.Time
}

// OrderLineItem is an immutable snapshot taken at placement. ProductID has
// no foreign key so the line survives deletion of the product.
type OrderLineItem struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"index;not null"`
	ProductID   uint            `gorm:"index;not null"`
	ProductName string          `gorm:"size:100;not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Quantity    int             `gorm:"not null"`
}

// Subtotal is UnitPrice × Quantity.
func (i OrderLineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
