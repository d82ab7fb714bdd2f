package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"size:100;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Image       string
	SellerID    uint `gorm:"index;not null"`
	Seller      User `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MaxAmount is the largest value the numeric(10,2) money columns hold.
var MaxAmount = decimal.RequireFromString("99999999.99")
