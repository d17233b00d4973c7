package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSnapshot is the product as it was priced when the order was placed.
type ProductSnapshot struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Image     []string        `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
}

// Order records one purchased line. Rows are written once and never updated.
type Order struct {
	ID                uint            `json:"id" gorm:"primarykey"`
	OrderID           string          `json:"orderId" gorm:"uniqueIndex;size:64;not null"`
	UserID            uint            `json:"userId" gorm:"index;not null"`
	ProductID         uint            `json:"productId"`
	ProductDetails    ProductSnapshot `json:"product_details" gorm:"serializer:json"`
	Quantity          int             `json:"quantity"`
	PaymentID         string          `json:"paymentId" gorm:"size:255"`
	PaymentStatus     string          `json:"payment_status" gorm:"size:64"`
	PaymentSessionID  string          `json:"-" gorm:"index;size:255"`
	DeliveryAddressID uint            `json:"deliveryAddressId"`
	DeliveryAddress   Address         `json:"delivery_address"`
	SubTotalAmt       decimal.Decimal `json:"subTotalAmt" gorm:"type:decimal(12,2)"`
	TotalAmt          decimal.Decimal `json:"totalAmt" gorm:"type:decimal(12,2)"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ProcessedSession marks a payment session whose orders have been written.
type ProcessedSession struct {
	SessionID string `gorm:"primaryKey;size:255"`
	UserID    uint   `gorm:"index"`
	CreatedAt time.Time
}
