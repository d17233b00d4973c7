package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/grocery-api/models"
)

const orderBatchSize = 100

// OrderLine is one purchased line ready to become an order.
type OrderLine struct {
	Snapshot models.ProductSnapshot
	Quantity int
	SubTotal decimal.Decimal
	Total    decimal.Decimal
}

// Materialization describes a completed checkout.
// SessionID is empty for cash on delivery.
type Materialization struct {
	UserID        uint
	AddressID     uint
	PaymentID     string
	PaymentStatus string
	SessionID     string
	Lines         []OrderLine
}

// Materializer writes orders and clears the buyer's cart in one transaction.
type Materializer struct {
	db         *gorm.DB
	newOrderID func() string
}

func NewMaterializer(db *gorm.DB) *Materializer {
	return &Materializer{
		db:         db,
		newOrderID: func() string { return "ORD-" + uuid.NewString() },
	}
}

// Materialize persists one order per line. A session that was already
// materialized yields ErrSessionProcessed and writes nothing.
func (m *Materializer) Materialize(ctx context.Context, in Materialization) ([]models.Order, error) {
	if in.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if len(in.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	orders := make([]models.Order, 0, len(in.Lines))
	for _, line := range in.Lines {
		orders = append(orders, models.Order{
			OrderID:           m.newOrderID(),
			UserID:            in.UserID,
			ProductID:         line.Snapshot.ProductID,
			ProductDetails:    line.Snapshot,
			Quantity:          line.Quantity,
			PaymentID:         in.PaymentID,
			PaymentStatus:     in.PaymentStatus,
			PaymentSessionID:  in.SessionID,
			DeliveryAddressID: in.AddressID,
			SubTotalAmt:       line.SubTotal,
			TotalAmt:          line.Total,
		})
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.SessionID != "" {
			mark := models.ProcessedSession{SessionID: in.SessionID, UserID: in.UserID}
			if err := tx.Create(&mark).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrSessionProcessed
				}
				return withCause(ErrPersistFailed, "record session", err)
			}
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(&orders, orderBatchSize).Error; err != nil {
			return withCause(ErrPersistFailed, "insert orders", err)
		}
		if err := clearCart(tx, in.UserID); err != nil {
			return withCause(ErrPersistFailed, "clear cart", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Processed reports whether orders for sessionID already exist.
func (m *Materializer) Processed(ctx context.Context, sessionID string) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).Model(&models.ProcessedSession{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check processed session")
	}
	return count > 0, nil
}
