package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kariqs/grocery-api/models"
	"github.com/Kariqs/grocery-api/pricing"
)

// PaymentMethod selects how a checkout is paid.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentMethodGateway  PaymentMethod = "GATEWAY"
)

// PaymentStatusCashOnDelivery is stamped on orders paid at the door.
const PaymentStatusCashOnDelivery = "CASH ON DELIVERY"

// CheckoutRequest is a validated checkout intent.
type CheckoutRequest struct {
	AddressID uint
	Method    PaymentMethod
}

func (r CheckoutRequest) Validate() error {
	switch r.Method {
	case PaymentCashOnDelivery, PaymentMethodGateway:
	default:
		return ErrInvalidPaymentMethod
	}
	if r.AddressID == 0 {
		return ErrNoAddress
	}
	return nil
}

// SessionMetadata travels through the payment gateway and comes back on completion.
type SessionMetadata struct {
	UserID    uint
	AddressID uint
	SubTotal  decimal.Decimal
	Total     decimal.Decimal
}

// SessionItem is one line of a hosted payment session.
type SessionItem struct {
	Snapshot   models.ProductSnapshot
	UnitAmount int64
	Quantity   int
}

// SessionRequest asks the gateway for a hosted payment page.
type SessionRequest struct {
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Items         []SessionItem
	Metadata      SessionMetadata
}

// Session is a created hosted payment page.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CompletedSession is a gateway session reported as paid.
type CompletedSession struct {
	ID            string
	PaymentID     string
	PaymentStatus string
	Metadata      SessionMetadata
}

// PaidLineItem is a line item as charged by the gateway. Amounts are in minor units.
type PaidLineItem struct {
	Snapshot       models.ProductSnapshot
	Quantity       int
	AmountSubtotal int64
	AmountTotal    int64
}

// PaymentGateway hosts card payments.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	ListLineItems(ctx context.Context, sessionID string) ([]PaidLineItem, error)
}

type CheckoutOptions struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// CheckoutService turns a user's cart into orders, directly or through the payment gateway.
type CheckoutService struct {
	db           *gorm.DB
	carts        *CartService
	materializer *Materializer
	gateway      PaymentGateway
	opts         CheckoutOptions
}

func NewCheckoutService(db *gorm.DB, gateway PaymentGateway, opts CheckoutOptions) *CheckoutService {
	return &CheckoutService{
		db:           db,
		carts:        NewCartService(db),
		materializer: NewMaterializer(db),
		gateway:      gateway,
		opts:         opts,
	}
}

// CashOnDelivery places one order per cart line and empties the cart.
func (s *CheckoutService) CashOnDelivery(ctx context.Context, userID uint, req CheckoutRequest) ([]models.Order, error) {
	cart, address, err := s.prepare(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	lines := make([]OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		subtotal, total := pricing.LineTotals(pricing.Line{
			Price:    item.Product.Price,
			Discount: item.Product.Discount,
			Quantity: item.Quantity,
		})
		lines = append(lines, OrderLine{
			Snapshot: item.Product.Snapshot(),
			Quantity: item.Quantity,
			SubTotal: subtotal,
			Total:    total,
		})
	}

	return s.materializer.Materialize(ctx, Materialization{
		UserID:        userID,
		AddressID:     address.ID,
		PaymentStatus: PaymentStatusCashOnDelivery,
		Lines:         lines,
	})
}

// StartGatewaySession opens a hosted payment session for the cart.
// Orders are written later by CompleteGatewaySession; the cart is left untouched.
func (s *CheckoutService) StartGatewaySession(ctx context.Context, userID uint, email string, req CheckoutRequest) (*Session, error) {
	if s.gateway == nil {
		return nil, withCause(ErrUpstream, "create session", errors.New("payment gateway is not configured"))
	}
	cart, address, err := s.prepare(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	items := make([]SessionItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, SessionItem{
			Snapshot:   item.Product.Snapshot(),
			UnitAmount: pricing.MinorUnits(pricing.EffectivePrice(item.Product.Price, item.Product.Discount)),
			Quantity:   item.Quantity,
		})
	}

	session, err := s.gateway.CreateSession(ctx, SessionRequest{
		Currency:      s.opts.Currency,
		CustomerEmail: email,
		SuccessURL:    s.opts.SuccessURL,
		CancelURL:     s.opts.CancelURL,
		Items:         items,
		Metadata: SessionMetadata{
			UserID:    userID,
			AddressID: address.ID,
			SubTotal:  cart.Totals.OriginalTotal,
			Total:     cart.Totals.DiscountedTotal,
		},
	})
	if err != nil {
		return nil, withCause(ErrUpstream, "create session", err)
	}
	return session, nil
}

// CompleteGatewaySession writes the orders of a paid session using the line items
// the gateway reports. Repeated deliveries of the same session return ErrSessionProcessed.
func (s *CheckoutService) CompleteGatewaySession(ctx context.Context, session CompletedSession) ([]models.Order, error) {
	if session.ID == "" || session.Metadata.UserID == 0 || session.Metadata.AddressID == 0 {
		return nil, ErrInvalidSession
	}
	if s.gateway == nil {
		return nil, withCause(ErrUpstream, "list line items", errors.New("payment gateway is not configured"))
	}

	processed, err := s.materializer.Processed(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if processed {
		return nil, ErrSessionProcessed
	}

	paid, err := s.gateway.ListLineItems(ctx, session.ID)
	if err != nil {
		return nil, withCause(ErrUpstream, "list line items", err)
	}
	if len(paid) == 0 {
		return nil, nil
	}

	lines := make([]OrderLine, 0, len(paid))
	for _, item := range paid {
		lines = append(lines, OrderLine{
			Snapshot: item.Snapshot,
			Quantity: item.Quantity,
			SubTotal: pricing.FromMinorUnits(item.AmountSubtotal),
			Total:    pricing.FromMinorUnits(item.AmountTotal),
		})
	}

	return s.materializer.Materialize(ctx, Materialization{
		UserID:        session.Metadata.UserID,
		AddressID:     session.Metadata.AddressID,
		PaymentID:     session.PaymentID,
		PaymentStatus: session.PaymentStatus,
		SessionID:     session.ID,
		Lines:         lines,
	})
}

func (s *CheckoutService) prepare(ctx context.Context, userID uint, req CheckoutRequest) (*CartSnapshot, *models.Address, error) {
	if userID == 0 {
		return nil, nil, ErrUnauthenticated
	}
	cart, err := s.carts.List(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(cart.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	for _, item := range cart.Items {
		if item.Product.ID == 0 {
			return nil, nil, ErrProductNotFound
		}
	}

	var address models.Address
	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", req.AddressID, userID, true).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAddressNotFound
		}
		return nil, nil, errors.Wrap(err, "find address")
	}
	return cart, &address, nil
}
