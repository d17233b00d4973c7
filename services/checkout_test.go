package services

import (
	"context"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/grocery-api/models"
)

type mockGateway struct {
	requests  []SessionRequest
	lineItems map[string][]PaidLineItem
	listCalls int
	createErr error
	listErr   error
}

func (m *mockGateway) CreateSession(_ context.Context, req SessionRequest) (*Session, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.requests = append(m.requests, req)
	return &Session{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil
}

func (m *mockGateway) ListLineItems(_ context.Context, sessionID string) ([]PaidLineItem, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.lineItems[sessionID], nil
}

func newCheckout(t *testing.T, gw PaymentGateway) (*CheckoutService, *CartService) {
	t.Helper()
	db := newTestDB(t)
	svc := NewCheckoutService(db, gw, CheckoutOptions{
		Currency:   "inr",
		SuccessURL: "http://shop.test/success",
		CancelURL:  "http://shop.test/cancel",
	})
	return svc, svc.carts
}

func TestCashOnDelivery(t *testing.T) {
	svc, carts := newCheckout(t, nil)
	ctx := context.Background()
	apple := seedProduct(t, svc.db, "apple", 100, 10)
	address := seedAddress(t, svc.db, 1)
	seedCart(t, carts, 1, apple, 2)

	orders, err := svc.CashOnDelivery(ctx, 1, CheckoutRequest{AddressID: address.ID, Method: PaymentCashOnDelivery})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.True(t, strings.HasPrefix(order.OrderID, "ORD-"), order.OrderID)
	assert.Equal(t, PaymentStatusCashOnDelivery, order.PaymentStatus)
	assert.Empty(t, order.PaymentID)
	assert.Equal(t, address.ID, order.DeliveryAddressID)
	assert.Equal(t, 2, order.Quantity)
	assert.True(t, decimal.NewFromInt(180).Equal(order.TotalAmt), order.TotalAmt.String())
	assert.True(t, decimal.NewFromInt(200).Equal(order.SubTotalAmt), order.SubTotalAmt.String())
	assert.Equal(t, "apple", order.ProductDetails.Name)

	cart, err := carts.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(1), countOrders(t, svc.db, 1))
}

func TestCashOnDeliveryKeepsSnapshot(t *testing.T) {
	svc, carts := newCheckout(t, nil)
	ctx := context.Background()
	apple := seedProduct(t, svc.db, "apple", 100, 10)
	address := seedAddress(t, svc.db, 1)
	seedCart(t, carts, 1, apple, 1)

	_, err := svc.CashOnDelivery(ctx, 1, CheckoutRequest{AddressID: address.ID, Method: PaymentCashOnDelivery})
	require.NoError(t, err)

	require.NoError(t, svc.db.Model(&apple).Updates(map[string]any{"price": decimal.NewFromInt(500), "name": "golden apple"}).Error)

	var stored models.Order
	require.NoError(t, svc.db.Where("user_id = ?", 1).First(&stored).Error)
	assert.Equal(t, "apple", stored.ProductDetails.Name)
	assert.True(t, decimal.NewFromInt(100).Equal(stored.ProductDetails.Price))
	assert.True(t, decimal.NewFromInt(90).Equal(stored.TotalAmt))
}

func TestCheckoutValidation(t *testing.T) {
	svc, carts := newCheckout(t, nil)
	ctx := context.Background()
	apple := seedProduct(t, svc.db, "apple", 100, 0)
	mine := seedAddress(t, svc.db, 1)
	theirs := seedAddress(t, svc.db, 2)

	_, err := svc.CashOnDelivery(ctx, 1, CheckoutRequest{AddressID: mine.ID, Method: PaymentCashOnDelivery})
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, KindValidation, KindOf(err))

	seedCart(t, carts, 1, apple, 1)

	_, err = svc.CashOnDelivery(ctx, 1, CheckoutRequest{Method: PaymentCashOnDelivery})
	require.ErrorIs(t, err, ErrNoAddress)

	_, err = svc.CashOnDelivery(ctx, 1, CheckoutRequest{AddressID: mine.ID, Method: "BARTER"})
	require.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = svc.CashOnDelivery(ctx, 1, CheckoutRequest{AddressID: theirs.ID, Method: PaymentCashOnDelivery})
	require.ErrorIs(t, err, ErrAddressNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.CashOnDelivery(ctx, 0, CheckoutRequest{AddressID: mine.ID, Method: PaymentCashOnDelivery})
	require.ErrorIs(t, err, ErrUnauthenticated)

	cart, err := carts.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Zero(t, countOrders(t, svc.db, 1))
}

func TestCheckoutRequestValidate(t *testing.T) {
	tests := []struct {
		method PaymentMethod
		want   error
	}{
		{PaymentCashOnDelivery, nil},
		{PaymentMethodGateway, nil},
		{"", ErrInvalidPaymentMethod},
		{"gateway", ErrInvalidPaymentMethod},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			err := CheckoutRequest{AddressID: 1, Method: tt.method}.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckoutRejectsDisabledAddress(t *testing.T) {
	svc, carts := newCheckout(t, nil)
	apple := seedProduct(t, svc.db, "apple", 100, 0)
	address := seedAddress(t, svc.db, 1)
	seedCart(t, carts, 1, apple, 1)
	require.NoError(t, svc.db.Model(&address).Update("status", false).Error)

	_, err := svc.CashOnDelivery(context.Background(), 1, CheckoutRequest{AddressID: address.ID, Method: PaymentCashOnDelivery})
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestStartGatewaySession(t *testing.T) {
	gw := &mockGateway{}
	svc, carts := newCheckout(t, gw)
	ctx := context.Background()
	apple := seedProduct(t, svc.db, "apple", 100, 10)
	milk := seedProduct(t, svc.db, "milk", 50, 0)
	address := seedAddress(t, svc.db, 1)
	seedCart(t, carts, 1, apple, 2)
	seedCart(t, carts, 1, milk, 1)

	session, err := svc.StartGatewaySession(ctx, 1, "buyer@example.com", CheckoutRequest{AddressID: address.ID, Method: PaymentMethodGateway})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.NotEmpty(t, session.URL)

	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	require.Len(t, req.Items, 2)
	assert.Equal(t, int64(9000), req.Items[0].UnitAmount)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, int64(5000), req.Items[1].UnitAmount)
	assert.Equal(t, "inr", req.Currency)
	assert.Equal(t, "buyer@example.com", req.CustomerEmail)
	assert.Equal(t, uint(1), req.Metadata.UserID)
	assert.Equal(t, address.ID, req.Metadata.AddressID)
	assert.True(t, decimal.NewFromInt(250).Equal(req.Metadata.SubTotal))
	assert.True(t, decimal.NewFromInt(230).Equal(req.Metadata.Total))

	assert.Zero(t, countOrders(t, svc.db, 1))
	cart, err := carts.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestStartGatewaySessionUpstreamFailure(t *testing.T) {
	gw := &mockGateway{createErr: errors.New("connection reset")}
	svc, carts := newCheckout(t, gw)
	apple := seedProduct(t, svc.db, "apple", 100, 0)
	address := seedAddress(t, svc.db, 1)
	seedCart(t, carts, 1, apple, 1)

	_, err := svc.StartGatewaySession(context.Background(), 1, "buyer@example.com", CheckoutRequest{AddressID: address.ID, Method: PaymentMethodGateway})
	require.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func paidSession(address models.Address) CompletedSession {
	return CompletedSession{
		ID:            "cs_test_1",
		PaymentID:     "pi_123",
		PaymentStatus: "paid",
		Metadata:      SessionMetadata{UserID: 1, AddressID: address.ID},
	}
}

func TestCompleteGatewaySession(t *testing.T) {
	gw := &mockGateway{}
	svc, carts := newCheckout(t, gw)
	ctx := context.Background()
	apple := seedProduct(t, svc.db, "apple", 100, 10)
	milk := seedProduct(t, svc.db, "milk", 50, 0)
	address := seedAddress(t, svc.db, 1)
	seedCart(t, carts, 1, apple, 2)
	seedCart(t, carts, 1, milk, 1)

	gw.lineItems = map[string][]PaidLineItem{
		"cs_test_1": {
			{Snapshot: apple.Snapshot(), Quantity: 2, AmountSubtotal: 18000, AmountTotal: 18000},
			{Snapshot: milk.Snapshot(), Quantity: 1, AmountSubtotal: 5000, AmountTotal: 5000},
		},
	}

	orders, err := svc.CompleteGatewaySession(ctx, paidSession(address))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "pi_123", orders[0].PaymentID)
	assert.Equal(t, "paid", orders[0].PaymentStatus)
	assert.True(t, decimal.NewFromInt(180).Equal(orders[0].TotalAmt))
	assert.True(t, decimal.NewFromInt(50).Equal(orders[1].SubTotalAmt))
	assert.NotEqual(t, orders[0].OrderID, orders[1].OrderID)

	cart, err := carts.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(2), countOrders(t, svc.db, 1))

	// The gateway delivers at least once.
	_, err = svc.CompleteGatewaySession(ctx, paidSession(address))
	require.ErrorIs(t, err, ErrSessionProcessed)
	assert.Equal(t, int64(2), countOrders(t, svc.db, 1))
	assert.Equal(t, 1, gw.listCalls)
}

func TestCompleteGatewaySessionUpstreamFailure(t *testing.T) {
	gw := &mockGateway{listErr: errors.New("timeout")}
	svc, carts := newCheckout(t, gw)
	apple := seedProduct(t, svc.db, "apple", 100, 0)
	address := seedAddress(t, svc.db, 1)
	seedCart(t, carts, 1, apple, 1)

	_, err := svc.CompleteGatewaySession(context.Background(), paidSession(address))
	require.ErrorIs(t, err, ErrUpstream)

	cart, err := carts.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCompleteGatewaySessionMissingMetadata(t *testing.T) {
	svc, _ := newCheckout(t, &mockGateway{})

	_, err := svc.CompleteGatewaySession(context.Background(), CompletedSession{ID: "cs_test_1"})
	require.ErrorIs(t, err, ErrInvalidSession)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestMaterializeDuplicateSession(t *testing.T) {
	db := newTestDB(t)
	m := NewMaterializer(db)
	ctx := context.Background()
	apple := seedProduct(t, db, "apple", 100, 0)
	address := seedAddress(t, db, 1)

	in := Materialization{
		UserID:        1,
		AddressID:     address.ID,
		PaymentID:     "pi_1",
		PaymentStatus: "paid",
		SessionID:     "cs_dup",
		Lines: []OrderLine{{
			Snapshot: apple.Snapshot(),
			Quantity: 1,
			SubTotal: decimal.NewFromInt(100),
			Total:    decimal.NewFromInt(100),
		}},
	}

	_, err := m.Materialize(ctx, in)
	require.NoError(t, err)

	_, err = m.Materialize(ctx, in)
	require.ErrorIs(t, err, ErrSessionProcessed)
	assert.Equal(t, int64(1), countOrders(t, db, 1))

	processed, err := m.Processed(ctx, "cs_dup")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestMaterializeRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	m := NewMaterializer(db)
	m.newOrderID = func() string { return "ORD-fixed" }
	carts := NewCartService(db)
	ctx := context.Background()
	apple := seedProduct(t, db, "apple", 100, 0)
	address := seedAddress(t, db, 1)
	seedCart(t, carts, 1, apple, 1)

	line := OrderLine{Snapshot: apple.Snapshot(), Quantity: 1, SubTotal: decimal.NewFromInt(100), Total: decimal.NewFromInt(100)}
	_, err := m.Materialize(ctx, Materialization{
		UserID:        1,
		AddressID:     address.ID,
		PaymentStatus: "paid",
		SessionID:     "cs_rollback",
		Lines:         []OrderLine{line, line},
	})
	require.ErrorIs(t, err, ErrPersistFailed)
	assert.Equal(t, KindPersist, KindOf(err))

	assert.Zero(t, countOrders(t, db, 1))
	cart, err := carts.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	processed, err := m.Processed(ctx, "cs_rollback")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindConflict, KindOf(errors.Wrap(ErrSessionProcessed, "webhook")))
	assert.Equal(t, KindPersist, KindOf(withCause(ErrPersistFailed, "insert orders", errors.New("disk full"))))
}
