package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Kariqs/grocery-api/models"
)

func TestCartAdd(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()
	apple := seedProduct(t, db, "apple", 100, 10)

	cart, err := carts.Add(ctx, 1, apple.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, "apple", cart.Items[0].Product.Name)
	assert.True(t, decimal.NewFromInt(90).Equal(cart.Totals.DiscountedTotal))
	assert.True(t, decimal.NewFromInt(100).Equal(cart.Totals.OriginalTotal))
}

func TestCartAddTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()
	apple := seedProduct(t, db, "apple", 100, 0)

	_, err := carts.Add(ctx, 1, apple.ID)
	require.NoError(t, err)

	_, err = carts.Add(ctx, 1, apple.ID)
	require.ErrorIs(t, err, ErrAlreadyInCart)
	assert.Equal(t, KindConflict, KindOf(err))

	cart, err := carts.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	// Another user may hold the same product.
	cart, err = carts.Add(ctx, 2, apple.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	apple := seedProduct(t, db, "apple", 100, 0)

	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: apple.ID, Quantity: 1}).Error)
	err := db.Create(&models.CartItem{UserID: 1, ProductID: apple.ID, Quantity: 1}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCartAddUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)

	_, err := carts.Add(context.Background(), 1, 999)
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCartRequiresUser(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)

	_, err := carts.List(context.Background(), 0)
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, KindUnauthenticated, KindOf(err))
}

func TestCartSetQuantity(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()
	apple := seedProduct(t, db, "apple", 100, 10)
	item := seedCart(t, carts, 1, apple, 1)

	cart, err := carts.SetQuantity(ctx, 1, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3, cart.Totals.Quantity)
	assert.True(t, decimal.NewFromInt(270).Equal(cart.Totals.DiscountedTotal))

	for _, qty := range []int{0, -1} {
		_, err = carts.SetQuantity(ctx, 1, item.ID, qty)
		require.ErrorIs(t, err, ErrInvalidQuantity)
		assert.Equal(t, KindValidation, KindOf(err))
	}

	cart, err = carts.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartSetQuantityOtherUser(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	apple := seedProduct(t, db, "apple", 100, 0)
	item := seedCart(t, carts, 1, apple, 1)

	_, err := carts.SetQuantity(context.Background(), 2, item.ID, 4)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartIncrementDecrement(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()
	apple := seedProduct(t, db, "apple", 50, 0)
	item := seedCart(t, carts, 1, apple, 1)

	cart, err := carts.Increment(ctx, 1, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	cart, err = carts.Decrement(ctx, 1, item.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	cart, err = carts.Decrement(ctx, 1, item.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	var zero int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("quantity < 1").Count(&zero).Error)
	assert.Zero(t, zero)
}

func TestCartRemove(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()
	apple := seedProduct(t, db, "apple", 50, 0)
	pear := seedProduct(t, db, "pear", 30, 0)
	item := seedCart(t, carts, 1, apple, 2)
	seedCart(t, carts, 1, pear, 1)

	_, err := carts.Remove(ctx, 2, item.ID)
	require.ErrorIs(t, err, ErrCartItemNotFound)

	cart, err := carts.Remove(ctx, 1, item.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "pear", cart.Items[0].Product.Name)
	assert.Equal(t, 1, cart.Totals.Quantity)

	_, err = carts.Remove(ctx, 1, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartClear(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()
	apple := seedProduct(t, db, "apple", 50, 0)
	seedCart(t, carts, 1, apple, 2)
	seedCart(t, carts, 2, apple, 1)

	require.NoError(t, carts.Clear(ctx, 1))

	cart, err := carts.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	cart, err = carts.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartReflectsLivePrice(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	ctx := context.Background()
	apple := seedProduct(t, db, "apple", 100, 0)
	seedCart(t, carts, 1, apple, 2)

	require.NoError(t, db.Model(&apple).Update("price", decimal.NewFromInt(120)).Error)

	cart, err := carts.List(ctx, 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(240).Equal(cart.Totals.OriginalTotal))
}
