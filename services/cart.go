package services

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"github.com/Kariqs/grocery-api/models"
	"github.com/Kariqs/grocery-api/pricing"
)

// CartSnapshot is the user's cart with totals computed from live product prices.
type CartSnapshot struct {
	Items  []models.CartItem `json:"items"`
	Totals pricing.Totals    `json:"totals"`
}

func newCartSnapshot(items []models.CartItem) *CartSnapshot {
	if items == nil {
		items = []models.CartItem{}
	}
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.Line{
			Price:    item.Product.Price,
			Discount: item.Product.Discount,
			Quantity: item.Quantity,
		})
	}
	return &CartSnapshot{Items: items, Totals: pricing.Aggregate(lines)}
}

// CartService manages cart items. Every mutation returns the cart as it stands afterwards.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// List returns the user's cart with each item's current product joined.
func (s *CartService) List(ctx context.Context, userID uint) (*CartSnapshot, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	var items []models.CartItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "list cart items")
	}
	return newCartSnapshot(items), nil
}

// Add puts productID in the cart with quantity 1.
func (s *CartService) Add(ctx context.Context, userID, productID uint) (*CartSnapshot, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	db := s.db.WithContext(ctx)

	var product models.Product
	if err := db.Select("id").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "find product")
	}

	var count int64
	if err := db.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "check cart item")
	}
	if count > 0 {
		return nil, ErrAlreadyInCart
	}

	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
	if err := db.Omit("Product").Create(&item).Error; err != nil {
		// A concurrent add for the same product loses on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInCart
		}
		return nil, errors.Wrap(err, "create cart item")
	}
	return s.List(ctx, userID)
}

// SetQuantity overwrites the quantity of one of the user's items.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID uint, quantity int) (*CartSnapshot, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	item, err := s.find(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, errors.Wrap(err, "update cart item")
	}
	return s.List(ctx, userID)
}

// Increment raises an item's quantity by one.
func (s *CartService) Increment(ctx context.Context, userID, itemID uint) (*CartSnapshot, error) {
	item, err := s.find(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(item).
		Update("quantity", gorm.Expr("quantity + ?", 1)).Error; err != nil {
		return nil, errors.Wrap(err, "increment cart item")
	}
	return s.List(ctx, userID)
}

// Decrement lowers an item's quantity by one, removing the item instead of storing zero.
func (s *CartService) Decrement(ctx context.Context, userID, itemID uint) (*CartSnapshot, error) {
	item, err := s.find(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Quantity <= 1 {
		return s.Remove(ctx, userID, itemID)
	}
	res := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND quantity > 1", item.ID).
		Update("quantity", gorm.Expr("quantity - ?", 1))
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "decrement cart item")
	}
	if res.RowsAffected == 0 {
		// Another request brought it down to 1 in the meantime.
		return s.Remove(ctx, userID, itemID)
	}
	return s.List(ctx, userID)
}

// Remove deletes one of the user's items.
func (s *CartService) Remove(ctx context.Context, userID, itemID uint) (*CartSnapshot, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "delete cart item")
	}
	if res.RowsAffected == 0 {
		return nil, ErrCartItemNotFound
	}
	return s.List(ctx, userID)
}

// Clear deletes every item in the user's cart.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	return clearCart(s.db.WithContext(ctx), userID)
}

func clearCart(tx *gorm.DB, userID uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return errors.Wrap(err, "clear cart")
	}
	return nil
}

func (s *CartService) find(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	var item models.CartItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, errors.Wrap(err, "find cart item")
	}
	return &item, nil
}
