package services

import (
	"context"
	"errors"
	"time"

	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/logger"
	"github.com/junaidrashid-git/shop-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckoutInput struct {
	DeliveryLocation *string               `json:"delivery_location" validate:"omitempty,max=255"`
	PaymentMethod    *models.PaymentMethod `json:"payment_method"`
}

type CartService interface {
	GetOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID uint, quantity int) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, productID uint, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID uint) (*models.Cart, error)
	ViewCart(ctx context.Context, userID uint) (*models.Cart, error)
	FindCart(ctx context.Context, userID uint) (*models.Cart, error)
	Checkout(ctx context.Context, userID uint, in CheckoutInput) (*models.Order, error)
}

type cartService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCartService(db *gorm.DB, logger *zap.Logger) CartService {
	return &cartService{db: db, logger: logger}
}

// getOrCreateCart returns the user's cart, inserting it on first use. A
// concurrent insert loses on the unique user_id and re-reads the winner.
func getOrCreateCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).Take(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error; err != nil {
		return nil, err
	}
	if cart.ID == 0 {
		if err := tx.Where("user_id = ?", userID).Take(&cart).Error; err != nil {
			return nil, err
		}
	}
	return &cart, nil
}

func findCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.Where("user_id = ?", userID).Take(&cart).Error; err != nil {
		return nil, storeErr(err, "cart not found")
	}
	return &cart, nil
}

func loadCart(tx *gorm.DB, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_line_items.id")
	}).Preload("Items.Product").First(&cart, cartID).Error
	if err != nil {
		return nil, storeErr(err, "cart not found")
	}
	return &cart, nil
}

// mergeLine inserts line or adds its quantity to the existing row for the
// same cart and product in one statement.
func mergeLine(tx *gorm.DB, line *models.CartLineItem) *gorm.DB {
	return tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_line_items.quantity + ?", line.Quantity),
		}),
	}).Create(line)
}

func validQuantity(quantity int) error {
	if quantity < 1 {
		return apperror.ValidationFields(map[string]string{"quantity": "quantity must be at least 1"})
	}
	return nil
}

func (s *cartService) GetOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := getOrCreateCart(s.db.WithContext(ctx), userID)
	if err != nil {
		logger.Error(ctx, s.logger, "Error fetching cart", zap.Uint("user_id", userID), zap.Error(err))
		return nil, apperror.Internal(err, "failed to fetch cart")
	}
	return cart, nil
}

// AddItem merges quantity into the user's line for productID. The increment
// is a single upsert statement so concurrent adds never lose an update.
func (s *cartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*models.Cart, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}

	var cart *models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("id").First(&product, productID).Error; err != nil {
			return storeErr(err, "product %d not found", productID)
		}

		c, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		line := models.CartLineItem{
			CartID:    c.ID,
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		}
		if err := mergeLine(tx, &line).Error; err != nil {
			return err
		}

		cart, err = loadCart(tx, c.ID)
		return err
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			logger.Error(ctx, s.logger, "Error adding to cart", zap.Uint("user_id", userID), zap.Error(err))
		}
		return nil, passThrough(err, "failed to add product to cart")
	}

	logger.Info(ctx, s.logger, "Cart item added",
		zap.Uint("user_id", userID), zap.Uint("product_id", productID), zap.Int("quantity", quantity))
	return cart, nil
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, productID uint, quantity int) (*models.Cart, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	cart, err := findCart(db, userID)
	if err != nil {
		return nil, err
	}

	res := db.Model(&models.CartLineItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, apperror.Internal(res.Error, "failed to update cart item")
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("product %d is not in the cart", productID)
	}

	logger.Info(ctx, s.logger, "Cart item updated",
		zap.Uint("user_id", userID), zap.Uint("product_id", productID), zap.Int("quantity", quantity))
	return loadCart(db, cart.ID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID uint) (*models.Cart, error) {
	db := s.db.WithContext(ctx)
	cart, err := findCart(db, userID)
	if err != nil {
		return nil, err
	}

	res := db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartLineItem{})
	if res.Error != nil {
		return nil, apperror.Internal(res.Error, "failed to remove cart item")
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("product %d is not in the cart", productID)
	}

	logger.Info(ctx, s.logger, "Cart item removed", zap.Uint("user_id", userID), zap.Uint("product_id", productID))
	return loadCart(db, cart.ID)
}

func (s *cartService) ViewCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return loadCart(s.db.WithContext(ctx), cart.ID)
}

// FindCart is the read-only lookup used by admin tooling; it never creates.
func (s *cartService) FindCart(ctx context.Context, userID uint) (*models.Cart, error) {
	db := s.db.WithContext(ctx)
	cart, err := findCart(db, userID)
	if err != nil {
		return nil, err
	}
	return loadCart(db, cart.ID)
}

// Checkout turns the cart lines into an order at current prices and empties
// the cart, all in one transaction.
func (s *cartService) Checkout(ctx context.Context, userID uint, in CheckoutInput) (*models.Order, error) {
	if in.PaymentMethod != nil && !in.PaymentMethod.Valid() {
		return nil, apperror.Validation("invalid payment method %q", *in.PaymentMethod)
	}
	if in.DeliveryLocation != nil && len(*in.DeliveryLocation) > 255 {
		return nil, apperror.Validation("delivery_location must be at most 255 characters")
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).Take(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Validation("cart is empty")
		}
		if err != nil {
			return err
		}

		var lines []models.CartLineItem
		if err := tx.Where("cart_id = ?", cart.ID).Order("id").Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperror.Validation("cart is empty")
		}

		input := PlaceOrderInput{DeliveryLocation: in.DeliveryLocation, PaymentMethod: in.PaymentMethod}
		for _, l := range lines {
			input.Items = append(input.Items, Selection{ProductID: l.ProductID, Quantity: l.Quantity})
		}
		order, err = placeOrder(tx, userID, input)
		if err != nil {
			return err
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartLineItem{}).Error
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			logger.Error(ctx, s.logger, "Error checking out cart", zap.Uint("user_id", userID), zap.Error(err))
		}
		return nil, passThrough(err, "failed to check out cart")
	}

	logger.Info(ctx, s.logger, "Cart checked out",
		zap.Uint("user_id", userID),
		zap.Uint("order_id", order.ID),
		zap.String("total_price", order.TotalPrice.StringFixed(2)),
	)
	return order, nil
}
