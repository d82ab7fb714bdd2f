package services

import (
	"context"
	"sort"
	"time"

	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/logger"
	"github.com/junaidrashid-git/shop-api/models"
	"github.com/junaidrashid-git/shop-api/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Selection is one (product, quantity) pair requested at checkout.
type Selection struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type PlaceOrderInput struct {
	Items            []Selection           `json:"items" validate:"required,min=1,dive"`
	DeliveryLocation *string               `json:"delivery_location" validate:"omitempty,max=255"`
	PaymentMethod    *models.PaymentMethod `json:"payment_method"`
}

// OrderPatch carries the mutable fulfilment fields. Nil fields are left alone.
type OrderPatch struct {
	Status                *models.OrderStatus   `json:"status"`
	PaymentMethod         *models.PaymentMethod `json:"payment_method"`
	DeliveryLocation      *string               `json:"delivery_location"`
	EstimatedDeliveryTime *time.Time            `json:"estimated_delivery_time"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint, in PlaceOrderInput) (*models.Order, error)
	Get(ctx context.Context, userID, orderID uint) (*models.Order, error)
	ListOrders(ctx context.Context, userID uint) ([]models.Order, error)
	RecalculateTotal(ctx context.Context, userID, orderID uint) (decimal.Decimal, error)
	SetStatus(ctx context.Context, userID, orderID uint, status models.OrderStatus) (*models.Order, error)
	SetPaymentMethod(ctx context.Context, userID, orderID uint, method models.PaymentMethod) (*models.Order, error)
	SetDeliveryLocation(ctx context.Context, userID, orderID uint, location string) (*models.Order, error)
	SetEstimatedDeliveryTime(ctx context.Context, userID, orderID uint, at time.Time) (*models.Order, error)
	Update(ctx context.Context, userID, orderID uint, patch OrderPatch) (*models.Order, error)
}

type orderService struct {
	db           *gorm.DB
	strictStatus bool
	logger       *zap.Logger
}

// NewOrderService returns the order service. With strictStatus the only
// allowed moves are pending→completed and pending→cancelled; otherwise any
// defined status may follow any other.
func NewOrderService(db *gorm.DB, strictStatus bool, logger *zap.Logger) OrderService {
	return &orderService{db: db, strictStatus: strictStatus, logger: logger}
}

var strictTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending: {models.OrderStatusCompleted, models.OrderStatusCancelled},
}

func canTransition(strict bool, from, to models.OrderStatus) bool {
	if !strict || from == to {
		return true
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func validatePlaceOrder(in PlaceOrderInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if in.PaymentMethod != nil && !in.PaymentMethod.Valid() {
		return apperror.Validation("invalid payment method %q", *in.PaymentMethod)
	}
	return nil
}

func checkTotal(total decimal.Decimal) error {
	if total.GreaterThan(models.MaxAmount) {
		return apperror.ValidationFields(map[string]string{
			"items": "order total must be at most " + models.MaxAmount.StringFixed(2),
		})
	}
	return nil
}

// placeOrder snapshots the selected products' current prices and inserts
// the order with all its lines. It must run inside tx so a failure leaves
// nothing behind.
func placeOrder(tx *gorm.DB, userID uint, in PlaceOrderInput) (*models.Order, error) {
	ids := make([]uint, 0, len(in.Items))
	seen := make(map[uint]bool, len(in.Items))
	for _, sel := range in.Items {
		if !seen[sel.ProductID] {
			seen[sel.ProductID] = true
			ids = append(ids, sel.ProductID)
		}
	}
	// fixed lock order across concurrent checkouts
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var products []models.Product
	if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	order := models.Order{
		UserID:           userID,
		Status:           models.OrderStatusPending,
		PaymentMethod:    in.PaymentMethod,
		DeliveryLocation: in.DeliveryLocation,
		TotalPrice:       decimal.Zero,
	}
	for _, sel := range in.Items {
		product, ok := byID[sel.ProductID]
		if !ok {
			return nil, apperror.NotFound("product %d not found", sel.ProductID)
		}
		line := models.OrderLineItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    sel.Quantity,
		}
		order.TotalPrice = order.TotalPrice.Add(line.Subtotal())
		order.Items = append(order.Items, line)
	}
	if err := checkTotal(order.TotalPrice); err != nil {
		return nil, err
	}

	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) PlaceOrder(ctx context.Context, userID uint, in PlaceOrderInput) (*models.Order, error) {
	if err := validatePlaceOrder(in); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = placeOrder(tx, userID, in)
		return err
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			logger.Error(ctx, s.logger, "Error placing order", zap.Uint("user_id", userID), zap.Error(err))
		}
		return nil, passThrough(err, "failed to place order")
	}

	logger.Info(ctx, s.logger, "Order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.String("total_price", order.TotalPrice.StringFixed(2)),
		zap.Int("lines", len(order.Items)),
	)
	return order, nil
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Order("order_line_items.id")
}

func (s *orderService) Get(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items", preloadLines).
		Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		return nil, storeErr(err, "order %d not found", orderID)
	}
	return &order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).Preload("Items", preloadLines).
		Where("user_id = ?", userID).Order("id").Find(&orders).Error
	if err != nil {
		return nil, apperror.Internal(err, "failed to fetch orders")
	}
	return orders, nil
}

func lockOwnedOrder(tx *gorm.DB, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		return nil, storeErr(err, "order %d not found", orderID)
	}
	return &order, nil
}

// RecalculateTotal reprices the order from the live prices of its products.
// Lines whose product no longer exists keep their placement price.
func (s *orderService) RecalculateTotal(ctx context.Context, userID, orderID uint) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOwnedOrder(tx, userID, orderID)
		if err != nil {
			return err
		}

		var lines []models.OrderLineItem
		if err := tx.Where("order_id = ?", order.ID).Order("id").Find(&lines).Error; err != nil {
			return err
		}
		ids := make([]uint, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}

		prices := map[uint]decimal.Decimal{}
		if len(ids) > 0 {
			var products []models.Product
			if err := tx.Select("id", "price").Where("id IN ?", ids).Find(&products).Error; err != nil {
				return err
			}
			for _, p := range products {
				prices[p.ID] = p.Price
			}
		}

		for _, l := range lines {
			price, ok := prices[l.ProductID]
			if !ok {
				logger.Warn(ctx, s.logger, "Product gone, keeping snapshot price",
					zap.Uint("order_id", order.ID), zap.Uint("product_id", l.ProductID))
				price = l.UnitPrice
			}
			total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		if err := checkTotal(total); err != nil {
			return err
		}

		return tx.Model(order).Update("total_price", total).Error
	})
	if err != nil {
		return decimal.Zero, passThrough(err, "failed to recalculate order %d", orderID)
	}

	logger.Info(ctx, s.logger, "Order total recalculated",
		zap.Uint("order_id", orderID), zap.String("total_price", total.StringFixed(2)))
	return total, nil
}

func (s *orderService) SetStatus(ctx context.Context, userID, orderID uint, status models.OrderStatus) (*models.Order, error) {
	return s.Update(ctx, userID, orderID, OrderPatch{Status: &status})
}

func (s *orderService) SetPaymentMethod(ctx context.Context, userID, orderID uint, method models.PaymentMethod) (*models.Order, error) {
	return s.Update(ctx, userID, orderID, OrderPatch{PaymentMethod: &method})
}

func (s *orderService) SetDeliveryLocation(ctx context.Context, userID, orderID uint, location string) (*models.Order, error) {
	return s.Update(ctx, userID, orderID, OrderPatch{DeliveryLocation: &location})
}

func (s *orderService) SetEstimatedDeliveryTime(ctx context.Context, userID, orderID uint, at time.Time) (*models.Order, error) {
	return s.Update(ctx, userID, orderID, OrderPatch{EstimatedDeliveryTime: &at})
}

// Update applies every non-nil field of patch in one transaction.
func (s *orderService) Update(ctx context.Context, userID, orderID uint, patch OrderPatch) (*models.Order, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperror.Validation("invalid status %q", *patch.Status)
	}
	if patch.PaymentMethod != nil && !patch.PaymentMethod.Valid() {
		return nil, apperror.Validation("invalid payment method %q", *patch.PaymentMethod)
	}
	if patch.DeliveryLocation != nil && len(*patch.DeliveryLocation) > 255 {
		return nil, apperror.Validation("delivery_location must be at most 255 characters")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOwnedOrder(tx, userID, orderID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if patch.Status != nil {
			if !canTransition(s.strictStatus, order.Status, *patch.Status) {
				return apperror.Validation("cannot change order status from %s to %s", order.Status, *patch.Status)
			}
			updates["status"] = *patch.Status
		}
		if patch.PaymentMethod != nil {
			updates["payment_method"] = *patch.PaymentMethod
		}
		if patch.DeliveryLocation != nil {
			updates["delivery_location"] = *patch.DeliveryLocation
		}
		if patch.EstimatedDeliveryTime != nil {
			updates["estimated_delivery_time"] = *patch.EstimatedDeliveryTime
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(order).Updates(updates).Error
	})
	if err != nil {
		return nil, passThrough(err, "failed to update order %d", orderID)
	}

	logger.Info(ctx, s.logger, "Order updated", zap.Uint("order_id", orderID), zap.Uint("user_id", userID))
	return s.Get(ctx, userID, orderID)
}
