package services

import (
	"strings"
	"sync"

	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/models"
	"gorm.io/gorm"
)

func (s *ShopSuite) TestGetOrCreateCartIsIdempotent() {
	first, err := s.carts.GetOrCreateCart(s.ctx, s.buyer)
	s.Require().NoError(err)
	second, err := s.carts.GetOrCreateCart(s.ctx, s.buyer)
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Equal(int64(1), s.count(&models.Cart{}))
}

func (s *ShopSuite) TestAddItemTwiceMergesQuantity() {
	product := s.createProduct("Mug", "8.00")

	_, err := s.carts.AddItem(s.ctx, s.buyer, product, 2)
	s.Require().NoError(err)
	cart, err := s.carts.AddItem(s.ctx, s.buyer, product, 3)
	s.Require().NoError(err)

	s.Require().Len(cart.Items, 1)
	s.Equal(5, cart.Items[0].Quantity)
	s.Equal("Mug", cart.Items[0].Product.Name)
	s.Equal("40.00", cart.Total().StringFixed(2))
}

// The test database allows a single connection, so these adds run one at a
// time. TestMergeLineIsSingleUpsert covers the statement that keeps them
// atomic on a pooled database.
func (s *ShopSuite) TestConcurrentAddItemKeepsEveryIncrement() {
	product := s.createProduct("Pen", "1.00")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.carts.AddItem(s.ctx, s.buyer, product, 1)
			s.NoError(err)
		}()
	}
	wg.Wait()

	cart, err := s.carts.ViewCart(s.ctx, s.buyer)
	s.Require().NoError(err)
	s.Require().Len(cart.Items, 1)
	s.Equal(8, cart.Items[0].Quantity)
	s.Equal(int64(1), s.count(&models.Cart{}))
}

func (s *ShopSuite) TestMergeLineIsSingleUpsert() {
	dry := s.db.Session(&gorm.Session{DryRun: true})

	stmt := mergeLine(dry, &models.CartLineItem{CartID: 1, ProductID: 2, Quantity: 3}).Statement
	sql := stmt.SQL.String()

	s.True(strings.HasPrefix(sql, "INSERT INTO"), sql)
	s.Contains(sql, "ON CONFLICT")
	s.Contains(sql, "DO UPDATE SET")
	s.Contains(sql, "cart_line_items.quantity + ?")
	s.Contains(stmt.Vars, 3)
	s.Equal(int64(0), s.count(&models.CartLineItem{}))
}

func (s *ShopSuite) TestAddItemRejectsBadInput() {
	product := s.createProduct("Lamp", "30.00")

	_, err := s.carts.AddItem(s.ctx, s.buyer, product, 0)
	s.requireKind(err, apperror.KindValidation)

	_, err = s.carts.AddItem(s.ctx, s.buyer, 9999, 1)
	s.requireKind(err, apperror.KindNotFound)
	s.Equal(int64(0), s.count(&models.CartLineItem{}))
}

func (s *ShopSuite) TestUpdateItemQuantitySetsValue() {
	product := s.createProduct("Cable", "4.00")

	_, err := s.carts.UpdateItemQuantity(s.ctx, s.buyer, product, 2)
	s.requireKind(err, apperror.KindNotFound)

	_, err = s.carts.AddItem(s.ctx, s.buyer, product, 5)
	s.Require().NoError(err)

	cart, err := s.carts.UpdateItemQuantity(s.ctx, s.buyer, product, 2)
	s.Require().NoError(err)
	s.Require().Len(cart.Items, 1)
	s.Equal(2, cart.Items[0].Quantity)

	_, err = s.carts.UpdateItemQuantity(s.ctx, s.buyer, 9999, 2)
	s.requireKind(err, apperror.KindNotFound)

	_, err = s.carts.UpdateItemQuantity(s.ctx, s.buyer, product, 0)
	s.requireKind(err, apperror.KindValidation)
}

func (s *ShopSuite) TestRemoveMissingItemLeavesCartUnchanged() {
	product := s.createProduct("Plate", "6.00")
	_, err := s.carts.AddItem(s.ctx, s.buyer, product, 1)
	s.Require().NoError(err)

	_, err = s.carts.RemoveItem(s.ctx, s.buyer, 9999)
	s.requireKind(err, apperror.KindNotFound)

	cart, err := s.carts.ViewCart(s.ctx, s.buyer)
	s.Require().NoError(err)
	s.Require().Len(cart.Items, 1)
	s.Equal(product, cart.Items[0].ProductID)

	cart, err = s.carts.RemoveItem(s.ctx, s.buyer, product)
	s.Require().NoError(err)
	s.Empty(cart.Items)
}

func (s *ShopSuite) TestRemoveItemWithoutCart() {
	_, err := s.carts.RemoveItem(s.ctx, s.buyer, 1)
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ShopSuite) TestFindCartDoesNotCreate() {
	_, err := s.carts.FindCart(s.ctx, s.buyer)
	s.requireKind(err, apperror.KindNotFound)
	s.Equal(int64(0), s.count(&models.Cart{}))
}

func (s *ShopSuite) TestCheckoutCopiesLinesAndEmptiesCart() {
	a := s.createProduct("Kettle", "20.00")
	b := s.createProduct("Tea", "5.50")
	_, err := s.carts.AddItem(s.ctx, s.buyer, a, 1)
	s.Require().NoError(err)
	_, err = s.carts.AddItem(s.ctx, s.buyer, b, 3)
	s.Require().NoError(err)

	method := models.PaymentCashOnDelivery
	order, err := s.carts.Checkout(s.ctx, s.buyer, CheckoutInput{PaymentMethod: &method})
	s.Require().NoError(err)

	s.Equal("36.50", order.TotalPrice.StringFixed(2))
	s.Equal(models.OrderStatusPending, order.Status)
	s.Require().Len(order.Items, 2)
	s.Equal("Kettle", order.Items[0].ProductName)
	s.Equal(3, order.Items[1].Quantity)

	cart, err := s.carts.ViewCart(s.ctx, s.buyer)
	s.Require().NoError(err)
	s.Empty(cart.Items)

	// later cart edits never touch the order's lines
	_, err = s.carts.AddItem(s.ctx, s.buyer, a, 4)
	s.Require().NoError(err)
	stored, err := s.orders.Get(s.ctx, s.buyer, order.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.Items[0].Quantity)
}

func (s *ShopSuite) TestCheckoutEmptyCart() {
	_, err := s.carts.Checkout(s.ctx, s.buyer, CheckoutInput{})
	s.requireKind(err, apperror.KindValidation)

	_, err = s.carts.GetOrCreateCart(s.ctx, s.buyer)
	s.Require().NoError(err)
	_, err = s.carts.Checkout(s.ctx, s.buyer, CheckoutInput{})
	s.requireKind(err, apperror.KindValidation)
	s.Equal(int64(0), s.count(&models.Order{}))
}
