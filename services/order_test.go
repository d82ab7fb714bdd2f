package services

import (
	"time"

	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *ShopSuite) placeOrder(selections ...Selection) *models.Order {
	order, err := s.orders.PlaceOrder(s.ctx, s.buyer, PlaceOrderInput{Items: selections})
	s.Require().NoError(err)
	return order
}

func (s *ShopSuite) setPrice(productID uint, price string) {
	s.Require().NoError(s.db.Model(&models.Product{}).Where("id = ?", productID).
		Update("price", decimal.RequireFromString(price)).Error)
}

func (s *ShopSuite) TestPlaceOrderComputesTotal() {
	p1 := s.createProduct("Book", "10.00")
	p2 := s.createProduct("Bookmark", "5.00")

	order := s.placeOrder(Selection{ProductID: p1, Quantity: 2}, Selection{ProductID: p2, Quantity: 1})

	s.Equal("25.00", order.TotalPrice.StringFixed(2))
	s.Equal(models.OrderStatusPending, order.Status)
	s.Require().Len(order.Items, 2)
	s.Equal("Book", order.Items[0].ProductName)
	s.Equal("10.00", order.Items[0].UnitPrice.StringFixed(2))

	stored, err := s.orders.Get(s.ctx, s.buyer, order.ID)
	s.Require().NoError(err)
	s.Equal("25.00", stored.TotalPrice.StringFixed(2))
	s.Len(stored.Items, 2)
}

func (s *ShopSuite) TestPlaceOrderMissingProductLeavesNothing() {
	p1 := s.createProduct("Book", "10.00")

	_, err := s.orders.PlaceOrder(s.ctx, s.buyer, PlaceOrderInput{Items: []Selection{
		{ProductID: p1, Quantity: 1},
		{ProductID: 4242, Quantity: 1},
	}})
	s.requireKind(err, apperror.KindNotFound)

	s.Equal(int64(0), s.count(&models.Order{}))
	s.Equal(int64(0), s.count(&models.OrderLineItem{}))
}

func (s *ShopSuite) TestPlaceOrderValidation() {
	p1 := s.createProduct("Book", "10.00")

	_, err := s.orders.PlaceOrder(s.ctx, s.buyer, PlaceOrderInput{})
	s.requireKind(err, apperror.KindValidation)

	_, err = s.orders.PlaceOrder(s.ctx, s.buyer, PlaceOrderInput{Items: []Selection{{ProductID: p1, Quantity: 0}}})
	s.requireKind(err, apperror.KindValidation)

	bogus := models.PaymentMethod("barter")
	_, err = s.orders.PlaceOrder(s.ctx, s.buyer, PlaceOrderInput{
		Items:         []Selection{{ProductID: p1, Quantity: 1}},
		PaymentMethod: &bogus,
	})
	s.requireKind(err, apperror.KindValidation)
}

func (s *ShopSuite) TestOrderTotalBeyondMoneyColumnIsRejected() {
	yacht := s.createProduct("Yacht", "60000000.00")
	oar := s.createProduct("Oar", "1.00")

	_, err := s.orders.PlaceOrder(s.ctx, s.buyer, PlaceOrderInput{Items: []Selection{{ProductID: yacht, Quantity: 2}}})
	s.requireKind(err, apperror.KindValidation)
	s.Equal(int64(0), s.count(&models.Order{}))

	order := s.placeOrder(Selection{ProductID: yacht, Quantity: 1}, Selection{ProductID: oar, Quantity: 1})
	s.Equal("60000001.00", order.TotalPrice.StringFixed(2))

	s.setPrice(yacht, "99999999.99")
	_, err = s.orders.RecalculateTotal(s.ctx, s.buyer, order.ID)
	s.requireKind(err, apperror.KindValidation)

	stored, err := s.orders.Get(s.ctx, s.buyer, order.ID)
	s.Require().NoError(err)
	s.Equal("60000001.00", stored.TotalPrice.StringFixed(2))
}

func (s *ShopSuite) TestDuplicateSelectionsStaySeparate() {
	p1 := s.createProduct("Book", "10.00")

	order := s.placeOrder(Selection{ProductID: p1, Quantity: 1}, Selection{ProductID: p1, Quantity: 2})

	s.Len(order.Items, 2)
	s.Equal("30.00", order.TotalPrice.StringFixed(2))
}

func (s *ShopSuite) TestSetStatus() {
	p1 := s.createProduct("Book", "10.00")
	order := s.placeOrder(Selection{ProductID: p1, Quantity: 1})

	_, err := s.orders.SetStatus(s.ctx, s.buyer, order.ID, models.OrderStatus("shipped"))
	s.requireKind(err, apperror.KindValidation)

	_, err = s.orders.SetStatus(s.ctx, s.buyer, order.ID, models.OrderStatusCompleted)
	s.Require().NoError(err)

	orders, err := s.orders.ListOrders(s.ctx, s.buyer)
	s.Require().NoError(err)
	s.Require().Len(orders, 1)
	s.Equal(models.OrderStatusCompleted, orders[0].Status)

	// permissive by default: a completed order can be reopened
	reopened, err := s.orders.SetStatus(s.ctx, s.buyer, order.ID, models.OrderStatusPending)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusPending, reopened.Status)
}

func (s *ShopSuite) TestStrictStatusTransitions() {
	orders := NewOrderService(s.db, true, zap.NewNop())
	p1 := s.createProduct("Book", "10.00")
	order := s.placeOrder(Selection{ProductID: p1, Quantity: 1})

	_, err := orders.SetStatus(s.ctx, s.buyer, order.ID, models.OrderStatusPending)
	s.Require().NoError(err)
	_, err = orders.SetStatus(s.ctx, s.buyer, order.ID, models.OrderStatusCompleted)
	s.Require().NoError(err)

	_, err = orders.SetStatus(s.ctx, s.buyer, order.ID, models.OrderStatusPending)
	s.requireKind(err, apperror.KindValidation)
	_, err = orders.SetStatus(s.ctx, s.buyer, order.ID, models.OrderStatusCancelled)
	s.requireKind(err, apperror.KindValidation)

	stored, err := orders.Get(s.ctx, s.buyer, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCompleted, stored.Status)
}

func (s *ShopSuite) TestFulfilmentSetters() {
	p1 := s.createProduct("Book", "10.00")
	order := s.placeOrder(Selection{ProductID: p1, Quantity: 1})

	_, err := s.orders.SetPaymentMethod(s.ctx, s.buyer, order.ID, models.PaymentMethod("gold"))
	s.requireKind(err, apperror.KindValidation)

	_, err = s.orders.SetPaymentMethod(s.ctx, s.buyer, order.ID, models.PaymentPayPal)
	s.Require().NoError(err)
	_, err = s.orders.SetDeliveryLocation(s.ctx, s.buyer, order.ID, "12 Harbour St")
	s.Require().NoError(err)
	eta := time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)
	updated, err := s.orders.SetEstimatedDeliveryTime(s.ctx, s.buyer, order.ID, eta)
	s.Require().NoError(err)

	s.Require().NotNil(updated.PaymentMethod)
	s.Equal(models.PaymentPayPal, *updated.PaymentMethod)
	s.Require().NotNil(updated.DeliveryLocation)
	s.Equal("12 Harbour St", *updated.DeliveryLocation)
	s.Require().NotNil(updated.EstimatedDeliveryTime)
	s.True(eta.Equal(*updated.EstimatedDeliveryTime))
}

func (s *ShopSuite) TestUpdateIsAllOrNothing() {
	p1 := s.createProduct("Book", "10.00")
	order := s.placeOrder(Selection{ProductID: p1, Quantity: 1})

	location := "Depot 4"
	bad := models.OrderStatus("lost")
	_, err := s.orders.Update(s.ctx, s.buyer, order.ID, OrderPatch{Status: &bad, DeliveryLocation: &location})
	s.requireKind(err, apperror.KindValidation)

	stored, err := s.orders.Get(s.ctx, s.buyer, order.ID)
	s.Require().NoError(err)
	s.Nil(stored.DeliveryLocation)
}

func (s *ShopSuite) TestOrdersAreOwnerOnly() {
	p1 := s.createProduct("Book", "10.00")
	order := s.placeOrder(Selection{ProductID: p1, Quantity: 1})
	other := s.createUser("other")

	_, err := s.orders.Get(s.ctx, other, order.ID)
	s.requireKind(err, apperror.KindNotFound)
	_, err = s.orders.SetStatus(s.ctx, other, order.ID, models.OrderStatusCancelled)
	s.requireKind(err, apperror.KindNotFound)

	orders, err := s.orders.ListOrders(s.ctx, other)
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *ShopSuite) TestListOrdersInInsertionOrder() {
	p1 := s.createProduct("Book", "10.00")
	first := s.placeOrder(Selection{ProductID: p1, Quantity: 1})
	second := s.placeOrder(Selection{ProductID: p1, Quantity: 2})

	orders, err := s.orders.ListOrders(s.ctx, s.buyer)
	s.Require().NoError(err)
	s.Require().Len(orders, 2)
	s.Equal(first.ID, orders[0].ID)
	s.Equal(second.ID, orders[1].ID)
}

func (s *ShopSuite) TestRecalculateTotal() {
	p1 := s.createProduct("Book", "10.00")
	p2 := s.createProduct("Bookmark", "5.00")
	order := s.placeOrder(Selection{ProductID: p1, Quantity: 2}, Selection{ProductID: p2, Quantity: 1})

	first, err := s.orders.RecalculateTotal(s.ctx, s.buyer, order.ID)
	s.Require().NoError(err)
	second, err := s.orders.RecalculateTotal(s.ctx, s.buyer, order.ID)
	s.Require().NoError(err)
	s.Equal("25.00", first.StringFixed(2))
	s.True(first.Equal(second))

	s.setPrice(p1, "12.50")
	repriced, err := s.orders.RecalculateTotal(s.ctx, s.buyer, order.ID)
	s.Require().NoError(err)
	s.Equal("30.00", repriced.StringFixed(2))

	stored, err := s.orders.Get(s.ctx, s.buyer, order.ID)
	s.Require().NoError(err)
	s.Equal("30.00", stored.TotalPrice.StringFixed(2))
	// the line snapshot keeps the placement price
	s.Equal("10.00", stored.Items[0].UnitPrice.StringFixed(2))
}

func (s *ShopSuite) TestRecalculateKeepsSnapshotForDeletedProduct() {
	p1 := s.createProduct("Book", "10.00")
	p2 := s.createProduct("Bookmark", "5.00")
	order := s.placeOrder(Selection{ProductID: p1, Quantity: 2}, Selection{ProductID: p2, Quantity: 1})

	s.Require().NoError(s.catalog.Delete(s.ctx, s.seller, p2))
	s.setPrice(p1, "11.00")

	total, err := s.orders.RecalculateTotal(s.ctx, s.buyer, order.ID)
	s.Require().NoError(err)
	s.Equal("27.00", total.StringFixed(2))
}

func (s *ShopSuite) TestCartToOrderScenario() {
	a := s.createProduct("A", "20.00")
	b := s.createProduct("B", "5.50")

	_, err := s.carts.AddItem(s.ctx, s.buyer, a, 1)
	s.Require().NoError(err)
	_, err = s.carts.AddItem(s.ctx, s.buyer, b, 3)
	s.Require().NoError(err)

	cart, err := s.carts.ViewCart(s.ctx, s.buyer)
	s.Require().NoError(err)
	s.Require().Len(cart.Items, 2)

	selections := make([]Selection, 0, len(cart.Items))
	for _, item := range cart.Items {
		selections = append(selections, Selection{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order := s.placeOrder(selections...)
	s.Equal("36.50", order.TotalPrice.StringFixed(2))
	s.Equal(models.OrderStatusPending, order.Status)

	orders, err := s.orders.ListOrders(s.ctx, s.buyer)
	s.Require().NoError(err)
	s.Require().Len(orders, 1)
	s.Equal(order.ID, orders[0].ID)
}
