package services

import (
	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/models"
	"github.com/shopspring/decimal"
)

func (s *ShopSuite) TestCreateProductValidation() {
	valid := func() ProductInput {
		return ProductInput{Name: "Chair", Description: "oak", Price: decimalPtr("1"), Stock: intPtr(0)}
	}

	in := valid()
	in.Name = ""
	_, err := s.catalog.Create(s.ctx, s.seller, in)
	s.requireKind(err, apperror.KindValidation)

	in = valid()
	in.Description = ""
	_, err = s.catalog.Create(s.ctx, s.seller, in)
	s.requireKind(err, apperror.KindValidation)

	in = valid()
	in.Price = decimalPtr("-1")
	_, err = s.catalog.Create(s.ctx, s.seller, in)
	s.requireKind(err, apperror.KindValidation)

	in = valid()
	in.Price = decimalPtr("100000000")
	_, err = s.catalog.Create(s.ctx, s.seller, in)
	s.requireKind(err, apperror.KindValidation)

	in = valid()
	in.Stock = intPtr(-2)
	_, err = s.catalog.Create(s.ctx, s.seller, in)
	s.requireKind(err, apperror.KindValidation)
	s.Equal(int64(0), s.count(&models.Product{}))
}

func (s *ShopSuite) TestCreateProductRequiresPriceAndStock() {
	_, err := s.catalog.Create(s.ctx, s.seller, ProductInput{Name: "Free lunch", Description: "nothing"})
	s.requireKind(err, apperror.KindValidation)

	var appErr *apperror.Error
	s.Require().ErrorAs(err, &appErr)
	s.Contains(appErr.Details, "price")
	s.Contains(appErr.Details, "stock")
	s.Equal(int64(0), s.count(&models.Product{}))

	product, err := s.catalog.Create(s.ctx, s.seller, ProductInput{
		Name: "Sample", Description: "giveaway", Price: decimalPtr("0"), Stock: intPtr(0),
	})
	s.Require().NoError(err)
	s.True(product.Price.IsZero())
	s.Equal(0, product.Stock)
}

func (s *ShopSuite) TestGetMissingProduct() {
	_, err := s.catalog.Get(s.ctx, 77)
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ShopSuite) TestListProductsFilters() {
	s.createProduct("Red Chair", "40.00")
	s.createProduct("Blue Table", "120.00")
	s.createProduct("Red Lamp", "15.00")

	all, err := s.catalog.List(s.ctx, ProductFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)

	red, err := s.catalog.List(s.ctx, ProductFilter{Search: "red"})
	s.Require().NoError(err)
	s.Len(red, 2)

	max := decimal.RequireFromString("50")
	cheapRed, err := s.catalog.List(s.ctx, ProductFilter{Search: "RED", MaxPrice: &max, MinPrice: &decimal.Zero})
	s.Require().NoError(err)
	s.Require().Len(cheapRed, 2)
	s.Equal("Red Chair", cheapRed[0].Name)

	none, err := s.catalog.List(s.ctx, ProductFilter{SellerID: s.buyer})
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *ShopSuite) TestOnlySellerEditsProduct() {
	id := s.createProduct("Desk", "99.00")

	name := "Stolen Desk"
	_, err := s.catalog.Update(s.ctx, s.buyer, id, ProductPatch{Name: &name})
	s.requireKind(err, apperror.KindForbidden)
	s.requireKind(s.catalog.Delete(s.ctx, s.buyer, id), apperror.KindForbidden)

	product, err := s.catalog.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Desk", product.Name)
}

func (s *ShopSuite) TestUpdateProductPartial() {
	id := s.createProduct("Desk", "99.00")

	price := decimal.RequireFromString("89.50")
	image := "/uploads/products/1_desk.png"
	updated, err := s.catalog.Update(s.ctx, s.seller, id, ProductPatch{Price: &price, Image: &image})
	s.Require().NoError(err)
	s.Equal("Desk", updated.Name)
	s.Equal("89.50", updated.Price.StringFixed(2))
	s.Equal(image, updated.Image)
	s.Empty(s.images.removed)

	next := "/uploads/products/2_desk.png"
	_, err = s.catalog.Update(s.ctx, s.seller, id, ProductPatch{Image: &next})
	s.Require().NoError(err)
	s.Equal([]string{image}, s.images.removed)

	negative := decimal.NewFromInt(-5)
	_, err = s.catalog.Update(s.ctx, s.seller, id, ProductPatch{Price: &negative})
	s.requireKind(err, apperror.KindValidation)

	_, err = s.catalog.Update(s.ctx, s.seller, id, ProductPatch{Price: decimalPtr("123456789.00")})
	s.requireKind(err, apperror.KindValidation)
}

func (s *ShopSuite) TestDeleteProductRemovesCartLines() {
	id := s.createProduct("Desk", "99.00")
	_, err := s.carts.AddItem(s.ctx, s.buyer, id, 1)
	s.Require().NoError(err)

	s.Require().NoError(s.catalog.Delete(s.ctx, s.seller, id))

	_, err = s.catalog.Get(s.ctx, id)
	s.requireKind(err, apperror.KindNotFound)
	s.requireKind(s.catalog.Delete(s.ctx, s.seller, id), apperror.KindNotFound)
	s.Equal(int64(0), s.count(&models.CartLineItem{}))
}
