package services

import (
	"context"
	"strings"

	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/logger"
	"github.com/junaidrashid-git/shop-api/models"
	"github.com/junaidrashid-git/shop-api/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductInput struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Image       string           `json:"-"`
}

type ProductPatch struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Image       *string          `json:"-"`
}

type ProductFilter struct {
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SellerID uint
}

// ImageRemover deletes stored product images that are no longer referenced.
type ImageRemover interface {
	Remove(publicPath string) error
}

type CatalogService interface {
	Create(ctx context.Context, sellerID uint, in ProductInput) (*models.Product, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, actorID, id uint, patch ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, actorID, id uint) error
}

type catalogService struct {
	db     *gorm.DB
	images ImageRemover
	logger *zap.Logger
}

func NewCatalogService(db *gorm.DB, images ImageRemover, logger *zap.Logger) CatalogService {
	return &catalogService{db: db, images: images, logger: logger}
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperror.ValidationFields(map[string]string{"price": "price must be greater than or equal to 0"})
	}
	if price.Round(2).GreaterThan(models.MaxAmount) {
		return apperror.ValidationFields(map[string]string{"price": "price must be at most " + models.MaxAmount.StringFixed(2)})
	}
	return nil
}

func (s *catalogService) Create(ctx context.Context, sellerID uint, in ProductInput) (*models.Product, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	missing := map[string]string{}
	if in.Price == nil {
		missing["price"] = "price is required"
	}
	if in.Stock == nil {
		missing["stock"] = "stock is required"
	}
	if len(missing) > 0 {
		return nil, apperror.ValidationFields(missing)
	}
	if err := validatePrice(*in.Price); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Stock:       *in.Stock,
		Image:       in.Image,
		SellerID:    sellerID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&product).Error; err != nil {
		logger.Error(ctx, s.logger, "Error creating product", zap.Uint("seller_id", sellerID), zap.Error(err))
		return nil, apperror.Internal(err, "failed to create product")
	}

	logger.Info(ctx, s.logger, "Product created", zap.Uint("product_id", product.ID), zap.Uint("seller_id", sellerID))
	return &product, nil
}

func (s *catalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, storeErr(err, "product %d not found", id)
	}
	return &product, nil
}

func (s *catalogService) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}

	products := []models.Product{}
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, apperror.Internal(err, "failed to fetch products")
	}
	return products, nil
}

func (s *catalogService) Update(ctx context.Context, actorID, id uint, patch ProductPatch) (*models.Product, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return nil, err
		}
	}

	var product models.Product
	var replacedImage string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
			return storeErr(err, "product %d not found", id)
		}
		if product.SellerID != actorID {
			return apperror.Forbidden("only the seller can modify product %d", id)
		}

		updates := map[string]interface{}{}
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.Price != nil {
			updates["price"] = patch.Price.Round(2)
		}
		if patch.Stock != nil {
			updates["stock"] = *patch.Stock
		}
		if patch.Image != nil && *patch.Image != product.Image {
			replacedImage = product.Image
			updates["image"] = *patch.Image
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&product, id).Error
	})
	if err != nil {
		return nil, passThrough(err, "failed to update product %d", id)
	}

	s.removeImage(ctx, replacedImage)
	return &product, nil
}

func (s *catalogService) Delete(ctx context.Context, actorID, id uint) error {
	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
			return storeErr(err, "product %d not found", id)
		}
		if product.SellerID != actorID {
			return apperror.Forbidden("only the seller can delete product %d", id)
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return passThrough(err, "failed to delete product %d", id)
	}

	logger.Info(ctx, s.logger, "Product deleted", zap.Uint("product_id", id), zap.Uint("seller_id", actorID))
	s.removeImage(ctx, product.Image)
	return nil
}

func (s *catalogService) removeImage(ctx context.Context, path string) {
	if path == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(path); err != nil {
		logger.Warn(ctx, s.logger, "Error removing product image", zap.String("image", path), zap.Error(err))
	}
}
