package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
	"github.com/yungbote/storefront-backend/internal/types"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]*types.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error)
}

type productService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ProductRepo
}

func NewProductService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo) ProductService {
	serviceLog := log.With("service", "ProductService")
	return &productService{db: db, log: serviceLog, productRepo: productRepo}
}

func (ps *productService) ListProducts(ctx context.Context) ([]*types.Product, error) {
	products, err := ps.productRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}
	if products == nil {
		products = []*types.Product{}
	}
	return products, nil
}

func (ps *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
	products, err := ps.productRepo.GetByIDs(ctx, nil, []uuid.UUID{productID})
	if err != nil {
		return nil, fmt.Errorf("error fetching product: %w", err)
	}
	if len(products) == 0 || products[0] == nil {
		return nil, ErrProductNotFound
	}
	return products[0], nil
}
