package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
	"github.com/yungbote/storefront-backend/internal/types"
)

//go:embed catalog_seed.yaml
var catalogSeedYAML []byte

type seedCatalog struct {
	Catalog  string        `yaml:"catalog"`
	Version  int           `yaml:"version"`
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	Title      string            `yaml:"title"`
	Image      string            `yaml:"image"`
	Price      float64           `yaml:"price"`
	Stock      int               `yaml:"stock"`
	Attributes map[string]string `yaml:"attributes"`
}

type CatalogSeedService interface {
	SeedInitialProducts(ctx context.Context) error
}

type catalogSeedService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ProductRepo
}

func NewCatalogSeedService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo) CatalogSeedService {
	serviceLog := log.With("service", "CatalogSeedService")
	return &catalogSeedService{db: db, log: serviceLog, productRepo: productRepo}
}

// SeedInitialProducts inserts the embedded catalog once. A non-empty catalog
// is left untouched, so reboots are no-ops.
func (ss *catalogSeedService) SeedInitialProducts(ctx context.Context) error {
	catalog, err := parseSeedCatalog(catalogSeedYAML)
	if err != nil {
		return err
	}
	count, cErr := ss.productRepo.Count(ctx, nil)
	if cErr != nil {
		return fmt.Errorf("failed to count products: %w", cErr)
	}
	if count > 0 {
		ss.log.Info("Catalog already seeded, skipping", "products", count)
		return nil
	}

	products := make([]*types.Product, 0, len(catalog.Products))
	for _, sp := range catalog.Products {
		product := &types.Product{
			ID:    uuid.New(),
			Title: sp.Title,
			Image: sp.Image,
			Price: sp.Price,
			Stock: sp.Stock,
		}
		if len(sp.Attributes) > 0 {
			raw, mErr := json.Marshal(sp.Attributes)
			if mErr != nil {
				return fmt.Errorf("failed to encode attributes for %q: %w", sp.Title, mErr)
			}
			product.Attributes = datatypes.JSON(raw)
		}
		products = append(products, product)
	}

	if err := runInTx(ctx, ss.db, func(tx *gorm.DB) error {
		_, crErr := ss.productRepo.Create(ctx, tx, products)
		return crErr
	}); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	ss.log.Info("Seeded initial products", "products", len(products))
	return nil
}

func parseSeedCatalog(raw []byte) (*seedCatalog, error) {
	var catalog seedCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}
	if len(catalog.Products) == 0 {
		return nil, fmt.Errorf("seed catalog has no products")
	}
	for i, sp := range catalog.Products {
		if sp.Title == "" {
			return nil, fmt.Errorf("seed product %d has no title", i)
		}
		if sp.Price < 0 {
			return nil, fmt.Errorf("seed product %q has negative price", sp.Title)
		}
		if sp.Stock < 0 {
			return nil, fmt.Errorf("seed product %q has negative stock", sp.Title)
		}
	}
	return &catalog, nil
}
