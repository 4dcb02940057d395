package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"invdash/internal/metrics"
	"invdash/internal/model"
	"invdash/internal/repository"
	"invdash/internal/validation"
)

// AllProducts disables the category and status filters.
const AllProducts = "All"

// ProductStats aggregates the current product list. TotalValue covers every
// product regardless of status.
type ProductStats struct {
	Total      int     `json:"total"`
	Active     int     `json:"active"`
	LowStock   int     `json:"lowStock"`
	TotalValue float64 `json:"totalValue"`
}

// ProductService is the business layer over product storage. Reads are
// recomputed from the stored document on every call.
type ProductService interface {
	Create(ctx context.Context, p model.Product) Result[*model.Product]
	Update(ctx context.Context, id int, patch model.ProductPatch) Result[*model.Product]
	Delete(ctx context.Context, id int) Ack
	// BulkUpdate applies patch to every listed product; unknown ids are skipped.
	BulkUpdate(ctx context.Context, ids []int, patch model.ProductPatch) Ack

	List(ctx context.Context) ([]model.Product, error)
	// Search matches name and category case-insensitively and hsn as a substring.
	Search(ctx context.Context, query string) ([]model.Product, error)
	FilterByCategory(ctx context.Context, category string) ([]model.Product, error)
	FilterByStatus(ctx context.Context, status string) ([]model.Product, error)
	// LowStock returns products with stock <= minStock (10 when unset).
	LowStock(ctx context.Context) ([]model.Product, error)
	Stats(ctx context.Context) (ProductStats, error)

	ExportCSV(products []model.Product) string
}

type productService struct {
	repo      repository.ProductRepository
	inventory *metrics.Inventory
	logger    logrus.FieldLogger
}

// NewProductService builds a ProductService. inventory may be nil.
func NewProductService(repo repository.ProductRepository, inventory *metrics.Inventory, logger logrus.FieldLogger) ProductService {
	return &productService{
		repo:      repo,
		inventory: inventory,
		logger:    loggerOrDiscard(logger).WithField("component", "product_service"),
	}
}

func (s *productService) Create(ctx context.Context, p model.Product) Result[*model.Product] {
	if p.Status == "" {
		p.Status = model.StatusActive
	}
	if err := validation.Struct(p); err != nil {
		return Fail[*model.Product](err)
	}
	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return Fail[*model.Product](err)
	}
	s.refresh(ctx)
	return Succeed(created)
}

func (s *productService) Update(ctx context.Context, id int, patch model.ProductPatch) Result[*model.Product] {
	if err := validation.Struct(patch); err != nil {
		return Fail[*model.Product](err)
	}
	updated, err := s.repo.UpdateProduct(ctx, id, patch)
	if err != nil {
		return Fail[*model.Product](err)
	}
	s.refresh(ctx)
	return Succeed(updated)
}

func (s *productService) Delete(ctx context.Context, id int) Ack {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return Fail[any](err)
	}
	s.refresh(ctx)
	return Acked()
}

func (s *productService) BulkUpdate(ctx context.Context, ids []int, patch model.ProductPatch) Ack {
	if err := validation.Struct(patch); err != nil {
		return Fail[any](err)
	}
	if err := s.repo.BulkUpdateProducts(ctx, ids, patch); err != nil {
		return Fail[any](err)
	}
	s.refresh(ctx)
	return Acked()
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *productService) Search(ctx context.Context, query string) ([]model.Product, error) {
	return s.where(ctx, func(p model.Product) bool {
		return containsFold(p.Name, query) ||
			containsFold(p.Category, query) ||
			(p.HSN != "" && strings.Contains(p.HSN, query))
	})
}

func (s *productService) FilterByCategory(ctx context.Context, category string) ([]model.Product, error) {
	if category == AllProducts {
		return s.List(ctx)
	}
	return s.where(ctx, func(p model.Product) bool { return p.Category == category })
}

func (s *productService) FilterByStatus(ctx context.Context, status string) ([]model.Product, error) {
	if status == AllProducts {
		return s.List(ctx)
	}
	return s.where(ctx, func(p model.Product) bool { return string(p.Status) == status })
}

func (s *productService) LowStock(ctx context.Context) ([]model.Product, error) {
	return s.where(ctx, model.Product.IsLowStock)
}

func (s *productService) Stats(ctx context.Context) (ProductStats, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return ProductStats{}, err
	}
	stats := computeProductStats(products)
	s.inventory.SetProducts(stats.Total, stats.LowStock, stats.TotalValue)
	return stats, nil
}

func (s *productService) ExportCSV(products []model.Product) string {
	return productsCSV(products)
}

func (s *productService) where(ctx context.Context, keep func(model.Product) bool) ([]model.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return filter(products, keep), nil
}

// refresh updates the inventory gauges after a write. Failures only affect
// metrics and are logged.
func (s *productService) refresh(ctx context.Context) {
	if s.inventory == nil {
		return
	}
	if _, err := s.Stats(ctx); err != nil {
		s.logger.WithError(err).Warn("refresh inventory gauges")
	}
}

func computeProductStats(products []model.Product) ProductStats {
	stats := ProductStats{Total: len(products)}
	value := decimal.Zero
	for _, p := range products {
		if p.Status == model.StatusActive {
			stats.Active++
		}
		if p.IsLowStock() {
			stats.LowStock++
		}
		value = value.Add(p.StockValue())
	}
	stats.TotalValue = value.InexactFloat64()
	return stats
}
