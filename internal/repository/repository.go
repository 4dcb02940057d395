package repository

import (
	"context"
	"errors"

	"invdash/internal/model"
)

// ErrNotFound is returned by single-record updates when the id is absent.
// Deletes and bulk updates never return it.
var ErrNotFound = errors.New("record not found")

// FileRepository holds file metadata. No business logic here.
type FileRepository interface {
	// CreateFile assigns the next file id plus uploadDate/createdAt and appends the record.
	CreateFile(ctx context.Context, fields model.File) (*model.File, error)
	// ListFiles returns a snapshot; mutating it does not affect the stored document.
	ListFiles(ctx context.Context) ([]model.File, error)
	// DeleteFile removes the record. A missing id is not an error.
	DeleteFile(ctx context.Context, id int) error
}

// ProductRepository holds products.
type ProductRepository interface {
	CreateProduct(ctx context.Context, fields model.Product) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	// UpdateProduct merges patch into the record and returns it, or ErrNotFound.
	UpdateProduct(ctx context.Context, id int, patch model.ProductPatch) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	// BulkUpdateProducts applies patch to every listed id that exists and
	// silently skips the rest.
	BulkUpdateProducts(ctx context.Context, ids []int, patch model.ProductPatch) error
}

// OrderRepository holds orders.
type OrderRepository interface {
	CreateOrder(ctx context.Context, fields model.Order) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrder(ctx context.Context, id int, patch model.OrderPatch) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int) error
}

// Repository is the schema owner: it initializes the document and exposes
// typed CRUD for every entity.
type Repository interface {
	FileRepository
	ProductRepository
	OrderRepository

	// Initialize saves the default document when none exists. It is a no-op otherwise.
	Initialize(ctx context.Context) error
	GetDocument(ctx context.Context) (*model.Document, error)
	ReplaceDocument(ctx context.Context, doc *model.Document) error
}
