package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invdash/internal/model"
	"invdash/internal/service"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, in service.UploadInput) service.Result[*model.File] {
	args := m.Called(ctx, in)
	return args.Get(0).(service.Result[*model.File])
}

func (m *MockFileService) Remove(ctx context.Context, id int) service.Ack {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Ack)
}

func (m *MockFileService) List(ctx context.Context) ([]model.File, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) ListByCategory(ctx context.Context, category string) ([]model.File, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) Search(ctx context.Context, query string) ([]model.File, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) CategoryCounts(ctx context.Context) (map[model.FileCategory]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.FileCategory]int), args.Error(1)
}

func (m *MockFileService) Preview(handle string) ([]byte, string, error) {
	args := m.Called(handle)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockFileService) ReleasePreview(handle string) bool {
	args := m.Called(handle)
	return args.Bool(0)
}

func (m *MockFileService) Download(ctx context.Context, name string) (*service.Download, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Download), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, p model.Product) service.Result[*model.Product] {
	args := m.Called(ctx, p)
	return args.Get(0).(service.Result[*model.Product])
}

func (m *MockProductService) Update(ctx context.Context, id int, patch model.ProductPatch) service.Result[*model.Product] {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(service.Result[*model.Product])
}

func (m *MockProductService) Delete(ctx context.Context, id int) service.Ack {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Ack)
}

func (m *MockProductService) BulkUpdate(ctx context.Context, ids []int, patch model.ProductPatch) service.Ack {
	args := m.Called(ctx, ids, patch)
	return args.Get(0).(service.Ack)
}

func (m *MockProductService) List(ctx context.Context) ([]model.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductService) Search(ctx context.Context, query string) ([]model.Product, error) {
	return m.products(m.Called(ctx, query))
}

func (m *MockProductService) FilterByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return m.products(m.Called(ctx, category))
}

func (m *MockProductService) FilterByStatus(ctx context.Context, status string) ([]model.Product, error) {
	return m.products(m.Called(ctx, status))
}

func (m *MockProductService) LowStock(ctx context.Context) ([]model.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductService) Stats(ctx context.Context) (service.ProductStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.ProductStats), args.Error(1)
}

func (m *MockProductService) ExportCSV(products []model.Product) string {
	args := m.Called(products)
	return args.String(0)
}

func (m *MockProductService) products(args mock.Arguments) ([]model.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, o model.Order) service.Result[*model.Order] {
	args := m.Called(ctx, o)
	return args.Get(0).(service.Result[*model.Order])
}

func (m *MockOrderService) Update(ctx context.Context, id int, patch model.OrderPatch) service.Result[*model.Order] {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(service.Result[*model.Order])
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id int, status model.OrderStatus) service.Result[*model.Order] {
	args := m.Called(ctx, id, status)
	return args.Get(0).(service.Result[*model.Order])
}

func (m *MockOrderService) Delete(ctx context.Context, id int) service.Ack {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Ack)
}

func (m *MockOrderService) List(ctx context.Context) ([]model.Order, error) {
	return m.orders(m.Called(ctx))
}

func (m *MockOrderService) Search(ctx context.Context, query string) ([]model.Order, error) {
	return m.orders(m.Called(ctx, query))
}

func (m *MockOrderService) FilterByStatus(ctx context.Context, status string) ([]model.Order, error) {
	return m.orders(m.Called(ctx, status))
}

func (m *MockOrderService) Stats(ctx context.Context) (service.OrderStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.OrderStats), args.Error(1)
}

func (m *MockOrderService) ExportCSV(orders []model.Order) string {
	args := m.Called(orders)
	return args.String(0)
}

func (m *MockOrderService) orders(args mock.Arguments) ([]model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}
