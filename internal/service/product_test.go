package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invdash/internal/metrics"
	"invdash/internal/model"
	"invdash/internal/repository"
	repoMocks "invdash/internal/repository/mocks"
	"invdash/internal/store"
	"invdash/internal/store/memory"
	"invdash/internal/validation"
)

func newMemoryRepo(t *testing.T, doc *model.Document) *repository.DocumentRepository {
	t.Helper()
	st := memory.New()
	require.NoError(t, st.Save(context.Background(), doc))
	return repository.NewDocumentRepository(st, repository.WithLogger(loggerOrDiscard(nil)))
}

func intPtr(v int) *int { return &v }

func productIDs(products []model.Product) []int {
	ids := []int{}
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		product    model.Product
		setupMocks func(mRepo *repoMocks.MockRepository)
		wantErr    error
	}{
		{
			name:    "defaults status to Active",
			product: model.Product{Name: "Lamp", Category: "Home", Price: 10, Stock: 1},
			setupMocks: func(mRepo *repoMocks.MockRepository) {
				mRepo.On("CreateProduct", ctx, mock.MatchedBy(func(p model.Product) bool {
					return p.Status == model.StatusActive
				})).Return(&model.Product{ID: 3, Name: "Lamp"}, nil)
			},
		},
		{
			name:       "negative price rejected",
			product:    model.Product{Name: "Lamp", Category: "Home", Price: -5},
			setupMocks: func(mRepo *repoMocks.MockRepository) {},
			wantErr:    validation.ErrValidation,
		},
		{
			name:    "store failure propagates",
			product: model.Product{Name: "Lamp", Category: "Home"},
			setupMocks: func(mRepo *repoMocks.MockRepository) {
				mRepo.On("CreateProduct", ctx, mock.Anything).Return(nil, store.ErrCorruptData)
			},
			wantErr: store.ErrCorruptData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockRepository)
			tt.setupMocks(mRepo)
			svc := NewProductService(mRepo, nil, nil)

			res := svc.Create(ctx, tt.product)
			if tt.wantErr != nil {
				assert.False(t, res.Success)
				assert.ErrorIs(t, res.Err(), tt.wantErr)
				assert.Nil(t, res.Data)
			} else {
				assert.True(t, res.Success)
				assert.Equal(t, 3, res.Data.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(newMemoryRepo(t, &model.Document{}), nil, nil)

	stock := 1
	res := svc.Update(ctx, 42, model.ProductPatch{Stock: &stock})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err(), repository.ErrNotFound)
}

func TestProductService_LowStockIsFresh(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t, &model.Document{
		Products: []model.Product{
			{ID: 1, Name: "Cable", Category: "Electronics", Stock: 5, MinStock: intPtr(10), Status: model.StatusActive},
			{ID: 2, Name: "Mouse", Category: "Electronics", Stock: 10, Status: model.StatusActive},
			{ID: 3, Name: "Desk", Category: "Furniture", Stock: 11, Status: model.StatusActive},
			{ID: 4, Name: "Pin", Category: "Office", Stock: 0, MinStock: intPtr(0), Status: model.StatusActive},
		},
		Settings: model.Settings{NextFileID: 1, NextProductID: 5, NextOrderID: 1},
	})
	svc := NewProductService(repo, nil, nil)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, productIDs(low))

	stock := 20
	require.True(t, svc.Update(ctx, 1, model.ProductPatch{Stock: &stock}).Success)

	low, err = svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, productIDs(low))
}

func TestProductService_Stats(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t, &model.Document{
		Products: []model.Product{
			{ID: 1, Name: "A", Category: "X", Price: 100, Stock: 5, Status: model.StatusActive},
			{ID: 2, Name: "B", Category: "X", Price: 50, Stock: 2, Status: model.StatusInactive},
		},
		Settings: model.Settings{NextFileID: 1, NextProductID: 3, NextOrderID: 1},
	})

	reg := prometheus.NewRegistry()
	inv, err := metrics.NewInventory(reg)
	require.NoError(t, err)
	svc := NewProductService(repo, inv, nil)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, ProductStats{Total: 2, Active: 1, LowStock: 2, TotalValue: 600}, stats)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		values[mf.GetName()] = mf.GetMetric()[0].GetGauge().GetValue()
	}
	assert.Equal(t, 600.0, values["inventory_value_rupees"])
	assert.Equal(t, 2.0, values["inventory_products_total"])
}

func TestProductService_Queries(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t, &model.Document{
		Products: []model.Product{
			{ID: 1, Name: "Wireless Headphones", Category: "Electronics", HSN: "85183000", Status: model.StatusActive},
			{ID: 2, Name: "Cotton T-Shirt", Category: "Clothing & Textiles", HSN: "61091000", Status: model.StatusActive},
			{ID: 3, Name: "Old Radio", Category: "Electronics", Status: model.StatusInactive},
		},
		Settings: model.Settings{NextFileID: 1, NextProductID: 4, NextOrderID: 1},
	})
	svc := NewProductService(repo, nil, nil)

	tests := []struct {
		name    string
		run     func() ([]model.Product, error)
		wantIDs []int
	}{
		{name: "search name", run: func() ([]model.Product, error) { return svc.Search(ctx, "headPHONES") }, wantIDs: []int{1}},
		{name: "search category", run: func() ([]model.Product, error) { return svc.Search(ctx, "electronics") }, wantIDs: []int{1, 3}},
		{name: "search hsn", run: func() ([]model.Product, error) { return svc.Search(ctx, "6109") }, wantIDs: []int{2}},
		{name: "category All", run: func() ([]model.Product, error) { return svc.FilterByCategory(ctx, AllProducts) }, wantIDs: []int{1, 2, 3}},
		{name: "category exact", run: func() ([]model.Product, error) { return svc.FilterByCategory(ctx, "Electronics") }, wantIDs: []int{1, 3}},
		{name: "category is case sensitive", run: func() ([]model.Product, error) { return svc.FilterByCategory(ctx, "electronics") }, wantIDs: []int{}},
		{name: "status Inactive", run: func() ([]model.Product, error) { return svc.FilterByStatus(ctx, "Inactive") }, wantIDs: []int{3}},
		{name: "status All", run: func() ([]model.Product, error) { return svc.FilterByStatus(ctx, AllProducts) }, wantIDs: []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, productIDs(got))
		})
	}
}

func TestProductService_BulkUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo(t, &model.Document{
		Products: []model.Product{
			{ID: 1, Name: "A", Category: "X", Status: model.StatusActive},
			{ID: 2, Name: "B", Category: "X", Status: model.StatusActive},
			{ID: 3, Name: "C", Category: "X", Status: model.StatusActive},
		},
		Settings: model.Settings{NextFileID: 1, NextProductID: 4, NextOrderID: 1},
	})
	svc := NewProductService(repo, nil, nil)

	inactive := model.StatusInactive
	res := svc.BulkUpdate(ctx, []int{1, 2, 404}, model.ProductPatch{Status: &inactive})
	require.True(t, res.Success, res.Error)

	inactiveOnes, err := svc.FilterByStatus(ctx, "Inactive")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, productIDs(inactiveOnes))

	bad := model.ProductStatus("Archived")
	res = svc.BulkUpdate(ctx, []int{3}, model.ProductPatch{Status: &bad})
	assert.ErrorIs(t, res.Err(), validation.ErrValidation)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id leaves list unchanged", func(t *testing.T) {
		repo := newMemoryRepo(t, &model.Document{
			Products: []model.Product{{ID: 1, Name: "A", Category: "X"}},
			Settings: model.Settings{NextFileID: 1, NextProductID: 2, NextOrderID: 1},
		})
		svc := NewProductService(repo, nil, nil)

		assert.True(t, svc.Delete(ctx, 9).Success)
		products, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("store failure", func(t *testing.T) {
		mRepo := new(repoMocks.MockRepository)
		mRepo.On("DeleteProduct", ctx, 1).Return(errors.New("disk full"))
		svc := NewProductService(mRepo, nil, nil)

		res := svc.Delete(ctx, 1)
		assert.False(t, res.Success)
		assert.Equal(t, "disk full", res.Error)
	})
}

func TestProductService_ExportCSV(t *testing.T) {
	svc := NewProductService(new(repoMocks.MockRepository), nil, nil)

	out := svc.ExportCSV([]model.Product{
		{Name: "Wireless Headphones", Category: "Electronics", Price: 2999, Stock: 50, GST: 18, HSN: "85183000", Status: model.StatusActive, Location: "Mumbai"},
		{Name: "Bolt, steel", Category: "Hardware", Price: 2.5, Stock: 100, Status: model.StatusInactive},
	})

	assert.Equal(t,
		"Name,Category,Price (₹),Stock,GST (%),HSN Code,Status,Location\n"+
			"Wireless Headphones,Electronics,2999,50,18,85183000,Active,Mumbai\n"+
			"Bolt, steel,Hardware,2.5,100,18,,Inactive,Mumbai",
		out)
}
