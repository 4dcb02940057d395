package repository

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invdash/internal/model"
	"invdash/internal/store"
	"invdash/internal/store/memory"
)

var fixedNow = time.Date(2024, 3, 9, 10, 30, 15, 123_000_000, time.UTC)

func newTestRepo(t *testing.T, st store.Store) *DocumentRepository {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewDocumentRepository(st, WithLogger(l), WithClock(func() time.Time { return fixedNow }))
}

func initialized(t *testing.T) (*DocumentRepository, *memory.Store) {
	t.Helper()
	st := memory.New()
	r := newTestRepo(t, st)
	require.NoError(t, r.Initialize(context.Background()))
	return r, st
}

func strPtr(s string) *string { return &s }

func TestDocumentRepository_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds empty store", func(t *testing.T) {
		r, _ := initialized(t)
		doc, err := r.GetDocument(ctx)
		require.NoError(t, err)

		assert.Len(t, doc.Files, 2)
		assert.Len(t, doc.Products, 2)
		assert.Empty(t, doc.Orders)
		assert.Equal(t, model.Settings{NextFileID: 3, NextProductID: 3, NextOrderID: 1}, doc.Settings)
		assert.Equal(t, "2024-03-09T10:30:15.123Z", doc.Products[0].CreatedAt)
	})

	t.Run("idempotent", func(t *testing.T) {
		r, st := initialized(t)
		_, err := r.CreateProduct(ctx, model.Product{Name: "Desk", Category: "Furniture"})
		require.NoError(t, err)
		before := st.Raw()

		require.NoError(t, r.Initialize(ctx))
		assert.Equal(t, before, st.Raw())
	})

	t.Run("corrupt data is not overwritten", func(t *testing.T) {
		st := memory.NewWithRaw("{broken")
		r := newTestRepo(t, st)

		err := r.Initialize(ctx)
		assert.ErrorIs(t, err, store.ErrCorruptData)
		assert.Equal(t, "{broken", string(st.Raw()))
	})

	t.Run("storage unavailable", func(t *testing.T) {
		st := memory.New()
		st.SetFailure(errors.New("disabled"))
		r := newTestRepo(t, st)
		assert.ErrorIs(t, r.Initialize(ctx), store.ErrStorageUnavailable)
	})
}

func TestDocumentRepository_CreateFile(t *testing.T) {
	ctx := context.Background()
	r, _ := initialized(t)

	f, err := r.CreateFile(ctx, model.File{
		ID:       99,
		Name:     "cert.pdf",
		Size:     1024,
		Type:     "application/pdf",
		Category: model.CategoryCertificates,
		URL:      "/api/files/cert.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.ID)
	assert.Equal(t, "2024-03-09", f.UploadDate)
	assert.Equal(t, "2024-03-09T10:30:15.123Z", f.CreatedAt)

	doc, err := r.GetDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Settings.NextFileID)
	assert.Equal(t, *f, doc.Files[len(doc.Files)-1])
}

func TestDocumentRepository_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	r, _ := initialized(t)

	p, err := r.CreateProduct(ctx, model.Product{Name: "Chair", Category: "Furniture"})
	require.NoError(t, err)
	assert.Equal(t, 3, p.ID)

	require.NoError(t, r.DeleteProduct(ctx, p.ID))

	next, err := r.CreateProduct(ctx, model.Product{Name: "Table", Category: "Furniture"})
	require.NoError(t, err)
	assert.Equal(t, 4, next.ID)

	doc, err := r.GetDocument(ctx)
	require.NoError(t, err)
	for _, prod := range doc.Products {
		assert.Less(t, prod.ID, doc.Settings.NextProductID)
	}
}

func TestDocumentRepository_ListFilesSnapshot(t *testing.T) {
	ctx := context.Background()
	r, _ := initialized(t)

	files, err := r.ListFiles(ctx)
	require.NoError(t, err)
	files[0].Name = "changed"

	again, err := r.ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 2)
	assert.Equal(t, "sample-product.jpg", again[0].Name)
}

func TestDocumentRepository_DeleteFile(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		id        int
		wantCount int
	}{
		{name: "existing", id: 1, wantCount: 1},
		{name: "missing id is a no-op", id: 500, wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := initialized(t)
			require.NoError(t, r.DeleteFile(ctx, tt.id))

			files, err := r.ListFiles(ctx)
			require.NoError(t, err)
			assert.Len(t, files, tt.wantCount)
		})
	}
}

func TestDocumentRepository_UpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("merges only given fields", func(t *testing.T) {
		r, _ := initialized(t)
		stock := 3
		updated, err := r.UpdateProduct(ctx, 1, model.ProductPatch{Stock: &stock})
		require.NoError(t, err)

		assert.Equal(t, 3, updated.Stock)
		assert.Equal(t, "Wireless Headphones", updated.Name)
		assert.Equal(t, 2999.0, updated.Price)
		assert.Equal(t, model.StatusActive, updated.Status)
		assert.Equal(t, "Mumbai", updated.Location)
	})

	t.Run("missing id", func(t *testing.T) {
		r, st := initialized(t)
		before := st.Raw()

		updated, err := r.UpdateProduct(ctx, 77, model.ProductPatch{Name: strPtr("x")})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, updated)
		assert.Equal(t, before, st.Raw())
	})
}

func TestDocumentRepository_DeleteProductMissing(t *testing.T) {
	ctx := context.Background()
	r, _ := initialized(t)

	require.NoError(t, r.DeleteProduct(ctx, 999))
	products, err := r.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestDocumentRepository_BulkUpdateProducts(t *testing.T) {
	ctx := context.Background()
	r, _ := initialized(t)

	inactive := model.StatusInactive
	require.NoError(t, r.BulkUpdateProducts(ctx, []int{1, 2, 99}, model.ProductPatch{Status: &inactive}))

	products, err := r.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, model.StatusInactive, p.Status)
	}
}

func TestDocumentRepository_Orders(t *testing.T) {
	ctx := context.Background()
	r, _ := initialized(t)

	o, err := r.CreateOrder(ctx, model.Order{
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		Items:         []model.OrderItem{{Name: "Desk", Quantity: 1, Price: 5000, GST: 18}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, o.ID)
	assert.Equal(t, "ORD-2024-001", o.OrderNumber)
	assert.Equal(t, model.OrderPending, o.Status)
	assert.Equal(t, "2024-03-09", o.OrderDate)

	shipped := model.OrderShipped
	updated, err := r.UpdateOrder(ctx, o.ID, model.OrderPatch{Status: &shipped})
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, updated.Status)
	assert.Equal(t, "Asha", updated.CustomerName)

	_, err = r.UpdateOrder(ctx, 40, model.OrderPatch{Status: &shipped})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.DeleteOrder(ctx, o.ID))
	require.NoError(t, r.DeleteOrder(ctx, o.ID))

	second, err := r.CreateOrder(ctx, model.Order{CustomerName: "Ravi", CustomerPhone: "1"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-2024-002", second.OrderNumber)

	orders, err := r.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestDocumentRepository_CorruptData(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, memory.NewWithRaw(`{"files":[`))

	_, err := r.ListFiles(ctx)
	assert.ErrorIs(t, err, store.ErrCorruptData)
	_, err = r.ListProducts(ctx)
	assert.ErrorIs(t, err, store.ErrCorruptData)
	_, err = r.CreateProduct(ctx, model.Product{Name: "x", Category: "y"})
	assert.ErrorIs(t, err, store.ErrCorruptData)
	assert.ErrorIs(t, r.DeleteFile(ctx, 1), store.ErrCorruptData)
}

func TestDocumentRepository_StoredDocumentCounters(t *testing.T) {
	ctx := context.Background()

	t.Run("missing settings is corrupt", func(t *testing.T) {
		r := newTestRepo(t, memory.NewWithRaw(`{"products":[{"id":1,"name":"A","category":"B"}]}`))
		_, err := r.CreateProduct(ctx, model.Product{Name: "x", Category: "y"})
		assert.ErrorIs(t, err, store.ErrCorruptData)
	})

	t.Run("lagging counter does not reissue ids", func(t *testing.T) {
		r := newTestRepo(t, memory.NewWithRaw(`{"files":[],"products":[{"id":1,"name":"A","category":"B"}],"orders":[],"settings":{"nextFileId":1,"nextProductId":0,"nextOrderId":1}}`))
		a, err := r.CreateProduct(ctx, model.Product{Name: "x", Category: "y"})
		require.NoError(t, err)
		b, err := r.CreateProduct(ctx, model.Product{Name: "z", Category: "y"})
		require.NoError(t, err)

		assert.Equal(t, 2, a.ID)
		assert.Equal(t, 3, b.ID)
		products, err := r.ListProducts(ctx)
		require.NoError(t, err)
		seen := map[int]bool{}
		for _, p := range products {
			assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
			seen[p.ID] = true
		}
	})
}

func TestDocumentRepository_SaveFailureLeavesDocument(t *testing.T) {
	ctx := context.Background()
	r, st := initialized(t)
	before := st.Raw()

	st.SetFailure(errors.New("quota exceeded"))
	_, err := r.CreateProduct(ctx, model.Product{Name: "Lamp", Category: "Home"})
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)

	st.SetFailure(nil)
	assert.Equal(t, before, st.Raw())
}

func TestDocumentRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	r, _ := initialized(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.CreateProduct(ctx, model.Product{Name: "item", Category: "bulk"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	doc, err := r.GetDocument(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Products, n+2)
	assert.Equal(t, n+3, doc.Settings.NextProductID)

	seen := map[int]bool{}
	for _, p := range doc.Products {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}
}

func TestDocumentRepository_ReplaceDocument(t *testing.T) {
	ctx := context.Background()
	r, _ := initialized(t)

	require.NoError(t, r.ReplaceDocument(ctx, &model.Document{Settings: model.Settings{NextFileID: 1, NextProductID: 1, NextOrderID: 1}}))
	doc, err := r.GetDocument(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Files)
	assert.NotNil(t, doc.Files)
}
