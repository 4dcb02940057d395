package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"invdash/internal/model"
	"invdash/internal/store"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// DocumentRepository implements Repository on top of a store.Store. Every
// mutation is a full load-modify-save of the document, serialized by a mutex
// so concurrent requests in this process cannot lose each other's writes.
// Writers in other processes sharing the same store are not guarded.
type DocumentRepository struct {
	store  store.Store
	logger logrus.FieldLogger
	tracer trace.Tracer
	now    func() time.Time
	mu     sync.Mutex
}

var _ Repository = (*DocumentRepository)(nil)

// Option configures a DocumentRepository.
type Option func(*DocumentRepository)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *DocumentRepository) { r.logger = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *DocumentRepository) { r.now = now }
}

// NewDocumentRepository creates a repository over s.
func NewDocumentRepository(s store.Store, opts ...Option) *DocumentRepository {
	r := &DocumentRepository{
		store:  s,
		logger: logrus.StandardLogger(),
		tracer: otel.Tracer("invdash/repository"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithField("component", "repository")
	return r
}

func (r *DocumentRepository) Initialize(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "repository.Initialize")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.store.Load(ctx)
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("document.seeded", false))
		return nil
	case !errors.Is(err, store.ErrNoDocument):
		fail(span, err)
		return fmt.Errorf("initialize: %w", err)
	}

	doc := defaultDocument(r.timestamp())
	if err := r.store.Save(ctx, doc); err != nil {
		fail(span, err)
		return fmt.Errorf("initialize: %w", err)
	}
	span.SetAttributes(attribute.Bool("document.seeded", true))
	r.logger.WithFields(logrus.Fields{
		"files":    len(doc.Files),
		"products": len(doc.Products),
	}).Info("seeded default document")
	return nil
}

func (r *DocumentRepository) GetDocument(ctx context.Context) (*model.Document, error) {
	ctx, span := r.tracer.Start(ctx, "repository.GetDocument")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx, span, "get document")
}

func (r *DocumentRepository) ReplaceDocument(ctx context.Context, doc *model.Document) error {
	ctx, span := r.tracer.Start(ctx, "repository.ReplaceDocument")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Save(ctx, doc); err != nil {
		fail(span, err)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) CreateFile(ctx context.Context, fields model.File) (*model.File, error) {
	var created model.File
	err := r.mutate(ctx, "CreateFile", func(doc *model.Document) error {
		now := r.now().UTC()
		created = fields
		created.ID = doc.Settings.NextFileID
		created.UploadDate = now.Format(dateLayout)
		created.CreatedAt = now.Format(timestampLayout)
		doc.Settings.NextFileID++
		doc.Files = append(doc.Files, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"file_id": created.ID, "category": created.Category}).Info("file created")
	return &created, nil
}

func (r *DocumentRepository) ListFiles(ctx context.Context) ([]model.File, error) {
	ctx, span := r.tracer.Start(ctx, "repository.ListFiles")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx, span, "list files")
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("files.count", len(doc.Files)))
	return doc.Files, nil
}

func (r *DocumentRepository) DeleteFile(ctx context.Context, id int) error {
	return r.mutate(ctx, "DeleteFile", func(doc *model.Document) error {
		doc.Files = slices.DeleteFunc(doc.Files, func(f model.File) bool { return f.ID == id })
		return nil
	})
}

func (r *DocumentRepository) CreateProduct(ctx context.Context, fields model.Product) (*model.Product, error) {
	var created model.Product
	err := r.mutate(ctx, "CreateProduct", func(doc *model.Document) error {
		created = fields
		created.ID = doc.Settings.NextProductID
		created.CreatedAt = r.timestamp()
		doc.Settings.NextProductID++
		doc.Products = append(doc.Products, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.WithField("product_id", created.ID).Info("product created")
	return &created, nil
}

func (r *DocumentRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	ctx, span := r.tracer.Start(ctx, "repository.ListProducts")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx, span, "list products")
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("products.count", len(doc.Products)))
	return doc.Products, nil
}

func (r *DocumentRepository) UpdateProduct(ctx context.Context, id int, patch model.ProductPatch) (*model.Product, error) {
	var updated model.Product
	err := r.mutate(ctx, "UpdateProduct", func(doc *model.Document) error {
		i := slices.IndexFunc(doc.Products, func(p model.Product) bool { return p.ID == id })
		if i < 0 {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		patch.Apply(&doc.Products[i])
		updated = doc.Products[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *DocumentRepository) DeleteProduct(ctx context.Context, id int) error {
	return r.mutate(ctx, "DeleteProduct", func(doc *model.Document) error {
		doc.Products = slices.DeleteFunc(doc.Products, func(p model.Product) bool { return p.ID == id })
		return nil
	})
}

func (r *DocumentRepository) BulkUpdateProducts(ctx context.Context, ids []int, patch model.ProductPatch) error {
	return r.mutate(ctx, "BulkUpdateProducts", func(doc *model.Document) error {
		matched := 0
		for i := range doc.Products {
			if slices.Contains(ids, doc.Products[i].ID) {
				patch.Apply(&doc.Products[i])
				matched++
			}
		}
		r.logger.WithFields(logrus.Fields{"requested": len(ids), "matched": matched}).Debug("bulk product update")
		return nil
	})
}

func (r *DocumentRepository) CreateOrder(ctx context.Context, fields model.Order) (*model.Order, error) {
	var created model.Order
	err := r.mutate(ctx, "CreateOrder", func(doc *model.Document) error {
		now := r.now().UTC()
		created = fields
		created.ID = doc.Settings.NextOrderID
		created.OrderNumber = fmt.Sprintf("ORD-%d-%03d", now.Year(), created.ID)
		if created.Status == "" {
			created.Status = model.OrderPending
		}
		if created.OrderDate == "" {
			created.OrderDate = now.Format(dateLayout)
		}
		doc.Settings.NextOrderID++
		doc.Orders = append(doc.Orders, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"order_id": created.ID, "order_number": created.OrderNumber}).Info("order created")
	return &created, nil
}

func (r *DocumentRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	ctx, span := r.tracer.Start(ctx, "repository.ListOrders")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.load(ctx, span, "list orders")
	if err != nil {
		return nil, err
	}
	return doc.Orders, nil
}

func (r *DocumentRepository) UpdateOrder(ctx context.Context, id int, patch model.OrderPatch) (*model.Order, error) {
	var updated model.Order
	err := r.mutate(ctx, "UpdateOrder", func(doc *model.Document) error {
		i := slices.IndexFunc(doc.Orders, func(o model.Order) bool { return o.ID == id })
		if i < 0 {
			return fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		patch.Apply(&doc.Orders[i])
		updated = doc.Orders[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *DocumentRepository) DeleteOrder(ctx context.Context, id int) error {
	return r.mutate(ctx, "DeleteOrder", func(doc *model.Document) error {
		doc.Orders = slices.DeleteFunc(doc.Orders, func(o model.Order) bool { return o.ID == id })
		return nil
	})
}

// mutate runs fn between a Load and a Save of the whole document. When fn
// fails nothing is written.
func (r *DocumentRepository) mutate(ctx context.Context, op string, fn func(doc *model.Document) error) error {
	ctx, span := r.tracer.Start(ctx, "repository."+op)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx, span, op)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		if !errors.Is(err, ErrNotFound) {
			fail(span, err)
		}
		return err
	}
	if err := r.store.Save(ctx, doc); err != nil {
		fail(span, err)
		r.logger.WithField("operation", op).WithError(err).Error("failed to save document")
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *DocumentRepository) load(ctx context.Context, span trace.Span, op string) (*model.Document, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		fail(span, err)
		r.logger.WithField("operation", op).WithError(err).Error("failed to load document")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc, nil
}

func (r *DocumentRepository) timestamp() string {
	return r.now().UTC().Format(timestampLayout)
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
