package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"invdash/internal/metrics"
	"invdash/internal/model"
	"invdash/internal/repository"
	"invdash/internal/validation"
)

// AllOrders disables the status filter of FilterByStatus.
const AllOrders = "all"

// OrderStats aggregates the current order list. Revenue sums the totals of
// every order, cancelled ones included.
type OrderStats struct {
	Total      int     `json:"total"`
	Pending    int     `json:"pending"`
	Processing int     `json:"processing"`
	Revenue    float64 `json:"revenue"`
}

// OrderService manages customer orders. Status changes are unrestricted:
// any status may follow any other.
type OrderService interface {
	// Create stores a new pending order dated today.
	Create(ctx context.Context, o model.Order) Result[*model.Order]
	Update(ctx context.Context, id int, patch model.OrderPatch) Result[*model.Order]
	UpdateStatus(ctx context.Context, id int, status model.OrderStatus) Result[*model.Order]
	Delete(ctx context.Context, id int) Ack

	List(ctx context.Context) ([]model.Order, error)
	// Search matches order number and customer name case-insensitively and
	// the phone number as a plain substring.
	Search(ctx context.Context, query string) ([]model.Order, error)
	FilterByStatus(ctx context.Context, status string) ([]model.Order, error)
	Stats(ctx context.Context) (OrderStats, error)

	ExportCSV(orders []model.Order) string
}

type orderService struct {
	repo      repository.OrderRepository
	inventory *metrics.Inventory
	logger    logrus.FieldLogger
}

// NewOrderService builds an OrderService. inventory may be nil.
func NewOrderService(repo repository.OrderRepository, inventory *metrics.Inventory, logger logrus.FieldLogger) OrderService {
	return &orderService{
		repo:      repo,
		inventory: inventory,
		logger:    loggerOrDiscard(logger).WithField("component", "order_service"),
	}
}

func (s *orderService) Create(ctx context.Context, o model.Order) Result[*model.Order] {
	if err := validation.Struct(o); err != nil {
		return Fail[*model.Order](err)
	}
	o.Status = model.OrderPending
	o.OrderDate = ""
	created, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		return Fail[*model.Order](err)
	}
	s.logger.WithFields(logrus.Fields{
		"order_number": created.OrderNumber,
		"items":        len(created.Items),
	}).Info("order created")
	s.refresh(ctx)
	return Succeed(created)
}

func (s *orderService) Update(ctx context.Context, id int, patch model.OrderPatch) Result[*model.Order] {
	if err := validation.Struct(patch); err != nil {
		return Fail[*model.Order](err)
	}
	updated, err := s.repo.UpdateOrder(ctx, id, patch)
	if err != nil {
		return Fail[*model.Order](err)
	}
	s.refresh(ctx)
	return Succeed(updated)
}

func (s *orderService) UpdateStatus(ctx context.Context, id int, status model.OrderStatus) Result[*model.Order] {
	if !status.Valid() {
		return Fail[*model.Order](validation.Field("status", fmt.Sprintf("status %q is not a valid order status", status)))
	}
	return s.Update(ctx, id, model.OrderPatch{Status: &status})
}

func (s *orderService) Delete(ctx context.Context, id int) Ack {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return Fail[any](err)
	}
	s.refresh(ctx)
	return Acked()
}

func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *orderService) Search(ctx context.Context, query string) ([]model.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return filter(orders, func(o model.Order) bool {
		return containsFold(o.OrderNumber, query) ||
			containsFold(o.CustomerName, query) ||
			strings.Contains(o.CustomerPhone, query)
	}), nil
}

func (s *orderService) FilterByStatus(ctx context.Context, status string) ([]model.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil || status == AllOrders {
		return orders, err
	}
	return filter(orders, func(o model.Order) bool { return string(o.Status) == status }), nil
}

func (s *orderService) Stats(ctx context.Context) (OrderStats, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return OrderStats{}, err
	}
	stats := OrderStats{Total: len(orders)}
	revenue := decimal.Zero
	for _, o := range orders {
		switch o.Status {
		case model.OrderPending:
			stats.Pending++
		case model.OrderProcessing:
			stats.Processing++
		}
		revenue = revenue.Add(o.Total())
	}
	stats.Revenue = revenue.Round(2).InexactFloat64()
	s.inventory.SetOpenOrders(stats.Pending + stats.Processing)
	return stats, nil
}

func (s *orderService) ExportCSV(orders []model.Order) string {
	return ordersCSV(orders)
}

func (s *orderService) refresh(ctx context.Context) {
	if s.inventory == nil {
		return
	}
	if _, err := s.Stats(ctx); err != nil {
		s.logger.WithError(err).Warn("refresh order gauges")
	}
}
