package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"invdash/internal/model"
	"invdash/internal/service"
)

// orderView adds the computed order total.
type orderView struct {
	model.Order
	Total float64 `json:"total"`
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

func orderViews(orders []model.Order) []orderView {
	out := make([]orderView, len(orders))
	for i, o := range orders {
		out[i] = orderView{Order: o, Total: o.Total().Round(2).InexactFloat64()}
	}
	return out
}

func filterOrders(ctx context.Context, c *fiber.Ctx, svc service.OrderService) ([]model.Order, error) {
	orders, err := svc.FilterByStatus(ctx, c.Query("status", service.AllOrders))
	if err != nil {
		return nil, err
	}
	if q := c.Query("q"); q != "" {
		matches, err := svc.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		orders = intersect(orders, matches, func(o model.Order) int { return o.ID })
	}
	return orders, nil
}

// ListOrders godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Param q query string false "order number, customer name or phone"
// @Param status query string false "order status or all"
// @Success 200 {array} orderView
// @Router /api/orders [get]
func ListOrders(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := filterOrders(c.UserContext(), c, svc)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(orderViews(orders))
	}
}

// CreateOrder godoc
// @Summary Create an order
// @Description New orders start as pending, dated today.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body model.Order true "order"
// @Success 201 {object} service.Result[model.Order]
// @Failure 400 {object} service.Result[model.Order]
// @Router /api/orders [post]
func CreateOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var o model.Order
		if err := c.BodyParser(&o); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		return writeResult(c, svc.Create(c.UserContext(), o), fiber.StatusCreated)
	}
}

// UpdateOrder godoc
// @Summary Update order fields
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "order id"
// @Param patch body model.OrderPatch true "fields to change"
// @Success 200 {object} service.Result[model.Order]
// @Router /api/orders/{id} [patch]
func UpdateOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var patch model.OrderPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		return writeResult(c, svc.Update(c.UserContext(), id, patch), fiber.StatusOK)
	}
}

// UpdateOrderStatus godoc
// @Summary Change order status
// @Description Any status may follow any other.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "order id"
// @Param body body statusRequest true "new status"
// @Success 200 {object} service.Result[model.Order]
// @Router /api/orders/{id}/status [patch]
func UpdateOrderStatus(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		return writeResult(c, svc.UpdateStatus(c.UserContext(), id, req.Status), fiber.StatusOK)
	}
}

// DeleteOrder godoc
// @Summary Delete an order
// @Tags orders
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} service.Ack
// @Router /api/orders/{id} [delete]
func DeleteOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		return writeResult(c, svc.Delete(c.UserContext(), id), fiber.StatusOK)
	}
}

// OrderStats godoc
// @Summary Order aggregates
// @Tags orders
// @Produce json
// @Success 200 {object} service.OrderStats
// @Router /api/orders/stats [get]
func OrderStats(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}

// ExportOrders godoc
// @Summary Export orders as CSV
// @Tags orders
// @Produce text/csv
// @Success 200 {string} string
// @Router /api/orders/export [get]
func ExportOrders(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := filterOrders(c.UserContext(), c, svc)
		if err != nil {
			return writeServiceError(c, err)
		}
		return sendCSV(c, "orders_export.csv", svc.ExportCSV(orders))
	}
}
