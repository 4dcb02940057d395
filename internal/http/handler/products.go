package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"invdash/internal/model"
	"invdash/internal/service"
)

// bulkUpdateRequest is the body of POST /api/products/bulk.
type bulkUpdateRequest struct {
	IDs   []int              `json:"ids"`
	Patch model.ProductPatch `json:"patch"`
}

func productKey(p model.Product) int { return p.ID }

// filterProducts applies the q, category and status query parameters. Each
// one narrows the result of the previous.
func filterProducts(ctx context.Context, c *fiber.Ctx, svc service.ProductService) ([]model.Product, error) {
	products, err := svc.FilterByCategory(ctx, c.Query("category", service.AllProducts))
	if err != nil {
		return nil, err
	}
	if status := c.Query("status", service.AllProducts); status != service.AllProducts {
		byStatus, err := svc.FilterByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		products = intersect(products, byStatus, productKey)
	}
	if q := c.Query("q"); q != "" {
		matches, err := svc.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		products = intersect(products, matches, productKey)
	}
	return products, nil
}

func productViews(products []model.Product) []model.ProductView {
	out := make([]model.ProductView, len(products))
	for i, p := range products {
		out[i] = model.NewProductView(p)
	}
	return out
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "search in name, category and HSN code"
// @Param category query string false "category or All"
// @Param status query string false "Active, Inactive or All"
// @Success 200 {array} model.ProductView
// @Router /api/products [get]
func ListProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := filterProducts(c.UserContext(), c, svc)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(productViews(products))
	}
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param product body model.Product true "product"
// @Success 201 {object} service.Result[model.Product]
// @Failure 400 {object} service.Result[model.Product]
// @Router /api/products [post]
func CreateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p model.Product
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		return writeResult(c, svc.Create(c.UserContext(), p), fiber.StatusCreated)
	}
}

// UpdateProduct godoc
// @Summary Update product fields
// @Description Only the fields present in the body change.
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "product id"
// @Param patch body model.ProductPatch true "fields to change"
// @Success 200 {object} service.Result[model.Product]
// @Failure 404 {object} service.Result[model.Product]
// @Router /api/products/{id} [patch]
func UpdateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var patch model.ProductPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		return writeResult(c, svc.Update(c.UserContext(), id, patch), fiber.StatusOK)
	}
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Unknown ids succeed.
// @Tags products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} service.Ack
// @Router /api/products/{id} [delete]
func DeleteProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		return writeResult(c, svc.Delete(c.UserContext(), id), fiber.StatusOK)
	}
}

// BulkUpdateProducts godoc
// @Summary Update many products
// @Description Applies the same patch to every listed id; unknown ids are skipped.
// @Tags products
// @Accept json
// @Produce json
// @Param body body bulkUpdateRequest true "ids and patch"
// @Success 200 {object} service.Ack
// @Router /api/products/bulk [post]
func BulkUpdateProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req bulkUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		return writeResult(c, svc.BulkUpdate(c.UserContext(), req.IDs, req.Patch), fiber.StatusOK)
	}
}

// LowStockProducts godoc
// @Summary Products at or below minimum stock
// @Tags products
// @Produce json
// @Success 200 {array} model.ProductView
// @Router /api/products/low-stock [get]
func LowStockProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := svc.LowStock(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(productViews(products))
	}
}

// ProductStats godoc
// @Summary Product aggregates
// @Tags products
// @Produce json
// @Success 200 {object} service.ProductStats
// @Router /api/products/stats [get]
func ProductStats(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}

// ExportProducts godoc
// @Summary Export products as CSV
// @Description Accepts the same filters as the list endpoint. Values are not quoted.
// @Tags products
// @Produce text/csv
// @Success 200 {string} string
// @Router /api/products/export [get]
func ExportProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, err := filterProducts(c.UserContext(), c, svc)
		if err != nil {
			return writeServiceError(c, err)
		}
		return sendCSV(c, "products_export.csv", svc.ExportCSV(products))
	}
}

func sendCSV(c *fiber.Ctx, filename, body string) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.SendString(body)
}
