package handler

import (
	"github.com/gofiber/fiber/v2"

	"invdash/internal/service"
)

// Services are the business services exposed over HTTP.
type Services struct {
	Files    service.FileService
	Products service.ProductService
	Orders   service.OrderService
}

// RegisterRoutes attaches health and API routes to app. Static paths are
// registered before parameterized ones on the same prefix.
func RegisterRoutes(app *fiber.App, ping Pinger, svcs Services) {
	app.Get("/health", HealthCheck(ping))
	app.Get("/healthz", Liveness())

	api := app.Group("/api")

	files := api.Group("/files")
	files.Get("/", ListFiles(svcs.Files))
	files.Post("/", UploadFile(svcs.Files))
	files.Get("/stats", FileStats(svcs.Files))
	files.Get("/:name", DownloadFile(svcs.Files))
	files.Delete("/:id", DeleteFile(svcs.Files))

	previews := api.Group("/previews")
	previews.Get("/:handle", GetPreview(svcs.Files))
	previews.Delete("/:handle", ReleasePreview(svcs.Files))

	products := api.Group("/products")
	products.Get("/", ListProducts(svcs.Products))
	products.Post("/", CreateProduct(svcs.Products))
	products.Get("/low-stock", LowStockProducts(svcs.Products))
	products.Get("/stats", ProductStats(svcs.Products))
	products.Get("/export", ExportProducts(svcs.Products))
	products.Post("/bulk", BulkUpdateProducts(svcs.Products))
	products.Patch("/:id", UpdateProduct(svcs.Products))
	products.Delete("/:id", DeleteProduct(svcs.Products))

	orders := api.Group("/orders")
	orders.Get("/", ListOrders(svcs.Orders))
	orders.Post("/", CreateOrder(svcs.Orders))
	orders.Get("/stats", OrderStats(svcs.Orders))
	orders.Get("/export", ExportOrders(svcs.Orders))
	orders.Patch("/:id/status", UpdateOrderStatus(svcs.Orders))
	orders.Patch("/:id", UpdateOrder(svcs.Orders))
	orders.Delete("/:id", DeleteOrder(svcs.Orders))
}
