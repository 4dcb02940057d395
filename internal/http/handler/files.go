package handler

import (
	"github.com/gofiber/fiber/v2"

	"invdash/internal/model"
	"invdash/internal/service"
)

// UploadFile godoc
// @Summary Upload a file
// @Description Registers a file under a category. Images get a preview handle as their URL.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "file"
// @Param category formData string true "products, documents, invoices or certificates"
// @Success 201 {object} service.Result[model.File]
// @Failure 400 {object} errorPayload
// @Router /api/files [post]
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		res := svc.Upload(c.UserContext(), service.UploadInput{
			Body:        f,
			Name:        fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Category:    model.FileCategory(c.FormValue("category")),
		})
		return writeResult(c, res, fiber.StatusCreated)
	}
}

// ListFiles godoc
// @Summary List files
// @Tags files
// @Produce json
// @Param category query string false "category or all"
// @Param q query string false "search in name and category"
// @Success 200 {array} model.File
// @Router /api/files [get]
func ListFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		category := c.Query("category", service.AllCategories)

		files, err := svc.ListByCategory(ctx, category)
		if err != nil {
			return writeServiceError(c, err)
		}
		if q := c.Query("q"); q != "" {
			matches, err := svc.Search(ctx, q)
			if err != nil {
				return writeServiceError(c, err)
			}
			files = intersect(files, matches, func(f model.File) int { return f.ID })
		}
		return c.JSON(files)
	}
}

// FileStats godoc
// @Summary File counts per category
// @Tags files
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/files/stats [get]
func FileStats(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counts, err := svc.CategoryCounts(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(counts)
	}
}

// DownloadFile godoc
// @Summary Download a stored file
// @Description Redirects to a time-limited URL of the object store, or streams the object when presigning is off.
// @Tags files
// @Param name path string true "file name"
// @Success 200
// @Success 307
// @Failure 404 {object} errorPayload
// @Failure 501 {object} errorPayload
// @Router /api/files/{name} [get]
func DownloadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		dl, err := svc.Download(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		if dl.URL != "" {
			return c.Redirect(dl.URL, fiber.StatusTemporaryRedirect)
		}

		c.Attachment(name)
		if dl.Info.ContentType != "" {
			c.Set(fiber.HeaderContentType, dl.Info.ContentType)
		}
		if dl.Info.Size > 0 {
			return c.SendStream(dl.Body, int(dl.Info.Size))
		}
		return c.SendStream(dl.Body)
	}
}

// DeleteFile godoc
// @Summary Remove a file
// @Description Unknown ids succeed.
// @Tags files
// @Produce json
// @Param id path int true "file id"
// @Success 200 {object} service.Ack
// @Router /api/files/{id} [delete]
func DeleteFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		return writeResult(c, svc.Remove(c.UserContext(), id), fiber.StatusOK)
	}
}

// GetPreview godoc
// @Summary Read an image preview
// @Tags previews
// @Param handle path string true "preview handle"
// @Success 200
// @Failure 404 {object} errorPayload
// @Router /api/previews/{handle} [get]
func GetPreview(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, ct, err := svc.Preview(c.Params("handle"))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderCacheControl, "private, no-store")
		return c.Send(data)
	}
}

// ReleasePreview godoc
// @Summary Release an image preview
// @Tags previews
// @Param handle path string true "preview handle"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/previews/{handle} [delete]
func ReleasePreview(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !svc.ReleasePreview(c.Params("handle")) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "preview not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// intersect keeps the items of base whose key also appears in other, in base order.
func intersect[T any](base, other []T, key func(T) int) []T {
	keep := make(map[int]struct{}, len(other))
	for _, it := range other {
		keep[key(it)] = struct{}{}
	}
	out := make([]T, 0, len(base))
	for _, it := range base {
		if _, ok := keep[key(it)]; ok {
			out = append(out, it)
		}
	}
	return out
}
