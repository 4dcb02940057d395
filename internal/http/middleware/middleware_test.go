package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/api/products", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(RequestIDLocalKey).(string))
	})

	t.Run("generates id when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/products", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		rid := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, rid)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, rid, string(body))
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/products", nil)
		req.Header.Set(RequestIDHeader, "test-id-123")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "test-id-123", resp.Header.Get(RequestIDHeader))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "test-id-123", string(body))
	})
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		handler   fiber.Handler
		wantCode  int
		wantLevel string
	}{
		{
			name:      "success logs info",
			handler:   func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusAccepted) },
			wantCode:  fiber.StatusAccepted,
			wantLevel: "info",
		},
		{
			name:      "client error logs warning",
			handler:   func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "missing") },
			wantCode:  fiber.StatusNotFound,
			wantLevel: "warning",
		},
		{
			name:      "server error logs error",
			handler:   func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusServiceUnavailable) },
			wantCode:  fiber.StatusServiceUnavailable,
			wantLevel: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			app := fiber.New()
			app.Use(RequestID())
			app.Use(LoggerWithWriter(&buf, time.UTC))
			app.Get("/api/orders", tt.handler)

			resp, err := app.Test(httptest.NewRequest("GET", "/api/orders", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			var logData map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))

			assert.NotEmpty(t, logData["request_id"])
			assert.Equal(t, "GET", logData["method"])
			assert.Equal(t, "/api/orders", logData["path"])
			assert.Equal(t, float64(tt.wantCode), logData["status"])
			assert.Equal(t, tt.wantLevel, logData["level"])
			assert.NotNil(t, logData["latency"])
			assert.NotEmpty(t, logData["ts"])
		})
	}
}
