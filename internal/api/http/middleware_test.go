package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/observability"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

func newMiddlewareApp(metrics *observability.Metrics) *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, time.Second)
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return apperrors.NewConflict("already there", map[string]any{"id": "x"})
	})
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusUnprocessableEntity, "bad entity") })
	return app
}

func decodeError(t *testing.T, resp io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp).Decode(&body))
	return errorBody(t, body)
}

func TestErrorMiddlewareEnvelope(t *testing.T) {
	metrics := observability.NewMetrics()
	app := newMiddlewareApp(metrics)

	cases := []struct {
		path    string
		status  int
		code    string
		details bool
	}{
		{"/panic", fiber.StatusInternalServerError, apperrors.CodeInternal, false},
		{"/conflict", fiber.StatusConflict, apperrors.CodeConflict, true},
		{"/fiber", fiber.StatusUnprocessableEntity, apperrors.CodeValidation, false},
		{"/missing", fiber.StatusNotFound, apperrors.CodeNotFound, false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(headerRequestID))
			errObj := decodeError(t, resp.Body)
			assert.Equal(t, tc.code, errObj["code"])
			_, hasDetails := errObj["details"]
			assert.Equal(t, tc.details, hasDetails)
		})
	}

	assert.EqualValues(t, 1, metrics.Snapshot().Errors["/conflict|GET|"+apperrors.CodeConflict])
}

func TestRequestIDIsEchoed(t *testing.T) {
	app := newMiddlewareApp(nil)
	req := httptest.NewRequest(fiber.MethodGet, "/conflict", nil)
	req.Header.Set(headerRequestID, "req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get(headerRequestID))
}
