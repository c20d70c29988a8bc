package utils_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sites-microservice/internal/pkg/errors"
	"github.com/sites-microservice/internal/pkg/utils"
)

func sendErrorApp(t *testing.T, err error) (int, utils.ErrorResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendError(c, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var parsed utils.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &parsed))

	return resp.StatusCode, parsed
}

func TestSendError(t *testing.T) {
	t.Run("app error maps to its status code", func(t *testing.T) {
		status, resp := sendErrorApp(t, errors.ErrSiteNotFound)

		assert.Equal(t, http.StatusNotFound, status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "SITE_NOT_FOUND", resp.Error.Code)
	})

	t.Run("wrapped app error keeps its status code", func(t *testing.T) {
		wrapped := fmt.Errorf("get site: %w", errors.ErrSiteNotFound)

		status, resp := sendErrorApp(t, wrapped)

		assert.Equal(t, http.StatusNotFound, status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "SITE_NOT_FOUND", resp.Error.Code)
	})

	t.Run("unknown error degrades to internal server error", func(t *testing.T) {
		status, resp := sendErrorApp(t, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.Code)
	})
}
