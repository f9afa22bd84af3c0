package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-ledger-api/internal/config"
	"github.com/noah-isme/campus-ledger-api/internal/handler"
)

func TestHealthCheck(t *testing.T) {
	cfg := config.Config{AppName: "Campus Ledger API", AppEnv: "test"}
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name   string
		probes map[string]handler.HealthProbe
		status int
		state  string
	}{
		{name: "no probes", status: fiber.StatusOK, state: "ok"},
		{name: "all healthy", probes: map[string]handler.HealthProbe{"database": healthy, "redis": healthy}, status: fiber.StatusOK, state: "ok"},
		{name: "redis down", probes: map[string]handler.HealthProbe{"database": healthy, "redis": broken}, status: fiber.StatusServiceUnavailable, state: "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", handler.HealthCheck(cfg, tc.probes))

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			var payload struct {
				Data handler.HealthResponse `json:"data"`
			}
			decodeResponse(t, resp, &payload)
			require.Equal(t, tc.state, payload.Data.Status)
			require.Equal(t, "Campus Ledger API", payload.Data.Service)
			if tc.state == "degraded" {
				require.Equal(t, "unavailable", payload.Data.Dependencies["redis"])
				require.Equal(t, "ok", payload.Data.Dependencies["database"])
			}
		})
	}
}
