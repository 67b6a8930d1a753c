package http

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/config"
	"github.com/cosmogony-cities/internal/delivery/http/handler"
	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/pkg/errors"
)

type fakeRegions struct{}

func (fakeRegions) GetByID(_ context.Context, id int64) (*domain.RegionSummary, error) {
	if id == 42 {
		return &domain.RegionSummary{ID: 42, Name: "Lyon"}, nil
	}
	return nil, errors.ErrRegionNotFound
}

func (fakeRegions) GetByURI(_ context.Context, uri string) (*domain.RegionSummary, error) {
	if uri == "admin:fr:69123" {
		return &domain.RegionSummary{ID: 42, Name: "Lyon"}, nil
	}
	return nil, errors.ErrRegionNotFound
}

func (fakeRegions) Lookup(_ context.Context, _, _ float64) (*domain.RegionSummary, error) {
	return &domain.RegionSummary{ID: 42, Name: "Lyon"}, nil
}

type fakeStats struct{}

func (fakeStats) GetStatistics(context.Context) (*domain.Statistics, error) {
	return &domain.Statistics{Regions: 1}, nil
}

func newTestServer() *Server {
	logger := zap.NewNop()
	return NewServer(
		&config.Config{},
		logger,
		handler.NewHealthHandler(logger, nil),
		handler.NewRegionHandler(fakeRegions{}, logger),
		handler.NewStatsHandler(fakeStats{}, logger),
	)
}

func TestServer_Routes(t *testing.T) {
	app := newTestServer().App()

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/api/v1/health", 200, `"status":"healthy"`},
		{"/api/v1/regions/42", 200, `"name":"Lyon"`},
		{"/api/v1/regions/43", 404, "REGION_NOT_FOUND"},
		{"/api/v1/regions/by-uri?uri=admin:fr:69123", 200, `"name":"Lyon"`},
		{"/api/v1/regions/lookup?lat=45.76&lon=4.83", 200, `"name":"Lyon"`},
		{"/api/v1/stats", 200, `"regions":1`},
		{"/metrics", 200, "cities_import_rows_total"},
		{"/api/v1/unknown", 404, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.target, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, string(body), tt.body)
		})
	}
}
