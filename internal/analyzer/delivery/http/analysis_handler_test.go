package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-market-analyzer/internal/entity"
	"golang-market-analyzer/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzerService struct {
	latest *entity.AnalysisResult
	runErr error
}

func (s *stubAnalyzerService) Analyze(_ context.Context, dataset entity.AnalysisDataset) (*entity.AnalysisResult, error) {
	return &entity.AnalysisResult{Dataset: dataset}, nil
}

func (s *stubAnalyzerService) Run(context.Context) (*entity.AnalysisResult, error) {
	if s.runErr != nil {
		return nil, s.runErr
	}
	s.latest = &entity.AnalysisResult{Narrative: "fresh", GeneratedAt: time.Now()}
	return s.latest, nil
}

func (s *stubAnalyzerService) Latest() *entity.AnalysisResult {
	return s.latest
}

func TestGetLatestAnalysisNotFound(t *testing.T) {
	e := echo.New()
	handler := NewAnalysisHandler(&stubAnalyzerService{}, logger.NewNop())
	handler.RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/latest", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No analysis available yet")
}

func TestGetLatestAnalysis(t *testing.T) {
	e := echo.New()
	svc := &stubAnalyzerService{
		latest: &entity.AnalysisResult{Narrative: "stored narrative", GeneratedAt: time.Now()},
	}
	handler := NewAnalysisHandler(svc, logger.NewNop())
	handler.RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/latest", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stored narrative")
}

func TestRunAnalysis(t *testing.T) {
	e := echo.New()
	svc := &stubAnalyzerService{}
	handler := NewAnalysisHandler(svc, logger.NewNop())
	handler.RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/run", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fresh")
	assert.NotNil(t, svc.latest)
}
