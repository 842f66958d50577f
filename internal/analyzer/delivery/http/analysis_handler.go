package http

import (
	"net/http"

	"golang-market-analyzer/internal/analyzer/service"
	"golang-market-analyzer/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler handles HTTP requests for analysis results.
type AnalysisHandler struct {
	analyzerService service.AnalyzerService
	logger          *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analyzerService service.AnalyzerService, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{analyzerService: analyzerService, logger: logger}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/analysis/latest", h.GetLatestAnalysis)
	g.POST("/analysis/run", h.RunAnalysis)
}

// GetLatestAnalysis returns the most recent analysis result.
func (h *AnalysisHandler) GetLatestAnalysis(c echo.Context) error {
	result := h.analyzerService.Latest()
	if result == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No analysis available yet"})
	}
	return c.JSON(http.StatusOK, result)
}

// RunAnalysis triggers a full analysis run and returns the result.
func (h *AnalysisHandler) RunAnalysis(c echo.Context) error {
	result, err := h.analyzerService.Run(c.Request().Context())
	if err != nil {
		h.logger.Error("Analysis run failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Analysis run failed"})
	}
	return c.JSON(http.StatusOK, result)
}
