package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/regpulse/internal/core/errors"
	"github.com/aevon-lab/regpulse/internal/core/metrics"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all dashboard API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/v1")
	v1.GET("/selectors", s.HandleSelectors)
	v1.GET("/metrics", s.HandleMetrics)
	v1.GET("/manufacturers", s.HandleManufacturers)
	v1.GET("/trends", s.HandleTrends)
	v1.POST("/dataset/reload", s.HandleReload)
}

// HandleSelectors handles GET /v1/selectors
// Query parameters: category
func (s *Service) HandleSelectors(c *gin.Context) {
	var query struct {
		Category string `form:"category"`
	}
	if !bindQuery(c, &query) {
		return
	}

	resp, err := s.Selectors(query.Category)
	if err != nil {
		writeError(c, err, "Failed to list selectors")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleMetrics handles GET /v1/metrics
// Query parameters: year, category, manufacturer
func (s *Service) HandleMetrics(c *gin.Context) {
	var query struct {
		Year         string `form:"year"`
		Category     string `form:"category"`
		Manufacturer string `form:"manufacturer"`
	}
	if !bindQuery(c, &query) {
		return
	}

	resp, err := s.Metrics(metrics.Filter{
		Year:         query.Year,
		Category:     query.Category,
		Manufacturer: query.Manufacturer,
	})
	if err != nil {
		writeError(c, err, "Failed to compute growth metrics")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleManufacturers handles GET /v1/manufacturers
// Query parameters: year, category, sort (yoy|qoq)
func (s *Service) HandleManufacturers(c *gin.Context) {
	var query struct {
		Year     string `form:"year"`
		Category string `form:"category"`
		Sort     string `form:"sort"`
	}
	if !bindQuery(c, &query) {
		return
	}

	resp, err := s.Manufacturers(query.Year, query.Category, query.Sort)
	if err != nil {
		writeError(c, err, "Failed to compare manufacturers")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTrends handles GET /v1/trends
// Query parameters: year
func (s *Service) HandleTrends(c *gin.Context) {
	var query struct {
		Year string `form:"year"`
	}
	if !bindQuery(c, &query) {
		return
	}

	resp, err := s.Trends(query.Year)
	if err != nil {
		writeError(c, err, "Failed to compute quarterly trend")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleReload handles POST /v1/dataset/reload
func (s *Service) HandleReload(c *gin.Context) {
	resp, err := s.Reload(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to reload dataset")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidFilterError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return false
	}
	return true
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, metrics.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidFilterError,
			Message:   "Invalid dashboard filter",
			Details:   err.Error(),
		})
	case errors.Is(err, ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotReadyError,
			Message:   "Dataset is not loaded yet",
			Details:   err.Error(),
		})
	case errors.Is(err, ErrReloadDisabled):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "Dataset reload is disabled",
		})
	default:
		slog.Error(message, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   message,
			Details:   err.Error(),
		})
	}
}
