package server

import (
	"net/http"

	dashboarddomain "github.com/JohnAlex1900/Smart-Invoice/internal/dashboard/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/tenantctx"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboardMetrics(c *gin.Context) {
	tenantID, ok := tenantctx.TenantIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	metrics, err := s.dashboardSvc.Metrics(c.Request.Context(),
		dashboarddomain.MetricsRequest{TenantID: tenantID})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": metrics})
}
