package handlers

import (
	"net/http"

	"beautybook/middleware"
	"beautybook/services/dashboard"
	"beautybook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	Service dashboard.DashboardService
}

func NewDashboardHandler(svc dashboard.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: svc}
}

// GetOverview serves the dashboard of the professional named by the token.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	professionalID := middleware.Subject(c)
	if professionalID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Professional not authenticated"})
		return
	}
	rng, err := dashboard.ParseTimeRange(c.Query("range"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ov, err := h.Service.Overview(c.Request.Context(), professionalID, rng)
	if err != nil {
		getLogger(c).Error("Failed to build dashboard", zap.String("professionalID", professionalID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to build dashboard", err.Error())
		return
	}
	c.JSON(http.StatusOK, ov)
}
