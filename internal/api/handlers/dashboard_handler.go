package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type DashboardService interface {
	Overview(ctx context.Context, userID int64) (*domain.DashboardOverview, error)
}

type DashboardHandler struct {
	service DashboardService
}

func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to fetch dashboard overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}
