package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type AlertService interface {
	List(ctx context.Context, userID int64) ([]domain.Alert, error)
	Generate(ctx context.Context, userID, productID int64) (*domain.GenerationResult, error)
	MarkRead(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
}

type AlertHandler struct {
	service AlertService
}

func NewAlertHandler(service AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

func (h *AlertHandler) List(c *gin.Context) {
	alerts, err := h.service.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to fetch alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) Generate(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Generate(c.Request.Context(), currentUser(c), productID)
	if err != nil {
		respondError(c, err, "failed to generate alerts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": result.Count})
}

func (h *AlertHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err, "failed to mark alert as read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AlertHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err, "failed to delete alert")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
