package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/forecast"
	"github.com/gin-gonic/gin"
)

type ForecastService interface {
	List(ctx context.Context, userID int64) ([]domain.Forecast, error)
	ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Forecast, error)
	Generate(ctx context.Context, userID, productID int64, daysAhead int) (*domain.GenerationResult, error)
	Analyze(ctx context.Context, userID, productID int64, g forecast.Granularity) (*domain.ProductAnalysis, error)
}

type ForecastHandler struct {
	service        ForecastService
	defaultHorizon int
}

func NewForecastHandler(service ForecastService, defaultHorizon int) *ForecastHandler {
	if defaultHorizon <= 0 {
		defaultHorizon = forecast.DefaultHorizonDays
	}
	return &ForecastHandler{service: service, defaultHorizon: defaultHorizon}
}

func (h *ForecastHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to fetch forecasts")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ForecastHandler) ListByProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rows, err := h.service.ListByProduct(c.Request.Context(), currentUser(c), productID)
	if err != nil {
		respondError(c, err, "failed to fetch product forecasts")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ForecastHandler) Generate(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	daysAhead := h.defaultHorizon
	if raw := strings.TrimSpace(c.Query("days_ahead")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, domain.ErrInvalidHorizon, "invalid days_ahead")
			return
		}
		daysAhead = n
	}

	result, err := h.service.Generate(c.Request.Context(), currentUser(c), productID, daysAhead)
	if err != nil {
		respondError(c, err, "failed to generate forecast")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"count":   result.Count,
		"run_id":  result.RunID,
	})
}

func (h *ForecastHandler) Analyze(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	g := forecast.ParseGranularity(strings.ToLower(strings.TrimSpace(c.Query("granularity"))))
	analysis, err := h.service.Analyze(c.Request.Context(), currentUser(c), productID, g)
	if err != nil {
		respondError(c, err, "failed to analyze product")
		return
	}
	c.JSON(http.StatusOK, analysis)
}
