package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type ProductService interface {
	List(ctx context.Context, userID int64) ([]domain.Product, error)
	Get(ctx context.Context, userID, id int64) (*domain.Product, error)
	Create(ctx context.Context, userID int64, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, userID, id int64, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, userID, id int64) error
}

type ProductHandler struct {
	service ProductService
}

func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.service.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err, "failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	product, err := h.service.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, err, "failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	product, err := h.service.Update(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		respondError(c, err, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err, "failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
