package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/ingest"
	"github.com/gin-gonic/gin"
)

type SalesService interface {
	List(ctx context.Context, userID int64) ([]domain.Sale, error)
	ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Sale, error)
	Create(ctx context.Context, userID int64, in domain.SaleInput) (*domain.Sale, error)
	BulkCreate(ctx context.Context, userID int64, in []domain.SaleInput) (int, error)
	Import(ctx context.Context, userID, productID int64, r io.Reader, format ingest.Format) (*domain.ImportResult, error)
}

type saleRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Revenue   int64  `json:"revenue"`
	SaleDate  string `json:"sale_date"`
}

func (r saleRequest) toInput() (domain.SaleInput, error) {
	date, err := ingest.ParseDate(r.SaleDate)
	if err != nil {
		return domain.SaleInput{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return domain.SaleInput{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Revenue:   r.Revenue,
		SaleDate:  date,
	}, nil
}

type bulkSalesRequest struct {
	Sales []saleRequest `json:"sales"`
}

type SalesHandler struct {
	service        SalesService
	maxUploadBytes int64
}

func NewSalesHandler(service SalesService, maxUploadBytes int64) *SalesHandler {
	return &SalesHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *SalesHandler) List(c *gin.Context) {
	sales, err := h.service.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to fetch sales")
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SalesHandler) ListByProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	sales, err := h.service.ListByProduct(c.Request.Context(), currentUser(c), productID)
	if err != nil {
		respondError(c, err, "failed to fetch product sales")
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SalesHandler) Create(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondError(c, err, "invalid sale")
		return
	}

	sale, err := h.service.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, err, "failed to create sale")
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *SalesHandler) BulkCreate(c *gin.Context) {
	var req bulkSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	inputs := make([]domain.SaleInput, 0, len(req.Sales))
	for i, s := range req.Sales {
		in, err := s.toInput()
		if err != nil {
			respondError(c, fmt.Errorf("sale %d: %w", i, err), "invalid sale")
			return
		}
		inputs = append(inputs, in)
	}

	n, err := h.service.BulkCreate(c.Request.Context(), currentUser(c), inputs)
	if err != nil {
		respondError(c, err, "failed to create sales")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "count": n})
}

// Upload ingests a CSV, JSON or XLSX file sent as the multipart field "file".
func (h *SalesHandler) Upload(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided", "details": err.Error()})
		return
	}

	format, err := ingest.DetectFormat(fileHeader.Filename)
	if err != nil {
		respondError(c, err, "unsupported file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file", "details": err.Error()})
		return
	}
	defer file.Close()

	result, err := h.service.Import(c.Request.Context(), currentUser(c), productID, file, format)
	if err != nil {
		respondError(c, err, "failed to import sales file")
		return
	}
	c.JSON(http.StatusCreated, result)
}
