package drive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const userIDHeader = "X-User-ID"

// Browser lists Drive folders.
type Browser interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	FindFolderByPath(ctx context.Context, path string) (string, error)
}

// Ingester imports Drive files as sales history.
type Ingester interface {
	IngestFile(ctx context.Context, userID, productID int64, fileID string) (*domain.ImportResult, error)
	IngestFolder(ctx context.Context, userID, productID int64, folderID string) ([]FileResult, error)
}

type Handler struct {
	browser    Browser
	ingester   Ingester
	rootFolder string
}

func NewHandler(browser Browser, ingester Ingester, rootFolder string) *Handler {
	return &Handler{
		browser:    browser,
		ingester:   ingester,
		rootFolder: rootFolder,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods(http.MethodGet)
	router.HandleFunc("/api/drive/ingest", h.IngestFile).Methods(http.MethodPost)
	router.HandleFunc("/api/drive/ingest/folder", h.IngestFolder).Methods(http.MethodPost)
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	folderID, ok := h.resolveFolder(w, r)
	if !ok {
		return
	}

	files, err := h.browser.ListFiles(r.Context(), folderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (h *Handler) IngestFile(w http.ResponseWriter, r *http.Request) {
	userID, productID, ok := ingestTarget(w, r)
	if !ok {
		return
	}

	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}

	result, err := h.ingester.IngestFile(r.Context(), userID, productID, fileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})
}

func (h *Handler) IngestFolder(w http.ResponseWriter, r *http.Request) {
	userID, productID, ok := ingestTarget(w, r)
	if !ok {
		return
	}

	folderID, ok := h.resolveFolder(w, r)
	if !ok {
		return
	}

	results, err := h.ingester.IngestFolder(r.Context(), userID, productID, folderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"files":  results,
	})
}

// resolveFolder picks folderId, then path, then the configured root folder.
func (h *Handler) resolveFolder(w http.ResponseWriter, r *http.Request) (string, bool) {
	query := r.URL.Query()
	if id := query.Get("folderId"); id != "" {
		return id, true
	}

	folderPath := query.Get("path")
	if folderPath == "" {
		return h.rootFolder, true
	}

	folderID, err := h.browser.FindFolderByPath(r.Context(), folderPath)
	if err != nil {
		writeError(w, err)
		return "", false
	}
	return folderID, true
}

func ingestTarget(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(userIDHeader)), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "missing or invalid "+userIDHeader+" header", http.StatusUnauthorized)
		return 0, 0, false
	}

	productID, err := strconv.ParseInt(r.URL.Query().Get("productId"), 10, 64)
	if err != nil || productID <= 0 {
		http.Error(w, "productId parameter is required", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, productID, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNoValidRows):
		status = http.StatusBadRequest
	default:
		log.Error().Err(err).Msg("drive request failed")
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode drive response")
	}
}
