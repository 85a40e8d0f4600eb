package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/ingest"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	files    map[string]*File
	content  map[string]string
	folders  map[string][]string
	byPath   map[string]string
	failFile string
}

func (f *fakeSource) GetFile(ctx context.Context, fileID string) (*File, error) {
	file, ok := f.files[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	return file, nil
}

func (f *fakeSource) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	out := []*File{}
	for _, id := range f.folders[folderID] {
		out = append(out, f.files[id])
	}
	return out, nil
}

func (f *fakeSource) DownloadFile(ctx context.Context, file *File, w io.Writer) error {
	if file.ID == f.failFile {
		return errors.New("network reset")
	}
	_, err := io.WriteString(w, f.content[file.ID])
	return err
}

func (f *fakeSource) FindFolderByPath(ctx context.Context, path string) (string, error) {
	id, ok := f.byPath[path]
	if !ok {
		return "", fmt.Errorf("folder %s: %w", path, domain.ErrNotFound)
	}
	return id, nil
}

type importCall struct {
	userID, productID int64
	body              string
	format            ingest.Format
}

type fakeImporter struct {
	calls []importCall
}

func (f *fakeImporter) Import(ctx context.Context, userID, productID int64, r io.Reader, format ingest.Format) (*domain.ImportResult, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, importCall{userID, productID, string(body), format})
	return &domain.ImportResult{Imported: 1, Skipped: 0}, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		files: map[string]*File{
			"f1": {ID: "f1", Name: "jan.csv", MimeType: "text/csv"},
			"f2": {ID: "f2", Name: "notes.txt", MimeType: "text/plain"},
			"f3": {ID: "f3", Name: "Feb sales", MimeType: sheetMimeType},
			"f4": {ID: "f4", Name: "mar.json", MimeType: "application/json"},
		},
		content: map[string]string{
			"f1": "date,quantity,revenue\n2024-01-01,1,2\n",
			"f3": "date,quantity,revenue\n2024-02-01,3,4\n",
			"f4": `[{"date":"2024-03-01","quantity":1,"revenue":1}]`,
		},
		folders: map[string][]string{"sales": {"f1", "f2", "f3", "f4"}},
		byPath:  map[string]string{"shop/sales": "sales"},
	}
}

func TestIngestService_IngestFile(t *testing.T) {
	source := newFakeSource()
	importer := &fakeImporter{}
	svc := NewIngestService(source, importer)

	res, err := svc.IngestFile(context.Background(), 7, 3, "f3")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, importer.calls, 1)
	assert.Equal(t, importCall{7, 3, source.content["f3"], ingest.FormatCSV}, importer.calls[0])

	_, err = svc.IngestFile(context.Background(), 7, 3, "f2")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.IngestFile(context.Background(), 7, 3, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestService_IngestFolderContinuesPastFailures(t *testing.T) {
	source := newFakeSource()
	source.failFile = "f1"
	importer := &fakeImporter{}
	svc := NewIngestService(source, importer)

	results, err := svc.IngestFolder(context.Background(), 7, 3, "sales")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "f1", results[0].FileID)
	assert.Contains(t, results[0].Error, "network reset")
	assert.Equal(t, 1, results[1].Imported)
	assert.Equal(t, "mar.json", results[2].Name)
	assert.Empty(t, results[2].Error)

	require.Len(t, importer.calls, 2)
	assert.Equal(t, ingest.FormatJSON, importer.calls[1].format)
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `Bob\'s \\ files`, escapeQuery(`Bob's \ files`))
}

func newTestRouter() (*mux.Router, *fakeImporter) {
	source := newFakeSource()
	importer := &fakeImporter{}
	router := mux.NewRouter()
	NewHandler(source, NewIngestService(source, importer), "sales").RegisterRoutes(router)
	return router, importer
}

func serve(router *mux.Router, method, target, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_ListFiles(t *testing.T) {
	router, _ := newTestRouter()

	w := serve(router, http.MethodGet, "/api/drive/files?path=shop/sales", "")
	require.Equal(t, http.StatusOK, w.Code)
	var files []File
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
	assert.Len(t, files, 4)

	w = serve(router, http.MethodGet, "/api/drive/files", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/api/drive/files?path=nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_IngestFile(t *testing.T) {
	router, importer := newTestRouter()

	w := serve(router, http.MethodPost, "/api/drive/ingest?fileId=f1&productId=3", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, http.MethodPost, "/api/drive/ingest?fileId=f1", "7")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodPost, "/api/drive/ingest?productId=3", "7")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodPost, "/api/drive/ingest?fileId=f2&productId=3", "7")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodPost, "/api/drive/ingest?fileId=f1&productId=3", "7")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["imported"])
	require.Len(t, importer.calls, 1)
	assert.Equal(t, int64(7), importer.calls[0].userID)
}

func TestHandler_IngestFolderUsesRootFolder(t *testing.T) {
	router, importer := newTestRouter()

	w := serve(router, http.MethodPost, "/api/drive/ingest/folder?productId=3", "7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, importer.calls, 3)
}
