package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/ingest"
	"github.com/rs/zerolog/log"
)

// FileSource is the subset of the Drive API the ingest needs.
type FileSource interface {
	GetFile(ctx context.Context, fileID string) (*File, error)
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, f *File, w io.Writer) error
}

// SalesImporter persists parsed sales rows for a product.
type SalesImporter interface {
	Import(ctx context.Context, userID, productID int64, r io.Reader, format ingest.Format) (*domain.ImportResult, error)
}

// FileResult reports the outcome of one file in a folder ingest.
type FileResult struct {
	FileID   string `json:"fileId"`
	Name     string `json:"name"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

type IngestService struct {
	source   FileSource
	importer SalesImporter
}

func NewIngestService(source FileSource, importer SalesImporter) *IngestService {
	return &IngestService{source: source, importer: importer}
}

func formatFor(f *File) (ingest.Format, error) {
	if f.MimeType == sheetMimeType {
		return ingest.FormatCSV, nil
	}
	return ingest.DetectFormat(f.Name)
}

// IngestFile downloads a single Drive file and imports its rows as sales of productID.
func (s *IngestService) IngestFile(ctx context.Context, userID, productID int64, fileID string) (*domain.ImportResult, error) {
	f, err := s.source.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return s.ingest(ctx, userID, productID, f)
}

func (s *IngestService) ingest(ctx context.Context, userID, productID int64, f *File) (*domain.ImportResult, error) {
	// 1. Resolve the parser from name or mime type
	format, err := formatFor(f)
	if err != nil {
		return nil, err
	}

	// 2. Download into memory; xlsx needs the whole archive anyway
	var buf bytes.Buffer
	if err := s.source.DownloadFile(ctx, f, &buf); err != nil {
		return nil, err
	}

	// 3. Hand off to the sales import
	result, err := s.importer.Import(ctx, userID, productID, &buf, format)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", f.Name, err)
	}

	log.Info().
		Str("file", f.Name).
		Int64("product_id", productID).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("drive file ingested")
	return result, nil
}

// IngestFolder imports every supported file directly inside folderID.
// A failing file is reported in its FileResult and does not stop the rest.
func (s *IngestService) IngestFolder(ctx context.Context, userID, productID int64, folderID string) ([]FileResult, error) {
	files, err := s.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if _, err := formatFor(f); err != nil {
			continue
		}

		res := FileResult{FileID: f.ID, Name: f.Name}
		imported, err := s.ingest(ctx, userID, productID, f)
		if err != nil {
			log.Warn().Err(err).Str("file", f.Name).Msg("drive file ingest failed")
			res.Error = err.Error()
		} else {
			res.Imported = imported.Imported
			res.Skipped = imported.Skipped
		}
		results = append(results, res)
	}
	return results, nil
}
