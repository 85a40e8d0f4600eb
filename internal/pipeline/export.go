package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const csvContentType = "text/csv"

var (
	forecastHeader = []string{
		"user_id", "product_id", "product_name", "run_id", "forecast_date",
		"predicted_quantity", "predicted_revenue", "confidence", "trend", "seasonality_factor",
	}
	summaryHeader = []string{
		"user_id", "product_id", "product_name", "status", "forecasts", "alerts", "attempts", "error",
	}
)

// Exporter writes batch results as CSV objects
type Exporter struct {
	forecasts ForecastLister
	store     storage.ObjectStorage
	now       func() time.Time
}

func NewExporter(forecasts ForecastLister, store storage.ObjectStorage) *Exporter {
	return &Exporter{forecasts: forecasts, store: store, now: time.Now}
}

// Export uploads a forecast CSV for the completed products and a per-product
// summary CSV under prefix, returning the object keys.
func (e *Exporter) Export(ctx context.Context, summary *RunSummary, prefix string) ([]string, error) {
	stamp := e.now().UTC().Format("20060102T150405Z")

	var forecasts bytes.Buffer
	rows, err := e.writeForecasts(ctx, &forecasts, summary)
	if err != nil {
		return nil, err
	}

	var results bytes.Buffer
	if err := WriteSummaryCSV(&results, summary); err != nil {
		return nil, fmt.Errorf("failed to write summary csv: %w", err)
	}

	forecastKey := path.Join(prefix, fmt.Sprintf("forecasts-%s.csv", stamp))
	summaryKey := path.Join(prefix, fmt.Sprintf("summary-%s.csv", stamp))

	if err := e.store.UploadObject(ctx, forecastKey, forecasts.Bytes(), csvContentType); err != nil {
		return nil, err
	}
	if err := e.store.UploadObject(ctx, summaryKey, results.Bytes(), csvContentType); err != nil {
		return nil, err
	}

	log.Info().Str("forecasts", forecastKey).Str("summary", summaryKey).Int("rows", rows).Msg("batch results exported")
	return []string{forecastKey, summaryKey}, nil
}

func (e *Exporter) writeForecasts(ctx context.Context, w io.Writer, summary *RunSummary) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(forecastHeader); err != nil {
		return 0, err
	}

	rows := 0
	for _, result := range summary.Results {
		if result.Status != JobCompleted {
			continue
		}

		forecasts, err := e.forecasts.ListByProduct(ctx, result.UserID, result.ProductID)
		if err != nil {
			return rows, fmt.Errorf("failed to load forecasts for product %d: %w", result.ProductID, err)
		}

		for _, f := range forecasts {
			if result.RunID != nil && f.RunID != *result.RunID {
				continue
			}
			if err := writer.Write(forecastRecord(result.Name, f)); err != nil {
				return rows, err
			}
			rows++
		}
	}

	writer.Flush()
	return rows, writer.Error()
}

func forecastRecord(productName string, f domain.Forecast) []string {
	return []string{
		strconv.FormatInt(f.UserID, 10),
		strconv.FormatInt(f.ProductID, 10),
		productName,
		f.RunID.String(),
		f.ForecastDate.Format("2006-01-02"),
		strconv.Itoa(f.PredictedQuantity),
		decimal.New(f.PredictedRevenue, -2).StringFixed(2),
		strconv.Itoa(f.Confidence),
		f.Trend,
		strconv.Itoa(f.SeasonalityFactor),
	}
}

// WriteSummaryCSV writes one line per product job.
func WriteSummaryCSV(w io.Writer, summary *RunSummary) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(summaryHeader); err != nil {
		return err
	}

	for _, r := range summary.Results {
		if r.Status == "" {
			continue
		}
		record := []string{
			strconv.FormatInt(r.UserID, 10),
			strconv.FormatInt(r.ProductID, 10),
			r.Name,
			string(r.Status),
			strconv.Itoa(r.Forecasts),
			strconv.Itoa(r.Alerts),
			strconv.Itoa(r.Attempts),
			r.Error,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
