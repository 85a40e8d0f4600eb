// Package ingest turns uploaded sales files into sale inputs.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

var (
	quantityColumns = []string{"quantity", "Quantity"}
	revenueColumns  = []string{"revenue", "Revenue", "price", "Price"}
	dateColumns     = []string{"date", "Date", "saleDate", "SaleDate"}

	dateLayouts = []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02 15:04:05",
		"01/02/2006",
	}

	hundred = decimal.NewFromInt(100)
)

// Result holds the valid rows of a file and the number of rows dropped.
type Result struct {
	Sales   []domain.SaleInput
	Skipped int
}

// DetectFormat picks the parser from a file name extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: unsupported file type %q", domain.ErrValidation, filepath.Ext(name))
}

// Parse reads a sales file in the given format. Every returned sale is
// attributed to productID.
func Parse(r io.Reader, format Format, productID int64) (*Result, error) {
	var (
		res *Result
		err error
	)
	switch format {
	case FormatCSV:
		res, err = parseCSV(r, productID)
	case FormatJSON:
		res, err = parseJSON(r, productID)
	case FormatXLSX:
		res, err = parseXLSX(r, productID)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrValidation, format)
	}
	if err != nil {
		return nil, err
	}

	if len(res.Sales) == 0 {
		return nil, domain.ErrNoValidRows
	}
	return res, nil
}

func parseCSV(r io.Reader, productID int64) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", domain.ErrValidation, err)
	}

	return parseTable(header, func() ([]string, error) {
		record, err := reader.Read()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: failed to read CSV record: %v", domain.ErrValidation, err)
		}
		return record, err
	}, productID)
}

func parseXLSX(r io.Reader, productID int64) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open xlsx: %v", domain.ErrValidation, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: xlsx file has no sheets", domain.ErrValidation)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: xlsx sheet %s is empty", domain.ErrValidation, sheets[0])
	}

	next := 1
	return parseTable(rows[0], func() ([]string, error) {
		if next >= len(rows) {
			return nil, io.EOF
		}
		next++
		return rows[next-1], nil
	}, productID)
}

// parseTable maps header names to indices and reads rows until io.EOF.
func parseTable(header []string, nextRow func() ([]string, error), productID int64) (*Result, error) {
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimPrefix(strings.TrimSpace(col), "\ufeff")] = i
	}

	for _, aliases := range [][]string{quantityColumns, revenueColumns, dateColumns} {
		if _, ok := lookupColumn(colMap, aliases); !ok {
			return nil, fmt.Errorf("%w: missing required column %s", domain.ErrValidation, aliases[0])
		}
	}

	res := &Result{Sales: []domain.SaleInput{}}
	line := 1
	for {
		record, err := nextRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		getValue := func(aliases []string) string {
			if idx, ok := lookupColumn(colMap, aliases); ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		sale, err := buildSale(getValue(quantityColumns), getValue(revenueColumns), getValue(dateColumns), productID)
		if err != nil {
			log.Debug().Err(err).Int("line", line).Msg("skipping sales row")
			res.Skipped++
			continue
		}
		res.Sales = append(res.Sales, sale)
	}

	return res, nil
}

func parseJSON(r io.Reader, productID int64) (*Result, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var rows []map[string]interface{}
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON sales array: %v", domain.ErrValidation, err)
	}

	res := &Result{Sales: []domain.SaleInput{}}
	for i, row := range rows {
		getValue := func(aliases []string) string {
			for _, a := range aliases {
				if v, ok := row[a]; ok && v != nil {
					return strings.TrimSpace(fmt.Sprint(v))
				}
			}
			return ""
		}

		sale, err := buildSale(getValue(quantityColumns), getValue(revenueColumns), getValue(dateColumns), productID)
		if err != nil {
			log.Debug().Err(err).Int("index", i).Msg("skipping sales row")
			res.Skipped++
			continue
		}
		res.Sales = append(res.Sales, sale)
	}

	return res, nil
}

func lookupColumn(colMap map[string]int, aliases []string) (int, bool) {
	for _, a := range aliases {
		if idx, ok := colMap[a]; ok {
			return idx, true
		}
	}
	return 0, false
}

func buildSale(quantity, revenue, date string, productID int64) (domain.SaleInput, error) {
	q, err := ParseQuantity(quantity)
	if err != nil {
		return domain.SaleInput{}, err
	}
	cents, err := ParseRevenue(revenue)
	if err != nil {
		return domain.SaleInput{}, err
	}
	saleDate, err := ParseDate(date)
	if err != nil {
		return domain.SaleInput{}, err
	}

	return domain.SaleInput{
		ProductID: productID,
		Quantity:  q,
		Revenue:   cents,
		SaleDate:  saleDate,
	}, nil
}

// ParseQuantity accepts whole numbers of at least one, including "3.0".
func ParseQuantity(s string) (int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if !d.IsInteger() || d.LessThan(decimal.NewFromInt(1)) {
		return 0, fmt.Errorf("quantity must be a whole number >= 1, got %q", s)
	}
	return int(d.IntPart()), nil
}

// ParseRevenue converts a decimal amount in major units to cents, rounding
// half-up.
func ParseRevenue(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid revenue %q", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("revenue must be >= 0, got %q", s)
	}
	return d.Mul(hundred).Round(0).IntPart(), nil
}

// ParseDate tries each supported layout in order. Layouts without a zone
// are read as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
