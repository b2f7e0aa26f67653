// Package dataset loads the elasticity study table from CSV or XLSX input
// and validates its schema before any row is processed.
package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"elastiplot/internal/errors"
	"elastiplot/internal/infrastructure"
)

// Load reads the study table at path, dispatching on the file extension:
// .xlsx is parsed as an Excel workbook, everything else as CSV.
func Load(path string, logger *slog.Logger) ([]StudyRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadExcel(path, logger)
	}
	return LoadCSV(path, logger)
}

// LoadCSV reads the study table from a comma-separated file. The first row
// must be the header; a missing required column aborts before any data row
// is parsed.
func LoadCSV(path string, logger *slog.Logger) ([]StudyRecord, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open input file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to read CSV input", err).
			WithContext("path", path)
	}

	records, err := parseRows(rows)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded study table",
		slog.String("path", path),
		slog.String("format", "csv"),
		slog.Int("studies", len(records)))
	return records, nil
}

// LoadExcel reads the study table from the first sheet of an XLSX workbook.
func LoadExcel(path string, logger *slog.Logger) ([]StudyRecord, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError("workbook has no sheets", nil).
			WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParsingError("failed to read worksheet rows", err).
			WithContext("sheet", sheets[0])
	}

	records, err := parseRows(rows)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded study table",
		slog.String("path", path),
		slog.String("format", "xlsx"),
		slog.String("sheet", sheets[0]),
		slog.Int("studies", len(records)))
	return records, nil
}

// parseRows validates the header and converts data rows to StudyRecords.
func parseRows(rows [][]string) ([]StudyRecord, error) {
	if len(rows) == 0 {
		return nil, errors.NewSchemaError("input table is empty", nil)
	}

	index, err := buildColumnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]StudyRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		record, err := parseRow(row, index)
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("failed to parse row %d", i+2), err)
		}
		records = append(records, record)
	}

	return records, nil
}

// buildColumnIndex maps required column names to their positions in the
// header row. Every required column must be present; the check runs before
// any data row so a schema problem never produces partial output.
func buildColumnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("required columns missing from input: %s", strings.Join(missing, ", ")), nil)
	}

	return index, nil
}

func parseRow(row []string, index map[string]int) (StudyRecord, error) {
	record := StudyRecord{
		StudyID: cell(row, index[ColStudy]),
		Author:  cell(row, index[ColAuthor]),
		Values:  make(map[string]*float64, 8),
	}

	yearText := cell(row, index[ColYear])
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return StudyRecord{}, fmt.Errorf("invalid year %q: %w", yearText, err)
	}
	record.Year = year

	for _, col := range numericColumns() {
		value, err := parseOptionalFloat(cell(row, index[col]))
		if err != nil {
			return StudyRecord{}, fmt.Errorf("column %s: %w", col, err)
		}
		record.Values[col] = value
	}

	return record, nil
}

// parseOptionalFloat converts a cell to a float pointer. Empty cells and the
// NA marker are missing values, not errors.
func parseOptionalFloat(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "NA") {
		return nil, nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", text, err)
	}
	return &value, nil
}

// cell returns the trimmed value at position i, tolerating short rows the
// way spreadsheet exports produce them.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
