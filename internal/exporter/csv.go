// Package exporter persists the transformed observations and summaries as
// CSV and JSON artifacts next to the rendered plot.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"elastiplot/internal/elasticity"
	"elastiplot/internal/errors"
	"elastiplot/internal/infrastructure"
)

// Exporter writes pipeline artifacts into a single output directory.
type Exporter struct {
	outputDir string
	logger    *slog.Logger
}

// New creates an exporter rooted at outputDir.
func New(outputDir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Exporter{outputDir: outputDir, logger: logger}
}

// WriteObservationsCSV writes one row per observation. Optional fields are
// left as empty cells, never zero-filled, so the CSV round-trips the HasSE
// distinction.
func (e *Exporter) WriteObservationsCSV(name string, observations []elasticity.ObservationRecord) error {
	path := filepath.Join(e.outputDir, name)
	e.logger.Info("writing observations CSV",
		slog.String("path", path),
		slog.Int("observations", len(observations)))

	header := []string{"study_label", "meat_type", "elasticity", "standard_error", "ci_lower", "ci_upper", "has_se"}
	rows := make([][]string, 0, len(observations))
	for _, obs := range observations {
		rows = append(rows, []string{
			obs.StudyLabel,
			obs.MeatType,
			fmt.Sprintf("%.6g", obs.Elasticity),
			formatOptional(obs.StandardError),
			formatOptional(obs.CILower),
			formatOptional(obs.CIUpper),
			fmt.Sprintf("%t", obs.HasSE),
		})
	}

	return e.writeCSV(path, header, rows)
}

// WriteSummaryCSV writes the per-meat-type summary statistics.
func (e *Exporter) WriteSummaryCSV(name string, summaries []elasticity.SummaryRecord) error {
	path := filepath.Join(e.outputDir, name)
	e.logger.Info("writing summary CSV",
		slog.String("path", path),
		slog.Int("groups", len(summaries)))

	header := []string{"meat_type", "n_studies", "n_with_se", "mean_elasticity", "median_elasticity", "min_elasticity", "max_elasticity"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.MeatType,
			fmt.Sprintf("%d", s.NStudies),
			fmt.Sprintf("%d", s.NWithSE),
			fmt.Sprintf("%.3f", s.MeanElasticity),
			fmt.Sprintf("%.3f", s.MedianElasticity),
			fmt.Sprintf("%.3f", s.MinElasticity),
			fmt.Sprintf("%.3f", s.MaxElasticity),
		})
	}

	return e.writeCSV(path, header, rows)
}

// summaryDocument is the JSON artifact layout.
type summaryDocument struct {
	Summaries   []summaryJSON `json:"summaries"`
	Count       int           `json:"count"`
	GeneratedAt string        `json:"generated_at"`
	Format      string        `json:"format"`
}

type summaryJSON struct {
	MeatType         string  `json:"meat_type"`
	NStudies         int     `json:"n_studies"`
	NWithSE          int     `json:"n_with_se"`
	MeanElasticity   float64 `json:"mean_elasticity"`
	MedianElasticity float64 `json:"median_elasticity"`
	MinElasticity    float64 `json:"min_elasticity"`
	MaxElasticity    float64 `json:"max_elasticity"`
}

// WriteSummaryJSON writes the summaries with metadata for downstream tools.
func (e *Exporter) WriteSummaryJSON(name string, summaries []elasticity.SummaryRecord) error {
	path := filepath.Join(e.outputDir, name)
	e.logger.Info("writing summary JSON",
		slog.String("path", path),
		slog.Int("groups", len(summaries)))

	doc := summaryDocument{
		Summaries:   make([]summaryJSON, 0, len(summaries)),
		Count:       len(summaries),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Format:      "elasticity_summary_v1",
	}
	for _, s := range summaries {
		doc.Summaries = append(doc.Summaries, summaryJSON{
			MeatType:         s.MeatType,
			NStudies:         s.NStudies,
			NWithSE:          s.NWithSE,
			MeanElasticity:   s.MeanElasticity,
			MedianElasticity: s.MedianElasticity,
			MinElasticity:    s.MinElasticity,
			MaxElasticity:    s.MaxElasticity,
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create JSON artifact", err).
			WithContext("path", path)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return errors.NewStorageError("failed to encode summary JSON", err)
	}

	return nil
}

func (e *Exporter) writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create CSV artifact", err).
			WithContext("path", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("failed to write CSV header", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write CSV row %d", i), err)
		}
	}

	return writer.Error()
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6g", *v)
}
