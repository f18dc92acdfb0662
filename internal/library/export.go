package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// parquetRow is the flattened shape written to Parquet: one row per book,
// denormalized with its scan metadata.
type parquetRow struct {
	ScanID     string `parquet:"scan_id"`
	ImageRef   string `parquet:"image_ref"`
	Title      string `parquet:"title"`
	Author     string `parquet:"author"`
	Confidence string `parquet:"confidence"`
	ISBN       string `parquet:"isbn,optional"`
	CreatedAt  int64  `parquet:"created_at"`
}

// Export writes records to path, picking the format from the extension:
// .parquet, .jsonl/.json (one record per line), or .yaml/.yml.
func Export(path string, records []Record) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return exportParquet(path, records)
	case ".jsonl", ".json":
		return exportJSONL(path, records)
	case ".yaml", ".yml":
		return exportYAML(path, records)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: .parquet, .jsonl/.json, .yaml)", filepath.Ext(path))
	}
}

func exportParquet(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[parquetRow](file)

	for _, record := range records {
		rows := make([]parquetRow, 0, len(record.Books))
		for _, book := range record.Books {
			rows = append(rows, parquetRow{
				ScanID:     record.ID,
				ImageRef:   record.ImageRef,
				Title:      book.Title,
				Author:     book.Author,
				Confidence: book.Confidence.String(),
				ISBN:       book.ISBN,
				CreatedAt:  record.CreatedAt.Unix(),
			})
		}
		if len(rows) == 0 {
			continue
		}
		if _, err := writer.Write(rows); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func exportJSONL(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSONL file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to encode record %s: %w", record.ID, err)
		}
	}
	return nil
}

func exportYAML(path string, records []Record) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}
