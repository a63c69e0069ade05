package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"toothlab/domain/dataset"
	"toothlab/ports"

	"github.com/xuri/excelize/v2"
)

// DatasetReader loads observations from a CSV or Excel file on disk.
type DatasetReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	schema   Schema
}

var _ ports.DatasetLoaderPort = (*DatasetReader)(nil)

// NewDatasetReader picks the file format from the extension; everything
// that is not .csv is treated as an Excel workbook.
func NewDatasetReader(filePath string) *DatasetReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DatasetReader{filePath: filePath, fileType: fileType, schema: DefaultSchema()}
}

// WithSchema overrides the default column mapping.
func (r *DatasetReader) WithSchema(schema Schema) *DatasetReader {
	r.schema = schema
	return r
}

func (r *DatasetReader) Source() string {
	return r.filePath
}

func (r *DatasetReader) Load(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Printf("[DatasetReader] Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	start := time.Now()
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[DatasetReader] %s read in %.2fms (%d rows)",
		strings.ToUpper(r.fileType), float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	d, err := buildDataset(rows, r.schema)
	if err != nil {
		return nil, err
	}
	log.Printf("[DatasetReader] Parsed %d observations across %d factor fields",
		d.Len(), len(d.FactorFields))
	return d, nil
}

func (r *DatasetReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *DatasetReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}
