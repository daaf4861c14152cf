package excel

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/livedict/pkg/models"
)

// Inserter stores one translation and reports false when it already exists
type Inserter interface {
	InsertSingle(ctx context.Context, t models.Translation) (bool, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath      string // Path to the Excel, CSV or text file
	ForeignColumn string // Column with the foreign word
	NativeColumn  string // Column with the native word
	SheetName     string // Sheet to import; empty means the first one
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		ForeignColumn: "A",
		NativeColumn:  "B",
		StartRow:      2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

func (r *ImportResult) String() string {
	return fmt.Sprintf("processed %d, created %d, skipped %d, errors %d",
		r.TotalProcessed, r.Created, r.Skipped, len(r.Errors))
}

// ImportTranslations imports translations from a file, choosing the format by
// extension: .xlsx/.xlsm, .csv, anything else is read as text lines
func ImportTranslations(ctx context.Context, config ImportConfig, inserter Inserter) (*ImportResult, error) {
	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".xlsx", ".xlsm":
		return importFromExcel(ctx, config, inserter)
	case ".csv":
		file, err := os.Open(config.FilePath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open CSV file")
		}
		defer file.Close()
		return ImportCSV(ctx, file, config, inserter)
	default:
		file, err := os.Open(config.FilePath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open text file")
		}
		defer file.Close()
		return ImportText(ctx, file, inserter)
	}
}

// importFromExcel imports translations from an Excel file
func importFromExcel(ctx context.Context, config ImportConfig, inserter Inserter) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rows")
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		if err := processRow(ctx, row, config, inserter, result, i+1); err != nil {
			return result, err
		}
	}
	return result, nil
}

// ImportCSV imports translations from CSV records
func ImportCSV(ctx context.Context, r io.Reader, config ImportConfig, inserter Inserter) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, errors.Wrap(err, "error reading CSV")
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		if err := processRow(ctx, row, config, inserter, result, rowNum); err != nil {
			return result, err
		}
	}
	return result, nil
}

// ImportText imports "foreign - native" lines. Blank lines and lines
// starting with # are ignored.
func ImportText(ctx context.Context, r io.Reader, inserter Inserter) (*ImportResult, error) {
	result := &ImportResult{Errors: make([]string, 0)}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if isSkippable(line) {
			continue
		}

		result.TotalProcessed++
		t, err := ParseLine(line)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}
		if err := insert(ctx, t, inserter, result); err != nil {
			return result, err
		}
	}
	if err := scanner.Err(); err != nil {
		return result, errors.Wrap(err, "error reading text")
	}
	return result, nil
}

// processRow handles one spreadsheet or CSV row. Bad rows are recorded in
// result; only storage failures are returned.
func processRow(ctx context.Context, row []string, config ImportConfig, inserter Inserter, result *ImportResult, rowNum int) error {
	var foreign, native string
	if colIdx := columnToIndex(config.ForeignColumn); colIdx >= 0 && colIdx < len(row) {
		foreign = cleanWord(row[colIdx])
	}
	if colIdx := columnToIndex(config.NativeColumn); colIdx >= 0 && colIdx < len(row) {
		native = cleanWord(row[colIdx])
	}
	if foreign == "" && native == "" {
		return nil
	}

	result.TotalProcessed++
	switch {
	case foreign == "":
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: foreign word cannot be empty", rowNum))
		return nil
	case native == "":
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: native word cannot be empty", rowNum))
		return nil
	}
	return insert(ctx, models.NewTranslation(foreign, native), inserter, result)
}

func insert(ctx context.Context, t models.Translation, inserter Inserter, result *ImportResult) error {
	created, err := inserter.InsertSingle(ctx, t)
	if err != nil {
		return errors.Wrapf(err, "failed to import %q", t.String())
	}
	if created {
		result.Created++
	} else {
		result.Skipped++
	}
	return nil
}

// columnToIndex converts an Excel column letter to a 0-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
