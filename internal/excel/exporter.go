package excel

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/livedict/pkg/models"
)

const exportSheet = "Sheet1"

var exportHeader = []string{"Foreign", "Native", "Labels", "Correct", "Incorrect"}

// ExportTranslations writes translations to path, choosing the format by
// extension like ImportTranslations does. Spreadsheet and CSV exports carry a
// header row and can be imported back with DefaultImportConfig.
func ExportTranslations(path string, translations []models.Translation) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return exportToExcel(path, translations)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create export file")
	}
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		err = ExportCSV(file, translations)
	} else {
		err = ExportText(file, translations)
	}
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = errors.Wrap(closeErr, "failed to close export file")
	}
	return err
}

func exportToExcel(path string, translations []models.Translation) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, record := range exportRecords(translations) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "failed to build cell name")
		}
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i+1)
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "B", 24); err != nil {
		return errors.Wrap(err, "failed to set column width")
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save Excel file")
	}
	return nil
}

// ExportCSV writes a header and one record per translation
func ExportCSV(w io.Writer, translations []models.Translation) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(exportRecords(translations)); err != nil {
		return errors.Wrap(err, "failed to write CSV")
	}
	return nil
}

// ExportText writes one "foreign - native" line per translation
func ExportText(w io.Writer, translations []models.Translation) error {
	buf := bufio.NewWriter(w)
	for _, t := range translations {
		if _, err := buf.WriteString(FormatLine(t) + "\n"); err != nil {
			return errors.Wrap(err, "failed to write text")
		}
	}
	return errors.Wrap(buf.Flush(), "failed to write text")
}

func exportRecords(translations []models.Translation) [][]string {
	records := make([][]string, 0, len(translations)+1)
	records = append(records, exportHeader)
	for _, t := range translations {
		labels := make([]string, len(t.Metadata.Labels))
		for i, l := range t.Metadata.Labels {
			labels[i] = l.String()
		}
		var correct, incorrect int
		for _, a := range t.Metadata.Answers {
			if a.Outcome == models.Correct {
				correct++
			} else {
				incorrect++
			}
		}
		records = append(records, []string{
			t.ForeignWord,
			t.NativeWord,
			strings.Join(labels, ","),
			strconv.Itoa(correct),
			strconv.Itoa(incorrect),
		})
	}
	return records
}
