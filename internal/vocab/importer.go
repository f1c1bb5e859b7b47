package vocab

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/verbtrainer/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath             string // Path to the Excel or CSV file
	InfinitiveColumn     string // Column with the infinitive
	PreteriteColumn      string // Column with the preterite
	PastParticipleColumn string // Column with the past participle
	TranslationColumn    string // Column with the translation, may be empty
	SheetName            string // Sheet to import, first sheet when empty
	StartRow             int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		InfinitiveColumn:     "A",
		PreteriteColumn:      "B",
		PastParticipleColumn: "C",
		TranslationColumn:    "D",
		StartRow:             2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	Entries        []models.VerbEntry
	TotalProcessed int
	Duplicates     int
	Skipped        int
	Errors         []string
}

// ImportSpreadsheet reads verbs from an Excel or CSV file
func ImportSpreadsheet(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	var rows [][]string
	var err error
	if ext == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Errors: make([]string, 0),
	}
	seen := make(map[string]bool)

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		if isBlankRow(row) {
			continue
		}

		result.TotalProcessed++

		v, err := processRow(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}

		if seen[v.Key()] {
			result.Duplicates++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: duplicate infinitive %q", i+1, v.Infinitive))
			continue
		}
		seen[v.Key()] = true
		result.Entries = append(result.Entries, v)
	}

	return result, nil
}

// readExcel returns all rows of a sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processRow extracts a verb from a row
func processRow(row []string, config ImportConfig) (models.VerbEntry, error) {
	v := models.VerbEntry{
		Infinitive:     cell(row, config.InfinitiveColumn),
		Preterite:      cell(row, config.PreteriteColumn),
		PastParticiple: cell(row, config.PastParticipleColumn),
		Translation:    cell(row, config.TranslationColumn),
	}

	switch {
	case v.Infinitive == "":
		return v, fmt.Errorf("infinitive cannot be empty")
	case v.Preterite == "":
		return v, fmt.Errorf("preterite cannot be empty")
	case v.PastParticiple == "":
		return v, fmt.Errorf("past participle cannot be empty")
	}
	return v, nil
}

// cell returns the trimmed value in column, empty when out of range
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
