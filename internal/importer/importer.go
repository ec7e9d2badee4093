// Package importer provides CSV and Excel import functionality for sprite
// lists, plus loading of source images into pixel buffers. Sprite lists map
// image files to sprite names and optional clip rectangles, with automatic
// delimiter detection, flexible column mapping, and case-insensitive header
// recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/atlaspack/internal/model"
)

// SpriteRef is one row of a sprite list: an image file, the sprite name it
// should be packed under, and an optional clip rectangle into that image.
// A nil Clip means the whole image.
type SpriteRef struct {
	File string
	Name string
	Clip *model.Rect
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Sprites  []SpriteRef
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	File   int
	Name   int
	X      int
	Y      int
	Width  int
	Height int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"file":   {"file", "path", "image", "filename", "source", "src"},
	"name":   {"name", "sprite", "label", "frame", "id"},
	"x":      {"x", "left", "clip x"},
	"y":      {"y", "top", "clip y"},
	"width":  {"width", "w", "clip width"},
	"height": {"height", "h", "clip height"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1 // Allow variable field counts

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Score: count how many rows have the same column count as the first row.
		// Only consider delimiters that produce more than 1 column.
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column
// role. Returns the mapping and true if a header was detected, or a default
// positional mapping (file, name, x, y, width, height) and false if not.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		File:   -1,
		Name:   -1,
		X:      -1,
		Y:      -1,
		Width:  -1,
		Height: -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "file":
					if mapping.File == -1 {
						mapping.File = i
					}
				case "name":
					if mapping.Name == -1 {
						mapping.Name = i
					}
				case "x":
					if mapping.X == -1 {
						mapping.X = i
					}
				case "y":
					if mapping.Y == -1 {
						mapping.Y = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				}
			}
		}
	}

	if !isHeader {
		mapping = ColumnMapping{File: 0, Name: 1, X: 2, Y: 3, Width: 4, Height: 5}
	}
	return mapping, isHeader
}

// ImportCSV imports sprite references from a CSV file, auto-detecting the
// delimiter and column mapping.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports sprite references from a CSV reader with a
// specific delimiter. This is useful for testing or when the delimiter is
// already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports sprite references from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on file extension: .xlsx goes through excelize,
// everything else is treated as CSV.
func ImportFile(path string) ImportResult {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into sprite refs.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.File == -1 {
			result.Errors = append(result.Errors, "Required column not found in header: File")
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		sprite, errMsg, warning := parseRow(row, mapping, rowLabel)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Sprites = append(result.Sprites, sprite)
	}

	return result
}

// parseRow converts one data row into a SpriteRef. A missing name falls back
// to the image file's base name; a clip rectangle is used only when all four
// of x, y, width, height are present.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (SpriteRef, string, string) {
	file := cellAt(row, mapping.File)
	if file == "" {
		return SpriteRef{}, fmt.Sprintf("%s: missing image file", rowLabel), ""
	}

	name := cellAt(row, mapping.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	sprite := SpriteRef{File: file, Name: name}

	cells := []string{
		cellAt(row, mapping.X),
		cellAt(row, mapping.Y),
		cellAt(row, mapping.Width),
		cellAt(row, mapping.Height),
	}
	present := 0
	for _, c := range cells {
		if c != "" {
			present++
		}
	}
	if present == 0 {
		return sprite, "", ""
	}
	if present < 4 {
		return sprite, "", fmt.Sprintf("%s: incomplete clip rectangle, using full image", rowLabel)
	}

	values := make([]int, 4)
	for i, c := range cells {
		v, err := strconv.Atoi(c)
		if err != nil {
			return SpriteRef{}, fmt.Sprintf("%s: invalid clip value %q", rowLabel, c), ""
		}
		values[i] = v
	}
	clip := model.NewRect(values[0], values[1], values[2], values[3])
	sprite.Clip = &clip
	return sprite, "", ""
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
