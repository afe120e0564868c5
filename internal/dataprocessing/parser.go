package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"energycli/internal/config"
	"energycli/internal/errors"
	"energycli/pkg/contracts/domain"
)

// ParseMeterFile reads a single meter export and extracts its readings.
// The format is chosen by file extension: CSV or XLSX.
func ParseMeterFile(path string) (*domain.MeterFile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseMeterCSV(path)
	case ".xlsx":
		return ParseMeterXLSX(path)
	default:
		return nil, errors.NewSchemaError(fmt.Sprintf("unsupported meter file extension: %s", filepath.Ext(path)))
	}
}

// ParseMeterCSV reads a building meter CSV export. The first row is the
// header; columns are matched case-insensitively after trimming. A
// timestamp and kwh column are required, a building column is optional.
// Rows with a different cell count than the header are skipped; rows with
// unparseable timestamp or kwh values fail the whole file.
func ParseMeterCSV(path string) (*domain.MeterFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFileAccessError(fmt.Sprintf("failed to open meter file %s", filepath.Base(path)), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewSchemaError(fmt.Sprintf("meter file %s is empty", filepath.Base(path)))
	}
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read header of %s", filepath.Base(path)), err)
	}

	columns, err := mapColumns(header, path)
	if err != nil {
		return nil, err
	}

	meterFile := &domain.MeterFile{
		SourceName: filepath.Base(path),
		Building:   BuildingFromFileName(path),
	}

	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to read row %d of %s", rowNum+1, filepath.Base(path)), err)
		}
		rowNum++

		// Ragged rows are silently dropped, matching the header decides
		if len(row) != len(header) {
			continue
		}

		reading, ok, err := parseRow(row, columns, meterFile.Building, path, rowNum)
		if err != nil {
			return nil, err
		}
		if ok {
			meterFile.Readings = append(meterFile.Readings, reading)
		}
	}

	return meterFile, nil
}

// ParseMeterXLSX reads a building meter XLSX export. The first sheet is
// used; the first non-empty row is treated as the header. Row semantics
// match the CSV parser.
func ParseMeterXLSX(path string) (*domain.MeterFile, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewFileAccessError(fmt.Sprintf("failed to open meter file %s", filepath.Base(path)), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewSchemaError(fmt.Sprintf("meter file %s has no sheets", filepath.Base(path)))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %s of %s", sheets[0], filepath.Base(path)), err)
	}

	headerIdx := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return nil, errors.NewSchemaError(fmt.Sprintf("meter file %s is empty", filepath.Base(path)))
	}

	header := rows[headerIdx]
	columns, err := mapColumns(header, path)
	if err != nil {
		return nil, err
	}

	meterFile := &domain.MeterFile{
		SourceName: filepath.Base(path),
		Building:   BuildingFromFileName(path),
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]

		// Skip blank rows; excelize trims trailing empty cells, so pad
		// short rows before the arity check
		if isBlankRow(row) {
			continue
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		if len(row) != len(header) {
			continue
		}

		reading, ok, err := parseRow(row, columns, meterFile.Building, path, i+1)
		if err != nil {
			return nil, err
		}
		if ok {
			meterFile.Readings = append(meterFile.Readings, reading)
		}
	}

	return meterFile, nil
}

// columnMap holds the resolved positions of the meter schema columns
type columnMap struct {
	timestamp int
	kwh       int
	building  int // -1 when absent
}

// mapColumns resolves header cells to schema columns. Matching is
// case-insensitive and ignores surrounding whitespace and a UTF-8 BOM.
func mapColumns(header []string, path string) (columnMap, error) {
	columns := columnMap{timestamp: -1, kwh: -1, building: -1}

	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		switch name {
		case config.TimestampColumn:
			columns.timestamp = i
		case config.KWHColumn:
			columns.kwh = i
		case config.BuildingColumn:
			columns.building = i
		}
	}

	if columns.timestamp < 0 {
		return columns, errors.NewSchemaError(fmt.Sprintf("meter file %s is missing the %s column", filepath.Base(path), config.TimestampColumn))
	}
	if columns.kwh < 0 {
		return columns, errors.NewSchemaError(fmt.Sprintf("meter file %s is missing the %s column", filepath.Base(path), config.KWHColumn))
	}

	return columns, nil
}

// parseRow converts one data row into a reading. Blank rows report ok=false;
// malformed timestamp or kwh values fail the file.
func parseRow(row []string, columns columnMap, fallbackBuilding, path string, rowNum int) (domain.Reading, bool, error) {
	if isBlankRow(row) {
		return domain.Reading{}, false, nil
	}

	timestamp, err := ParseTimestamp(row[columns.timestamp])
	if err != nil {
		return domain.Reading{}, false, errors.NewParsingError(
			fmt.Sprintf("invalid timestamp %q at row %d of %s", row[columns.timestamp], rowNum, filepath.Base(path)), err)
	}

	kwhText := strings.ReplaceAll(strings.TrimSpace(row[columns.kwh]), ",", "")
	kwh, err := strconv.ParseFloat(kwhText, 64)
	if err != nil || math.IsNaN(kwh) || math.IsInf(kwh, 0) {
		return domain.Reading{}, false, errors.NewParsingError(
			fmt.Sprintf("invalid kwh value %q at row %d of %s", kwhText, rowNum, filepath.Base(path)), err)
	}

	building := fallbackBuilding
	if columns.building >= 0 {
		if name := strings.TrimSpace(row[columns.building]); name != "" {
			building = name
		}
	}

	return domain.Reading{
		Timestamp: timestamp,
		KWH:       kwh,
		Building:  building,
	}, true, nil
}

// ParseTimestamp parses a meter reading timestamp, trying the accepted
// layouts in order.
func ParseTimestamp(value string) (time.Time, error) {
	text := strings.TrimSpace(value)
	for _, layout := range config.TimestampLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q matches no accepted layout", text)
}

// BuildingFromFileName derives a building name from the file name: the
// stem up to the first underscore ("library_2024_jan.csv" becomes
// "library").
func BuildingFromFileName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if idx := strings.Index(stem, "_"); idx > 0 {
		return stem[:idx]
	}
	return stem
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
