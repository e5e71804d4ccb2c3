// Package upload parses landings CSV files into rows for validation.
package upload

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/models"
)

// Columns of a landings file, in order
var Columns = []string{"productId", "dateLanded", "faoArea", "vesselPln", "exportWeight"}

// Row error keys
const (
	ErrColumns = "error.upload.columns"
	ErrProduct = "error.upload.productId"
	ErrDate    = "error.upload.dateLanded"
	ErrFAOArea = "error.upload.faoArea"
	ErrPLN     = "error.upload.vesselPln"
	ErrWeight  = "error.upload.exportWeight"
)

var (
	ErrEmptyFile       = errors.New("upload: file is empty")
	ErrInvalidEncoding = errors.New("upload: file is not UTF-8")
	ErrTooManyRows     = errors.New("upload: too many rows")
)

// Parse reads a landings file. A UTF-8 byte order mark and a header row are
// both optional. Rows that cannot be read carry errors rather than failing the
// whole file. At most maxRows data rows are accepted; zero means no limit.
func Parse(r io.Reader, maxRows int) ([]models.UploadRow, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	content, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("upload: reading file: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(content) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []models.UploadRow
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err == nil && (line == 1 && isHeader(record) || blank(record)) {
			continue
		}
		if maxRows > 0 && len(rows) >= maxRows {
			return nil, ErrTooManyRows
		}
		// unreadable rows, such as a stray quote, still count towards the limit
		if err != nil {
			rows = append(rows, models.UploadRow{RowNumber: len(rows) + 1, Errors: []string{ErrColumns}})
			continue
		}
		rows = append(rows, parseRow(len(rows)+1, record))
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), Columns[0])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRow(n int, record []string) models.UploadRow {
	row := models.UploadRow{RowNumber: n, Raw: strings.Join(record, ",")}
	if len(record) != len(Columns) {
		row.Errors = []string{ErrColumns}
		return row
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	row.ProductID, row.DateLanded, row.FAOArea = record[0], record[1], record[2]
	row.PLN = strings.ToUpper(record[3])

	if row.ProductID == "" {
		row.Errors = append(row.Errors, ErrProduct)
	}
	if !forms.IsPastDate(row.DateLanded) {
		row.Errors = append(row.Errors, ErrDate)
	}
	if row.FAOArea == "" {
		row.Errors = append(row.Errors, ErrFAOArea)
	}
	if row.PLN == "" {
		row.Errors = append(row.Errors, ErrPLN)
	}
	if w, ok := forms.ParseWeight(record[4]); ok {
		row.ExportWeight = w
	} else {
		row.Errors = append(row.Errors, ErrWeight)
	}
	return row
}

// Split separates rows that passed local checks from those that did not
func Split(rows []models.UploadRow) (valid, invalid []models.UploadRow) {
	for _, r := range rows {
		if r.Valid() {
			valid = append(valid, r)
		} else {
			invalid = append(invalid, r)
		}
	}
	return valid, invalid
}

// Merge overlays the orchestration service's verdict on locally checked rows,
// matching them by row number
func Merge(local []models.UploadRow, remote models.UploadValidation) []models.UploadRow {
	byNumber := make(map[int]models.UploadRow, len(remote.Rows))
	for _, r := range remote.Rows {
		byNumber[r.RowNumber] = r
	}
	out := make([]models.UploadRow, len(local))
	for i, r := range local {
		if checked, ok := byNumber[r.RowNumber]; ok {
			r.Errors = append(r.Errors, checked.Errors...)
		}
		out[i] = r
	}
	return out
}
