package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Template formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown template format")

const templateSheet = "Students"

// Header is the template header row.
var Header = []string{ColumnName, ColumnNationality, ColumnAbility, ColumnGender}

// sampleRows are the example students shipped in the template.
var sampleRows = [][]string{
	{"Nguyen Van An", "Vietnamese", "1", "male"},
	{"Tran Thi Binh", "Vietnamese", "2", "female"},
	{"Le Minh Cuong", "Vietnamese", "3", "male"},
	{"Pham Hoai Dan", "Vietnamese", "3", "female"},
	{"Vo Tuan Em", "Vietnamese", "4", "male"},
	{"Do Ngoc Giang", "Vietnamese", "4", "female"},
	{"Hoang Van Hai", "Vietnamese", "5", "male"},
	{"Bui Thi Kim", "Vietnamese", "5", "female"},
	{"Dang Quang Long", "Vietnamese", "3", "male"},
	{"Ly My Nhan", "Vietnamese", "4", "female"},
	{"Kim Min-jun", "Korean", "1", "male"},
	{"Lee Seo-yeon", "Korean", "2", "female"},
	{"Park Ji-hoon", "Korean", "3", "male"},
	{"Choi Soo-min", "Korean", "3", "female"},
	{"Jung Hyun-woo", "Korean", "4", "male"},
	{"Kang Ji-eun", "Korean", "4", "female"},
	{"Yoon Dong-hyun", "Korean", "5", "male"},
	{"Han Yoo-jin", "Korean", "5", "female"},
	{"Song Jae-hee", "Korean", "3", "male"},
	{"Im Chae-won", "Korean", "4", "female"},
	{"Suzuki Taro", "Japanese", "3", "male"},
	{"Wang Lin", "Chinese", "3", "female"},
	{"Somchai Boonmee", "Thai", "5", "male"},
	{"Maria Santos", "Filipino", "5", "female"},
}

// TemplateFilename returns the download name for format.
func TemplateFilename(format string) string {
	return "student_template." + format
}

// WriteTemplate writes the roster template in the given format.
func WriteTemplate(w io.Writer, format string) error {
	switch format {
	case FormatCSV:
		return writeCSVTemplate(w)
	case FormatXLSX:
		return writeXLSXTemplate(w)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func writeCSVTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}
	if err := cw.WriteAll(sampleRows); err != nil {
		return fmt.Errorf("failed to write template rows: %w", err)
	}
	return nil
}

func writeXLSXTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return fmt.Errorf("failed to name template sheet: %w", err)
	}
	if err := f.SetSheetRow(templateSheet, "A1", &Header); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}
	for i, row := range sampleRows {
		ability, _ := strconv.Atoi(row[2])
		values := []interface{}{row[0], row[1], ability, row[3]}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(templateSheet, cellRef, &values); err != nil {
			return fmt.Errorf("failed to write template row %d: %w", i+2, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
