// Package roster turns uploaded CSV and Excel files into students.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"seating-chart-server-go/models"
)

var (
	ErrNoData     = errors.New("no student data found; expected a header row and at least one data row")
	ErrNoSheets   = errors.New("workbook does not contain any sheets")
	ErrUnreadable = errors.New("unreadable roster file") // wraps failures to decode the file itself
)

// Column labels as they appear in the template.
const (
	ColumnName        = "Name"
	ColumnNationality = "Nationality"
	ColumnAbility     = "English Ability (1-5)"
	ColumnGender      = "Gender (male/female/other)"
)

// MissingColumnsError lists the required columns a file lacks.
type MissingColumnsError struct {
	Missing []string
	Found   []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns. Expected: %s. Found headers in file: [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// Parser reads roster files. The zero value logs nothing.
type Parser struct {
	Log zerolog.Logger
}

// NewParser returns a parser logging skipped rows to l.
func NewParser(l zerolog.Logger) *Parser {
	return &Parser{Log: l}
}

// Parse reads students from a .csv file, or from the first sheet of any
// other workbook excelize can open. Rows failing validation are dropped.
func (p *Parser) Parse(r io.Reader, filename string) ([]models.Student, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		rows, err = readCSV(r)
	} else {
		rows, err = readWorkbook(r)
	}
	if err != nil {
		return nil, err
	}
	return p.parseRows(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse csv file: %w", ErrUnreadable, err)
	}
	return rows, nil
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open excel file: %w", ErrUnreadable, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoSheets
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}
	return rows, nil
}

type columns struct {
	name, nationality, ability, gender int
}

func findColumns(header []string) (columns, error) {
	headers := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	find := func(match func(string) bool) int {
		for i, h := range headers {
			if match(h) {
				return i
			}
		}
		return -1
	}
	isAbility := func(h string) bool {
		return strings.Contains(h, "english ability") || strings.Contains(h, "englishability")
	}
	var cols columns
	cols.name = find(func(h string) bool { return h == "name" })
	cols.nationality = find(func(h string) bool { return h == "nationality" })
	cols.ability = find(isAbility)
	cols.gender = find(func(h string) bool { return strings.Contains(h, "gender") })

	var missing []string
	if cols.name < 0 {
		missing = append(missing, ColumnName)
	}
	if cols.nationality < 0 {
		missing = append(missing, ColumnNationality)
	}
	if cols.ability < 0 {
		missing = append(missing, ColumnAbility)
	}
	if cols.gender < 0 {
		missing = append(missing, "Gender")
	}
	if len(missing) > 0 {
		return cols, &MissingColumnsError{Missing: missing, Found: headers}
	}
	return cols, nil
}

func (p *Parser) parseRows(rows [][]string) ([]models.Student, error) {
	if len(rows) < 2 {
		return nil, ErrNoData
	}
	cols, err := findColumns(rows[0])
	if err != nil {
		return nil, err
	}

	students := make([]models.Student, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if blank(row) {
			continue
		}

		name := cell(row, cols.name)
		nationality := cell(row, cols.nationality)
		abilityRaw := cell(row, cols.ability)
		genderRaw := strings.ToLower(cell(row, cols.gender))
		if name == "" || nationality == "" || abilityRaw == "" || genderRaw == "" {
			p.Log.Warn().Int("row", line).Str("name", name).Str("nationality", nationality).
				Str("ability", abilityRaw).Str("gender", genderRaw).
				Msg("Skipping row due to missing critical data")
			continue
		}

		ability, ok := ParseAbility(abilityRaw)
		if !ok {
			p.Log.Warn().Int("row", line).Str("name", name).Str("ability", abilityRaw).
				Msg("Skipping student due to invalid English ability")
			continue
		}
		gender, ok := ParseGender(genderRaw)
		if !ok {
			p.Log.Warn().Int("row", line).Str("name", name).Str("gender", genderRaw).
				Msg("Skipping student due to invalid gender")
			continue
		}

		students = append(students, models.Student{
			ID:             "student-" + uuid.NewString(),
			Name:           name,
			Nationality:    nationality,
			EnglishAbility: ability,
			Gender:         gender,
		})
	}
	return students, nil
}

// ParseAbility accepts an integer from 1 to 5. Whole-number decimals such
// as "3.0", which spreadsheets commonly produce, are accepted too.
func ParseAbility(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		n = int(f)
	}
	if n < models.EnglishAbilityMin || n > models.EnglishAbilityMax {
		return 0, false
	}
	return n, true
}

// ParseGender canonicalizes male/m, female/f and other/o.
func ParseGender(raw string) (models.Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return models.GenderMale, true
	case "female", "f":
		return models.GenderFemale, true
	case "other", "o":
		return models.GenderOther, true
	}
	return "", false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
