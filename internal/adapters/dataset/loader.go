package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"normatlas/internal/adapters/config"
	"normatlas/internal/domain/staffing"
	"normatlas/pkg/errors"
	"normatlas/pkg/logger"
)

// Required column names. These headers are the external contract with the
// data producers; renaming one is a breaking change for every tool.
const (
	needDistrictColumn = "ilçe"
	needBranchColumn   = "branş"
	needCountColumn    = "ihtiyac"

	surplusDistrictColumn      = "İlçe Adı"
	surplusBranchColumn        = "Branşı"
	surplusJustificationColumn = "Açıklamalar"
)

// Load reads both source tables from disk and builds the immutable table
// pair. Files may be .xlsx or .csv, selected by extension. Category strings
// are whitespace-trimmed here; the aggregation engine downstream assumes
// pre-normalized, exact-match values. A missing required column is fatal
// (errors.ErrSchema), not a recoverable data issue.
func Load(cfg config.DatasetConfig, log *logger.Logger) (*staffing.Tables, error) {
	needRows, err := readTable(cfg.NeedPath)
	if err != nil {
		return nil, errors.Wrapf(err, "load need table %s", cfg.NeedPath)
	}

	surplusRows, err := readTable(cfg.SurplusPath)
	if err != nil {
		return nil, errors.Wrapf(err, "load surplus table %s", cfg.SurplusPath)
	}

	needs, err := parseNeeds(needRows)
	if err != nil {
		return nil, errors.Wrapf(err, "parse need table %s", cfg.NeedPath)
	}

	surpluses, err := parseSurpluses(surplusRows)
	if err != nil {
		return nil, errors.Wrapf(err, "parse surplus table %s", cfg.SurplusPath)
	}

	log.Infof("Loaded %d need rows and %d surplus rows", len(needs), len(surpluses))
	return staffing.NewTables(needs, surpluses), nil
}

func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, errors.Wrapf(errors.ErrDatasetUnreadable, "unsupported file extension %q", filepath.Ext(path))
	}
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatasetUnreadable, err.Error())
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(errors.ErrDatasetUnreadable, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatasetUnreadable, err.Error())
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatasetUnreadable, err.Error())
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatasetUnreadable, err.Error())
	}
	return rows, nil
}

// columnIndex locates required headers, trimming header cells first.
func columnIndex(header []string, names ...string) (map[string]int, error) {
	index := make(map[string]int, len(names))
	for i, cell := range header {
		index[strings.TrimSpace(cell)] = i
	}

	out := make(map[string]int, len(names))
	for _, name := range names {
		i, ok := index[name]
		if !ok {
			return nil, errors.Wrapf(errors.ErrSchema, "required column %q not found", name)
		}
		out[name] = i
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseNeeds(rows [][]string) ([]staffing.NeedRecord, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(errors.ErrSchema, "table has no header row")
	}

	cols, err := columnIndex(rows[0], needDistrictColumn, needBranchColumn, needCountColumn)
	if err != nil {
		return nil, err
	}

	var records []staffing.NeedRecord
	for _, row := range rows[1:] {
		district := cell(row, cols[needDistrictColumn])
		branch := cell(row, cols[needBranchColumn])
		if district == "" && branch == "" {
			continue
		}

		need := 0
		if raw := cell(row, cols[needCountColumn]); raw != "" {
			need, err = strconv.Atoi(raw)
			if err != nil {
				// Spreadsheet exports sometimes render integers as floats.
				f, ferr := strconv.ParseFloat(raw, 64)
				if ferr != nil || f != float64(int(f)) {
					return nil, errors.Wrapf(errors.ErrSchema, "need value %q is not an integer", raw)
				}
				need = int(f)
			}
		}

		records = append(records, staffing.NeedRecord{
			District: district,
			Branch:   branch,
			Need:     need,
		})
	}
	return records, nil
}

func parseSurpluses(rows [][]string) ([]staffing.SurplusRecord, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(errors.ErrSchema, "table has no header row")
	}

	cols, err := columnIndex(rows[0], surplusDistrictColumn, surplusBranchColumn, surplusJustificationColumn)
	if err != nil {
		return nil, err
	}

	var records []staffing.SurplusRecord
	for _, row := range rows[1:] {
		district := cell(row, cols[surplusDistrictColumn])
		branch := cell(row, cols[surplusBranchColumn])
		if district == "" && branch == "" {
			continue
		}

		var justification *string
		if raw := cell(row, cols[surplusJustificationColumn]); raw != "" {
			justification = &raw
		}

		records = append(records, staffing.SurplusRecord{
			District:      district,
			Branch:        branch,
			Justification: justification,
		})
	}
	return records, nil
}
