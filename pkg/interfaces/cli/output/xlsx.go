package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/bomplan/pkg/application/dto"
)

// maxSheetName is the longest sheet name a workbook accepts
const maxSheetName = 31

// WorkbookName returns "<bom>_MRP_<YYYY-MM-DD>.xlsx"
func WorkbookName(name string, date time.Time) string {
	name = safeName(name)
	if name == "" {
		name = "bom"
	}
	return fmt.Sprintf("%s_MRP_%s.xlsx", name, date.Format("2006-01-02"))
}

// BuildMRPWorkbook lays the result out with one sheet per component in
// display order. Each sheet has a "Metric, t=p..." header row followed by
// the ledger rows.
func BuildMRPWorkbook(result *dto.MRPResult) (*excelize.File, error) {
	f := excelize.NewFile()

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := []any{"Metric"}
	for _, p := range result.Periods {
		header = append(header, "t="+strconv.Itoa(p))
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		f.Close()
		return nil, err
	}

	used := make(map[string]bool)
	first := true
	for _, name := range result.Order {
		entry := result.Entries[name]
		if entry == nil {
			continue
		}

		sheet := sheetName(name, used)
		if first {
			first = false
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}

		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header for %s: %w", name, err)
		}
		f.SetCellStyle(sheet, "A1", lastCol+"1", boldStyle)

		for row, metric := range entry.Ledger.Metrics() {
			values := []any{metric.Label}
			for _, v := range metric.Values {
				values = append(values, v)
			}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row+2), &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write %s for %s: %w", metric.Label, name, err)
			}
		}
		f.SetColWidth(sheet, "A", "A", 24)
	}

	return f, nil
}

// WriteMRPWorkbook saves the workbook into the output directory and returns
// its path
func WriteMRPWorkbook(result *dto.MRPResult, config Config) (string, error) {
	f, err := BuildMRPWorkbook(result)
	if err != nil {
		return "", err
	}
	defer f.Close()

	dir := config.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	date := config.Date
	if date.IsZero() {
		date = time.Now()
	}
	path := filepath.Join(dir, WorkbookName(config.Name, date))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	fmt.Fprintf(config.writer(), "💾 Workbook saved to: %s\n", path)
	writeDroppedWarnings(config.writer(), result)
	return path, nil
}

// sheetName strips characters workbooks reject, truncates to the sheet name
// limit and disambiguates collisions with a numeric suffix
func sheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	clean = strings.Trim(clean, "'")
	if clean == "" {
		clean = "Component"
	}

	candidate := truncateRunes(clean, maxSheetName)
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := "~" + strconv.Itoa(n)
		candidate = truncateRunes(clean, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
