package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/bomplan/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Name prefixes written files, usually the root component
	Name        string
	ElapsedTime time.Duration
	// Date stamps workbook names; zero means today
	Date time.Time
	Out  io.Writer
}

func (c Config) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// GenerateMRP renders an MRP result in the configured format
func GenerateMRP(result *dto.MRPResult, config Config) error {
	switch config.Format {
	case "text", "":
		return emit(renderMRPText(result, config), "mrp_results.txt", config)
	case "json":
		return generateJSONOutput(result, "mrp_results.json", config)
	case "csv":
		data, err := renderMRPCSV(result)
		if err != nil {
			return err
		}
		return emit(data, "mrp_results.csv", config)
	case "xlsx":
		_, err := WriteMRPWorkbook(result, config)
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GenerateEOQ renders an EOQ table in the configured format
func GenerateEOQ(result *dto.EOQResult, config Config) error {
	switch config.Format {
	case "text", "":
		return emit(renderEOQText(result), "eoq_results.txt", config)
	case "json":
		return generateJSONOutput(result, "eoq_results.json", config)
	case "csv":
		data, err := renderEOQCSV(result)
		if err != nil {
			return err
		}
		return emit(data, "eoq_results.csv", config)
	default:
		return fmt.Errorf("unsupported output format for eoq: %s", config.Format)
	}
}

func renderMRPText(result *dto.MRPResult, config Config) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "📊 MRP Results Summary\n")
	fmt.Fprintf(&b, "======================\n\n")
	fmt.Fprintf(&b, "Components: %d\n", len(result.Order))
	if len(result.Periods) > 0 {
		fmt.Fprintf(&b, "Horizon: t=%d .. t=%d\n", result.Periods[0], result.Periods[len(result.Periods)-1])
	}
	fmt.Fprintf(&b, "Total Cost: %s\n", result.TotalCost().StringFixed(2))
	if config.ElapsedTime > 0 {
		fmt.Fprintf(&b, "Planning Time: %v\n", config.ElapsedTime)
	}
	b.WriteString("\n")

	for _, name := range result.Order {
		entry := result.Entries[name]
		if entry == nil {
			continue
		}
		fmt.Fprintf(&b, "📋 %s (on hand %d, lead time %d)\n", name, entry.OnHand, entry.LeadTime)
		if len(entry.Substructure) > 0 {
			parts := make([]string, len(entry.Substructure))
			for i, child := range entry.Substructure {
				parts[i] = fmt.Sprintf("%s x%s", child.Component, formatValue(child.Multiplicity))
			}
			fmt.Fprintf(&b, "   Substructure: %s\n", strings.Join(parts, ", "))
		}

		fmt.Fprintf(&b, "%-24s", "Metric")
		for _, p := range result.Periods {
			fmt.Fprintf(&b, " %10s", "t="+strconv.Itoa(p))
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 24+11*len(result.Periods)))

		for _, metric := range entry.Ledger.Metrics() {
			fmt.Fprintf(&b, "%-24s", metric.Label)
			for _, v := range metric.Values {
				fmt.Fprintf(&b, " %10s", formatValue(v))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeDroppedWarnings(&b, result)
	return b.Bytes()
}

// writeDroppedWarnings lists releases that would fall before the horizon
func writeDroppedWarnings(w io.Writer, result *dto.MRPResult) {
	dropped := result.DroppedReleases()
	if len(dropped) == 0 {
		return
	}
	names := make([]string, 0, len(dropped))
	for name := range dropped {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "⚠️  Releases before the planning horizon:\n")
	for _, name := range names {
		for _, release := range dropped[name] {
			fmt.Fprintf(w, "  %-20s %10s at t=%d\n", name, formatValue(release.Quantity), release.Period)
		}
	}
}

func renderMRPCSV(result *dto.MRPResult) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)

	header := []string{"component", "metric"}
	for _, p := range result.Periods {
		header = append(header, "t="+strconv.Itoa(p))
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, name := range result.Order {
		entry := result.Entries[name]
		if entry == nil {
			continue
		}
		for _, metric := range entry.Ledger.Metrics() {
			record := []string{name, metric.Label}
			for _, v := range metric.Values {
				record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
			}
			if err := w.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV row for %s: %w", name, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return b.Bytes(), nil
}

func renderEOQText(result *dto.EOQResult) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "📊 EOQ Results for %s\n", result.Root)
	fmt.Fprintf(&b, "Annual Demand: %d\n\n", result.AnnualDemand)
	fmt.Fprintf(&b, "%-20s %10s %10s %10s %10s %10s %12s %12s\n",
		"Component", "Demand", "Unit", "Ordering", "Carrying", "EOQ", "Orders/Year", "Years/Order")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 20+10*5+12*2+7))

	for _, row := range result.Rows {
		fmt.Fprintf(&b, "%-20s %10s %10s %10s %10s %10.2f %12.2f %12.4f\n",
			row.Component,
			formatValue(row.Demand),
			row.UnitCost.StringFixed(2),
			row.OrderingCost.StringFixed(2),
			row.CarryingCost.StringFixed(2),
			row.EOQ,
			row.OrdersPerYear,
			row.TimeBetweenOrders)
	}
	return b.Bytes()
}

func renderEOQCSV(result *dto.EOQResult) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)

	rows := [][]string{{
		"component", "demand", "unit_cost", "ordering_cost", "carrying_cost",
		"eoq", "orders_per_year", "time_between_orders",
	}}
	for _, row := range result.Rows {
		rows = append(rows, []string{
			row.Component,
			strconv.FormatFloat(row.Demand, 'f', -1, 64),
			row.UnitCost.String(),
			row.OrderingCost.String(),
			row.CarryingCost.String(),
			strconv.FormatFloat(row.EOQ, 'f', -1, 64),
			strconv.FormatFloat(row.OrdersPerYear, 'f', -1, 64),
			strconv.FormatFloat(row.TimeBetweenOrders, 'f', -1, 64),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return b.Bytes(), nil
}

// generateJSONOutput prints indented JSON, or saves it when an output
// directory is set
func generateJSONOutput(result any, filename string, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return emit(append(jsonData, '\n'), filename, config)
}

// emit writes data to the configured writer, or to filename inside the
// output directory when one is set
func emit(data []byte, filename string, config Config) error {
	out := config.writer()
	if config.OutputDir == "" {
		_, err := out.Write(data)
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(config.OutputDir, prefixed(config.Name, filename))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if config.Verbose {
		fmt.Fprintf(out, "💾 Results saved to: %s\n", path)
	}
	return nil
}

func prefixed(name, filename string) string {
	name = safeName(name)
	if name == "" {
		return filename
	}
	return name + "_" + filename
}

// safeName keeps letters, digits, dash and underscore
func safeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
