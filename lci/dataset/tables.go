package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/inference-sim/lci-index/lci"
	"github.com/inference-sim/lci-index/lci/chain"
	"github.com/inference-sim/lci-index/lci/latency"
)

// Output column headers.
var (
	RowColumns    = []string{"date", "family", "provider", "model", "region", "accuracy", "p95_ms", "QOU", "C_all_in", "LCI"}
	FamilyColumns = []string{"date", "family", "LCI", "accuracy", "p95_ms", "price_per_token_usd"}
	IndexColumns  = []string{"date", "IPD"}
	CurveColumns  = []string{"utilization", "p95_ms", "LCI"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeTable writes header and rows, flushing once at the end.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRows writes one line per observation. Undefined values are empty cells.
func WriteRows(w io.Writer, rows []lci.Row) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Date.Format(dateFormat),
			r.Family,
			r.Provider,
			r.Model,
			r.Region,
			r.Accuracy.String(),
			r.P95Ms.String(),
			r.QOU.String(),
			r.AllInCost.String(),
			r.LCI.String(),
		})
	}
	return writeTable(w, RowColumns, out)
}

// WriteFamilies writes the per-(date, family) median table.
func WriteFamilies(w io.Writer, families []lci.FamilyLCI) error {
	out := make([][]string, 0, len(families))
	for _, f := range families {
		out = append(out, []string{
			f.Date.Format(dateFormat),
			f.Family,
			formatFloat(f.LCI),
			formatFloat(f.Accuracy),
			formatFloat(f.P95Ms),
			formatFloat(f.PricePerTokenUSD),
		})
	}
	return writeTable(w, FamilyColumns, out)
}

// WriteIndex writes the chained IPD series.
func WriteIndex(w io.Writer, points []chain.Point) error {
	out := make([][]string, 0, len(points))
	for _, p := range points {
		out = append(out, []string{p.Date.Format(dateFormat), formatFloat(p.IPD)})
	}
	return writeTable(w, IndexColumns, out)
}

// WriteCurve writes an LCI sensitivity curve.
func WriteCurve(w io.Writer, curve []latency.CurvePoint) error {
	out := make([][]string, 0, len(curve))
	for _, c := range curve {
		out = append(out, []string{formatFloat(c.Utilization), formatFloat(c.P95Ms), formatFloat(c.LCI)})
	}
	return writeTable(w, CurveColumns, out)
}

// WriteFile creates path (and its directory) and hands it to write.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()
	if err := write(file); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadFamiliesFile opens path and parses it with ReadFamilies.
func ReadFamiliesFile(path string) ([]lci.FamilyLCI, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening family table: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadFamilies(file)
}

// ReadFamilies parses a family table. Only date, family and LCI are required;
// rows with an undefined LCI or unparseable date are dropped.
func ReadFamilies(r io.Reader) ([]lci.FamilyLCI, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []lci.FamilyLCI{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	idx := indexColumns(header)
	for _, col := range []string{"date", "family", "LCI"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("family table: missing required column %q", col)
		}
	}

	out := []lci.FamilyLCI{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		date, err := parseDate(get("date"))
		if err != nil {
			continue
		}
		value, ok := parseMaybe(get("LCI")).Get()
		if !ok {
			continue
		}
		out = append(out, lci.FamilyLCI{
			Date:             date,
			Family:           get("family"),
			LCI:              value,
			Accuracy:         parseMaybe(get("accuracy")).OrElse(0),
			P95Ms:            parseMaybe(get("p95_ms")).OrElse(0),
			PricePerTokenUSD: parseMaybe(get("price_per_token_usd")).OrElse(0),
		})
	}
	return out, nil
}

const dateFormat = "2006-01-02"
