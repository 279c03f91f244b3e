package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aevon-lab/regpulse/internal/core/registration"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// csvHeader is the required column order of CSV datasets.
var csvHeader = []string{"year", "quarter", "category", "manufacturer", "registrations"}

// Files loads records from dataset files on disk.
// Supported formats, chosen by extension:
//   - .yaml / .yml: a top-level list of records
//   - .csv: header row year,quarter,category,manufacturer,registrations
//
// Files are read concurrently; records are returned in path order.
type Files struct {
	paths []string
}

// NewFiles creates a file source over paths.
func NewFiles(paths ...string) *Files {
	return &Files{paths: paths}
}

// Load reads every configured file.
func (f *Files) Load(ctx context.Context) ([]registration.Record, error) {
	results := make([][]registration.Record, len(f.paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range f.paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := readDataset(path)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []registration.Record
	for _, records := range results {
		all = append(all, records...)
	}
	return all, nil
}

func readDataset(path string) ([]registration.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		records, err := parseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
		}
		return records, nil
	case ".csv":
		records, err := parseCSV(data)
		if err != nil {
			return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("dataset %s: unsupported extension %q", path, filepath.Ext(path))
	}
}

// yamlRecord accepts the year as either an integer or an integer-like string.
type yamlRecord struct {
	Year          string `yaml:"year"`
	Quarter       string `yaml:"quarter"`
	Category      string `yaml:"category"`
	Manufacturer  string `yaml:"manufacturer"`
	Registrations int64  `yaml:"registrations"`
}

func parseYAML(data []byte) ([]registration.Record, error) {
	var raw []yamlRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	records := make([]registration.Record, 0, len(raw))
	for i, r := range raw {
		year, err := registration.ParseYear(r.Year)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		records = append(records, registration.Record{
			Year:          year,
			Quarter:       registration.Quarter(strings.TrimSpace(r.Quarter)),
			Category:      strings.TrimSpace(r.Category),
			Manufacturer:  strings.TrimSpace(r.Manufacturer),
			Registrations: r.Registrations,
		})
	}
	return records, nil
}

func parseCSV(data []byte) ([]registration.Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	for i, col := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, fmt.Errorf("header column %d is %q, want %q", i+1, header[i], col)
		}
	}

	var records []registration.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		year, err := registration.ParseYear(row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		count, err := strconv.ParseInt(strings.TrimSpace(row[4]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: registrations %q is not an integer", line, row[4])
		}

		records = append(records, registration.Record{
			Year:          year,
			Quarter:       registration.Quarter(strings.TrimSpace(row[1])),
			Category:      strings.TrimSpace(row[2]),
			Manufacturer:  strings.TrimSpace(row[3]),
			Registrations: count,
		})
	}
	return records, nil
}
