package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/ski-ratings/internal/models"
)

// CSVSourceName is the name reported by CSV sources
const CSVSourceName = "csv"

var dateLayouts = []string{time.DateOnly, "2006/01/02", "02.01.2006"}

// Accepted header names per field, first match wins
var (
	resultHeaders = map[string][]string{
		"season":        {"season"},
		"ordinal":       {"ordinal", "race", "event"},
		"date":          {"date"},
		"venue":         {"venue", "city", "location"},
		"category":      {"category", "type"},
		"competitor_id": {"competitor_id", "id", "athlete_id"},
		"name":          {"name", "skier", "athlete"},
		"nation":        {"nation", "country"},
		"sex":           {"sex"},
		"place":         {"place", "rank"},
	}
	groundTruthHeaders = map[string][]string{
		"competitor_id": {"competitor_id", "id", "athlete_id"},
		"season":        {"season"},
		"source_event":  {"source_event", "race", "event"},
		"date":          {"date"},
		"venue":         {"venue", "city", "location"},
		"category":      {"category", "type"},
		"boundary":      {"boundary"},
		"pre_rating":    {"pre_rating", "pre", "elo_pre"},
		"post_rating":   {"post_rating", "post", "elo_post"},
	}
)

var (
	requiredResultFields      = []string{"season", "ordinal", "date", "venue", "category", "competitor_id", "place"}
	requiredGroundTruthFields = []string{"competitor_id", "season", "pre_rating", "post_rating"}
)

// CSVSource reads the Event Table and ground-truth table from CSV files with
// a header row
type CSVSource struct {
	resultsPath     string
	groundTruthPath string
}

// NewCSVSource creates a CSV data source. An empty groundTruthPath yields a
// cold-start run.
func NewCSVSource(resultsPath, groundTruthPath string) *CSVSource {
	return &CSVSource{resultsPath: resultsPath, groundTruthPath: groundTruthPath}
}

// Name returns the name of the data source
func (s *CSVSource) Name() string {
	return CSVSourceName
}

// LoadResults reads and parses the results file
func (s *CSVSource) LoadResults(ctx context.Context, discipline string) ([]models.Result, error) {
	table, err := readTable(ctx, s.resultsPath, resultHeaders, requiredResultFields)
	if err != nil {
		return nil, err
	}

	results := make([]models.Result, 0, len(table.rows))
	for i, rec := range table.rows {
		res, err := parseResult(table, rec)
		if err != nil {
			return nil, rowErr(s.resultsPath, i, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// LoadGroundTruth reads and parses the ground-truth file
func (s *CSVSource) LoadGroundTruth(ctx context.Context, discipline string) ([]models.GroundTruthRecord, error) {
	if s.groundTruthPath == "" {
		return []models.GroundTruthRecord{}, nil
	}

	table, err := readTable(ctx, s.groundTruthPath, groundTruthHeaders, requiredGroundTruthFields)
	if err != nil {
		return nil, err
	}

	records := make([]models.GroundTruthRecord, 0, len(table.rows))
	for i, rec := range table.rows {
		gt, err := parseGroundTruth(table, rec)
		if err != nil {
			return nil, rowErr(s.groundTruthPath, i, err)
		}
		records = append(records, gt)
	}
	return records, nil
}

type csvTable struct {
	columns map[string]int
	rows    [][]string
}

func (t *csvTable) get(rec []string, field string) string {
	idx, ok := t.columns[field]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func readTable(ctx context.Context, path string, headers map[string][]string, required []string) (*csvTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewDataSourceError(CSVSourceName, ErrCodeNotFound, path, ErrNotFound)
		}
		return nil, NewDataSourceError(CSVSourceName, ErrCodeIO, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewDataSourceError(CSVSourceName, ErrCodeInvalidData, path+": empty file", ErrInvalidData)
		}
		return nil, NewDataSourceError(CSVSourceName, ErrCodeIO, path, err)
	}

	table := &csvTable{columns: mapColumns(header, headers)}
	for _, field := range required {
		if _, ok := table.columns[field]; !ok {
			return nil, NewDataSourceError(CSVSourceName, ErrCodeInvalidData, fmt.Sprintf("%s: column %q", path, field), ErrMissingColumn)
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, NewDataSourceError(CSVSourceName, ErrCodeInvalidData, path, err)
	}
	table.rows = rows
	return table, nil
}

func mapColumns(header []string, headers map[string][]string) map[string]int {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := positions[h]; !dup {
			positions[h] = i
		}
	}

	columns := make(map[string]int, len(headers))
	for field, aliases := range headers {
		for _, alias := range aliases {
			if idx, ok := positions[alias]; ok {
				columns[field] = idx
				break
			}
		}
	}
	return columns
}

func parseResult(t *csvTable, rec []string) (models.Result, error) {
	var (
		res models.Result
		err error
	)
	if res.Season, err = atoi(t.get(rec, "season"), "season"); err != nil {
		return res, err
	}
	if res.Ordinal, err = atoi(t.get(rec, "ordinal"), "ordinal"); err != nil {
		return res, err
	}
	if res.Date, err = parseDate(t.get(rec, "date")); err != nil {
		return res, err
	}
	if res.Category, err = models.ParseEventCategory(t.get(rec, "category")); err != nil {
		return res, err
	}
	if res.Place, err = atoi(t.get(rec, "place"), "place"); err != nil {
		return res, err
	}
	res.Venue = t.get(rec, "venue")
	res.Competitor = models.Competitor{
		ID:     t.get(rec, "competitor_id"),
		Name:   t.get(rec, "name"),
		Nation: t.get(rec, "nation"),
		Sex:    strings.ToUpper(t.get(rec, "sex")),
	}
	return res, nil
}

func parseGroundTruth(t *csvTable, rec []string) (models.GroundTruthRecord, error) {
	var (
		gt  models.GroundTruthRecord
		err error
	)
	gt.CompetitorID = t.get(rec, "competitor_id")
	if gt.Season, err = atoi(t.get(rec, "season"), "season"); err != nil {
		return gt, err
	}

	event := t.get(rec, "source_event")
	gt.Boundary = strings.EqualFold(event, "boundary")
	if b := t.get(rec, "boundary"); b != "" {
		if gt.Boundary, err = strconv.ParseBool(b); err != nil {
			return gt, fmt.Errorf("boundary %q: %w", b, ErrInvalidData)
		}
	}

	if !gt.Boundary {
		if event != "" {
			if gt.SourceEvent, err = atoi(event, "source_event"); err != nil {
				return gt, err
			}
		}
		if gt.Date, err = parseDate(t.get(rec, "date")); err != nil {
			return gt, err
		}
		if gt.Category, err = models.ParseEventCategory(t.get(rec, "category")); err != nil {
			return gt, err
		}
		gt.Venue = t.get(rec, "venue")
	}

	if gt.PreRating, err = parseFloat(t.get(rec, "pre_rating"), "pre_rating"); err != nil {
		return gt, err
	}
	if gt.PostRating, err = parseFloat(t.get(rec, "post_rating"), "post_rating"); err != nil {
		return gt, err
	}
	return gt, nil
}

func atoi(s, field string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", field, s, ErrInvalidData)
	}
	return v, nil
}

func parseFloat(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", field, s, ErrInvalidData)
	}
	return v, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: %w", s, ErrInvalidData)
}

// rowErr reports a data row by its line number in the file.
func rowErr(path string, row int, err error) error {
	return NewDataSourceError(CSVSourceName, ErrCodeInvalidData, fmt.Sprintf("%s: line %d", path, row+2), err)
}
