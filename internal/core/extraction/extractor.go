package extraction

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/agenthands/neoscope/internal/core/model"
	"github.com/agenthands/neoscope/internal/logger"
)

// Column names in the NEO CSV export.
const (
	ColDesignation = "pdes"
	ColName        = "name"
	ColDiameter    = "diameter"
	ColHazardous   = "pha"
)

// Field names in the close-approach JSON document, with the positions used
// when the document carries no "fields" header.
var approachFields = []struct {
	name     string
	fallback int
}{
	{"des", 0},
	{"cd", 3},
	{"dist", 4},
	{"v_rel", 7},
}

type Extractor struct {
	Logger *zap.SugaredLogger
}

func NewExtractor(l *zap.SugaredLogger) *Extractor {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	return &Extractor{Logger: l}
}

// LoadNEOs reads NEOs from the CSV file at path.
func (e *Extractor) LoadNEOs(path string) ([]model.NearEarthObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open neo file")
	}
	defer f.Close()

	neos, err := e.ExtractNEOs(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	e.Logger.Infow("loaded neos", logger.FieldFile, path, logger.FieldCount, len(neos))
	return neos, nil
}

// LoadApproaches reads close approaches from the JSON file at path.
func (e *Extractor) LoadApproaches(path string) ([]model.CloseApproach, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open close approach file")
	}
	defer f.Close()

	approaches, err := e.ExtractApproaches(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	e.Logger.Infow("loaded close approaches", logger.FieldFile, path, logger.FieldCount, len(approaches))
	return approaches, nil
}

// ExtractNEOs parses a headed CSV stream. Only the designation column is
// required; an empty name means no name and an empty diameter means unknown.
func (e *Extractor) ExtractNEOs(r io.Reader) ([]model.NearEarthObject, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv header")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	if _, ok := cols[ColDesignation]; !ok {
		return nil, errors.Newf("csv header has no %q column", ColDesignation)
	}

	get := func(row []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var neos []model.NearEarthObject
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read csv row")
		}
		line, _ := reader.FieldPos(0)

		diameter := math.NaN()
		if raw := get(row, ColDiameter); raw != "" {
			diameter, err = parseMeasure(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: bad diameter %q", line, raw)
			}
		}

		neos = append(neos, model.NewNearEarthObject(
			get(row, ColDesignation),
			get(row, ColName),
			diameter,
			get(row, ColHazardous),
		))
	}

	return neos, nil
}

type cadDocument struct {
	Fields []string `json:"fields"`
	Data   [][]any  `json:"data"`
}

// ExtractApproaches parses a close-approach data document of the form
// {"fields": [...], "data": [[...], ...]}.
func (e *Extractor) ExtractApproaches(r io.Reader) ([]model.CloseApproach, error) {
	var doc cadDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode close approach json")
	}

	idx := make([]int, len(approachFields))
	for i, f := range approachFields {
		idx[i] = f.fallback
		if len(doc.Fields) == 0 {
			continue
		}
		pos := indexOf(doc.Fields, f.name)
		if pos < 0 {
			return nil, errors.Newf("close approach fields have no %q entry", f.name)
		}
		idx[i] = pos
	}

	approaches := make([]model.CloseApproach, 0, len(doc.Data))
	for n, row := range doc.Data {
		vals := make([]string, len(idx))
		for i, j := range idx {
			if j >= len(row) {
				return nil, errors.Newf("row %d: missing %q", n, approachFields[i].name)
			}
			vals[i] = stringify(row[j])
		}

		t, err := model.ParseCADTime(vals[1])
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: bad time %q", n, vals[1])
		}
		dist, err := parseMeasure(vals[2])
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: bad distance %q", n, vals[2])
		}
		vel, err := parseMeasure(vals[3])
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: bad velocity %q", n, vals[3])
		}

		approaches = append(approaches, model.NewCloseApproach(vals[0], t, dist, vel))
	}

	return approaches, nil
}

var errBadMeasure = errors.New("must be a finite non-negative number")

// parseMeasure parses a distance, velocity or diameter.
func parseMeasure(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, errBadMeasure
	}
	return v, nil
}

func indexOf(fields []string, name string) int {
	for i, f := range fields {
		if f == name {
			return i
		}
	}
	return -1
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
