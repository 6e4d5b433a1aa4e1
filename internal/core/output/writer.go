package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/agenthands/neoscope/internal/core/model"
)

// CSVHeader is the column order of WriteCSV.
var CSVHeader = []string{
	"datetime_utc", "distance_au", "velocity_km_s",
	"designation", "name", "diameter_km", "potentially_hazardous",
}

var ErrUnsupportedFormat = errors.New("unsupported output format")

// WriteCSV writes one row per approach after a header row. It returns the
// number of rows written.
func WriteCSV(w io.Writer, results iter.Seq[*model.CloseApproach]) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, errors.Wrap(err, "failed to write csv header")
	}

	n := 0
	for ca := range results {
		if err := cw.Write(Row(ca)); err != nil {
			return n, errors.Wrap(err, "failed to write csv row")
		}
		n++
	}

	cw.Flush()
	return n, errors.Wrap(cw.Error(), "failed to flush csv")
}

// Row renders ca as the string fields of one CSVHeader row.
func Row(ca *model.CloseApproach) []string {
	rec := NewApproachRecord(ca)
	diameter := "nan"
	if rec.NEO.DiameterKM != nil {
		diameter = formatFloat(*rec.NEO.DiameterKM)
	}
	return []string{
		rec.DatetimeUTC,
		formatFloat(rec.DistanceAU),
		formatFloat(rec.VelocityKMS),
		rec.NEO.Designation,
		rec.NEO.Name,
		diameter,
		pyBool(rec.NEO.PotentiallyHazardous),
	}
}

// WriteJSON writes an indented JSON array of approach records, encoding each
// element as it is produced.
func WriteJSON(w io.Writer, results iter.Seq[*model.CloseApproach]) (int, error) {
	bw := bufio.NewWriter(w)

	n := 0
	for ca := range results {
		sep := ",\n  "
		if n == 0 {
			sep = "[\n  "
		}
		b, err := json.MarshalIndent(NewApproachRecord(ca), "  ", "  ")
		if err != nil {
			return n, errors.Wrap(err, "failed to encode approach")
		}
		if _, err := bw.WriteString(sep); err != nil {
			return n, errors.Wrap(err, "failed to write json")
		}
		if _, err := bw.Write(b); err != nil {
			return n, errors.Wrap(err, "failed to write json")
		}
		n++
	}

	tail := "\n]\n"
	if n == 0 {
		tail = "[]\n"
	}
	if _, err := bw.WriteString(tail); err != nil {
		return n, errors.Wrap(err, "failed to write json")
	}
	return n, errors.Wrap(bw.Flush(), "failed to flush json")
}

// WriteFile picks CSV or JSON from the extension of path.
func WriteFile(path string, results iter.Seq[*model.CloseApproach]) (int, error) {
	var write func(io.Writer, iter.Seq[*model.CloseApproach]) (int, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = WriteCSV
	case ".json":
		write = WriteJSON
	default:
		return 0, errors.WithHint(
			errors.Wrapf(ErrUnsupportedFormat, "%q", path),
			"use a .csv or .json output file")
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create output file")
	}

	n, err := write(f, results)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "failed to close output file")
	}
	return n, err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
