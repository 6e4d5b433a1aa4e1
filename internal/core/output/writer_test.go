package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/neoscope/internal/core"
	"github.com/agenthands/neoscope/internal/core/model"
)

func testDB(t *testing.T) *core.Database {
	t.Helper()
	neos := []model.NearEarthObject{
		model.NewNearEarthObject("433", "Eros", 16.84, "N"),
		model.NewNearEarthObject("2019 AB", "", math.NaN(), "Y"),
	}
	approaches := []model.CloseApproach{
		model.NewCloseApproach("433", time.Date(1900, 1, 1, 0, 11, 0, 0, time.UTC), 0.0921, 16.75),
		model.NewCloseApproach("2019 AB", time.Date(2020, 6, 1, 4, 22, 0, 0, time.UTC), 0.4, 17.9),
	}
	db, err := core.Link(neos, approaches)
	require.NoError(t, err)
	return db
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, testDB(t).Query(nil))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"1900-01-01 00:11", "0.0921", "16.75", "433", "Eros", "16.84", "False"}, rows[1])
	assert.Equal(t, []string{"2020-06-01 04:22", "0.4", "17.9", "2019 AB", "", "nan", "True"}, rows[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, slices.Values([]*model.CloseApproach{}))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "datetime_utc,distance_au,velocity_km_s,designation,name,diameter_km,potentially_hazardous\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteJSON(&buf, testDB(t).Query(nil))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "1900-01-01 00:11", got[0]["datetime_utc"])
	assert.Equal(t, 0.0921, got[0]["distance_au"])
	neo := got[0]["neo"].(map[string]any)
	assert.Equal(t, "433", neo["designation"])
	assert.Equal(t, "Eros", neo["name"])
	assert.Equal(t, 16.84, neo["diameter_km"])
	assert.Equal(t, false, neo["potentially_hazardous"])

	unknown := got[1]["neo"].(map[string]any)
	assert.Contains(t, unknown, "diameter_km")
	assert.Nil(t, unknown["diameter_km"])
	assert.Equal(t, "", unknown["name"])
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteJSON(&buf, slices.Values([]*model.CloseApproach{}))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.JSONEq(t, "[]", buf.String())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	db := testDB(t)

	n, err := WriteFile(filepath.Join(dir, "out.csv"), db.Query(nil))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = WriteFile(filepath.Join(dir, "out.JSON"), db.Query(nil))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	data, err := os.ReadFile(filepath.Join(dir, "out.JSON"))
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	_, err = WriteFile(filepath.Join(dir, "out.txt"), db.Query(nil))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNewNEODetail(t *testing.T) {
	db := testDB(t)
	neo, ok := db.GetNEOByDesignation("433")
	require.True(t, ok)

	detail := NewNEODetail(neo)
	assert.Equal(t, "433", detail.Designation)
	require.Len(t, detail.Approaches, 1)
	assert.Equal(t, "1900-01-01 00:11", detail.Approaches[0].DatetimeUTC)
}
