package core

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/agenthands/neoscope/internal/core/filter"
	"github.com/agenthands/neoscope/internal/core/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// scenarioDB is the three-NEO, two-approach store used throughout.
func scenarioDB(t *testing.T) *Database {
	t.Helper()
	neos := []model.NearEarthObject{
		model.NewNearEarthObject("A", "Alpha", 0.5, "N"),
		model.NewNearEarthObject("B", "", math.NaN(), "Y"),
		model.NewNearEarthObject("C", "Gamma", 2.0, "N"),
	}
	approaches := []model.CloseApproach{
		model.NewCloseApproach("A", day(2020, 1, 1), 0.1, 5),
		model.NewCloseApproach("B", day(2020, 6, 1), 0.2, 7),
	}
	db, err := Link(neos, approaches, WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	return db
}

func designations(seq []*model.CloseApproach) []string {
	var out []string
	for _, ca := range seq {
		out = append(out, ca.Designation)
	}
	return out
}

func TestLink_Biconditional(t *testing.T) {
	neos := []model.NearEarthObject{
		model.NewNearEarthObject("A", "", 1, "N"),
		model.NewNearEarthObject("B", "", 1, "N"),
	}
	approaches := []model.CloseApproach{
		model.NewCloseApproach("B", day(2020, 1, 1), 0.1, 1),
		model.NewCloseApproach("A", day(2020, 1, 2), 0.1, 1),
		model.NewCloseApproach("B", day(2020, 1, 3), 0.1, 1),
	}

	db, err := Link(neos, approaches)
	require.NoError(t, err)

	for _, ca := range db.Approaches() {
		require.NotNil(t, ca.NEO())
		assert.Contains(t, ca.NEO().Approaches(), ca)
	}
	for _, neo := range db.NEOs() {
		for _, ca := range neo.Approaches() {
			assert.Same(t, neo, ca.NEO())
		}
	}

	b, ok := db.GetNEOByDesignation("B")
	require.True(t, ok)
	got := b.Approaches()
	require.Len(t, got, 2)
	assert.Equal(t, day(2020, 1, 1), got[0].Time, "approaches keep linkage order")
	assert.Equal(t, day(2020, 1, 3), got[1].Time)
}

func TestLink_DoesNotMutateInputs(t *testing.T) {
	neos := []model.NearEarthObject{model.NewNearEarthObject("A", "", 1, "N")}
	approaches := []model.CloseApproach{model.NewCloseApproach("A", day(2020, 1, 1), 0.1, 1)}

	_, err := Link(neos, approaches)
	require.NoError(t, err)

	assert.Empty(t, neos[0].Approaches())
	assert.Nil(t, approaches[0].NEO())

	// Linking the same inputs twice yields independent databases.
	db1, err := Link(neos, approaches)
	require.NoError(t, err)
	db2, err := Link(neos, approaches)
	require.NoError(t, err)
	assert.NotSame(t, db1.Approaches()[0], db2.Approaches()[0])
	assert.Len(t, db1.NEOs()[0].Approaches(), 1)
}

func TestLink_DuplicateDesignation(t *testing.T) {
	neos := []model.NearEarthObject{
		model.NewNearEarthObject("A", "first", 1, "N"),
		model.NewNearEarthObject("A", "second", 1, "N"),
	}
	_, err := Link(neos, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateDesignation))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLink_EmptyDesignation(t *testing.T) {
	_, err := Link([]model.NearEarthObject{{Name: "nameless"}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyDesignation))
}

func TestLink_OrphanLenient(t *testing.T) {
	obs, logs := observer.New(zapcore.WarnLevel)
	neos := []model.NearEarthObject{model.NewNearEarthObject("A", "", 1, "N")}
	approaches := []model.CloseApproach{
		model.NewCloseApproach("A", day(2020, 1, 1), 0.1, 1),
		model.NewCloseApproach("Z", day(2020, 1, 2), 0.1, 1),
	}

	db, err := Link(neos, approaches, WithLogger(zap.New(obs).Sugar()))
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, designations(db.Approaches()))
	orphans := db.Orphans()
	require.Len(t, orphans, 1)
	assert.Equal(t, "Z", orphans[0].Designation)
	assert.Nil(t, orphans[0].NEO())

	entries := logs.FilterMessage("orphan close approach").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Z", entries[0].ContextMap()["designation"])
}

func TestLink_OrphanStrict(t *testing.T) {
	neos := []model.NearEarthObject{model.NewNearEarthObject("A", "", 1, "N")}
	approaches := []model.CloseApproach{model.NewCloseApproach("Z", day(2020, 1, 2), 0.1, 1)}

	db, err := Link(neos, approaches, WithStrictLinkage(true))
	assert.Nil(t, db)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedDesignation))
	assert.Contains(t, err.Error(), `"Z"`)
}

func TestGetNEOByDesignation(t *testing.T) {
	db := scenarioDB(t)

	for _, neo := range db.NEOs() {
		got, ok := db.GetNEOByDesignation(neo.Designation)
		require.True(t, ok)
		assert.Same(t, neo, got)
	}

	got, ok := db.GetNEOByDesignation("2020 AB")
	assert.False(t, ok)
	assert.Nil(t, got)

	_, ok = db.GetNEOByDesignation("a")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestGetNEOByName(t *testing.T) {
	db := scenarioDB(t)

	got, ok := db.GetNEOByName("Gamma")
	require.True(t, ok)
	assert.Equal(t, "C", got.Designation)

	_, ok = db.GetNEOByName("gamma")
	assert.False(t, ok)

	_, ok = db.GetNEOByName("")
	assert.False(t, ok)
}

func TestGetNEOByName_FirstLoadedWins(t *testing.T) {
	neos := []model.NearEarthObject{
		model.NewNearEarthObject("A", "Twin", 1, "N"),
		model.NewNearEarthObject("B", "Twin", 1, "N"),
	}
	db, err := Link(neos, nil)
	require.NoError(t, err)

	got, ok := db.GetNEOByName("Twin")
	require.True(t, ok)
	assert.Equal(t, "A", got.Designation)
}

func TestQuery_Identity(t *testing.T) {
	db := scenarioDB(t)

	all := slices.Collect(db.Query(nil))
	assert.Equal(t, db.Approaches(), all)

	again := slices.Collect(db.Query(filter.Criteria{}.Build()))
	assert.Equal(t, all, again, "each query rescans in canonical order")
}

func TestQuery_Scenario(t *testing.T) {
	db := scenarioDB(t)

	hazardous := slices.Collect(db.Query(filter.Criteria{Hazardous: ptr(true)}.Build()))
	assert.Equal(t, []string{"B"}, designations(hazardous))

	notHazardous := slices.Collect(db.Query(filter.Criteria{Hazardous: ptr(false)}.Build()))
	assert.Equal(t, []string{"A"}, designations(notHazardous))

	// A is too small and B has no known diameter, so neither matches.
	big := slices.Collect(db.Query(filter.Criteria{MinDiameter: ptr(1.0)}.Build()))
	assert.Empty(t, big)

	withUnknown := slices.Collect(db.Query(filter.Criteria{MinDiameter: ptr(1.0), IncludeUnknownDiameter: true}.Build()))
	assert.Equal(t, []string{"B"}, designations(withUnknown))
}

func TestQuery_Conjunction(t *testing.T) {
	neos := []model.NearEarthObject{
		model.NewNearEarthObject("A", "", 0.5, "N"),
		model.NewNearEarthObject("B", "", 3, "Y"),
	}
	var approaches []model.CloseApproach
	for i := 0; i < 20; i++ {
		des := "A"
		if i%3 == 0 {
			des = "B"
		}
		approaches = append(approaches, model.NewCloseApproach(des, day(2020, 1, 1+i), 0.01*float64(i), float64(i)))
	}
	db, err := Link(neos, approaches)
	require.NoError(t, err)

	filters := []filter.Filter{
		filter.StartDate(day(2020, 1, 5)),
		filter.MaxDistance(0.12),
		filter.MinVelocity(3),
		filter.Hazardous(true),
		filter.MaxDiameter(1, filter.ExcludeUnknown),
	}

	for _, f1 := range filters {
		for _, f2 := range filters {
			left := slices.Collect(db.Query(filter.Set{f1}))
			right := slices.Collect(db.Query(filter.Set{f2}))
			both := slices.Collect(db.Query(filter.Set{f1, f2}))

			var want []*model.CloseApproach
			for _, ca := range left {
				if slices.Contains(right, ca) {
					want = append(want, ca)
				}
			}
			assert.Equal(t, want, both, "%s AND %s", f1.Name(), f2.Name())
		}
	}
}

func TestQuery_DateAndRangeIntersect(t *testing.T) {
	db := scenarioDB(t)

	set := filter.Criteria{
		Date:      ptr(day(2020, 1, 1)),
		StartDate: ptr(day(2020, 2, 1)),
	}.Build()
	assert.Empty(t, slices.Collect(db.Query(set)))

	set = filter.Criteria{
		Date:    ptr(day(2020, 1, 1)),
		EndDate: ptr(day(2020, 2, 1)),
	}.Build()
	assert.Equal(t, []string{"A"}, designations(slices.Collect(db.Query(set))))
}

func TestQuery_Lazy(t *testing.T) {
	neos := []model.NearEarthObject{model.NewNearEarthObject("A", "", 1, "N")}
	var approaches []model.CloseApproach
	for i := 0; i < 100; i++ {
		approaches = append(approaches, model.NewCloseApproach("A", day(2020, 1, 1), 0.1, 1))
	}
	db, err := Link(neos, approaches)
	require.NoError(t, err)

	calls := 0
	counting := filter.Func{Label: "counting", Fn: func(*model.CloseApproach) bool {
		calls++
		return true
	}}

	seq := db.Query(filter.Set{counting})
	assert.Equal(t, 0, calls, "building the query evaluates nothing")

	got := slices.Collect(Limit(seq, 5))
	assert.Len(t, got, 5)
	assert.Equal(t, 5, calls)
}

func TestLimit(t *testing.T) {
	db := scenarioDB(t)

	assert.Len(t, slices.Collect(Limit(db.Query(nil), 1)), 1)
	assert.Len(t, slices.Collect(Limit(db.Query(nil), 10)), 2)
	assert.Len(t, slices.Collect(Limit(db.Query(nil), 0)), 2)
}
