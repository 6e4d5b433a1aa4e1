package core

import (
	"iter"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/agenthands/neoscope/internal/core/filter"
	"github.com/agenthands/neoscope/internal/core/model"
)

var (
	ErrEmptyDesignation      = errors.New("neo has an empty designation")
	ErrDuplicateDesignation  = errors.New("duplicate neo designation")
	ErrUnresolvedDesignation = errors.New("close approach references an unknown neo")
)

// Database holds a linked, read-only set of NEOs and their close approaches.
//
// It is built once by Link and never mutated afterwards, so a single Database
// may be shared between goroutines without locking.
type Database struct {
	neos       []model.NearEarthObject
	approaches []model.CloseApproach
	orphans    []model.CloseApproach

	byDesignation map[string]*model.NearEarthObject
	byName        map[string]*model.NearEarthObject

	logger *zap.SugaredLogger
}

type Option func(*options)

type options struct {
	strict bool
	logger *zap.SugaredLogger
}

// WithStrictLinkage makes Link fail on a close approach whose designation
// matches no NEO, instead of setting it aside as an orphan.
func WithStrictLinkage(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = logger }
}

// Link copies neos and approaches into a new Database and connects every
// approach to the NEO whose designation it references. The caller's slices are
// not modified.
//
// Empty or repeated designations are rejected. An approach that references no
// known NEO is logged and kept out of the linked collections; with
// WithStrictLinkage it fails the build instead.
func Link(neos []model.NearEarthObject, approaches []model.CloseApproach, opts ...Option) (*Database, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop().Sugar()
	}

	db := &Database{
		neos:          make([]model.NearEarthObject, len(neos)),
		approaches:    make([]model.CloseApproach, 0, len(approaches)),
		byDesignation: make(map[string]*model.NearEarthObject, len(neos)),
		byName:        make(map[string]*model.NearEarthObject),
		logger:        o.logger,
	}

	for i, n := range neos {
		if n.Designation == "" {
			return nil, errors.Wrapf(ErrEmptyDesignation, "neo at position %d", i)
		}
		if _, dup := db.byDesignation[n.Designation]; dup {
			return nil, errors.WithHint(
				errors.Wrapf(ErrDuplicateDesignation, "designation %q", n.Designation),
				"each row of the neo file must carry a distinct primary designation")
		}

		// Exported fields only; links are rebuilt below.
		db.neos[i] = model.NearEarthObject{
			Designation: n.Designation,
			Name:        n.Name,
			Diameter:    n.Diameter,
			Hazardous:   n.Hazardous,
		}
		neo := &db.neos[i]

		db.byDesignation[neo.Designation] = neo
		if neo.HasName() {
			if _, seen := db.byName[neo.Name]; !seen {
				db.byName[neo.Name] = neo
			}
		}
	}

	for i, ca := range approaches {
		if _, ok := db.byDesignation[ca.Designation]; !ok {
			if o.strict {
				return nil, errors.Wrapf(ErrUnresolvedDesignation, "approach %d references %q", i, ca.Designation)
			}
			db.logger.Warnw("orphan close approach",
				"designation", ca.Designation,
				"time", ca.TimeString(),
				"position", i,
			)
			db.orphans = append(db.orphans, model.NewCloseApproach(ca.Designation, ca.Time, ca.Distance, ca.Velocity))
			continue
		}
		db.approaches = append(db.approaches, model.NewCloseApproach(ca.Designation, ca.Time, ca.Distance, ca.Velocity))
	}

	// The approaches slice is fully sized now, so element addresses are stable.
	for i := range db.approaches {
		ca := &db.approaches[i]
		db.byDesignation[ca.Designation].LinkApproach(ca)
	}

	db.logger.Infow("linked database",
		"neos", len(db.neos),
		"approaches", len(db.approaches),
		"orphans", len(db.orphans),
	)

	return db, nil
}

// GetNEOByDesignation finds an NEO by exact primary designation.
func (db *Database) GetNEOByDesignation(designation string) (*model.NearEarthObject, bool) {
	neo, ok := db.byDesignation[designation]
	return neo, ok
}

// GetNEOByName finds an NEO by exact name. The empty name never matches.
// If two NEOs share a name, the first one loaded is returned.
func (db *Database) GetNEOByName(name string) (*model.NearEarthObject, bool) {
	if name == "" {
		return nil, false
	}
	neo, ok := db.byName[name]
	return neo, ok
}

// NEOs returns every NEO in load order.
func (db *Database) NEOs() []*model.NearEarthObject {
	out := make([]*model.NearEarthObject, len(db.neos))
	for i := range db.neos {
		out[i] = &db.neos[i]
	}
	return out
}

// Approaches returns every linked close approach in load order.
func (db *Database) Approaches() []*model.CloseApproach {
	out := make([]*model.CloseApproach, len(db.approaches))
	for i := range db.approaches {
		out[i] = &db.approaches[i]
	}
	return out
}

// Orphans returns copies of the approaches that referenced no known NEO.
func (db *Database) Orphans() []model.CloseApproach {
	out := make([]model.CloseApproach, len(db.orphans))
	copy(out, db.orphans)
	return out
}

// Query yields, in load order, every close approach accepted by all filters
// in set. Filters run lazily as the sequence is consumed, and each call
// rescans the whole database.
func (db *Database) Query(set filter.Set) iter.Seq[*model.CloseApproach] {
	return func(yield func(*model.CloseApproach) bool) {
		for i := range db.approaches {
			ca := &db.approaches[i]
			if !set.Match(ca) {
				continue
			}
			if !yield(ca) {
				return
			}
		}
	}
}

// Limit yields at most n elements of seq. A non-positive n means no limit.
func Limit[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	if n <= 0 {
		return seq
	}
	return func(yield func(T) bool) {
		count := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			count++
			if count >= n {
				return
			}
		}
	}
}
