package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sundarban-extract/internal/region"
)

var (
	errNoCatalog = errors.New("no catalog configured")
	errNoDataset = errors.New("dataset id is empty")
	errNoBand    = errors.New("band name is empty")
	errNoDates   = errors.New("start and end dates are required")
)

// SelectionParams identify one slice of the remote catalog.
type SelectionParams struct {
	Dataset string
	Band    string
	// Start and End bound the selection, inclusive of both dates. Start is
	// expected not to be after End, but that is not enforced here.
	Start time.Time
	End   time.Time
	// Region is optional; the Sundarbans default applies when zero.
	Region region.Region
	// Scale is the sampling scale in meters. Selection does not consume
	// it; it rides along so callers can carry one parameter set per
	// variable and hand the same value to the reduction step.
	Scale float64
}

// Selector builds filtered collection handles from a catalog.
type Selector struct {
	catalog Catalog
	log     *slog.Logger
}

// NewSelector returns a Selector over catalog.
func NewSelector(catalog Catalog, log *slog.Logger) *Selector {
	if log == nil {
		log = slog.Default()
	}
	return &Selector{catalog: catalog, log: log}
}

// Select narrows the remote catalog by dataset, date range, region bounds,
// and band, and returns the resulting lazy handle. No network I/O happens
// here. Any construction failure is logged and reported as a nil handle;
// Select never returns an error to the caller.
func (s *Selector) Select(p SelectionParams) ImageCollection {
	coll, err := s.build(p)
	if err != nil {
		s.log.Error("data extraction failed", "dataset", p.Dataset, "band", p.Band, "error", err)
		return nil
	}
	return coll
}

func (s *Selector) build(p SelectionParams) (ImageCollection, error) {
	if s.catalog == nil {
		return nil, errNoCatalog
	}
	if p.Dataset == "" {
		return nil, errNoDataset
	}
	if p.Band == "" {
		return nil, errNoBand
	}
	if p.Start.IsZero() || p.End.IsZero() {
		return nil, errNoDates
	}

	r := p.Region
	if r.IsZero() {
		r = region.Default()
	}

	coll, err := s.catalog.Collection(p.Dataset)
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", p.Dataset, err)
	}
	return coll.FilterDate(p.Start, p.End).FilterBounds(r).Select(p.Band), nil
}
