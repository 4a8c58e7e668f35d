package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sundarban-extract/internal/region"
)

const dateLayout = "2006-01-02"

const (
	// DefaultResolutionDays is the window length of the original survey.
	DefaultResolutionDays = 16
	// DefaultScaleMeters applies when AggregationParams.Scale is zero.
	DefaultScaleMeters = 1000
)

// maxPixels caps how many pixels the provider may touch per reduction.
// Large enough to never bind for point and small-polygon regions.
const maxPixels = 1e13

// AggregationParams control one aggregation run.
type AggregationParams struct {
	Band string
	// Start and End bound the series, inclusive of both dates.
	Start time.Time
	End   time.Time
	// ResolutionDays is the window length. Non-positive values are a
	// processing failure: logged, empty table.
	ResolutionDays int
	// Region is optional; the Sundarbans default applies when zero.
	Region region.Region
	// Scale is the reduction sampling scale in meters. Zero applies
	// DefaultScaleMeters.
	Scale float64
}

// Aggregator collapses a filtered collection handle into a regular time
// series: one spatial-mean value per fixed-length window.
type Aggregator struct {
	log *slog.Logger
}

// NewAggregator returns an Aggregator.
func NewAggregator(log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{log: log}
}

// Aggregate partitions [p.Start, p.End] into consecutive windows of
// p.ResolutionDays days and reduces each one to a single row, strictly in
// order, one blocking reduction at a time. Windows whose reduction carries
// no data for the band become rows with a nil Value. Any failure mid-loop
// discards all rows collected so far and yields an empty table; a nil
// handle does the same. Aggregate never returns an error to the caller.
func (a *Aggregator) Aggregate(ctx context.Context, coll ImageCollection, p AggregationParams) Table {
	if coll == nil {
		a.log.Error("no data available to process", "band", p.Band)
		return Table{Band: p.Band}
	}
	rows, err := a.reduceAll(ctx, coll, p)
	if err != nil {
		a.log.Error("data processing failed", "band", p.Band, "error", err)
		return Table{Band: p.Band}
	}
	return Table{Band: p.Band, Rows: rows}
}

func (a *Aggregator) reduceAll(ctx context.Context, coll ImageCollection, p AggregationParams) ([]Observation, error) {
	if p.ResolutionDays <= 0 {
		return nil, fmt.Errorf("temporal resolution must be positive, got %d days", p.ResolutionDays)
	}
	scale := p.Scale
	if scale == 0 {
		scale = DefaultScaleMeters
	}
	reg := p.Region
	if reg.IsZero() {
		reg = region.Default()
	}

	windows := Windows(p.Start, p.End, p.ResolutionDays)
	rows := make([]Observation, 0, len(windows))
	for _, w := range windows {
		vals, err := coll.FilterDate(w.Start, w.End).Mean().ReduceRegion(ctx, reg, scale, maxPixels)
		if err != nil {
			return nil, fmt.Errorf("reduce window starting %s: %w", w.Start.Format(dateLayout), err)
		}

		row := Observation{
			Year:      w.Start.Year(),
			Month:     int(w.Start.Month()),
			Latitude:  reg.Lat(),
			Longitude: reg.Lon(),
		}
		if v, ok := vals[p.Band]; ok {
			row.Value = &v
		} else {
			a.log.Warn("band not available for window", "band", p.Band, "date", w.Start.Format(dateLayout))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
