package extract

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"sundarban-extract/internal/region"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// TestAggregateRows verifies one row per window with values, default region
// coordinates, and scale passed straight through to the reduction.
func TestAggregateRows(t *testing.T) {
	coll := newFakeCollection(
		reduceResult{values: BandValues{"NDVI": 0.41}},
		reduceResult{values: BandValues{"NDVI": 0.52}},
	)
	agg := NewAggregator(discardLogger())

	table := agg.Aggregate(context.Background(), coll, AggregationParams{
		Band:           "NDVI",
		Start:          date(2000, time.February, 18),
		End:            date(2000, time.March, 5),
		ResolutionDays: 16,
		Scale:          1000,
	})

	if table.Band != "NDVI" {
		t.Errorf("expected band NDVI, got %q", table.Band)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	first := table.Rows[0]
	if first.Year != 2000 || first.Month != 2 {
		t.Errorf("expected first row stamped 2000-02, got %d-%d", first.Year, first.Month)
	}
	if first.Value == nil || *first.Value != 0.41 {
		t.Errorf("unexpected first value: %v", first.Value)
	}
	if first.Latitude != 22.0 || first.Longitude != 89.0 {
		t.Errorf("expected default region coordinates (22, 89), got (%v, %v)", first.Latitude, first.Longitude)
	}

	second := table.Rows[1]
	if second.Year != 2000 || second.Month != 3 {
		t.Errorf("expected second row stamped 2000-03, got %d-%d", second.Year, second.Month)
	}
	if second.Value == nil || *second.Value != 0.52 {
		t.Errorf("unexpected second value: %v", second.Value)
	}
	if second.Latitude != first.Latitude || second.Longitude != first.Longitude {
		t.Errorf("expected identical coordinates on every row, got (%v, %v)", second.Latitude, second.Longitude)
	}

	calls := coll.state.calls
	if len(calls) != 2 {
		t.Fatalf("expected 2 reductions, got %d", len(calls))
	}
	if !calls[0].start.Equal(date(2000, time.February, 18)) || !calls[0].end.Equal(date(2000, time.March, 5)) {
		t.Errorf("unexpected first window: %v to %v", calls[0].start, calls[0].end)
	}
	// The final window runs past the end date and is not clipped.
	if !calls[1].start.Equal(date(2000, time.March, 5)) || !calls[1].end.Equal(date(2000, time.March, 21)) {
		t.Errorf("unexpected second window: %v to %v", calls[1].start, calls[1].end)
	}
	if calls[0].scale != 1000 {
		t.Errorf("expected scale 1000, got %v", calls[0].scale)
	}
	if calls[0].maxPixels != 1e13 {
		t.Errorf("expected maxPixels 1e13, got %v", calls[0].maxPixels)
	}
}

// TestAggregateMissingBand verifies that a window without data for the band
// still yields a row, with a nil value and a warning naming the band and
// the window start.
func TestAggregateMissingBand(t *testing.T) {
	coll := newFakeCollection(
		reduceResult{values: BandValues{"NDVI": 0.41}},
		reduceResult{values: BandValues{}},
	)
	var buf bytes.Buffer
	agg := NewAggregator(slog.New(slog.NewTextHandler(&buf, nil)))

	table := agg.Aggregate(context.Background(), coll, AggregationParams{
		Band:           "NDVI",
		Start:          date(2000, time.February, 18),
		End:            date(2000, time.March, 5),
		ResolutionDays: 16,
	})

	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0].Value == nil {
		t.Error("expected a value in the first row")
	}
	if table.Rows[1].Value != nil {
		t.Errorf("expected nil value in the second row, got %v", *table.Rows[1].Value)
	}

	logged := buf.String()
	if !strings.Contains(logged, "band not available") {
		t.Errorf("expected a warning about the missing band, got %q", logged)
	}
	if !strings.Contains(logged, "2000-03-05") || !strings.Contains(logged, "NDVI") {
		t.Errorf("expected the warning to name band and window start, got %q", logged)
	}
}

// TestAggregateNilCollection verifies a nil handle yields an empty table
// without panicking.
func TestAggregateNilCollection(t *testing.T) {
	var buf bytes.Buffer
	agg := NewAggregator(slog.New(slog.NewTextHandler(&buf, nil)))

	table := agg.Aggregate(context.Background(), nil, AggregationParams{
		Band:           "NDVI",
		Start:          date(2000, time.February, 18),
		End:            date(2020, time.July, 9),
		ResolutionDays: 16,
	})

	if !table.Empty() {
		t.Fatalf("expected an empty table, got %d rows", len(table.Rows))
	}
	if table.Band != "NDVI" {
		t.Errorf("expected band NDVI, got %q", table.Band)
	}
	if !strings.Contains(buf.String(), "no data available") {
		t.Errorf("expected an error log, got %q", buf.String())
	}
}

// TestAggregateAbortsOnError verifies a reduction failure mid-loop discards
// every row collected so far and stops the loop.
func TestAggregateAbortsOnError(t *testing.T) {
	coll := newFakeCollection(
		reduceResult{values: BandValues{"NDVI": 0.41}},
		reduceResult{err: errors.New("computation timed out")},
	)
	var buf bytes.Buffer
	agg := NewAggregator(slog.New(slog.NewTextHandler(&buf, nil)))

	table := agg.Aggregate(context.Background(), coll, AggregationParams{
		Band:           "NDVI",
		Start:          date(2000, time.February, 18),
		End:            date(2000, time.April, 25),
		ResolutionDays: 16,
	})

	if !table.Empty() {
		t.Fatalf("expected an empty table after a mid-loop failure, got %d rows", len(table.Rows))
	}
	if got := len(coll.state.calls); got != 2 {
		t.Errorf("expected the loop to stop at the failing window, got %d reductions", got)
	}
	logged := buf.String()
	if !strings.Contains(logged, "data processing failed") || !strings.Contains(logged, "computation timed out") {
		t.Errorf("expected the failure to be logged, got %q", logged)
	}
}

// TestAggregateNonPositiveResolution verifies a non-positive resolution is
// treated as a processing failure: logged, empty table, no reductions.
func TestAggregateNonPositiveResolution(t *testing.T) {
	for _, res := range []int{0, -16} {
		coll := newFakeCollection()
		var buf bytes.Buffer
		table := NewAggregator(slog.New(slog.NewTextHandler(&buf, nil))).Aggregate(context.Background(), coll, AggregationParams{
			Band:           "NDVI",
			Start:          date(2000, time.February, 18),
			End:            date(2020, time.July, 9),
			ResolutionDays: res,
		})
		if !table.Empty() {
			t.Errorf("resolution %d: expected an empty table, got %d rows", res, len(table.Rows))
		}
		if len(coll.state.calls) != 0 {
			t.Errorf("resolution %d: expected no reductions, got %d", res, len(coll.state.calls))
		}
		logged := buf.String()
		if !strings.Contains(logged, "data processing failed") || !strings.Contains(logged, "must be positive") {
			t.Errorf("resolution %d: expected the failure to be logged, got %q", res, logged)
		}
	}
}

// TestAggregateDefaultScale verifies a zero scale falls back to the
// default.
func TestAggregateDefaultScale(t *testing.T) {
	coll := newFakeCollection()
	NewAggregator(discardLogger()).Aggregate(context.Background(), coll, AggregationParams{
		Band:           "NDVI",
		Start:          date(2000, time.February, 18),
		End:            date(2000, time.February, 18),
		ResolutionDays: 16,
	})
	if len(coll.state.calls) != 1 {
		t.Fatalf("expected 1 reduction, got %d", len(coll.state.calls))
	}
	if got := coll.state.calls[0].scale; got != DefaultScaleMeters {
		t.Errorf("expected default scale %v, got %v", float64(DefaultScaleMeters), got)
	}
}

// TestAggregateCustomRegion verifies a configured region reaches the
// reduction and stamps the rows.
func TestAggregateCustomRegion(t *testing.T) {
	coll := newFakeCollection(reduceResult{values: BandValues{"NDVI": 0.3}})
	table := NewAggregator(discardLogger()).Aggregate(context.Background(), coll, AggregationParams{
		Band:           "NDVI",
		Start:          date(2000, time.February, 18),
		End:            date(2000, time.February, 18),
		ResolutionDays: 16,
		Region:         region.FromPoint(90.5, 21.75),
	})

	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	if table.Rows[0].Longitude != 90.5 || table.Rows[0].Latitude != 21.75 {
		t.Errorf("expected row coordinates (21.75, 90.5), got (%v, %v)", table.Rows[0].Latitude, table.Rows[0].Longitude)
	}
	if coll.state.calls[0].lon != 90.5 || coll.state.calls[0].lat != 21.75 {
		t.Errorf("expected the reduction to see the configured region, got (%v, %v)", coll.state.calls[0].lat, coll.state.calls[0].lon)
	}
}

// TestAggregateContextCancelled verifies cancellation surfaces like any
// other reduction failure: the table comes back empty.
func TestAggregateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	coll := newFakeCollection(reduceResult{err: ctx.Err()})

	table := NewAggregator(discardLogger()).Aggregate(ctx, coll, AggregationParams{
		Band:           "NDVI",
		Start:          date(2000, time.February, 18),
		End:            date(2020, time.July, 9),
		ResolutionDays: 16,
	})
	if !table.Empty() {
		t.Fatalf("expected an empty table, got %d rows", len(table.Rows))
	}
}
