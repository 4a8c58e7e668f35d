package extract

import (
	"context"
	"time"

	"sundarban-extract/internal/region"
)

// reduceCall records one ReduceRegion invocation together with the date
// filter that was in effect on the handle.
type reduceCall struct {
	start, end time.Time
	lon, lat   float64
	scale      float64
	maxPixels  float64
}

// reduceResult scripts the outcome of one ReduceRegion invocation. Calls
// beyond the script return an empty BandValues.
type reduceResult struct {
	values BandValues
	err    error
}

type fakeState struct {
	calls    []reduceCall
	results  []reduceResult
	selected []string
	bounds   []region.Region
}

// fakeCollection implements ImageCollection over scripted results. Date
// filters produce a narrowed copy; band and bounds filters are recorded on
// the shared state.
type fakeCollection struct {
	state      *fakeState
	start, end time.Time
}

func newFakeCollection(results ...reduceResult) *fakeCollection {
	return &fakeCollection{state: &fakeState{results: results}}
}

func (c *fakeCollection) FilterDate(start, end time.Time) ImageCollection {
	return &fakeCollection{state: c.state, start: start, end: end}
}

func (c *fakeCollection) FilterBounds(r region.Region) ImageCollection {
	c.state.bounds = append(c.state.bounds, r)
	return c
}

func (c *fakeCollection) Select(band string) ImageCollection {
	c.state.selected = append(c.state.selected, band)
	return c
}

func (c *fakeCollection) Mean() Image {
	return fakeImage{coll: c}
}

type fakeImage struct {
	coll *fakeCollection
}

func (i fakeImage) ReduceRegion(ctx context.Context, r region.Region, scaleMeters, maxPixels float64) (BandValues, error) {
	st := i.coll.state
	idx := len(st.calls)
	st.calls = append(st.calls, reduceCall{
		start:     i.coll.start,
		end:       i.coll.end,
		lon:       r.Lon(),
		lat:       r.Lat(),
		scale:     scaleMeters,
		maxPixels: maxPixels,
	})
	if idx < len(st.results) {
		res := st.results[idx]
		return res.values, res.err
	}
	return BandValues{}, nil
}

// fakeCatalog hands out a single scripted collection and records lookups.
type fakeCatalog struct {
	coll      ImageCollection
	err       error
	requested []string
}

func (c *fakeCatalog) Collection(datasetID string) (ImageCollection, error) {
	c.requested = append(c.requested, datasetID)
	if c.err != nil {
		return nil, c.err
	}
	return c.coll, nil
}
