// Package extract selects remote image collections and aggregates them into
// windowed time series.
package extract

import (
	"context"
	"time"

	"sundarban-extract/internal/region"
)

// BandValues maps band names to the scalar a spatial reduction produced.
// Bands the reduction carried no data for are absent.
type BandValues map[string]float64

// Catalog is the dataset lookup surface of the remote data provider.
type Catalog interface {
	// Collection returns a lazy handle over the named dataset. Only
	// syntactically invalid identifiers fail here; unknown datasets surface
	// when a reduction is evaluated.
	Collection(datasetID string) (ImageCollection, error)
}

// ImageCollection is an opaque, lazily evaluated reference to a filtered
// stack of remote raster images. Filter methods return a narrowed handle
// and leave the receiver untouched; nothing is materialized until a
// reduction runs.
type ImageCollection interface {
	// FilterDate narrows the collection to images acquired in [start, end).
	FilterDate(start, end time.Time) ImageCollection

	// FilterBounds narrows the collection to images intersecting the region.
	FilterBounds(r region.Region) ImageCollection

	// Select keeps only the named band.
	Select(band string) ImageCollection

	// Mean is the temporal mean composite of the collection. A collection
	// with no images still composites; the result then carries no data for
	// any band.
	Mean() Image
}

// Image is a lazily evaluated composite image.
type Image interface {
	// ReduceRegion collapses the image's pixels inside the region to one
	// mean value per band, sampled at scaleMeters. maxPixels caps how many
	// pixels the provider may touch. This is the blocking remote call.
	ReduceRegion(ctx context.Context, r region.Region, scaleMeters, maxPixels float64) (BandValues, error)
}
