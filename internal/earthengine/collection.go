package earthengine

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/paulmach/orb/geojson"

	"sundarban-extract/internal/extract"
	"sundarban-extract/internal/region"
)

const dateLayout = "2006-01-02"

// Dataset ids are slash-separated segments of letters, digits, dots,
// underscores, and dashes, e.g. "MODIS/006/MOD13A2".
var datasetIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*(/[A-Za-z0-9][A-Za-z0-9_.-]*)*$`)

// Collection returns a lazy handle over the named dataset. Only the id's
// shape is checked here; whether the dataset exists is the gateway's to
// decide when a reduction runs.
func (c *Client) Collection(datasetID string) (extract.ImageCollection, error) {
	if !datasetIDPattern.MatchString(datasetID) {
		return nil, fmt.Errorf("invalid dataset id %q", datasetID)
	}
	return &collection{client: c, query: query{dataset: datasetID}}, nil
}

// query is the deferred description of a filtered collection. Filters copy
// it; nothing touches the network until a reduction runs.
type query struct {
	dataset    string
	bands      []string
	dateRanges []dateRange
	bounds     *geojson.Geometry
}

func (q query) clone() query {
	out := q
	out.bands = append([]string(nil), q.bands...)
	out.dateRanges = append([]dateRange(nil), q.dateRanges...)
	return out
}

type collection struct {
	client *Client
	query  query
}

// FilterDate narrows the collection to [start, end). Ranges accumulate
// across calls; the gateway applies them all.
func (c *collection) FilterDate(start, end time.Time) extract.ImageCollection {
	q := c.query.clone()
	q.dateRanges = append(q.dateRanges, dateRange{
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
	})
	return &collection{client: c.client, query: q}
}

// FilterBounds narrows the collection to images intersecting the region.
func (c *collection) FilterBounds(r region.Region) extract.ImageCollection {
	q := c.query.clone()
	q.bounds = r.GeoJSON()
	return &collection{client: c.client, query: q}
}

// Select keeps only the named band, replacing any earlier selection.
func (c *collection) Select(band string) extract.ImageCollection {
	q := c.query.clone()
	q.bands = []string{band}
	return &collection{client: c.client, query: q}
}

// Mean is the deferred temporal mean composite of the collection.
func (c *collection) Mean() extract.Image {
	return &meanImage{coll: c}
}

type meanImage struct {
	coll *collection
}

// ReduceRegion evaluates the composite against the gateway: one request,
// one mean value per band.
func (img *meanImage) ReduceRegion(ctx context.Context, r region.Region, scaleMeters, maxPixels float64) (extract.BandValues, error) {
	return img.coll.client.computeMean(ctx, img.coll.query, r, scaleMeters, maxPixels)
}
