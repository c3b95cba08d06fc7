// Package forecast supplies PV production forecasts to internal/dispatch
// when a request omits pv_forecast_kw. Grounded on the teacher's
// internal/data package (GridStatusClient's external-fetch shape, the
// JSON-file loader, and the response cache), retargeted from fetching Grid
// Status LMP intervals to fetching a PV power forecast curve.
package forecast

import (
	"context"
	"fmt"
	"time"
)

// Point is one forecast sample.
type Point struct {
	Time    time.Time
	PowerKW float64
}

// Series is a PV forecast, grounded on the teacher's
// model.GridStatusLMPResponse.Data slice-of-intervals shape.
type Series struct {
	SiteID string
	Points []Point
}

// Resample buckets Series into exactly n equal Δt=resolutionMinutes slots
// starting at start, nearest-point lookup per bucket. Grounded on the
// teacher's data.GroupByLocation indexing-by-key shape, adapted from
// grouping to time-bucketed resampling.
func (s Series) Resample(start time.Time, resolutionMinutes, n int) ([]float64, error) {
	if len(s.Points) == 0 {
		return nil, fmt.Errorf("forecast series for site %q has no points", s.SiteID)
	}
	step := time.Duration(resolutionMinutes) * time.Minute
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		bucketStart := start.Add(time.Duration(i) * step)
		out[i] = nearest(s.Points, bucketStart)
	}
	return out, nil
}

func nearest(points []Point, at time.Time) float64 {
	best := points[0]
	bestDiff := abs(at.Sub(best.Time))
	for _, p := range points[1:] {
		d := abs(at.Sub(p.Time))
		if d < bestDiff {
			best = p
			bestDiff = d
		}
	}
	return best.PowerKW
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Error represents a forecast-provider-level error, e.g. an upstream HTTP
// failure or bad credentials. Grounded on the teacher's
// data.GridStatusError{StatusCode, Code, Message} shape.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Provider is the narrow interface internal/dispatch depends on
// (dispatch.ForecastFetcher is satisfied by any Provider via FetchPV).
type Provider interface {
	FetchPV(ctx context.Context, siteID string, start, end time.Time, resolutionMinutes int, quantile float64) ([]float64, error)
}
