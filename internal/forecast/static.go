package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// staticFile is the on-disk JSON shape a Static provider reads. Grounded on
// the teacher's data.LoadGridStatusJSON / data.GridStatusLMPResponse
// file-backed loader, retargeted from LMP intervals to PV points.
type staticFile struct {
	SiteID string `json:"site_id"`
	Data   []struct {
		Time    string  `json:"time"`
		PowerKW float64 `json:"power_kw"`
	} `json:"data"`
}

// Static serves forecasts from a JSON file on disk, used in tests, demos,
// and offline/airgapped deployments where no forecast API is reachable.
// Grounded on the teacher's data.LoadGridStatusJSON + GetDefaultLocationsPath
// environment-variable-default idiom.
type Static struct {
	Path string
}

// NewStatic returns a Static provider for path, or the STATIC_FORECAST_FILE
// environment variable's value if path is empty.
func NewStatic(path string) *Static {
	if path == "" {
		path = os.Getenv("STATIC_FORECAST_FILE")
	}
	return &Static{Path: path}
}

// FetchPV implements dispatch.ForecastFetcher / forecast.Provider.
func (s *Static) FetchPV(ctx context.Context, siteID string, start, end time.Time, resolutionMinutes int, quantile float64) ([]float64, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("static forecast file path is not configured")
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read static forecast file: %w", err)
	}
	var f staticFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse static forecast file: %w", err)
	}
	if f.SiteID != "" && f.SiteID != siteID {
		return nil, fmt.Errorf("static forecast file is for site %q, requested %q", f.SiteID, siteID)
	}

	series := Series{SiteID: siteID}
	for _, d := range f.Data {
		t, err := time.Parse(time.RFC3339, d.Time)
		if err != nil {
			continue
		}
		series.Points = append(series.Points, Point{Time: t, PowerKW: d.PowerKW})
	}

	return series.Resample(start, resolutionMinutes, stepsBetween(start, end, resolutionMinutes))
}
