package dispatch

import (
	"context"
	"time"

	"dispatch-core/internal/api/models"
	"dispatch-core/internal/kpi"
)

// ForecastFetcher supplies a PV forecast when the request omits
// pv_forecast_kw. Grounded on the teacher's internal/data.GridStatusClient
// external-fetch shape, retargeted from "Grid Status LMP" to "PV forecast".
type ForecastFetcher interface {
	FetchPV(ctx context.Context, siteID string, start, end time.Time, resolutionMinutes int, quantile float64) ([]float64, error)
}

// RunMetadata is the run-level record handed to RunPersister.WriteRun.
type RunMetadata struct {
	SiteID       string
	RequestedAt  time.Time
	SolverKind   string
	FallbackUsed bool
}

// RunPersister stores a dispatch run, its schedule, and its KPIs.
// Best-effort: failures are logged by the caller and never alter the
// returned Result. Grounded on cepro-simt-flux's gorm.io/gorm usage, the
// concrete implementation lives in internal/store.
type RunPersister interface {
	WriteRun(ctx context.Context, meta RunMetadata) (runID string, err error)
	WriteSchedule(ctx context.Context, runID string, schedule []models.ScheduleRow) error
	WriteKPIs(ctx context.Context, runID string, kpis kpi.KPIs) error
}

// Dependencies bundles the two collaborator interfaces Solve needs,
// grounded on the teacher's handler-constructor dependency injection (e.g.
// NewBacktestHandler(gridStatusClient)). Either field may be nil: a nil
// Forecast is only reached when the request omits pv_forecast_kw; a nil
// Persister simply skips persistence.
type Dependencies struct {
	Forecast  ForecastFetcher
	Persister RunPersister
}
