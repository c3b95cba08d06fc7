package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch-core/internal/api/models"
	"dispatch-core/internal/kpi"
	"dispatch-core/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeForecast struct {
	values []float64
	err    error
}

func (f *fakeForecast) FetchPV(ctx context.Context, siteID string, start, end time.Time, resolutionMinutes int, quantile float64) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.values, nil
}

type fakePersister struct {
	runErr      error
	scheduleErr error
	kpisErr     error
	wroteRun    bool
	wroteSched  bool
	wroteKPIs   bool
}

func (p *fakePersister) WriteRun(ctx context.Context, meta RunMetadata) (string, error) {
	p.wroteRun = true
	if p.runErr != nil {
		return "", p.runErr
	}
	return "run-1", nil
}

func (p *fakePersister) WriteSchedule(ctx context.Context, runID string, schedule []models.ScheduleRow) error {
	p.wroteSched = true
	return p.scheduleErr
}

func (p *fakePersister) WriteKPIs(ctx context.Context, runID string, kpis kpi.KPIs) error {
	p.wroteKPIs = true
	return p.kpisErr
}

func baseDispatchRequest() models.Request {
	return models.Request{
		SiteID:            "site-1",
		ResolutionMinutes: 15,
		LoadKW:            []float64{10, 10, 10, 10},
		Tariff: models.Tariff{
			Buy:  []float64{0.2, 0.2, 0.2, 0.2},
			Sell: []float64{0.1, 0.1, 0.1, 0.1},
		},
		PVForecastKW: []float64{5, 5, 5, 5},
	}
}

func TestSolve_MILPSuccessPath(t *testing.T) {
	req := baseDispatchRequest()
	result := Solve(context.Background(), req, Dependencies{})

	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "milp", result.Solver)
	assert.False(t, result.FallbackUsed)
	require.NotNil(t, result.ObjectiveValue)
	require.Len(t, result.Schedule, 4)
	assert.Nil(t, result.Error)
}

func TestSolve_RuleBasedWhenMILPDisabled(t *testing.T) {
	req := baseDispatchRequest()
	useMILP := false
	req.UseMILP = &useMILP

	result := Solve(context.Background(), req, Dependencies{})
	assert.Equal(t, "rule_based", result.Solver)
	assert.False(t, result.FallbackUsed)
}

func TestSolve_InvalidInputShortCircuits(t *testing.T) {
	req := baseDispatchRequest()
	req.LoadKW = nil

	result := Solve(context.Background(), req, Dependencies{})
	assert.Equal(t, "invalid_input", result.Status)
	require.NotNil(t, result.Error)
	assert.Empty(t, result.Schedule)
}

func TestSolve_MissingForecastFetchesFromDependency(t *testing.T) {
	req := baseDispatchRequest()
	req.PVForecastKW = nil
	deps := Dependencies{Forecast: &fakeForecast{values: []float64{1, 2, 3, 4}}}

	result := Solve(context.Background(), req, deps)
	assert.Equal(t, "ok", result.Status)
	require.Len(t, result.Schedule, 4)
}

func TestSolve_MissingForecastAndNoProviderIsInvalidInput(t *testing.T) {
	req := baseDispatchRequest()
	req.PVForecastKW = nil

	result := Solve(context.Background(), req, Dependencies{})
	assert.Equal(t, "invalid_input", result.Status)
	require.NotNil(t, result.Error)
}

func TestSolve_ForecastProviderErrorIsInvalidInput(t *testing.T) {
	req := baseDispatchRequest()
	req.PVForecastKW = nil
	deps := Dependencies{Forecast: &fakeForecast{err: errors.New("upstream down")}}

	result := Solve(context.Background(), req, deps)
	assert.Equal(t, "invalid_input", result.Status)
}

func TestSolve_PersistsOnSuccessAndFailuresAreNonFatal(t *testing.T) {
	req := baseDispatchRequest()
	persister := &fakePersister{runErr: errors.New("db closed")}
	deps := Dependencies{Persister: persister}

	result := Solve(context.Background(), req, deps)

	assert.Equal(t, "ok", result.Status)
	assert.True(t, persister.wroteRun)
	assert.False(t, persister.wroteSched) // WriteRun failed, schedule/kpis never attempted
}

func TestSolve_PersistsScheduleAndKPIsOnRunSuccess(t *testing.T) {
	req := baseDispatchRequest()
	persister := &fakePersister{}
	deps := Dependencies{Persister: persister}

	Solve(context.Background(), req, deps)

	assert.True(t, persister.wroteRun)
	assert.True(t, persister.wroteSched)
	assert.True(t, persister.wroteKPIs)
}

func TestBuildSchedule_MapsAllFields(t *testing.T) {
	req := baseDispatchRequest()
	result := Solve(context.Background(), req, Dependencies{})
	require.NotEmpty(t, result.Schedule)
	row := result.Schedule[0]
	assert.NotEmpty(t, row.Reason)

	s := model.NewEmptySolution(1)
	s.PVSet[0], s.BattCh[0], s.BattDis[0] = 1, 2, 3
	s.GridImp[0], s.GridExp[0], s.Curtail[0] = 4, 5, 6
	s.SOC[0], s.SOC[1] = 0.7, 0.8
	rows := buildSchedule(s, []string{"why"})
	require.Len(t, rows, 1)
	assert.Equal(t, models.ScheduleRow{
		PVSetKW: 1, BattChKW: 2, BattDisKW: 3, GridImpKW: 4, GridExpKW: 5, CurtailKW: 6,
		SOC: 0.7, Reason: "why",
	}, rows[0])
}
