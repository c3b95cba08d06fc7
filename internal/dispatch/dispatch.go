// Package dispatch orchestrates a single request end to end: normalize,
// solve (MILP with fallback on failure, or fallback directly), explain,
// compute KPIs, and best-effort persist. Grounded on the teacher's
// internal/backtest.Engine.Run single forward orchestration and
// internal/api/handlers/backtest.go's collaborator wiring.
package dispatch

import (
	"context"
	"log"
	"time"

	"dispatch-core/internal/api/models"
	"dispatch-core/internal/explain"
	"dispatch-core/internal/fallback"
	"dispatch-core/internal/kpi"
	"dispatch-core/internal/milp"
	"dispatch-core/internal/model"
	"dispatch-core/internal/normalize"
)

// Solve implements spec.md §6's solve(request) -> result end to end. It
// never panics and never returns a Go error: every failure mode named in
// spec.md §7 is surfaced through the returned Result's Status/Error fields.
func Solve(ctx context.Context, req models.Request, deps Dependencies) models.Result {
	if len(req.PVForecastKW) == 0 {
		fetched, err := fetchForecast(ctx, req, deps.Forecast)
		if err != nil {
			return invalidInputResult(model.ErrForecastUnavailable.Error())
		}
		req.PVForecastKW = fetched
	}

	problem, err := normalize.Normalize(req)
	if err != nil {
		return invalidInputResult(err.Error())
	}

	useMILP := req.UseMILP == nil || *req.UseMILP

	var (
		solution     model.Solution
		solverName   string
		fallbackUsed bool
		errMsg       *string
	)

	if useMILP {
		timeout := time.Duration(req.SolverTimeoutMs) * time.Millisecond
		opts := milp.DefaultOptions()
		if timeout > 0 {
			opts.Deadline = timeout
		}
		sol, solveErr := milp.Solve(ctx, problem, opts)
		if solveErr == nil {
			solution = sol
			solverName = "milp"
		} else {
			solution = fallback.Run(problem)
			solverName = "fallback_rule"
			fallbackUsed = true
			msg := solveErr.Error()
			errMsg = &msg
		}
	} else {
		solution = fallback.Run(problem)
		solverName = "rule_based"
	}

	status := "ok"
	if fallbackUsed {
		status = "fallback"
	}

	if solution.SolverKind == model.SolverFallback {
		if violations := model.CheckSolution(problem, solution); len(violations) > 0 {
			status = "fallback"
			msg := model.ErrResidualImbalance.Error()
			errMsg = &msg
			log.Printf("dispatch: fallback validation pass found residual imbalance for site %q: %v", req.SiteID, violations)
		}
	}

	reasons := explain.Reasons(problem, solution)
	schedule := buildSchedule(solution, reasons)
	kpis := kpi.Compute(problem, solution)

	result := models.Result{
		Status:         status,
		Solver:         solverName,
		FallbackUsed:   fallbackUsed,
		ObjectiveValue: solution.ObjectiveValue,
		Schedule:       schedule,
		KPIs:           kpis.ToWire(),
		Error:          errMsg,
	}

	if deps.Persister != nil {
		persist(ctx, deps.Persister, req.SiteID, solution, schedule, kpis)
	}

	return result
}

func fetchForecast(ctx context.Context, req models.Request, forecast ForecastFetcher) ([]float64, error) {
	if forecast == nil {
		return nil, model.ErrForecastUnavailable
	}
	t := len(req.LoadKW)
	end := time.Now().UTC()
	start := end.Add(-time.Duration(req.ResolutionMinutes) * time.Duration(t) * time.Minute)
	values, err := forecast.FetchPV(ctx, req.SiteID, start, end, req.ResolutionMinutes, 0.5)
	if err != nil {
		return nil, err
	}
	if len(values) != t {
		return nil, model.ErrForecastUnavailable
	}
	return values, nil
}

func buildSchedule(s model.Solution, reasons []string) []models.ScheduleRow {
	rows := make([]models.ScheduleRow, len(reasons))
	for t := range rows {
		rows[t] = models.ScheduleRow{
			PVSetKW:   s.PVSet[t],
			BattChKW:  s.BattCh[t],
			BattDisKW: s.BattDis[t],
			GridImpKW: s.GridImp[t],
			GridExpKW: s.GridExp[t],
			CurtailKW: s.Curtail[t],
			SOC:       s.SOC[t],
			Reason:    reasons[t],
		}
	}
	return rows
}

func invalidInputResult(errMsg string) models.Result {
	msg := errMsg
	return models.Result{
		Status: "invalid_input",
		Error:  &msg,
	}
}

func persist(ctx context.Context, persister RunPersister, siteID string, solution model.Solution, schedule []models.ScheduleRow, kpis kpi.KPIs) {
	meta := RunMetadata{
		SiteID:       siteID,
		RequestedAt:  time.Now().UTC(),
		SolverKind:   string(solution.SolverKind),
		FallbackUsed: solution.SolverKind == model.SolverFallback,
	}
	runID, err := persister.WriteRun(ctx, meta)
	if err != nil {
		log.Printf("dispatch: persist write_run failed for site %q: %v", siteID, err)
		return
	}
	if err := persister.WriteSchedule(ctx, runID, schedule); err != nil {
		log.Printf("dispatch: persist write_schedule failed for run %q: %v", runID, err)
	}
	if err := persister.WriteKPIs(ctx, runID, kpis); err != nil {
		log.Printf("dispatch: persist write_kpis failed for run %q: %v", runID, err)
	}
}
