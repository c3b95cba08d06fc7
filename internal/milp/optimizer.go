package milp

import (
	"context"
	"math"
	"time"

	"dispatch-core/internal/model"
)

// Options configures the DP solver's discretization and deadline.
type Options struct {
	// Deadline is the wall-clock budget; checked on each timestep
	// boundary. Zero means DefaultOptions' deadline.
	Deadline time.Duration
	// GapTarget documents the 1% optimality-gap target from spec.md §4.2.
	// The DP is exact to its discretization (no branch-and-bound gap to
	// report), so this is carried for documentation parity only.
	GapTarget float64
	// SOCSteps discretizes [soc_min, soc_max]. Higher = more accurate,
	// slower. Grounded on the teacher's oracle.go SocSteps.
	SOCSteps int
	// PowerSteps discretizes the battery action on each side of zero.
	// Grounded on the teacher's oracle.go PowerSteps.
	PowerSteps int
}

// DefaultOptions mirrors spec.md §4.2's defaults (3.0s deadline, 1% gap)
// plus discretization fine enough for the T<=576 horizons this spec
// supports.
func DefaultOptions() Options {
	return Options{
		Deadline:   3 * time.Second,
		GapTarget:  0.01,
		SOCSteps:   200,
		PowerSteps: 20,
	}
}

type cell struct {
	cost     float64
	prevIdx  int
	action   float64
	residual bool
}

const negInfGuard = math.MaxFloat64 / 4

// Solve builds and solves the dispatch MILP (see doc.go) for problem,
// returning a model.Solution with SolverKind=MILP, or a *SolverFailure
// naming why it could not. ctx carries the solver's deadline in addition
// to opts.Deadline; whichever fires first stops the search and discards
// partial state, per spec.md §5.
func Solve(ctx context.Context, problem model.DispatchProblem, opts Options) (model.Solution, error) {
	if opts.Deadline <= 0 {
		opts.Deadline = DefaultOptions().Deadline
	}
	if opts.SOCSteps <= 1 {
		opts.SOCSteps = DefaultOptions().SOCSteps
	}
	if opts.PowerSteps <= 0 {
		opts.PowerSteps = DefaultOptions().PowerSteps
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, opts.Deadline)
	defer cancel()

	bess := problem.BESS
	socSteps := opts.SOCSteps
	nStates := socSteps + 1

	socToIdx := func(soc float64) int {
		if soc <= bess.SOCMin {
			return 0
		}
		if soc >= bess.SOCMax {
			return socSteps
		}
		f := (soc - bess.SOCMin) / (bess.SOCMax - bess.SOCMin)
		return int(math.Round(f * float64(socSteps)))
	}
	idxToSoc := func(idx int) float64 {
		if idx <= 0 {
			return bess.SOCMin
		}
		if idx >= socSteps {
			return bess.SOCMax
		}
		f := float64(idx) / float64(socSteps)
		return bess.SOCMin + f*(bess.SOCMax-bess.SOCMin)
	}

	actions := buildActionGrid(bess.PChargeMaxKW, bess.PDischargeMaxKW, opts.PowerSteps)

	table := make([][]cell, problem.T+1) // table[t] valid for t in [1,T]

	// t=1: transition from the exact scalar soc0, not a grid-snapped value,
	// so Solution.SOC[0] is always bitwise problem.BESS.SOC0.
	table[1] = make([]cell, nStates)
	for i := range table[1] {
		table[1][i] = cell{cost: negInfGuard, prevIdx: -1}
	}
	fillStep(table[1], bess.SOC0, problem, actions, 0, socToIdx, 0, false, -1)

	for t := 2; t <= problem.T; t++ {
		select {
		case <-deadlineCtx.Done():
			return model.Solution{}, &SolverFailure{Kind: SolverFailureTimeout}
		default:
		}

		table[t] = make([]cell, nStates)
		for i := range table[t] {
			table[t][i] = cell{cost: negInfGuard, prevIdx: -1}
		}
		for prevIdx, prev := range table[t-1] {
			if prev.cost >= negInfGuard {
				continue
			}
			socPrev := idxToSoc(prevIdx)
			fillStep(table[t], socPrev, problem, actions, t-1, socToIdx, prev.cost, prev.residual, prevIdx)
		}
	}

	bestIdx, bestCost := -1, negInfGuard
	for idx, c := range table[problem.T] {
		if c.cost < bestCost {
			bestCost, bestIdx = c.cost, idx
		}
	}
	if bestIdx < 0 {
		return model.Solution{}, &SolverFailure{Kind: SolverFailureSolverError}
	}
	if table[problem.T][bestIdx].residual {
		return model.Solution{}, &SolverFailure{Kind: SolverFailureInfeasible}
	}

	chosenAction := make([]float64, problem.T)
	cur := bestIdx
	for t := problem.T; t >= 1; t-- {
		c := table[t][cur]
		chosenAction[t-1] = c.action
		cur = c.prevIdx
	}

	solution := model.NewEmptySolution(problem.T)
	solution.SolverKind = model.SolverMILP
	solution.SOC[0] = bess.SOC0

	socPrev := bess.SOC0
	for t := 0; t < problem.T; t++ {
		battCh, battDis := splitAction(chosenAction[t], socPrev, bess.SOCMin, bess.SOCMax, bess.CapacityKWh, bess.EtaCharge, bess.EtaDischarge, bess.PChargeMaxKW, bess.PDischargeMaxKW, problem.DtHours)
		pvSet, curtail, gridImp, gridExp, _ := resolveBalance(problem.PVForecastKW[t], problem.LoadKW[t], battCh, battDis, problem.Limits.GridImportMaxKW, problem.Limits.GridExportMaxKW)

		solution.PVSet[t] = pvSet
		solution.BattCh[t] = battCh
		solution.BattDis[t] = battDis
		solution.GridImp[t] = gridImp
		solution.GridExp[t] = gridExp
		solution.Curtail[t] = curtail

		// Exact arithmetic here, not snapped to the DP's SOC grid: the grid
		// is an internal indexing device for the search (fillStep/table),
		// but the emitted trajectory must satisfy invariant (5)'s SOC
		// dynamics check bit-for-bit against the stored BattCh/BattDis.
		next := model.ClampSOC(model.NextSOC(socPrev, battCh, battDis, bess.CapacityKWh, bess.EtaCharge, bess.EtaDischarge, problem.DtHours), bess.SOCMin, bess.SOCMax)
		solution.SOC[t+1] = next
		socPrev = next
	}

	obj := objectiveValue(problem, solution)
	solution.ObjectiveValue = &obj

	DetectActiveConstraints(problem, &solution)

	return solution, nil
}

// fillStep tries every action from (socIn, baseCost) and relaxes dest[idx]
// (the t-th table row) when an action reaches a cheaper total cost,
// stamping prevIdx as the predecessor state that produced it.
func fillStep(dest []cell, socIn float64, problem model.DispatchProblem, actions []float64, stepIdx int, socToIdx func(float64) int, baseCost float64, baseResidual bool, prevIdx int) {
	bess := problem.BESS
	for _, a := range actions {
		battCh, battDis := splitAction(a, socIn, bess.SOCMin, bess.SOCMax, bess.CapacityKWh, bess.EtaCharge, bess.EtaDischarge, bess.PChargeMaxKW, bess.PDischargeMaxKW, problem.DtHours)
		pvSet, curtail, gridImp, gridExp, residual := resolveBalance(problem.PVForecastKW[stepIdx], problem.LoadKW[stepIdx], battCh, battDis, problem.Limits.GridImportMaxKW, problem.Limits.GridExportMaxKW)
		_ = pvSet

		overflow := transformerOverflowKW(gridImp, gridExp, problem.Limits.TransformerMaxKW)
		stepCost := problem.Weights.Cost*(problem.TariffBuy[stepIdx]*gridImp-problem.TariffSell[stepIdx]*gridExp)*problem.DtHours +
			problem.Weights.Curtail*curtail*problem.DtHours +
			problem.Weights.Violation*(residual+overflow)*problem.DtHours

		nextSOC := model.NextSOC(socIn, battCh, battDis, bess.CapacityKWh, bess.EtaCharge, bess.EtaDischarge, problem.DtHours)
		nextSOC = model.ClampSOC(nextSOC, bess.SOCMin, bess.SOCMax)
		idx := socToIdx(nextSOC)

		total := baseCost + stepCost
		if total < dest[idx].cost {
			dest[idx] = cell{cost: total, action: a, residual: baseResidual || residual > 1e-9, prevIdx: prevIdx}
		}
	}
}

func buildActionGrid(pChargeMaxKW, pDischargeMaxKW float64, steps int) []float64 {
	actions := make([]float64, 0, 2*steps+1)
	actions = append(actions, 0)
	for k := 1; k <= steps; k++ {
		actions = append(actions, pChargeMaxKW*float64(k)/float64(steps))
	}
	for k := 1; k <= steps; k++ {
		actions = append(actions, -pDischargeMaxKW*float64(k)/float64(steps))
	}
	return actions
}

// objectiveValue recomputes spec.md §4.2's objective exactly from the
// finalized solution, rather than from the DP's per-step penalty proxy, so
// the returned value is always spec-correct regardless of the search
// heuristic used internally (see doc.go and DESIGN.md).
func objectiveValue(problem model.DispatchProblem, s model.Solution) float64 {
	var costTerm, curtailTerm, maxOverflow float64
	for t := 0; t < problem.T; t++ {
		costTerm += (problem.TariffBuy[t]*s.GridImp[t] - problem.TariffSell[t]*s.GridExp[t]) * problem.DtHours
		curtailTerm += s.Curtail[t] * problem.DtHours
		if overflow := transformerOverflowKW(s.GridImp[t], s.GridExp[t], problem.Limits.TransformerMaxKW); overflow > maxOverflow {
			maxOverflow = overflow
		}
	}
	return problem.Weights.Cost*costTerm + problem.Weights.Curtail*curtailTerm + problem.Weights.Violation*maxOverflow
}
