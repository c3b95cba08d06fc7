// Package fallback implements the deterministic rule-based scheduler:
// given any valid DispatchProblem it returns a Solution and never fails.
// The Solution is feasible unless load exceeds every supply source at some
// step; that unservable residual is left in place as a power-balance
// violation for the caller's CheckSolution pass to report. Grounded in structure (single deterministic forward pass, no
// backtracking, explicit named phases) on the teacher's
// internal/strategy.ScheduleStrategy.Decide per-step state machine,
// generalized from a single battery-action decision to the full
// PV/BESS/grid resolution this spec requires.
//
// Unlike internal/milp, this package never exploits tariff_sell >
// tariff_buy arbitrage: it only charges on PV surplus or off-peak buy
// price, and only discharges to meet load at peak-priced steps. This
// asymmetry versus the MILP optimizer is an intentional Open Question
// decision (see DESIGN.md).
package fallback

import (
	"math"
	"sort"

	"dispatch-core/internal/model"
)

// Run executes the 6-step algorithm of spec.md §4.3 once per timestep with
// no backtracking and returns a Solution (feasible except for any
// unservable residual, see the package doc). solver_kind=FALLBACK,
// objective_value=nil, active_constraints is left empty at every step.
func Run(problem model.DispatchProblem) model.Solution {
	s := model.NewEmptySolution(problem.T)
	s.SolverKind = model.SolverFallback
	s.ObjectiveValue = nil
	s.SOC[0] = problem.BESS.SOC0

	medianBuy := median(problem.TariffBuy)

	soc := problem.BESS.SOC0
	for t := 0; t < problem.T; t++ {
		bess := problem.BESS

		// Step 1: peak detection.
		peak := problem.TariffBuy[t] > 1.2*medianBuy
		offPeak := problem.TariffBuy[t] < 0.8*medianBuy

		// Step 2: PV utilization.
		pvSet := math.Min(problem.PVForecastKW[t], problem.LoadKW[t])
		pvSurplus := problem.PVForecastKW[t] - pvSet

		availableCharge := model.AvailableChargeLimitKW(soc, bess.SOCMax, bess.CapacityKWh, bess.EtaCharge, problem.DtHours)
		availableDischarge := model.AvailableDischargeLimitKW(soc, bess.SOCMin, bess.CapacityKWh, bess.EtaDischarge, problem.DtHours)

		var battCh, battDis float64

		// Step 3: battery action.
		switch {
		case peak && soc > bess.SOCMin:
			need := math.Max(0, problem.LoadKW[t]-pvSet)
			battDis = math.Min(bess.PDischargeMaxKW, math.Min(need, availableDischarge))
		case pvSurplus > 0 && soc < bess.SOCMax:
			c := math.Min(bess.PChargeMaxKW, math.Min(pvSurplus, availableCharge))
			battCh = c
			pvSurplus -= c
			pvSet += c // PV funding the charge is still "set" (used) capacity
		case offPeak && soc < bess.SOCMax:
			battCh = math.Min(bess.PChargeMaxKW, availableCharge)
		}

		// Step 4: curtailment — remaining PV surplus that cannot be
		// exported becomes curtailment; the rest is exported (grid
		// balance step below reconciles the exact export amount).
		exportable := math.Min(pvSurplus, problem.Limits.GridExportMaxKW)
		curtail := pvSurplus - exportable
		gridExp := exportable
		pvSet += exportable // exported PV still counts as "set" (used) capacity

		// Step 5: grid balance.
		residual := problem.LoadKW[t] + battCh + gridExp - pvSet - battDis
		var gridImp float64
		if residual > 0 {
			gridImp = math.Min(residual, problem.Limits.GridImportMaxKW)
			shortfall := residual - gridImp
			if shortfall > 1e-9 {
				// Reduce battCh to restore balance. pvSet is not reduced:
				// in a deficit all PV already serves load (no export), so
				// lowering it would only widen the shortfall.
				reduceBy := math.Min(battCh, shortfall)
				battCh -= reduceBy
				shortfall -= reduceBy
				// Any remaining shortfall is an unservable residual
				// (FallbackInfeasibility, spec.md §7): load exceeded every
				// supply source at this step. Leave it unresolved; the
				// caller surfaces ErrResidualImbalance via CheckSolution.
			}
		} else if residual < 0 {
			extra := -residual
			room := problem.Limits.GridExportMaxKW - gridExp
			if room < 0 {
				room = 0
			}
			add := math.Min(extra, room)
			gridExp += add
			curtail += extra - add
		}

		// Step 6: SOC update.
		nextSOC := model.NextSOC(soc, battCh, battDis, bess.CapacityKWh, bess.EtaCharge, bess.EtaDischarge, problem.DtHours)
		nextSOC = model.ClampSOC(nextSOC, bess.SOCMin, bess.SOCMax)

		s.PVSet[t] = pvSet
		s.BattCh[t] = battCh
		s.BattDis[t] = battDis
		s.GridImp[t] = gridImp
		s.GridExp[t] = gridExp
		s.Curtail[t] = curtail
		s.SOC[t] = soc
		s.SOC[t+1] = nextSOC

		soc = nextSOC
	}

	return s
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
