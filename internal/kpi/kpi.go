// Package kpi computes aggregate metrics from a Solution and its
// DispatchProblem, using the exact same Δt the solver used. Grounded on the
// teacher's internal/analysis/potential.go (single-pass accumulation,
// sort.Float64s for percentile-style derived stats) and
// internal/backtest/ledger.go's CumPNL running-sum pattern, generalized to
// this package's own sums.
package kpi

import "dispatch-core/internal/model"

// KPIs holds the required aggregate metrics (spec.md §4.5) plus the
// "Extended" reporting metrics. No rounding is applied to any value.
type KPIs struct {
	TotalCost        float64
	TotalCurtailKWh  float64
	PeakGridImportKW float64
	AvgSOC           float64

	GridImportKWh       float64
	GridExportKWh       float64
	BattChargeKWh       float64
	BattDischargeKWh    float64
	SOCMinReached       float64
	SOCMaxReached       float64
	TotalBuyCost        float64
	TotalSellRevenue    float64
	NetEnergyKWh        float64
	SelfConsumptionRate float64
}

const epsilon = 1e-9

// Compute aggregates problem and solution into KPIs with a single pass over
// the horizon plus a second pass over solution.SOC for the mean.
func Compute(problem model.DispatchProblem, solution model.Solution) KPIs {
	var k KPIs
	k.SOCMinReached = solution.SOC[0]
	k.SOCMaxReached = solution.SOC[0]

	var pvSetSum, pvForecastSum float64

	for t := 0; t < problem.T; t++ {
		buyCost := problem.TariffBuy[t] * solution.GridImp[t] * problem.DtHours
		sellRevenue := problem.TariffSell[t] * solution.GridExp[t] * problem.DtHours

		k.TotalCost += buyCost - sellRevenue
		k.TotalBuyCost += buyCost
		k.TotalSellRevenue += sellRevenue

		k.TotalCurtailKWh += solution.Curtail[t] * problem.DtHours
		if solution.GridImp[t] > k.PeakGridImportKW {
			k.PeakGridImportKW = solution.GridImp[t]
		}

		k.GridImportKWh += solution.GridImp[t] * problem.DtHours
		k.GridExportKWh += solution.GridExp[t] * problem.DtHours
		k.BattChargeKWh += solution.BattCh[t] * problem.DtHours
		k.BattDischargeKWh += solution.BattDis[t] * problem.DtHours

		pvSetSum += solution.PVSet[t] * problem.DtHours
		pvForecastSum += problem.PVForecastKW[t] * problem.DtHours
	}

	var socSum float64
	for _, soc := range solution.SOC {
		socSum += soc
		if soc < k.SOCMinReached {
			k.SOCMinReached = soc
		}
		if soc > k.SOCMaxReached {
			k.SOCMaxReached = soc
		}
	}
	k.AvgSOC = socSum / float64(len(solution.SOC))

	k.NetEnergyKWh = k.GridImportKWh - k.GridExportKWh

	denom := pvForecastSum
	if denom < epsilon {
		denom = epsilon
	}
	k.SelfConsumptionRate = pvSetSum / denom

	return k
}
