// Package explain derives a per-timestep human-readable reason from a
// Solution and its DispatchProblem. Grounded on the teacher's
// model.ActionFromPowerMW "classify by sign" pattern, generalized to a
// ranked multi-predicate chain (spec.md §4.4's 12-rule table).
package explain

import (
	"fmt"
	"sort"
	"strings"

	"dispatch-core/internal/model"
)

const epsilon = 0.01
const socMargin = 0.05

// Reasons returns one reason string per timestep, selected by the first
// matching rule in spec.md §4.4's rank table. When solution's active
// constraints for step t are non-empty, "; active: [tag1, tag2, ...]" is
// appended to the base reason, tags sorted for the determinism law
// (spec.md §8) since Go map iteration order is not stable.
func Reasons(problem model.DispatchProblem, solution model.Solution) []string {
	medianBuy := median(problem.TariffBuy)
	medianLoad := median(problem.LoadKW)
	bess := problem.BESS
	limits := problem.Limits

	reasons := make([]string, problem.T)
	for t := 0; t < problem.T; t++ {
		reasons[t] = base(problem, solution, t, medianBuy, medianLoad, bess, limits)

		if t < len(solution.ActiveConstraints) {
			if tags := solution.ActiveConstraints[t].Sorted(); len(tags) > 0 {
				reasons[t] = fmt.Sprintf("%s; active: [%s]", reasons[t], strings.Join(tags, ", "))
			}
		}
	}
	return reasons
}

func base(problem model.DispatchProblem, s model.Solution, t int, medianBuy, medianLoad float64, bess model.BESSParams, limits model.GridLimits) string {
	switch {
	case s.BattDis[t] > epsilon && problem.TariffBuy[t] > 1.2*medianBuy:
		return "Discharge battery during peak tariff hours"
	case s.BattDis[t] > epsilon && problem.LoadKW[t] > 1.5*medianLoad:
		return "Discharge battery to meet demand peak"
	case s.BattDis[t] > epsilon && limits.GridImportMaxKW > 0 && s.GridImp[t] >= 0.95*limits.GridImportMaxKW:
		return "Discharge battery due to grid import limit"
	case s.BattCh[t] > epsilon && s.Curtail[t] > epsilon:
		return "Charge battery using curtailed PV"
	case s.BattCh[t] > epsilon && problem.TariffBuy[t] < 0.8*medianBuy:
		return "Charge battery during low tariff hours"
	case s.BattCh[t] > epsilon && problem.PVForecastKW[t] > problem.LoadKW[t]:
		return "Charge battery with excess PV after load met"
	case s.Curtail[t] > epsilon && s.SOC[t] >= bess.SOCMax-socMargin:
		return "Curtail PV due to battery at max SOC"
	case s.Curtail[t] > epsilon && limits.GridExportMaxKW > 0 && s.GridExp[t] >= 0.95*limits.GridExportMaxKW:
		return "Curtail PV due to grid export limit"
	case s.Curtail[t] > epsilon:
		return "Curtail PV for economic optimization"
	case s.SOC[t] <= bess.SOCMin+socMargin:
		return "SOC protected at minimum threshold"
	case s.SOC[t] >= bess.SOCMax-socMargin:
		return "SOC approaching maximum limit"
	default:
		return "Grid import to meet demand"
	}
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
