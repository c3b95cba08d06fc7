package milp

import "dispatch-core/internal/model"

const (
	ratioTolerance = 1e-3
	socTolerance   = 1e-3
)

// DetectActiveConstraints fills solution.ActiveConstraints[t] with every
// tag from {soc_min, soc_max, p_charge_max, p_discharge_max,
// grid_import_max, grid_export_max} whose bound is met within tolerance,
// exactly as spec.md §4.2 describes (ratio tolerance for power bounds,
// absolute tolerance for SOC). Order does not matter here; determinism for
// display is handled by model.ConstraintSet.Sorted in internal/explain.
func DetectActiveConstraints(problem model.DispatchProblem, solution *model.Solution) {
	bess := problem.BESS
	limits := problem.Limits

	for t := 0; t < problem.T; t++ {
		tags := solution.ActiveConstraints[t]

		if solution.SOC[t] <= bess.SOCMin+socTolerance {
			tags.Add(model.TagSOCMin)
		}
		if solution.SOC[t] >= bess.SOCMax-socTolerance {
			tags.Add(model.TagSOCMax)
		}
		if nearRatio(solution.BattCh[t], bess.PChargeMaxKW) {
			tags.Add(model.TagPChargeMax)
		}
		if nearRatio(solution.BattDis[t], bess.PDischargeMaxKW) {
			tags.Add(model.TagPDischargeMax)
		}
		if nearRatio(solution.GridImp[t], limits.GridImportMaxKW) {
			tags.Add(model.TagGridImportMax)
		}
		if nearRatio(solution.GridExp[t], limits.GridExportMaxKW) {
			tags.Add(model.TagGridExportMax)
		}
	}
}

// nearRatio reports whether value is within ratioTolerance of bound,
// relative to bound. A zero bound is only "active" if value is also
// (numerically) zero, since a ratio tolerance against a zero bound is
// undefined.
func nearRatio(value, bound float64) bool {
	if bound <= 0 {
		return value <= ratioTolerance
	}
	return value >= bound*(1-ratioTolerance)
}
