package model

import (
	"fmt"
	"math"
)

const (
	powerTolKW = 0.01
	socTol     = 1e-6
	socDynTol  = 1e-4
)

// CheckSolution verifies invariants (1)-(6) of spec.md §3 against problem and
// returns the name of every violated invariant (with the first offending
// timestep), or nil if the solution is fully consistent. Used by both
// solvers' tests and by dispatch.Solve as the validation pass on fallback
// solutions, where any violation sets status "fallback" and error
// "residual_imbalance".
func CheckSolution(p DispatchProblem, s Solution) []string {
	var violations []string

	for t := 0; t < p.T; t++ {
		balance := s.PVSet[t] + s.BattDis[t] + s.GridImp[t] - p.LoadKW[t] - s.BattCh[t] - s.GridExp[t]
		if math.Abs(balance) > powerTolKW {
			violations = append(violations, fmt.Sprintf("power_balance@%d", t))
		}

		curtailResidual := s.PVSet[t] + s.Curtail[t] - p.PVForecastKW[t]
		if math.Abs(curtailResidual) > powerTolKW {
			violations = append(violations, fmt.Sprintf("pv_decomposition@%d", t))
		}

		if s.BattCh[t]*s.BattDis[t] > powerTolKW {
			violations = append(violations, fmt.Sprintf("mutual_exclusivity_batt@%d", t))
		}
		if s.GridImp[t]*s.GridExp[t] > powerTolKW {
			violations = append(violations, fmt.Sprintf("mutual_exclusivity_grid@%d", t))
		}

		if s.SOC[t] < p.BESS.SOCMin-socTol || s.SOC[t] > p.BESS.SOCMax+socTol {
			violations = append(violations, fmt.Sprintf("soc_bounds@%d", t))
		}

		expected := NextSOC(s.SOC[t], s.BattCh[t], s.BattDis[t], p.BESS.CapacityKWh, p.BESS.EtaCharge, p.BESS.EtaDischarge, p.DtHours)
		if math.Abs(expected-s.SOC[t+1]) > socDynTol {
			violations = append(violations, fmt.Sprintf("soc_dynamics@%d", t))
		}

		if s.PVSet[t] < -powerTolKW || s.PVSet[t] > p.PVForecastKW[t]+powerTolKW {
			violations = append(violations, fmt.Sprintf("pv_set_bounds@%d", t))
		}
		if s.BattCh[t] < -powerTolKW || s.BattCh[t] > p.BESS.PChargeMaxKW+powerTolKW {
			violations = append(violations, fmt.Sprintf("batt_ch_bounds@%d", t))
		}
		if s.BattDis[t] < -powerTolKW || s.BattDis[t] > p.BESS.PDischargeMaxKW+powerTolKW {
			violations = append(violations, fmt.Sprintf("batt_dis_bounds@%d", t))
		}
		if s.GridImp[t] < -powerTolKW || s.GridImp[t] > p.Limits.GridImportMaxKW+powerTolKW {
			violations = append(violations, fmt.Sprintf("grid_imp_bounds@%d", t))
		}
		if s.GridExp[t] < -powerTolKW || s.GridExp[t] > p.Limits.GridExportMaxKW+powerTolKW {
			violations = append(violations, fmt.Sprintf("grid_exp_bounds@%d", t))
		}
		if s.Curtail[t] < -powerTolKW || s.Curtail[t] > p.PVForecastKW[t]+powerTolKW {
			violations = append(violations, fmt.Sprintf("curtail_bounds@%d", t))
		}
	}

	if len(s.SOC) != p.T+1 {
		violations = append(violations, "soc_array_length")
	} else if math.Abs(s.SOC[0]-p.BESS.SOC0) > socTol {
		violations = append(violations, "soc_initial")
	}

	return violations
}
