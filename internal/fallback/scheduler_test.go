package fallback

import (
	"testing"

	"dispatch-core/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_NeverFailsAndSatisfiesInvariants(t *testing.T) {
	n := 8
	load := make([]float64, n)
	pv := make([]float64, n)
	buy := make([]float64, n)
	sell := make([]float64, n)
	for i := 0; i < n; i++ {
		load[i] = 10
		pv[i] = 5
		buy[i] = 0.2
		sell[i] = 0.05
	}
	buy[n-1] = 1.0 // peak step

	problem := model.DispatchProblem{
		T:            n,
		DtHours:      0.25,
		PVForecastKW: pv,
		LoadKW:       load,
		TariffBuy:    buy,
		TariffSell:   sell,
		BESS:         model.DefaultBESSParams(),
		Limits:       model.DefaultGridLimits(),
		Weights:      model.DefaultWeights(),
	}

	s := Run(problem)

	assert.Equal(t, model.SolverFallback, s.SolverKind)
	assert.Nil(t, s.ObjectiveValue)
	assert.Equal(t, problem.BESS.SOC0, s.SOC[0])
	assert.Empty(t, model.CheckSolution(problem, s))
}

func TestRun_DischargesOnPeakStep(t *testing.T) {
	n := 4
	load := []float64{10, 10, 10, 10}
	pv := []float64{0, 0, 0, 0}
	buy := []float64{0.2, 0.2, 0.2, 1.5} // last step is sharply above median
	sell := []float64{0.05, 0.05, 0.05, 0.05}

	bess := model.DefaultBESSParams()
	bess.SOC0 = 0.8

	problem := model.DispatchProblem{
		T: n, DtHours: 0.25,
		PVForecastKW: pv, LoadKW: load, TariffBuy: buy, TariffSell: sell,
		BESS: bess, Limits: model.DefaultGridLimits(), Weights: model.DefaultWeights(),
	}

	s := Run(problem)
	assert.Greater(t, s.BattDis[3], 0.0)
}

func TestRun_ChargesOnPVSurplus(t *testing.T) {
	problem := model.DispatchProblem{
		T: 2, DtHours: 0.25,
		PVForecastKW: []float64{50, 50},
		LoadKW:       []float64{5, 5},
		TariffBuy:    []float64{0.2, 0.2},
		TariffSell:   []float64{0.05, 0.05},
		BESS:         model.DefaultBESSParams(),
		Limits:       model.DefaultGridLimits(),
		Weights:      model.DefaultWeights(),
	}
	s := Run(problem)
	assert.Greater(t, s.BattCh[0], 0.0)
	assert.Empty(t, model.CheckSolution(problem, s))
}

func TestRun_CurtailsWhenExportAndChargeBothSaturated(t *testing.T) {
	bess := model.DefaultBESSParams()
	bess.SOC0 = bess.SOCMax // no headroom to charge
	limits := model.DefaultGridLimits()
	limits.GridExportMaxKW = 5

	problem := model.DispatchProblem{
		T: 1, DtHours: 0.25,
		PVForecastKW: []float64{100},
		LoadKW:       []float64{5},
		TariffBuy:    []float64{0.2},
		TariffSell:   []float64{0.05},
		BESS:         bess,
		Limits:       limits,
		Weights:      model.DefaultWeights(),
	}
	s := Run(problem)
	assert.Greater(t, s.Curtail[0], 0.0)
	assert.LessOrEqual(t, s.GridExp[0], limits.GridExportMaxKW+1e-9)
}

func TestRun_LeavesResidualWhenGridImportExhausted(t *testing.T) {
	limits := model.DefaultGridLimits()
	limits.GridImportMaxKW = 1

	bess := model.DefaultBESSParams()
	bess.PDischargeMaxKW = 0
	bess.PChargeMaxKW = 0

	problem := model.DispatchProblem{
		T: 1, DtHours: 0.25,
		PVForecastKW: []float64{0},
		LoadKW:       []float64{50},
		TariffBuy:    []float64{0.2},
		TariffSell:   []float64{0.05},
		BESS:         bess,
		Limits:       limits,
		Weights:      model.DefaultWeights(),
	}
	s := Run(problem)
	violations := model.CheckSolution(problem, s)
	require.NotEmpty(t, violations)
}

func TestMedian_EvenAndOdd(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, median(nil))
}
