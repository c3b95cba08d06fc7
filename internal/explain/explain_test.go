package explain

import (
	"testing"

	"dispatch-core/internal/model"

	"github.com/stretchr/testify/assert"
)

func baseProblemAndSolution(t int) (model.DispatchProblem, model.Solution) {
	load := make([]float64, t)
	pv := make([]float64, t)
	buy := make([]float64, t)
	sell := make([]float64, t)
	for i := 0; i < t; i++ {
		load[i] = 10
		pv[i] = 5
		buy[i] = 0.2
		sell[i] = 0.05
	}
	problem := model.DispatchProblem{
		T: t, DtHours: 0.25,
		PVForecastKW: pv, LoadKW: load, TariffBuy: buy, TariffSell: sell,
		BESS: model.DefaultBESSParams(), Limits: model.DefaultGridLimits(), Weights: model.DefaultWeights(),
	}
	return problem, model.NewEmptySolution(t)
}

func TestReasons_PeakDischargeOutranksDemandPeak(t *testing.T) {
	problem, s := baseProblemAndSolution(1)
	problem.TariffBuy[0] = 5.0 // far above median of itself... use 2 steps instead
	problem.TariffBuy = []float64{0.2}
	problem, s = baseProblemAndSolution(2)
	problem.TariffBuy[1] = 2.0
	problem.LoadKW[1] = 100 // also a demand peak, but peak-tariff rule ranks first
	s.BattDis[1] = 5

	reasons := Reasons(problem, s)
	assert.Equal(t, "Discharge battery during peak tariff hours", reasons[1])
}

func TestReasons_DemandPeakDischarge(t *testing.T) {
	problem, s := baseProblemAndSolution(2)
	problem.LoadKW[1] = 100
	s.BattDis[1] = 5

	reasons := Reasons(problem, s)
	assert.Equal(t, "Discharge battery to meet demand peak", reasons[1])
}

func TestReasons_ChargeFromCurtailedPV(t *testing.T) {
	problem, s := baseProblemAndSolution(1)
	s.BattCh[0] = 5
	s.Curtail[0] = 2

	reasons := Reasons(problem, s)
	assert.Equal(t, "Charge battery using curtailed PV", reasons[0])
}

func TestReasons_CurtailAtMaxSOC(t *testing.T) {
	problem, s := baseProblemAndSolution(1)
	s.Curtail[0] = 2
	s.SOC[0] = problem.BESS.SOCMax

	reasons := Reasons(problem, s)
	assert.Equal(t, "Curtail PV due to battery at max SOC", reasons[0])
}

func TestReasons_DefaultGridImport(t *testing.T) {
	problem, s := baseProblemAndSolution(1)
	s.SOC[0] = 0.5 // mid-range, nothing else happening

	reasons := Reasons(problem, s)
	assert.Equal(t, "Grid import to meet demand", reasons[0])
}

func TestReasons_AppendsSortedActiveConstraintTags(t *testing.T) {
	problem, s := baseProblemAndSolution(1)
	s.SOC[0] = 0.5
	s.ActiveConstraints[0].Add(model.TagGridExportMax)
	s.ActiveConstraints[0].Add(model.TagSOCMin)

	reasons := Reasons(problem, s)
	assert.Contains(t, reasons[0], "active: [")
	assert.Contains(t, reasons[0], string(model.TagSOCMin))
	assert.Contains(t, reasons[0], string(model.TagGridExportMax))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, median(nil))
}
