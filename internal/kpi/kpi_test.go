package kpi

import (
	"testing"

	"dispatch-core/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCompute_Accumulation(t *testing.T) {
	problem := model.DispatchProblem{
		T:            2,
		DtHours:      1.0,
		PVForecastKW: []float64{10, 10},
		LoadKW:       []float64{8, 8},
		TariffBuy:    []float64{0.3, 0.3},
		TariffSell:   []float64{0.1, 0.1},
		BESS:         model.DefaultBESSParams(),
		Limits:       model.DefaultGridLimits(),
		Weights:      model.DefaultWeights(),
	}
	s := model.NewEmptySolution(2)
	s.PVSet = []float64{8, 8}
	s.GridImp = []float64{0, 0}
	s.GridExp = []float64{2, 2}
	s.Curtail = []float64{0, 0}
	s.SOC = []float64{0.5, 0.5, 0.5}

	k := Compute(problem, s)

	assert.InDelta(t, -0.4, k.TotalCost, 1e-9) // 0 buy, 2*0.1*2 sell revenue = 0.4
	assert.InDelta(t, 0.4, k.TotalSellRevenue, 1e-9)
	assert.Equal(t, 0.0, k.TotalBuyCost)
	assert.Equal(t, 0.0, k.PeakGridImportKW)
	assert.InDelta(t, 0.5, k.AvgSOC, 1e-9)
	assert.InDelta(t, 0.8, k.SelfConsumptionRate, 1e-9) // 16 used / 20 forecast
}

func TestCompute_SelfConsumptionRateWithCurtailment(t *testing.T) {
	problem := model.DispatchProblem{
		T:            1,
		DtHours:      1.0,
		PVForecastKW: []float64{10},
		LoadKW:       []float64{4},
		TariffBuy:    []float64{0.3},
		TariffSell:   []float64{0.1},
		BESS:         model.DefaultBESSParams(),
		Limits:       model.DefaultGridLimits(),
		Weights:      model.DefaultWeights(),
	}
	s := model.NewEmptySolution(1)
	s.PVSet = []float64{4}
	s.Curtail = []float64{6}
	s.SOC = []float64{0.5, 0.5}

	k := Compute(problem, s)
	assert.InDelta(t, 0.4, k.SelfConsumptionRate, 1e-9) // 4 used / 10 forecast
}

func TestCompute_SelfConsumptionRateZeroForecastAvoidsDivideByZero(t *testing.T) {
	problem := model.DispatchProblem{
		T:            1,
		DtHours:      1.0,
		PVForecastKW: []float64{0},
		LoadKW:       []float64{4},
		TariffBuy:    []float64{0.3},
		TariffSell:   []float64{0.1},
		BESS:         model.DefaultBESSParams(),
		Limits:       model.DefaultGridLimits(),
		Weights:      model.DefaultWeights(),
	}
	s := model.NewEmptySolution(1)
	s.GridImp = []float64{4}
	s.SOC = []float64{0.5, 0.5}

	k := Compute(problem, s)
	assert.Equal(t, 0.0, k.SelfConsumptionRate)
}

func TestCompute_SOCMinMaxReachedTracksExtremes(t *testing.T) {
	problem := model.DispatchProblem{
		T:            3,
		DtHours:      0.25,
		PVForecastKW: []float64{0, 0, 0},
		LoadKW:       []float64{0, 0, 0},
		TariffBuy:    []float64{0.2, 0.2, 0.2},
		TariffSell:   []float64{0.1, 0.1, 0.1},
		BESS:         model.DefaultBESSParams(),
		Limits:       model.DefaultGridLimits(),
		Weights:      model.DefaultWeights(),
	}
	s := model.NewEmptySolution(3)
	s.SOC = []float64{0.5, 0.2, 0.9, 0.6}

	k := Compute(problem, s)
	assert.Equal(t, 0.2, k.SOCMinReached)
	assert.Equal(t, 0.9, k.SOCMaxReached)
}

func TestToWire_CopiesAllFields(t *testing.T) {
	k := KPIs{TotalCost: 1, TotalCurtailKWh: 2, PeakGridImportKW: 3, AvgSOC: 0.5, SelfConsumptionRate: 0.7}
	wire := k.ToWire()
	assert.Equal(t, 1.0, wire.TotalCost)
	assert.Equal(t, 0.7, wire.SelfConsumptionRate)
}
