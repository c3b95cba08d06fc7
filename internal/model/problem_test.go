package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProblem(t int) DispatchProblem {
	load := make([]float64, t)
	pv := make([]float64, t)
	buy := make([]float64, t)
	sell := make([]float64, t)
	for i := range load {
		load[i] = 10
		pv[i] = 5
		buy[i] = 0.2
		sell[i] = 0.1
	}
	return DispatchProblem{
		T:            t,
		DtHours:      0.25,
		PVForecastKW: pv,
		LoadKW:       load,
		TariffBuy:    buy,
		TariffSell:   sell,
		BESS:         DefaultBESSParams(),
		Limits:       DefaultGridLimits(),
		Weights:      DefaultWeights(),
	}
}

func TestDispatchProblemValidate_OK(t *testing.T) {
	p := validProblem(4)
	assert.NoError(t, p.Validate())
}

func TestDispatchProblemValidate_MismatchedLength(t *testing.T) {
	p := validProblem(4)
	p.LoadKW = p.LoadKW[:3]
	err := p.Validate()
	require.Error(t, err)
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "load_kw", invalid.Field)
}

func TestDispatchProblemValidate_NegativeArrayValue(t *testing.T) {
	p := validProblem(4)
	p.LoadKW[1] = -1
	assert.Error(t, p.Validate())
}

func TestDispatchProblemValidate_SOC0OutOfBounds(t *testing.T) {
	p := validProblem(4)
	p.BESS.SOC0 = 0.95
	err := p.Validate()
	require.Error(t, err)
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "bess.soc0", invalid.Field)
}

func TestDispatchProblemValidate_ZeroHorizon(t *testing.T) {
	p := validProblem(0)
	assert.Error(t, p.Validate())
}

func TestDispatchProblemValidate_BadEfficiency(t *testing.T) {
	p := validProblem(4)
	p.BESS.EtaCharge = 0
	assert.Error(t, p.Validate())
}
