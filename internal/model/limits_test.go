package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailableChargeLimitKW(t *testing.T) {
	got := AvailableChargeLimitKW(0.5, 0.9, 100, 0.95, 0.25)
	want := (0.9 - 0.5) * 100 / (0.95 * 0.25)
	assert.InDelta(t, want, got, 1e-9)
}

func TestAvailableChargeLimitKW_AtMax(t *testing.T) {
	assert.Equal(t, 0.0, AvailableChargeLimitKW(0.9, 0.9, 100, 0.95, 0.25))
}

func TestAvailableDischargeLimitKW(t *testing.T) {
	got := AvailableDischargeLimitKW(0.5, 0.2, 100, 0.95, 0.25)
	want := (0.5 - 0.2) * 100 * 0.95 / 0.25
	assert.InDelta(t, want, got, 1e-9)
}

func TestAvailableDischargeLimitKW_AtMin(t *testing.T) {
	assert.Equal(t, 0.0, AvailableDischargeLimitKW(0.2, 0.2, 100, 0.95, 0.25))
}

func TestNextSOC_ChargeOnly(t *testing.T) {
	soc := NextSOC(0.5, 10, 0, 100, 0.95, 0.95, 0.25)
	want := 0.5 + (0.95*10)*0.25/100
	assert.InDelta(t, want, soc, 1e-9)
}

func TestNextSOC_DischargeOnly(t *testing.T) {
	soc := NextSOC(0.5, 0, 10, 100, 0.95, 0.95, 0.25)
	want := 0.5 - (10/0.95)*0.25/100
	assert.InDelta(t, want, soc, 1e-9)
}

func TestClampSOC(t *testing.T) {
	assert.Equal(t, 0.2, ClampSOC(0.1, 0.2, 0.9))
	assert.Equal(t, 0.9, ClampSOC(0.95, 0.2, 0.9))
	assert.Equal(t, 0.5, ClampSOC(0.5, 0.2, 0.9))
}
