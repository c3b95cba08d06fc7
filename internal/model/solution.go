package model

import "sort"

// SolverKind identifies which component produced a Solution. String-backed
// enum in the style of the teacher's Action type.
type SolverKind string

const (
	SolverMILP     SolverKind = "milp"
	SolverFallback SolverKind = "fallback"
)

// ConstraintTag names a single bound that can be active (binding) at a
// timestep. The tag set is open-ended per spec.md §4.2; new tags can be
// added without touching ConstraintSet's representation.
type ConstraintTag string

const (
	TagSOCMin          ConstraintTag = "soc_min"
	TagSOCMax          ConstraintTag = "soc_max"
	TagPChargeMax      ConstraintTag = "p_charge_max"
	TagPDischargeMax   ConstraintTag = "p_discharge_max"
	TagGridImportMax   ConstraintTag = "grid_import_max"
	TagGridExportMax   ConstraintTag = "grid_export_max"
)

// ConstraintSet is a set of active ConstraintTags for one timestep.
// Generalizes cepro-simt-flux's activeConstraints struct (three fixed
// booleans) into an open set since the MILP's active-constraint list is not
// fixed-arity.
type ConstraintSet map[ConstraintTag]bool

// Add marks tag as active.
func (s ConstraintSet) Add(tag ConstraintTag) {
	s[tag] = true
}

// Has reports whether tag is active.
func (s ConstraintSet) Has(tag ConstraintTag) bool {
	return s[tag]
}

// Sorted returns the active tags in deterministic (lexicographic) order.
// Map iteration order is not stable in Go, so any output that must be
// byte-identical across runs (explanations, logs) must go through this.
func (s ConstraintSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tag, active := range s {
		if active {
			out = append(out, string(tag))
		}
	}
	sort.Strings(out)
	return out
}

// Solution is the output of either solver. PVSet/BattCh/BattDis/GridImp/
// GridExp/Curtail have length T; SOC has length T+1 (SOC[0]=soc0, SOC[T] is
// the terminal state).
type Solution struct {
	PVSet    []float64
	BattCh   []float64
	BattDis  []float64
	GridImp  []float64
	GridExp  []float64
	Curtail  []float64
	SOC      []float64

	SolverKind       SolverKind
	ObjectiveValue   *float64
	ActiveConstraints []ConstraintSet
}

// NewEmptySolution allocates zeroed arrays of the right length for a problem
// of horizon T, with an empty ConstraintSet at every step.
func NewEmptySolution(t int) Solution {
	active := make([]ConstraintSet, t)
	for i := range active {
		active[i] = ConstraintSet{}
	}
	return Solution{
		PVSet:             make([]float64, t),
		BattCh:            make([]float64, t),
		BattDis:           make([]float64, t),
		GridImp:           make([]float64, t),
		GridExp:           make([]float64, t),
		Curtail:           make([]float64, t),
		SOC:               make([]float64, t+1),
		ActiveConstraints: active,
	}
}
