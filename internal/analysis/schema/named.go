package schema

import "fmt"

const (
	NameExact  = "exact"
	NameTabu   = "tabu"
	NameGA     = "ga"
	NameCustom = "custom"
)

// Exact is the layout written by the brute-force and branch-and-bound solvers.
var Exact = MustNew(NameExact, []Column{
	{Name: "algorithm", Type: String},
	{Name: "city_size", Type: Int},
	{Name: "time", Type: Float},
})

// Tabu extends the exact layout with the best path cost found.
var Tabu = MustNew(NameTabu, []Column{
	{Name: "algorithm", Type: String},
	{Name: "city_size", Type: Int},
	{Name: "time", Type: Float},
	{Name: "best_path", Type: Float},
})

// GA is the genetic algorithm layout, one row per parameterised trial.
// Rate columns are percentages on a 0-100 scale.
var GA = MustNew(NameGA, []Column{
	{Name: "algoName", Type: String},
	{Name: "problemSize", Type: Int},
	{Name: "time", Type: Float},
	{Name: "bestCost", Type: Float},
	{Name: "populationSize", Type: Int},
	{Name: "mutationRate", Type: Float},
	{Name: "randomRate", Type: Float},
	{Name: "crossoverRate", Type: Float},
	{Name: "mutationType", Type: String},
	{Name: "iterationNum", Type: Int},
	{Name: "crossingSegmentSizeRate", Type: Float},
	{Name: "mutationSegmentSizeRate", Type: Float},
	{Name: "randomRateNewGen", Type: Float},
})

var named = map[string]*Schema{
	NameExact: Exact,
	NameTabu:  Tabu,
	NameGA:    GA,
}

// Lookup resolves a schema by name. The custom schema is built from columns.
func Lookup(name string, columns []Column) (*Schema, error) {
	if name == NameCustom || (name == "" && len(columns) > 0) {
		return New(NameCustom, columns)
	}
	s, ok := named[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	if len(columns) > 0 {
		return nil, fmt.Errorf("schema %q is predefined, columns must be empty", name)
	}
	return s, nil
}
