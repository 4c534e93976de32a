package evaluate

import (
	"fmt"
	"math"
	"sort"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
)

// ReferenceTable maps a problem size to its known optimal metric value.
// It is never mutated after construction.
type ReferenceTable map[int64]float64

// Lookup matches a key value against the table. Non-integral numbers and
// strings never match.
func (r ReferenceTable) Lookup(v schema.Value) (float64, bool) {
	if !v.Type.Numeric() {
		return 0, false
	}
	n := v.Int()
	if float64(n) != v.Num {
		return 0, false
	}
	ref, ok := r[n]
	return ref, ok
}

// Keys returns the problem sizes in ascending order.
func (r ReferenceTable) Keys() []int64 {
	keys := make([]int64, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (r ReferenceTable) Validate() error {
	for k, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("reference value for %d must be a finite number, got %v", k, v)
		}
		if v < 0 {
			return fmt.Errorf("reference value for %d must not be negative, got %v", k, v)
		}
	}
	return nil
}
