package aggregate

import (
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/tsp-results/internal/analysis/schema"
)

// GroupKey is the tuple of key column values identifying one configuration.
type GroupKey []schema.Value

// Hash is a canonical encoding: numbers by value, strings verbatim. An int 48
// read from one file and a float 48 read from another hash the same.
func (k GroupKey) Hash() string {
	var b strings.Builder
	for i, v := range k {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if v.Type.Numeric() {
			b.WriteString("n:")
			n := v.Num
			if n == 0 {
				n = 0 // -0 and 0 are the same key
			}
			b.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
		} else {
			b.WriteString("s:")
			b.WriteString(v.Str)
		}
	}
	return b.String()
}

// Compare orders keys lexicographically over the tuple.
func (k GroupKey) Compare(o GroupKey) int {
	for i := 0; i < len(k) && i < len(o); i++ {
		if c := k[i].Compare(o[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(o):
		return -1
	case len(k) > len(o):
		return 1
	default:
		return 0
	}
}

func (k GroupKey) Strings() []string {
	out := make([]string, len(k))
	for i, v := range k {
		out[i] = v.String()
	}
	return out
}

func (k GroupKey) String() string {
	return strings.Join(k.Strings(), "/")
}
