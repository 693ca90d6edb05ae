package featurevector

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// SmallEntry is the default magnitude under which entries are dropped
const SmallEntry = 1e-6

type Feature interface{}

// Sparse maps features to real weights. Missing keys weigh zero.
// Methods prefixed with Update mutate the receiver, all others return a new vector.
type Sparse map[Feature]float64

func NewSparse() Sparse {
	return make(Sparse)
}

func (v Sparse) Copy() Sparse {
	copied := make(Sparse, len(v))
	for k, val := range v {
		copied[k] = val
	}
	return copied
}

func (v Sparse) Len() int {
	return len(v)
}

func (v Sparse) Add(other Sparse) Sparse {
	return v.AddTimes(1.0, other)
}

func (v Sparse) Subtract(other Sparse) Sparse {
	return v.AddTimes(-1.0, other)
}

// AddTimes returns v + scale*other
func (v Sparse) AddTimes(scale float64, other Sparse) Sparse {
	retvec := v.Copy()
	other.AddTimesInto(scale, retvec)
	return retvec
}

// AddTimesInto adds scale*v into target in place
func (v Sparse) AddTimesInto(scale float64, target Sparse) {
	var val float64
	for key, myVal := range v {
		// target[key] == 0 if target[key] does not exist
		val = target[key] + scale*myVal
		if val != 0.0 {
			target[key] = val
		} else {
			delete(target, key)
		}
	}
}

func (v Sparse) UpdateAdd(other Sparse) Sparse {
	other.AddTimesInto(1.0, v)
	return v
}

func (v Sparse) UpdateSubtract(other Sparse) Sparse {
	other.AddTimesInto(-1.0, v)
	return v
}

func (v Sparse) UpdateScalarDivide(byValue float64) Sparse {
	if byValue == 0.0 {
		panic("Divide by 0")
	}
	for i, val := range v {
		v[i] = val / byValue
	}
	return v
}

func (v Sparse) UpdateScalarMultiply(byValue float64) Sparse {
	if byValue == 0.0 {
		for i := range v {
			delete(v, i)
		}
		return v
	}
	for i, val := range v {
		v[i] = val * byValue
	}
	return v
}

// DropSmallEntries removes every entry with magnitude below eps
func (v Sparse) DropSmallEntries(eps float64) Sparse {
	for key, val := range v {
		if math.Abs(val) < eps {
			delete(v, key)
		}
	}
	return v
}

func (v Sparse) DotProduct(other Sparse) float64 {
	vec1, vec2 := v, other
	if len(vec2) > len(vec1) {
		vec1, vec2 = vec2, vec1
	}
	var result float64
	for i, val := range vec2 {
		// vec1[i] == 0 if vec1[i] does not exist
		result += vec1[i] * val
	}
	return result
}

func (v Sparse) DotProductFeatures(f []Feature) float64 {
	var result float64
	for _, val := range f {
		result += v[val]
	}
	return result
}

// IsBad reports whether any entry is NaN or infinite
func (v Sparse) IsBad() bool {
	for _, val := range v {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return true
		}
	}
	return false
}

// ValuesInRange reports whether every entry lies in [lo, hi]
func (v Sparse) ValuesInRange(lo, hi float64) bool {
	for _, val := range v {
		if val < lo || val > hi {
			return false
		}
	}
	return true
}

func (v Sparse) FeatureWeights(f []Feature) Sparse {
	retval := make(Sparse, len(f))
	for _, val := range f {
		retval[val] = v[val]
	}
	return retval
}

// PrintValues renders the weights v holds for the keys of other
func (v Sparse) PrintValues(other Sparse) string {
	keys := make([]Feature, 0, len(other))
	for key := range other {
		keys = append(keys, key)
	}
	return v.FeatureWeights(keys).String()
}

func (v Sparse) L1Norm() float64 {
	var result float64
	for _, val := range v {
		result += math.Abs(val)
	}
	return result
}

func (v Sparse) String() string {
	strs := make([]string, 0, len(v))
	for feat, val := range v {
		strs = append(strs, fmt.Sprintf("%v %v", feat, val))
	}
	sort.Strings(strs)
	return strings.Join(strs, "\n")
}
