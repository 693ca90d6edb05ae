package chart

import (
	"fmt"
	"math"
	"sort"
	"time"

	. "spf/alg/featurevector"
	"spf/nlp/ccg"
	"spf/nlp/lambda"

	"gonum.org/v1/gonum/floats"
)

// Parse is a complete derivation of the input, packing all trees that share
// its category
type Parse struct {
	entry *Entry
}

func (p *Parse) Category() *ccg.Category {
	return p.entry.Category
}

func (p *Parse) Semantics() lambda.Term {
	return p.entry.Category.Semantics
}

// Score is the viterbi score
func (p *Parse) Score() float64 {
	return p.entry.score
}

// LogInsideScore marginalizes over every tree of the parse's category
func (p *Parse) LogInsideScore() float64 {
	return p.entry.logInside
}

// MaxFeatures returns the features of the best trees, averaged over ties
func (p *Parse) MaxFeatures() Sparse {
	return p.entry.maxFeatures.Copy()
}

// MaxLexicalEntries returns the lexical entries at the leaves of the best trees
func (p *Parse) MaxLexicalEntries() []*ccg.LexicalEntry {
	retval := make([]*ccg.LexicalEntry, len(p.entry.maxLexical))
	copy(retval, p.entry.maxLexical)
	return retval
}

func (p *Parse) Span() (int, int) {
	return p.entry.Start, p.entry.End
}

func (p *Parse) String() string {
	return fmt.Sprintf("%v [%.4f]", p.entry.Category, p.entry.score)
}

// Filter selects complete parses, nil selects all
type Filter func(*Parse) bool

type Output struct {
	parses []*Parse
	time   time.Duration
}

// AllParses returns the complete parses, best first
func (o *Output) AllParses() []*Parse {
	retval := make([]*Parse, len(o.parses))
	copy(retval, o.parses)
	sort.SliceStable(retval, func(i, j int) bool {
		return better(retval[i].entry, retval[j].entry)
	})
	return retval
}

// BestParses returns every complete parse with the maximal score
func (o *Output) BestParses() []*Parse {
	var best []*Parse
	for _, p := range o.AllParses() {
		if len(best) > 0 && p.Score() < best[0].Score() {
			break
		}
		best = append(best, p)
	}
	return best
}

func (o *Output) ParsingTime() time.Duration {
	return o.time
}

func (o *Output) filter(filter Filter) []*Parse {
	if filter == nil {
		return o.parses
	}
	var retval []*Parse
	for _, p := range o.parses {
		if filter(p) {
			retval = append(retval, p)
		}
	}
	return retval
}

// LogNorm is the log of Norm, -Inf when no parse passes filter
func (o *Output) LogNorm(filter Filter) float64 {
	parses := o.filter(filter)
	if len(parses) == 0 {
		return math.Inf(-1)
	}
	insides := make([]float64, len(parses))
	for i, p := range parses {
		insides[i] = p.entry.logInside
	}
	return floats.LogSumExp(insides)
}

// Norm is the total unnormalized mass of the parses passing filter, exactly
// 0.0 when none does
func (o *Output) Norm(filter Filter) float64 {
	parses := o.filter(filter)
	if len(parses) == 0 {
		return 0.0
	}
	return math.Exp(o.LogNorm(filter))
}

// ExpectedFeatures returns the feature expectation over every tree of the
// parses passing filter, weighted by exp(score) and not normalized. Divide
// by Norm with the same filter to get the expectation.
func (o *Output) ExpectedFeatures(filter Filter) Sparse {
	return o.expected(o.filter(filter), 0.0)
}

// Expectation is ExpectedFeatures divided by Norm, computed in log space so
// it stays finite when the norm itself overflows. Empty when no parse passes
// filter.
func (o *Output) Expectation(filter Filter) Sparse {
	parses := o.filter(filter)
	if len(parses) == 0 {
		return NewSparse()
	}
	return o.expected(parses, o.LogNorm(filter))
}

// expected runs the outside pass from parses, whose outside score starts at
// -logScale
func (o *Output) expected(parses []*Parse, logScale float64) Sparse {
	expected := NewSparse()
	if len(parses) == 0 {
		return expected
	}

	order := topological(parses)
	outside := make(map[*Entry]float64, len(order))
	for _, p := range parses {
		outside[p.entry] = -logScale
	}
	// parents before children
	for i := len(order) - 1; i >= 0; i-- {
		entry := order[i]
		out, reached := outside[entry]
		if !reached || math.IsInf(out, -1) {
			continue
		}
		for _, step := range entry.Steps {
			weight := out + step.logInside
			if math.IsInf(weight, -1) {
				continue
			}
			step.Local.AddTimesInto(math.Exp(weight), expected)
			for _, child := range step.Children {
				childOut := weight - child.logInside
				if prev, exists := outside[child]; exists {
					outside[child] = floats.LogSumExp([]float64{prev, childOut})
				} else {
					outside[child] = childOut
				}
			}
		}
	}
	return expected
}

// topological lists the entries reachable from parses, children first
func topological(parses []*Parse) []*Entry {
	var (
		order   []*Entry
		visited = make(map[*Entry]bool)
		visit   func(*Entry)
	)
	visit = func(e *Entry) {
		if visited[e] {
			return
		}
		visited[e] = true
		for _, step := range e.Steps {
			for _, child := range step.Children {
				visit(child)
			}
		}
		order = append(order, e)
	}
	for _, p := range parses {
		visit(p.entry)
	}
	return order
}
