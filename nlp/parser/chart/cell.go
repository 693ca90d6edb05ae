package chart

import (
	"container/heap"
	"fmt"
	"math"

	. "spf/alg/featurevector"
	"spf/nlp/ccg"

	"gonum.org/v1/gonum/floats"
)

type StepKind byte

const (
	Lexical StepKind = iota
	Binary
	Unary
)

func (k StepKind) String() string {
	switch k {
	case Lexical:
		return "lex"
	case Binary:
		return "binary"
	default:
		return "unary"
	}
}

// Step is one way of deriving an entry: a lexical entry, or a rule over child entries
type Step struct {
	Kind     StepKind
	Entry    *ccg.LexicalEntry
	Rule     ccg.Rule
	Children []*Entry
	// Local is the feature contribution of this step alone
	Local      Sparse
	LocalScore float64

	score, logInside float64
}

// Score is the viterbi score of the best derivation through this step
func (s *Step) Score() float64 {
	return s.score
}

func (s *Step) LogInside() float64 {
	return s.logInside
}

func (s *Step) compute() {
	s.score, s.logInside = s.LocalScore, s.LocalScore
	for _, child := range s.Children {
		s.score += child.score
		s.logInside += child.logInside
	}
}

// Entry packs every derivation of one category over one span
type Entry struct {
	Category   *ccg.Category
	Start, End int
	Steps      []*Step

	score, logInside, secondary float64
	maxSteps                    []*Step
	maxFeatures                 Sparse
	maxLexical                  []*ccg.LexicalEntry
	hasUnary                    bool
}

func (e *Entry) Score() float64 {
	return e.score
}

func (e *Entry) LogInside() float64 {
	return e.logInside
}

func (e *Entry) String() string {
	return fmt.Sprintf("[%d,%d] %v (%.4f)", e.Start, e.End, e.Category, e.score)
}

// finalize computes the entry's scores from its steps. Children must be final.
func (e *Entry) finalize() {
	insides := make([]float64, len(e.Steps))
	e.score = math.Inf(-1)
	for i, step := range e.Steps {
		step.compute()
		insides[i] = step.logInside
		if step.score > e.score {
			e.score = step.score
		}
	}
	e.logInside = floats.LogSumExp(insides)
	e.maxSteps = e.maxSteps[:0]
	for _, step := range e.Steps {
		if step.score == e.score {
			e.maxSteps = append(e.maxSteps, step)
		}
	}

	// average-max features over the tied best steps
	e.maxFeatures = NewSparse()
	seen := make(map[string]bool)
	for _, step := range e.maxSteps {
		step.Local.AddTimesInto(1.0, e.maxFeatures)
		if step.Entry != nil && !seen[step.Entry.Key()] {
			seen[step.Entry.Key()] = true
			e.maxLexical = append(e.maxLexical, step.Entry)
		}
		for _, child := range step.Children {
			child.maxFeatures.AddTimesInto(1.0, e.maxFeatures)
			for _, lex := range child.maxLexical {
				if !seen[lex.Key()] {
					seen[lex.Key()] = true
					e.maxLexical = append(e.maxLexical, lex)
				}
			}
		}
	}
	if len(e.maxSteps) > 1 {
		e.maxFeatures.UpdateScalarDivide(float64(len(e.maxSteps)))
	}
}

type cell struct {
	start, end int
	entries    []*Entry
	byKey      map[string]*Entry
}

func newCell(start, end int) *cell {
	return &cell{start: start, end: end, byKey: make(map[string]*Entry)}
}

func (c *cell) add(category *ccg.Category, step *Step) *Entry {
	key := category.Key()
	entry, exists := c.byKey[key]
	if !exists {
		entry = &Entry{Category: category, Start: c.start, End: c.end}
		c.byKey[key] = entry
		c.entries = append(c.entries, entry)
	}
	entry.Steps = append(entry.Steps, step)
	if step.Kind == Unary {
		entry.hasUnary = true
	}
	return entry
}

// finalize scores entries derived without unary steps first, since only
// those can be the children of unary steps
func (c *cell) finalize() {
	for _, entry := range c.entries {
		if !entry.hasUnary {
			entry.finalize()
		}
	}
	for _, entry := range c.entries {
		if entry.hasUnary {
			entry.finalize()
		}
	}
}

func (c *cell) prune(beamSize int, margin float64) {
	c.entries = Prune(c.entries, beamSize, margin)
	c.byKey = make(map[string]*Entry, len(c.entries))
	for _, entry := range c.entries {
		c.byKey[entry.Category.Key()] = entry
	}
}

// better orders entries by score, then secondary score, then category key
func better(a, b *Entry) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.secondary != b.secondary {
		return a.secondary > b.secondary
	}
	return a.Category.Key() < b.Category.Key()
}

// agenda is a bounded min-heap whose root is the worst kept entry
type agenda struct {
	size    int
	entries []*Entry
}

func (a *agenda) Len() int           { return len(a.entries) }
func (a *agenda) Less(i, j int) bool { return better(a.entries[j], a.entries[i]) }
func (a *agenda) Swap(i, j int)      { a.entries[i], a.entries[j] = a.entries[j], a.entries[i] }

func (a *agenda) Push(x interface{}) {
	a.entries = append(a.entries, x.(*Entry))
}

func (a *agenda) Pop() interface{} {
	n := len(a.entries)
	x := a.entries[n-1]
	a.entries = a.entries[:n-1]
	return x
}

func (a *agenda) add(e *Entry) {
	if a.size <= 0 || len(a.entries) < a.size {
		heap.Push(a, e)
		return
	}
	if !better(e, a.entries[0]) {
		return
	}
	a.entries[0] = e
	heap.Fix(a, 0)
}

// best drains the agenda, best entry first
func (a *agenda) best() []*Entry {
	retval := make([]*Entry, len(a.entries))
	for i := len(retval) - 1; i >= 0; i-- {
		retval[i] = heap.Pop(a).(*Entry)
	}
	return retval
}

// Prune keeps the beamSize best entries, then drops those scoring more than
// margin below the best one. Non-positive values disable either cap.
// Entries scoring -Inf are always dropped.
func Prune(entries []*Entry, beamSize int, margin float64) []*Entry {
	a := &agenda{size: beamSize, entries: make([]*Entry, 0, len(entries))}
	for _, entry := range entries {
		if !math.IsInf(entry.score, -1) {
			a.add(entry)
		}
	}
	kept := a.best()
	if margin > 0 && len(kept) > 0 {
		threshold := kept[0].score - margin
		for i, entry := range kept {
			if entry.score < threshold {
				kept = kept[:i]
				break
			}
		}
	}
	return kept
}
