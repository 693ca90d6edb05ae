package eval

import "fmt"

func Precision(truePositives, testPositives int) float64 {
	if testPositives == 0 {
		return 0.0
	}
	return float64(truePositives) / float64(testPositives)
}

func Recall(truePositives, conditionPositives int) float64 {
	if conditionPositives == 0 {
		return 0.0
	}
	return float64(truePositives) / float64(conditionPositives)
}

func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0.0
	}
	return 2.0 * (precision * recall) / (precision + recall)
}

type Error interface {
	String() string
	Class() string
}

type Errors []Error

func (ers Errors) ByType() map[string]int {
	retval := make(map[string]int)
	for _, e := range ers {
		retval[e.Class()] += 1
	}
	return retval
}

// Outcome of parsing a single item
type Outcome int

const (
	Correct Outcome = iota
	Wrong
	// Ambiguous items have more than one best parse and count as unanswered
	Ambiguous
	NoParse
)

var outcomeNames = [...]string{"correct", "wrong", "ambiguous", "no parse"}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// ItemError describes an item that was not parsed correctly
type ItemError struct {
	Item     int
	Sentence string
	Outcome  Outcome
	Got      string
}

var _ Error = &ItemError{}

func (e *ItemError) Class() string {
	return e.Outcome.String()
}

func (e *ItemError) String() string {
	if len(e.Got) > 0 {
		return fmt.Sprintf("%d %s: %s (%s)", e.Item, e.Class(), e.Sentence, e.Got)
	}
	return fmt.Sprintf("%d %s: %s", e.Item, e.Class(), e.Sentence)
}

// Total accumulates exact match outcomes. Precision is measured over the
// items that received an answer, recall over all items.
type Total struct {
	Counts     [len(outcomeNames)]int
	Population int
	Errors     Errors
	// KeepErrors retains an ItemError per incorrect item
	KeepErrors bool
}

func (t *Total) Add(outcome Outcome, err *ItemError) {
	t.Counts[outcome]++
	t.Population++
	if t.KeepErrors && outcome != Correct && err != nil {
		t.Errors = append(t.Errors, err)
	}
}

func (t *Total) Correct() int {
	return t.Counts[Correct]
}

func (t *Total) Answered() int {
	return t.Counts[Correct] + t.Counts[Wrong]
}

func (t *Total) Skipped() int {
	return t.Counts[Ambiguous] + t.Counts[NoParse]
}

func (t *Total) Precision() float64 {
	return Precision(t.Correct(), t.Answered())
}

func (t *Total) Recall() float64 {
	return Recall(t.Correct(), t.Population)
}

func (t *Total) F1() float64 {
	return F1(t.Precision(), t.Recall())
}

func (t *Total) ExactMatch() float64 {
	return t.Recall()
}

func (t *Total) String() string {
	return fmt.Sprintf("Total %d correct %d wrong %d ambiguous %d no parse %d\nPrecision %.4f Recall %.4f F1 %.4f",
		t.Population, t.Counts[Correct], t.Counts[Wrong], t.Counts[Ambiguous], t.Counts[NoParse],
		t.Precision(), t.Recall(), t.F1())
}
