package eval

import (
	"log"

	"spf/nlp/ccg"
	"spf/nlp/data"
	"spf/nlp/model"
	"spf/nlp/parser/chart"
)

// Tester parses each item with a trained model and scores its single best
// parse against the validator
type Tester[R any] struct {
	Parser    *chart.Parser
	Validator data.Validator[R]
	Result    func(*ccg.Category) R
	Log       bool
}

// Test evaluates items in order. progress, if not nil, is called after each item.
func (t *Tester[R]) Test(m *model.Model, items data.Collection[R], progress func()) *Total {
	total := &Total{KeepErrors: true}
	for i, item := range items.Items() {
		outcome, got := t.test(m, item)
		var itemErr *ItemError
		if outcome != Correct {
			itemErr = &ItemError{Item: i, Sentence: item.Sentence().String(), Outcome: outcome, Got: got}
			if t.Log {
				log.Println(itemErr)
			}
		}
		total.Add(outcome, itemErr)
		if progress != nil {
			progress()
		}
	}
	return total
}

func (t *Tester[R]) test(m *model.Model, item data.DataItem[R]) (Outcome, string) {
	output := t.Parser.Parse(item.Sentence().Tokens, m.CreateDataItemModel())
	best := output.BestParses()
	switch {
	case len(best) == 0:
		return NoParse, ""
	case len(best) > 1:
		return Ambiguous, best[0].String()
	case t.Validator.IsValid(item, t.Result(best[0].Category())):
		return Correct, ""
	default:
		return Wrong, best[0].String()
	}
}
