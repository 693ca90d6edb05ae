package learn

import (
	"log"
	"math"

	. "spf/alg/featurevector"
	"spf/nlp/data"
	"spf/nlp/model"
)

// ValidationStocGrad follows the gradient of the log likelihood of the
// parses the validator accepts, with learning rate Alpha0 / (1 + C*n) where
// n counts the updates computed since training started
type ValidationStocGrad[R any] struct {
	n int
}

var _ Strategy[int] = &ValidationStocGrad[int]{}

func (s *ValidationStocGrad[R]) Name() string {
	return StrategyStocGrad
}

func (s *ValidationStocGrad[R]) Reset() {
	s.n = 0
}

// Updates is the number of updates computed so far
func (s *ValidationStocGrad[R]) Updates() int {
	return s.n
}

func (s *ValidationStocGrad[R]) Process(l *Learner[R], m *model.Model, item data.DataItem[R], stats *ItemStats) error {
	dim := m.CreateDataItemModel()
	if l.LexiconLearning {
		l.generateLexicon(m, dim, item, stats)
	}

	output := l.parse(dim, item, stats)
	if len(output.AllParses()) == 0 {
		stats.Skipped = NoParse
		return nil
	}
	stats.GoldOptimal = l.matchesLabel(item, output)

	filter := l.filter(item, l.Validator)
	if math.IsInf(output.LogNorm(filter), -1) {
		if l.Debug {
			log.Println("No valid parses for", item.Sentence())
		}
		return nil
	}
	stats.HasValidParse = true

	update := NewSparse()
	positive := output.Expectation(filter)
	positive.DropSmallEntries(l.SmallEntry)
	update.UpdateAdd(positive)

	negative := output.Expectation(nil)
	negative.DropSmallEntries(l.SmallEntry)
	update.UpdateSubtract(negative)

	rate := l.Alpha0 / (1.0 + l.C*float64(s.n))
	s.n++
	update.UpdateScalarMultiply(rate)
	update.DropSmallEntries(l.SmallEntry)
	applied, err := l.apply(m, update, 1.0, output.LogNorm(nil))
	if err != nil {
		return err
	}
	stats.TriggeredUpdate = applied
	return nil
}
