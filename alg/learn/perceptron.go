package learn

import (
	"log"

	. "spf/alg/featurevector"
	"spf/nlp/data"
	"spf/nlp/model"
	"spf/nlp/parser/chart"
)

// LossSensitivePerceptron updates towards the lowest loss parses that the
// model fails to separate by a loss scaled margin from the others
type LossSensitivePerceptron[R any] struct{}

var _ Strategy[int] = &LossSensitivePerceptron[int]{}

func (p *LossSensitivePerceptron[R]) Name() string {
	return StrategyPerceptron
}

func (p *LossSensitivePerceptron[R]) Reset() {}

type scored struct {
	parse    *chart.Parse
	features Sparse
	loss     float64
}

func (p *LossSensitivePerceptron[R]) Process(l *Learner[R], m *model.Model, item data.DataItem[R], stats *ItemStats) error {
	dim := m.CreateDataItemModel()
	if l.LexiconLearning {
		l.generateLexicon(m, dim, item, stats)
	}

	output := l.parse(dim, item, stats)
	stats.GoldOptimal = l.matchesLabel(item, output)
	parses := output.AllParses()
	if len(parses) == 0 {
		stats.Skipped = NoParse
		if l.Debug {
			log.Println("No parses for", item.Sentence())
		}
		return nil
	}

	losses := make([]scored, len(parses))
	for i, parse := range parses {
		losses[i] = scored{parse, parse.MaxFeatures(), item.CalculateLoss(l.Result(parse.Category()))}
	}
	optimal, nonOptimal := partition(losses)
	if len(optimal) > 0 {
		stats.HasValidParse = true
	}
	if len(optimal) == 0 || len(nonOptimal) == 0 {
		return nil
	}

	violOpt, violNonOpt := violations(m.Theta(), optimal, nonOptimal, l.Margin)
	if len(violOpt) == 0 {
		return nil
	}

	update := marginUpdate(violOpt, violNonOpt)
	update.DropSmallEntries(l.SmallEntry)
	applied, err := l.apply(m, update, item.Quality(), output.LogNorm(nil))
	if err != nil {
		return err
	}
	stats.TriggeredUpdate = applied
	return nil
}

// partition splits parses into those of minimal loss and the rest, keeping
// their relative order
func partition(parses []scored) (optimal, nonOptimal []scored) {
	for _, s := range parses {
		switch {
		case len(optimal) == 0 || s.loss < optimal[0].loss:
			nonOptimal = append(nonOptimal, optimal...)
			optimal = []scored{s}
		case s.loss == optimal[0].loss:
			optimal = append(optimal, s)
		default:
			nonOptimal = append(nonOptimal, s)
		}
	}
	return
}

// violations returns the optimal and non-optimal parses that take part in
// at least one pair whose score difference is below margin times their
// loss difference. Each parse is reported once.
func violations(theta Sparse, optimal, nonOptimal []scored, margin float64) (violOpt, violNonOpt []scored) {
	optFlags := make([]bool, len(optimal))
	nonOptFlags := make([]bool, len(nonOptimal))
	optLoss := optimal[0].loss
	for i, opt := range optimal {
		for j, nonOpt := range nonOptimal {
			if optFlags[i] && nonOptFlags[j] {
				continue
			}
			delta := opt.features.Subtract(nonOpt.features)
			deltaScore := delta.DotProduct(theta)
			threshold := margin * (nonOpt.loss - optLoss)
			if !optFlags[i] && deltaScore < threshold {
				violOpt = append(violOpt, opt)
				optFlags[i] = true
			}
			if !nonOptFlags[j] && deltaScore < threshold {
				violNonOpt = append(violNonOpt, nonOpt)
				nonOptFlags[j] = true
			}
		}
	}
	return
}

// marginUpdate moves towards the mean features of violOpt and away from the
// mean features of violNonOpt
func marginUpdate(violOpt, violNonOpt []scored) Sparse {
	update := NewSparse()
	for _, s := range violOpt {
		s.features.AddTimesInto(1.0/float64(len(violOpt)), update)
	}
	for _, s := range violNonOpt {
		s.features.AddTimesInto(-1.0/float64(len(violNonOpt)), update)
	}
	return update
}
