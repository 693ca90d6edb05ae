// Package learn trains the parameters and lexicon of a model from a
// collection of data items, one item at a time.
package learn

import (
	"fmt"
	"log"
	"math"
	"time"

	. "spf/alg/featurevector"
	"spf/nlp/ccg"
	"spf/nlp/data"
	"spf/nlp/lambda"
	"spf/nlp/model"
	"spf/nlp/parser/chart"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidUpdate is returned for updates touching keys the model does not own
	ErrInvalidUpdate = errors.New("learn: invalid update")
	// ErrBadUpdate is returned for updates with non-finite values
	ErrBadUpdate = errors.New("learn: bad update")
)

var LearnAllOut bool = false

// Strategy computes and applies the update for a single item
type Strategy[R any] interface {
	Name() string
	// Reset is called when training starts
	Reset()
	Process(l *Learner[R], m *model.Model, item data.DataItem[R], stats *ItemStats) error
}

type Learner[R any] struct {
	Config
	Parser    *chart.Parser
	Strategy  Strategy[R]
	Validator data.Validator[R]
	// SecondaryPruning breaks ties during pruning, nil disables it
	SecondaryPruning data.ScoreFunction[R]
	// Result reads the result of a parse from its category
	Result  func(*ccg.Category) R
	Updater UpdateStrategy
	Sink    Sink
	Debug   bool
}

// SemanticsResult reads the logical form of a category
func SemanticsResult(c *ccg.Category) lambda.Term {
	return c.Semantics
}

// NewLearner returns a learner over logical forms for the strategy named
// in config
func NewLearner(config Config, parser *chart.Parser) (*Learner[lambda.Term], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	l := &Learner[lambda.Term]{
		Config:    config,
		Parser:    parser,
		Validator: data.TermValidator(),
		Result:    SemanticsResult,
	}
	switch config.Strategy {
	case StrategyPerceptron:
		l.Strategy = &LossSensitivePerceptron[lambda.Term]{}
	case StrategyStocGrad:
		l.Strategy = &ValidationStocGrad[lambda.Term]{}
	}
	if config.Averaged {
		l.Updater = &AveragedStrategy{}
	}
	return l, nil
}

// Train runs Iterations passes over collection in its order, updating m in
// place. It stops at the first fatal update error.
func (l *Learner[R]) Train(m *model.Model, collection data.Collection[R]) error {
	if l.Updater == nil {
		l.Updater = &TrivialStrategy{}
	}
	l.Strategy.Reset()
	l.Updater.Init(m.Theta(), l.Iterations)
	prevPrefix := log.Prefix()
	defer log.SetPrefix(prevPrefix)
	for i := 0; i < l.Iterations; i++ {
		logPrefix := "IT #" + fmt.Sprintf("%v ", i) + prevPrefix
		log.SetPrefix(logPrefix)
		epoch := &EpochStats{Epoch: i}
		epochStart := time.Now()
		for j, item := range collection.Items() {
			stats := &ItemStats{Epoch: i, Item: j}
			start := time.Now()
			if item.Sentence().Len() > l.MaxSentenceLength {
				stats.Skipped = TooLong
			} else {
				log.SetPrefix(logPrefix + fmt.Sprintf("sent %v ", j))
				err := l.Strategy.Process(l, m, item, stats)
				log.SetPrefix(logPrefix)
				if err != nil {
					return errors.Wrapf(err, "%s: epoch %d item %d", l.Strategy.Name(), i, j)
				}
				l.Updater.Update(m.Theta())
			}
			stats.Duration = time.Since(start)
			if l.Debug {
				log.Println(stats)
			}
			epoch.Add(stats)
			if l.Sink != nil {
				l.Sink.Item(stats)
			}
		}
		epoch.Duration = time.Since(epochStart)
		if l.Sink != nil {
			l.Sink.Epoch(epoch)
		}
	}
	replace(m.Theta(), l.Updater.Finalize(m.Theta()))
	return nil
}

// replace overwrites the contents of theta with final
func replace(theta, final Sparse) {
	for key := range theta {
		if _, exists := final[key]; !exists {
			delete(theta, key)
		}
	}
	for key, val := range final {
		theta[key] = val
	}
}

func (l *Learner[R]) filter(item data.DataItem[R], validator data.Validator[R]) chart.Filter {
	return func(p *chart.Parse) bool {
		return validator.IsValid(item, l.Result(p.Category()))
	}
}

// options builds the parse options. The secondary score only breaks ties in
// lexicon generation parses.
func (l *Learner[R]) options(beam int, extra ccg.Lookup, secondary bool) []chart.Option {
	var opts []chart.Option
	if beam > 0 {
		opts = append(opts, chart.WithBeamSize(beam))
	}
	if extra != nil {
		opts = append(opts, chart.WithLexicon(extra))
	}
	if secondary && l.SecondaryPruning != nil {
		opts = append(opts, chart.WithSecondaryScore(func(c *ccg.Category) float64 {
			return l.SecondaryPruning.Score(l.Result(c))
		}))
	}
	return opts
}

// parse runs the model parse of item, recording its time
func (l *Learner[R]) parse(dim *model.DataItemModel, item data.DataItem[R], stats *ItemStats) *chart.Output {
	output := l.Parser.Parse(item.Sentence().Tokens, dim, l.options(0, nil, false)...)
	stats.ParseTime = output.ParsingTime()
	return output
}

// generateLexicon parses item with the entries it generates and adds to the
// model the lexical entries of its best valid parses
func (l *Learner[R]) generateLexicon(m *model.Model, dim *model.DataItemModel, item data.DataItem[R], stats *ItemStats) {
	generated := item.GenerateEntries()
	if len(generated) == 0 {
		return
	}
	output := l.Parser.Parse(item.Sentence().Tokens, dim,
		l.options(l.LexiconGenerationBeamSize, ccg.NewLexicon(generated...), true)...)
	_, labeled := item.Label()
	var (
		selected []*chart.Parse
		minLoss  = math.Inf(1)
		maxScore = math.Inf(-1)
	)
	for _, p := range output.AllParses() {
		result := l.Result(p.Category())
		loss := item.CalculateLoss(result)
		var valid bool
		if labeled {
			valid = loss == 0
		} else {
			valid = l.Validator.IsValid(item, result)
		}
		if !valid {
			continue
		}
		switch {
		case loss < minLoss, loss == minLoss && p.Score() > maxScore:
			selected = []*chart.Parse{p}
			minLoss, maxScore = loss, p.Score()
		case loss == minLoss && p.Score() == maxScore:
			selected = append(selected, p)
		}
	}
	for _, p := range selected {
		added := m.AddLexEntries(p.MaxLexicalEntries())
		stats.NewLexicalEntries += added
		if LearnAllOut && added > 0 {
			log.Println("Lexicon +", added, "from", p)
		}
	}
}

// matchesLabel reports whether the item has a gold label and the single
// best parse of output is correct
func (l *Learner[R]) matchesLabel(item data.DataItem[R], output *chart.Output) bool {
	best := output.BestParses()
	if _, labeled := item.Label(); !labeled || len(best) != 1 {
		return false
	}
	return item.CalculateLoss(l.Result(best[0].Category())) == 0
}

// apply checks update and adds it into the model parameters times scale.
// Thresholding is left to the caller. logNorm is the log norm of the parses
// the update was computed from, logged with a bad update. It reports whether
// a non-empty update was applied.
func (l *Learner[R]) apply(m *model.Model, update Sparse, scale, logNorm float64) (bool, error) {
	if !m.IsValidWeightVector(update) {
		log.Println("Invalid update:", update)
		return false, errors.Wrapf(ErrInvalidUpdate, "%d keys", update.Len())
	}
	if update.Len() == 0 {
		return false, nil
	}
	scaled := update.Copy().UpdateScalarMultiply(scale)
	theta := m.Theta()
	if scaled.IsBad() || theta.FeatureWeights(keys(scaled)).Add(scaled).IsBad() {
		log.Println("Bad update:", scaled)
		log.Println("Log norm:", logNorm, "update L1:", scaled.L1Norm())
		log.Println("Parameters:", theta.PrintValues(scaled))
		return false, errors.Wrapf(ErrBadUpdate, "%d keys", scaled.Len())
	}
	if l.LargeUpdate > 0 && !scaled.ValuesInRange(-l.LargeUpdate, l.LargeUpdate) {
		log.Println("Large update:", scaled)
	}
	scaled.AddTimesInto(1.0, theta)
	return true, nil
}

func keys(v Sparse) []Feature {
	retval := make([]Feature, 0, len(v))
	for key := range v {
		retval = append(retval, key)
	}
	return retval
}
