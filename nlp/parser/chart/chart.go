// Package chart implements a CKY parser for combinatory categorial grammars.
// Each span cell packs all derivations of a category into one Entry so
// marginals and expectations are computed over the forest, not per tree.
package chart

import (
	"log"
	"runtime"
	"time"

	. "spf/alg/featurevector"
	"spf/nlp/ccg"

	"golang.org/x/sync/errgroup"
)

const DefaultBeamSize = 50

var AllOut bool = false

// Scorer provides the lexicon and the features and weights of a model
type Scorer interface {
	Lexicon() ccg.Lookup
	LexicalFeatures(entry *ccg.LexicalEntry) Sparse
	RuleFeatures(rule ccg.Rule) Sparse
	Score(features Sparse) float64
}

type Parser struct {
	Rules *ccg.RuleSet
	// BeamSize caps the entries of a cell, non-positive means no cap
	BeamSize int
	// PruneMargin drops cell entries scoring this much below the cell's best
	PruneMargin float64
	// Goal accepts categories of complete parses, nil accepts all
	Goal       func(*ccg.Category) bool
	Concurrent bool
	// Workers bounds concurrent cell fills, non-positive means GOMAXPROCS
	Workers int
}

func NewParser(rules *ccg.RuleSet) *Parser {
	return &Parser{Rules: rules, BeamSize: DefaultBeamSize, Concurrent: true}
}

type options struct {
	extra     ccg.Lookup
	beamSize  int
	secondary func(*ccg.Category) float64
}

type Option func(*options)

// WithLexicon adds entries generated for this parse only
func WithLexicon(extra ccg.Lookup) Option {
	return func(o *options) { o.extra = extra }
}

func WithBeamSize(size int) Option {
	return func(o *options) { o.beamSize = size }
}

// WithSecondaryScore breaks ties between equally scored cell entries
func WithSecondaryScore(score func(*ccg.Category) float64) Option {
	return func(o *options) { o.secondary = score }
}

type ruleScore struct {
	features Sparse
	score    float64
}

type parse struct {
	*Parser
	tokens  []string
	scorer  Scorer
	lexicon ccg.Lookup
	opts    options
	rules   map[string]ruleScore
	cells   [][]*cell
}

// Parse fills the chart for tokens and returns the complete parses. The
// scorer's parameters must not change while Parse runs.
func (p *Parser) Parse(tokens []string, scorer Scorer, opts ...Option) *Output {
	start := time.Now()
	state := &parse{
		Parser: p,
		tokens: tokens,
		scorer: scorer,
		opts:   options{beamSize: p.BeamSize},
	}
	for _, opt := range opts {
		opt(&state.opts)
	}
	state.lexicon = ccg.Lexicons{scorer.Lexicon(), state.opts.extra}
	state.scoreRules()

	n := len(tokens)
	state.cells = make([][]*cell, n+1)
	for i := range state.cells {
		state.cells[i] = make([]*cell, n+1)
	}
	for length := 1; length <= n; length++ {
		state.fillLength(length)
	}

	output := &Output{}
	if n > 0 {
		for _, entry := range state.cells[0][n].entries {
			if p.Goal == nil || p.Goal(entry.Category) {
				output.parses = append(output.parses, &Parse{entry})
			}
		}
	}
	output.time = time.Since(start)
	if AllOut {
		log.Println("Parsed", n, "tokens into", len(output.parses), "parses in", output.time)
	}
	return output
}

func (s *parse) scoreRules() {
	s.rules = make(map[string]ruleScore)
	add := func(rule ccg.Rule) {
		features := s.scorer.RuleFeatures(rule)
		s.rules[rule.Name()] = ruleScore{features, s.scorer.Score(features)}
	}
	for _, rule := range s.Rules.Binary {
		add(rule)
	}
	for _, rule := range s.Rules.Unary {
		add(rule)
	}
}

// fillLength fills every cell of the given span length. Cells of one length
// only read shorter cells, so they are filled concurrently.
func (s *parse) fillLength(length int) {
	n := len(s.tokens)
	if !s.Concurrent {
		for start := 0; start+length <= n; start++ {
			s.cells[start][start+length] = s.fill(start, start+length)
		}
		return
	}
	var group errgroup.Group
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	group.SetLimit(workers)
	for start := 0; start+length <= n; start++ {
		start := start
		group.Go(func() error {
			s.cells[start][start+length] = s.fill(start, start+length)
			return nil
		})
	}
	group.Wait()
}

func (s *parse) fill(start, end int) *cell {
	c := newCell(start, end)

	for _, entry := range s.lexicon.Get(s.tokens[start:end]) {
		features := s.scorer.LexicalFeatures(entry)
		c.add(entry.Category, &Step{
			Kind:       Lexical,
			Entry:      entry,
			Local:      features,
			LocalScore: s.scorer.Score(features),
		})
	}

	for split := start + 1; split < end; split++ {
		left, right := s.cells[start][split], s.cells[split][end]
		for _, l := range left.entries {
			for _, r := range right.entries {
				for _, rule := range s.Rules.Binary {
					scored := s.rules[rule.Name()]
					for _, category := range rule.Apply(l.Category, r.Category) {
						c.add(category, &Step{
							Kind:       Binary,
							Rule:       rule,
							Children:   []*Entry{l, r},
							Local:      scored.features,
							LocalScore: scored.score,
						})
					}
				}
			}
		}
	}

	s.unary(c)
	c.finalize()
	if s.opts.secondary != nil {
		for _, entry := range c.entries {
			entry.secondary = s.opts.secondary(entry.Category)
		}
	}
	c.prune(s.opts.beamSize, s.PruneMargin)
	if AllOut {
		log.Printf("Cell [%d,%d] kept %d entries", start, end, len(c.entries))
	}
	return c
}

// unary makes a single pass of unary rules over the cell. Entries that feed
// a unary step never receive one, so unary steps do not chain.
func (s *parse) unary(c *cell) {
	type shift struct {
		child    *Entry
		rule     ccg.UnaryRule
		category *ccg.Category
	}
	var (
		shifts   []shift
		children = make(map[*Entry]bool)
	)
	for _, entry := range c.entries {
		for _, rule := range s.Rules.Unary {
			if category, ok := rule.Apply(entry.Category); ok {
				shifts = append(shifts, shift{entry, rule, category})
				children[entry] = true
			}
		}
	}
	for _, sh := range shifts {
		if target, exists := c.byKey[sh.category.Key()]; exists && children[target] {
			continue
		}
		scored := s.rules[sh.rule.Name()]
		c.add(sh.category, &Step{
			Kind:       Unary,
			Rule:       sh.rule,
			Children:   []*Entry{sh.child},
			Local:      scored.features,
			LocalScore: scored.score,
		})
	}
}
