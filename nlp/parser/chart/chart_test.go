package chart

import (
	"math"
	"strings"
	"testing"

	. "spf/alg/featurevector"
	"spf/nlp/ccg"
	"spf/nlp/lambda"
	"spf/nlp/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bigNoun = "big :- N/N : (lambda $0:<e,t> (lambda $1:e (and ($0 $1) (big:<e,t> $1))))"

type fixture struct {
	t       *testing.T
	lex     *model.LexicalFeatureSet
	model   *model.Model
	entries map[string]*ccg.LexicalEntry
}

func newFixture(t *testing.T, lines ...string) *fixture {
	f := &fixture{t: t, lex: model.NewLexicalFeatureSet(), entries: make(map[string]*ccg.LexicalEntry)}
	lexicon := ccg.NewLexicon()
	for _, line := range lines {
		entry, err := ccg.ParseEntry(line, ccg.OriginFixed)
		require.NoError(t, err)
		lexicon.Add(entry)
		f.entries[line] = entry
	}
	f.model = model.NewModel(lexicon, f.lex, model.NewRuleFeatureSet())
	return f
}

func (f *fixture) key(line string) model.Key {
	return f.lex.Key(f.entries[line])
}

func ruleKey(name string) model.Key {
	return model.Key{Set: "RULE", Name: name}
}

func rules(t *testing.T, names ...string) *ccg.RuleSet {
	r, err := ccg.RuleSetByName(names)
	require.NoError(t, err)
	return r
}

func (f *fixture) parse(p *Parser, sentence string, opts ...Option) *Output {
	return p.Parse(strings.Fields(sentence), f.model.CreateDataItemModel(), opts...)
}

func TestMultiTokenEntry(t *testing.T) {
	f := newFixture(t, "the dog :- N : dog:<e,t>")
	output := f.parse(NewParser(rules(t, ">")), "the dog")
	parses := output.AllParses()
	require.Len(t, parses, 1)
	assert.Equal(t, "N", parses[0].Category().Syntax.String())
	assert.True(t, parses[0].Semantics().Equal(lambda.MustParse("dog:<e,t>")))
	start, end := parses[0].Span()
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)
	assert.True(t, output.ParsingTime() >= 0)
}

func TestFeatureDecomposition(t *testing.T) {
	dog := "dog :- N : dog:<e,t>"
	f := newFixture(t, bigNoun, dog)
	theta := f.model.Theta()
	theta[f.key(bigNoun)] = 0.5
	theta[f.key(dog)] = -0.25
	theta[ruleKey(">")] = 2.0

	parses := f.parse(NewParser(rules(t, ">", "<")), "big dog").AllParses()
	require.Len(t, parses, 1)
	expected := Sparse{
		f.key(bigNoun): 1.0,
		f.key(dog):     1.0,
		ruleKey(">"):   1.0,
	}
	assert.Equal(t, expected, parses[0].MaxFeatures())
	assert.InDelta(t, 2.25, parses[0].Score(), 1e-12)
	assert.InDelta(t, theta.DotProduct(parses[0].MaxFeatures()), parses[0].Score(), 1e-12)
	assert.Len(t, parses[0].MaxLexicalEntries(), 2)
	assert.Equal(t, "(lambda $0:e (and (dog:<e,t> $0) (big:<e,t> $0)))", parses[0].Semantics().String())

	// the returned vector is a copy
	parses[0].MaxFeatures()[f.key(dog)] = 10
	assert.Equal(t, 1.0, parses[0].MaxFeatures()[f.key(dog)])
}

func TestExpectations(t *testing.T) {
	dog, hound := "dog :- N : dog:<e,t>", "dog :- N : hound:<e,t>"
	f := newFixture(t, bigNoun, dog, hound)
	f.model.Theta()[f.key(dog)] = 1.0

	output := f.parse(NewParser(rules(t, ">")), "big dog")
	require.Len(t, output.AllParses(), 2)
	e := math.E

	norm := output.Norm(nil)
	assert.InDelta(t, e+1, norm, 1e-9)
	assert.InDelta(t, norm, output.Norm(func(*Parse) bool { return true }), 1e-12)
	assert.InDelta(t, math.Log(e+1), output.LogNorm(nil), 1e-9)

	expected := output.ExpectedFeatures(nil)
	assert.InDelta(t, e+1, expected[ruleKey(">")], 1e-9)
	assert.InDelta(t, e+1, expected[f.key(bigNoun)], 1e-9)
	assert.InDelta(t, e, expected[f.key(dog)], 1e-9)
	assert.InDelta(t, 1.0, expected[f.key(hound)], 1e-9)
	normalized := output.Expectation(nil)
	assert.InDelta(t, e/(e+1), normalized[f.key(dog)], 1e-9)
	assert.InDelta(t, 1.0, normalized[ruleKey(">")], 1e-9)

	isHound := func(p *Parse) bool { return strings.Contains(p.Semantics().String(), "hound") }
	assert.InDelta(t, 1.0, output.Norm(isHound), 1e-12)
	conditioned := output.ExpectedFeatures(isHound)
	assert.InDelta(t, 1.0, conditioned[f.key(hound)], 1e-12)
	_, hasDog := conditioned[f.key(dog)]
	assert.False(t, hasDog)

	best := output.BestParses()
	require.Len(t, best, 1)
	assert.Contains(t, best[0].Semantics().String(), "dog:<e,t>")
}

func TestExpectationLargeScores(t *testing.T) {
	dog, hound := "dog :- N : dog:<e,t>", "dog :- N : hound:<e,t>"
	f := newFixture(t, dog, hound)
	f.model.Theta()[f.key(dog)] = 720.0

	output := f.parse(NewParser(rules(t, ">")), "dog")
	require.Len(t, output.AllParses(), 2)
	assert.True(t, math.IsInf(output.Norm(nil), 1))
	assert.InDelta(t, 720.0, output.LogNorm(nil), 1e-9)

	expectation := output.Expectation(nil)
	assert.False(t, expectation.IsBad())
	assert.InDelta(t, 1.0, expectation[f.key(dog)], 1e-12)
	assert.InDelta(t, math.Exp(-720.0), expectation[f.key(hound)], 1e-300)

	isHound := func(p *Parse) bool { return strings.Contains(p.Semantics().String(), "hound") }
	assert.InDelta(t, 1.0, output.Expectation(isHound)[f.key(hound)], 1e-12)
	never := func(*Parse) bool { return false }
	assert.Empty(t, output.Expectation(never))
}

func TestZeroMass(t *testing.T) {
	f := newFixture(t, "dog :- N : dog:<e,t>")
	output := f.parse(NewParser(rules(t, ">")), "dog")
	never := func(*Parse) bool { return false }
	assert.Equal(t, 0.0, output.Norm(never))
	assert.True(t, math.IsInf(output.LogNorm(never), -1))
	assert.Empty(t, output.ExpectedFeatures(never))

	empty := f.parse(NewParser(rules(t, ">")), "cat")
	assert.Empty(t, empty.AllParses())
	assert.Empty(t, empty.BestParses())
	assert.Equal(t, 0.0, empty.Norm(nil))

	none := f.parse(NewParser(rules(t, ">")), "")
	assert.Empty(t, none.AllParses())
}

func TestTiesAndBeam(t *testing.T) {
	dog, hound := "dog :- N : dog:<e,t>", "dog :- N : hound:<e,t>"
	f := newFixture(t, bigNoun, dog, hound)
	parser := NewParser(rules(t, ">"))

	best := f.parse(parser, "big dog").BestParses()
	assert.Len(t, best, 2)

	parser.BeamSize = 1
	parses := f.parse(parser, "big dog").AllParses()
	require.Len(t, parses, 1)
	// equal scores fall back to the category key
	assert.Contains(t, parses[0].Semantics().String(), "dog:<e,t>")

	preferHound := func(c *ccg.Category) float64 {
		if strings.Contains(c.Semantics.String(), "hound") {
			return 1.0
		}
		return 0.0
	}
	parses = f.parse(parser, "big dog", WithSecondaryScore(preferHound)).AllParses()
	require.Len(t, parses, 1)
	assert.Contains(t, parses[0].Semantics().String(), "hound:<e,t>")

	parses = f.parse(parser, "big dog", WithBeamSize(0)).AllParses()
	assert.Len(t, parses, 2)
}

func TestPruneMargin(t *testing.T) {
	dog, hound := "dog :- N : dog:<e,t>", "dog :- N : hound:<e,t>"
	f := newFixture(t, bigNoun, dog, hound)
	f.model.Theta()[f.key(dog)] = 3.0
	parser := NewParser(rules(t, ">"))
	parser.PruneMargin = 1.0
	parses := f.parse(parser, "big dog").AllParses()
	require.Len(t, parses, 1)
	assert.Contains(t, parses[0].Semantics().String(), "dog:<e,t>")
}

func entries(t *testing.T, scores map[string]float64) []*Entry {
	var retval []*Entry
	for sem, score := range scores {
		retval = append(retval, &Entry{Category: ccg.MustParseCategory("N : " + sem), score: score})
	}
	return retval
}

func keys(es []*Entry) []string {
	retval := make([]string, len(es))
	for i, e := range es {
		retval[i] = e.Category.Key()
	}
	return retval
}

func TestPruneIdempotent(t *testing.T) {
	es := entries(t, map[string]float64{
		"a:<e,t>": 1.0, "b:<e,t>": 3.0, "c:<e,t>": 3.0, "d:<e,t>": -2.0, "e:<e,t>": 0.5, "f:<e,t>": math.Inf(-1),
	})
	once := Prune(es, 3, 0)
	assert.Equal(t, []string{"N : b:<e,t>", "N : c:<e,t>", "N : a:<e,t>"}, keys(once))
	assert.Equal(t, keys(once), keys(Prune(once, 3, 0)))

	margin := Prune(es, 0, 2.6)
	assert.Equal(t, []string{"N : b:<e,t>", "N : c:<e,t>", "N : a:<e,t>", "N : e:<e,t>"}, keys(margin))
	assert.Equal(t, keys(margin), keys(Prune(margin, 0, 2.6)))
	assert.Len(t, Prune(es, 0, 0), 5)
}

func TestUnaryShifting(t *testing.T) {
	near := "near rex :- PP : (lambda $0:e (near:<e,<e,t>> $0 rex:e))"
	f := newFixture(t, "dog :- N : dog:<e,t>", near)
	parses := f.parse(NewParser(rules(t, "<", "shift_pp")), "dog near rex").AllParses()
	require.Len(t, parses, 1)
	assert.Equal(t, "N : (lambda $0:e (and (dog:<e,t> $0) (near:<e,<e,t>> $0 rex:e)))", parses[0].Category().String())
	assert.Equal(t, 1.0, parses[0].MaxFeatures()[ruleKey("shift_pp")])
	assert.Equal(t, 1.0, parses[0].MaxFeatures()[ruleKey("<")])

	f.model.Theta()[ruleKey("shift_pp")] = 0.5
	output := f.parse(NewParser(rules(t, "<", "shift_pp")), "dog near rex")
	assert.InDelta(t, math.Exp(0.5), output.Norm(nil), 1e-9)
	assert.InDelta(t, math.Exp(0.5), output.ExpectedFeatures(nil)[ruleKey("shift_pp")], 1e-9)
}

func TestGoal(t *testing.T) {
	f := newFixture(t, "dog :- N : dog:<e,t>")
	parser := NewParser(rules(t, ">"))
	parser.Goal = func(c *ccg.Category) bool { return c.Syntax.Equal(ccg.S) }
	assert.Empty(t, f.parse(parser, "dog").AllParses())
}

func TestGeneratedLexicon(t *testing.T) {
	f := newFixture(t, "dog :- N : dog:<e,t>")
	big, err := ccg.ParseEntry(bigNoun, ccg.OriginGenerated)
	require.NoError(t, err)
	parser := NewParser(rules(t, ">"))
	assert.Empty(t, f.parse(parser, "big dog").AllParses())
	parses := f.parse(parser, "big dog", WithLexicon(ccg.NewLexicon(big))).AllParses()
	require.Len(t, parses, 1)
	assert.Len(t, parses[0].MaxLexicalEntries(), 2)
	assert.Equal(t, 1, f.model.Lexicon().Size())
}

func TestConcurrentMatchesSequential(t *testing.T) {
	f := newFixture(t, bigNoun, "dog :- N : dog:<e,t>", "dog :- N : hound:<e,t>",
		"the :- NP/N : (lambda $0:<e,t> (the:<<e,t>,e> $0))", "runs :- S\\NP : run:<e,t>")
	f.model.Theta()[ruleKey(">")] = 0.3
	sequential := NewParser(ccg.DefaultRuleSet())
	sequential.Concurrent = false
	concurrent := NewParser(ccg.DefaultRuleSet())
	concurrent.Workers = 4

	a := f.parse(sequential, "the big dog runs")
	b := f.parse(concurrent, "the big dog runs")
	require.Len(t, a.AllParses(), 2)
	require.Equal(t, len(a.AllParses()), len(b.AllParses()))
	for i, p := range a.AllParses() {
		assert.Equal(t, p.Category().String(), b.AllParses()[i].Category().String())
		assert.Equal(t, p.Score(), b.AllParses()[i].Score())
	}
	assert.InDelta(t, a.Norm(nil), b.Norm(nil), 1e-12)
}
