package ccg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSyntax(t *testing.T) {
	cases := map[string]string{
		"S":             "S",
		"S\\NP":         "S\\NP",
		"(S\\NP)/NP":    "S\\NP/NP",
		"S/(S\\NP)":     "S/(S\\NP)",
		" ( N / N ) ":   "N/N",
		"(S\\S)/(S\\S)": "S\\S/(S\\S)",
	}
	for input, expected := range cases {
		syn, err := ParseSyntax(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, syn.String(), input)
		again, err := ParseSyntax(syn.String())
		require.NoError(t, err)
		assert.True(t, syn.Equal(again), input)
	}
	for _, input := range []string{"", "S/", "(S", "S)", "/NP", "S N"} {
		_, err := ParseSyntax(input)
		assert.Error(t, err, input)
	}
}

func TestSyntaxEqual(t *testing.T) {
	assert.True(t, NP.Equal(&Atomic{"NP"}))
	assert.False(t, NP.Equal(N))
	assert.False(t, NewComplex(S, Forward, NP).Equal(NewComplex(S, Backward, NP)))
}

func TestCategory(t *testing.T) {
	c, err := ParseCategory("N : dog:<e,t>")
	require.NoError(t, err)
	assert.Equal(t, "N : dog:<e,t>", c.String())
	assert.True(t, c.Equal(MustParseCategory("N:dog:<e,t>")))
	assert.False(t, c.Equal(MustParseCategory("N : cat:<e,t>")))

	_, err = ParseCategory("S/NP : rex:e")
	assert.Error(t, err, "complex syntax needs function semantics")
	_, err = ParseCategory("N dog:<e,t>")
	assert.Error(t, err)
}

func TestParseEntry(t *testing.T) {
	entry, err := ParseEntry("the dog :- N : dog:<e,t>", OriginFixed)
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "dog"}, entry.Tokens)
	assert.Equal(t, "the dog :- N : dog:<e,t>", entry.String())
	assert.Equal(t, OriginFixed, entry.Origin)

	_, err = ParseEntry(":- N : dog:<e,t>", OriginFixed)
	assert.Error(t, err)
	_, err = ParseEntry("dog N : dog:<e,t>", OriginFixed)
	assert.Error(t, err)
}

func TestLexiconAdd(t *testing.T) {
	lexicon := NewLexicon()
	entry, err := ParseEntry("dog :- N : dog:<e,t>", OriginFixed)
	require.NoError(t, err)
	again, err := ParseEntry("dog :- N : dog:<e,t>", OriginLearned)
	require.NoError(t, err)

	assert.True(t, lexicon.Add(entry))
	assert.Equal(t, 1, lexicon.Size())
	assert.False(t, lexicon.Add(again))
	assert.Equal(t, 1, lexicon.Size())
	assert.True(t, lexicon.Contains(again))

	found := lexicon.Get([]string{"dog"})
	require.Len(t, found, 1)
	assert.Same(t, entry, found[0])
	assert.Empty(t, lexicon.Get([]string{"cat"}))
}

const lexiconText = `# nouns
dog :- N : dog:<e,t>
the dog :- N : dog:<e,t>

big :- AP : big:<e,t>
`

func TestReadLexicon(t *testing.T) {
	lexicon, err := ReadLexicon(strings.NewReader(lexiconText), OriginFixed)
	require.NoError(t, err)
	assert.Equal(t, 3, lexicon.Size())
	entries := lexicon.Entries()
	assert.Equal(t, "dog :- N : dog:<e,t>", entries[0].String())
	assert.Equal(t, "big :- AP : big:<e,t>", entries[2].String())

	b := &strings.Builder{}
	require.NoError(t, lexicon.Write(b))
	reread, err := ReadLexicon(strings.NewReader(b.String()), OriginFixed)
	require.NoError(t, err)
	assert.Equal(t, lexicon.Size(), reread.Size())

	_, err = ReadLexicon(strings.NewReader("dog :- N :"), OriginFixed)
	assert.Error(t, err)
}

func TestLexiconsUnion(t *testing.T) {
	dog, _ := ParseEntry("dog :- N : dog:<e,t>", OriginFixed)
	hound, _ := ParseEntry("dog :- N : hound:<e,t>", OriginGenerated)
	union := Lexicons{NewLexicon(dog), NewLexicon(dog, hound)}
	assert.Len(t, union.Get([]string{"dog"}), 2)
	assert.Empty(t, union.Get([]string{"cat"}))
}

func apply(t *testing.T, rule BinaryRule, left, right string) []*Category {
	return rule.Apply(MustParseCategory(left), MustParseCategory(right))
}

func TestApplication(t *testing.T) {
	result := apply(t, ForwardApplication{}, "N/N : (lambda $0:<e,t> $0)", "N : dog:<e,t>")
	require.Len(t, result, 1)
	assert.Equal(t, "N : dog:<e,t>", result[0].String())

	result = apply(t, BackwardApplication{}, "NP : rex:e", "S\\NP : walk:<e,t>")
	require.Len(t, result, 1)
	assert.Equal(t, "S : (walk:<e,t> rex:e)", result[0].String())

	assert.Empty(t, apply(t, ForwardApplication{}, "S\\NP : walk:<e,t>", "NP : rex:e"), "wrong direction")
	assert.Empty(t, apply(t, BackwardApplication{}, "N : dog:<e,t>", "S\\NP : walk:<e,t>"), "wrong argument")
	assert.Empty(t, apply(t, ForwardApplication{}, "S/NP : walk:<e,t>", "NP : (lambda $0:e (dog:<e,t> $0))"), "type mismatch")
}

func TestComposition(t *testing.T) {
	result := apply(t, ForwardComposition{}, "S/S : (lambda $0:t (not $0))", "S/NP : walk:<e,t>")
	require.Len(t, result, 1)
	assert.Equal(t, "S/NP : (lambda $0:e (not (walk:<e,t> $0)))", result[0].String())

	result = apply(t, BackwardComposition{}, "S\\NP : walk:<e,t>", "S\\S : (lambda $0:t (not $0))")
	require.Len(t, result, 1)
	assert.Equal(t, "S\\NP : (lambda $0:e (not (walk:<e,t> $0)))", result[0].String())

	assert.Empty(t, apply(t, ForwardComposition{}, "S/S : (lambda $0:t (not $0))", "S\\NP : walk:<e,t>"))
}

func TestShifting(t *testing.T) {
	shifted, ok := AdverbialShifting().Apply(MustParseCategory("AP : big:<e,t>"))
	require.True(t, ok)
	assert.Equal(t, "S\\S", shifted.Syntax.String())
	assert.Equal(t, "<<e,t>,<e,t>>", shifted.Semantics.Type().String())

	shifted, ok = PrepositionShifting().Apply(MustParseCategory("PP : (lambda $0:e (near:<e,<e,t>> $0 rex:e))"))
	require.True(t, ok)
	assert.Equal(t, "N\\N : (lambda $0:<e,t> (lambda $1:e (and ($0 $1) (near:<e,<e,t>> $1 rex:e))))", shifted.String())

	_, ok = PrepositionShifting().Apply(MustParseCategory("AP : big:<e,t>"))
	assert.False(t, ok)
	_, ok = AdverbialShifting().Apply(MustParseCategory("AP : fast:e"))
	assert.False(t, ok)
}

func TestTypeRaising(t *testing.T) {
	raised, ok := NPTypeRaising().Apply(MustParseCategory("NP : rex:e"))
	require.True(t, ok)
	assert.Equal(t, "S/(S\\NP) : (lambda $0:<e,t> ($0 rex:e))", raised.String())
	result := ForwardApplication{}.Apply(raised, MustParseCategory("S\\NP : walk:<e,t>"))
	require.Len(t, result, 1)
	assert.Equal(t, "S : (walk:<e,t> rex:e)", result[0].String())
}

func TestRuleSetByName(t *testing.T) {
	rules, err := RuleSetByName([]string{">", "shift_pp", ">"})
	require.NoError(t, err)
	assert.Len(t, rules.Binary, 1)
	assert.Len(t, rules.Unary, 1)
	assert.Equal(t, "> shift_pp", rules.String())

	_, err = RuleSetByName([]string{"bogus"})
	assert.Error(t, err)

	defaults := DefaultRuleSet()
	assert.Len(t, defaults.Binary, 4)
	assert.Len(t, defaults.Unary, 2)
}
