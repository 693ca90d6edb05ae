package genlex

import (
	"testing"

	"spf/nlp/ccg"
	"spf/nlp/lambda"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	dog := lambda.NewConstant("dog", lambda.Fn(lambda.E, lambda.T))
	var built []string
	for _, template := range DefaultTemplates() {
		if category := template.Apply(dog); category != nil {
			built = append(built, category.String())
		}
	}
	assert.Contains(t, built, "N : dog:<e,t>")
	assert.Contains(t, built, "N/N : (lambda $0:<e,t> (lambda $1:e (and ($0 $1) (dog:<e,t> $1))))")
	assert.NotContains(t, built, "NP : dog:<e,t>")

	chase := lambda.NewConstant("chase", lambda.Fn(lambda.E, lambda.Fn(lambda.E, lambda.T)))
	var tv *ccg.Category
	for _, template := range DefaultTemplates() {
		if category := template.Apply(chase); category != nil {
			tv = category
		}
	}
	require.NotNil(t, tv)
	assert.Equal(t, "S\\NP/NP : (lambda $0:e (lambda $1:e (chase:<e,<e,t>> $1 $0)))", tv.String())
}

func TestGenerate(t *testing.T) {
	g := NewGenerator()
	label := lambda.MustParse("(lambda $0:e (and (dog:<e,t> $0) (big:<e,t> $0)))")
	entries := g.Generate([]string{"big", "dogs"}, label)

	// 3 n-grams, 2 constants with 5 property templates each
	assert.Len(t, entries, 30)
	var found *ccg.LexicalEntry
	for _, entry := range entries {
		if entry.String() == "dogs :- N : dog:<e,t>" {
			found = entry
		}
		assert.Equal(t, ccg.OriginGenerated, entry.Origin)
	}
	require.NotNil(t, found)
	require.Len(t, found.Linked, 1)
	assert.Equal(t, "dog :- N : dog:<e,t>", found.Linked[0].String())

	assert.Empty(t, g.Generate([]string{"big"}, lambda.MustParse("(big:<e,t> rex:e)"))[0].Linked)
	assert.Nil(t, g.Generate([]string{"x"}, lambda.MustParse("(lambda $0:t $0)")))
}

func TestStems(t *testing.T) {
	assert.Equal(t, []string{"run", "dog"}, Stems([]string{"running", "dogs"}))
}
