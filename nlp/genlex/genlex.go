// Package genlex proposes candidate lexical entries for a training sentence
// by pairing its n-grams with templates over the constants of its logical form.
package genlex

import (
	"spf/nlp/ccg"
	"spf/nlp/data"
	"spf/nlp/lambda"

	"github.com/kljensen/snowball/english"
)

const DefaultMaxTokens = 2

// Template builds a category for a constant, returning nil when the
// constant's type does not fit
type Template struct {
	Name   string
	Syntax ccg.Syntax
	Build  func(c *lambda.Constant) lambda.Term
}

func (t *Template) Apply(c *lambda.Constant) *ccg.Category {
	sem := t.Build(c)
	if sem == nil {
		return nil
	}
	return ccg.NewCategory(t.Syntax, sem)
}

func typed(typ lambda.Type, build func(c *lambda.Constant) lambda.Term) func(*lambda.Constant) lambda.Term {
	return func(c *lambda.Constant) lambda.Term {
		if !c.Type().Equal(typ) {
			return nil
		}
		return build(c)
	}
}

func identity(c *lambda.Constant) lambda.Term {
	return c
}

func modifier(c *lambda.Constant) lambda.Term {
	return lambda.TypeRaise(c)
}

var (
	property = lambda.Fn(lambda.E, lambda.T)
	relation = lambda.Fn(lambda.E, property)
)

// DefaultTemplates covers entities, properties, modifiers and binary relations
func DefaultTemplates() []*Template {
	sNP := ccg.NewComplex(ccg.S, ccg.Backward, ccg.NP)
	return []*Template{
		{"np", ccg.NP, typed(lambda.E, identity)},
		{"n", ccg.N, typed(property, identity)},
		{"ap", ccg.AP, typed(property, identity)},
		{"pp", ccg.PP, typed(property, identity)},
		{"iv", sNP, typed(property, identity)},
		{"adj", ccg.NewComplex(ccg.N, ccg.Forward, ccg.N), typed(property, modifier)},
		{"tv", ccg.NewComplex(sNP, ccg.Forward, ccg.NP), typed(relation, func(c *lambda.Constant) lambda.Term {
			// λx.λy.(c y x): the object is consumed first
			x, y := lambda.NewVariable(lambda.E), lambda.NewVariable(lambda.E)
			return lambda.NewLambda(x, lambda.NewLambda(y, lambda.Apply(lambda.Apply(c, y), x)))
		})},
	}
}

type Generator struct {
	MaxTokens int
	Templates []*Template
	// Stem links every entry to a variant over stemmed tokens
	Stem bool
}

var _ data.Generator = &Generator{}

func NewGenerator() *Generator {
	return &Generator{MaxTokens: DefaultMaxTokens, Templates: DefaultTemplates(), Stem: true}
}

// Generate pairs every n-gram of up to MaxTokens tokens with every template
// instance over the constants of label
func (g *Generator) Generate(tokens []string, label lambda.Term) []*ccg.LexicalEntry {
	var categories []*ccg.Category
	for _, c := range lambda.Constants(label) {
		for _, template := range g.Templates {
			if category := template.Apply(c); category != nil {
				categories = append(categories, category)
			}
		}
	}
	if len(categories) == 0 {
		return nil
	}
	var entries []*ccg.LexicalEntry
	seen := make(map[string]bool)
	for start := range tokens {
		for end := start + 1; end <= len(tokens) && end-start <= g.MaxTokens; end++ {
			for _, category := range categories {
				entry := g.entry(tokens[start:end], category)
				if !seen[entry.Key()] {
					seen[entry.Key()] = true
					entries = append(entries, entry)
				}
			}
		}
	}
	return entries
}

func (g *Generator) entry(tokens []string, category *ccg.Category) *ccg.LexicalEntry {
	if !g.Stem {
		return ccg.NewLexicalEntry(tokens, category, ccg.OriginGenerated)
	}
	stemmed := Stems(tokens)
	if ccg.TokensKey(stemmed) == ccg.TokensKey(tokens) {
		return ccg.NewLexicalEntry(tokens, category, ccg.OriginGenerated)
	}
	linked := ccg.NewLexicalEntry(stemmed, category, ccg.OriginGenerated)
	return ccg.NewLexicalEntry(tokens, category, ccg.OriginGenerated, linked)
}

// Stems returns the english snowball stem of every token
func Stems(tokens []string) []string {
	retval := make([]string, len(tokens))
	for i, token := range tokens {
		retval[i] = english.Stem(token, false)
	}
	return retval
}
