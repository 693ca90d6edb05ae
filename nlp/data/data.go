// Package data defines the training items the learner consumes and the
// validators and scoring functions that judge parse results.
package data

import (
	"strings"

	"spf/nlp/ccg"

	"github.com/jdkato/prose/v2"
	"github.com/pkg/errors"
)

type Sentence struct {
	Tokens []string
}

func (s Sentence) String() string {
	return strings.Join(s.Tokens, " ")
}

func (s Sentence) Len() int {
	return len(s.Tokens)
}

// Tokenize splits raw text into word tokens
func Tokenize(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, errors.Wrap(err, "Tokenize")
	}
	tokens := doc.Tokens()
	retval := make([]string, 0, len(tokens))
	for _, token := range tokens {
		retval = append(retval, token.Text)
	}
	return retval, nil
}

func NewSentence(text string) (Sentence, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return Sentence{}, err
	}
	return Sentence{tokens}, nil
}

// DataItem is a training example whose parses yield results of type R
type DataItem[R any] interface {
	Sentence() Sentence
	// Label is the gold result when one is known, used for debugging
	Label() (R, bool)
	// CalculateLoss is non-negative and zero iff result is correct
	CalculateLoss(result R) float64
	GenerateEntries() []*ccg.LexicalEntry
	// Quality scales updates computed from this item
	Quality() float64
}

type Collection[R any] interface {
	Len() int
	Items() []DataItem[R]
}

// Items is a Collection iterated in slice order
type Items[R any] []DataItem[R]

func (items Items[R]) Len() int {
	return len(items)
}

func (items Items[R]) Items() []DataItem[R] {
	return items
}

type Validator[R any] interface {
	IsValid(item DataItem[R], result R) bool
}

type ValidatorFunc[R any] func(item DataItem[R], result R) bool

func (f ValidatorFunc[R]) IsValid(item DataItem[R], result R) bool {
	return f(item, result)
}

// LabeledValidator accepts results equal to the item's gold label
type LabeledValidator[R any] struct {
	Equal func(a, b R) bool
}

func (v LabeledValidator[R]) IsValid(item DataItem[R], result R) bool {
	label, ok := item.Label()
	return ok && v.Equal(label, result)
}

type AcceptAll[R any] struct{}

func (AcceptAll[R]) IsValid(DataItem[R], R) bool {
	return true
}

// ScoreFunction ranks results when parse scores tie
type ScoreFunction[R any] interface {
	Score(result R) float64
}

type ConstantScore[R any] float64

func (c ConstantScore[R]) Score(R) float64 {
	return float64(c)
}
