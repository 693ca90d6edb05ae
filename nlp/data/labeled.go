package data

import (
	"io"
	"strings"

	"spf/nlp/ccg"
	"spf/nlp/lambda"
	"spf/util/conf"

	"github.com/pkg/errors"
)

// Generator proposes lexical entries for a sentence given its logical form
type Generator interface {
	Generate(tokens []string, label lambda.Term) []*ccg.LexicalEntry
}

// LabeledItem is a sentence paired with its gold logical form
type LabeledItem struct {
	sentence      Sentence
	label         lambda.Term
	Generator     Generator
	QualityWeight float64
}

var _ DataItem[lambda.Term] = &LabeledItem{}

func NewLabeledItem(sentence Sentence, label lambda.Term, generator Generator) *LabeledItem {
	return &LabeledItem{sentence, label, generator, 1.0}
}

func (l *LabeledItem) Sentence() Sentence {
	return l.sentence
}

func (l *LabeledItem) Label() (lambda.Term, bool) {
	return l.label, l.label != nil
}

// CalculateLoss is exact match
func (l *LabeledItem) CalculateLoss(result lambda.Term) float64 {
	if l.label != nil && l.label.Equal(result) {
		return 0.0
	}
	return 1.0
}

func (l *LabeledItem) GenerateEntries() []*ccg.LexicalEntry {
	if l.Generator == nil {
		return nil
	}
	return l.Generator.Generate(l.sentence.Tokens, l.label)
}

func (l *LabeledItem) Quality() float64 {
	return l.QualityWeight
}

func (l *LabeledItem) String() string {
	if l.label == nil {
		return l.sentence.String()
	}
	return l.sentence.String() + "\n" + l.label.String()
}

// TermValidator accepts logical forms equal to the gold label
func TermValidator() LabeledValidator[lambda.Term] {
	return LabeledValidator[lambda.Term]{Equal: func(a, b lambda.Term) bool {
		return a.Equal(b)
	}}
}

// ReadCorpus reads blank line separated pairs of a sentence line and a
// logical form line
func ReadCorpus(reader io.Reader, generator Generator) (Items[lambda.Term], error) {
	blocks, err := conf.Blocks(reader)
	if err != nil {
		return nil, errors.Wrap(err, "ReadCorpus")
	}
	items := make(Items[lambda.Term], 0, len(blocks))
	for i, block := range blocks {
		if len(block) != 2 {
			return nil, errors.Errorf("ReadCorpus: item %d has %d lines, expected 2", i, len(block))
		}
		sentence, err := NewSentence(block[0])
		if err != nil {
			return nil, errors.Wrapf(err, "ReadCorpus: item %d", i)
		}
		label, err := lambda.Parse(block[1])
		if err != nil {
			return nil, errors.Wrapf(err, "ReadCorpus: item %d", i)
		}
		items = append(items, NewLabeledItem(sentence, label, generator))
	}
	return items, nil
}

// ReadSentences reads one sentence per line
func ReadSentences(reader io.Reader) ([]Sentence, error) {
	c, err := conf.Read(reader)
	if err != nil {
		return nil, errors.Wrap(err, "ReadSentences")
	}
	sentences := make([]Sentence, 0, len(c.Values))
	for _, line := range c.Values {
		sentence, err := NewSentence(strings.TrimSpace(line))
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, sentence)
	}
	return sentences, nil
}
