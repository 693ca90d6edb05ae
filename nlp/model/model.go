// Package model holds the parameter vector together with the lexicon and the
// feature sets that give its keys meaning.
package model

import (
	. "spf/alg/featurevector"
	"spf/nlp/ccg"
)

// Model is shared across training items. It is not synchronized: parses read
// it concurrently, the learner writes it only between parses.
type Model struct {
	theta   Sparse
	lexicon *ccg.Lexicon
	sets    []FeatureSet
	frozen  map[Key]bool
}

func NewModel(lexicon *ccg.Lexicon, sets ...FeatureSet) *Model {
	if lexicon == nil {
		lexicon = ccg.NewLexicon()
	}
	m := &Model{
		theta:   NewSparse(),
		lexicon: lexicon,
		sets:    sets,
		frozen:  make(map[Key]bool),
	}
	for _, entry := range lexicon.Entries() {
		m.initWeights(entry)
	}
	return m
}

// Theta is the live parameter vector, not a copy
func (m *Model) Theta() Sparse {
	return m.theta
}

func (m *Model) Lexicon() *ccg.Lexicon {
	return m.lexicon
}

func (m *Model) FeatureSets() []FeatureSet {
	return m.sets
}

func (m *Model) initWeights(entry *ccg.LexicalEntry) {
	for _, set := range m.sets {
		if init, ok := set.(Initializer); ok {
			init.InitialWeights(entry, m.theta)
		}
	}
}

// AddLexEntry adds entry and its linked entries, reporting whether entry
// itself was new
func (m *Model) AddLexEntry(entry *ccg.LexicalEntry) bool {
	added := m.add(entry)
	for _, linked := range entry.Linked {
		m.add(linked)
	}
	return added
}

// AddLexEntries returns the number of entries, linked ones included, that were new
func (m *Model) AddLexEntries(entries []*ccg.LexicalEntry) int {
	var added int
	for _, entry := range entries {
		if m.add(entry) {
			added++
		}
		for _, linked := range entry.Linked {
			if m.add(linked) {
				added++
			}
		}
	}
	return added
}

func (m *Model) add(entry *ccg.LexicalEntry) bool {
	if !m.lexicon.Add(entry) {
		return false
	}
	m.initWeights(entry)
	return true
}

// Freeze excludes key from updates
func (m *Model) Freeze(key Key) {
	m.frozen[key] = true
}

// IsValidWeightVector reports whether every key of update is owned by one of
// the model's feature sets and none is frozen
func (m *Model) IsValidWeightVector(update Sparse) bool {
	for feature := range update {
		key, ok := feature.(Key)
		if !ok || m.frozen[key] || !m.owned(key) {
			return false
		}
	}
	return true
}

func (m *Model) owned(key Key) bool {
	for _, set := range m.sets {
		if set.Owns(key) {
			return true
		}
	}
	return false
}

// CreateDataItemModel returns a scoring view over the live parameters
func (m *Model) CreateDataItemModel() *DataItemModel {
	return &DataItemModel{m}
}

// DataItemModel scores lexical entries and rule applications for a single parse
type DataItemModel struct {
	model *Model
}

func (d *DataItemModel) Lexicon() ccg.Lookup {
	return d.model.lexicon
}

func (d *DataItemModel) LexicalFeatures(entry *ccg.LexicalEntry) Sparse {
	features := NewSparse()
	for _, set := range d.model.sets {
		set.LexicalFeatures(entry, features)
	}
	return features
}

func (d *DataItemModel) RuleFeatures(rule ccg.Rule) Sparse {
	features := NewSparse()
	for _, set := range d.model.sets {
		set.RuleFeatures(rule, features)
	}
	return features
}

func (d *DataItemModel) Score(features Sparse) float64 {
	return d.model.theta.DotProduct(features)
}

func (d *DataItemModel) Theta() Sparse {
	return d.model.theta
}
