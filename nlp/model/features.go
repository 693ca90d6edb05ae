package model

import (
	"encoding/gob"
	"fmt"

	. "spf/alg/featurevector"
	"spf/nlp/ccg"
)

func init() {
	gob.Register(Key{})
}

// Key is the identity of a model feature: the feature set owning it and a
// name unique within the set
type Key struct {
	Set, Name string
}

func (k Key) String() string {
	return fmt.Sprintf("%s#%s", k.Set, k.Name)
}

// FeatureSet contributes features for lexical entries and rule applications
type FeatureSet interface {
	Name() string
	LexicalFeatures(entry *ccg.LexicalEntry, into Sparse)
	RuleFeatures(rule ccg.Rule, into Sparse)
	Owns(key Key) bool
}

// Initializer is implemented by feature sets that assign an initial weight
// to the features of a newly admitted lexical entry
type Initializer interface {
	InitialWeights(entry *ccg.LexicalEntry, theta Sparse)
}

// LexicalFeatureSet has one indicator feature per lexical entry
type LexicalFeatureSet struct {
	SetName string
	Scale   float64
	// Initial weighs a new entry, nil leaves it at zero
	Initial func(entry *ccg.LexicalEntry) float64
}

var (
	_ FeatureSet  = &LexicalFeatureSet{}
	_ Initializer = &LexicalFeatureSet{}
)

func NewLexicalFeatureSet() *LexicalFeatureSet {
	return &LexicalFeatureSet{SetName: "LEX", Scale: 1.0}
}

func (s *LexicalFeatureSet) Name() string {
	return s.SetName
}

func (s *LexicalFeatureSet) Key(entry *ccg.LexicalEntry) Key {
	return Key{s.SetName, entry.Key()}
}

func (s *LexicalFeatureSet) LexicalFeatures(entry *ccg.LexicalEntry, into Sparse) {
	into[s.Key(entry)] += s.Scale
}

func (s *LexicalFeatureSet) RuleFeatures(ccg.Rule, Sparse) {}

func (s *LexicalFeatureSet) Owns(key Key) bool {
	return key.Set == s.SetName
}

func (s *LexicalFeatureSet) InitialWeights(entry *ccg.LexicalEntry, theta Sparse) {
	if s.Initial == nil {
		return
	}
	key := s.Key(entry)
	if _, exists := theta[key]; exists {
		return
	}
	if w := s.Initial(entry); w != 0 {
		theta[key] = w
	}
}

// RuleFeatureSet has one indicator feature per rule name
type RuleFeatureSet struct {
	SetName string
	Scale   float64
}

var _ FeatureSet = &RuleFeatureSet{}

func NewRuleFeatureSet() *RuleFeatureSet {
	return &RuleFeatureSet{SetName: "RULE", Scale: 1.0}
}

func (s *RuleFeatureSet) Name() string {
	return s.SetName
}

func (s *RuleFeatureSet) LexicalFeatures(*ccg.LexicalEntry, Sparse) {}

func (s *RuleFeatureSet) RuleFeatures(rule ccg.Rule, into Sparse) {
	into[Key{s.SetName, rule.Name()}] += s.Scale
}

func (s *RuleFeatureSet) Owns(key Key) bool {
	return key.Set == s.SetName
}
