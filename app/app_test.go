package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"spf/nlp/ccg"
	"spf/nlp/data"
	"spf/nlp/model"
)

func TestWriteParses(t *testing.T) {
	allOut = false
	defer func() { allOut = true }()
	entry, err := ccg.ParseEntry("dog :- N : dog:<e,t>", ccg.OriginFixed)
	if err != nil {
		t.Fatal(err)
	}
	m := model.NewModel(ccg.NewLexicon(entry), FeatureSets()...)
	sentences := []data.Sentence{{Tokens: []string{"dog"}}, {Tokens: []string{"cat"}}}

	var out bytes.Buffer
	if err := WriteParses(&out, sentences, SetupParser(SetupRules("")), m); err != nil {
		t.Fatal(err)
	}
	expected := "dog:<e,t>\n" + noParse + "\n"
	if out.String() != expected {
		t.Error("Got", out.String(), "expected", expected)
	}
}

func TestFeatureSets(t *testing.T) {
	LexInit = 2.0
	defer func() { LexInit = 0 }()
	fixed, _ := ccg.ParseEntry("dog :- N : dog:<e,t>", ccg.OriginFixed)
	learned, _ := ccg.ParseEntry("cat :- N : cat:<e,t>", ccg.OriginLearned)
	sets := FeatureSets()
	m := model.NewModel(ccg.NewLexicon(fixed, learned), sets...)
	lex := sets[0].(*model.LexicalFeatureSet)
	if w := m.Theta()[lex.Key(fixed)]; w != 2.0 {
		t.Error("Got fixed entry weight", w, "expected", 2.0)
	}
	if w := m.Theta()[lex.Key(learned)]; w != 0.0 {
		t.Error("Got learned entry weight", w, "expected", 0.0)
	}
}

func TestSetupRules(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "rules.conf")
	if err := os.WriteFile(filename, []byte("# application only\n>\n<\n"), 0644); err != nil {
		t.Fatal(err)
	}
	rules := SetupRules(filename)
	if len(rules.Binary) != 2 || len(rules.Unary) != 0 {
		t.Error("Got rules", rules)
	}
	if len(SetupRules("").Unary) == 0 {
		t.Error("Expected default unary rules")
	}
}
