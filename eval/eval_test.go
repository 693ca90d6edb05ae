package eval

import (
	"testing"

	"spf/nlp/ccg"
	"spf/nlp/data"
	"spf/nlp/lambda"
	"spf/nlp/model"
	"spf/nlp/parser/chart"
)

func TestMeasures(t *testing.T) {
	if p := Precision(1, 4); p != 0.25 {
		t.Error("Got precision", p, "expected", 0.25)
	}
	if r := Recall(3, 0); r != 0.0 {
		t.Error("Got recall", r, "expected", 0.0)
	}
	if f := F1(0.5, 0.5); f != 0.5 {
		t.Error("Got F1", f, "expected", 0.5)
	}
	if f := F1(0, 0); f != 0.0 {
		t.Error("Got F1", f, "expected", 0.0)
	}
}

func TestTotal(t *testing.T) {
	total := &Total{KeepErrors: true}
	total.Add(Correct, nil)
	total.Add(Correct, nil)
	total.Add(Wrong, &ItemError{Item: 2, Outcome: Wrong})
	total.Add(NoParse, &ItemError{Item: 3, Outcome: NoParse})
	if total.Answered() != 3 || total.Skipped() != 1 {
		t.Error("Got answered", total.Answered(), "skipped", total.Skipped())
	}
	if p := total.Precision(); p != 2.0/3.0 {
		t.Error("Got precision", p, "expected", 2.0/3.0)
	}
	if r := total.Recall(); r != 0.5 {
		t.Error("Got recall", r, "expected", 0.5)
	}
	byType := total.Errors.ByType()
	if byType["wrong"] != 1 || byType["no parse"] != 1 {
		t.Error("Got errors by type", byType)
	}
}

func TestTester(t *testing.T) {
	lexicon := ccg.NewLexicon()
	for _, line := range []string{"dog :- N : dog:<e,t>", "dog :- N : hound:<e,t>", "cat :- N : cat:<e,t>"} {
		entry, err := ccg.ParseEntry(line, ccg.OriginFixed)
		if err != nil {
			t.Fatal(err)
		}
		lexicon.Add(entry)
	}
	lex := model.NewLexicalFeatureSet()
	m := model.NewModel(lexicon, lex, model.NewRuleFeatureSet())
	items := data.Items[lambda.Term]{
		data.NewLabeledItem(data.Sentence{Tokens: []string{"cat"}}, lambda.MustParse("cat:<e,t>"), nil),
		data.NewLabeledItem(data.Sentence{Tokens: []string{"dog"}}, lambda.MustParse("dog:<e,t>"), nil),
		data.NewLabeledItem(data.Sentence{Tokens: []string{"bird"}}, lambda.MustParse("bird:<e,t>"), nil),
	}
	tester := &Tester[lambda.Term]{
		Parser:    chart.NewParser(ccg.DefaultRuleSet()),
		Validator: data.TermValidator(),
		Result:    func(c *ccg.Category) lambda.Term { return c.Semantics },
	}
	var calls int
	total := tester.Test(m, items, func() { calls++ })
	if calls != 3 {
		t.Error("Got", calls, "progress calls expected", 3)
	}
	if total.Counts[Correct] != 1 || total.Counts[Ambiguous] != 1 || total.Counts[NoParse] != 1 {
		t.Error("Got counts", total.Counts)
	}

	// break the tie towards the wrong reading
	hound, _ := ccg.ParseEntry("dog :- N : hound:<e,t>", ccg.OriginFixed)
	m.Theta()[lex.Key(hound)] = 1.0
	total = tester.Test(m, items, nil)
	if total.Counts[Wrong] != 1 || total.Precision() != 0.5 {
		t.Error("Got counts", total.Counts, "precision", total.Precision())
	}
}
