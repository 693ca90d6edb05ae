package ccg

import (
	"strings"

	"spf/nlp/lambda"

	"github.com/pkg/errors"
)

// Rule names double as feature identities, two rules with the same name are
// the same rule
type Rule interface {
	Name() string
}

type BinaryRule interface {
	Rule
	Apply(left, right *Category) []*Category
}

type UnaryRule interface {
	Rule
	Apply(category *Category) (*Category, bool)
}

func single(c *Category) []*Category {
	if c == nil {
		return nil
	}
	return []*Category{c}
}

// ForwardApplication is X/Y Y => X
type ForwardApplication struct{}

func (ForwardApplication) Name() string { return ">" }

func (ForwardApplication) Apply(left, right *Category) []*Category {
	fn, ok := left.Syntax.(*Complex)
	if !ok || fn.Slash != Forward || !fn.Arg.Equal(right.Syntax) {
		return nil
	}
	sem := lambda.Apply(left.Semantics, right.Semantics)
	if sem == nil {
		return nil
	}
	return single(NewCategory(fn.Result, sem))
}

// BackwardApplication is Y X\Y => X
type BackwardApplication struct{}

func (BackwardApplication) Name() string { return "<" }

func (BackwardApplication) Apply(left, right *Category) []*Category {
	fn, ok := right.Syntax.(*Complex)
	if !ok || fn.Slash != Backward || !fn.Arg.Equal(left.Syntax) {
		return nil
	}
	sem := lambda.Apply(right.Semantics, left.Semantics)
	if sem == nil {
		return nil
	}
	return single(NewCategory(fn.Result, sem))
}

// ForwardComposition is X/Y Y/Z => X/Z
type ForwardComposition struct{}

func (ForwardComposition) Name() string { return ">B" }

func (ForwardComposition) Apply(left, right *Category) []*Category {
	f, ok := left.Syntax.(*Complex)
	if !ok || f.Slash != Forward {
		return nil
	}
	g, ok := right.Syntax.(*Complex)
	if !ok || g.Slash != Forward || !f.Arg.Equal(g.Result) {
		return nil
	}
	sem := lambda.Compose(left.Semantics, right.Semantics)
	if sem == nil {
		return nil
	}
	return single(NewCategory(NewComplex(f.Result, Forward, g.Arg), sem))
}

// BackwardComposition is Y\Z X\Y => X\Z
type BackwardComposition struct{}

func (BackwardComposition) Name() string { return "<B" }

func (BackwardComposition) Apply(left, right *Category) []*Category {
	g, ok := left.Syntax.(*Complex)
	if !ok || g.Slash != Backward {
		return nil
	}
	f, ok := right.Syntax.(*Complex)
	if !ok || f.Slash != Backward || !f.Arg.Equal(g.Result) {
		return nil
	}
	sem := lambda.Compose(right.Semantics, left.Semantics)
	if sem == nil {
		return nil
	}
	return single(NewCategory(NewComplex(f.Result, Backward, g.Arg), sem))
}

// TypeRaising is From => To/(To\From), with semantics x => λf.(f x). Result is
// the semantic type of To.
type TypeRaising struct {
	From, To Syntax
	Result   lambda.Type
}

func (r *TypeRaising) Name() string { return ">T" }

func (r *TypeRaising) Apply(category *Category) (*Category, bool) {
	if !category.Syntax.Equal(r.From) {
		return nil, false
	}
	sem := lambda.RaiseArgument(category.Semantics, r.Result)
	if sem == nil {
		return nil, false
	}
	raised := NewCategory(NewComplex(r.To, Forward, NewComplex(r.To, Backward, r.From)), sem)
	return raised, raised != nil
}

// Shifting turns a modifier phrase of category From with property semantics
// into To, the intersective modifier λg.λx.(and (g x) (sem x))
type Shifting struct {
	RuleName string
	From, To Syntax
}

func (r *Shifting) Name() string { return r.RuleName }

func (r *Shifting) Apply(category *Category) (*Category, bool) {
	if !category.Syntax.Equal(r.From) {
		return nil, false
	}
	sem := lambda.TypeRaise(category.Semantics)
	if sem == nil {
		return nil, false
	}
	shifted := NewCategory(r.To, sem)
	return shifted, shifted != nil
}

// AdverbialShifting is AP => S\S
func AdverbialShifting() *Shifting {
	return &Shifting{"shift_ap", AP, NewComplex(S, Backward, S)}
}

// PrepositionShifting is PP => N\N
func PrepositionShifting() *Shifting {
	return &Shifting{"shift_pp", PP, NewComplex(N, Backward, N)}
}

func NPTypeRaising() *TypeRaising {
	return &TypeRaising{NP, S, lambda.T}
}

type RuleSet struct {
	Binary []BinaryRule
	Unary  []UnaryRule
}

func NewRuleSet(binary []BinaryRule, unary []UnaryRule) *RuleSet {
	return &RuleSet{binary, unary}
}

func (r *RuleSet) String() string {
	names := make([]string, 0, len(r.Binary)+len(r.Unary))
	for _, rule := range r.Binary {
		names = append(names, rule.Name())
	}
	for _, rule := range r.Unary {
		names = append(names, rule.Name())
	}
	return strings.Join(names, " ")
}

var (
	binaryRules = map[string]func() BinaryRule{
		">":  func() BinaryRule { return ForwardApplication{} },
		"<":  func() BinaryRule { return BackwardApplication{} },
		">B": func() BinaryRule { return ForwardComposition{} },
		"<B": func() BinaryRule { return BackwardComposition{} },
	}
	unaryRules = map[string]func() UnaryRule{
		">T":       func() UnaryRule { return NPTypeRaising() },
		"shift_ap": func() UnaryRule { return AdverbialShifting() },
		"shift_pp": func() UnaryRule { return PrepositionShifting() },
	}
	DefaultRuleNames = []string{">", "<", ">B", "<B", "shift_ap", "shift_pp"}
)

// DefaultRuleSet has application, composition and both shifting rules.
// Type raising is opt-in.
func DefaultRuleSet() *RuleSet {
	rules, err := RuleSetByName(DefaultRuleNames)
	if err != nil {
		panic(err)
	}
	return rules
}

func RuleSetByName(names []string) (*RuleSet, error) {
	rules := &RuleSet{}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if create, exists := binaryRules[name]; exists {
			rules.Binary = append(rules.Binary, create())
		} else if create, exists := unaryRules[name]; exists {
			rules.Unary = append(rules.Unary, create())
		} else {
			return nil, errors.Errorf("RuleSetByName: unknown rule '%s'", name)
		}
	}
	return rules, nil
}
