package lambda

import (
	"strings"

	"github.com/pkg/errors"
)

// Parse reads a logical form written as an s-expression, e.g.
//
//	(lambda $0:e (and (dog:<e,t> $0) (big:<e,t> $0)))
//
// Constants are name:type, variables are $n:type where bound and $n in scope.
func Parse(s string) (Term, error) {
	p := &reader{tokens: tokenize(s), scope: make(map[string]*Variable)}
	term, err := p.term()
	if err != nil {
		return nil, errors.Wrapf(err, "Parse: '%s'", s)
	}
	if p.pos < len(p.tokens) {
		return nil, errors.Errorf("Parse: trailing '%s' in '%s'", strings.Join(p.tokens[p.pos:], " "), s)
	}
	return term, nil
}

// MustParse is Parse for literals known to be well formed
func MustParse(s string) Term {
	term, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return term
}

func tokenize(s string) []string {
	s = strings.ReplaceAll(s, "(", " ( ")
	s = strings.ReplaceAll(s, ")", " ) ")
	return strings.Fields(s)
}

type reader struct {
	tokens []string
	pos    int
	scope  map[string]*Variable
}

func (r *reader) next() (string, error) {
	if r.pos >= len(r.tokens) {
		return "", errors.New("unexpected end of expression")
	}
	tok := r.tokens[r.pos]
	r.pos++
	return tok, nil
}

func (r *reader) expect(tok string) error {
	got, err := r.next()
	if err != nil {
		return err
	}
	if got != tok {
		return errors.Errorf("expected '%s' but found '%s'", tok, got)
	}
	return nil
}

// head strips a type annotation from reserved words such as and:<t*,t>
func head(tok string) string {
	if i := strings.IndexByte(tok, ':'); i > 0 {
		return tok[:i]
	}
	return tok
}

func (r *reader) term() (Term, error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	switch tok {
	case ")":
		return nil, errors.New("unexpected ')'")
	case "(":
		return r.compound()
	}
	return r.atom(tok)
}

func (r *reader) atom(tok string) (Term, error) {
	if tok[0] == '$' {
		v, ok := r.scope[tok]
		if !ok {
			return nil, errors.Errorf("unbound variable '%s'", tok)
		}
		return v, nil
	}
	i := strings.IndexByte(tok, ':')
	if i <= 0 {
		return nil, errors.Errorf("untyped constant '%s'", tok)
	}
	typ, err := ParseType(tok[i+1:])
	if err != nil {
		return nil, err
	}
	return NewConstant(tok[:i], typ), nil
}

func (r *reader) binder() (*Variable, string, error) {
	tok, err := r.next()
	if err != nil {
		return nil, "", err
	}
	i := strings.IndexByte(tok, ':')
	if tok[0] != '$' || i < 0 {
		return nil, "", errors.Errorf("typed variable expected but found '%s'", tok)
	}
	typ, err := ParseType(tok[i+1:])
	if err != nil {
		return nil, "", err
	}
	return NewVariable(typ), tok[:i], nil
}

func (r *reader) scoped(name string, v *Variable) (Term, error) {
	prev, had := r.scope[name]
	r.scope[name] = v
	body, err := r.term()
	if had {
		r.scope[name] = prev
	} else {
		delete(r.scope, name)
	}
	if err != nil {
		return nil, err
	}
	return body, r.expect(")")
}

func (r *reader) compound() (Term, error) {
	if r.pos >= len(r.tokens) {
		return nil, errors.New("unexpected end of expression")
	}
	switch op := head(r.tokens[r.pos]); op {
	case "lambda":
		r.pos++
		v, name, err := r.binder()
		if err != nil {
			return nil, err
		}
		body, err := r.scoped(name, v)
		if err != nil {
			return nil, err
		}
		return NewLambda(v, body), nil
	case Exists, Forall:
		r.pos++
		v, name, err := r.binder()
		if err != nil {
			return nil, err
		}
		body, err := r.scoped(name, v)
		if err != nil {
			return nil, err
		}
		if !body.Type().Equal(T) {
			return nil, errors.Errorf("%s over non truth-valued body '%s'", op, body)
		}
		return NewQuantifier(op, v, body), nil
	case And, Or, Not:
		r.pos++
		args, err := r.list()
		if err != nil {
			return nil, err
		}
		if len(args) == 0 || (op == Not && len(args) != 1) {
			return nil, errors.Errorf("wrong number of arguments for '%s'", op)
		}
		for _, arg := range args {
			if !arg.Type().Equal(T) {
				return nil, errors.Errorf("'%s' argument '%s' is not truth valued", op, arg)
			}
		}
		return NewConnective(op, args...), nil
	}
	terms, err := r.list()
	if err != nil {
		return nil, err
	}
	if len(terms) < 2 {
		return nil, errors.New("application without arguments")
	}
	result := terms[0]
	for _, arg := range terms[1:] {
		applied := Apply(result, arg)
		if applied == nil {
			return nil, errors.Errorf("cannot apply '%s' to '%s'", result, arg)
		}
		result = applied
	}
	return result, nil
}

// list reads terms up to and including the closing parenthesis
func (r *reader) list() ([]Term, error) {
	var terms []Term
	for {
		if r.pos >= len(r.tokens) {
			return nil, errors.New("unexpected end of expression")
		}
		if r.tokens[r.pos] == ")" {
			r.pos++
			return terms, nil
		}
		t, err := r.term()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
}
