// Package lambda implements typed lambda-calculus logical forms: the meaning
// half of the grammar. Terms are immutable; every operation returns a new term.
package lambda

import (
	"fmt"
	"strings"
)

// Term is a typed logical expression. Equality is structural up to renaming
// of bound variables, and String is canonical so it can serve as a hash key.
type Term interface {
	Type() Type
	String() string
	Equal(Term) bool

	write(b *strings.Builder, names *naming)
	equal(other Term, binding map[*Variable]*Variable) bool
	subst(v *Variable, arg Term) Term
	freshen(m map[*Variable]*Variable) Term
}

// naming assigns $n names to variables in binding order
type naming struct {
	names map[*Variable]int
	next  int
}

func (n *naming) bind(v *Variable) (prev int, had bool) {
	prev, had = n.names[v]
	n.names[v] = n.next
	n.next++
	return
}

func (n *naming) unbind(v *Variable, prev int, had bool) {
	if had {
		n.names[v] = prev
	} else {
		delete(n.names, v)
	}
}

func (n *naming) name(v *Variable) int {
	if i, ok := n.names[v]; ok {
		return i
	}
	n.names[v] = n.next
	n.next++
	return n.names[v]
}

func render(t Term) string {
	b := &strings.Builder{}
	t.write(b, &naming{names: make(map[*Variable]int)})
	return b.String()
}

func equalTerms(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equal(b, make(map[*Variable]*Variable))
}

type Constant struct {
	Name string
	typ  Type
}

func NewConstant(name string, typ Type) *Constant {
	return &Constant{name, typ}
}

func (c *Constant) Type() Type { return c.typ }
func (c *Constant) String() string { return render(c) }
func (c *Constant) Equal(o Term) bool { return equalTerms(c, o) }

func (c *Constant) write(b *strings.Builder, _ *naming) {
	b.WriteString(c.Name)
	b.WriteByte(':')
	b.WriteString(c.typ.String())
}

func (c *Constant) equal(other Term, _ map[*Variable]*Variable) bool {
	o, ok := other.(*Constant)
	return ok && o.Name == c.Name && o.typ.Equal(c.typ)
}

func (c *Constant) subst(*Variable, Term) Term { return c }
func (c *Constant) freshen(map[*Variable]*Variable) Term { return c }

// Variable identity is its pointer; names are only assigned when printing.
type Variable struct {
	typ Type
}

func NewVariable(typ Type) *Variable {
	return &Variable{typ}
}

func (v *Variable) Type() Type { return v.typ }
func (v *Variable) String() string { return render(v) }
func (v *Variable) Equal(o Term) bool { return equalTerms(v, o) }

func (v *Variable) write(b *strings.Builder, names *naming) {
	fmt.Fprintf(b, "$%d", names.name(v))
}

func (v *Variable) equal(other Term, binding map[*Variable]*Variable) bool {
	o, ok := other.(*Variable)
	if !ok {
		return false
	}
	if bound, exists := binding[v]; exists {
		return bound == o
	}
	return v == o
}

func (v *Variable) subst(target *Variable, arg Term) Term {
	if v == target {
		return arg
	}
	return v
}

func (v *Variable) freshen(m map[*Variable]*Variable) Term {
	if fresh, ok := m[v]; ok {
		return fresh
	}
	return v
}

func writeBinder(b *strings.Builder, names *naming, v *Variable) {
	fmt.Fprintf(b, "$%d:%s", names.names[v], v.typ)
}

type Lambda struct {
	Arg  *Variable
	Body Term
	typ  Type
}

func NewLambda(arg *Variable, body Term) *Lambda {
	return &Lambda{arg, body, Fn(arg.typ, body.Type())}
}

func (l *Lambda) Type() Type { return l.typ }
func (l *Lambda) String() string { return render(l) }
func (l *Lambda) Equal(o Term) bool { return equalTerms(l, o) }

func (l *Lambda) write(b *strings.Builder, names *naming) {
	prev, had := names.bind(l.Arg)
	b.WriteString("(lambda ")
	writeBinder(b, names, l.Arg)
	b.WriteByte(' ')
	l.Body.write(b, names)
	b.WriteByte(')')
	names.unbind(l.Arg, prev, had)
}

func (l *Lambda) equal(other Term, binding map[*Variable]*Variable) bool {
	o, ok := other.(*Lambda)
	if !ok || !l.Arg.typ.Equal(o.Arg.typ) {
		return false
	}
	prev, had := binding[l.Arg]
	binding[l.Arg] = o.Arg
	result := l.Body.equal(o.Body, binding)
	if had {
		binding[l.Arg] = prev
	} else {
		delete(binding, l.Arg)
	}
	return result
}

func (l *Lambda) subst(v *Variable, arg Term) Term {
	if l.Arg == v {
		return l
	}
	body := l.Body.subst(v, arg)
	if body == nil {
		return nil
	}
	if body == l.Body {
		return l
	}
	return &Lambda{l.Arg, body, l.typ}
}

func (l *Lambda) freshen(m map[*Variable]*Variable) Term {
	fresh := NewVariable(l.Arg.typ)
	prev, had := m[l.Arg]
	m[l.Arg] = fresh
	body := l.Body.freshen(m)
	if had {
		m[l.Arg] = prev
	} else {
		delete(m, l.Arg)
	}
	return &Lambda{fresh, body, l.typ}
}

// Literal is a predicate applied to arguments. Literals are curried: applying
// a partially applied literal extends its argument list.
type Literal struct {
	Pred Term
	Args []Term
	typ  Type
}

func (l *Literal) Type() Type { return l.typ }
func (l *Literal) String() string { return render(l) }
func (l *Literal) Equal(o Term) bool { return equalTerms(l, o) }

func (l *Literal) write(b *strings.Builder, names *naming) {
	b.WriteByte('(')
	l.Pred.write(b, names)
	for _, arg := range l.Args {
		b.WriteByte(' ')
		arg.write(b, names)
	}
	b.WriteByte(')')
}

func (l *Literal) equal(other Term, binding map[*Variable]*Variable) bool {
	o, ok := other.(*Literal)
	if !ok || len(o.Args) != len(l.Args) || !l.Pred.equal(o.Pred, binding) {
		return false
	}
	for i, arg := range l.Args {
		if !arg.equal(o.Args[i], binding) {
			return false
		}
	}
	return true
}

func (l *Literal) subst(v *Variable, arg Term) Term {
	pred := l.Pred.subst(v, arg)
	if pred == nil {
		return nil
	}
	changed := pred != l.Pred
	args := make([]Term, len(l.Args))
	for i, a := range l.Args {
		args[i] = a.subst(v, arg)
		if args[i] == nil {
			return nil
		}
		changed = changed || args[i] != a
	}
	if !changed {
		return l
	}
	if pred != l.Pred {
		// the predicate was replaced, reduce the new redex
		result := pred
		for _, a := range args {
			result = Apply(result, a)
			if result == nil {
				return nil
			}
		}
		return result
	}
	return &Literal{pred, args, l.typ}
}

func (l *Literal) freshen(m map[*Variable]*Variable) Term {
	args := make([]Term, len(l.Args))
	for i, a := range l.Args {
		args[i] = a.freshen(m)
	}
	return &Literal{l.Pred.freshen(m), args, l.typ}
}

const (
	And    = "and"
	Or     = "or"
	Not    = "not"
	Exists = "exists"
	Forall = "forall"
)

// Connective is a logical and/or (variadic) or not (unary) over truth values
type Connective struct {
	Op   string
	Args []Term
}

// NewConnective flattens nested connectives of the same operator
func NewConnective(op string, args ...Term) *Connective {
	flat := make([]Term, 0, len(args))
	for _, arg := range args {
		if c, ok := arg.(*Connective); ok && op != Not && c.Op == op {
			flat = append(flat, c.Args...)
			continue
		}
		flat = append(flat, arg)
	}
	return &Connective{op, flat}
}

func (c *Connective) Type() Type { return T }
func (c *Connective) String() string { return render(c) }
func (c *Connective) Equal(o Term) bool { return equalTerms(c, o) }

func (c *Connective) write(b *strings.Builder, names *naming) {
	b.WriteByte('(')
	b.WriteString(c.Op)
	for _, arg := range c.Args {
		b.WriteByte(' ')
		arg.write(b, names)
	}
	b.WriteByte(')')
}

func (c *Connective) equal(other Term, binding map[*Variable]*Variable) bool {
	o, ok := other.(*Connective)
	if !ok || o.Op != c.Op || len(o.Args) != len(c.Args) {
		return false
	}
	for i, arg := range c.Args {
		if !arg.equal(o.Args[i], binding) {
			return false
		}
	}
	return true
}

func (c *Connective) subst(v *Variable, arg Term) Term {
	args := make([]Term, len(c.Args))
	changed := false
	for i, a := range c.Args {
		args[i] = a.subst(v, arg)
		if args[i] == nil {
			return nil
		}
		changed = changed || args[i] != a
	}
	if !changed {
		return c
	}
	return NewConnective(c.Op, args...)
}

func (c *Connective) freshen(m map[*Variable]*Variable) Term {
	args := make([]Term, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.freshen(m)
	}
	return &Connective{c.Op, args}
}

// Quantifier binds a variable over a truth-valued body
type Quantifier struct {
	Op   string
	Arg  *Variable
	Body Term
}

func NewQuantifier(op string, arg *Variable, body Term) *Quantifier {
	return &Quantifier{op, arg, body}
}

func (q *Quantifier) Type() Type { return T }
func (q *Quantifier) String() string { return render(q) }
func (q *Quantifier) Equal(o Term) bool { return equalTerms(q, o) }

func (q *Quantifier) write(b *strings.Builder, names *naming) {
	prev, had := names.bind(q.Arg)
	b.WriteByte('(')
	b.WriteString(q.Op)
	b.WriteByte(' ')
	writeBinder(b, names, q.Arg)
	b.WriteByte(' ')
	q.Body.write(b, names)
	b.WriteByte(')')
	names.unbind(q.Arg, prev, had)
}

func (q *Quantifier) equal(other Term, binding map[*Variable]*Variable) bool {
	o, ok := other.(*Quantifier)
	if !ok || o.Op != q.Op || !q.Arg.typ.Equal(o.Arg.typ) {
		return false
	}
	prev, had := binding[q.Arg]
	binding[q.Arg] = o.Arg
	result := q.Body.equal(o.Body, binding)
	if had {
		binding[q.Arg] = prev
	} else {
		delete(binding, q.Arg)
	}
	return result
}

func (q *Quantifier) subst(v *Variable, arg Term) Term {
	if q.Arg == v {
		return q
	}
	body := q.Body.subst(v, arg)
	if body == nil {
		return nil
	}
	if body == q.Body {
		return q
	}
	return &Quantifier{q.Op, q.Arg, body}
}

func (q *Quantifier) freshen(m map[*Variable]*Variable) Term {
	fresh := NewVariable(q.Arg.typ)
	prev, had := m[q.Arg]
	m[q.Arg] = fresh
	body := q.Body.freshen(m)
	if had {
		m[q.Arg] = prev
	} else {
		delete(m, q.Arg)
	}
	return &Quantifier{q.Op, fresh, body}
}
