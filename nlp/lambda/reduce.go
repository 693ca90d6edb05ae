package lambda

// Apply performs beta-reduction of fn applied to arg. It returns nil when fn
// is not a function or arg does not fit fn's domain.
func Apply(fn, arg Term) Term {
	if fn == nil || arg == nil {
		return nil
	}
	fnType, ok := fn.Type().(*Complex)
	if !ok || !fnType.Domain.Equal(arg.Type()) {
		return nil
	}
	switch f := fn.(type) {
	case *Lambda:
		// rename binders so free variables of arg cannot be captured
		fresh := Freshen(f).(*Lambda)
		return fresh.Body.subst(fresh.Arg, arg)
	case *Literal:
		args := make([]Term, len(f.Args), len(f.Args)+1)
		copy(args, f.Args)
		return &Literal{f.Pred, append(args, arg), fnType.Range}
	default:
		return &Literal{fn, []Term{arg}, fnType.Range}
	}
}

// Freshen returns a copy of t where every bound variable is replaced by a new one
func Freshen(t Term) Term {
	return t.freshen(make(map[*Variable]*Variable))
}

// Compose returns λz.f(g z), or nil when the types do not line up
func Compose(f, g Term) Term {
	gType, ok := g.Type().(*Complex)
	if !ok {
		return nil
	}
	z := NewVariable(gType.Domain)
	body := Apply(f, Apply(g, z))
	if body == nil {
		return nil
	}
	return NewLambda(z, body)
}

// TypeRaise maps a property sem of type <A,t> to the modifier
// λg:<A,t>.λx:A.(and (g x) (sem x)). Returns nil for any other type.
func TypeRaise(sem Term) Term {
	semType, ok := sem.Type().(*Complex)
	if !ok || !semType.Range.Equal(T) {
		return nil
	}
	g := NewVariable(semType)
	x := NewVariable(semType.Domain)
	left := Apply(g, x)
	right := Apply(sem, x)
	if left == nil || right == nil {
		return nil
	}
	return NewLambda(g, NewLambda(x, NewConnective(And, left, right)))
}

// RaiseArgument maps x of type A to λf:<A,result>.(f x)
func RaiseArgument(x Term, result Type) Term {
	f := NewVariable(Fn(x.Type(), result))
	body := Apply(f, x)
	if body == nil {
		return nil
	}
	return NewLambda(f, body)
}
