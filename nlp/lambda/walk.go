package lambda

// Constants lists the distinct constants of t in order of first appearance.
// Literal predicates are included.
func Constants(t Term) []*Constant {
	var (
		retval []*Constant
		seen   = make(map[string]bool)
		walk   func(Term)
	)
	walk = func(t Term) {
		switch term := t.(type) {
		case *Constant:
			if key := term.String(); !seen[key] {
				seen[key] = true
				retval = append(retval, term)
			}
		case *Lambda:
			walk(term.Body)
		case *Literal:
			walk(term.Pred)
			for _, arg := range term.Args {
				walk(arg)
			}
		case *Connective:
			for _, arg := range term.Args {
				walk(arg)
			}
		case *Quantifier:
			walk(term.Body)
		}
	}
	if t != nil {
		walk(t)
	}
	return retval
}
