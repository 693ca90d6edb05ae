package ccg

import (
	"strings"

	"spf/nlp/lambda"

	"github.com/pkg/errors"
)

// Category pairs a syntactic category with its logical form.
// Categories are immutable; use NewCategory to build them.
type Category struct {
	Syntax    Syntax
	Semantics lambda.Term
	key       string
}

// NewCategory returns nil if the pair is not well formed
func NewCategory(syntax Syntax, semantics lambda.Term) *Category {
	c := &Category{Syntax: syntax, Semantics: semantics}
	if !c.Valid() {
		return nil
	}
	c.key = syntax.String() + " : " + semantics.String()
	return c
}

// Valid reports whether function categories carry function typed semantics
func (c *Category) Valid() bool {
	if c.Syntax == nil || c.Semantics == nil {
		return false
	}
	if _, complex := c.Syntax.(*Complex); complex {
		return lambda.IsFunction(c.Semantics.Type())
	}
	return true
}

// Key is a structural identity usable as a map key
func (c *Category) Key() string {
	return c.key
}

func (c *Category) String() string {
	return c.key
}

func (c *Category) Equal(other *Category) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Syntax.Equal(other.Syntax) && c.Semantics.Equal(other.Semantics)
}

// ParseCategory reads "syntax : logical form"
func ParseCategory(s string) (*Category, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return nil, errors.Errorf("ParseCategory: missing ':' in '%s'", s)
	}
	syntax, err := ParseSyntax(parts[0])
	if err != nil {
		return nil, errors.Wrap(err, "ParseCategory")
	}
	semantics, err := lambda.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, errors.Wrap(err, "ParseCategory")
	}
	category := NewCategory(syntax, semantics)
	if category == nil {
		return nil, errors.Errorf("ParseCategory: '%s' has semantics of type %s", syntax, semantics.Type())
	}
	return category, nil
}

func MustParseCategory(s string) *Category {
	c, err := ParseCategory(s)
	if err != nil {
		panic(err)
	}
	return c
}
