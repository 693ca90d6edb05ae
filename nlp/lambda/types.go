package lambda

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Type is the semantic type of a logical expression
type Type interface {
	String() string
	Equal(Type) bool
}

// Primitive is a named atomic type such as e or t
type Primitive string

const (
	E = Primitive("e")
	T = Primitive("t")
)

func (p Primitive) String() string {
	return string(p)
}

func (p Primitive) Equal(other Type) bool {
	o, ok := other.(Primitive)
	return ok && o == p
}

// Complex is the function type <Domain,Range>
type Complex struct {
	Domain, Range Type
}

// Fn builds the function type <domain,rng>
func Fn(domain, rng Type) *Complex {
	return &Complex{domain, rng}
}

func (c *Complex) String() string {
	return fmt.Sprintf("<%s,%s>", c.Domain, c.Range)
}

func (c *Complex) Equal(other Type) bool {
	o, ok := other.(*Complex)
	if !ok {
		return false
	}
	return c.Domain.Equal(o.Domain) && c.Range.Equal(o.Range)
}

// IsFunction reports whether t is a function type
func IsFunction(t Type) bool {
	_, ok := t.(*Complex)
	return ok
}

// ParseType reads types written as e, t or <e,<e,t>>
func ParseType(s string) (Type, error) {
	typ, rest, err := parseType(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, errors.Errorf("ParseType: trailing '%s' in '%s'", rest, s)
	}
	return typ, nil
}

func parseType(s string) (Type, string, error) {
	if len(s) == 0 {
		return nil, "", errors.New("ParseType: empty type")
	}
	if s[0] != '<' {
		end := strings.IndexAny(s, ",>")
		if end < 0 {
			end = len(s)
		}
		if end == 0 {
			return nil, "", errors.Errorf("ParseType: unexpected '%c'", s[0])
		}
		return Primitive(s[:end]), s[end:], nil
	}
	domain, rest, err := parseType(s[1:])
	if err != nil {
		return nil, "", err
	}
	if len(rest) == 0 || rest[0] != ',' {
		return nil, "", errors.Errorf("ParseType: ',' expected in '%s'", s)
	}
	rng, rest, err := parseType(rest[1:])
	if err != nil {
		return nil, "", err
	}
	if len(rest) == 0 || rest[0] != '>' {
		return nil, "", errors.Errorf("ParseType: '>' expected in '%s'", s)
	}
	return Fn(domain, rng), rest[1:], nil
}
