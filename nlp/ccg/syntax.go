// Package ccg holds the combinatory categorial grammar: syntactic categories
// paired with logical forms, the lexicon and the combinatory rules.
package ccg

import (
	"strings"

	"github.com/pkg/errors"
)

type Slash byte

const (
	Forward  Slash = '/'
	Backward Slash = '\\'
)

func (s Slash) String() string {
	return string(rune(s))
}

// Syntax is the syntactic half of a category
type Syntax interface {
	String() string
	Equal(Syntax) bool
}

type Atomic struct {
	Name string
}

var (
	S  = &Atomic{"S"}
	N  = &Atomic{"N"}
	NP = &Atomic{"NP"}
	PP = &Atomic{"PP"}
	AP = &Atomic{"AP"}
)

func (a *Atomic) String() string {
	return a.Name
}

func (a *Atomic) Equal(other Syntax) bool {
	o, ok := other.(*Atomic)
	return ok && o.Name == a.Name
}

// Complex is the function category Result/Arg or Result\Arg
type Complex struct {
	Result Syntax
	Slash  Slash
	Arg    Syntax
}

func NewComplex(result Syntax, slash Slash, arg Syntax) *Complex {
	return &Complex{result, slash, arg}
}

// String uses left associativity: only complex arguments are parenthesized
func (c *Complex) String() string {
	b := &strings.Builder{}
	b.WriteString(c.Result.String())
	b.WriteByte(byte(c.Slash))
	if _, complexArg := c.Arg.(*Complex); complexArg {
		b.WriteByte('(')
		b.WriteString(c.Arg.String())
		b.WriteByte(')')
	} else {
		b.WriteString(c.Arg.String())
	}
	return b.String()
}

func (c *Complex) Equal(other Syntax) bool {
	o, ok := other.(*Complex)
	return ok && o.Slash == c.Slash && c.Result.Equal(o.Result) && c.Arg.Equal(o.Arg)
}

// ParseSyntax reads categories such as S\NP/NP or (S\NP)/(S\NP)
func ParseSyntax(s string) (Syntax, error) {
	p := &syntaxReader{input: strings.TrimSpace(s)}
	syn, err := p.syntax()
	if err != nil {
		return nil, errors.Wrapf(err, "ParseSyntax: '%s'", s)
	}
	if p.pos != len(p.input) {
		return nil, errors.Errorf("ParseSyntax: trailing '%s' in '%s'", p.input[p.pos:], s)
	}
	return syn, nil
}

type syntaxReader struct {
	input string
	pos   int
}

func (p *syntaxReader) syntax() (Syntax, error) {
	result, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.input) {
		slash := Slash(p.input[p.pos])
		if slash != Forward && slash != Backward {
			break
		}
		p.pos++
		arg, err := p.primary()
		if err != nil {
			return nil, err
		}
		result = NewComplex(result, slash, arg)
	}
	return result, nil
}

func (p *syntaxReader) primary() (Syntax, error) {
	if p.pos >= len(p.input) {
		return nil, errors.New("unexpected end of category")
	}
	if p.input[p.pos] == '(' {
		p.pos++
		inner, err := p.syntax()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return nil, errors.New("missing ')'")
		}
		p.pos++
		return inner, nil
	}
	start := p.pos
	for p.pos < len(p.input) && strings.IndexByte("()/\\", p.input[p.pos]) < 0 {
		p.pos++
	}
	if start == p.pos {
		return nil, errors.Errorf("unexpected '%c'", p.input[p.pos])
	}
	name := strings.TrimSpace(p.input[start:p.pos])
	if len(name) == 0 || strings.ContainsAny(name, " \t") {
		return nil, errors.Errorf("bad atomic category '%s'", name)
	}
	return &Atomic{name}, nil
}
