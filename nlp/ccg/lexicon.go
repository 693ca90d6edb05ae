package ccg

import (
	"io"
	"strings"
	"sync"

	"spf/util/conf"

	"github.com/pkg/errors"
)

const (
	OriginFixed     = "fixed"
	OriginGenerated = "generated"
	OriginLearned   = "learned"
)

// LexicalEntry maps a token sequence to a category. Linked entries are
// variants that are admitted into a lexicon together with the entry.
type LexicalEntry struct {
	Tokens   []string
	Category *Category
	Origin   string
	Linked   []*LexicalEntry
	key      string
}

func NewLexicalEntry(tokens []string, category *Category, origin string, linked ...*LexicalEntry) *LexicalEntry {
	copied := make([]string, len(tokens))
	copy(copied, tokens)
	return &LexicalEntry{
		Tokens:   copied,
		Category: category,
		Origin:   origin,
		Linked:   linked,
		key:      TokensKey(copied) + " :- " + category.Key(),
	}
}

// TokensKey joins tokens into a lexicon lookup key
func TokensKey(tokens []string) string {
	return strings.Join(tokens, " ")
}

// Key identifies the entry by tokens and category; origin and links are ignored
func (e *LexicalEntry) Key() string {
	return e.key
}

func (e *LexicalEntry) String() string {
	return e.key
}

func (e *LexicalEntry) Equal(other *LexicalEntry) bool {
	return other != nil && e.key == other.key
}

// ParseEntry reads "tokens :- category"
func ParseEntry(line, origin string) (*LexicalEntry, error) {
	parts := strings.SplitN(line, ":-", 2)
	if len(parts) != 2 {
		return nil, errors.Errorf("ParseEntry: missing ':-' in '%s'", line)
	}
	tokens := strings.Fields(parts[0])
	if len(tokens) == 0 {
		return nil, errors.Errorf("ParseEntry: no tokens in '%s'", line)
	}
	category, err := ParseCategory(parts[1])
	if err != nil {
		return nil, errors.Wrapf(err, "ParseEntry: '%s'", line)
	}
	return NewLexicalEntry(tokens, category, origin), nil
}

// Lookup finds the entries whose tokens are exactly the given sequence
type Lookup interface {
	Get(tokens []string) []*LexicalEntry
}

// Lexicon is a set of entries. Reads may run concurrently with each other,
// writes are exclusive.
type Lexicon struct {
	mu       sync.RWMutex
	entries  []*LexicalEntry
	byKey    map[string]*LexicalEntry
	byTokens map[string][]*LexicalEntry
}

var _ Lookup = &Lexicon{}

func NewLexicon(entries ...*LexicalEntry) *Lexicon {
	l := &Lexicon{
		byKey:    make(map[string]*LexicalEntry),
		byTokens: make(map[string][]*LexicalEntry),
	}
	l.AddAll(entries)
	return l
}

// Add reports whether entry was not in the lexicon before
func (l *Lexicon) Add(entry *LexicalEntry) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.add(entry)
}

func (l *Lexicon) add(entry *LexicalEntry) bool {
	if _, exists := l.byKey[entry.Key()]; exists {
		return false
	}
	l.byKey[entry.Key()] = entry
	l.entries = append(l.entries, entry)
	tokens := TokensKey(entry.Tokens)
	l.byTokens[tokens] = append(l.byTokens[tokens], entry)
	return true
}

// AddAll returns how many entries were new
func (l *Lexicon) AddAll(entries []*LexicalEntry) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var added int
	for _, entry := range entries {
		if l.add(entry) {
			added++
		}
	}
	return added
}

func (l *Lexicon) Get(tokens []string) []*LexicalEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	found := l.byTokens[TokensKey(tokens)]
	retval := make([]*LexicalEntry, len(found))
	copy(retval, found)
	return retval
}

func (l *Lexicon) Contains(entry *LexicalEntry) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, exists := l.byKey[entry.Key()]
	return exists
}

func (l *Lexicon) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns the entries in insertion order
func (l *Lexicon) Entries() []*LexicalEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	retval := make([]*LexicalEntry, len(l.entries))
	copy(retval, l.entries)
	return retval
}

func (l *Lexicon) Write(writer io.Writer) error {
	for _, entry := range l.Entries() {
		if _, err := io.WriteString(writer, entry.String()+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ReadLexicon reads one entry per line, skipping blank lines and '#' comments
func ReadLexicon(reader io.Reader, origin string) (*Lexicon, error) {
	c, err := conf.Read(reader)
	if err != nil {
		return nil, errors.Wrap(err, "ReadLexicon")
	}
	lexicon := NewLexicon()
	for _, line := range c.Values {
		entry, err := ParseEntry(line, origin)
		if err != nil {
			return nil, err
		}
		lexicon.Add(entry)
	}
	return lexicon, nil
}

// Lexicons is the read-only union of several lookups. Entries found in more
// than one member are returned once.
type Lexicons []Lookup

func (ls Lexicons) Get(tokens []string) []*LexicalEntry {
	var (
		retval []*LexicalEntry
		seen   map[string]bool
	)
	for _, l := range ls {
		if l == nil {
			continue
		}
		for _, entry := range l.Get(tokens) {
			if seen == nil {
				seen = make(map[string]bool)
			}
			if !seen[entry.Key()] {
				seen[entry.Key()] = true
				retval = append(retval, entry)
			}
		}
	}
	return retval
}
