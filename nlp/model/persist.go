package model

import (
	"encoding/gob"
	"io"
	"os"

	"spf/alg/featurevector"
	"spf/nlp/ccg"

	"github.com/pkg/errors"
)

type serializedEntry struct {
	Line, Origin string
}

// Serialization is the gob form of a model. The lexicon is kept in its
// textual form so logical form variables are rebuilt on load.
type Serialization struct {
	Weights map[Key]float64
	Lexicon []serializedEntry
	Frozen  []Key
}

func (m *Model) Write(writer io.Writer) error {
	data := &Serialization{Weights: make(map[Key]float64, len(m.theta))}
	for feature, val := range m.theta {
		if key, ok := feature.(Key); ok {
			data.Weights[key] = val
		}
	}
	for _, entry := range m.lexicon.Entries() {
		data.Lexicon = append(data.Lexicon, serializedEntry{entry.String(), entry.Origin})
	}
	for key := range m.frozen {
		data.Frozen = append(data.Frozen, key)
	}
	if err := gob.NewEncoder(writer).Encode(data); err != nil {
		return errors.Wrap(err, "model: encoding")
	}
	return nil
}

// Read restores a model written by Write. Feature sets are code, not data, so
// the caller provides them again.
func Read(reader io.Reader, sets ...FeatureSet) (*Model, error) {
	data := &Serialization{}
	if err := gob.NewDecoder(reader).Decode(data); err != nil {
		return nil, errors.Wrap(err, "model: decoding")
	}
	lexicon := ccg.NewLexicon()
	for _, serialized := range data.Lexicon {
		entry, err := ccg.ParseEntry(serialized.Line, serialized.Origin)
		if err != nil {
			return nil, errors.Wrap(err, "model: lexicon")
		}
		lexicon.Add(entry)
	}
	m := &Model{
		theta:   make(featurevector.Sparse, len(data.Weights)),
		lexicon: lexicon,
		sets:    sets,
		frozen:  make(map[Key]bool, len(data.Frozen)),
	}
	for key, val := range data.Weights {
		m.theta[key] = val
	}
	for _, key := range data.Frozen {
		m.frozen[key] = true
	}
	return m, nil
}

func WriteFile(filename string, m *Model) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "model: creating %s", filename)
	}
	defer file.Close()
	return m.Write(file)
}

func ReadFile(filename string, sets ...FeatureSet) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "model: opening %s", filename)
	}
	defer file.Close()
	return Read(file, sets...)
}
