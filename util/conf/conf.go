// Package conf reads line-oriented resource files (lexicons, rule lists)
// and YAML configuration files.
package conf

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Conf struct {
	Values []string
}

// Read returns the non-empty lines of reader, skipping '#' comments
func Read(reader io.Reader) (*Conf, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	retval := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > 0 && line[0] != '#' {
			retval = append(retval, line)
		}
	}
	return &Conf{retval}, nil
}

func ReadFile(filename string) (*Conf, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Blocks splits reader into groups of consecutive lines separated by blank
// lines. Comment lines are dropped without ending a block.
func Blocks(reader io.Reader) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	var (
		blocks  [][]string
		current []string
	)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case len(line) == 0:
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
		case line[0] == '#':
		default:
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks, nil
}

// LoadYAML decodes the YAML document in reader over out; fields missing from
// the document keep the values out already holds
func LoadYAML(reader io.Reader, out interface{}) error {
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return errors.Wrap(err, "conf: decoding yaml")
	}
	return nil
}

func LoadYAMLFile(filename string, out interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "conf: opening %s", filename)
	}
	defer file.Close()
	return LoadYAML(file, out)
}
