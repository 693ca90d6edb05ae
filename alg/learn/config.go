package learn

import (
	"fmt"

	"spf/alg/featurevector"
	"spf/util/conf"

	"github.com/pkg/errors"
)

const (
	StrategyPerceptron = "perceptron"
	StrategyStocGrad   = "stocgrad"
)

// Config is read once before training and not changed afterwards
type Config struct {
	Iterations                int     `yaml:"iterations"`
	MaxSentenceLength         int     `yaml:"maxSentenceLength"`
	LexiconGenerationBeamSize int     `yaml:"lexiconGenerationBeam"`
	Margin                    float64 `yaml:"margin"`
	Alpha0                    float64 `yaml:"alpha0"`
	C                         float64 `yaml:"c"`
	LexiconLearning           bool    `yaml:"lexiconLearning"`
	SmallEntry                float64 `yaml:"smallEntry"`
	// LargeUpdate bounds update values before a warning is logged
	LargeUpdate float64 `yaml:"largeUpdate"`
	Strategy    string  `yaml:"strategy"`
	Averaged    bool    `yaml:"averaged"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:                4,
		MaxSentenceLength:         50,
		LexiconGenerationBeamSize: 20,
		Margin:                    1.0,
		Alpha0:                    0.1,
		C:                         0.0001,
		LexiconLearning:           true,
		SmallEntry:                featurevector.SmallEntry,
		LargeUpdate:               100,
		Strategy:                  StrategyPerceptron,
	}
}

// LoadConfig overlays the YAML file on the defaults
func LoadConfig(filename string) (Config, error) {
	c := DefaultConfig()
	if err := conf.LoadYAMLFile(filename, &c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Iterations < 0:
		return errors.Errorf("learn: negative iterations %d", c.Iterations)
	case c.MaxSentenceLength <= 0:
		return errors.Errorf("learn: max sentence length must be positive, got %d", c.MaxSentenceLength)
	case c.Alpha0 <= 0:
		return errors.Errorf("learn: alpha0 must be positive, got %v", c.Alpha0)
	case c.C < 0:
		return errors.Errorf("learn: negative c %v", c.C)
	case c.SmallEntry < 0:
		return errors.Errorf("learn: negative small entry threshold %v", c.SmallEntry)
	case c.Strategy != StrategyPerceptron && c.Strategy != StrategyStocGrad:
		return errors.Errorf("learn: unknown strategy %q", c.Strategy)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s it=%d maxlen=%d genbeam=%d margin=%v alpha0=%v c=%v lexlearn=%v avg=%v",
		c.Strategy, c.Iterations, c.MaxSentenceLength, c.LexiconGenerationBeamSize,
		c.Margin, c.Alpha0, c.C, c.LexiconLearning, c.Averaged)
}
