package app

import (
	"log"
	"os"

	"spf/nlp/ccg"
	"spf/nlp/model"
	"spf/nlp/parser/chart"
	"spf/util"
	"spf/util/conf"

	"github.com/gonuts/commander"
)

var (
	allOut bool = true

	// processing options
	Iterations, BeamSize int
	ConcurrentChart      bool
	LexInit              float64

	// file names
	tCorpus    string
	input      string
	outFile    string
	modelFile  string
	lexFile    string
	rulesFile  string
	configFile string
)

func VerifyExists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		log.Println("Error accessing file", filename)
		log.Println(err)
		return false
	}
	return true
}

func VerifyFlags(cmd *commander.Command, required []string) {
	for _, flag := range required {
		f := cmd.Flag.Lookup(flag)
		if f.Value.String() == "" {
			log.Printf("Required flag %s not set", f.Name)
			cmd.Usage()
			os.Exit(1)
		}
	}
}

// FeatureSets are the feature sets every command builds models with. Fixed
// entries start at LexInit, learned ones at zero.
func FeatureSets() []model.FeatureSet {
	lex := model.NewLexicalFeatureSet()
	if LexInit != 0 {
		lex.Initial = func(entry *ccg.LexicalEntry) float64 {
			if entry.Origin == ccg.OriginFixed {
				return LexInit
			}
			return 0
		}
	}
	return []model.FeatureSet{lex, model.NewRuleFeatureSet()}
}

// SetupRules reads rule names one per line, the default rule set if filename is empty
func SetupRules(filename string) *ccg.RuleSet {
	if len(filename) == 0 {
		return ccg.DefaultRuleSet()
	}
	names, err := conf.ReadFile(filename)
	if err != nil {
		log.Println("Failed reading rules configuration file:", filename)
		log.Fatalln(err)
	}
	rules, err := ccg.RuleSetByName(names.Values)
	if err != nil {
		log.Fatalln(err)
	}
	return rules
}

func SetupParser(rules *ccg.RuleSet) *chart.Parser {
	parser := chart.NewParser(rules)
	parser.BeamSize = BeamSize
	parser.Concurrent = ConcurrentChart
	return parser
}

func ReadModel(filename string) *model.Model {
	m, err := model.ReadFile(filename, FeatureSets()...)
	if err != nil {
		log.Println("Failed reading model from", filename)
		log.Fatalln(err)
	}
	if allOut {
		sum, _ := util.MD5File(filename)
		log.Println("Read model", filename, "md5", sum, "lexicon size", m.Lexicon().Size())
	}
	return m
}

func WriteModel(filename string, m *model.Model) {
	if err := model.WriteFile(filename, m); err != nil {
		log.Fatalln("Failed writing model file", filename, err)
	}
	if allOut {
		sum, _ := util.MD5File(filename)
		log.Println("Wrote model", filename, "md5", sum)
	}
}

func ConfigOut(rules *ccg.RuleSet) {
	log.Println("Configuration")
	log.Printf("Beam Size:\t\t%d", BeamSize)
	log.Printf("Concurrent Chart:\t%v", ConcurrentChart)
	log.Printf("Rules:\t\t\t%s", rules)
	log.Printf("Model file:\t\t%s", modelFile)
	log.Println()
}
