package app

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"spf/alg/learn"
	"spf/nlp/ccg"
	"spf/nlp/data"
	"spf/nlp/genlex"
	"spf/nlp/lambda"
	"spf/nlp/model"
	"spf/util"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pb "github.com/schollz/progressbar/v3"
)

var (
	strategyName string
	averaged     bool
	metricsAddr  string
	showItems    bool
)

// progressSink advances a progress bar per training item, one bar per epoch
type progressSink struct {
	items int
	bar   *pb.ProgressBar
}

func newProgressSink(items int) *progressSink {
	s := &progressSink{items: items}
	s.bar = s.newBar(0)
	return s
}

func (s *progressSink) newBar(epoch int) *pb.ProgressBar {
	return pb.NewOptions(s.items,
		pb.OptionSetWriter(os.Stderr),
		pb.OptionShowCount(),
		pb.OptionSetDescription(fmt.Sprintf("IT #%d", epoch)))
}

func (s *progressSink) Item(stats *learn.ItemStats) {
	s.bar.Add(1)
}

func (s *progressSink) Epoch(stats *learn.EpochStats) {
	s.bar.Finish()
	fmt.Fprintln(os.Stderr)
	s.bar = s.newBar(stats.Epoch + 1)
}

func TrainConfig() learn.Config {
	config := learn.DefaultConfig()
	if len(configFile) > 0 {
		var err error
		config, err = learn.LoadConfig(configFile)
		if err != nil {
			log.Println("Failed reading learner configuration file:", configFile)
			log.Fatalln(err)
		}
	}
	if Iterations > 0 {
		config.Iterations = Iterations
	}
	if len(strategyName) > 0 {
		config.Strategy = strategyName
	}
	if averaged {
		config.Averaged = true
	}
	return config
}

func ReadCorpus(filename string, generator data.Generator) data.Items[lambda.Term] {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalln("Failed opening corpus", filename, err)
	}
	defer file.Close()
	items, err := data.ReadCorpus(file, generator)
	if err != nil {
		log.Fatalln("Failed reading corpus", filename, err)
	}
	return items
}

func Train(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, []string{"tc", "m"})
	config := TrainConfig()
	rules := SetupRules(rulesFile)
	if allOut {
		ConfigOut(rules)
		log.Println("Learner:\t\t", config)
		log.Printf("Train corpus:\t\t%s", tCorpus)
		log.Printf("Seed lexicon:\t\t%s", lexFile)
		log.Println()
	}

	lexicon := ccg.NewLexicon()
	if len(lexFile) > 0 {
		file, err := os.Open(lexFile)
		if err != nil {
			log.Fatalln("Failed opening lexicon", lexFile, err)
		}
		lexicon, err = ccg.ReadLexicon(file, ccg.OriginFixed)
		file.Close()
		if err != nil {
			log.Fatalln("Failed reading lexicon", lexFile, err)
		}
	}
	m := model.NewModel(lexicon, FeatureSets()...)

	var generator data.Generator
	if config.LexiconLearning {
		generator = genlex.NewGenerator()
	}
	items := ReadCorpus(tCorpus, generator)
	if allOut {
		log.Println("Read", items.Len(), "training items, lexicon size", lexicon.Size())
	}

	learner, err := learn.NewLearner(config, SetupParser(rules))
	if err != nil {
		return err
	}
	sinks := learn.MultiSink{&learn.LogSink{Items: showItems}, newProgressSink(items.Len())}
	if len(metricsAddr) > 0 {
		sinks = append(sinks, learn.NewPromSink(nil))
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Println(http.ListenAndServe(metricsAddr, nil))
		}()
	}
	learner.Sink = sinks

	startTime := time.Now()
	if err := learner.Train(m, items); err != nil {
		return err
	}
	if allOut {
		log.Println("TRAIN Total Time:", time.Since(startTime))
		log.Println("Lexicon size", m.Lexicon().Size(), "features", m.Theta().Len())
		util.LogMemory()
		log.Println("Writing model to", modelFile)
	}
	WriteModel(modelFile, m)
	return nil
}

func TrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Train,
		UsageLine: "train <file options> [arguments]",
		Short:     "trains a ccg semantic parser",
		Long: `
trains a ccg semantic parser from sentences paired with logical forms

	$ ./spf train -tc <corpus> -m <model out> [-lex <seed lexicon>] [-conf <learner yaml>] [options]

`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	cmd.Flag.BoolVar(&ConcurrentChart, "bconc", true, "Concurrent chart")
	cmd.Flag.IntVar(&Iterations, "it", 0, "Number of iterations (0 = from configuration)")
	cmd.Flag.IntVar(&BeamSize, "b", 50, "Chart cell beam size")
	cmd.Flag.Float64Var(&LexInit, "lexinit", 0, "Initial weight of seed lexicon entries")
	cmd.Flag.StringVar(&strategyName, "s", "", "Optional - Learner [perceptron, stocgrad] (default from configuration)")
	cmd.Flag.BoolVar(&averaged, "avg", false, "Average parameters over all updates")
	cmd.Flag.StringVar(&modelFile, "m", "", "Output model file")
	cmd.Flag.StringVar(&tCorpus, "tc", "", "Training corpus file")
	cmd.Flag.StringVar(&lexFile, "lex", "", "Optional - Seed lexicon file")
	cmd.Flag.StringVar(&rulesFile, "rules", "", "Optional - Rules configuration file (one rule name per line)")
	cmd.Flag.StringVar(&configFile, "conf", "", "Optional - Learner configuration file (yaml)")
	cmd.Flag.StringVar(&metricsAddr, "metrics", "", "Optional - Address to serve prometheus metrics on")
	cmd.Flag.BoolVar(&showItems, "showitems", false, "Log every training item")
	cmd.Flag.BoolVar(&learn.LearnAllOut, "showlex", false, "Log lexical entries added by generation")
	return cmd
}
