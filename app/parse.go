package app

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"spf/nlp/data"
	"spf/nlp/model"
	"spf/nlp/parser/chart"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

const noParse = "NO PARSE"

// WriteParses writes the best parse of each sentence on its own line
func WriteParses(writer io.Writer, sentences []data.Sentence, parser *chart.Parser, m *model.Model) error {
	out := bufio.NewWriter(writer)
	for i, sentence := range sentences {
		if allOut {
			log.Println("Parsing sentence", i)
		}
		best := parser.Parse(sentence.Tokens, m.CreateDataItemModel()).BestParses()
		line := noParse
		if len(best) > 0 {
			line = best[0].Semantics().String()
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return out.Flush()
}

func Parse(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, []string{"m", "in"})
	rules := SetupRules(rulesFile)
	if allOut {
		ConfigOut(rules)
		log.Printf("Input file:\t\t%s", input)
		log.Printf("Out file:\t\t%s", outFile)
	}
	m := ReadModel(modelFile)

	file, err := os.Open(input)
	if err != nil {
		log.Fatalln("Failed opening input", input, err)
	}
	sentences, err := data.ReadSentences(file)
	file.Close()
	if err != nil {
		log.Fatalln("Failed reading input", input, err)
	}

	writer := io.Writer(os.Stdout)
	if len(outFile) > 0 {
		out, err := os.Create(outFile)
		if err != nil {
			log.Fatalln("Failed creating output file", outFile, err)
		}
		defer out.Close()
		writer = out
	}
	startTime := time.Now()
	if err := WriteParses(writer, sentences, SetupParser(rules), m); err != nil {
		return err
	}
	if allOut {
		log.Println("PARSE Total Time:", time.Since(startTime))
	}
	return nil
}

func ParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Parse,
		UsageLine: "parse <file options> [arguments]",
		Short:     "parses sentences into logical forms",
		Long: `
parses sentences, one per line, printing the logical form of the best parse of each

	$ ./spf parse -m <model> -in <sentences> [-out <file>] [options]

`,
		Flag: *flag.NewFlagSet("parse", flag.ExitOnError),
	}
	cmd.Flag.BoolVar(&ConcurrentChart, "bconc", true, "Concurrent chart")
	cmd.Flag.IntVar(&BeamSize, "b", 50, "Chart cell beam size")
	cmd.Flag.StringVar(&modelFile, "m", "", "Model file")
	cmd.Flag.StringVar(&input, "in", "", "Input sentences file")
	cmd.Flag.StringVar(&outFile, "out", "", "Optional - Output file (default stdout)")
	cmd.Flag.StringVar(&rulesFile, "rules", "", "Optional - Rules configuration file (one rule name per line)")
	cmd.Flag.BoolVar(&chart.AllOut, "showchart", false, "Log chart statistics")
	return cmd
}
