package app

import (
	"fmt"
	"log"
	"os"

	"spf/alg/learn"
	"spf/eval"
	"spf/nlp/data"
	"spf/nlp/lambda"
	"spf/util"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	pb "github.com/schollz/progressbar/v3"
)

const errorClasses = 3

func Eval(cmd *commander.Command, args []string) error {
	VerifyFlags(cmd, []string{"m", "in"})
	rules := SetupRules(rulesFile)
	if allOut {
		ConfigOut(rules)
		log.Printf("Test corpus:\t\t%s", input)
	}
	m := ReadModel(modelFile)
	items := ReadCorpus(input, nil)

	tester := &eval.Tester[lambda.Term]{
		Parser:    SetupParser(rules),
		Validator: data.TermValidator(),
		Result:    learn.SemanticsResult,
		Log:       showItems,
	}
	bar := pb.NewOptions(items.Len(), pb.OptionSetWriter(os.Stderr), pb.OptionShowCount())
	total := tester.Test(m, items, func() { bar.Add(1) })
	bar.Finish()
	fmt.Println(total)
	for _, count := range util.TopN(total.Errors.ByType(), errorClasses) {
		fmt.Printf("%s\t%d\n", count.S, count.N)
	}
	return nil
}

func EvalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Eval,
		UsageLine: "eval <file options> [arguments]",
		Short:     "evaluates a model on a labeled corpus",
		Long: `
evaluates the exact match precision, recall and F1 of a model

	$ ./spf eval -m <model> -in <corpus> [options]

`,
		Flag: *flag.NewFlagSet("eval", flag.ExitOnError),
	}
	cmd.Flag.BoolVar(&ConcurrentChart, "bconc", true, "Concurrent chart")
	cmd.Flag.IntVar(&BeamSize, "b", 50, "Chart cell beam size")
	cmd.Flag.StringVar(&modelFile, "m", "", "Model file")
	cmd.Flag.StringVar(&input, "in", "", "Test corpus file")
	cmd.Flag.StringVar(&rulesFile, "rules", "", "Optional - Rules configuration file (one rule name per line)")
	cmd.Flag.BoolVar(&showItems, "showitems", false, "Log every incorrect item")
	return cmd
}
