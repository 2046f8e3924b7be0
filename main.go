package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/apparentlymart/sentgen/grammar"
	"github.com/apparentlymart/sentgen/output"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const usage = `
   sentgen usage: sentgen <grammar file>
                  [-e(xamples) #]
                  [-v(erbose)]
                  [-s(eed) #]
                  [-o(utput rule array)]
                  [-h(uman format save to) filename]
                  [-c(computer format save to) filename]
                  [-t(learn file name for .teach/.data) filename]

`

type options struct {
	grammarFile  string
	examples     int
	verbose      bool
	seed         int64
	outputRules  bool
	humanFile    string
	computerFile string
	tlearnBase   string
	start        string
	charset      string
	compileFile  string
	check        bool
	interactive  bool
	debug        bool
}

func main() {
	var opts options
	pflag.IntVarP(&opts.examples, "examples", "e", 1, "number of example sentences to generate")
	pflag.BoolVarP(&opts.verbose, "verbose", "v", false, "print each sentence to standard output")
	pflag.Int64VarP(&opts.seed, "seed", "s", 0, "seed for the random number generator")
	pflag.BoolVarP(&opts.outputRules, "output-rules", "o", false, "print the loaded rules before generating")
	pflag.StringVarP(&opts.humanFile, "human", "h", "", "file to save sentences to in human format")
	pflag.StringVarP(&opts.computerFile, "computer", "c", "", "file to save sentences to in computer (rule label) format")
	pflag.StringVarP(&opts.tlearnBase, "tlearn", "t", "", "base name of the .data and .teach files to write")
	pflag.StringVar(&opts.start, "start", "", "label to generate from, instead of the first rule")
	pflag.StringVar(&opts.charset, "charset", "", "character encoding of the grammar file (default UTF-8)")
	pflag.StringVar(&opts.compileFile, "compile", "", "save the loaded grammar as a compiled snapshot to this file")
	pflag.BoolVar(&opts.check, "check", false, "report likely problems in the grammar and exit")
	pflag.BoolVarP(&opts.interactive, "interactive", "i", false, "generate sentences on request at an interactive prompt")
	pflag.BoolVar(&opts.debug, "debug", false, "show how each sentence is expanded")
	pflag.Usage = func() {
		os.Stderr.WriteString(usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()
	args := pflag.Args()
	if len(args) != 1 {
		errUsage()
	}
	opts.grammarFile = args[0]

	if opts.debug {
		grammar.SetDebugLog(os.Stderr, "grammar: ")
	}

	os.Exit(run(opts))
}

func run(opts options) int {
	g, err := grammar.LoadFile(opts.grammarFile, opts.charset)
	if err != nil {
		if _, isOpen := errors.Cause(err).(*os.PathError); isOpen {
			fmt.Fprintf(os.Stderr, "\n   Error opening file %q. Please check that the file exists.\n   %s", opts.grammarFile, usage)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error loading grammar from %q: %s\n", opts.grammarFile, err)
		return 1
	}

	start := opts.start
	if start == "" {
		start = g.Start()
	}

	if opts.check || opts.debug {
		diags := grammar.Check(g, start)
		for _, diag := range diags {
			log.Printf("warning: %s", diag)
		}
		if opts.check {
			log.Printf("%d rules checked, %d problems found", g.Len(), len(diags))
			return 0
		}
	}

	if opts.compileFile != "" {
		if err := safeSaveGrammar(g, opts.compileFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save compiled grammar: %s\n", err)
			return 1
		}
		log.Printf("Compiled grammar saved in %s", opts.compileFile)
	}

	gen := grammar.NewGenerator(g, rand.New(rand.NewSource(opts.seed)))

	if opts.interactive {
		return interactive(gen, start, opts.debug)
	}
	return generate(gen, start, opts)
}

func generate(gen *grammar.Generator, start string, opts options) int {
	var sinks output.Set
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	create := func(filename string) (*os.File, bool) {
		f, err := os.Create(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %s: %s\n", filename, err)
			return nil, false
		}
		files = append(files, f)
		return f, true
	}

	if opts.verbose {
		sinks.Verbose = output.NewTextSink(os.Stdout)
	}
	if opts.humanFile != "" {
		f, ok := create(opts.humanFile)
		if !ok {
			return 1
		}
		sinks.Human = output.NewTextSink(f)
	}
	if opts.computerFile != "" {
		f, ok := create(opts.computerFile)
		if !ok {
			return 1
		}
		sinks.Computer = output.NewLabelSink(f)
	}
	dataFile, teachFile := "", ""
	if opts.tlearnBase != "" {
		dataFile, teachFile = opts.tlearnBase+".data", opts.tlearnBase+".teach"
		data, ok := create(dataFile)
		if !ok {
			return 1
		}
		teach, ok := create(teachFile)
		if !ok {
			return 1
		}
		sinks.DataTeach = output.NewDataTeachSink(data, teach, output.NewSession())
	}

	if opts.outputRules {
		if err := gen.Grammar().Dump(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write rules: %s\n", err)
			return 1
		}
	}

	fmt.Println()
	var lengths []float64
	for i := 0; i < opts.examples; i++ {
		sentence, truncs := gen.Generate(start)
		for _, t := range truncs {
			log.Printf("warning: sentence %d: %s", i+1, t)
		}
		if err := sinks.Emit(sentence); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write sentence %d: %s\n", i+1, err)
			return 1
		}
		lengths = append(lengths, float64(len(sentence)))
	}
	fmt.Println()

	if opts.debug {
		logLengthStats(lengths)
	}

	if sinks.DataTeach != nil {
		if err := sinks.DataTeach.Finish(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %s\n", teachFile, err)
			return 1
		}
	}
	closing := files
	files = nil
	for _, f := range closing {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %s\n", f.Name(), err)
			return 1
		}
	}

	// The header needs the final pattern count, so it can only be added
	// once everything else has been written.
	if sinks.DataTeach == nil {
		return 0
	}
	total := sinks.DataTeach.Session().TotalPatterns()
	for _, filename := range []string{dataFile, teachFile} {
		if err := output.PrependHeader(filename, total); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add header to %s: %s\n", filename, err)
			return 1
		}
	}
	return 0
}

func logLengthStats(lengths []float64) {
	if len(lengths) == 0 {
		return
	}
	mean, _ := stats.Mean(lengths)
	stddev, _ := stats.StandardDeviation(lengths)
	longest, _ := stats.Max(lengths)
	log.Printf("Sentences generated: %d (mean length %.2f tokens, stddev %.2f, longest %.0f)", len(lengths), mean, stddev, longest)
}

func errUsage() {
	os.Stderr.WriteString(usage)
	os.Exit(1)
}

func safeSaveGrammar(g *grammar.Grammar, filename string) error {
	tempName := filename + ".new"
	err := g.SaveFile(tempName)
	if err != nil {
		return err
	}
	return os.Rename(tempName, filename)
}
