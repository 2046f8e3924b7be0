package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/apparentlymart/sentgen/grammar"
	prompt "github.com/c-bata/go-prompt"
)

func interactive(gen *grammar.Generator, start string, debug bool) int {
	complete := labelCompleter(gen.Grammar())
	fmt.Printf("Enter a rule label to generate from it, or nothing to use %q.\n", start)
	for {
		inp := strings.TrimSpace(prompt.Input("> ", complete))
		if inp == "exit" || inp == "quit" {
			fmt.Printf("bye!\n")
			break
		}
		label := inp
		if label == "" {
			label = start
		}
		if _, ok := gen.Grammar().Lookup(label); !ok {
			fmt.Printf("there is no rule named %q\n", label)
			continue
		}

		sentence, truncs := gen.Generate(label)
		for _, t := range truncs {
			log.Printf("warning: %s", t)
		}
		if len(sentence) == 0 {
			fmt.Printf("(nothing generated)\n")
			continue
		}
		if debug {
			fmt.Printf("%s\n", sentence.StringTagged())
		} else {
			fmt.Printf("%s\n", sentence)
		}
	}
	return 0
}

// labelCompleter suggests the labels of the grammar's rules, describing
// each by its right-hand side.
func labelCompleter(g *grammar.Grammar) prompt.Completer {
	suggests := make([]prompt.Suggest, 0, g.Len())
	for _, r := range g.Rules() {
		srcs := make([]string, len(r.Constituents))
		for i, c := range r.Constituents {
			srcs[i] = c.Source
		}
		suggests = append(suggests, prompt.Suggest{
			Text:        r.Label,
			Description: strings.Join(srcs, ","),
		})
	}
	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}
}
