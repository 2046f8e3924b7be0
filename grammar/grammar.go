package grammar

import (
	"fmt"
	"io"
	"strings"
)

// Grammar is the main type in this package: an immutable table of rewrite
// rules, kept in declaration order and indexed by label.
//
// A Grammar is built once by Parse (or loaded from a compiled snapshot) and
// is never modified afterwards, so it may be shared between any number of
// concurrent Generators.
type Grammar struct {
	rules   []*Rule
	byLabel map[string]*Rule

	// duplicates are the labels of rule lines that were ignored because an
	// earlier line already defined the same label.
	duplicates []string
}

// Rule is a single labelled production, like "S>NP,VP".
type Rule struct {
	Label        string
	Constituents []Constituent
}

// Symbol is a label that is either a reference to another rule or a
// terminal token, depending on whether the grammar has a rule of that name.
//
// For terminals, Annotations holds the "+"-separated input unit values that
// were written after a "}" in the grammar, e.g. "ran}2+0+1" has the label
// "ran" and annotations "2", "0", "1".
type Symbol struct {
	Label       string
	Annotations []string
}

// Option is one branch of a weighted group, like the "NP.70" in
// "NP.70|PP.30".
type Option struct {
	Symbol
	Weight float64
}

// Constituent is one position on the right-hand side of a rule. It is
// either a plain Symbol or, if Options is non-empty, a weighted group from
// which one option is chosen at random for the position.
type Constituent struct {
	Symbol
	Options []Option

	// Source is the constituent exactly as written in the grammar file.
	Source string
}

// IsWeighted returns true if the constituent is a weighted group.
func (c Constituent) IsWeighted() bool {
	return len(c.Options) > 0
}

// TotalWeight returns the sum of the weights of the constituent's options,
// or zero if it is not a weighted group.
func (c Constituent) TotalWeight() float64 {
	var total float64
	for _, opt := range c.Options {
		total += opt.Weight
	}
	return total
}

// Alternatives returns the rule's right-hand side in declaration order.
func (r *Rule) Alternatives() []Constituent {
	return r.Constituents
}

func (r *Rule) GoString() string {
	return fmt.Sprintf("grammar.Rule{Label: %q, %d constituents}", r.Label, len(r.Constituents))
}

func newGrammar() *Grammar {
	return &Grammar{
		byLabel: make(map[string]*Rule),
	}
}

// add appends the given rule unless a rule of the same label already
// exists, in which case the first definition wins and the duplicate is only
// remembered so that Check can report it.
func (g *Grammar) add(r *Rule) {
	if _, exists := g.byLabel[r.Label]; exists {
		debugf("ignoring duplicate definition of rule %q", r.Label)
		g.duplicates = append(g.duplicates, r.Label)
		return
	}
	g.rules = append(g.rules, r)
	g.byLabel[r.Label] = r
}

// Lookup returns the rule with the given label. The second return value is
// false if no rule has that label, which means the label is a terminal.
func (g *Grammar) Lookup(label string) (*Rule, bool) {
	r, ok := g.byLabel[label]
	return r, ok
}

// Rules returns all of the grammar's rules in declaration order. The caller
// must not modify the result.
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

// Len returns the number of rules in the grammar.
func (g *Grammar) Len() int {
	return len(g.rules)
}

// Start returns the label of the first rule, which is where generation
// begins unless the caller asks for some other label. It returns an empty
// string for an empty grammar.
func (g *Grammar) Start() string {
	if len(g.rules) == 0 {
		return ""
	}
	return g.rules[0].Label
}

// Dump writes a numbered listing of all of the rules to the given writer,
// one per line, using the constituents as they were written in the grammar.
func (g *Grammar) Dump(w io.Writer) error {
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	for i, r := range g.rules {
		srcs := make([]string, len(r.Constituents))
		for j, c := range r.Constituents {
			srcs[j] = c.Source
		}
		_, err := fmt.Fprintf(w, " %d) %s--> %s\n", i+1, r.Label, strings.Join(srcs, ","))
		if err != nil {
			return err
		}
	}
	return nil
}
