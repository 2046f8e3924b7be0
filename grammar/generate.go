package grammar

import (
	"fmt"
)

// DefaultMaxDepth is the rule nesting depth at which a Generator gives up
// on a branch.
const DefaultMaxDepth = 1000

// Generator expands labels of a Grammar into sentences of terminal tokens.
//
// A Generator holds no state between calls other than its source of
// randomness, and so it can be used for any number of sentences. It is not
// safe for concurrent use unless its Rand is.
type Generator struct {
	grammar *Grammar
	rnd     Rand

	// MaxDepth limits how deeply rules may nest within a single sentence.
	// Grammars with unconditional recursion would otherwise never stop
	// expanding.
	MaxDepth int
}

// NewGenerator returns a generator for the given grammar that takes its
// random choices from the given source.
func NewGenerator(g *Grammar, rnd Rand) *Generator {
	return &Generator{
		grammar:  g,
		rnd:      rnd,
		MaxDepth: DefaultMaxDepth,
	}
}

// Grammar returns the grammar the generator is expanding.
func (gen *Generator) Grammar() *Grammar {
	return gen.grammar
}

// TruncationReason describes why a branch of a sentence produced no tokens.
type TruncationReason int

const (
	// WeightsExhausted means a weighted group's weights summed to less than
	// the random draw, and so none of its options was selected.
	WeightsExhausted TruncationReason = iota

	// DepthExceeded means rules nested more deeply than the generator's
	// MaxDepth.
	DepthExceeded
)

// Truncation records a branch of a sentence that was abandoned without
// producing any tokens. Truncations are not errors: the rest of the
// sentence is still generated, but the caller may wish to warn about them.
type Truncation struct {
	Reason TruncationReason

	// Rule is the label of the rule being expanded when the branch was
	// abandoned.
	Rule string

	// Group is the weighted group as written in the grammar, and Draw the
	// random value that none of its options reached. Both are set only for
	// WeightsExhausted.
	Group string
	Draw  float64
}

func (t Truncation) String() string {
	switch t.Reason {
	case WeightsExhausted:
		return fmt.Sprintf("in rule %q, no option of %q covers draw %.4f", t.Rule, t.Group, t.Draw)
	case DepthExceeded:
		return fmt.Sprintf("in rule %q, maximum nesting depth exceeded", t.Rule)
	default:
		return fmt.Sprintf("in rule %q, branch abandoned", t.Rule)
	}
}

// expansion is the transient state of a single call to Generate.
type expansion struct {
	gen    *Generator
	tokens Sentence
	truncs []Truncation
}

// Generate expands the given label into a sentence.
//
// If the label names a rule, each of the rule's constituents is expanded in
// order: references to other rules are expanded recursively, weighted groups
// have one option chosen by weight, and the first terminal ends the rule
// with a token chosen uniformly from all of the rule's terminals. If the
// label names no rule, it is itself the only token of the sentence.
//
// The second return value lists any branches that produced nothing.
func (gen *Generator) Generate(start string) (Sentence, []Truncation) {
	e := &expansion{gen: gen}
	debugf("generating from %q", start)
	if rule, ok := gen.grammar.Lookup(start); ok {
		e.expandRule(rule, 0)
	} else {
		e.emit(Symbol{Label: start}, "")
	}
	if debugLogger != nil {
		debugf("generated %q", e.tokens.StringTagged())
	}
	return e.tokens, e.truncs
}

func (e *expansion) expandRule(rule *Rule, depth int) {
	if e.gen.MaxDepth > 0 && depth > e.gen.MaxDepth {
		debugf("depth limit reached at rule %q", rule.Label)
		e.truncs = append(e.truncs, Truncation{
			Reason: DepthExceeded,
			Rule:   rule.Label,
		})
		return
	}

	for _, c := range rule.Constituents {
		if c.IsWeighted() {
			e.expandWeighted(rule, c, depth)
			continue
		}
		if ref, ok := e.gen.grammar.Lookup(c.Label); ok {
			e.expandRule(ref, depth+1)
			continue
		}

		// Reaching a terminal means this rule is a token list, and so we
		// emit one of its terminals and ignore any remaining positions.
		e.emitUniform(rule)
		return
	}
}

func (e *expansion) expandWeighted(rule *Rule, c Constituent, depth int) {
	draw := e.gen.rnd.Float64()
	idx, ok := chooseWeighted(c.Options, draw)
	if !ok {
		debugf("no option of %q in rule %q covers draw %f", c.Source, rule.Label, draw)
		e.truncs = append(e.truncs, Truncation{
			Reason: WeightsExhausted,
			Rule:   rule.Label,
			Group:  c.Source,
			Draw:   draw,
		})
		return
	}

	opt := c.Options[idx]
	debugf("chose option %q of %q in rule %q", opt.Label, c.Source, rule.Label)
	if ref, ok := e.gen.grammar.Lookup(opt.Label); ok {
		e.expandRule(ref, depth+1)
		return
	}
	e.emit(opt.Symbol, rule.Label)
}

func (e *expansion) emitUniform(rule *Rule) {
	terminals := make([]Symbol, 0, len(rule.Constituents))
	for _, c := range rule.Constituents {
		if c.IsWeighted() {
			continue
		}
		if _, isRule := e.gen.grammar.Lookup(c.Label); isRule {
			continue
		}
		terminals = append(terminals, c.Symbol)
	}
	idx := chooseUniform(len(terminals), e.gen.rnd.Float64())
	e.emit(terminals[idx], rule.Label)
}

func (e *expansion) emit(sym Symbol, ruleLabel string) {
	e.tokens = append(e.tokens, TokenEvent{
		Text:        sym.Label,
		Rule:        ruleLabel,
		Annotations: sym.Annotations,
	})
}
