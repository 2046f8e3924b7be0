package grammar

import (
	"fmt"
	"strings"
)

// TokenEvent is a single terminal token produced during generation.
type TokenEvent struct {
	// Text is the token as it should be displayed, without annotations.
	Text string

	// Rule is the label of the rule that produced the token. It is empty
	// only when generation began at a label that names no rule.
	Rule string

	// Annotations are the token's input unit values, if any.
	Annotations []string
}

func (ev TokenEvent) GoString() string {
	return fmt.Sprintf("grammar.TokenEvent{Text: %q, Rule: %q, Annotations: %#v}", ev.Text, ev.Rule, ev.Annotations)
}

// Sentence is the sequence of tokens produced by one call to
// Generator.Generate.
type Sentence []TokenEvent

// String returns the display text of the sentence's tokens separated by
// spaces.
func (s Sentence) String() string {
	var ret strings.Builder
	for i, ev := range s {
		if i > 0 {
			ret.WriteByte(' ')
		}
		ret.WriteString(ev.Text)
	}
	return ret.String()
}

// StringTagged is like String but also includes the owning rule label of
// each token, as in "the/DET dog/N".
func (s Sentence) StringTagged() string {
	var ret strings.Builder
	for i, ev := range s {
		if i > 0 {
			ret.WriteByte(' ')
		}
		ret.WriteString(ev.Text)
		ret.WriteByte('/')
		ret.WriteString(ev.Rule)
	}
	return ret.String()
}

// Texts returns just the display text of each token.
func (s Sentence) Texts() []string {
	ret := make([]string, len(s))
	for i, ev := range s {
		ret[i] = ev.Text
	}
	return ret
}
