package output

import (
	"io"

	"github.com/apparentlymart/sentgen/grammar"
)

// lineSink writes one line per sentence, with one space-terminated field
// per token.
type lineSink struct {
	w     io.Writer
	field func(grammar.TokenEvent) string
}

// NewTextSink returns a sink that writes the display text of each token,
// for reading by people.
func NewTextSink(w io.Writer) Sink {
	return &lineSink{
		w:     w,
		field: func(ev grammar.TokenEvent) string { return ev.Text },
	}
}

// NewLabelSink returns a sink that writes the label of the rule that
// produced each token instead of the token itself.
func NewLabelSink(w io.Writer) Sink {
	return &lineSink{
		w:     w,
		field: func(ev grammar.TokenEvent) string { return ev.Rule },
	}
}

func (s *lineSink) Token(ev grammar.TokenEvent) error {
	_, err := io.WriteString(s.w, s.field(ev)+" ")
	return err
}

func (s *lineSink) EndSentence() error {
	_, err := io.WriteString(s.w, "\n")
	return err
}
