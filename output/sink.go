// Package output writes generated sentences in the formats understood by
// people and by other tools.
package output

import (
	"github.com/apparentlymart/sentgen/grammar"
)

// Sink receives the tokens of generated sentences.
type Sink interface {
	// Token is called once for each token of a sentence, in order.
	Token(ev grammar.TokenEvent) error

	// EndSentence is called after the last token of each sentence.
	EndSentence() error
}

// Set is the collection of sinks active for a run. Any of the sinks may be
// nil, in which case nothing is written in that format.
type Set struct {
	Verbose   Sink
	Human     Sink
	Computer  Sink
	DataTeach *DataTeachSink
}

func (s *Set) sinks() []Sink {
	ret := make([]Sink, 0, 4)
	for _, sink := range []Sink{s.Verbose, s.Human, s.Computer} {
		if sink != nil {
			ret = append(ret, sink)
		}
	}
	if s.DataTeach != nil {
		ret = append(ret, s.DataTeach)
	}
	return ret
}

// Emit writes the given sentence to all of the active sinks.
func (s *Set) Emit(sentence grammar.Sentence) error {
	sinks := s.sinks()
	for _, ev := range sentence {
		for _, sink := range sinks {
			if err := sink.Token(ev); err != nil {
				return err
			}
		}
	}
	for _, sink := range sinks {
		if err := sink.EndSentence(); err != nil {
			return err
		}
	}
	return nil
}
