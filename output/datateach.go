package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/apparentlymart/sentgen/grammar"
)

// DataTeachSink writes the paired ".data" and ".teach" files used to train
// a simple recurrent network to predict the next token.
//
// Each token becomes one pattern, written as a line of its comma-joined
// input units to the data file. The teach file holds the target for each
// pattern, which is the input of the one after it, and so it lags one
// token behind; the first pattern's units are written as the target of
// the last pattern by Finish.
type DataTeachSink struct {
	data  io.Writer
	teach io.Writer
	sess  *Session
}

// NewDataTeachSink returns a sink writing to the given data and teach
// writers, counting patterns in the given session.
func NewDataTeachSink(data, teach io.Writer, sess *Session) *DataTeachSink {
	return &DataTeachSink{
		data:  data,
		teach: teach,
		sess:  sess,
	}
}

// Session returns the session the sink records its patterns in.
func (s *DataTeachSink) Session() *Session {
	return s.sess
}

func (s *DataTeachSink) Token(ev grammar.TokenEvent) error {
	units := strings.Join(ev.Annotations, ",")
	return s.sess.record(ev.Annotations, func(idx int) error {
		if _, err := fmt.Fprintf(s.data, "%s\n", units); err != nil {
			return err
		}
		if idx == 0 {
			// Nothing precedes the first pattern, so it has no target yet.
			return nil
		}
		_, err := fmt.Fprintf(s.teach, "%d %s\n", idx-1, units)
		return err
	})
}

// EndSentence does nothing, because patterns run on across sentence
// boundaries.
func (s *DataTeachSink) EndSentence() error {
	return nil
}

// Finish writes the final teach line, pairing the last pattern with the
// first. It must be called once, after all sentences have been emitted.
func (s *DataTeachSink) Finish() error {
	_, err := fmt.Fprintf(s.teach, "%d %s", s.sess.TotalPatterns()-1, s.sess.FirstSegment())
	return err
}
