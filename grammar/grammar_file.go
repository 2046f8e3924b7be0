package grammar

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
)

// compiledVersion is bumped whenever the snapshot layout changes.
const compiledVersion = 1

// LoadCompiled reads a grammar snapshot from the given reader, which must be
// in the format created by Grammar.Save.
func LoadCompiled(r io.Reader) (*Grammar, error) {
	var fg fGrammar
	src, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(src) < len(fMagic) || !bytes.Equal(src[:len(fMagic)], fMagic) {
		return nil, fmt.Errorf("not a compiled grammar file")
	}
	err = msgpack.Unmarshal(src[len(fMagic):], &fg)
	if err != nil {
		return nil, fmt.Errorf("invalid compiled grammar file: %s", err)
	}
	if fg.Version != compiledVersion {
		return nil, fmt.Errorf("wrong compiled grammar version %d; need %d", fg.Version, compiledVersion)
	}

	ret := newGrammar()
	for i, fr := range fg.Rules {
		if fr.Label == "" {
			return nil, fmt.Errorf("rule %d has no label", i)
		}
		rule := &Rule{
			Label:        fr.Label,
			Constituents: make([]Constituent, len(fr.Constituents)),
		}
		for j, fc := range fr.Constituents {
			c := Constituent{
				Symbol: Symbol(fc.Symbol),
				Source: fc.Source,
			}
			for _, fo := range fc.Options {
				c.Options = append(c.Options, Option{
					Symbol: Symbol(fo.Symbol),
					Weight: fo.Weight,
				})
			}
			rule.Constituents[j] = c
		}
		ret.add(rule)
	}
	debugf("loaded %d rules from compiled grammar", len(ret.rules))
	return ret, nil
}

// Save writes a snapshot of the receiving grammar into the given writer in a
// binary format that can be reloaded later with LoadCompiled, skipping the
// work of parsing the grammar text again.
func (g *Grammar) Save(w io.Writer) error {
	var fg fGrammar
	fg.Version = compiledVersion
	fg.Rules = make([]fRule, 0, len(g.rules))
	for _, r := range g.rules {
		fr := fRule{
			Label:        r.Label,
			Constituents: make([]fConstituent, len(r.Constituents)),
		}
		for i, c := range r.Constituents {
			fc := fConstituent{
				Source: c.Source,
				Symbol: fSymbol(c.Symbol),
			}
			for _, opt := range c.Options {
				fc.Options = append(fc.Options, fOption{
					Symbol: fSymbol(opt.Symbol),
					Weight: opt.Weight,
				})
			}
			fr.Constituents[i] = fc
		}
		fg.Rules = append(fg.Rules, fr)
	}

	src, err := msgpack.Marshal(&fg)
	if err != nil {
		return err
	}
	_, err = w.Write(fMagic)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

// LoadFile is like Load but it first opens the given filename and then
// reads data from it.
func LoadFile(filename, charset string) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open grammar")
	}
	defer f.Close()
	return Load(f, filename, charset)
}

// SaveFile is like Save but it creates a file with the given filename
// and then writes the data to it.
func (g *Grammar) SaveFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	err = g.Save(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

var fMagic = []byte{'S', 'G', 'R', 'M'}

type fGrammar struct {
	Version int64   `msgpack:"version"`
	Rules   []fRule `msgpack:"rules"`
}

type fRule struct {
	Label        string         `msgpack:"l"`
	Constituents []fConstituent `msgpack:"c"`
}

type fConstituent struct {
	Source  string    `msgpack:"s"`
	Symbol  fSymbol   `msgpack:"y"`
	Options []fOption `msgpack:"o"`
}

type fOption struct {
	Symbol fSymbol `msgpack:"y"`
	Weight float64 `msgpack:"w"`
}

type fSymbol struct {
	Label       string
	Annotations []string
}

var (
	_ msgpack.Marshaler   = (*fSymbol)(nil)
	_ msgpack.Unmarshaler = (*fSymbol)(nil)
)

// MarshalMsgpack writes a symbol as a flat array with its label first and
// its annotations after.
func (s fSymbol) MarshalMsgpack() ([]byte, error) {
	v := make([]string, 0, len(s.Annotations)+1)
	v = append(v, s.Label)
	v = append(v, s.Annotations...)
	return msgpack.Marshal(v)
}

func (s *fSymbol) UnmarshalMsgpack(src []byte) error {
	var v []string
	err := msgpack.Unmarshal(src, &v)
	if err != nil {
		return err
	}
	if len(v) == 0 {
		*s = fSymbol{}
		return nil
	}
	s.Label = v[0]
	s.Annotations = nil
	if len(v) > 1 {
		s.Annotations = v[1:]
	}
	return nil
}
