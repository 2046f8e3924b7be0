package grammar

import (
	"bytes"
	"math/rand"
	"strings"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// fixedRand returns its draws in order, starting again from the first
// once they are exhausted.
type fixedRand struct {
	draws []float64
	next  int
}

func (r *fixedRand) Float64() float64 {
	d := r.draws[r.next%len(r.draws)]
	r.next++
	return d
}

func mustParse(t *testing.T, src string) *Grammar {
	t.Helper()
	g, err := ParseString(src)
	if err != nil {
		t.Fatalf("failed to parse grammar: %s", err)
	}
	return g
}

func TestGenerate(t *testing.T) {
	g := mustParse(t, "S>NP,VP\nNP>DET,N\nVP>V\nDET>the,a\nN>dog,cat\nV>ran}2+0+1,saw\n")

	// One draw each for DET, N and V, in that order.
	gen := NewGenerator(g, &fixedRand{draws: []float64{0.1, 0.9, 0.2}})
	got, truncs := gen.Generate("S")
	if len(truncs) != 0 {
		t.Errorf("unexpected truncations: %s", spew.Sdump(truncs))
	}
	want := Sentence{
		{Text: "the", Rule: "DET"},
		{Text: "cat", Rule: "N"},
		{Text: "ran", Rule: "V", Annotations: []string{"2", "0", "1"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wrong sentence\ngot:  %swant: %s", spew.Sdump(got), spew.Sdump(want))
	}
	if got, want := got.String(), "the cat ran"; got != want {
		t.Errorf("wrong text %q; want %q", got, want)
	}
	if got, want := got.StringTagged(), "the/DET cat/N ran/V"; got != want {
		t.Errorf("wrong tagged text %q; want %q", got, want)
	}
}

func TestGenerateOnlyLeafTerminals(t *testing.T) {
	g := mustParse(t, "S>NP,VP\nNP>N\nVP>V\nN>dog,cat\nV>ran,slept\n")
	gen := NewGenerator(g, rand.New(rand.NewSource(1)))
	for i := 0; i < 200; i++ {
		s, _ := gen.Generate("S")
		if len(s) != 2 {
			t.Fatalf("wrong sentence length %d in %q", len(s), s)
		}
		if s[0].Rule != "N" || (s[0].Text != "dog" && s[0].Text != "cat") {
			t.Fatalf("unexpected token %#v under N", s[0])
		}
		if s[1].Rule != "V" || (s[1].Text != "ran" && s[1].Text != "slept") {
			t.Fatalf("unexpected token %#v under V", s[1])
		}
	}
}

func TestGenerateStartIsTerminal(t *testing.T) {
	g := mustParse(t, "S>N\nN>dog\n")
	gen := NewGenerator(g, &fixedRand{draws: []float64{0}})
	got, _ := gen.Generate("hello")
	want := Sentence{{Text: "hello"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wrong sentence\ngot:  %swant: %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestGenerateTerminalEndsRule(t *testing.T) {
	// Once "stop" is reached, VP is never expanded.
	g := mustParse(t, "S>NP,stop,VP\nNP>the\nVP>ran\n")
	gen := NewGenerator(g, &fixedRand{draws: []float64{0.5}})
	got, _ := gen.Generate("S")
	want := Sentence{
		{Text: "the", Rule: "NP"},
		{Text: "stop", Rule: "S"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wrong sentence\ngot:  %swant: %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestGenerateWeighted(t *testing.T) {
	g := mustParse(t, "S>NP.70|PP.30,done.50|over.50\nNP>dog\nPP>in\n")
	tests := []struct {
		draws []float64
		want  []string
	}{
		// The draws are for the first group, the uniform choice within
		// the chosen rule, and then the second group.
		{[]float64{0, 0, 0.2}, []string{"dog", "done"}},
		{[]float64{0.7, 0, 0.5}, []string{"dog", "done"}},
		{[]float64{0.71, 0, 0.51}, []string{"in", "over"}},
		{[]float64{0.99, 0.99, 0.99}, []string{"in", "over"}},
	}
	for _, test := range tests {
		gen := NewGenerator(g, &fixedRand{draws: test.draws})
		s, truncs := gen.Generate("S")
		if len(truncs) != 0 {
			t.Errorf("%v: unexpected truncations: %s", test.draws, spew.Sdump(truncs))
		}
		if got := s.Texts(); !reflect.DeepEqual(got, test.want) {
			t.Errorf("%v: wrong tokens %q; want %q", test.draws, got, test.want)
		}
		// A terminal chosen from a weighted group belongs to the rule
		// containing the group.
		if got, want := s[1].Rule, "S"; got != want {
			t.Errorf("%v: wrong rule %q for weighted terminal; want %q", test.draws, got, want)
		}
	}
}

func TestGenerateWeightsExhausted(t *testing.T) {
	g := mustParse(t, "S>A,X.50|Y.40,B\nA>a\nB>b\nX>x\nY>y\n")
	gen := NewGenerator(g, &fixedRand{draws: []float64{0.95}})
	got, truncs := gen.Generate("S")

	if got, want := got.Texts(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("wrong tokens %q; want %q", got, want)
	}
	want := []Truncation{
		{
			Reason: WeightsExhausted,
			Rule:   "S",
			Group:  "X.50|Y.40",
			Draw:   0.95,
		},
	}
	if !reflect.DeepEqual(truncs, want) {
		t.Errorf("wrong truncations\ngot:  %swant: %s", spew.Sdump(truncs), spew.Sdump(want))
	}
}

func TestGenerateDepthLimit(t *testing.T) {
	g := mustParse(t, "S>S\n")
	gen := NewGenerator(g, &fixedRand{draws: []float64{0}})
	gen.MaxDepth = 10
	got, truncs := gen.Generate("S")
	if len(got) != 0 {
		t.Errorf("unexpected tokens %q", got)
	}
	if len(truncs) != 1 || truncs[0].Reason != DepthExceeded {
		t.Errorf("wrong truncations %s", spew.Sdump(truncs))
	}
}

// chiSquareP returns the probability of seeing counts at least as far from
// the expected proportions as those observed, if the proportions are right.
func chiSquareP(counts map[string]int, want map[string]float64, trials int) float64 {
	obs := make([]float64, 0, len(want))
	exp := make([]float64, 0, len(want))
	for k, p := range want {
		obs = append(obs, float64(counts[k]))
		exp = append(exp, p*float64(trials))
	}
	x := stat.ChiSquare(obs, exp)
	dist := distuv.ChiSquared{K: float64(len(want) - 1)}
	return 1 - dist.CDF(x)
}

func TestGenerateUniformDistribution(t *testing.T) {
	g := mustParse(t, "N>dog,cat,bird,fish,horse\n")
	gen := NewGenerator(g, rand.New(rand.NewSource(42)))

	const trials = 20000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		s, _ := gen.Generate("N")
		counts[s[0].Text]++
	}

	want := map[string]float64{"dog": 0.2, "cat": 0.2, "bird": 0.2, "fish": 0.2, "horse": 0.2}
	if p := chiSquareP(counts, want, trials); p < 1e-4 {
		t.Errorf("selection is not uniform (p=%g): %v", p, counts)
	}
}

func TestGenerateWeightedDistribution(t *testing.T) {
	g := mustParse(t, "S>a.60|b.30|c.10\n")
	gen := NewGenerator(g, rand.New(rand.NewSource(42)))

	const trials = 20000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		s, truncs := gen.Generate("S")
		if len(truncs) != 0 {
			t.Fatalf("unexpected truncations: %s", spew.Sdump(truncs))
		}
		counts[s[0].Text]++
	}

	want := map[string]float64{"a": 0.6, "b": 0.3, "c": 0.1}
	if p := chiSquareP(counts, want, trials); p < 1e-4 {
		t.Errorf("selection does not follow weights (p=%g): %v", p, counts)
	}
}

func TestGenerateDebugLog(t *testing.T) {
	var buf bytes.Buffer
	SetDebugLog(&buf, "grammar: ")
	defer func() { debugLogger = nil }()

	g := mustParse(t, "S>N\nN>dog\n")
	gen := NewGenerator(g, &fixedRand{draws: []float64{0}})
	gen.Generate("S")

	if got, want := buf.String(), `grammar: generated "dog/N"`; !strings.Contains(got, want) {
		t.Errorf("debug log %q does not contain %q", got, want)
	}
}
