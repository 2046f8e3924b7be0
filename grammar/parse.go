package grammar

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// MalformedGrammarError is returned when a line of grammar text cannot be
// understood as a rule.
type MalformedGrammarError struct {
	Filename string
	Line     int
	Text     string
	Reason   string
}

func (e *MalformedGrammarError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("malformed grammar at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed grammar at %s:%d: %s", e.Filename, e.Line, e.Reason)
}

// ParseString is like Parse but reads the grammar from a string.
func ParseString(src string) (*Grammar, error) {
	return Parse(strings.NewReader(src), "")
}

// Parse reads grammar text from the given reader. The filename is used
// only to annotate errors and may be empty.
//
// The text is line-oriented. Blank lines and lines beginning with "!" are
// ignored, and every other line is a rule of the form
//
//	LABEL>CONSTITUENT,CONSTITUENT,...
//
// A constituent containing "." is a weighted group of "|"-separated options,
// each with a decimal-fraction weight suffix, as in "NP.70|PP.30". Any other
// constituent is a plain label, optionally followed by "}" and a
// "+"-separated list of input unit values, as in "ran}2+0+1".
func Parse(r io.Reader, filename string) (*Grammar, error) {
	g := newGrammar()
	sc := bufio.NewScanner(r)
	// Leaf rules can list many thousands of terminals on one line.
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt32)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "!") {
			continue
		}
		rule, reason := parseRule(line)
		if reason != "" {
			return nil, &MalformedGrammarError{
				Filename: filename,
				Line:     lineNum,
				Text:     line,
				Reason:   reason,
			}
		}
		g.add(rule)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read grammar %s", filename)
	}
	if len(g.rules) == 0 {
		return nil, &MalformedGrammarError{
			Filename: filename,
			Line:     lineNum,
			Reason:   "grammar has no rules",
		}
	}
	debugf("loaded %d rules from %q", len(g.rules), filename)
	return g, nil
}

// parseRule parses a single rule line. If the line is malformed then the
// second return value is a non-empty description of the problem.
func parseRule(line string) (*Rule, string) {
	sep := strings.IndexByte(line, '>')
	if sep < 0 {
		return nil, "missing '>' after rule label"
	}
	label := norm.NFC.String(strings.TrimSpace(line[:sep]))
	if label == "" {
		return nil, "empty rule label"
	}
	rhs := line[sep+1:]
	if next := strings.IndexByte(rhs, '>'); next >= 0 {
		// Anything after a second '>' was never part of the rule.
		rhs = rhs[:next]
	}

	rule := &Rule{Label: label}
	for _, src := range strings.Split(rhs, ",") {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		c, reason := parseConstituent(src)
		if reason != "" {
			return nil, reason
		}
		rule.Constituents = append(rule.Constituents, c)
	}
	if len(rule.Constituents) == 0 {
		return nil, fmt.Sprintf("rule %q has no constituents", label)
	}
	return rule, ""
}

func parseConstituent(src string) (Constituent, string) {
	c := Constituent{Source: src}
	if !strings.Contains(src, ".") {
		sym, reason := parseSymbol(src)
		c.Symbol = sym
		return c, reason
	}

	for _, optSrc := range strings.Split(src, "|") {
		if optSrc == "" {
			continue
		}
		dot := strings.LastIndexByte(optSrc, '.')
		if dot < 0 {
			return c, fmt.Sprintf("option %q in %q has no weight", optSrc, src)
		}
		weight, ok := parseWeight(optSrc[dot+1:])
		if !ok {
			return c, fmt.Sprintf("weight of option %q in %q is not a decimal fraction", optSrc, src)
		}
		sym, reason := parseSymbol(optSrc[:dot])
		if reason != "" {
			return c, reason
		}
		c.Options = append(c.Options, Option{Symbol: sym, Weight: weight})
	}
	if len(c.Options) == 0 {
		return c, fmt.Sprintf("weighted group %q has no options", src)
	}
	return c, ""
}

// parseWeight interprets the digits after an option's "." as a fraction,
// so "70" is 0.70 and "05" is 0.05.
func parseWeight(digits string) (float64, bool) {
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(n) / math.Pow10(len(digits)), true
}

// parseSymbol splits a label from its "}"-delimited input unit annotations.
func parseSymbol(src string) (Symbol, string) {
	text, meta := src, ""
	if brace := strings.IndexByte(src, '}'); brace >= 0 {
		text, meta = src[:brace], src[brace+1:]
		if next := strings.IndexByte(meta, '}'); next >= 0 {
			meta = meta[:next]
		}
	}
	if text == "" {
		return Symbol{}, fmt.Sprintf("empty label in %q", src)
	}
	sym := Symbol{Label: norm.NFC.String(text)}
	for _, unit := range strings.Split(meta, "+") {
		if unit != "" {
			sym.Annotations = append(sym.Annotations, unit)
		}
	}
	return sym, ""
}
