package grammar

import (
	"fmt"
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set"
)

// weightTolerance absorbs rounding when summing decimal-fraction weights.
const weightTolerance = 1e-9

// Diagnostic is a problem found by Check. None of them prevent generation,
// but each may make the output different from what the grammar's author
// intended.
type Diagnostic struct {
	Rule    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("rule %q: %s", d.Rule, d.Message)
}

// Check inspects the grammar for likely mistakes, assuming that generation
// will begin at the given label.
func Check(g *Grammar, start string) []Diagnostic {
	var diags []Diagnostic

	for _, label := range g.duplicates {
		diags = append(diags, Diagnostic{label, "defined more than once; only the first definition is used"})
	}

	for _, r := range g.rules {
		for _, c := range r.Constituents {
			if !c.IsWeighted() {
				continue
			}
			total := c.TotalWeight()
			switch {
			case isUnitWeight(total):
			case total < 1:
				diags = append(diags, Diagnostic{r.Label, fmt.Sprintf("weights of %q sum to %g, so it will sometimes produce nothing", c.Source, total)})
			default:
				diags = append(diags, Diagnostic{r.Label, fmt.Sprintf("weights of %q sum to %g, so its later options are less likely than written", c.Source, total)})
			}
		}
	}

	reached := reachableFrom(g, start)
	for _, r := range g.rules {
		if !reached.Contains(r.Label) {
			diags = append(diags, Diagnostic{r.Label, fmt.Sprintf("unreachable from %q", start)})
		}
	}

	for _, label := range recursiveRules(g) {
		diags = append(diags, Diagnostic{label, "refers back to itself, so expansion may not terminate"})
	}

	return diags
}

// references returns the labels of the rules that the given rule may
// expand into directly. Positions after the first terminal are never
// expanded, so they are not included.
func references(g *Grammar, r *Rule) []string {
	var ret []string
	for _, c := range r.Constituents {
		if c.IsWeighted() {
			for _, opt := range c.Options {
				if _, ok := g.Lookup(opt.Label); ok {
					ret = append(ret, opt.Label)
				}
			}
			continue
		}
		if _, ok := g.Lookup(c.Label); !ok {
			break
		}
		ret = append(ret, c.Label)
	}
	return ret
}

func reachableFrom(g *Grammar, start string) mapset.Set {
	seen := mapset.NewThreadUnsafeSet()
	queue := []string{start}
	for len(queue) > 0 {
		label := queue[0]
		queue = queue[1:]
		r, ok := g.Lookup(label)
		if !ok || !seen.Add(label) {
			continue
		}
		queue = append(queue, references(g, r)...)
	}
	return seen
}

// recursiveRules returns, in sorted order, the labels of all rules that
// can reach themselves again through references.
func recursiveRules(g *Grammar) []string {
	recursive := mapset.NewThreadUnsafeSet()
	for _, r := range g.rules {
		// Anything reachable from the rule's own references that leads
		// back to the rule means a cycle.
		seen := mapset.NewThreadUnsafeSet()
		for _, ref := range references(g, r) {
			seen = seen.Union(reachableFrom(g, ref))
		}
		if seen.Contains(r.Label) {
			recursive.Add(r.Label)
		}
	}

	ret := make([]string, 0, recursive.Cardinality())
	for v := range recursive.Iter() {
		ret = append(ret, v.(string))
	}
	sort.Strings(ret)
	return ret
}

// isUnitWeight reports whether the given total is close enough to one.
func isUnitWeight(total float64) bool {
	return math.Abs(total-1) <= weightTolerance
}
