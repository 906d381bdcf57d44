package domain

import "math"

// CumulativeGrade returns the effective grade of n at depth. A level with
// gradeCumulative that is not the last level sums its children's effective
// grades, and has grade 0 when it has no children.
func CumulativeGrade(n *Node, t *Template, depth int) float64 {
	lvl := t.Level(depth)
	if lvl == nil || !lvl.UnitConfig.GradeCumulative || depth >= t.Depth()-1 {
		return n.Grade
	}
	var sum float64
	for _, child := range n.Subcategories {
		sum += CumulativeGrade(child, t, depth+1)
	}
	return sum
}

// UpdateCumulativeGrades stores the effective grade on every node whose
// level is cumulative.
func UpdateCumulativeGrades(f *Flow) {
	t := f.Template()
	if t == nil {
		return
	}
	_ = WalkBounded(f.Data, t.Depth(), func(n *Node, depth int, _ *Node) error {
		if lvl := t.Level(depth); lvl != nil && lvl.UnitConfig.GradeCumulative {
			n.Grade = CumulativeGrade(n, t, depth)
		}
		return nil
	})
}

// Progress returns the rounded percentage of n's direct children marked
// complete. It is 0 when n has no children or the child level does not
// track completion.
func Progress(n *Node, t *Template, depth int, c Completion) int {
	if len(n.Subcategories) == 0 {
		return 0
	}
	child := t.Level(depth + 1)
	if child == nil || !child.UnitConfig.EnableDone {
		return 0
	}
	done := 0
	for _, sub := range n.Subcategories {
		if c.IsDone(sub.ID) {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(n.Subcategories)) * 100))
}
