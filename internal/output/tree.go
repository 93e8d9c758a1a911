package output

import (
	"fmt"
	"sort"
	"strings"
)

// TreeAnnotation holds per-branch display metadata
type TreeAnnotation struct {
	Badges     []string
	Ahead      int
	Behind     int
	Diverged   bool   // whether ahead/behind is known
	Confidence string // inference confidence of the edge to the parent
	Designed   bool   // edge also declared in the design tree
}

// TopologyTreeRenderer renders branch trees with annotations. It is driven
// entirely by callbacks so it stays independent of how the topology was
// produced.
type TopologyTreeRenderer struct {
	base          string
	currentBranch string
	getChildren   func(branchName string) []string
	annotations   map[string]TreeAnnotation
	color         bool
}

// NewTopologyTreeRenderer creates a tree renderer rooted at the base branch.
func NewTopologyTreeRenderer(
	base string,
	currentBranch string,
	getChildren func(branchName string) []string,
	color bool,
) *TopologyTreeRenderer {
	return &TopologyTreeRenderer{
		base:          base,
		currentBranch: currentBranch,
		getChildren:   getChildren,
		annotations:   make(map[string]TreeAnnotation),
		color:         color,
	}
}

// SetAnnotation sets the annotation for a branch
func (r *TopologyTreeRenderer) SetAnnotation(branchName string, annotation TreeAnnotation) {
	r.annotations[branchName] = annotation
}

// Render renders the full topology, base branch first, children indented
// beneath their parents in lexical order.
func (r *TopologyTreeRenderer) Render() []string {
	return r.renderBranch(r.base, 0, map[string]bool{})
}

func (r *TopologyTreeRenderer) renderBranch(branchName string, depth int, visited map[string]bool) []string {
	if visited[branchName] {
		// A cycle can only come from a malformed design tree; stop rather
		// than recurse forever.
		return nil
	}
	visited[branchName] = true

	lines := []string{r.branchLine(branchName, depth)}

	children := r.getChildren(branchName)
	sort.Strings(children)
	for _, child := range children {
		lines = append(lines, r.renderBranch(child, depth+1, visited)...)
	}
	return lines
}

func (r *TopologyTreeRenderer) branchLine(branchName string, depth int) string {
	glyph := "◯"
	if branchName == r.currentBranch {
		glyph = "◉"
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(glyph)
	b.WriteString(" ")
	b.WriteString(branchName)

	if annotation, ok := r.annotations[branchName]; ok {
		if annotation.Diverged {
			fmt.Fprintf(&b, " (%d ahead, %d behind)", annotation.Ahead, annotation.Behind)
		}
		if len(annotation.Badges) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(annotation.Badges, ", "))
		}
		if annotation.Confidence != "" && annotation.Confidence != "high" {
			fmt.Fprintf(&b, " ·%s", annotation.Confidence)
		}
		if annotation.Designed {
			b.WriteString(" ✓design")
		}
	}

	line := b.String()
	if r.color {
		return ColorForDepth(line, depth)
	}
	return line
}
