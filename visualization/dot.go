// Package visualization generates Graphviz DOT representations of
// intersections: the current signal assignment with its conflict pairs, and
// the scheduler's phase cycle.
package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/junction"
)

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowConflicts bool
	ShowParallels bool
	ShowTimings   bool
	RankDirection string // "TB", "LR", "BT", "RL"
	NodeShape     string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowConflicts: true,
		ShowParallels: true,
		ShowTimings:   true,
		RankDirection: "TB",
		NodeShape:     "box",
	}
}

// DOTGenerator generates Graphviz DOT representations of one intersection
type DOTGenerator struct {
	intersection *junction.Intersection
	options      DOTOptions
}

// NewDOTGenerator creates a DOT generator for the given intersection
func NewDOTGenerator(intersection *junction.Intersection, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		intersection: intersection,
		options:      opts,
	}
}

// Generate creates a DOT representation of the intersection's current state
func (g *DOTGenerator) Generate() (string, error) {
	if g.intersection == nil {
		return "", fmt.Errorf("no intersection to render")
	}

	var dot strings.Builder

	dot.WriteString("digraph Intersection {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  label=\"%s (%s)\";\n", g.intersection.Name(), g.intersection.Mode()))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generateSignalNodes(&dot)
	g.generateAxisEdges(&dot)

	dot.WriteString("}\n")

	return dot.String(), nil
}

// generateSignalNodes emits one node per direction, colored by indication
func (g *DOTGenerator) generateSignalNodes(dot *strings.Builder) {
	dot.WriteString("  // Signals\n")

	snapshot := g.intersection.Snapshot()
	for _, d := range junction.Directions() {
		indication := snapshot[d]
		dot.WriteString(fmt.Sprintf("  \"%s\" [style=\"filled\" fillcolor=%s label=\"%s\\n%s\"];\n",
			d, fillColor(indication), d, indication))
	}
}

// generateAxisEdges emits conflict and parallel relations between directions
func (g *DOTGenerator) generateAxisEdges(dot *strings.Builder) {
	dot.WriteString("\n  // Relations\n")

	directions := junction.Directions()
	for a := 0; a < len(directions); a++ {
		for b := a + 1; b < len(directions); b++ {
			da, db := directions[a], directions[b]
			if g.options.ShowConflicts && da.ConflictsWith(db) {
				dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [dir=none style=dashed color=red label=\"conflict\"];\n", da, db))
			}
			if g.options.ShowParallels && da.IsParallelTo(db) {
				dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [dir=none style=dotted color=darkgreen label=\"parallel\"];\n", da, db))
			}
		}
	}
}

// fillColor maps an indication to a Graphviz fill color
func fillColor(i junction.Indication) string {
	switch i {
	case junction.Green:
		return "palegreen"
	case junction.Yellow:
		return "lightyellow"
	default:
		return "lightcoral"
	}
}

// GeneratePhaseCycle creates a DOT representation of the scheduler's phase
// cycle under the given timing configuration. Each phase node carries its
// dwell; the edges follow the cycle order.
func GeneratePhaseCycle(timing junction.TimingConfig, options ...DOTOptions) string {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	phases := []junction.Phase{
		junction.PhaseNorthSouthGreen,
		junction.PhaseNorthSouthYellow,
		junction.PhaseEastWestGreen,
		junction.PhaseEastWestYellow,
	}

	var dot strings.Builder
	dot.WriteString("digraph PhaseCycle {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", opts.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n\n", opts.NodeShape))

	for _, p := range phases {
		label := p.String()
		if opts.ShowTimings {
			label = fmt.Sprintf("%s\\n%s", p, p.Dwell(timing))
		}
		fill := "lightblue"
		if p == junction.PhaseNorthSouthGreen {
			fill = "lightgreen"
		}
		dot.WriteString(fmt.Sprintf("  \"%s\" [style=\"filled\" fillcolor=%s label=\"%s\"];\n", p, fill, label))
	}

	dot.WriteString("\n")
	for _, p := range phases {
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\";\n", p, p.Next()))
	}

	dot.WriteString("}\n")
	return dot.String()
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// GenerateSVG creates an SVG representation by calling Graphviz
func (g *DOTGenerator) GenerateSVG() (string, error) {
	dotContent, err := g.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}
