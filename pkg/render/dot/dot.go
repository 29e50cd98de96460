package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes attributes in node labels and, for multigraphs,
	// edge keys and attributes in edge labels. When false, nodes show only
	// their ID and edges are unlabeled.
	Detailed bool

	// EdgeLabel names an edge attribute to use as edge label. It is ignored
	// when Detailed is set.
	EdgeLabel string
}

// ToDOT converts a canonical graph to Graphviz DOT. Directed graphs become
// a digraph, undirected ones a graph. A "name" graph attribute becomes the
// diagram title.
func ToDOT(g *graph.Graph, opts Options) string {
	kw, arrow := "graph", "--"
	if g.IsDirected() {
		kw, arrow = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kw)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if name, ok := g.Attrs()["name"].(string); ok && name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", name)
	}
	buf.WriteString("\n")

	for _, n := range g.NodeSet() {
		id := fmt.Sprint(n.ID)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, nodeLabel(id, n.Attrs, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q %s %q", fmt.Sprint(e.Source), arrow, fmt.Sprint(e.Target))
		if label := edgeLabel(e, g.IsMultigraph(), opts); label != "" {
			fmt.Fprintf(&buf, " [label=%q]", label)
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// TableToDOT converts a table graph (or anything else convert.Graph
// accepts) and renders it with [ToDOT].
func TableToDOT(obj any, opts Options) (string, error) {
	g, err := convert.Graph(obj)
	if err != nil {
		return "", err
	}
	return ToDOT(g, opts), nil
}

func fmtAttrs(attrs graph.Attrs) []string {
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, attrs[k]))
	}
	return parts
}

func nodeLabel(id string, attrs graph.Attrs, detailed bool) string {
	if !detailed || len(attrs) == 0 {
		return id
	}
	return id + "\n" + strings.Join(fmtAttrs(attrs), "\n")
}

func edgeLabel(e graph.Edge, multi bool, opts Options) string {
	if !opts.Detailed {
		if opts.EdgeLabel == "" {
			return ""
		}
		if v, ok := e.Attrs[opts.EdgeLabel]; ok {
			return fmt.Sprint(v)
		}
		return ""
	}
	parts := fmtAttrs(e.Attrs)
	if multi {
		parts = append([]string{fmt.Sprintf("key: %v", e.Key)}, parts...)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container: origin at zero, width and height equal to the viewBox size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
