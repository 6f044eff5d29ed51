package materialize

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinemde/dotgraph/dotparser"
)

func mustParse(t *testing.T, src string) *dotparser.Graph {
	t.Helper()
	g, err := dotparser.Parse(src)
	require.NoError(t, err)
	return g
}

func TestToDirected(t *testing.T) {
	desc := &dotparser.Graph{
		Directed: true,
		Stmts: []dotparser.Stmt{
			&dotparser.NodeStmt{ID: "1"},
			&dotparser.NodeStmt{ID: "2"},
			&dotparser.EdgeStmt{From: "1", To: "2"},
		},
	}

	u, ok, err := ToUndirected(desc)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, u)

	g, ok, err := ToDirected(desc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.True(t, g.Gonum().HasEdgeFromTo(0, 1))
	assert.False(t, g.Gonum().HasEdgeFromTo(1, 0))
}

func TestToUndirected(t *testing.T) {
	desc := mustParse(t, "graph { 1; 2; 1 -- 2; }")

	d, ok, err := ToDirected(desc)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, d)

	g, ok, err := ToUndirected(desc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.True(t, g.Gonum().HasEdgeBetween(1, 0))
}

func TestNodePayloadsInDeclarationOrder(t *testing.T) {
	g, _, err := ToDirected(mustParse(t, `digraph { b; a; "c d" }`))
	require.NoError(t, err)

	var labels []string
	for _, idx := range g.NodeIndices() {
		label, ok := g.Node(idx)
		require.True(t, ok)
		labels = append(labels, label)
	}
	assert.Equal(t, []string{"b", "a", "c d"}, labels)

	_, ok := g.Node(NodeIndex(99))
	assert.False(t, ok)
}

func TestRedeclaredNodeCreatesSecondNode(t *testing.T) {
	g, _, err := ToDirected(mustParse(t, "digraph { a; b; a -> b; a; a -> b }"))
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())
	require.Equal(t, 2, g.EdgeCount())

	edges := g.Edges()
	idx := g.NodeIndices()
	assert.Equal(t, idx[0], edges[0].From, "first edge binds to the first declaration")
	assert.Equal(t, idx[2], edges[1].From, "later edges bind to the latest declaration")
	assert.Equal(t, idx[1], edges[1].To)
}

func TestParallelEdgesAndSelfLoops(t *testing.T) {
	g, _, err := ToUndirected(mustParse(t, "graph { a; b; a -- b; b -- a; a -- a }"))
	require.NoError(t, err)
	assert.Equal(t, 3, g.EdgeCount())
	lines := g.Gonum().LinesBetween(0, 1)
	assert.Equal(t, 2, lines.Len())
}

func TestCustomPayloads(t *testing.T) {
	type task struct {
		Name  string
		Shape string
	}
	desc := mustParse(t, `digraph {
		a [shape=box]
		b [shape=oval, shape=circle]
		a -> b [weight=2.5]
		b -> a
	}`)

	nf := func(id string, attrs dotparser.AttrList) task {
		shape, _ := attrs.Get("shape")
		return task{Name: id, Shape: shape}
	}
	ef := func(attrs dotparser.AttrList) float64 {
		w, ok := attrs.Get("weight")
		if !ok {
			return 1
		}
		f, _ := strconv.ParseFloat(w, 64)
		return f
	}

	g, ok, err := ToDirectedUsing(desc, nf, ef)
	require.NoError(t, err)
	require.True(t, ok)

	b, _ := g.Node(g.NodeIndices()[1])
	assert.Equal(t, task{Name: "b", Shape: "circle"}, b)

	edges := g.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, 2.5, edges[0].Payload)
	assert.Equal(t, 1.0, edges[1].Payload)

	_, ok, err = ToUndirectedUsing(desc, nf, ef)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDanglingReference(t *testing.T) {
	tests := []struct {
		src     string
		missing string
		index   int
	}{
		{"digraph { a; a -> b }", "b", 1},
		{"digraph { b; a -> b }", "a", 1},
		{"digraph { a -> b; a; b }", "a", 0},
	}
	for _, tt := range tests {
		g, ok, err := ToDirected(mustParse(t, tt.src))
		require.Error(t, err, "input: %s", tt.src)
		assert.True(t, ok)
		assert.Nil(t, g)

		var de *DanglingReferenceError
		require.True(t, errors.As(err, &de), "input: %s", tt.src)
		assert.Equal(t, tt.missing, de.Missing)
		assert.Equal(t, tt.index, de.StmtIndex)
	}

	_, _, err := ToUndirected(mustParse(t, "graph { x -- y }"))
	assert.EqualError(t, err, `statement 0: edge (x, y) references undeclared node "x"`)
}

func TestReservedStatementsIgnored(t *testing.T) {
	desc := &dotparser.Graph{
		Stmts: []dotparser.Stmt{
			&dotparser.AttrStmt{Kind: dotparser.AttrNode, Attrs: dotparser.AttrList{{Key: "shape", Value: "box"}}},
			&dotparser.NodeStmt{ID: "a"},
			&dotparser.AssignStmt{Key: "rankdir", Value: "LR"},
			&dotparser.SubgraphStmt{Stmts: []dotparser.Stmt{&dotparser.NodeStmt{ID: "hidden"}}},
			&dotparser.NodeStmt{ID: "b"},
			&dotparser.EdgeStmt{From: "a", To: "b"},
		},
	}
	g, ok, err := ToUndirected(desc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
}

func TestNilStatement(t *testing.T) {
	desc := &dotparser.Graph{Directed: true, Stmts: []dotparser.Stmt{
		&dotparser.NodeStmt{ID: "a"},
		nil,
	}}
	var g *Directed[string, struct{}]
	var ok bool
	var err error
	require.NotPanics(t, func() { g, ok, err = ToDirected(desc) })
	assert.True(t, ok)
	assert.Nil(t, g)

	var ie *InvalidStatementError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 1, ie.StmtIndex)
	assert.EqualError(t, err, "statement 1: nil statement")

	desc.Directed = false
	_, _, err = ToUndirected(desc)
	assert.ErrorAs(t, err, &ie)
}

func TestEmptyGraph(t *testing.T) {
	g, ok, err := ToDirected(mustParse(t, "digraph {}"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, g.NodeCount())
	assert.Zero(t, g.EdgeCount())
	assert.Empty(t, g.Edges())
	assert.Equal(t, "Directed { node_count: 0, edge_count: 0, edges: [], nodes: {} }", g.String())
}

func TestDebugString(t *testing.T) {
	d, _, err := ToDirected(mustParse(t, "digraph { 1; 2; 1 -> 2 }"))
	require.NoError(t, err)
	assert.Equal(t, `Directed { node_count: 2, edge_count: 1, edges: [(0, 1)], nodes: {0: "1", 1: "2"} }`, d.String())

	u, _, err := ToUndirectedUsing(mustParse(t, `graph { a; b [x=1]; a -- b [w=3] }`), WithAttrs, EdgeAttrs)
	require.NoError(t, err)
	assert.Equal(t, `Undirected { node_count: 2, edge_count: 1, edges: [(0, 1)], nodes: {0: "a", 1: "b"}, edge_payloads: [[{Key:w Value:3}]] }`, u.String())
}

func TestDebugStringQuotesStringers(t *testing.T) {
	desc := &dotparser.Graph{Stmts: []dotparser.Stmt{
		&dotparser.NodeStmt{ID: ""},
		&dotparser.NodeStmt{ID: "a b"},
		&dotparser.NodeStmt{ID: `say "hi"`},
	}}
	g, _, err := ToUndirectedUsing(desc, WithAttrs, Unit)
	require.NoError(t, err)
	assert.Equal(t, `Undirected { node_count: 3, edge_count: 0, edges: [], nodes: {0: "", 1: "a b", 2: "say \"hi\""} }`, g.String())
}

func TestTopoOrder(t *testing.T) {
	g, _, err := ToDirected(mustParse(t, "digraph { c; b; a; a -> b; b -> c }"))
	require.NoError(t, err)
	order, err := g.TopoOrder()
	require.NoError(t, err)
	assert.Equal(t, []NodeIndex{2, 1, 0}, order)

	g, _, err = ToDirected(mustParse(t, "digraph { a; b; c; a -> b; b -> a; b -> c }"))
	require.NoError(t, err)
	_, err = g.TopoOrder()
	var ce *CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, [][]NodeIndex{{0, 1}}, ce.Components)
	assert.Equal(t, "graph has 1 cycle(s): [0 1]", ce.Error())
}

func TestComponents(t *testing.T) {
	g, _, err := ToUndirected(mustParse(t, "graph { a; b; c; d; e; d -- a; c -- e }"))
	require.NoError(t, err)
	assert.Equal(t, [][]NodeIndex{{0, 3}, {1}, {2, 4}}, g.Components())
}

func TestMarshalDOT(t *testing.T) {
	desc := mustParse(t, `digraph { start [shape=box]; finish; start -> finish [label=done] }`)
	g, _, err := ToDirectedUsing(desc, WithAttrs, EdgeAttrs)
	require.NoError(t, err)

	out, err := g.MarshalDOT("G")
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "digraph G {")
	assert.Contains(t, text, "start -> finish")
	assert.Contains(t, text, "shape=box")
	assert.Contains(t, text, "label=done")

	reparsed, err := dotparser.Parse(text, dotparser.WithComments())
	require.NoError(t, err, "encoded text should be accepted back:\n%s", text)
	assert.Len(t, reparsed.Edges(), 1)
}

func TestMarshalDOTUndirected(t *testing.T) {
	g, _, err := ToUndirected(mustParse(t, "graph { x; y; x -- y }"))
	require.NoError(t, err)

	out, err := g.MarshalDOT("")
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "graph {")
	assert.Contains(t, text, "x -- y")
}
