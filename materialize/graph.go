package materialize

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/martinemde/dotgraph/dotparser"
)

// NodeIndex is the opaque identity of a node in a materialized graph. It is
// also the node's gonum ID.
type NodeIndex int64

// Edge is one materialized edge. For undirected graphs From and To are the
// endpoints in the order they were written.
type Edge[E any] struct {
	From    NodeIndex
	To      NodeIndex
	Payload E
}

// store holds the payloads alongside the gonum graph, in insertion order.
type store[N, E any] struct {
	nodes map[NodeIndex]N
	order []NodeIndex
	edges []Edge[E]
}

func newStore[N, E any]() store[N, E] {
	return store[N, E]{nodes: make(map[NodeIndex]N)}
}

func (s *store[N, E]) addNode(idx NodeIndex, payload N) {
	s.nodes[idx] = payload
	s.order = append(s.order, idx)
}

// NodeCount returns the number of nodes.
func (s *store[N, E]) NodeCount() int { return len(s.order) }

// EdgeCount returns the number of edges, counting parallel edges separately.
func (s *store[N, E]) EdgeCount() int { return len(s.edges) }

// Node returns the payload of the node at idx.
func (s *store[N, E]) Node(idx NodeIndex) (N, bool) {
	n, ok := s.nodes[idx]
	return n, ok
}

// NodeIndices returns every node index in insertion order.
func (s *store[N, E]) NodeIndices() []NodeIndex {
	return slices.Clone(s.order)
}

// Edges returns every edge in insertion order.
func (s *store[N, E]) Edges() []Edge[E] {
	return slices.Clone(s.edges)
}

// Directed is a directed multigraph with node payloads N and edge payloads E.
type Directed[N, E any] struct {
	store[N, E]
	g *multi.DirectedGraph
}

// Gonum exposes the underlying graph for use with gonum's algorithms. Its
// node IDs are NodeIndex values. It must not be modified.
func (d *Directed[N, E]) Gonum() *multi.DirectedGraph { return d.g }

// TopoOrder returns the nodes in a topological order, breaking ties by
// index. When the graph has cycles it returns a *CycleError.
func (d *Directed[N, E]) TopoOrder() ([]NodeIndex, error) {
	sorted, err := topo.SortStabilized(d.g, byID)
	if err != nil {
		var u topo.Unorderable
		if errors.As(err, &u) {
			cycles := make([][]NodeIndex, len(u))
			for i, c := range u {
				cycles[i] = indices(c)
				slices.Sort(cycles[i])
			}
			return nil, &CycleError{Components: cycles}
		}
		return nil, err
	}
	return indices(sorted), nil
}

// MarshalDOT encodes the graph as DOT text named name. Nodes are written
// with their payload's label; see labelOf.
func (d *Directed[N, E]) MarshalDOT(name string) ([]byte, error) {
	dst := multi.NewDirectedGraph()
	d.copyForDOT(dst)
	return dot.MarshalMulti(dst, name, "", "\t")
}

func (d *Directed[N, E]) String() string { return d.debugString("Directed") }

// Undirected is an undirected multigraph with node payloads N and edge
// payloads E.
type Undirected[N, E any] struct {
	store[N, E]
	g *multi.UndirectedGraph
}

// Gonum exposes the underlying graph for use with gonum's algorithms. Its
// node IDs are NodeIndex values. It must not be modified.
func (u *Undirected[N, E]) Gonum() *multi.UndirectedGraph { return u.g }

// Components returns the connected components, each sorted by index, ordered
// by their lowest index.
func (u *Undirected[N, E]) Components() [][]NodeIndex {
	cc := topo.ConnectedComponents(u.g)
	out := make([][]NodeIndex, len(cc))
	for i, c := range cc {
		out[i] = indices(c)
		slices.Sort(out[i])
	}
	slices.SortFunc(out, func(a, b []NodeIndex) int {
		return cmp.Compare(a[0], b[0])
	})
	return out
}

// MarshalDOT encodes the graph as DOT text named name. Nodes are written
// with their payload's label; see labelOf.
func (u *Undirected[N, E]) MarshalDOT(name string) ([]byte, error) {
	dst := multi.NewUndirectedGraph()
	u.copyForDOT(dst)
	return dot.MarshalMulti(dst, name, "", "\t")
}

func (u *Undirected[N, E]) String() string { return u.debugString("Undirected") }

func byID(nodes []graph.Node) {
	slices.SortFunc(nodes, func(a, b graph.Node) int {
		return cmp.Compare(a.ID(), b.ID())
	})
}

func indices(nodes []graph.Node) []NodeIndex {
	out := make([]NodeIndex, len(nodes))
	for i, n := range nodes {
		out[i] = NodeIndex(n.ID())
	}
	return out
}

// debugString renders the graph in the form
//
//	Directed { node_count: 2, edge_count: 1, edges: [(0, 1)], nodes: {0: "a", 1: "b"} }
//
// Edge payloads are listed too unless E is struct{}.
func (s *store[N, E]) debugString(kind string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s { node_count: %d, edge_count: %d, edges: [", kind, s.NodeCount(), s.EdgeCount())
	for i, e := range s.edges {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%d, %d)", e.From, e.To)
	}
	b.WriteString("], nodes: {")
	for i, idx := range s.order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: %s", idx, debugValue(s.nodes[idx]))
	}
	b.WriteString("}")
	var zero E
	if _, unit := any(zero).(struct{}); !unit {
		b.WriteString(", edge_payloads: [")
		for i, e := range s.edges {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(debugValue(e.Payload))
		}
		b.WriteString("]")
	}
	b.WriteString(" }")
	return b.String()
}

func debugValue(v any) string {
	switch v := v.(type) {
	case string, fmt.Stringer:
		return strconv.Quote(labelOf(v))
	}
	return fmt.Sprintf("%+v", v)
}

// Attributed is a payload that keeps a statement's ID and attributes. When
// used as the node payload, MarshalDOT writes the attributes back out.
type Attributed struct {
	ID    string
	Attrs dotparser.AttrList
}

// WithAttrs is a NodeFunc producing Attributed payloads.
func WithAttrs(id string, attrs dotparser.AttrList) Attributed {
	return Attributed{ID: id, Attrs: attrs}
}

// EdgeAttrs is an EdgeFunc keeping the edge's attribute list as its payload.
func EdgeAttrs(attrs dotparser.AttrList) dotparser.AttrList { return attrs }

func (a Attributed) String() string { return a.ID }

// Attributes implements encoding.Attributer.
func (a Attributed) Attributes() []encoding.Attribute { return attributesOf(a.Attrs) }

// labelOf is the DOT ID written for a payload: the string itself, the
// result of String for a fmt.Stringer, and fmt.Sprint otherwise.
//
// Nodes that were declared twice share a label, so the encoded text names
// them once.
func labelOf(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func attributesOf(v any) []encoding.Attribute {
	switch v := v.(type) {
	case encoding.Attributer:
		return v.Attributes()
	case dotparser.AttrList:
		out := make([]encoding.Attribute, len(v))
		for i, a := range v {
			out[i] = encoding.Attribute{Key: a.Key, Value: a.Value}
		}
		return out
	default:
		return nil
	}
}

// dotNode and dotLine carry labels and attributes into the DOT encoder.
type dotNode struct {
	id    int64
	label string
	attrs []encoding.Attribute
}

func (n dotNode) ID() int64                        { return n.id }
func (n dotNode) DOTID() string                    { return n.label }
func (n dotNode) Attributes() []encoding.Attribute { return n.attrs }

type dotLine struct {
	from, to graph.Node
	uid      int64
	attrs    []encoding.Attribute
}

func (l dotLine) From() graph.Node                 { return l.from }
func (l dotLine) To() graph.Node                   { return l.to }
func (l dotLine) ID() int64                        { return l.uid }
func (l dotLine) Attributes() []encoding.Attribute { return l.attrs }

func (l dotLine) ReversedLine() graph.Line {
	l.from, l.to = l.to, l.from
	return l
}

func (s *store[N, E]) copyForDOT(dst builder) {
	nodes := make(map[NodeIndex]dotNode, len(s.order))
	for _, idx := range s.order {
		payload := s.nodes[idx]
		n := dotNode{id: int64(idx), label: labelOf(payload), attrs: attributesOf(payload)}
		nodes[idx] = n
		dst.AddNode(n)
	}
	for i, e := range s.edges {
		dst.SetLine(dotLine{
			from:  nodes[e.From],
			to:    nodes[e.To],
			uid:   int64(i),
			attrs: attributesOf(e.Payload),
		})
	}
}
