package materialize

import (
	"fmt"

	"github.com/martinemde/dotgraph/dotparser"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
)

// NodeFunc builds a node payload from a node statement.
type NodeFunc[N any] func(id string, attrs dotparser.AttrList) N

// EdgeFunc builds an edge payload from an edge statement's attributes.
type EdgeFunc[E any] func(attrs dotparser.AttrList) E

// Label is the default NodeFunc: the payload is the node's textual ID.
func Label(id string, _ dotparser.AttrList) string { return id }

// Unit is the default EdgeFunc: edges carry no payload.
func Unit(dotparser.AttrList) struct{} { return struct{}{} }

// ToDirectedUsing builds a directed graph. ok is false, with no error, when
// the descriptor is undirected.
func ToDirectedUsing[N, E any](desc *dotparser.Graph, nf NodeFunc[N], ef EdgeFunc[E]) (g *Directed[N, E], ok bool, err error) {
	if !desc.Directed {
		return nil, false, nil
	}
	g = &Directed[N, E]{store: newStore[N, E](), g: multi.NewDirectedGraph()}
	if err := build(desc, g.g, &g.store, nf, ef); err != nil {
		return nil, true, err
	}
	return g, true, nil
}

// ToUndirectedUsing builds an undirected graph. ok is false, with no error,
// when the descriptor is directed.
func ToUndirectedUsing[N, E any](desc *dotparser.Graph, nf NodeFunc[N], ef EdgeFunc[E]) (g *Undirected[N, E], ok bool, err error) {
	if desc.Directed {
		return nil, false, nil
	}
	g = &Undirected[N, E]{store: newStore[N, E](), g: multi.NewUndirectedGraph()}
	if err := build(desc, g.g, &g.store, nf, ef); err != nil {
		return nil, true, err
	}
	return g, true, nil
}

// ToDirected builds a directed graph labeled by node ID with unit edges.
func ToDirected(desc *dotparser.Graph) (*Directed[string, struct{}], bool, error) {
	return ToDirectedUsing[string, struct{}](desc, Label, Unit)
}

// ToUndirected builds an undirected graph labeled by node ID with unit edges.
func ToUndirected(desc *dotparser.Graph) (*Undirected[string, struct{}], bool, error) {
	return ToUndirectedUsing[string, struct{}](desc, Label, Unit)
}

// builder is the part of the gonum multigraph API used while building.
type builder interface {
	AddNode(n graph.Node)
	NewLine(from, to graph.Node) graph.Line
	SetLine(l graph.Line)
}

func build[N, E any](desc *dotparser.Graph, b builder, s *store[N, E], nf NodeFunc[N], ef EdgeFunc[E]) error {
	// Lives only for the duration of the walk; the result has no ID lookup.
	byID := make(map[string]graph.Node)

	for i, st := range desc.Stmts {
		switch st := st.(type) {
		case *dotparser.NodeStmt:
			n := multi.Node(len(s.order))
			payload := nf(st.ID, st.Attrs)
			b.AddNode(n)
			s.addNode(NodeIndex(n.ID()), payload)
			byID[st.ID] = n

		case *dotparser.EdgeStmt:
			from, ok := byID[st.From]
			if !ok {
				return &DanglingReferenceError{StmtIndex: i, From: st.From, To: st.To, Missing: st.From}
			}
			to, ok := byID[st.To]
			if !ok {
				return &DanglingReferenceError{StmtIndex: i, From: st.From, To: st.To, Missing: st.To}
			}
			b.SetLine(b.NewLine(from, to))
			s.edges = append(s.edges, Edge[E]{
				From:    NodeIndex(from.ID()),
				To:      NodeIndex(to.ID()),
				Payload: ef(st.Attrs),
			})

		// Reserved statements are never produced by the parser and have no
		// effect here.
		case *dotparser.AttrStmt:
		case *dotparser.AssignStmt:
		case *dotparser.SubgraphStmt:

		case nil:
			return &InvalidStatementError{StmtIndex: i}

		default:
			panic(fmt.Sprintf("materialize: unhandled statement type %T", st))
		}
	}
	return nil
}
