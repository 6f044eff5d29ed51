package dotparser

import "strings"

// Attr is a key=value pair from an attribute list. Both sides keep the
// identifier text as written (quoted identifiers are unescaped).
type Attr struct {
	Key   string
	Value string
}

// AttrList is an ordered list of attributes. Duplicate keys are kept in
// source order.
type AttrList []Attr

// Get looks up an attribute by key. When a key repeats, the last one wins.
func (l AttrList) Get(key string) (string, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].Key == key {
			return l[i].Value, true
		}
	}
	return "", false
}

// All returns every value recorded for key, in source order.
func (l AttrList) All(key string) []string {
	var out []string
	for _, a := range l {
		if a.Key == key {
			out = append(out, a.Value)
		}
	}
	return out
}

// Map collapses the list into a map with last-write-wins semantics.
func (l AttrList) Map() map[string]string {
	m := make(map[string]string, len(l))
	for _, a := range l {
		m[a.Key] = a.Value
	}
	return m
}

// AttrKind is the scope of an attribute default statement.
type AttrKind int

const (
	AttrGraph AttrKind = iota
	AttrNode
	AttrEdge
)

func (k AttrKind) String() string {
	switch k {
	case AttrGraph:
		return "graph"
	case AttrNode:
		return "node"
	case AttrEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Stmt is a single statement of a graph body. The set of implementations is
// closed: NodeStmt, EdgeStmt, AttrStmt, AssignStmt and SubgraphStmt.
type Stmt interface {
	stmt()
}

// NodeStmt declares a node.
type NodeStmt struct {
	ID    string
	Attrs AttrList
}

// EdgeStmt connects two nodes by their textual IDs. Whether the edge is
// directed follows from the enclosing Graph.
type EdgeStmt struct {
	From  string
	To    string
	Attrs AttrList
}

// AttrStmt sets defaults for a scope (graph [..], node [..], edge [..]).
//
// Reserved: the parser never produces it.
type AttrStmt struct {
	Kind  AttrKind
	Attrs AttrList
}

// AssignStmt is a top-level key=value statement.
//
// Reserved: the parser never produces it.
type AssignStmt struct {
	Key   string
	Value string
}

// SubgraphStmt is a nested statement block.
//
// Reserved: the parser never produces it.
type SubgraphStmt struct {
	ID    string
	HasID bool
	Stmts []Stmt
}

func (*NodeStmt) stmt()     {}
func (*EdgeStmt) stmt()     {}
func (*AttrStmt) stmt()     {}
func (*AssignStmt) stmt()   {}
func (*SubgraphStmt) stmt() {}

// Graph is the parsed representation of one DOT document.
type Graph struct {
	Strict   bool   // "strict" was present; recorded, not enforced
	Directed bool   // "digraph" rather than "graph"
	ID       string // graph identifier, valid when HasID
	HasID    bool
	Stmts    []Stmt // in declaration order
}

// Nodes returns the node statements in declaration order.
func (g *Graph) Nodes() []*NodeStmt {
	var out []*NodeStmt
	for _, s := range g.Stmts {
		if n, ok := s.(*NodeStmt); ok {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns the edge statements in declaration order.
func (g *Graph) Edges() []*EdgeStmt {
	var out []*EdgeStmt
	for _, s := range g.Stmts {
		if e, ok := s.(*EdgeStmt); ok {
			out = append(out, e)
		}
	}
	return out
}

// NodeByID returns the first node statement declaring id, or nil.
func (g *Graph) NodeByID(id string) *NodeStmt {
	for _, n := range g.Nodes() {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// EdgesFrom returns all edges whose From is id.
func (g *Graph) EdgesFrom(id string) []*EdgeStmt {
	var result []*EdgeStmt
	for _, e := range g.Edges() {
		if e.From == id {
			result = append(result, e)
		}
	}
	return result
}

// EdgesTo returns all edges whose To is id.
func (g *Graph) EdgesTo(id string) []*EdgeStmt {
	var result []*EdgeStmt
	for _, e := range g.Edges() {
		if e.To == id {
			result = append(result, e)
		}
	}
	return result
}

// String renders the graph as DOT text that Parse accepts back. Reserved
// statements have no syntax in this grammar and are left out.
func (g *Graph) String() string {
	var b strings.Builder
	if g.Strict {
		b.WriteString("strict ")
	}
	op := " -- "
	if g.Directed {
		b.WriteString("digraph ")
		op = " -> "
	} else {
		b.WriteString("graph ")
	}
	if g.HasID {
		b.WriteString(QuoteID(g.ID))
		b.WriteByte(' ')
	}
	b.WriteString("{\n")
	for _, s := range g.Stmts {
		switch s := s.(type) {
		case *NodeStmt:
			b.WriteString("\t")
			b.WriteString(QuoteID(s.ID))
			writeAttrs(&b, s.Attrs)
			b.WriteString(";\n")
		case *EdgeStmt:
			b.WriteString("\t")
			b.WriteString(QuoteID(s.From))
			b.WriteString(op)
			b.WriteString(QuoteID(s.To))
			writeAttrs(&b, s.Attrs)
			b.WriteString(";\n")
		case *AttrStmt, *AssignStmt, *SubgraphStmt:
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func writeAttrs(b *strings.Builder, attrs AttrList) {
	if len(attrs) == 0 {
		return
	}
	b.WriteString(" [")
	for i, a := range attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(QuoteID(a.Key))
		b.WriteByte('=')
		b.WriteString(QuoteID(a.Value))
	}
	b.WriteByte(']')
}

// QuoteID returns id as it must be written in source: verbatim when it is a
// complete bareword or numeral, otherwise quoted with '"' escaped.
func QuoteID(id string) string {
	if id != "" && (scanBareword(id, 0) == len(id) || scanNumeral(id, 0) == len(id)) {
		return id
	}
	return `"` + strings.ReplaceAll(id, `"`, `\"`) + `"`
}
