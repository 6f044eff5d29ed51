package materialize

import (
	"fmt"
	"strings"
)

// DanglingReferenceError is returned when an edge names a node that no
// earlier node statement declared.
type DanglingReferenceError struct {
	StmtIndex int // index of the edge in Graph.Stmts
	From      string
	To        string
	Missing   string // the endpoint that could not be resolved
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("statement %d: edge (%s, %s) references undeclared node %q", e.StmtIndex, e.From, e.To, e.Missing)
}

// InvalidStatementError is returned for a nil entry in Graph.Stmts.
type InvalidStatementError struct {
	StmtIndex int
}

func (e *InvalidStatementError) Error() string {
	return fmt.Sprintf("statement %d: nil statement", e.StmtIndex)
}

// CycleError is returned by TopoOrder when the graph is not acyclic.
// Each component is a strongly connected set of nodes.
type CycleError struct {
	Components [][]NodeIndex
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Components))
	for i, c := range e.Components {
		parts[i] = fmt.Sprint(c)
	}
	return fmt.Sprintf("graph has %d cycle(s): %s", len(e.Components), strings.Join(parts, " "))
}
