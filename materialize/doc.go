// Package materialize turns a parsed dotparser.Graph into a concrete graph.
//
// Statements are walked once in declaration order. Every node statement adds
// a new node, so declaring the same ID twice yields two nodes; an ID refers to
// its most recent declaration. Edge statements connect the nodes their IDs
// refer to at that point, which means an edge may not name a node declared
// after it. Reserved statements (attribute defaults, assignments, subgraphs)
// contribute nothing.
//
// The concrete graphs are gonum multigraphs, so parallel edges and self loops
// are kept, and gonum's algorithms can be run on Gonum(). Node and edge
// payloads are built by caller-supplied functions:
//
//	g, ok, err := materialize.ToDirectedUsing(desc,
//	    func(id string, attrs dotparser.AttrList) Task { return Task{Name: id, Attrs: attrs.Map()} },
//	    func(attrs dotparser.AttrList) dotparser.AttrList { return attrs })
//
// The bool result is false when the descriptor's direction does not match the
// requested graph kind.
package materialize
