// Package dotparser recognizes a small subset of the Graphviz DOT language.
//
// The accepted grammar is:
//
//	graph      := ["strict"] ("graph"|"digraph") [ID] "{" stmt* "}"
//	stmt       := (edge_stmt | node_stmt) [";"]
//	edge_stmt  := ID edge_op ID attr_list
//	edge_op    := "->" (digraph) | "--" (graph)
//	node_stmt  := ID attr_list
//	attr_list  := ("[" (ID "=" ID [","|";"])* "]")*
//	ID         := bareword | numeral | quoted
//
// Keywords are case-insensitive. Whitespace is allowed, but not required,
// between any two tokens. Comments are skipped only when the parser is
// created with WithComments.
//
// The parser is a hand-rolled recursive-descent recognizer working directly
// on the source text. Every rule takes the offset of the remaining input and
// returns its result along with the offset just past what it consumed; the
// source is never mutated. The output is a Graph holding the statements in
// declaration order.
//
// Usage:
//
//	g, err := dotparser.Parse(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(g.Directed, len(g.Nodes()), len(g.Edges()))
//
// Turning a Graph into a concrete graph structure is the job of the
// materialize package.
package dotparser
