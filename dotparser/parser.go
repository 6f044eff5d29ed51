package dotparser

import "fmt"

// Option configures the parser.
type Option func(*parser)

// WithComments makes the parser skip C++-style // line comments, C-style
// /* block */ comments, and lines starting with '#' wherever whitespace is
// allowed.
func WithComments() Option {
	return func(p *parser) { p.comments = true }
}

// Parse parses one DOT document and returns its Graph.
// Returns a *SyntaxError on failure; there is no partial result.
func Parse(src string, opts ...Option) (*Graph, error) {
	p := &parser{scanner: scanner{src: src}}
	for _, opt := range opts {
		opt(p)
	}
	g, err := p.parseGraph()
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ParseBytes is Parse for a byte slice.
func ParseBytes(src []byte, opts ...Option) (*Graph, error) {
	return Parse(string(src), opts...)
}

type parser struct {
	scanner
	edgeOp string // "->" or "--", fixed once the graph keyword is read
}

func (p *parser) parseGraph() (*Graph, *SyntaxError) {
	g := &Graph{}
	pos := p.skip(0)

	pos, g.Strict = p.keyword(pos, "strict")

	if next, ok := p.keyword(pos, "digraph"); ok {
		g.Directed = true
		pos = next
	} else if next, ok := p.keyword(pos, "graph"); ok {
		pos = next
	} else {
		return nil, p.errorAt(pos, "'graph' or 'digraph'", "")
	}
	p.edgeOp = "--"
	if g.Directed {
		p.edgeOp = "->"
	}

	var idErr *SyntaxError
	if id, next, err := p.parseID(pos); err == nil {
		g.ID, g.HasID = id, true
		pos = next
	} else {
		idErr = err
	}

	next, ok := p.literal(pos, "{")
	if !ok {
		return nil, further(idErr, p.errorAt(pos, "'{'", ""))
	}
	pos = next

	for {
		st, next, err := p.parseStmt(pos)
		if err == nil {
			g.Stmts = append(g.Stmts, st)
			pos = next
			continue
		}
		if end, ok := p.literal(pos, "}"); ok {
			pos = end
			break
		}
		return nil, further(err, p.errorAt(pos, "statement or '}'", p.operatorHint(pos)))
	}

	if pos < len(p.src) {
		return nil, p.errorAt(pos, "EOF", "trailing input after graph body")
	}
	return g, nil
}

// operatorHint explains the common mistake of using the other graph kind's
// edge operator.
func (p *parser) operatorHint(pos int) string {
	wrong, kind := "->", "directed"
	if p.edgeOp == "->" {
		wrong, kind = "--", "undirected"
	}
	if _, ok := p.literal(pos, wrong); ok {
		return fmt.Sprintf("edge operator %s is only valid in %s graphs", wrong, kind)
	}
	return ""
}

// parseStmt tries an edge statement, then a node statement, and consumes an
// optional trailing ';'.
func (p *parser) parseStmt(pos int) (Stmt, int, *SyntaxError) {
	var st Stmt
	edge, next, ok, err := p.parseEdgeStmt(pos)
	switch {
	case err != nil:
		return nil, pos, err
	case ok:
		st = edge
	default:
		node, end, err := p.parseNodeStmt(pos)
		if err != nil {
			return nil, pos, err
		}
		st, next = node, end
	}
	next, _ = p.literal(next, ";")
	return st, next, nil
}

// parseEdgeStmt reports ok=false without an error when pos does not start an
// edge. Once the edge operator has matched, failures are returned as errors:
// no other statement can start with an operator.
func (p *parser) parseEdgeStmt(pos int) (*EdgeStmt, int, bool, *SyntaxError) {
	from, next, err := p.parseID(pos)
	if err != nil {
		return nil, pos, false, nil
	}
	next, ok := p.literal(next, p.edgeOp)
	if !ok {
		return nil, pos, false, nil
	}
	to, end, err := p.parseID(next)
	if err != nil {
		return nil, pos, false, further(err, p.errorAt(next, "edge target", ""))
	}
	attrs, end, err := p.parseAttrList(end)
	if err != nil {
		return nil, pos, false, err
	}
	return &EdgeStmt{From: from, To: to, Attrs: attrs}, end, true, nil
}

func (p *parser) parseNodeStmt(pos int) (*NodeStmt, int, *SyntaxError) {
	id, next, err := p.parseID(pos)
	if err != nil {
		return nil, pos, err
	}
	attrs, next, err := p.parseAttrList(next)
	if err != nil {
		return nil, pos, err
	}
	return &NodeStmt{ID: id, Attrs: attrs}, next, nil
}

// parseAttrList reads zero or more bracketed groups and concatenates their
// pairs. No groups yields a nil list.
func (p *parser) parseAttrList(pos int) (AttrList, int, *SyntaxError) {
	var attrs AttrList
	for {
		next, ok := p.literal(pos, "[")
		if !ok {
			return attrs, pos, nil
		}
		group, end, err := p.parseAttrGroup(next)
		if err != nil {
			return nil, pos, err
		}
		attrs = append(attrs, group...)
		pos = end
	}
}

// parseAttrGroup reads key=value pairs up to and including the closing ']'.
// A ',' or ';' may follow each pair.
func (p *parser) parseAttrGroup(pos int) (AttrList, int, *SyntaxError) {
	var attrs AttrList
	for {
		if end, ok := p.literal(pos, "]"); ok {
			return attrs, end, nil
		}
		key, next, err := p.parseID(pos)
		if err != nil {
			return nil, pos, further(err, p.errorAt(pos, "attribute key or ']'", ""))
		}
		next, ok := p.literal(next, "=")
		if !ok {
			return nil, pos, p.errorAt(next, "'='", fmt.Sprintf("attribute %q has no value", key))
		}
		value, end, err := p.parseID(next)
		if err != nil {
			return nil, pos, further(err, p.errorAt(next, "attribute value", ""))
		}
		attrs = append(attrs, Attr{Key: key, Value: value})

		if sep, ok := p.literal(end, ","); ok {
			end = sep
		} else if sep, ok := p.literal(end, ";"); ok {
			end = sep
		}
		pos = end
	}
}
