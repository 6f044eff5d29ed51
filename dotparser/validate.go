package dotparser

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a validation diagnostic.
type Severity int

const (
	// Error means the graph cannot be materialized.
	Error Severity = iota
	// Warning means materialization succeeds but may not do what was meant.
	Warning
	// Info is an informational note.
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is a single validation finding.
type Diagnostic struct {
	Rule      string   // rule identifier (e.g., "duplicate_node")
	Severity  Severity // ERROR, WARNING, or INFO
	Message   string   // human-readable description
	NodeID    string   // related node ID (optional)
	Edge      *EdgeRef // related edge as (from, to) (optional)
	StmtIndex int      // index into Graph.Stmts of the statement concerned
	Fix       string   // suggested fix (optional)
}

// EdgeRef identifies an edge by its endpoints.
type EdgeRef struct {
	From string
	To   string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", d.Severity, d.Rule, d.Message)
	if d.NodeID != "" {
		fmt.Fprintf(&b, " (node: %s)", d.NodeID)
	}
	if d.Edge != nil {
		fmt.Fprintf(&b, " (edge: %s, %s)", d.Edge.From, d.Edge.To)
	}
	if d.Fix != "" {
		fmt.Fprintf(&b, " -- fix: %s", d.Fix)
	}
	return b.String()
}

// LintRule is the interface for a single validation rule.
type LintRule interface {
	Name() string
	Apply(g *Graph) []Diagnostic
}

// ValidationError is returned by ValidateOrError when error-severity diagnostics exist.
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	var msgs []string
	for _, d := range e.Diagnostics {
		msgs = append(msgs, d.String())
	}
	return fmt.Sprintf("validation failed with %d error(s):\n  %s", len(e.Diagnostics), strings.Join(msgs, "\n  "))
}

// Validate runs all built-in rules (and any extra rules) against the graph.
// Returns all diagnostics regardless of severity.
func Validate(g *Graph, extraRules ...LintRule) []Diagnostic {
	rules := builtInRules()
	rules = append(rules, extraRules...)

	var diagnostics []Diagnostic
	for _, rule := range rules {
		diagnostics = append(diagnostics, rule.Apply(g)...)
	}
	return diagnostics
}

// ValidateOrError runs Validate and returns an error if any error-severity
// diagnostics are found. Non-error diagnostics are still returned.
func ValidateOrError(g *Graph, extraRules ...LintRule) ([]Diagnostic, error) {
	diagnostics := Validate(g, extraRules...)

	var errors []Diagnostic
	for _, d := range diagnostics {
		if d.Severity == Error {
			errors = append(errors, d)
		}
	}
	if len(errors) > 0 {
		return diagnostics, &ValidationError{Diagnostics: errors}
	}
	return diagnostics, nil
}

func builtInRules() []LintRule {
	return []LintRule{
		edgeEndpointDeclaredRule{},
		duplicateNodeRule{},
		strictDuplicateEdgeRule{},
		selfLoopRule{},
		reservedStatementRule{},
	}
}

// edge_endpoint_declared: both ends of an edge must be declared by an
// earlier node statement. Forward references are reported as such.
type edgeEndpointDeclaredRule struct{}

func (edgeEndpointDeclaredRule) Name() string { return "edge_endpoint_declared" }

func (edgeEndpointDeclaredRule) Apply(g *Graph) []Diagnostic {
	declaredLater := make(map[string]bool)
	for _, n := range g.Nodes() {
		declaredLater[n.ID] = true
	}

	seen := make(map[string]bool)
	var diags []Diagnostic
	for i, s := range g.Stmts {
		switch s := s.(type) {
		case *NodeStmt:
			seen[s.ID] = true
		case *EdgeStmt:
			for _, end := range []struct{ role, id string }{{"source", s.From}, {"target", s.To}} {
				if seen[end.id] {
					continue
				}
				msg := fmt.Sprintf("edge %s %q is not declared by a node statement", end.role, end.id)
				if declaredLater[end.id] {
					msg = fmt.Sprintf("edge %s %q is used before its node statement", end.role, end.id)
				}
				diags = append(diags, Diagnostic{
					Rule:      "edge_endpoint_declared",
					Severity:  Error,
					Message:   msg,
					NodeID:    end.id,
					Edge:      &EdgeRef{From: s.From, To: s.To},
					StmtIndex: i,
					Fix:       fmt.Sprintf("declare node %q before the edge", end.id),
				})
			}
		}
	}
	return diags
}

// duplicate_node: declaring the same ID twice creates two distinct nodes.
type duplicateNodeRule struct{}

func (duplicateNodeRule) Name() string { return "duplicate_node" }

func (duplicateNodeRule) Apply(g *Graph) []Diagnostic {
	seen := make(map[string]bool)
	var diags []Diagnostic
	for i, s := range g.Stmts {
		n, ok := s.(*NodeStmt)
		if !ok {
			continue
		}
		if seen[n.ID] {
			diags = append(diags, Diagnostic{
				Rule:      "duplicate_node",
				Severity:  Warning,
				Message:   fmt.Sprintf("node %q is declared more than once; each declaration becomes a separate node", n.ID),
				NodeID:    n.ID,
				StmtIndex: i,
				Fix:       "merge the attribute lists into one declaration",
			})
		}
		seen[n.ID] = true
	}
	return diags
}

// strict_duplicate_edge: a strict graph should not repeat an edge. The
// strict flag is not enforced during materialization, so this is a warning.
type strictDuplicateEdgeRule struct{}

func (strictDuplicateEdgeRule) Name() string { return "strict_duplicate_edge" }

func (strictDuplicateEdgeRule) Apply(g *Graph) []Diagnostic {
	if !g.Strict {
		return nil
	}
	seen := make(map[EdgeRef]bool)
	var diags []Diagnostic
	for i, s := range g.Stmts {
		e, ok := s.(*EdgeStmt)
		if !ok {
			continue
		}
		key := EdgeRef{From: e.From, To: e.To}
		if !g.Directed && key.From > key.To {
			key.From, key.To = key.To, key.From
		}
		if seen[key] {
			diags = append(diags, Diagnostic{
				Rule:      "strict_duplicate_edge",
				Severity:  Warning,
				Message:   fmt.Sprintf("strict graph repeats edge between %q and %q; it will not be merged", e.From, e.To),
				Edge:      &EdgeRef{From: e.From, To: e.To},
				StmtIndex: i,
				Fix:       "remove the repeated edge statement",
			})
		}
		seen[key] = true
	}
	return diags
}

// self_loop: edges from a node to itself.
type selfLoopRule struct{}

func (selfLoopRule) Name() string { return "self_loop" }

func (selfLoopRule) Apply(g *Graph) []Diagnostic {
	var diags []Diagnostic
	for i, s := range g.Stmts {
		e, ok := s.(*EdgeStmt)
		if !ok || e.From != e.To {
			continue
		}
		diags = append(diags, Diagnostic{
			Rule:      "self_loop",
			Severity:  Info,
			Message:   fmt.Sprintf("node %q has an edge to itself", e.From),
			NodeID:    e.From,
			Edge:      &EdgeRef{From: e.From, To: e.To},
			StmtIndex: i,
		})
	}
	return diags
}

// reserved_statement: attribute defaults, assignments and subgraphs have no
// effect on the materialized graph. Only hand-built graphs contain them.
type reservedStatementRule struct{}

func (reservedStatementRule) Name() string { return "reserved_statement" }

func (reservedStatementRule) Apply(g *Graph) []Diagnostic {
	var diags []Diagnostic
	for i, s := range g.Stmts {
		var what string
		switch s := s.(type) {
		case *AttrStmt:
			what = s.Kind.String() + " attribute statement"
		case *AssignStmt:
			what = fmt.Sprintf("assignment %s=%s", s.Key, s.Value)
		case *SubgraphStmt:
			what = "subgraph"
			if s.HasID {
				what = fmt.Sprintf("subgraph %q", s.ID)
			}
		case *NodeStmt, *EdgeStmt:
			continue
		}
		diags = append(diags, Diagnostic{
			Rule:      "reserved_statement",
			Severity:  Warning,
			Message:   fmt.Sprintf("%s is ignored when building the graph", what),
			StmtIndex: i,
		})
	}
	return diags
}
