package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/martinemde/dotgraph/dotparser"
	"github.com/martinemde/dotgraph/materialize"
)

const (
	formatDebug      = "debug"
	formatDOT        = "dot"
	formatAST        = "ast"
	formatTopo       = "topo"
	formatComponents = "components"
)

var errWrongDirection = errors.New("format is not available for this kind of graph")

// astDumper prints the descriptor's fields rather than its DOT rendering, and
// leaves out pointer addresses so output is stable.
var astDumper = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func runGraph(cmd *cobra.Command, args []string) error {
	dotFile := args[0]
	format := viper.GetString("format")
	verbose := viper.GetBool("verbose")

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	switch format {
	case formatDebug, formatDOT, formatAST, formatTopo, formatComponents:
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	src, err := os.ReadFile(dotFile)
	if err != nil {
		return fmt.Errorf("reading graph file: %w", err)
	}
	logger.Debug("read graph file", zap.String("path", dotFile), zap.Int("bytes", len(src)))

	var opts []dotparser.Option
	if viper.GetBool("comments") {
		opts = append(opts, dotparser.WithComments())
	}

	out := cmd.OutOrStdout()
	desc, err := dotparser.ParseBytes(src, opts...)
	if err != nil {
		// A parse failure is a result, not a crash.
		logger.Debug("parse failed", zap.Error(err))
		fmt.Fprintf(out, "Unable to parse, error: %v\n", err)
		return nil
	}
	logger.Debug("parsed graph",
		zap.Bool("directed", desc.Directed),
		zap.Bool("strict", desc.Strict),
		zap.String("id", desc.ID),
		zap.Int("statements", len(desc.Stmts)),
	)

	if viper.GetBool("lint") {
		if err := lint(cmd.ErrOrStderr(), desc); err != nil {
			return err
		}
	}

	if format == formatAST {
		fmt.Fprint(out, astDumper.Sdump(desc))
		return nil
	}

	var text string
	if desc.Directed {
		text, err = renderDirected(desc, format)
	} else {
		text, err = renderUndirected(desc, format)
	}
	if err != nil {
		if errors.Is(err, errWrongDirection) {
			return fmt.Errorf("%s: %w", format, err)
		}
		return fmt.Errorf("building graph: %w", err)
	}
	logger.Debug("rendered graph", zap.String("format", format))

	fmt.Fprintln(out, text)
	return nil
}

func lint(w io.Writer, desc *dotparser.Graph) error {
	diags, err := dotparser.ValidateOrError(desc)
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
	}
	if err != nil {
		return fmt.Errorf("linting graph: %w", err)
	}
	return nil
}

func renderDirected(desc *dotparser.Graph, format string) (string, error) {
	switch format {
	case formatDOT:
		g, _, err := materialize.ToDirectedUsing(desc, materialize.WithAttrs, materialize.EdgeAttrs)
		if err != nil {
			return "", err
		}
		b, err := g.MarshalDOT(desc.ID)
		return string(b), err
	case formatComponents:
		return "", errWrongDirection
	}

	g, _, err := materialize.ToDirected(desc)
	if err != nil {
		return "", err
	}
	if format != formatTopo {
		return g.String(), nil
	}
	order, err := g.TopoOrder()
	if err != nil {
		return "", err
	}
	labels := make([]string, len(order))
	for i, idx := range order {
		labels[i], _ = g.Node(idx)
	}
	return strings.Join(labels, "\n"), nil
}

func renderUndirected(desc *dotparser.Graph, format string) (string, error) {
	switch format {
	case formatDOT:
		g, _, err := materialize.ToUndirectedUsing(desc, materialize.WithAttrs, materialize.EdgeAttrs)
		if err != nil {
			return "", err
		}
		b, err := g.MarshalDOT(desc.ID)
		return string(b), err
	case formatTopo:
		return "", errWrongDirection
	}

	g, _, err := materialize.ToUndirected(desc)
	if err != nil {
		return "", err
	}
	if format != formatComponents {
		return g.String(), nil
	}
	components := g.Components()
	lines := make([]string, 0, len(components))
	for _, c := range components {
		labels := make([]string, len(c))
		for i, idx := range c {
			labels[i], _ = g.Node(idx)
		}
		lines = append(lines, strings.Join(labels, " "))
	}
	return strings.Join(lines, "\n"), nil
}
