package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/heavyql/qkernel/sql"
	"github.com/heavyql/qkernel/sql/codegen"
	"github.com/heavyql/qkernel/sql/config"
	"github.com/heavyql/qkernel/sql/errcode"
	"github.com/heavyql/qkernel/sql/plan"
	"github.com/heavyql/qkernel/sql/transform"
)

// compileOptions holds the inputs a single `qkernelc compile` invocation
// gathers from its flags.
type compileOptions struct {
	planPath   string
	schemaPath string
	configPath string
	run        bool
}

// runCompile parses planPath's JSON plan, runs the rewrite pipeline, and
// prints a textual description of every node plus, when the root node is
// a Project, the compiled row functions of its target list. This is the developer
// CLI's "compile a plan to IR and print it" step; there is no native
// code object to disassemble, so the printed IR is the compiled
// expression tree's structure together with the overflow/null-policy
// decisions codegen actually bakes into each RowFunc.
func runCompile(out io.Writer, opts compileOptions) error {
	doc, err := os.ReadFile(opts.planPath)
	if err != nil {
		return fmt.Errorf("qkernelc: read plan %q: %w", opts.planPath, err)
	}

	catalog, err := loadCatalog(opts.schemaPath)
	if err != nil {
		return err
	}

	root, err := plan.NewBuilder(catalog).Build(doc)
	if err != nil {
		return fmt.Errorf("qkernelc: build plan: %w", err)
	}

	root, err = transform.Pipeline(root)
	if err != nil {
		return fmt.Errorf("qkernelc: rewrite plan: %w", err)
	}

	compOpts := sql.DefaultCompilationOptions()
	if opts.configPath != "" {
		compOpts, err = config.Load(opts.configPath)
		if err != nil {
			return err
		}
	}
	ctx := sql.NewContext(context.Background(), compOpts, sql.CPU)

	printNode(out, root, 0)

	if p, ok := root.(*plan.Project); ok {
		if err := compileProject(out, ctx, p, opts.run); err != nil {
			return err
		}
	}
	return nil
}

func printNode(out io.Writer, n plan.Node, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Fprintf(out, "%s%s\n", indent, n.String())
	for _, c := range n.Children() {
		printNode(out, c, depth+1)
	}
}

func compileProject(out io.Writer, ctx *sql.Context, p *plan.Project, run bool) error {
	compiler := codegen.NewCompiler(ctx, codegen.NewOptions())
	fns := make([]codegen.RowFunc, len(p.Exprs))
	for i, e := range p.Exprs {
		fn, err := compiler.Compile(e)
		if err != nil {
			return fmt.Errorf("qkernelc: compile column %d (%s): %w", i, p.FieldNames[i], err)
		}
		fns[i] = fn
		fmt.Fprintf(out, "column %d %q <- %s\n", i, p.FieldNames[i], e.String())
	}

	if !run {
		return nil
	}
	values, ok := p.Input().(*plan.LogicalValues)
	if !ok {
		fmt.Fprintln(out, "run: input is not inline VALUES, skipping row evaluation")
		return nil
	}
	for rowIdx, row := range values.Rows {
		fmt.Fprintf(out, "row %d:\n", rowIdx)
		for i, fn := range fns {
			value, isNull, code := fn(sql.Row(row), int64(rowIdx))
			switch {
			case code != errcode.OK:
				fmt.Fprintf(out, "  %s = <error %d>\n", p.FieldNames[i], code)
			case isNull:
				fmt.Fprintf(out, "  %s = NULL\n", p.FieldNames[i])
			default:
				fmt.Fprintf(out, "  %s = %v\n", p.FieldNames[i], value)
			}
		}
	}
	return nil
}
