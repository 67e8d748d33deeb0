// Package main implements qkernelc, a developer CLI that compiles a JSON
// relational-algebra plan into row functions and prints the result. It is
// not a server: one invocation, one plan, stdout, using a cobra
// root-command-plus-subcommand shape.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qkernelc",
		Short: "Compile a JSON relational-algebra plan to row functions",
	}
	rootCmd.AddCommand(compileCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func compileCmd() *cobra.Command {
	opts := compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile <plan.json>",
		Short: "Build, rewrite, and compile a plan; print the compiled columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts.planPath = args[0]
			return runCompile(os.Stdout, opts)
		},
	}
	cmd.Flags().StringVar(&opts.schemaPath, "schema", "", "Path to a JSON table-schema file (only needed for plans with table scans)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a qkernel.toml overriding default compilation options")
	cmd.Flags().BoolVar(&opts.run, "run", false, "Evaluate the compiled columns against the plan's inline VALUES rows")
	return cmd
}
