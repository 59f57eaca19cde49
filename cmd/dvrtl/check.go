package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dobios/dvrtl/dvparser"
)

var checkCmd = &cobra.Command{
	Use:   "check <design.dv>",
	Short: "Parse, validate and resolve a DVRTL design",
	Long:  "Parse a design, run structural validation and symbol resolution, and report all diagnostics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("ast", false, "Dump the AST tree after checking")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	file := args[0]
	verbose := viper.GetBool("verbose")
	dumpAST, _ := cmd.Flags().GetBool("ast")

	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading design: %w", err)
	}

	circuit, err := dvparser.Parse(src)
	if err != nil {
		color.Red("%s: %v", file, err)
		return fmt.Errorf("parsing design: %w", err)
	}

	diags, verr := dvparser.ValidateOrError(circuit)
	table, rdiags := dvparser.Resolve(circuit)
	diags = append(diags, rdiags...)

	printDiagnostics(diags)

	if verbose {
		printDesignSummary(circuit, table)
	}

	if dumpAST {
		fmt.Print(dvparser.Tree(circuit))
	}

	if verr != nil {
		return fmt.Errorf("design %q is structurally invalid", file)
	}
	for _, d := range rdiags {
		if d.Severity == dvparser.Error {
			return fmt.Errorf("design %q does not resolve", file)
		}
	}

	if len(diags) == 0 {
		color.Green("%s: ok", file)
	}
	return nil
}

func printDiagnostics(diags []dvparser.Diagnostic) {
	for _, d := range diags {
		switch d.Severity {
		case dvparser.Error:
			color.Red("%s", d)
		case dvparser.Warning:
			color.Yellow("%s", d)
		default:
			fmt.Fprintln(os.Stderr, d)
		}
	}
}

func printDesignSummary(c *dvparser.Circuit, table *dvparser.SymbolTable) {
	fmt.Fprintf(os.Stderr, "  Statements: %d\n", len(c.Stmts))
	fmt.Fprintf(os.Stderr, "  Registers: %d\n", len(c.Registers()))
	fmt.Fprintf(os.Stderr, "  Assertions: %d\n", len(c.Asserts()))

	modules := table.Modules()
	fmt.Fprintf(os.Stderr, "  Modules:\n")
	for _, m := range modules {
		contract := ""
		if m.Def != nil && m.Def.Contract != nil {
			contract = " [contracted]"
		}
		fmt.Fprintf(os.Stderr, "    - %s/%d%s\n", m.Name, m.Arity, contract)
	}
}
