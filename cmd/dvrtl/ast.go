package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dobios/dvrtl/dvparser"
)

var astCmd = &cobra.Command{
	Use:   "ast <design.dv>",
	Short: "Dump the AST of a design as an indented tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runAST,
}

func init() {
	rootCmd.AddCommand(astCmd)
}

func runAST(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading design: %w", err)
	}

	circuit, err := dvparser.Parse(src)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	fmt.Print(dvparser.Tree(circuit))
	return nil
}
