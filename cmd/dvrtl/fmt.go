package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dobios/dvrtl/dvparser"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <design.dv> [more.dv ...]",
	Short: "Format DVRTL designs",
	Long:  "Reprint designs in canonical surface syntax. By default the result is written to stdout.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("write", false, "Rewrite files in place instead of printing")
	fmtCmd.Flags().Bool("check", false, "Exit nonzero if any file is not already formatted")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	check, _ := cmd.Flags().GetBool("check")

	var unformatted []string
	for _, file := range args {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading design: %w", err)
		}

		circuit, err := dvparser.Parse(src)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file, err)
		}
		formatted := dvparser.Format(circuit)

		switch {
		case check:
			if formatted != string(src) {
				fmt.Fprintf(os.Stderr, "%s is not formatted\n", file)
				unformatted = append(unformatted, file)
			}
		case write:
			if formatted != string(src) {
				if err := os.WriteFile(file, []byte(formatted), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", file, err)
				}
			}
		default:
			fmt.Print(formatted)
		}
	}

	if len(unformatted) > 0 {
		return fmt.Errorf("%d file(s) not formatted", len(unformatted))
	}
	return nil
}
