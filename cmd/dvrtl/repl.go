package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dobios/dvrtl/dvparser"
)

const (
	historyFile = ".dvrtl_history"
	promptMain  = "dv> "
	promptCont  = "..> "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive DVRTL session",
	Long:  "Read statements interactively, echoing the canonical form and any diagnostics. Incomplete input continues on the next line.",
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	fmt.Println("DVRTL REPL. Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readUnit(ln)
		if !ok {
			return nil
		}
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}

		switch src {
		case ":quit", ":q":
			return nil
		case ":help", ":h":
			fmt.Println("REPL commands:\n  :quit    Exit the REPL\n  :help    Show this help")
			continue
		}

		ln.AppendHistory(src)
		evaluate(src)
	}
}

// readUnit reads lines until the buffer parses or fails with an error that
// more input cannot fix. Returns ok=false on Ctrl+D.
func readUnit(ln *liner.State) (string, bool) {
	var b strings.Builder
	prompt := promptMain

	for {
		line, err := ln.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			return "", true // Ctrl+C: drop the buffer, back to a fresh prompt
		case errors.Is(err, io.EOF):
			fmt.Println()
			return "", false
		case err != nil:
			color.Red("%v", err)
			return "", true
		}

		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := dvparser.Parse([]byte(src)); !needsMoreInput(err) {
			return src, true
		}
		prompt = promptCont
	}
}

// needsMoreInput reports whether a parse error means the unit is merely
// unfinished: a syntax error at EOF can be cured by another line, anything
// else cannot.
func needsMoreInput(err error) bool {
	var synErr *dvparser.SyntaxError
	if errors.As(err, &synErr) {
		return synErr.Got == "EOF"
	}
	return false
}

func evaluate(src string) {
	circuit, err := dvparser.Parse([]byte(src))
	if err != nil {
		color.Red("%v", err)
		return
	}

	diags, _ := dvparser.ValidateOrError(circuit)
	_, rdiags := dvparser.Resolve(circuit)
	printDiagnostics(append(diags, rdiags...))

	if viper.GetBool("verbose") {
		fmt.Print(dvparser.Tree(circuit))
	}
	color.Blue("%s", strings.TrimRight(dvparser.Format(circuit), "\n"))
}
