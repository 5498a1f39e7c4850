package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"corec/internal/diag"
	"corec/internal/diagfmt"
	"corec/internal/lexer"
	"corec/internal/parser"
	"corec/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "parse a source file and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	maxDiag, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	fs := source.NewFileSet()
	fileID, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiag)
	toks := lexer.New(file, bag).Tokenize()
	unitName := unitNameFromPath(args[0])
	astFile := parser.New(toks, fileID, bag).ParseFile(unitName)

	if err := diagfmt.DumpAST(os.Stdout, astFile); err != nil {
		return err
	}

	if bag.Len() > 0 {
		bag.Sort()
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
			Color:   colorEnabled(cmd, os.Stderr),
			Context: 1,
		})
		if bag.HasErrors() {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			os.Exit(1)
		}
	}
	return nil
}

func unitNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
