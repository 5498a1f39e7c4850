package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"corec/internal/diag"
	"corec/internal/diagfmt"
	"corec/internal/lexer"
	"corec/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "scan a source file and print its token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	maxDiag, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	fs := source.NewFileSet()
	fileID, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiag)
	toks := lexer.New(file, bag).Tokenize()

	switch format {
	case "json":
		if err := diagfmt.FormatTokensJSON(os.Stdout, toks); err != nil {
			return err
		}
	default:
		if err := diagfmt.FormatTokensPretty(os.Stdout, toks, fs); err != nil {
			return err
		}
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
