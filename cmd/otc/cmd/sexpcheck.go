package cmd

import (
	"fmt"
	"os"

	chewxy "github.com/chewxy/sexp"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/sexp/kicadsexp"
)

var sexpCheckCmd = &cobra.Command{
	Use:   "sexp-check <board_file>",
	Short: "Cross-check S-expression parsing of a board file",
	Long: `Parse a board file with both the KiCad-aware parser and a generic
S-expression parser and compare what they see. Useful for tracking down
files the board parser chokes on.`,
	Args: cobra.ExactArgs(1),
	RunE: runSexpCheck,
}

func init() {
	rootCmd.AddCommand(sexpCheckCmd)
}

func runSexpCheck(cmd *cobra.Command, args []string) error {
	filename := args[0]

	info, err := os.Stat(filename)
	if err != nil {
		return err
	}
	fmt.Printf("File: %s (%d bytes)\n", filename, info.Size())

	kerr := checkKicadParser(filename)
	gerr := checkGenericParser(filename)

	if kerr != nil && gerr == nil {
		fmt.Println("\nThe generic parser accepts this file but the board parser does not;")
		fmt.Println("likely a construct the board parser's lexer mishandles.")
	}
	return nil
}

func checkKicadParser(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	sexps, err := kicadsexp.Parse(file)
	if err != nil {
		fmt.Printf("kicadsexp: parse failed: %v\n", err)
		return err
	}
	if len(sexps) == 0 {
		fmt.Println("kicadsexp: ok, but file is empty")
		return nil
	}
	root, ok := sexps[0].(*kicadsexp.List)
	if !ok {
		fmt.Println("kicadsexp: ok, but top level is a bare atom")
		return nil
	}
	fmt.Printf("kicadsexp: ok, root %q with %d children\n", root.Head().String(), root.Len()-1)
	return nil
}

func checkGenericParser(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	sexps, err := chewxy.Parse(file)
	if err != nil {
		fmt.Printf("generic:   parse failed: %v\n", err)
		return err
	}
	fmt.Printf("generic:   ok, %d top-level expressions\n", len(sexps))
	if len(sexps) > 0 && !sexps[0].IsLeaf() {
		fmt.Printf("generic:   first expression has %d leaves\n", sexps[0].LeafCount())
	}
	return nil
}
