package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/copper"
	"github.com/OpenTraceLab/OpenTraceCopper/pkg/copper/plan"
	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

var replicateOutput string

var replicateCmd = &cobra.Command{
	Use:   "replicate <board_file> <plan_file>",
	Short: "Run a replication plan against a board",
	Long: `Execute a replication plan: capture templates, clean up target pads and
replay the templates across the board, then write the modified board out.

Example plan:

  reference LED2
  capture H path LED2 -> LED3
  cleanup LED pad 2 radius 100 skip 14
  apply H to LED 1..75 step 3 pad 2 skip 14

By default the board file is rewritten in place; use -o to write the
result elsewhere.`,
	Args: cobra.ExactArgs(2),
	RunE: runReplicate,
}

func init() {
	replicateCmd.Flags().StringVarP(&replicateOutput, "output", "o", "", "output board file (default: overwrite input)")
	rootCmd.AddCommand(replicateCmd)
}

func runReplicate(cmd *cobra.Command, args []string) error {
	boardFile := args[0]
	planFile := args[1]

	board, err := pcb.ParseFile(boardFile)
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	parser, err := plan.NewParser()
	if err != nil {
		return fmt.Errorf("error building plan parser: %w", err)
	}

	p, err := parser.ParseFile(planFile)
	if err != nil {
		return fmt.Errorf("error parsing plan: %w", err)
	}

	driver := copper.NewDriver(board, logger)
	exec := plan.NewExecutor(driver, logger)
	if err := exec.Run(p); err != nil {
		return fmt.Errorf("error running plan: %w", err)
	}

	out := replicateOutput
	if out == "" {
		out = boardFile
	}
	if err := board.Save(out); err != nil {
		return fmt.Errorf("error writing board: %w", err)
	}

	fmt.Printf("Wrote %s\n", out)
	return nil
}
