package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/copper"
	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

var (
	captureRefRot  float64
	captureCluster bool
	captureRadius  float64
)

var captureCmd = &cobra.Command{
	Use:   "capture <board_file> <src_ref> [dst_ref]",
	Short: "Capture a copper template from a board",
	Long: `Capture copper geometry into a template and print it.

With two references, captures the strict shortest track path between them:

  otc capture board.kicad_pcb LED2 LED3

With --cluster, captures the isolated copper chains around one footprint:

  otc capture board.kicad_pcb SW3 --cluster --radius 8.5`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().Float64Var(&captureRefRot, "ref-rot", 0, "reference orientation in degrees for path normalisation")
	captureCmd.Flags().BoolVar(&captureCluster, "cluster", false, "capture a cluster around a single footprint")
	captureCmd.Flags().Float64Var(&captureRadius, "radius", 8.5, "cluster capture radius in mm")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	board, err := pcb.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	eng := copper.NewEngine(board)

	var tmpl copper.Template
	switch {
	case captureCluster:
		tmpl, _ = eng.CaptureCluster(args[1], copper.FromMM(captureRadius))
		if tmpl.Empty() {
			return fmt.Errorf("no isolated copper found around '%s'", args[1])
		}
	case len(args) == 3:
		tmpl, _ = eng.CapturePath(args[1], args[2], captureRefRot)
		if tmpl.Empty() {
			return fmt.Errorf("no path found from '%s' to '%s'", args[1], args[2])
		}
	default:
		return fmt.Errorf("path capture needs a destination reference (or use --cluster)")
	}

	printTemplate(tmpl)
	return nil
}

func printTemplate(tmpl copper.Template) {
	switch tmpl.Kind {
	case copper.TemplateCluster:
		fmt.Printf("Cluster template: %d items, radius %.2f mm, reference rotation %.1f°\n",
			len(tmpl.Items), copper.ToMM(tmpl.Radius), tmpl.RefRot)
	default:
		fmt.Printf("Path template: %d items, reference rotation %.1f°\n",
			len(tmpl.Items), tmpl.RefRot)
	}

	for i, item := range tmpl.Items {
		switch item.Kind {
		case copper.KindVia:
			fmt.Printf("  %2d: via   at (%.3f, %.3f) size %.2f drill %.2f",
				i+1, copper.ToMM(item.Pos.X), copper.ToMM(item.Pos.Y),
				item.Width, item.Drill)
		default:
			fmt.Printf("  %2d: track (%.3f, %.3f) -> (%.3f, %.3f) width %.2f on %s",
				i+1,
				copper.ToMM(item.Start.X), copper.ToMM(item.Start.Y),
				copper.ToMM(item.End.X), copper.ToMM(item.End.Y),
				item.Width, item.Layer)
		}
		if item.PadNumber != "" {
			fmt.Printf(" [pad %s]", item.PadNumber)
		}
		fmt.Println()
	}
}
