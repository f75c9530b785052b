package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceCopper/pkg/kicad/pcb"
)

var infoCmd = &cobra.Command{
	Use:   "info <board_file>",
	Short: "Show PCB board summary",
	Long:  `Display a summary of a KiCad PCB file: version, layers, nets, footprints and copper counts.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var netsCmd = &cobra.Command{
	Use:   "nets <board_file> [net_name]",
	Short: "Show PCB net information",
	Long: `Display information about nets in a PCB file.

Without net_name: Lists all nets with pad/track/via counts
With net_name: Shows detailed information for that specific net`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(netsCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	board, err := pcb.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	fmt.Printf("Board: %s\n", filename)
	fmt.Printf("  Version: %d\n", board.Version)
	fmt.Printf("  Generator: %s\n", board.Generator)
	fmt.Printf("  Layers: %d\n", len(board.Layers))
	fmt.Printf("  Nets: %d\n", len(board.Nets))
	fmt.Printf("  Footprints: %d\n", len(board.Footprints))
	fmt.Printf("  Tracks: %d\n", len(board.Tracks))
	fmt.Printf("  Vias: %d\n", len(board.Vias))

	bbox := board.GetBoundingBox()
	if !bbox.IsEmpty() {
		fmt.Printf("  Board size: %.2f x %.2f mm\n", bbox.Width(), bbox.Height())
		fmt.Printf("  Board center: (%.2f, %.2f) mm\n", bbox.Center().X, bbox.Center().Y)
	}

	return nil
}

func runNets(cmd *cobra.Command, args []string) error {
	filename := args[0]

	board, err := pcb.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}

	// If net name provided, show details for that net
	if len(args) >= 2 {
		return showNetDetails(board, args[1])
	}

	listAllNets(board)
	return nil
}

func listAllNets(board *pcb.Board) {
	fmt.Printf("Board: %d nets\n\n", len(board.Nets))
	fmt.Printf("%-30s %6s %6s %6s\n", "Net Name", "Pads", "Tracks", "Vias")
	fmt.Println("─────────────────────────────────────────────────────────")

	netNames := board.GetAllNetNames()
	sort.Strings(netNames)

	for _, netName := range netNames {
		info := board.GetNetInfo(netName)
		if info != nil {
			fmt.Printf("%-30s %6d %6d %6d\n",
				netName,
				len(info.Pads),
				len(info.Tracks),
				len(info.Vias))
		}
	}
}

func showNetDetails(board *pcb.Board, netName string) error {
	info := board.GetNetInfo(netName)
	if info == nil {
		return fmt.Errorf("net '%s' not found", netName)
	}

	fmt.Printf("Net: %s (number %d)\n\n", info.Net.Name, info.Net.Number)

	fmt.Printf("Pads (%d):\n", len(info.Pads))
	for _, pad := range info.Pads {
		fmt.Printf("  Pad %-4s: %s %.2f×%.2f mm at (%.2f, %.2f)\n",
			pad.Number, pad.Shape,
			pad.Size.Width, pad.Size.Height,
			pad.Position.X, pad.Position.Y)
	}

	fmt.Printf("\nTracks (%d):\n", len(info.Tracks))
	for i, track := range info.Tracks {
		fmt.Printf("  Track %d: %.2f mm wide on %s from (%.2f, %.2f) to (%.2f, %.2f)\n",
			i+1, track.Width, track.Layer,
			track.Start.X, track.Start.Y,
			track.End.X, track.End.Y)
	}

	fmt.Printf("\nVias (%d):\n", len(info.Vias))
	for i, via := range info.Vias {
		fmt.Printf("  Via %d: %.2f mm diameter, %.2f mm drill at (%.2f, %.2f)\n",
			i+1, via.Size, via.Drill,
			via.Position.X, via.Position.Y)
	}

	return nil
}
