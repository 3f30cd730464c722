package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netlens/netlens/internal/trace"
)

var graphOutput string

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <design> <net-name>",
	Short: "Export a traced circuit as a Graphviz DOT document",
	Long: `Trace the XNET rooted at the given net and write the resulting circuit
graph (components and nets) in DOT format for rendering with Graphviz.

Example:
  netlens graph board.SchDoc SDA | dot -Tsvg -o sda.svg`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadDesign(args[0])
		if err != nil {
			return err
		}
		result, err := trace.FromNet(model, args[1], traceOptions())
		if err != nil {
			return err
		}

		out := os.Stdout
		if graphOutput != "" {
			f, err := os.Create(graphOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		return trace.ExportDOT(result, out)
	},
}

func init() {
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "write DOT to this file instead of stdout")
	rootCmd.AddCommand(graphCmd)
}
