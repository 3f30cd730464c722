package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/netlens/netlens/internal/altium"
	"github.com/netlens/netlens/internal/discover"
	"github.com/netlens/netlens/internal/netlist"
)

var parseJSON bool

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <design>",
	Short: "Decode a design file into the universal netlist model",
	Long: `Decode an Altium schematic (.SchDoc), an Altium project (.PrjPcb), or a
Cadence design (.dsn/.cpm with its pstxnet/pstxprt/pstchip companion files)
and print the resulting universal netlist model.

Example:
  netlens parse board.SchDoc
  netlens parse board.PrjPcb --json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print the full model as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	model, err := loadDesign(args[0])
	if err != nil {
		return err
	}

	if parseJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(model)
	}

	fmt.Printf("Nets:       %d\n", len(model.Nets))
	fmt.Printf("Components: %d\n", len(model.Components))
	if verbose {
		for _, refdes := range model.Refdeses() {
			comp := model.Components[refdes]
			mpn := comp.MPN
			if mpn == "" {
				mpn = "-"
			}
			fmt.Printf("  %-8s %-30s %d pins\n", refdes, mpn, len(comp.Pins))
		}
	}
	return nil
}

// loadDesign decodes the design at path, showing sheet progress for
// multi-document projects.
func loadDesign(path string) (*netlist.Netlist, error) {
	loader, err := discover.NewLoader(viper.GetStringSlice("discovery.ignore"))
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".prjpcb") {
		docs, err := altium.ProjectDocuments(path)
		if err != nil {
			return nil, err
		}
		bar := progressbar.Default(int64(len(docs)), "decoding sheets")
		loader.Progress = func(string) { bar.Add(1) }
	}
	return loader.Load(path)
}
