package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var netsFilter string

// netsCmd represents the nets command
var netsCmd = &cobra.Command{
	Use:   "nets <design>",
	Short: "List a design's nets with endpoint counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadDesign(args[0])
		if err != nil {
			return err
		}
		for _, name := range model.NetNames() {
			if netsFilter != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(netsFilter)) {
				continue
			}
			pins := 0
			for _, pinList := range model.Nets[name] {
				pins += len(pinList)
			}
			fmt.Printf("%-40s %d pins\n", name, pins)
		}
		return nil
	},
}

// componentsCmd represents the components command
var componentsCmd = &cobra.Command{
	Use:   "components <design>",
	Short: "List a design's components",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadDesign(args[0])
		if err != nil {
			return err
		}
		for _, refdes := range model.Refdeses() {
			comp := model.Components[refdes]
			mpn := comp.MPN
			if mpn == "" {
				mpn = "-"
			}
			fmt.Printf("%-8s %-32s %s\n", refdes, mpn, comp.Description)
		}
		return nil
	},
}

func init() {
	netsCmd.Flags().StringVar(&netsFilter, "filter", "", "substring filter on net names")
	rootCmd.AddCommand(netsCmd)
	rootCmd.AddCommand(componentsCmd)
}
