package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/netlens/netlens/internal/trace"
)

var (
	traceSkipTypes  []string
	traceIncludeDNS bool
)

// traceCmd groups the trace subcommands.
var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Trace an extended net (XNET) through series passives",
	Long: `Trace the logical signal path starting from a net or a pin: traversal
continues through two-pin passives (resistors, capacitors, inductors,
ferrite beads) and stops at power/ground rails and active devices. Results
are aggregated by part number and fingerprinted.`,
}

var traceNetCmd = &cobra.Command{
	Use:   "net <design> <net-name>",
	Short: "Trace from a named net",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadDesign(args[0])
		if err != nil {
			return err
		}
		result, err := trace.FromNet(model, args[1], traceOptions())
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

var tracePinCmd = &cobra.Command{
	Use:   "pin <design> <refdes.pin>",
	Short: "Trace from a component pin (e.g. U1.7)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := loadDesign(args[0])
		if err != nil {
			return err
		}
		result, err := trace.FromPin(model, args[1], traceOptions())
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	traceCmd.PersistentFlags().StringSliceVar(&traceSkipTypes, "skip", nil, "refdes prefixes to exclude (e.g. TP,MH)")
	traceCmd.PersistentFlags().BoolVar(&traceIncludeDNS, "include-dns", false, "include do-not-stuff components")
	traceCmd.AddCommand(traceNetCmd)
	traceCmd.AddCommand(tracePinCmd)
	rootCmd.AddCommand(traceCmd)
}

func traceOptions() trace.Options {
	return trace.Options{SkipTypes: traceSkipTypes, IncludeDNS: traceIncludeDNS}
}

func printResult(result *trace.Result) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
