package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/rounding"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/units"
)

var (
	esSeries string
	esMethod string
)

// ESeriesResult is the JSON form of an eseries lookup.
type ESeriesResult struct {
	Input  float64 `json:"input"`
	Series string  `json:"series"`
	Method string  `json:"method"`
	Value  float64 `json:"value"`
}

var eseriesCmd = &cobra.Command{
	Use:   "eseries <value>",
	Short: "Snap a value to a standard E-series value",
	Long: `Find the closest standard value in an E-series.

Methods:
  eq  nearest value (ties go to the lower value)
  gt  smallest value strictly above the input
  lt  largest value at or below the input

Examples:
  smps eseries 4k5
  smps eseries 55 --series 24 --method gt
  smps eseries 0.0121 --series E96 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runESeries,
}

func init() {
	rootCmd.AddCommand(eseriesCmd)

	eseriesCmd.Flags().StringVarP(&esSeries, "series", "s", "E24", "series (E1, E3, E6, E12, E24, E48, E96)")
	eseriesCmd.Flags().StringVarP(&esMethod, "method", "m", "eq", "eq, gt or lt")
	eseriesCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
}

func runESeries(cmd *cobra.Command, args []string) error {
	v, err := units.Parse(args[0])
	if err != nil {
		return err
	}
	series, err := seriesFlag(cmd, esSeries)
	if err != nil {
		return err
	}
	method, err := rounding.ParseMethod(esMethod)
	if err != nil {
		return err
	}

	snapped, err := rounding.ClosestValue(v, series, method)
	if err != nil {
		return err
	}

	if outputJSON {
		return writeJSON(cmd, ESeriesResult{
			Input:  v,
			Series: series.String(),
			Method: method.String(),
			Value:  snapped,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %s)\n",
		units.Format(v, ""), units.Format(snapped, ""), series, method)
	return nil
}
