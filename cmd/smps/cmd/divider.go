package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/rounding"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/units"
)

var (
	divVIn       units.Value
	divVOut      units.Value
	divIMin      units.Value
	divIMax      units.Value
	divSeries    string
	divResults   int
	divImpliedIn bool
)

var dividerCmd = &cobra.Command{
	Use:   "divider",
	Short: "Search standard-value resistor dividers",
	Long: `Search every standard-value resistor pair whose branch current lies in
[--imin, --imax] and list the pairs whose tap voltage is closest to --vout.

With --implied-vin the voltage column shows the input voltage that would
produce exactly --vout at the tap, which is what a feedback divider
regulates to.

Examples:
  smps divider --vin 12 --vout 1.26 --imin 50u --imax 1m
  smps divider --vin 5 --vout 2.5 --imin 100u --imax 1m --series E3 -n 3
  smps divider --vin 48 --vout 1.26 --imin 50u --imax 1m --implied-vin --json`,
	RunE: runDivider,
}

func init() {
	rootCmd.AddCommand(dividerCmd)

	f := dividerCmd.Flags()
	f.Var(&divVIn, "vin", "voltage across the divider (V)")
	f.Var(&divVOut, "vout", "target tap voltage (V)")
	f.Var(&divIMin, "imin", "minimum branch current (A)")
	f.Var(&divIMax, "imax", "maximum branch current (A)")
	f.StringVarP(&divSeries, "series", "s", "E12", "series for both resistors")
	f.IntVarP(&divResults, "results", "n", 10, "number of candidates")
	f.BoolVar(&divImpliedIn, "implied-vin", false, "report the implied input voltage instead of the tap voltage")
	f.BoolVar(&outputJSON, "json", false, "output as JSON")

	for _, name := range []string{"vin", "vout", "imin", "imax"} {
		dividerCmd.MarkFlagRequired(name)
	}
}

func runDivider(cmd *cobra.Command, args []string) error {
	series, err := seriesFlag(cmd, divSeries)
	if err != nil {
		return err
	}

	q := rounding.DefaultDividerQuery()
	q.VIn = divVIn.Float()
	q.VOut = divVOut.Float()
	q.IMin = divIMin.Float()
	q.IMax = divIMax.Float()
	q.Series = series
	q.NumResults = divResults
	q.ImpliedVIn = divImpliedIn

	cs, err := rounding.ResistorDivider(q)
	if err != nil {
		return err
	}
	log.V(1).Info("Searched resistor dividers", "series", series.String(), "candidates", len(cs))

	if outputJSON {
		return writeJSON(cmd, cs)
	}
	if len(cs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s divider keeps the current within [%s, %s]\n",
			series, units.Format(q.IMin, "A"), units.Format(q.IMax, "A"))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s dividers for %s -> %s:\n",
		series, units.Format(q.VIn, "V"), units.Format(q.VOut, "V"))
	printCandidates(cmd, cs, q.ImpliedVIn)
	return nil
}
