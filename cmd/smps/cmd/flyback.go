package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/design"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/units"
)

var (
	flyController string
	flyVIn        units.Value
	flyVOut       units.Value
	flyVF         units.Value
	flyNPS        units.Value
	flyEta        units.Value = 0.8
	flySeries     string
)

var flybackCmd = &cobra.Command{
	Use:   "flyback",
	Short: "Size the feedback resistor and limits of a flyback controller",
	Long: `Compute the duty cycle, feedback resistor (snapped to a standard value),
maximum output power and minimum primary inductance for a flyback
converter driven by a catalog controller.

Examples:
  smps flyback --vin 12 --vout 400 --vf 1.45 --nps 0.1
  smps flyback --controller LT8300 --vin 24 --vout 15 --vf 0.5 --nps 3 --eta 0.85`,
	RunE: runFlyback,
}

func init() {
	rootCmd.AddCommand(flybackCmd)

	f := flybackCmd.Flags()
	f.StringVarP(&flyController, "controller", "c", "LT8300", "controller name")
	f.Var(&flyVIn, "vin", "input voltage (V)")
	f.Var(&flyVOut, "vout", "output voltage (V)")
	f.Var(&flyVF, "vf", "output diode forward drop (V)")
	f.Var(&flyNPS, "nps", "turns ratio Np:Ns")
	f.Var(&flyEta, "eta", "efficiency")
	f.StringVar(&flySeries, "series", "E96", "series for the feedback resistor")
	f.BoolVar(&outputJSON, "json", false, "output as JSON")

	for _, name := range []string{"vin", "vout", "nps"} {
		flybackCmd.MarkFlagRequired(name)
	}
}

func runFlyback(cmd *cobra.Command, args []string) error {
	c, err := lookupController(flyController)
	if err != nil {
		return err
	}
	series, err := seriesFlag(cmd, flySeries)
	if err != nil {
		return err
	}

	in := design.DefaultFlybackLimitInputs()
	in.VIn = flyVIn.Float()
	in.VOut = flyVOut.Float()
	in.VF = flyVF.Float()
	in.NPS = flyNPS.Float()
	in.Eta = flyEta.Float()
	in.Series = series

	r, err := design.FlybackLimits(c, in)
	if err != nil {
		return err
	}

	if outputJSON {
		return writeJSON(cmd, r)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Flyback design for %s\n\n", r.Controller)
	fmt.Fprintf(w, "  Duty cycle:           %.4f\n", r.DutyCycle)
	fmt.Fprintf(w, "  Feedback resistor:    %s (%s: %s)\n",
		units.Format(r.FeedbackResistor, "Ω"), series, units.Format(r.FeedbackResistorStd, "Ω"))
	fmt.Fprintf(w, "  Max output power:     %s\n", units.Format(r.MaxOutputPower, "W"))
	fmt.Fprintf(w, "  Lp min (t_off_min):   %s\n", units.Format(r.LpMinOff, "H"))
	fmt.Fprintf(w, "  Lp min (t_on_min):    %s\n", units.Format(r.LpMinOn, "H"))
	fmt.Fprintf(w, "  Lp min:               %s\n", units.Format(r.LpMin, "H"))
	return nil
}
