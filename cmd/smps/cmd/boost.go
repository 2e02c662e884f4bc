package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/design"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/rounding"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/units"
)

var (
	boostController string
	boostVIn        units.Value
	boostVOut       units.Value
	boostIOut       units.Value
	boostFSw        units.Value
	boostVQ         units.Value
	boostVF         units.Value
	boostL          units.Value
	boostRipple     units.Value = 0.3
	boostMargin     units.Value = 1.2
	boostRdsOn      units.Value
	boostTempFactor units.Value = 1
	boostTLH        units.Value
	boostTHL        units.Value
	boostDivider    bool
	boostSeries     string
	boostResults    int
)

var boostCmd = &cobra.Command{
	Use:   "boost",
	Short: "Walk through a boost converter design",
	Long: `Design a boost converter around a catalog controller: duty cycle,
inductor, peak currents, sense resistor and slope compensation check,
MOSFET losses, capacitor RMS currents and optionally the feedback divider.

When --l is omitted the inductor is sized for --ripple of the average
inductor current and rounded up to the E6 series.

Examples:
  smps boost --vin 12 --vout 48 --iout 500m --fsw 400k
  smps boost --controller LM3478 --vin 40 --vout 480 --iout 100m --fsw 250k \
      --vq 0.3 --vf 1.2 --l 1m --rds-on 0.1 --t-lh 20n --t-hl 10n --divider`,
	RunE: runBoost,
}

func init() {
	rootCmd.AddCommand(boostCmd)

	f := boostCmd.Flags()
	f.StringVarP(&boostController, "controller", "c", "LM3478", "controller name")
	f.Var(&boostVIn, "vin", "input voltage (V)")
	f.Var(&boostVOut, "vout", "output voltage (V)")
	f.Var(&boostIOut, "iout", "output current (A)")
	f.Var(&boostFSw, "fsw", "switching frequency (Hz)")
	f.Var(&boostVQ, "vq", "switch voltage drop (V)")
	f.Var(&boostVF, "vf", "diode forward drop (V)")
	f.Var(&boostL, "l", "inductance (H); sized from --ripple when omitted")
	f.Var(&boostRipple, "ripple", "ripple current as a fraction of the inductor current")
	f.Var(&boostMargin, "limit-margin", "current limit as a multiple of the peak inductor current")
	f.Var(&boostRdsOn, "rds-on", "MOSFET on resistance (Ω)")
	f.Var(&boostTempFactor, "temp-factor", "RdsOn temperature factor")
	f.Var(&boostTLH, "t-lh", "MOSFET turn-on time (s)")
	f.Var(&boostTHL, "t-hl", "MOSFET turn-off time (s)")
	f.BoolVar(&boostDivider, "divider", false, "search a feedback divider for V_ref")
	f.StringVar(&boostSeries, "series", "E12", "series for the feedback divider")
	f.IntVarP(&boostResults, "results", "n", 3, "number of divider candidates")
	f.BoolVar(&outputJSON, "json", false, "output as JSON")

	for _, name := range []string{"vin", "vout", "iout", "fsw"} {
		boostCmd.MarkFlagRequired(name)
	}
}

func runBoost(cmd *cobra.Command, args []string) error {
	c, err := lookupController(boostController)
	if err != nil {
		return err
	}
	series, err := seriesFlag(cmd, boostSeries)
	if err != nil {
		return err
	}

	in := design.DefaultBoostInputs()
	in.VIn = boostVIn.Float()
	in.VOut = boostVOut.Float()
	in.IOut = boostIOut.Float()
	in.FSw = boostFSw.Float()
	in.VQ = boostVQ.Float()
	in.VF = boostVF.Float()
	in.L = boostL.Float()
	in.RippleRatio = boostRipple.Float()
	in.CurrentLimitMargin = boostMargin.Float()
	in.RdsOn = boostRdsOn.Float()
	in.TempFactor = boostTempFactor.Float()
	in.TLH = boostTLH.Float()
	in.THL = boostTHL.Float()
	in.Divider = boostDivider
	in.DividerSeries = series
	in.DividerResults = boostResults

	d, err := design.DesignBoost(c, in)
	if err != nil {
		return err
	}
	log.V(1).Info("Designed boost converter",
		"controller", d.Controller,
		"dutyCycle", d.DutyCycle,
		"inductance", d.L)

	if outputJSON {
		return writeJSON(cmd, d)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Boost design for %s\n\n", d.Controller)
	fmt.Fprintf(w, "  Duty cycle:          %.4f\n", d.DutyCycle)
	fmt.Fprintf(w, "  L min (CCM):         %s\n", units.Format(d.LMin, "H"))
	fmt.Fprintf(w, "  L:                   %s\n", units.Format(d.L, "H"))
	fmt.Fprintf(w, "  Inductor current:    %s avg, %s peak, %s valley\n",
		units.Format(d.IL, "A"), units.Format(d.ILPeak, "A"), units.Format(d.ILValley, "A"))
	fmt.Fprintf(w, "  Ripple current:      %s\n", units.Format(d.IRipple, "A"))
	fmt.Fprintf(w, "  Diode peak current:  %s\n", units.Format(d.DiodePeakCurrent, "A"))
	fmt.Fprintf(w, "  Current limit:       %s\n", units.Format(d.ILimit, "A"))
	limit := "no limit"
	if d.RSenseMax != nil {
		limit = "limit " + units.Format(*d.RSenseMax, "Ω")
	}
	fmt.Fprintf(w, "  Sense resistor:      %s (%s)\n", units.Format(d.RSense, "Ω"), limit)
	if d.SlopeCompensation {
		fmt.Fprintf(w, "  Slope compensation:  required\n")
	}
	fmt.Fprintf(w, "  MOSFET losses:       %s conduction, %s switching, %s total\n",
		units.Format(d.MOSFET.Conduction, "W"), units.Format(d.MOSFET.Switching, "W"),
		units.Format(d.MOSFET.Total, "W"))
	fmt.Fprintf(w, "  Capacitor RMS:       %s input, %s output\n",
		units.Format(d.Capacitors.Input, "A"), units.Format(d.Capacitors.Output, "A"))

	if len(d.Divider) > 0 {
		fmt.Fprintf(w, "\nFeedback divider (%s):\n", series)
		printCandidates(cmd, d.Divider, false)
	}
	return nil
}

func printCandidates(cmd *cobra.Command, cs []rounding.Candidate, impliedVIn bool) {
	w := cmd.OutOrStdout()
	vLabel := "Vtap"
	if impliedVIn {
		vLabel = "Vin"
	}
	fmt.Fprintf(w, "  %-10s %-10s %-10s %-10s %-9s %s\n", "Rtop", "Rbottom", vLabel, "Error", "Rel", "Current")
	for _, c := range cs {
		fmt.Fprintf(w, "  %-10s %-10s %-10s %-10s %-9s %s\n",
			units.Format(c.Top, "Ω"),
			units.Format(c.Bottom, "Ω"),
			units.Format(c.Voltage, "V"),
			units.Format(c.AbsError, "V"),
			fmt.Sprintf("%+.3f%%", c.RelError*100),
			units.Format(c.Current, "A"))
	}
}
