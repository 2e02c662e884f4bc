package design

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/controller"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/rounding"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/topology/boost"
)

// BoostInputs describes a boost design request.
type BoostInputs struct {
	// Operating point
	VIn  float64 // Input voltage (V)
	VOut float64 // Output voltage (V)
	IOut float64 // Output current (A)
	FSw  float64 // Switching frequency (Hz)
	VQ   float64 // Switch drop (V)
	VF   float64 // Diode drop (V)

	// Inductor. When L is zero it is sized for RippleRatio of the average
	// inductor current and snapped up to InductorSeries.
	L              float64
	RippleRatio    float64         // default: 0.3
	InductorSeries rounding.Series // default: E6

	// CurrentLimitMargin scales the peak inductor current to the switch
	// current limit used to size the sense resistor (default: 1.2).
	CurrentLimitMargin float64

	// MOSFET
	RdsOn      float64 // (Ω)
	TempFactor float64 // RdsOn hot/cold ratio (default: 1)
	TLH        float64 // turn-on transition (s)
	THL        float64 // turn-off transition (s)

	// Feedback divider, searched only when Divider is set.
	Divider        bool
	DividerSeries  rounding.Series // default: E12
	DividerIMin    float64         // default: 50µA
	DividerIMax    float64         // default: 1mA
	DividerResults int             // default: 5
}

// DefaultBoostInputs returns the defaults used by the CLI. The operating
// point still has to be filled in.
func DefaultBoostInputs() BoostInputs {
	return BoostInputs{
		RippleRatio:        0.3,
		InductorSeries:     rounding.E6,
		CurrentLimitMargin: 1.2,
		TempFactor:         1,
		DividerSeries:      rounding.E12,
		DividerIMin:        50e-6,
		DividerIMax:        1e-3,
		DividerResults:     5,
	}
}

// Validate checks the inputs and fills in defaults for zero values.
func (in *BoostInputs) Validate() error {
	d := DefaultBoostInputs()
	if in.RippleRatio == 0 {
		in.RippleRatio = d.RippleRatio
	}
	if in.InductorSeries == 0 {
		in.InductorSeries = d.InductorSeries
	}
	if in.CurrentLimitMargin == 0 {
		in.CurrentLimitMargin = d.CurrentLimitMargin
	}
	if in.TempFactor == 0 {
		in.TempFactor = d.TempFactor
	}
	if in.DividerSeries == 0 {
		in.DividerSeries = d.DividerSeries
	}
	if in.DividerIMin == 0 && in.DividerIMax == 0 {
		in.DividerIMin, in.DividerIMax = d.DividerIMin, d.DividerIMax
	}
	if in.DividerResults < 1 {
		in.DividerResults = d.DividerResults
	}

	if !(in.VIn > 0) || !(in.IOut > 0) || !(in.FSw > 0) {
		return fmt.Errorf("%w: Vin, Iout and Fsw must be positive", rounding.ErrDomain)
	}
	if !(in.VOut > in.VIn) {
		return fmt.Errorf("%w: boost output %gV must exceed input %gV", rounding.ErrDomain, in.VOut, in.VIn)
	}
	if in.L < 0 || !(in.RippleRatio > 0) {
		return fmt.Errorf("%w: inductance and ripple ratio must be positive", rounding.ErrDomain)
	}
	if !in.InductorSeries.Known() || !in.DividerSeries.Known() {
		return fmt.Errorf("design: unknown series %s/%s", in.InductorSeries, in.DividerSeries)
	}
	return nil
}

// BoostDesign is the result of DesignBoost.
type BoostDesign struct {
	Controller string  `json:"controller"`
	DutyCycle  float64 `json:"duty_cycle"`

	LMin     float64 `json:"l_min"`
	L        float64 `json:"l"`
	IRipple  float64 `json:"i_ripple"`
	IL       float64 `json:"i_l"`
	ILPeak   float64 `json:"i_l_peak"`
	ILValley float64 `json:"i_l_valley"`

	DiodePeakCurrent float64 `json:"diode_peak_current"`

	ILimit    float64 `json:"i_limit"`
	RSense    float64 `json:"r_sense"`
	// RSenseMax is nil when the limit diverges at VOut = 2·VIn.
	RSenseMax *float64 `json:"r_sense_max"`

	// SlopeCompensation is set when RSense exceeds RSenseMax and an
	// external slope compensation resistor is needed.
	SlopeCompensation bool `json:"slope_compensation"`

	MOSFET     boost.Losses            `json:"mosfet"`
	Capacitors boost.CapacitorCurrents `json:"capacitors"`

	Divider []rounding.Candidate `json:"divider,omitempty"`
}

// DesignBoost walks through a boost converter design for controller c.
//
// It fails with a *controller.UnsupportedTopologyError when c is not a
// boost controller, with controller.ErrFrequencyRange when FSw lies outside
// the controller's window, and with a *controller.MissingFieldError when c
// lacks a parameter one of the steps needs.
func DesignBoost(c *controller.Controller, in BoostInputs) (*BoostDesign, error) {
	if err := c.RequireTopology(controller.Boost); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("design: boost: %w", err)
	}
	if err := c.CheckFrequency(in.FSw); err != nil {
		return nil, err
	}

	r := &BoostDesign{Controller: c.Name}
	d := boost.DutyCycle(in.VIn, in.VOut, in.VQ, in.VF)
	r.DutyCycle = d
	r.IL = in.IOut / (1 - d)
	r.LMin = boost.MinInductorCCM(d, in.VIn, in.FSw, in.IOut)

	r.L = in.L
	if r.L == 0 {
		l := boost.InductorValueForRipple(in.VIn, d, in.FSw, in.RippleRatio*r.IL)
		snapped, err := rounding.ClosestValue(l, in.InductorSeries, rounding.Above)
		if err != nil {
			return nil, fmt.Errorf("design: snap inductor: %w", err)
		}
		r.L = snapped
	}
	r.IRipple = boost.InductorRippleCurrent(in.VIn, d, in.FSw, r.L)
	r.ILPeak = r.IL + r.IRipple
	r.ILValley = r.IL - r.IRipple
	r.DiodePeakCurrent = boost.DiodePeakCurrent(r.ILPeak, d, in.IOut)

	var err error
	r.ILimit = r.ILPeak * in.CurrentLimitMargin
	if r.RSense, err = boost.SenseResistor(c, r.ILimit, d); err != nil {
		return nil, err
	}
	limit, err := boost.SenseResistorLimit(c, in.FSw, r.L, in.VOut, in.VIn)
	if err != nil {
		return nil, err
	}
	if !math.IsInf(limit, 0) && !math.IsNaN(limit) {
		r.RSenseMax = &limit
		// A negative limit means vOut < 2vIn, where no slope compensation
		// is required.
		r.SlopeCompensation = limit > 0 && r.RSense > limit
	}

	r.MOSFET = boost.MOSFETLosses(boost.MOSFETParams{
		IL:         r.IL,
		ILPeak:     r.ILPeak,
		ILValley:   r.ILValley,
		D:          d,
		VOut:       in.VOut,
		RdsOn:      in.RdsOn,
		TempFactor: in.TempFactor,
		TLH:        in.TLH,
		THL:        in.THL,
		FSw:        in.FSw,
	})
	r.Capacitors = boost.CapacitorRMSCurrents(r.IRipple, d, in.IOut)

	if in.Divider {
		vRef, err := c.Param(controller.VRef)
		if err != nil {
			return nil, fmt.Errorf("design: feedback divider: %w", err)
		}
		q := rounding.DefaultDividerQuery()
		q.VIn, q.VOut = in.VOut, vRef
		q.IMin, q.IMax = in.DividerIMin, in.DividerIMax
		q.Series = in.DividerSeries
		q.NumResults = in.DividerResults
		if r.Divider, err = rounding.ResistorDivider(q); err != nil {
			return nil, fmt.Errorf("design: feedback divider: %w", err)
		}
	}
	return r, nil
}
