package design

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/controller"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/rounding"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/topology/flyback"
)

// Mode is a flyback conduction mode.
type Mode string

const (
	ModeDCM Mode = "DCM"
	ModeCCM Mode = "CCM"
)

// FlybackInputs is the operating point for AnalyzeFlyback.
type FlybackInputs struct {
	VIn   float64 // Input voltage (V)
	VOut  float64 // Desired output voltage (V)
	RLoad float64 // Load resistance (Ω)
	FSw   float64 // Switching frequency (Hz)
	Lp    float64 // Primary inductance (H)
	NPS   float64 // Turns ratio Np:Ns (default: 1)
}

// DefaultFlybackInputs returns inputs with a 1:1 transformer.
func DefaultFlybackInputs() FlybackInputs {
	return FlybackInputs{NPS: 1}
}

// Validate rejects inputs that would divide by zero or take the root of a
// negative number.
func (in FlybackInputs) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"Rload", in.RLoad},
		{"Fsw", in.FSw},
		{"Lp", in.Lp},
		{"Nps", in.NPS},
	} {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", rounding.ErrDomain, p.name, p.v)
		}
	}
	if math.IsNaN(in.VIn) || math.IsNaN(in.VOut) {
		return fmt.Errorf("%w: input and output voltage are required", rounding.ErrDomain)
	}
	return nil
}

// FlybackReport is the boundary-mode analysis of a flyback operating point.
type FlybackReport struct {
	BoundaryDutyCycle float64 `json:"boundary_duty_cycle"`
	OnTime            float64 `json:"on_time"`
	PeakCurrent       float64 `json:"peak_current"`
	StoredEnergy      float64 `json:"stored_energy"`
	BoundaryPower     float64 `json:"boundary_power"`
	LoadPower         float64 `json:"load_power"`
	RatioDCM          float64 `json:"ratio_dcm"`
	RatioCCM          float64 `json:"ratio_ccm"`
	Mode              Mode    `json:"mode"`
}

// AnalyzeFlyback evaluates the converter at the DCM/CCM boundary duty cycle
// and classifies the load: below the boundary power the converter runs in
// DCM, at or above it in CCM.
func AnalyzeFlyback(in FlybackInputs) (*FlybackReport, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("design: flyback analysis: %w", err)
	}

	db := flyback.BoundaryDutyCycle(in.VIn, in.VOut, in.NPS)
	ipk := flyback.PeakCurrent(in.VIn, in.Lp, db, in.FSw)
	r := &FlybackReport{
		BoundaryDutyCycle: db,
		OnTime:            flyback.OnTime(db, in.FSw),
		PeakCurrent:       ipk,
		StoredEnergy:      flyback.InductorEnergy(in.Lp, ipk),
		BoundaryPower:     flyback.BoundaryPower(in.VIn, db, in.Lp, in.FSw),
		LoadPower:         in.VOut * in.VOut / in.RLoad,
		RatioDCM:          flyback.VoltageRatioDCM(db, in.RLoad, in.Lp, in.FSw),
		RatioCCM:          flyback.VoltageRatioCCM(db, in.NPS),
	}
	r.Mode = ModeCCM
	if r.LoadPower < r.BoundaryPower {
		r.Mode = ModeDCM
	}
	return r, nil
}

// FlybackLimitInputs is the operating point for FlybackLimits.
type FlybackLimitInputs struct {
	VIn  float64
	VOut float64
	VF   float64 // output diode drop
	NPS  float64 // turns ratio Np:Ns
	Eta  float64 // efficiency (default: 0.8)

	// Series the feedback resistor is snapped to (default: E96).
	Series rounding.Series
}

// DefaultFlybackLimitInputs returns 80% efficiency and E96 snapping.
func DefaultFlybackLimitInputs() FlybackLimitInputs {
	return FlybackLimitInputs{Eta: 0.8, Series: rounding.E96}
}

// Validate checks the inputs and fills in defaults for zero values.
func (in *FlybackLimitInputs) Validate() error {
	if in.Eta == 0 {
		in.Eta = 0.8
	}
	if in.Series == 0 {
		in.Series = rounding.E96
	}
	if !in.Series.Known() {
		return fmt.Errorf("design: unknown series %s", in.Series)
	}
	if !(in.VIn > 0) || !(in.VOut > 0) || !(in.NPS > 0) {
		return fmt.Errorf("%w: Vin, Vout and Nps must be positive", rounding.ErrDomain)
	}
	if !(in.Eta > 0) || in.Eta > 1 {
		return fmt.Errorf("%w: efficiency %g outside (0, 1]", rounding.ErrDomain, in.Eta)
	}
	return nil
}

// FlybackLimitReport collects the controller-bound flyback limits.
type FlybackLimitReport struct {
	Controller          string  `json:"controller"`
	DutyCycle           float64 `json:"duty_cycle"`
	FeedbackResistor    float64 `json:"feedback_resistor"`
	FeedbackResistorStd float64 `json:"feedback_resistor_std"`
	MaxOutputPower      float64 `json:"max_output_power"`
	LpMinOff            float64 `json:"lp_min_off"`
	LpMinOn             float64 `json:"lp_min_on"`
	LpMin               float64 `json:"lp_min"`
}

// FlybackLimits sizes the feedback resistor and reports the power and
// primary inductance limits imposed by controller c.
func FlybackLimits(c *controller.Controller, in FlybackLimitInputs) (*FlybackLimitReport, error) {
	if err := c.RequireTopology(controller.Flyback); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("design: flyback limits: %w", err)
	}

	r := &FlybackLimitReport{Controller: c.Name}
	r.DutyCycle = flyback.DutyCycle(in.VIn, in.VOut, in.VF, in.NPS)

	var err error
	if r.FeedbackResistor, err = flyback.FeedbackResistor(c, in.VOut, in.VF, in.NPS); err != nil {
		return nil, err
	}
	if r.FeedbackResistorStd, err = rounding.ClosestValue(r.FeedbackResistor, in.Series, rounding.Nearest); err != nil {
		return nil, fmt.Errorf("design: snap feedback resistor: %w", err)
	}
	if r.MaxOutputPower, err = flyback.OutputPower(c, in.VIn, in.Eta, r.DutyCycle); err != nil {
		return nil, err
	}
	if r.LpMinOff, err = flyback.PrimaryInductanceMinOff(c, in.NPS, in.VOut, in.VF); err != nil {
		return nil, err
	}
	if r.LpMinOn, err = flyback.PrimaryInductanceMinOn(c, in.VIn); err != nil {
		return nil, err
	}
	r.LpMin = math.Max(r.LpMinOff, r.LpMinOn)
	return r, nil
}
