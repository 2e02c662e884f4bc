// Package boost holds the continuous-conduction design equations of a
// non-isolated boost converter.
//
// The functions take and return SI quantities (V, A, Hz, H, Ω, s, W).
// Only SenseResistor and SenseResistorLimit consult the controller; they
// fail with a *controller.MissingFieldError when it lacks the parameters
// they need. Denominators that reach zero are not guarded and produce
// ±Inf or NaN.
package boost

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/controller"
)

// DutyCycle is the CCM duty cycle accounting for the switch drop vQ and the
// diode drop vF.
func DutyCycle(vIn, vOut, vQ, vF float64) float64 {
	return 1 - (vIn-vQ)/(vOut+vF)
}

// MinInductorCCM is the smallest inductance keeping the converter in CCM
// at output current iOut.
func MinInductorCCM(d, vIn, fSw, iOut float64) float64 {
	return d * (1 - d) * vIn / (2 * fSw * iOut)
}

// InductorRippleCurrent returns the ripple half-amplitude for inductance l.
func InductorRippleCurrent(vIn, d, fSw, l float64) float64 {
	return d * vIn / (2 * fSw * l)
}

// InductorValueForRipple is the inverse of InductorRippleCurrent.
func InductorValueForRipple(vIn, d, fSw, iRipple float64) float64 {
	return d * vIn / (2 * fSw * iRipple)
}

func DiodePeakCurrent(iLPeak, d, iOut float64) float64 {
	return iLPeak - d*iOut
}

// SenseResistor sizes the current-sense resistor for the switch current
// limit iLimit. It needs V_sense and ratio_V_sl.
func SenseResistor(c *controller.Controller, iLimit, d float64) (float64, error) {
	p, err := c.Params(controller.VSense, controller.RatioVSl)
	if err != nil {
		return 0, fmt.Errorf("boost: sense resistor: %w", err)
	}
	vSense, ratio := p[0], p[1]
	return (vSense - d*vSense*ratio) / iLimit, nil
}

// SenseResistorLimit is the largest sense resistor usable before external
// slope compensation is required. It needs V_sl. At vOut == 2*vIn the
// result is ±Inf.
func SenseResistorLimit(c *controller.Controller, fSw, l, vOut, vIn float64) (float64, error) {
	vSl, err := c.Param(controller.VSl)
	if err != nil {
		return 0, fmt.Errorf("boost: sense resistor limit: %w", err)
	}
	return 2 * vSl * fSw * l / (vOut - 2*vIn), nil
}

// MOSFETParams are the operating point and device figures for MOSFETLosses.
type MOSFETParams struct {
	IL       float64 // average inductor current (A)
	ILPeak   float64
	ILValley float64
	D        float64
	VOut     float64
	RdsOn    float64 // on resistance at 25 °C (Ω)

	// TempFactor scales RdsOn to the operating temperature.
	TempFactor float64

	TLH float64 // turn-on transition (s)
	THL float64 // turn-off transition (s)
	FSw float64
}

// Losses is a MOSFET dissipation breakdown in watts.
type Losses struct {
	Conduction float64 `json:"conduction"`
	Switching  float64 `json:"switching"`
	Total      float64 `json:"total"`
}

// MOSFETLosses estimates conduction and switching dissipation.
func MOSFETLosses(p MOSFETParams) Losses {
	cond := p.IL * p.IL * p.RdsOn * p.TempFactor * p.D
	sw := 0.5*p.ILPeak*p.VOut*p.TLH*p.FSw + 0.5*p.ILValley*p.VOut*p.THL*p.FSw
	return Losses{Conduction: cond, Switching: sw, Total: cond + sw}
}

// CapacitorCurrents are RMS ripple currents in amperes.
type CapacitorCurrents struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// CapacitorRMSCurrents returns the input and output capacitor RMS currents.
// d == 1 yields NaN for the output current.
func CapacitorRMSCurrents(iRipple, d, iOut float64) CapacitorCurrents {
	return CapacitorCurrents{
		Input:  iRipple / math.Sqrt(3),
		Output: math.Sqrt((1 - d) * (iOut*iOut*d/(1-d) + iRipple*iRipple/3)),
	}
}
