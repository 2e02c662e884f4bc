package flyback

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/controller"
)

// FeedbackResistor is the primary-side feedback resistor that regulates
// vOut through a transformer of turns ratio nPS. It needs I_Rfb.
func FeedbackResistor(c *controller.Controller, vOut, vF, nPS float64) (float64, error) {
	iRfb, err := c.Param(controller.IRfb)
	if err != nil {
		return 0, fmt.Errorf("flyback: feedback resistor: %w", err)
	}
	return nPS * (vOut + vF) / iRfb, nil
}

// DutyCycle is the switch duty cycle for diode drop vF.
func DutyCycle(vIn, vOut, vF, nPS float64) float64 {
	reflected := (vOut + vF) * nPS
	return reflected / (reflected + vIn)
}

// OutputPower is the deliverable output power at efficiency eta. It needs
// I_sw_max.
func OutputPower(c *controller.Controller, vIn, eta, d float64) (float64, error) {
	iSwMax, err := c.Param(controller.ISwMax)
	if err != nil {
		return 0, fmt.Errorf("flyback: output power: %w", err)
	}
	return eta * vIn * d * iSwMax * 0.5, nil
}

// PrimaryInductanceMinOff is the smallest primary inductance that honours
// the minimum off time. It needs t_off_min and I_sw_min.
func PrimaryInductanceMinOff(c *controller.Controller, nPS, vOut, vF float64) (float64, error) {
	p, err := c.Params(controller.TOffMin, controller.ISwMin)
	if err != nil {
		return 0, fmt.Errorf("flyback: primary inductance (t_off_min): %w", err)
	}
	return p[0] * nPS * (vOut + vF) / p[1], nil
}

// PrimaryInductanceMinOn is the smallest primary inductance that honours
// the minimum on time. It needs t_on_min and I_sw_min.
func PrimaryInductanceMinOn(c *controller.Controller, vIn float64) (float64, error) {
	p, err := c.Params(controller.TOnMin, controller.ISwMin)
	if err != nil {
		return 0, fmt.Errorf("flyback: primary inductance (t_on_min): %w", err)
	}
	return p[0] * vIn / p[1], nil
}

// BoundaryDutyCycle is the duty cycle at the DCM/CCM boundary, ignoring
// the diode drop.
func BoundaryDutyCycle(vIn, vOut, nPS float64) float64 {
	return nPS * vOut / (vIn + nPS*vOut)
}

func OnTime(d, fSw float64) float64 {
	return d / fSw
}

// PeakCurrent is the primary current reached at the end of the on time.
func PeakCurrent(vIn, lp, d, fSw float64) float64 {
	return vIn * d / (lp * fSw)
}

// InductorEnergy is the energy stored in lp carrying current i.
func InductorEnergy(lp, i float64) float64 {
	return 0.5 * lp * i * i
}

// BoundaryPower is the power transferred per cycle at the boundary. Loads
// drawing less run in DCM.
func BoundaryPower(vIn, d, lp, fSw float64) float64 {
	v := vIn * d
	return v * v / (2 * lp * fSw)
}

// VoltageRatioDCM is the steady-state Vout/Vin in discontinuous mode.
func VoltageRatioDCM(d, rLoad, lp, fSw float64) float64 {
	return d * math.Sqrt(rLoad/(2*lp*fSw))
}

// VoltageRatioCCM is the steady-state Vout/Vin in continuous mode.
func VoltageRatioCCM(d, nPS float64) float64 {
	return d / ((1 - d) * nPS)
}
