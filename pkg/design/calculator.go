package design

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/controller"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/topology/boost"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/topology/flyback"
)

// Calculator binds a controller to one of the topologies it supports and
// dispatches formulas that exist for several topologies.
type Calculator struct {
	controller *controller.Controller
	topology   controller.Topology
}

// NewCalculator fails with a *controller.UnsupportedTopologyError when c
// cannot drive t.
func NewCalculator(c *controller.Controller, t controller.Topology) (*Calculator, error) {
	if c == nil {
		return nil, fmt.Errorf("design: nil controller")
	}
	if !t.Known() {
		return nil, fmt.Errorf("design: unknown topology %q", t)
	}
	if err := c.RequireTopology(t); err != nil {
		return nil, err
	}
	return &Calculator{controller: c, topology: t}, nil
}

func (k *Calculator) Controller() *controller.Controller { return k.controller }
func (k *Calculator) Topology() controller.Topology      { return k.topology }

// DutyInputs is the operating point for Calculator.DutyCycle. VQ is used
// by boost only and NPS by flyback only.
type DutyInputs struct {
	VIn  float64
	VOut float64
	VF   float64 // output diode drop
	VQ   float64 // switch drop (boost)
	NPS  float64 // turns ratio Np:Ns (flyback)
}

// DutyCycle evaluates the duty-cycle formula of the bound topology.
func (k *Calculator) DutyCycle(in DutyInputs) float64 {
	switch k.topology {
	case controller.Boost:
		return boost.DutyCycle(in.VIn, in.VOut, in.VQ, in.VF)
	case controller.Flyback:
		return flyback.DutyCycle(in.VIn, in.VOut, in.VF, in.NPS)
	}
	return math.NaN()
}
