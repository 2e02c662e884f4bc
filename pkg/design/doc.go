// Package design combines the topology formulas into complete design
// calculations for a chosen controller.
//
// # Overview
//
// Calculator binds a controller to a topology it supports and dispatches
// formulas shared between topologies. DesignBoost and FlybackLimits walk a
// converter through the usual sizing steps and return one report struct;
// AnalyzeFlyback classifies a flyback operating point as DCM or CCM.
//
// # Usage
//
//	in := design.DefaultBoostInputs()
//	in.VIn, in.VOut, in.IOut, in.FSw = 12, 48, 0.5, 400e3
//	in.Divider = true
//	d, err := design.DesignBoost(controller.LM3478, in)
//	if errors.Is(err, controller.ErrMissingField) {
//		// the controller lacks a parameter a step needs
//	}
//
// Input structs follow the DefaultX/Validate convention: Validate fills
// zero fields with their defaults and rejects values outside the domain
// of the formulas with rounding.ErrDomain.
package design
