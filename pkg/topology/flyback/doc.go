// Package flyback holds the design equations of an isolated flyback
// converter.
//
// # Overview
//
// Two groups of functions are provided:
//   - Controller-driven sizing (FeedbackResistor, OutputPower and the
//     primary inductance minimums), which read parameters from a
//     controller.Controller and fail with a *controller.MissingFieldError
//     when one is absent.
//   - Boundary-mode analysis (BoundaryDutyCycle through VoltageRatioCCM),
//     which is pure algebra on the operating point.
//
// nPS is the primary to secondary turns ratio Np:Ns. All quantities are SI.
//
// # Usage
//
//	d := flyback.DutyCycle(12, 400, 1.45, 0.1)                       // 0.7699
//	rfb, err := flyback.FeedbackResistor(controller.LT8300, 400, 1.45, 0.1) // 401.45k
//
//	db := flyback.BoundaryDutyCycle(vIn, vOut, nPS)
//	pb := flyback.BoundaryPower(vIn, db, lp, fSw)
//	dcm := vOut*vOut/rLoad < pb
package flyback
