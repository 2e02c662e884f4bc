// Package controller describes switch-mode controller ICs as named bundles of
// optional electrical parameters.
//
// Design formulas pull the parameters they need through Param or Params.
// A controller lacking a required parameter yields a *MissingFieldError
// (matching ErrMissingField) naming the controller and the field; nothing is
// silently defaulted.
//
// # Catalog
//
// LM3478, LT8300 and LM5156 are built in. Additional controllers can be
// described in YAML or TOML files and merged into a Registry:
//
//	controllers:
//	  - name: LT3757
//	    topologies: [boost, flyback]
//	    V_ref: 1.6
//	    V_sense: 110m
//	    f_sw_range: [100k, 1M]
//
// Values accept engineering notation (see package units).
package controller
