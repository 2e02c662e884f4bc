package controller

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField is matched by every MissingFieldError.
	ErrMissingField = errors.New("controller: missing parameter")

	// ErrUnsupportedTopology is matched by every UnsupportedTopologyError.
	ErrUnsupportedTopology = errors.New("controller: unsupported topology")

	// ErrFrequencyRange reports a switching frequency outside f_sw_range.
	ErrFrequencyRange = errors.New("controller: switching frequency out of range")

	// ErrUnknownController is returned by Registry.Lookup.
	ErrUnknownController = errors.New("controller: unknown controller")
)

// MissingFieldError reports a formula that needs a parameter the controller
// does not define.
type MissingFieldError struct {
	Controller string
	Field      Field
	Others     []Field // further missing fields, if several were required
}

func (e *MissingFieldError) Error() string {
	names := []string{string(e.Field)}
	for _, f := range e.Others {
		names = append(names, string(f))
	}
	return fmt.Sprintf("controller: %s lacks %s", e.Controller, strings.Join(names, ", "))
}

// Is matches ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// UnsupportedTopologyError reports a design request for a topology the
// controller cannot drive.
type UnsupportedTopologyError struct {
	Controller string
	Topology   Topology
}

func (e *UnsupportedTopologyError) Error() string {
	return fmt.Sprintf("controller: %s does not support %s", e.Controller, e.Topology)
}

// Is matches ErrUnsupportedTopology.
func (e *UnsupportedTopologyError) Is(target error) bool {
	return target == ErrUnsupportedTopology
}
