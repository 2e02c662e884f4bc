package boost

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/controller"
)

const tol = 1e-9

func TestFormulas(t *testing.T) {
	cases := []struct {
		name string
		got  float64
		want float64
		rel  float64
	}{
		{"DutyCycle", DutyCycle(40, 480, 0.3, 1.2), 0.9174979, 1e-6},
		{"InductorValueForRipple", InductorValueForRipple(40, 0.9, 250e3, 0.1), 7.2e-4, 1e-2},
		{"InductorRippleCurrent", InductorRippleCurrent(40, 0.9, 250e3, 1e-3), 0.072, tol},
		{"MinInductorCCM", MinInductorCCM(0.5, 12, 100e3, 1), 0.5 * 0.5 * 12 / 2e5, tol},
		{"DiodePeakCurrent", DiodePeakCurrent(2, 0.5, 1), 1.5, tol},
	}
	for _, tc := range cases {
		if !scalar.EqualWithinRel(tc.got, tc.want, tc.rel) {
			t.Fatalf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestRippleRoundTrip(t *testing.T) {
	l := InductorValueForRipple(24, 0.6, 300e3, 0.25)
	if got := InductorRippleCurrent(24, 0.6, 300e3, l); !scalar.EqualWithinRel(got, 0.25, tol) {
		t.Fatalf("ripple for L=%g = %v, want 0.25", l, got)
	}
}

func TestSenseResistor(t *testing.T) {
	r, err := SenseResistor(controller.LM3478, 1.0, 0.5)
	if err != nil {
		t.Fatalf("SenseResistor returned error: %v", err)
	}
	want := (156e-3 - 0.5*156e-3*0.49) / 1.0
	if !scalar.EqualWithinRel(r, want, 1e-6) {
		t.Fatalf("SenseResistor = %v, want %v", r, want)
	}
}

func TestSenseResistorMissingField(t *testing.T) {
	cases := []struct {
		c     *controller.Controller
		field controller.Field
	}{
		{controller.LT8300, controller.VSense},
		{controller.LM3478.Without(controller.VSense), controller.VSense},
		{controller.LM5156, controller.RatioVSl},
	}
	for _, tc := range cases {
		_, err := SenseResistor(tc.c, 1, 0.5)
		var missing *controller.MissingFieldError
		if !errors.As(err, &missing) {
			t.Fatalf("SenseResistor(%s) error = %v, want *MissingFieldError", tc.c.Name, err)
		}
		if missing.Field != tc.field {
			t.Fatalf("SenseResistor(%s) missing %s, want %s", tc.c.Name, missing.Field, tc.field)
		}
	}
}

func TestSenseResistorLimit(t *testing.T) {
	r, err := SenseResistorLimit(controller.LM3478, 500e3, 100e-6, 480, 40)
	if err != nil {
		t.Fatalf("SenseResistorLimit returned error: %v", err)
	}
	if !scalar.EqualWithinRel(r, 0.023, tol) {
		t.Fatalf("SenseResistorLimit = %v, want 0.023", r)
	}

	r, err = SenseResistorLimit(controller.LM3478, 500e3, 100e-6, 80, 40)
	if err != nil || !math.IsInf(r, 1) {
		t.Fatalf("SenseResistorLimit at vOut = 2vIn = %v, %v; want +Inf", r, err)
	}

	if _, err := SenseResistorLimit(controller.LM5156, 500e3, 100e-6, 480, 40); !errors.Is(err, controller.ErrMissingField) {
		t.Fatalf("SenseResistorLimit(LM5156) error = %v, want ErrMissingField", err)
	}
}

func TestMOSFETLosses(t *testing.T) {
	got := MOSFETLosses(MOSFETParams{
		IL: 1.2, ILPeak: 1.5, ILValley: 0.9, D: 0.9, VOut: 480,
		RdsOn: 0.1, TempFactor: 1.5, TLH: 20e-9, THL: 10e-9, FSw: 250e3,
	})
	want := Losses{Conduction: 0.1944, Switching: 2.34, Total: 2.5344}
	if !scalar.EqualWithinRel(got.Conduction, want.Conduction, tol) ||
		!scalar.EqualWithinRel(got.Switching, want.Switching, tol) ||
		!scalar.EqualWithinRel(got.Total, want.Total, tol) {
		t.Fatalf("MOSFETLosses = %+v, want %+v", got, want)
	}
	if got.Total != got.Conduction+got.Switching {
		t.Fatalf("Total %v is not Conduction + Switching", got.Total)
	}
}

func TestCapacitorRMSCurrents(t *testing.T) {
	got := CapacitorRMSCurrents(0.3, 0.9, 0.1)
	if !scalar.EqualWithinRel(got.Input, 0.17320508075688773, tol) {
		t.Fatalf("Input = %v, want 0.1732", got.Input)
	}
	if !scalar.EqualWithinRel(got.Output, 0.10954451150103323, tol) {
		t.Fatalf("Output = %v, want 0.1095", got.Output)
	}

	if got := CapacitorRMSCurrents(0.3, 1, 0.1); !math.IsNaN(got.Output) {
		t.Fatalf("Output at d=1 = %v, want NaN", got.Output)
	}
}
