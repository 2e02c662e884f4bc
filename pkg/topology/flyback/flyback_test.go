package flyback

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/controller"
)

const tol = 1e-9

func TestDutyCycle(t *testing.T) {
	if got := DutyCycle(12, 400, 1.45, 0.1); !scalar.EqualWithinRel(got, 0.76987247, 1e-6) {
		t.Fatalf("DutyCycle = %v, want 0.76987247", got)
	}
}

func TestControllerFormulas(t *testing.T) {
	d := DutyCycle(12, 400, 1.45, 0.1)

	rfb, err := FeedbackResistor(controller.LT8300, 400, 1.45, 0.1)
	if err != nil || !scalar.EqualWithinRel(rfb, 401450, 1e-6) {
		t.Fatalf("FeedbackResistor = %v, %v; want 401450", rfb, err)
	}

	p, err := OutputPower(controller.LT8300, 12, 0.8, d)
	if err != nil || !scalar.EqualWithinRel(p, 0.9608008438009399, tol) {
		t.Fatalf("OutputPower = %v, %v; want 0.9608", p, err)
	}

	lOff, err := PrimaryInductanceMinOff(controller.LT8300, 0.1, 400, 1.45)
	if err != nil || !scalar.EqualWithinRel(lOff, 2.702067307692308e-4, tol) {
		t.Fatalf("PrimaryInductanceMinOff = %v, %v; want 270.2µ", lOff, err)
	}

	lOn, err := PrimaryInductanceMinOn(controller.LT8300, 12)
	if err != nil || !scalar.EqualWithinRel(lOn, 3.692307692307693e-5, tol) {
		t.Fatalf("PrimaryInductanceMinOn = %v, %v; want 36.92µ", lOn, err)
	}
}

func TestMissingFields(t *testing.T) {
	cases := []struct {
		name string
		fn   func() error
		want controller.Field
	}{
		{"FeedbackResistor", func() error {
			_, err := FeedbackResistor(controller.LM5156, 400, 1.45, 0.1)
			return err
		}, controller.IRfb},
		{"OutputPower", func() error {
			_, err := OutputPower(controller.LT8300.Without(controller.ISwMax), 12, 0.8, 0.5)
			return err
		}, controller.ISwMax},
		{"PrimaryInductanceMinOff", func() error {
			_, err := PrimaryInductanceMinOff(controller.LT8300.Without(controller.ISwMin), 0.1, 400, 1.45)
			return err
		}, controller.ISwMin},
		{"PrimaryInductanceMinOn", func() error {
			_, err := PrimaryInductanceMinOn(controller.LM3478, 12)
			return err
		}, controller.TOnMin},
	}
	for _, tc := range cases {
		err := tc.fn()
		var missing *controller.MissingFieldError
		if !errors.As(err, &missing) {
			t.Fatalf("%s error = %v, want *MissingFieldError", tc.name, err)
		}
		if missing.Field != tc.want {
			t.Fatalf("%s missing %s, want %s", tc.name, missing.Field, tc.want)
		}
	}
}

func TestBoundarySet(t *testing.T) {
	const (
		vIn, vOut, nPS = 12.0, 5.0, 2.0
		rLoad, fSw, lp = 10.0, 100e3, 10e-6
	)
	db := BoundaryDutyCycle(vIn, vOut, nPS)
	ipk := PeakCurrent(vIn, lp, db, fSw)

	cases := []struct {
		name      string
		got, want float64
	}{
		{"BoundaryDutyCycle", db, 0.45454545454545453},
		{"OnTime", OnTime(db, fSw), 4.545454545454545e-6},
		{"PeakCurrent", ipk, 5.454545454545454},
		{"InductorEnergy", InductorEnergy(lp, ipk), 1.487603305785124e-4},
		{"BoundaryPower", BoundaryPower(vIn, db, lp, fSw), 14.876033057851238},
		{"VoltageRatioDCM", VoltageRatioDCM(db, rLoad, lp, fSw), 1.016394535227177},
		{"VoltageRatioCCM", VoltageRatioCCM(db, nPS), 0.4166666666666667},
	}
	for _, tc := range cases {
		if !scalar.EqualWithinRel(tc.got, tc.want, tol) {
			t.Fatalf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

// Energy stored at the peak, delivered once per cycle, is the boundary power.
func TestBoundaryEnergyBalance(t *testing.T) {
	vIn, lp, fSw := 24.0, 47e-6, 200e3
	d := BoundaryDutyCycle(vIn, 12, 1.5)
	e := InductorEnergy(lp, PeakCurrent(vIn, lp, d, fSw))
	if got := BoundaryPower(vIn, d, lp, fSw); !scalar.EqualWithinRel(got, e*fSw, tol) {
		t.Fatalf("BoundaryPower = %v, want E*fSw = %v", got, e*fSw)
	}
}
