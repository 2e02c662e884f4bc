package cmd

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so state set by one test
// case does not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

type e2eCase struct {
	name        string
	args        []string
	wantErr     bool
	wantContain []string
}

func runCases(t *testing.T, tests []e2eCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(t, tt.args...)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none\nOutput: %s", output)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
				return
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestFlybackBoundaryE2E(t *testing.T) {
	runCases(t, []e2eCase{
		{
			name: "light load runs in DCM",
			args: []string{"flyback-boundary", "--vin", "12", "--vout", "5", "--rload", "10", "--fsw", "100k", "--lp", "10u", "--nps", "2"},
			wantContain: []string{
				"Flyback boundary & ratio calculations",
				"Boundary duty cycle D_b : 0.4545",
				"Peak primary current    : 5.4545 A",
				"Boundary power P_b      : 14.8760 W",
				"Required load power     : 2.5000 W",
				"DCM (required load < boundary power)",
				"CCM steady-state ratio Vout/Vin: 0.4167",
			},
		},
		{
			name:        "heavy load runs in CCM",
			args:        []string{"flyback-boundary", "--vin", "12", "--vout", "5", "--rload", "1", "--fsw", "100k", "--lp", "10u", "--nps", "2"},
			wantContain: []string{"CCM (required load ≥ boundary power)"},
		},
		{
			name:    "missing primary inductance",
			args:    []string{"flyback-boundary", "--vin", "12", "--vout", "5", "--rload", "10", "--fsw", "100k"},
			wantErr: true,
		},
		{
			name:    "zero load resistance",
			args:    []string{"flyback-boundary", "--vin", "12", "--vout", "5", "--rload", "0", "--fsw", "100k", "--lp", "10u"},
			wantErr: true,
		},
		{
			name:    "malformed quantity",
			args:    []string{"flyback-boundary", "--vin", "12x", "--vout", "5", "--rload", "10", "--fsw", "100k", "--lp", "10u"},
			wantErr: true,
		},
	})
}

func TestFlybackE2E(t *testing.T) {
	runCases(t, []e2eCase{
		{
			name: "LT8300 defaults",
			args: []string{"flyback", "--vin", "12", "--vout", "400", "--vf", "1.45", "--nps", "0.1"},
			wantContain: []string{
				"Flyback design for LT8300",
				"Duty cycle:           0.7699",
				"401.4kΩ (E96: 402kΩ)",
			},
		},
		{
			name:    "boost-only controller",
			args:    []string{"flyback", "--controller", "LM3478", "--vin", "12", "--vout", "400", "--nps", "0.1"},
			wantErr: true,
		},
		{
			name:    "controller lacking I_Rfb",
			args:    []string{"flyback", "--controller", "LM5156", "--vin", "12", "--vout", "400", "--nps", "0.1"},
			wantErr: true,
		},
		{
			name:    "unknown controller",
			args:    []string{"flyback", "--controller", "NOPE", "--vin", "12", "--vout", "400", "--nps", "0.1"},
			wantErr: true,
		},
	})
}

func TestBoostE2E(t *testing.T) {
	base := []string{"boost", "--vin", "12", "--vout", "48", "--iout", "500m", "--fsw", "400k"}
	with := func(extra ...string) []string {
		return append(append([]string{}, base...), extra...)
	}

	runCases(t, []e2eCase{
		{
			name: "LM3478 sized inductor",
			args: base,
			wantContain: []string{
				"Boost design for LM3478",
				"Duty cycle:          0.7500",
				"L:                   22µH",
				"2A avg",
			},
		},
		{
			name: "feedback divider",
			args: with("--divider"),
			wantContain: []string{
				"Feedback divider (E12):",
				"100kΩ",
				"2.7kΩ",
			},
		},
		{
			name:        "divergent sense resistor limit",
			args:        []string{"boost", "--vin", "12", "--vout", "24", "--iout", "500m", "--fsw", "400k"},
			wantContain: []string{"Duty cycle:          0.5000", "(no limit)"},
		},
		{
			name:    "controller lacking ratio_V_sl",
			args:    with("--controller", "LM5156"),
			wantErr: true,
		},
		{
			name:    "frequency outside controller window",
			args:    []string{"boost", "--vin", "12", "--vout", "48", "--iout", "500m", "--fsw", "2M"},
			wantErr: true,
		},
		{
			name:    "missing output current",
			args:    []string{"boost", "--vin", "12", "--vout", "48", "--fsw", "400k"},
			wantErr: true,
		},
	})
}

func TestBoostJSONDivergentLimit(t *testing.T) {
	output, err := execute(t, "boost", "--vin", "12", "--vout", "24", "--iout", "500m", "--fsw", "400k", "--json")
	if err != nil {
		t.Fatalf("boost --json failed: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if v, ok := got["r_sense_max"]; !ok || v != nil {
		t.Fatalf("r_sense_max = %v, want null", v)
	}
}

func TestVerboseFromEnvironment(t *testing.T) {
	t.Setenv("SMPS_VERBOSE", "true")
	output, err := execute(t, "eseries", "4k6", "--series", "E12")
	if err != nil {
		t.Fatalf("eseries failed: %v", err)
	}
	if !strings.Contains(output, "4.6k -> 4.7k (E12, eq)") {
		t.Fatalf("unexpected output with SMPS_VERBOSE:\n%s", output)
	}
	if !cfg.GetBool("verbose") {
		t.Fatalf("SMPS_VERBOSE not picked up through the persistent flags")
	}
}

func TestESeriesE2E(t *testing.T) {
	runCases(t, []e2eCase{
		{
			name:        "above",
			args:        []string{"eseries", "55", "--series", "24", "--method", "gt"},
			wantContain: []string{"55 -> 56 (E24, gt)"},
		},
		{
			name:        "engineering notation input",
			args:        []string{"eseries", "4k6", "--series", "E12"},
			wantContain: []string{"4.6k -> 4.7k (E12, eq)"},
		},
		{
			name:        "decade wrap",
			args:        []string{"eseries", "9.5", "--method", "gt"},
			wantContain: []string{"9.5 -> 10 (E24, gt)"},
		},
		{
			name:    "zero value",
			args:    []string{"eseries", "0"},
			wantErr: true,
		},
		{
			name:    "unknown method",
			args:    []string{"eseries", "5", "--method", "up"},
			wantErr: true,
		},
		{
			name:    "missing argument",
			args:    []string{"eseries"},
			wantErr: true,
		},
	})
}

func TestESeriesJSON(t *testing.T) {
	output, err := execute(t, "eseries", "55", "--series", "24", "--method", "gt", "--json")
	if err != nil {
		t.Fatalf("eseries --json failed: %v", err)
	}
	var got ESeriesResult
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if got.Series != "E24" || got.Method != "gt" || math.Abs(got.Value-56) > 1e-9 {
		t.Fatalf("eseries JSON = %+v, want E24/gt/56", got)
	}
}

func TestSeriesFromEnvironment(t *testing.T) {
	t.Setenv("SMPS_SERIES", "E3")
	output, err := execute(t, "eseries", "55", "--method", "gt")
	if err != nil {
		t.Fatalf("eseries failed: %v", err)
	}
	if !strings.Contains(output, "55 -> 100 (E3, gt)") {
		t.Fatalf("SMPS_SERIES not applied:\n%s", output)
	}

	// An explicit flag wins over the environment.
	output, err = execute(t, "eseries", "55", "--method", "gt", "--series", "E24")
	if err != nil || !strings.Contains(output, "(E24, gt)") {
		t.Fatalf("--series did not override SMPS_SERIES: %v\n%s", err, output)
	}
}

func TestSeriesFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smps.yaml")
	if err := os.WriteFile(path, []byte("series: E6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	output, err := execute(t, "--config", path, "eseries", "55")
	if err != nil {
		t.Fatalf("eseries failed: %v", err)
	}
	if !strings.Contains(output, "55 -> 47 (E6, eq)") {
		t.Fatalf("config series not applied:\n%s", output)
	}
}

func TestDividerE2E(t *testing.T) {
	runCases(t, []e2eCase{
		{
			name: "E3 half divider",
			args: []string{"divider", "--vin", "5", "--vout", "2.5", "--imin", "100u", "--imax", "1m", "--series", "E3", "-n", "3"},
			wantContain: []string{
				"E3 dividers for 5V -> 2.5V:",
				"10kΩ",
				"22kΩ",
				"4.7kΩ",
			},
		},
		{
			name:        "no candidate in current window",
			args:        []string{"divider", "--vin", "5", "--vout", "2.5", "--imin", "10", "--imax", "20"},
			wantContain: []string{"No E12 divider keeps the current within"},
		},
		{
			name:    "empty current window",
			args:    []string{"divider", "--vin", "5", "--vout", "2.5", "--imin", "1m", "--imax", "100u"},
			wantErr: true,
		},
	})
}

func TestDividerJSON(t *testing.T) {
	output, err := execute(t, "divider", "--vin", "12", "--vout", "1.26", "--imin", "50u", "--imax", "1m", "-n", "5", "--json")
	if err != nil {
		t.Fatalf("divider --json failed: %v", err)
	}
	var got []struct {
		Top    float64 `json:"top"`
		Bottom float64 `json:"bottom"`
	}
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if len(got) != 5 {
		t.Fatalf("got %d candidates, want 5", len(got))
	}
	if math.Abs(got[0].Top-33000) > 1e-6 || math.Abs(got[0].Bottom-3900) > 1e-6 {
		t.Fatalf("best divider = %g/%g, want 33k/3.9k", got[0].Top, got[0].Bottom)
	}
}

func TestControllersE2E(t *testing.T) {
	catalog := filepath.Join(t.TempDir(), "extra.yaml")
	src := `controllers:
  - name: LT3757
    topologies: [boost, flyback]
    V_ref: 1.6
    f_sw_range: [100k, 1M]
`
	if err := os.WriteFile(catalog, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	runCases(t, []e2eCase{
		{
			name: "built-in catalog",
			args: []string{"controllers"},
			wantContain: []string{
				"LM3478 (boost)",
				"LT8300 (flyback)",
				"LM5156 (boost, flyback)",
				"156mV",
				"100kHz .. 1MHz",
			},
		},
		{
			name:        "merged catalog",
			args:        []string{"--catalog", catalog, "controllers", "LT3757"},
			wantContain: []string{"LT3757 (boost, flyback)", "1.6V"},
		},
		{
			name:    "merged controller absent without catalog",
			args:    []string{"controllers", "LT3757"},
			wantErr: true,
		},
		{
			name:    "missing catalog file",
			args:    []string{"--catalog", filepath.Join(t.TempDir(), "none.yaml"), "controllers"},
			wantErr: true,
		},
	})
}

func TestControllersJSON(t *testing.T) {
	output, err := execute(t, "controllers", "LT8300", "--json")
	if err != nil {
		t.Fatalf("controllers --json failed: %v", err)
	}
	var got []map[string]interface{}
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if len(got) != 1 || got[0]["name"] != "LT8300" {
		t.Fatalf("controllers JSON = %v, want LT8300 only", got)
	}
	if _, ok := got[0]["V_sense"]; ok {
		t.Fatalf("absent V_sense serialized: %v", got[0])
	}
	if got[0]["I_Rfb"] != 100e-6 {
		t.Fatalf("I_Rfb = %v, want 1e-4", got[0]["I_Rfb"])
	}
}
