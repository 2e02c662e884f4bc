package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/controller"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/rounding"
)

var (
	// Global flags
	verbose     bool
	configFile  string
	catalogFile string
	outputJSON  bool

	// Set up by PersistentPreRunE for every invocation
	cfg      *viper.Viper
	log      = logr.Discard()
	registry = controller.Builtin()
)

var rootCmd = &cobra.Command{
	Use:   "smps",
	Short: "Switch-mode power supply design calculator",
	Long: `Closed-form design equations for boost and flyback converters built
around a catalog of controller ICs, plus standard-value (E-series) helpers.

Values accept engineering notation: 4k7, 100n, 2.2e-6, 47uH, 1.5MHz.

Examples:
  smps boost --vin 12 --vout 48 --iout 500m --fsw 400k --divider
  smps flyback --controller LT8300 --vin 12 --vout 400 --vf 1.45 --nps 0.1
  smps flyback-boundary --vin 12 --vout 5 --rload 10 --fsw 100k --lp 10u --nps 2
  smps eseries 4k5 --series 24 --method gt
  smps divider --vin 12 --vout 1.26 --imin 50u --imax 1m
  smps controllers --catalog mycontrollers.yaml`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (YAML or TOML) with catalog, verbose and series keys")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "",
		"controller catalog file (YAML or TOML) merged over the built-in controllers")
}

// setup reads configuration, builds the logger and loads the controller
// catalog. Flags win over SMPS_* environment variables, which win over the
// config file.
func setup(cmd *cobra.Command, args []string) error {
	cfg = viper.New()
	cfg.SetEnvPrefix("SMPS")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	flags := cmd.Root().PersistentFlags()
	for _, name := range []string{"verbose", "catalog"} {
		if err := cfg.BindPFlag(name, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	if configFile != "" {
		cfg.SetConfigFile(configFile)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var err error
	if log, err = newLogger(cfg.GetBool("verbose")); err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	registry = controller.Builtin()
	if path := cfg.GetString("catalog"); path != "" {
		n, err := registry.MergeFile(path, log)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		log.V(1).Info("Merged controller catalog", "path", path, "controllers", n)
	}
	return nil
}

// newLogger returns a zap-backed logr.Logger writing to stderr.
func newLogger(debug bool) (logr.Logger, error) {
	zc := zap.NewProductionConfig()
	if debug {
		zc = zap.NewDevelopmentConfig()
	}
	zc.OutputPaths = []string{"stderr"}
	z, err := zc.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(z), nil
}

// seriesFlag resolves a --series flag, falling back to the configured
// "series" key when the flag was not given.
func seriesFlag(cmd *cobra.Command, value string) (rounding.Series, error) {
	if !cmd.Flags().Changed("series") && cfg != nil && cfg.IsSet("series") {
		value = cfg.GetString("series")
	}
	s, err := rounding.ParseSeries(value)
	if err != nil {
		return 0, err
	}
	return s, nil
}

func lookupController(name string) (*controller.Controller, error) {
	c, err := registry.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w (known: %s)", err, strings.Join(registry.Names(), ", "))
	}
	return c, nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
