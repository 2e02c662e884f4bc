package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/controller"
	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/units"
)

// fieldUnits maps controller parameters to the unit they are printed with.
var fieldUnits = map[controller.Field]string{
	controller.VRef:     "V",
	controller.VSense:   "V",
	controller.RatioVSl: "",
	controller.VSl:      "V",
	controller.IRfb:     "A",
	controller.ISwMax:   "A",
	controller.ISwMin:   "A",
	controller.TOnMin:   "s",
	controller.TOffMin:  "s",
}

var controllersCmd = &cobra.Command{
	Use:   "controllers [name...]",
	Short: "List the controller catalog",
	Long: `List the built-in controllers, plus any merged from --catalog.

Examples:
  smps controllers
  smps controllers LM3478 --json
  smps controllers --catalog mycontrollers.toml`,
	RunE: runControllers,
}

func init() {
	rootCmd.AddCommand(controllersCmd)
	controllersCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
}

func runControllers(cmd *cobra.Command, args []string) error {
	list := registry.All()
	if len(args) > 0 {
		list = list[:0:0]
		for _, name := range args {
			c, err := lookupController(name)
			if err != nil {
				return err
			}
			list = append(list, c)
		}
	}

	if outputJSON {
		return writeJSON(cmd, list)
	}

	w := cmd.OutOrStdout()
	for i, c := range list {
		if i > 0 {
			fmt.Fprintln(w)
		}
		topologies := make([]string, len(c.Topologies))
		for j, t := range c.Topologies {
			topologies[j] = string(t)
		}
		fmt.Fprintf(w, "%s (%s)\n", c.Name, strings.Join(topologies, ", "))
		for _, f := range controller.Fields {
			if v, err := c.Param(f); err == nil {
				fmt.Fprintf(w, "  %-11s %s\n", f, units.Format(v, fieldUnits[f]))
			}
		}
		if c.FswRange != nil {
			fmt.Fprintf(w, "  %-11s %s .. %s\n", "f_sw_range",
				units.Format(c.FswRange.Min, "Hz"), units.Format(c.FswRange.Max, "Hz"))
		}
	}
	return nil
}
