package controller

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceSMPS/pkg/units"
)

// Format is a catalog file encoding.
type Format int

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatFromPath infers the catalog format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return FormatAuto, fmt.Errorf("controller: cannot infer catalog format of %q", path)
}

// catalogFile is the on-disk layout:
//
//	controllers:
//	  - name: LM3478
//	    topologies: [boost]
//	    V_sense: 156m
//	    f_sw_range: [100k, 1M]
type catalogFile struct {
	Controllers []entry `yaml:"controllers" toml:"controllers"`
}

type entry struct {
	Name       string   `yaml:"name" toml:"name"`
	Topologies []string `yaml:"topologies" toml:"topologies"`

	VRef     *units.Value `yaml:"V_ref" toml:"V_ref"`
	VSense   *units.Value `yaml:"V_sense" toml:"V_sense"`
	RatioVSl *units.Value `yaml:"ratio_V_sl" toml:"ratio_V_sl"`
	VSl      *units.Value `yaml:"V_sl" toml:"V_sl"`
	IRfb     *units.Value `yaml:"I_Rfb" toml:"I_Rfb"`
	ISwMax   *units.Value `yaml:"I_sw_max" toml:"I_sw_max"`
	ISwMin   *units.Value `yaml:"I_sw_min" toml:"I_sw_min"`
	TOnMin   *units.Value `yaml:"t_on_min" toml:"t_on_min"`
	TOffMin  *units.Value `yaml:"t_off_min" toml:"t_off_min"`

	FswRange []units.Value `yaml:"f_sw_range" toml:"f_sw_range"`
}

// controller validates the entry and converts it.
func (e *entry) controller() (*Controller, error) {
	if strings.TrimSpace(e.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(e.Topologies) == 0 {
		return nil, fmt.Errorf("at least one topology is required")
	}

	c := &Controller{Name: strings.TrimSpace(e.Name)}
	for _, name := range e.Topologies {
		t, err := ParseTopology(name)
		if err != nil {
			return nil, err
		}
		if !c.Supports(t) {
			c.Topologies = append(c.Topologies, t)
		}
	}

	values := map[Field]*units.Value{
		VRef: e.VRef, VSense: e.VSense, RatioVSl: e.RatioVSl, VSl: e.VSl,
		IRfb: e.IRfb, ISwMax: e.ISwMax, ISwMin: e.ISwMin,
		TOnMin: e.TOnMin, TOffMin: e.TOffMin,
	}
	for _, f := range Fields {
		v := values[f]
		if v == nil {
			continue
		}
		if !(v.Float() > 0) {
			return nil, fmt.Errorf("%s must be positive, got %g", f, v.Float())
		}
		*c.field(f) = v.Ptr()
	}

	if e.FswRange != nil {
		if len(e.FswRange) != 2 {
			return nil, fmt.Errorf("f_sw_range needs [min, max], got %d values", len(e.FswRange))
		}
		r := FreqRange{Min: e.FswRange[0].Float(), Max: e.FswRange[1].Float()}
		if !(r.Min > 0) || r.Min >= r.Max {
			return nil, fmt.Errorf("f_sw_range [%g, %g] is not an increasing positive window", r.Min, r.Max)
		}
		c.FswRange = &r
	}
	return c, nil
}

// Load decodes a catalog. Invalid entries are logged and skipped; when a name
// appears twice the first entry wins.
func Load(r io.Reader, format Format, log logr.Logger) ([]*Controller, error) {
	var file catalogFile
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("controller: decode yaml catalog: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&file)
		if err != nil {
			return nil, fmt.Errorf("controller: decode toml catalog: %w", err)
		}
		for _, k := range md.Undecoded() {
			log.Info("Ignoring unknown catalog key", "key", k.String())
		}
	default:
		return nil, fmt.Errorf("controller: unsupported catalog format %s", format)
	}

	seen := make(map[string]int)
	out := make([]*Controller, 0, len(file.Controllers))
	for i := range file.Controllers {
		e := &file.Controllers[i]
		c, err := e.controller()
		if err != nil {
			log.Info("Skipping invalid controller entry",
				"index", i,
				"name", e.Name,
				"error", err.Error())
			continue
		}
		if first, dup := seen[key(c.Name)]; dup {
			log.Info("Duplicate controller in catalog - first entry wins",
				"name", c.Name,
				"winningIndex", first,
				"duplicateIndex", i)
			continue
		}
		seen[key(c.Name)] = i
		out = append(out, c)
	}

	log.V(1).Info("Parsed controller catalog",
		"format", format.String(),
		"controllerCount", len(out))
	return out, nil
}

// LoadFile reads a YAML or TOML catalog from path.
func LoadFile(path string, log logr.Logger) ([]*Controller, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("controller: open catalog: %w", err)
	}
	defer f.Close()

	return Load(f, format, log.WithValues("path", path))
}

// MergeFile loads a catalog file into r. Entries in the file override
// controllers of the same name. It returns the number of entries merged.
func (r *Registry) MergeFile(path string, log logr.Logger) (int, error) {
	controllers, err := LoadFile(path, log)
	if err != nil {
		return 0, err
	}
	for _, c := range controllers {
		if _, err := r.Lookup(c.Name); err == nil {
			log.V(1).Info("Catalog entry overrides controller", "name", c.Name)
		}
		r.Replace(c)
	}
	return len(controllers), nil
}
