// Package config loads viewer defaults and tuning constants from a TOML file.
//
// Load starts from Default and overlays whatever the file sets, so a config
// file only needs the keys it changes:
//
//	[view]
//	packed_cell = false
//	supercell = [2, 2, 1]
//
//	[bonds.overrides]
//	Ba = 1.98
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/chazu/crystview/pkg/bondlen"
	"github.com/chazu/crystview/pkg/crystal"
	"github.com/chazu/crystview/pkg/supercell"
	"github.com/chazu/crystview/pkg/view"
)

// ErrInvalid is returned by Validate for values the pipeline cannot use.
var ErrInvalid = errors.New("config: invalid value")

// Config is the decoded configuration file.
type Config struct {
	Lattice   Lattice   `toml:"lattice"`
	Supercell Supercell `toml:"supercell"`
	Bonds     Bonds     `toml:"bonds"`
	View      View      `toml:"view"`
	Render    Render    `toml:"render"`
	Engine    Engine    `toml:"engine"`
}

type Lattice struct {
	DetTolerance float64 `toml:"det_tolerance"`
}

type Supercell struct {
	BoundaryEpsilon float64 `toml:"boundary_epsilon"`
}

type Bonds struct {
	Strict        bool               `toml:"strict"`
	DefaultRadius float64            `toml:"default_radius"`
	Overrides     map[string]float64 `toml:"overrides"`
}

// View holds the initial viewer toggles. Scripts may override them.
type View struct {
	PackedCell bool   `toml:"packed_cell"`
	Supercell  []int  `toml:"supercell"`
	Bonds      bool   `toml:"bonds"`
	VDWRadius  bool   `toml:"vdw_radius"`
	AtomLabels bool   `toml:"atom_labels"`
	Camera     string `toml:"camera"`
}

// Render tunes meshing. Radii are in Å.
type Render struct {
	MeshCells      int     `toml:"mesh_cells"`
	SphereScale    float64 `toml:"sphere_scale"`
	VDWScale       float64 `toml:"vdw_scale"`
	StickRadius    float64 `toml:"stick_radius"`
	CellEdgeRadius float64 `toml:"cell_edge_radius"`
}

type Engine struct {
	Timeout time.Duration `toml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Lattice:   Lattice{DetTolerance: crystal.DefaultDeterminantTolerance},
		Supercell: Supercell{BoundaryEpsilon: supercell.DefaultBoundaryEpsilon},
		Bonds:     Bonds{DefaultRadius: bondlen.DefaultRadius},
		View: View{
			PackedCell: true,
			Supercell:  []int{1, 1, 1},
			Bonds:      true,
			Camera:     string(view.AxisZ),
		},
		Render: Render{
			MeshCells:      48,
			SphereScale:    0.3,
			VDWScale:       1.0,
			StickRadius:    0.2,
			CellEdgeRadius: 0.03,
		},
		Engine: Engine{Timeout: 5 * time.Second},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode is Load for an already open reader.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value the pipeline would otherwise panic or
// misbehave on.
func (c Config) Validate() error {
	if !nonNegative(c.Lattice.DetTolerance) {
		return fmt.Errorf("lattice.det_tolerance = %g: %w", c.Lattice.DetTolerance, ErrInvalid)
	}
	if !nonNegative(c.Supercell.BoundaryEpsilon) {
		return fmt.Errorf("supercell.boundary_epsilon = %g: %w", c.Supercell.BoundaryEpsilon, ErrInvalid)
	}
	if !positive(c.Bonds.DefaultRadius) {
		return fmt.Errorf("bonds.default_radius = %g: %w", c.Bonds.DefaultRadius, ErrInvalid)
	}
	for elem, r := range c.Bonds.Overrides {
		if !positive(r) {
			return fmt.Errorf("bonds.overrides.%s = %g: %w", elem, r, ErrInvalid)
		}
	}
	if _, err := c.ViewParams(); err != nil {
		return err
	}
	if _, err := view.ParseAxis(c.View.Camera); err != nil {
		return fmt.Errorf("view.camera: %w", err)
	}
	if c.Render.MeshCells < 8 {
		return fmt.Errorf("render.mesh_cells = %d: %w", c.Render.MeshCells, ErrInvalid)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"render.sphere_scale", c.Render.SphereScale},
		{"render.vdw_scale", c.Render.VDWScale},
		{"render.stick_radius", c.Render.StickRadius},
		{"render.cell_edge_radius", c.Render.CellEdgeRadius},
	} {
		if !positive(f.v) {
			return fmt.Errorf("%s = %g: %w", f.name, f.v, ErrInvalid)
		}
	}
	if c.Engine.Timeout <= 0 {
		return fmt.Errorf("engine.timeout = %s: %w", c.Engine.Timeout, ErrInvalid)
	}
	return nil
}

// ViewParams converts the [view] section. All five toggles come from the
// file or the defaults.
func (c Config) ViewParams() (view.Params, error) {
	if len(c.View.Supercell) != 3 {
		return view.Params{}, fmt.Errorf("view.supercell: want 3 values, got %d: %w", len(c.View.Supercell), ErrInvalid)
	}
	p := view.Params{
		PackedCell: c.View.PackedCell,
		Supercell: supercell.Extent{
			NX: c.View.Supercell[0],
			NY: c.View.Supercell[1],
			NZ: c.View.Supercell[2],
		},
		Bonds:      c.View.Bonds,
		VDWRadius:  c.View.VDWRadius,
		AtomLabels: c.View.AtomLabels,
	}
	if err := p.Validate(); err != nil {
		return view.Params{}, err
	}
	return p, nil
}

// CameraAxis returns the initial camera preset.
func (c Config) CameraAxis() view.Axis {
	a, err := view.ParseAxis(c.View.Camera)
	if err != nil {
		return view.AxisZ
	}
	return a
}

// LatticeOptions returns the crystal options for lattice construction.
func (c Config) LatticeOptions() []crystal.Option {
	return []crystal.Option{crystal.WithDeterminantTolerance(c.Lattice.DetTolerance)}
}

// ExpandOptions returns the supercell options for expansion.
func (c Config) ExpandOptions() []supercell.Option {
	return []supercell.Option{supercell.WithBoundaryEpsilon(c.Supercell.BoundaryEpsilon)}
}

// Table builds the bond-length table described by [bonds].
func (c Config) Table() *bondlen.Table {
	opts := []bondlen.Option{bondlen.WithDefaultRadius(c.Bonds.DefaultRadius)}
	if c.Bonds.Strict {
		opts = append(opts, bondlen.WithStrict())
	}
	for elem, r := range c.Bonds.Overrides {
		opts = append(opts, bondlen.WithOverride(elem, r))
	}
	return bondlen.New(opts...)
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}

func nonNegative(x float64) bool {
	return x >= 0 && !math.IsInf(x, 0)
}
