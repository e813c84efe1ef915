package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/crystview/pkg/config"
	"github.com/chazu/crystview/pkg/supercell"
	"github.com/chazu/crystview/pkg/view"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	p, err := cfg.ViewParams()
	require.NoError(t, err)
	assert.Equal(t, view.Params{PackedCell: true, Supercell: supercell.Unit, Bonds: true}, p)
	assert.Equal(t, view.AxisZ, cfg.CameraAxis())
	assert.Equal(t, 5*time.Second, cfg.Engine.Timeout)
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	src := `
[view]
packed_cell = false
supercell = [2, 3, 1]
camera = "x"

[bonds]
strict = true

[bonds.overrides]
Ba = 1.98

[engine]
timeout = "2s"
`
	cfg, err := config.Decode(strings.NewReader(src))
	require.NoError(t, err)

	p, err := cfg.ViewParams()
	require.NoError(t, err)
	assert.False(t, p.PackedCell)
	assert.True(t, p.Bonds, "unset keys keep their defaults")
	assert.Equal(t, supercell.Extent{NX: 2, NY: 3, NZ: 1}, p.Supercell)
	assert.Equal(t, view.AxisX, cfg.CameraAxis())
	assert.Equal(t, 2*time.Second, cfg.Engine.Timeout)
	assert.Equal(t, 0.3, cfg.Render.SphereScale)

	tab := cfg.Table()
	assert.True(t, tab.Strict())
	r, err := tab.EffectiveRadius("Ba")
	require.NoError(t, err)
	assert.InDelta(t, 1.98, r, 1e-12)
	_, err = tab.EffectiveRadius("Xx")
	require.Error(t, err)
}

func TestDecodeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"zero supercell", "[view]\nsupercell = [1, 0, 1]\n"},
		{"short supercell", "[view]\nsupercell = [1, 1]\n"},
		{"bad camera", "[view]\ncamera = \"diag\"\n"},
		{"negative epsilon", "[supercell]\nboundary_epsilon = -1.0\n"},
		{"negative tolerance", "[lattice]\ndet_tolerance = -1.0\n"},
		{"zero default radius", "[bonds]\ndefault_radius = 0.0\n"},
		{"bad override", "[bonds.overrides]\nFe = -1.0\n"},
		{"coarse mesh", "[render]\nmesh_cells = 2\n"},
		{"zero stick", "[render]\nstick_radius = 0.0\n"},
		{"zero timeout", "[engine]\ntimeout = \"0s\"\n"},
		{"not toml", "[view\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Decode(strings.NewReader(tt.src))
			require.Error(t, err)
		})
	}
}

func TestValidateWrapsErrInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Render.VDWScale = 0
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)

	cfg = config.Default()
	cfg.View.Supercell = []int{1, -1, 1}
	require.ErrorIs(t, cfg.Validate(), view.ErrMalformedParams)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crystview.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render]\nmesh_cells = 32\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Render.MeshCells)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "crystview.toml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.LatticeOptions(), 1)
	assert.Len(t, cfg.ExpandOptions(), 1)
}
