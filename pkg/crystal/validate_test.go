package crystal_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/crystview/pkg/crystal"
)

type knownSet map[string]bool

func (k knownSet) Known(e string) bool { return k[e] }

func TestValidateClean(t *testing.T) {
	s := crystal.NewStructure(cubic(t, 4), []crystal.Atom{
		{Element: "Fe", Position: r3.Vec{}},
		{Element: "Fe", Position: r3.Vec{X: 2, Y: 2, Z: 2}},
	})
	res := crystal.Validate(s, knownSet{"Fe": true})
	assert.True(t, res.OK())
	assert.Empty(t, res.Warnings)
}

func TestValidateFindings(t *testing.T) {
	s := crystal.NewStructure(cubic(t, 4), []crystal.Atom{
		{Element: "Fe", Position: r3.Vec{}},
		{Element: "", Position: r3.Vec{X: 1}},
		{Element: "Xx", Position: r3.Vec{X: 2}},
		{Element: "Fe", Position: r3.Vec{X: 1e-5}},
		{Element: "Fe", Position: r3.Vec{Y: math.Inf(1)}},
	})
	res := crystal.Validate(s, knownSet{"Fe": true})

	require.Len(t, res.Errors, 2)
	assert.Equal(t, 1, res.Errors[0].Atom)
	assert.Equal(t, 4, res.Errors[1].Atom)
	assert.Contains(t, res.Errors[1].Error(), "non-finite")

	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0].Message, `unknown element "Xx"`)
	assert.Equal(t, "[warning] atom 3: coincides with atom 0", res.Warnings[1].Error())
}

func TestValidateNoLattice(t *testing.T) {
	res := crystal.Validate(&crystal.Structure{}, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "[error] structure has no lattice", res.Errors[0].Error())

	res = crystal.Validate(nil, nil)
	assert.False(t, res.OK())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", crystal.SeverityError.String())
	assert.Equal(t, "warning", crystal.SeverityWarning.String())
	assert.Equal(t, "Severity(7)", crystal.Severity(7).String())
}
