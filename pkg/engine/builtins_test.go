package engine

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/crystview/pkg/crystal"
	"github.com/chazu/crystview/pkg/supercell"
	"github.com/chazu/crystview/pkg/view"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(cell :a 4)`,
			expect: `(cell "__kw_a" 4)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cell :a 4 :gamma 120)`,
			expect: `(cell "__kw_a" 4 "__kw_gamma" 120)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def cell-edge 4)`,
			expect: `(def cell_edge 4)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative number preserved",
			input:  `(vec3 -1.5 0 0)`,
			expect: `(vec3 -1.5 0 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:vdw-radius`,
			expect: `"__kw_vdw-radius"`,
		},
		{
			name:   "element keyword",
			input:  `(atom :Fe (frac 0 0 0))`,
			expect: `(atom "__kw_Fe" (frac 0 0 0))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// mustEval evaluates source and fails the test on any error.
func mustEval(t *testing.T, source string) *Script {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil script")
	}
	return s
}

// evalErrors evaluates source and returns the eval errors, failing the test
// if there are none.
func evalErrors(t *testing.T, source string) []EvalError {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil script on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	return evalErrs
}

func vecNear(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

// ---------------------------------------------------------------------------
// Cell and atoms
// ---------------------------------------------------------------------------

func TestCellAndFractionalAtoms(t *testing.T) {
	source := `
; CsCl structure
(cell :a 4.12)
(atom "Cs" (frac 0 0 0))
(atom "Cl" (frac 0.5 0.5 0.5))
`
	s := mustEval(t, source)
	st := s.Structure
	if st == nil {
		t.Fatal("expected a structure")
	}

	p := st.Lattice.Params()
	if p.A != 4.12 || p.B != 4.12 || p.C != 4.12 {
		t.Errorf("expected b and c to default to a, got %v", p)
	}
	if p.Alpha != 90 || p.Beta != 90 || p.Gamma != 90 {
		t.Errorf("expected right angles by default, got %v", p)
	}

	if st.Len() != 2 {
		t.Fatalf("expected 2 atoms, got %d", st.Len())
	}
	if st.Atoms[0].Element != "Cs" || st.Atoms[1].Element != "Cl" {
		t.Errorf("unexpected elements %q, %q", st.Atoms[0].Element, st.Atoms[1].Element)
	}
	if !vecNear(st.Atoms[1].Position, r3.Vec{X: 2.06, Y: 2.06, Z: 2.06}) {
		t.Errorf("Cl position = %v, want (2.06, 2.06, 2.06)", st.Atoms[1].Position)
	}
	if !s.View.IsZero() {
		t.Errorf("expected no view overrides, got %+v", s.View)
	}
}

func TestCartesianAtomsAndVariables(t *testing.T) {
	source := `
(def a 3.0)
(def half (/ a 2))
(cell :a a :b a :c 5 :gamma 120)
(atom :fe (vec3 0 0 0))
(atom "FE" (vec3 half 0 -1.25))
`
	st := mustEval(t, source).Structure
	if st == nil {
		t.Fatal("expected a structure")
	}
	p := st.Lattice.Params()
	if p.C != 5 || p.Gamma != 120 {
		t.Errorf("unexpected params %v", p)
	}
	for i, a := range st.Atoms {
		if a.Element != "Fe" {
			t.Errorf("atom %d element = %q, want normalised Fe", i, a.Element)
		}
	}
	if !vecNear(st.Atoms[1].Position, r3.Vec{X: 1.5, Z: -1.25}) {
		t.Errorf("cartesian position = %v, want (1.5, 0, -1.25)", st.Atoms[1].Position)
	}
}

func TestCellFromVectors(t *testing.T) {
	source := `
(cell :vectors (list (vec3 2 0 0) (vec3 0 3 0) (vec3 0 0 4)))
(atom "O" (frac 0.5 0.5 0.5))
`
	st := mustEval(t, source).Structure
	if math.Abs(st.Lattice.Volume()-24) > 1e-9 {
		t.Errorf("volume = %f, want 24", st.Lattice.Volume())
	}
	if !vecNear(st.Atoms[0].Position, r3.Vec{X: 1, Y: 1.5, Z: 2}) {
		t.Errorf("position = %v, want (1, 1.5, 2)", st.Atoms[0].Position)
	}
}

func TestCellOnly(t *testing.T) {
	st := mustEval(t, `(cell :a 4)`).Structure
	if st == nil || st.Len() != 0 {
		t.Fatalf("expected empty structure with a lattice, got %+v", st)
	}
}

func TestCellErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"degenerate", `(cell :a 4 :alpha 0)`, "degenerate"},
		{"flat", `(cell :a 4 :alpha 120 :beta 120 :gamma 120)`, "degenerate"},
		{"zero length", `(cell :a 0)`, "degenerate"},
		{"missing a", `(cell :b 4)`, "requires :a"},
		{"twice", `(cell :a 4) (cell :a 5)`, "already defined"},
		{"bad number", `(cell :a "four")`, "expected number"},
		{"coplanar vectors", `(cell :vectors (list (vec3 1 0 0) (vec3 0 1 0) (vec3 1 1 0)))`, "degenerate"},
		{"two vectors", `(cell :vectors (list (vec3 1 0 0) (vec3 0 1 0)))`, "expected 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := evalErrors(t, tt.source)
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestAtomErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"frac before cell", `(atom "Fe" (frac 0 0 0)) (cell :a 4)`, "preceding (cell"},
		{"no cell at all", `(atom "Fe" (vec3 0 0 0))`, "no (cell"},
		{"bad position", `(cell :a 4) (atom "Fe" 3)`, "expected vec3 or frac"},
		{"missing position", `(cell :a 4) (atom "Fe")`, "element and a position"},
		{"empty element", `(cell :a 4) (atom "" (vec3 0 0 0))`, "empty element"},
		{"short vec3", `(vec3 1 2)`, "exactly 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := evalErrors(t, tt.source)
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// View overrides
// ---------------------------------------------------------------------------

func TestViewOverrides(t *testing.T) {
	source := `
(cell :a 4)
(atom "Fe" (frac 0 0 0))
(view :packed false :supercell (list 2 2 1) :vdw-radius true :labels true :camera :x)
`
	o := mustEval(t, source).View
	if o.PackedCell == nil || *o.PackedCell {
		t.Errorf("PackedCell = %v, want false", o.PackedCell)
	}
	if o.Supercell == nil || *o.Supercell != (supercell.Extent{NX: 2, NY: 2, NZ: 1}) {
		t.Errorf("Supercell = %v, want 2×2×1", o.Supercell)
	}
	if o.VDWRadius == nil || !*o.VDWRadius {
		t.Errorf("VDWRadius = %v, want true", o.VDWRadius)
	}
	if o.AtomLabels == nil || !*o.AtomLabels {
		t.Errorf("AtomLabels = %v, want true", o.AtomLabels)
	}
	if o.Bonds != nil {
		t.Errorf("Bonds should be unset, got %v", *o.Bonds)
	}
	if o.Camera == nil || *o.Camera != view.AxisX {
		t.Errorf("Camera = %v, want x", o.Camera)
	}

	base := view.Params{PackedCell: true, Supercell: supercell.Unit, Bonds: true}
	got := o.Apply(base)
	want := view.Params{
		PackedCell: false,
		Supercell:  supercell.Extent{NX: 2, NY: 2, NZ: 1},
		Bonds:      true,
		VDWRadius:  true,
		AtomLabels: true,
	}
	if got != want {
		t.Errorf("Apply = %+v, want %+v", got, want)
	}
}

func TestViewLaterCallWins(t *testing.T) {
	o := mustEval(t, `(view :bonds true) (view :bonds false)`).View
	if o.Bonds == nil || *o.Bonds {
		t.Errorf("Bonds = %v, want false from the second call", o.Bonds)
	}
}

func TestViewErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"zero supercell", `(view :supercell (list 2 0 1))`, "malformed"},
		{"negative supercell", `(view :supercell (list -1 1 1))`, "malformed"},
		{"short supercell", `(view :supercell (list 2 2))`, "expected 3"},
		{"fractional supercell", `(view :supercell (list 1.5 1 1))`, "expected integer"},
		{"bad bool", `(view :bonds 1)`, "expected true or false"},
		{"bad camera", `(view :camera :w)`, "unknown camera axis"},
		{"positional", `(view true)`, "only keyword"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := evalErrors(t, tt.source)
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestOverridesApplyEmpty(t *testing.T) {
	base := view.Params{PackedCell: true, Supercell: supercell.Unit}
	if got := (Overrides{}).Apply(base); got != base {
		t.Errorf("empty overrides changed params: %+v", got)
	}
	if !(Overrides{}).IsZero() {
		t.Error("empty overrides should be zero")
	}
}

func TestLatticeOptionsReachCell(t *testing.T) {
	// A 1×1×0.001 Å cell is rejected only with a large tolerance.
	source := `(cell :a 1 :b 1 :c 0.001)`
	mustEval(t, source)

	eng := NewEngine(WithLatticeOptions(crystal.WithDeterminantTolerance(0.01)))
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if s != nil || len(evalErrs) == 0 {
		t.Fatal("expected the tolerance option to reject the thin cell")
	}
}

// ---------------------------------------------------------------------------
// Plain arithmetic still works (regression)
// ---------------------------------------------------------------------------

func TestArithmeticStillWorks(t *testing.T) {
	s := mustEval(t, "(+ 1 2)")
	if s.Structure != nil {
		t.Error("expected no structure")
	}
}
