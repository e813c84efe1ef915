package app

import (
	"os"
	"path/filepath"
	"testing"
)

func evalFile(t *testing.T, a *App, name string) EvalResult {
	t.Helper()
	source, err := os.ReadFile(filepath.Join("..", "..", "examples", name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	result := a.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	return result
}

func meshByName(result EvalResult) map[string]MeshData {
	out := make(map[string]MeshData, len(result.Meshes))
	for _, m := range result.Meshes {
		out[m.Name] = m
	}
	return out
}

// TestE2EIronExample exercises the full pipeline: script → engine →
// structure → controller → scene → meshes. This is the same path that the
// Wails Evaluate binding takes, but without the Wails runtime.
func TestE2EIronExample(t *testing.T) {
	result := evalFile(t, NewApp(), "fe_bcc.cryst")

	// 8 corners + body centre.
	if result.AtomCount != 9 {
		t.Errorf("expected 9 atoms, got %d", result.AtomCount)
	}

	expected := map[string]string{
		"atoms/Fe": "#E06633",
		"bonds":    "#969696",
		"cell":     "#000000",
	}
	if len(result.Meshes) != len(expected) {
		t.Fatalf("expected %d meshes, got %d", len(expected), len(result.Meshes))
	}
	for _, m := range result.Meshes {
		color, ok := expected[m.Name]
		if !ok {
			t.Errorf("unexpected mesh name: %q", m.Name)
			continue
		}
		if m.Color != color {
			t.Errorf("mesh %q: color %s, want %s", m.Name, m.Color, color)
		}

		// Each mesh must have non-empty geometry.
		if len(m.Vertices) == 0 {
			t.Errorf("mesh %q: no vertices", m.Name)
		}
		if len(m.Normals) != len(m.Vertices) {
			t.Errorf("mesh %q: %d normals for %d vertex floats", m.Name, len(m.Normals), len(m.Vertices))
		}
		if len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
			t.Errorf("mesh %q: %d indices", m.Name, len(m.Indices))
		}
	}

	if len(result.Labels) != 0 {
		t.Errorf("labels are off, got %d", len(result.Labels))
	}
	if result.Camera.Axis != "z" {
		t.Errorf("expected default camera z, got %q", result.Camera.Axis)
	}
	if result.Camera.View[7] != 1 {
		t.Errorf("z preset should be the identity rotation, got %v", result.Camera.View)
	}
}

// TestE2ERockSaltExample covers two elements, empty bonds and labels.
func TestE2ERockSaltExample(t *testing.T) {
	result := evalFile(t, NewApp(), "nacl.cryst")

	// Na: 8 corners + 6 faces. Cl: 12 edges + centre.
	if result.AtomCount != 27 {
		t.Errorf("expected 27 atoms, got %d", result.AtomCount)
	}

	meshes := meshByName(result)
	for _, name := range []string{"atoms/Cl", "atoms/Na", "bonds", "cell"} {
		if _, ok := meshes[name]; !ok {
			t.Errorf("missing mesh %q", name)
		}
	}
	// Na–Cl at 2.82 Å is longer than the sum of covalent radii.
	if n := len(meshes["bonds"].Vertices); n != 0 {
		t.Errorf("expected no bonds, got %d vertex floats", n)
	}

	if len(result.Labels) != 27 {
		t.Fatalf("expected 27 labels, got %d", len(result.Labels))
	}
	counts := map[string]int{}
	for _, l := range result.Labels {
		counts[l.Text]++
	}
	if counts["Na"] != 14 || counts["Cl"] != 13 {
		t.Errorf("label counts = %v, want Na 14, Cl 13", counts)
	}
	if !result.Params.VDWRadius {
		t.Error("script turned vdw radii on")
	}
}

// TestE2EPerovskiteExample covers script supercell and camera overrides.
func TestE2EPerovskiteExample(t *testing.T) {
	result := evalFile(t, NewApp(), "batio3.cryst")

	// 2×2×2 packed: Ba 27 corners, Ti 8 centres, O 3 × 12 faces.
	if result.AtomCount != 71 {
		t.Errorf("expected 71 atoms, got %d", result.AtomCount)
	}
	if result.Params.NX != 2 || result.Params.NY != 2 || result.Params.NZ != 2 {
		t.Errorf("expected 2×2×2 supercell, got %+v", result.Params)
	}
	if result.Camera.Axis != "x" {
		t.Errorf("expected camera x from the script, got %q", result.Camera.Axis)
	}

	meshes := meshByName(result)
	if len(meshes["bonds"].Vertices) == 0 {
		t.Error("expected Ti–O bonds")
	}
	if len(meshes) != 5 {
		t.Errorf("expected Ba, O, Ti, bonds and cell meshes, got %d", len(meshes))
	}
}

// TestE2EBoronNitrideExample covers a hexagonal cell and a negative
// fractional coordinate that has to be folded.
func TestE2EBoronNitrideExample(t *testing.T) {
	result := evalFile(t, NewApp(), "hbn.cryst")

	// No atom sits on a cell face, so packing adds no images: 4 × 2×2×1.
	if result.AtomCount != 16 {
		t.Errorf("expected 16 atoms, got %d", result.AtomCount)
	}
	if len(meshByName(result)["bonds"].Vertices) == 0 {
		t.Error("expected in-plane B–N bonds")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	a := NewApp()
	result := a.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	a := NewApp()
	result := a.Evaluate("(cell :a 4")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleAtom ensures a minimal single-atom source renders.
func TestE2ESingleAtom(t *testing.T) {
	a := NewApp()
	result := a.Evaluate(`(cell :a 3) (atom "Cu" (frac 0.5 0.5 0.5)) (view :bonds false)`)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if result.AtomCount != 1 {
		t.Fatalf("expected 1 atom, got %d", result.AtomCount)
	}
	if len(result.Meshes) != 2 {
		t.Fatalf("expected atoms and cell meshes, got %d", len(result.Meshes))
	}
	if result.Meshes[0].Name != "atoms/Cu" {
		t.Errorf("expected mesh name 'atoms/Cu', got %q", result.Meshes[0].Name)
	}
}
