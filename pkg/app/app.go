// Package app is the desktop backend. Its exported App methods are bound to
// the frontend and drive the whole pipeline: script evaluation, structure
// validation, view re-derivation, tessellation and export.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chazu/crystview/pkg/bondlen"
	"github.com/chazu/crystview/pkg/config"
	"github.com/chazu/crystview/pkg/crystal"
	"github.com/chazu/crystview/pkg/engine"
	"github.com/chazu/crystview/pkg/kernel"
	"github.com/chazu/crystview/pkg/kernel/sdfx"
	"github.com/chazu/crystview/pkg/scene"
	"github.com/chazu/crystview/pkg/supercell"
	"github.com/chazu/crystview/pkg/view"
)

// ErrNothingToExport is returned by Export before anything was rendered.
var ErrNothingToExport = errors.New("app: nothing rendered to export")

// App is the Wails backend. It exposes methods to the frontend via bindings.
// Bindings may be called from several goroutines; every call holds mu.
type App struct {
	mu  sync.Mutex
	ctx context.Context

	engine *engine.Engine
	kernel kernel.Kernel
	table  *bondlen.Table
	style  scene.Style
	ctrl   *view.Controller

	base   view.Params // frontend/config params before script overrides
	camera view.Axis

	meshes []MeshData
	labels []scene.Label
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// CameraData is a camera preset in the layout 3Dmol's setView takes.
type CameraData struct {
	Axis       string     `json:"axis"`
	View       [8]float64 `json:"view"`
	ZoomFactor float64    `json:"zoomFactor"`
}

// ViewerParamsData mirrors view.Params with a flat supercell for the
// frontend's number inputs.
type ViewerParamsData struct {
	PackedCell bool `json:"packedCell"`
	NX         int  `json:"nx"`
	NY         int  `json:"ny"`
	NZ         int  `json:"nz"`
	Bonds      bool `json:"bonds"`
	VDWRadius  bool `json:"vdwRadius"`
	AtomLabels bool `json:"atomLabels"`
}

func (d ViewerParamsData) params() view.Params {
	return view.Params{
		PackedCell: d.PackedCell,
		Supercell:  supercell.Extent{NX: d.NX, NY: d.NY, NZ: d.NZ},
		Bonds:      d.Bonds,
		VDWRadius:  d.VDWRadius,
		AtomLabels: d.AtomLabels,
	}
}

func viewerParamsData(p view.Params) ViewerParamsData {
	return ViewerParamsData{
		PackedCell: p.PackedCell,
		NX:         p.Supercell.NX,
		NY:         p.Supercell.NY,
		NZ:         p.Supercell.NZ,
		Bonds:      p.Bonds,
		VDWRadius:  p.VDWRadius,
		AtomLabels: p.AtomLabels,
	}
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes    []MeshData       `json:"meshes"`
	Labels    []scene.Label    `json:"labels"`
	Errors    []EvalErrorData  `json:"errors"`
	Warnings  []EvalErrorData  `json:"warnings"`
	AtomCount int              `json:"atomCount"`
	Params    ViewerParamsData `json:"params"`
	Camera    CameraData       `json:"camera"`
}

func newResult() EvalResult {
	return EvalResult{
		Meshes:   []MeshData{},
		Labels:   []scene.Label{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

func (r *EvalResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, EvalErrorData{Message: fmt.Sprintf(format, args...)})
}

// NewApp creates an App with the built-in configuration.
func NewApp() *App {
	a, err := New(config.Default())
	if err != nil {
		// The defaults always validate.
		panic(err)
	}
	return a
}

// New creates an App from cfg.
func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := cfg.ViewParams()
	if err != nil {
		return nil, err
	}

	a := &App{
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.Engine.Timeout),
			engine.WithLatticeOptions(cfg.LatticeOptions()...),
		),
		kernel: sdfx.New(sdfx.WithMeshCells(cfg.Render.MeshCells)),
		table:  cfg.Table(),
		style: scene.Style{
			SphereScale:    cfg.Render.SphereScale,
			VDWScale:       cfg.Render.VDWScale,
			StickRadius:    cfg.Render.StickRadius,
			CellEdgeRadius: cfg.Render.CellEdgeRadius,
		},
		base:   base,
		camera: cfg.CameraAxis(),
	}

	a.ctrl, err = view.NewController(view.RendererFunc(a.render), base,
		view.WithExpandOptions(cfg.ExpandOptions()...))
	if err != nil {
		return nil, err
	}
	return a, nil
}

// OnStartup returns the hook Wails calls on app startup. The context is
// saved so we can call Wails runtime methods later if needed. It is not a
// method so that it stays out of the frontend bindings.
func OnStartup(a *App) func(ctx context.Context) {
	return func(ctx context.Context) {
		a.mu.Lock()
		a.ctx = ctx
		a.mu.Unlock()
	}
}

// render is the controller's renderer: it tessellates the frame and keeps the
// meshes for the next result. On error the previous meshes stay.
func (a *App) render(f view.Frame) error {
	meshes, err := scene.Tessellate(f, a.kernel, a.table, a.style)
	if err != nil {
		return err
	}

	elems := f.Structure.Elements()
	out := make([]MeshData, 0, len(meshes))
	for _, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    scene.ColorOf(m.Name, elems),
		})
	}

	a.meshes = out
	a.labels = nil
	if f.Params.AtomLabels {
		a.labels = scene.Labels(f.Atoms)
	}
	return nil
}

// clear unloads the structure and drops the rendered geometry.
func (a *App) clear() {
	a.ctrl.SetStructure(nil)
	a.meshes = nil
	a.labels = nil
}

// fill copies the current geometry, params and camera into r.
func (a *App) fill(r *EvalResult) {
	if a.meshes != nil {
		r.Meshes = a.meshes
	}
	if a.labels != nil {
		r.Labels = a.labels
	}
	if f, ok := a.ctrl.Last(); ok && a.meshes != nil {
		r.AtomCount = len(f.Atoms)
	}
	r.Params = viewerParamsData(a.ctrl.Params())
	r.Camera = a.cameraData()
}

func (a *App) cameraData() CameraData {
	c, err := view.Preset(a.camera)
	if err != nil {
		c, _ = view.Preset(view.AxisZ)
	}
	return CameraData{Axis: string(c.Axis), View: c.View(), ZoomFactor: view.ZoomFactor}
}

// Evaluate takes script source and returns mesh data + errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) (result EvalResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	result = newResult()
	defer a.fill(&result)

	// Step 1: Evaluate the script into a structure and view overrides.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.fail("%s", err.Error())
		a.clear()
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		a.clear()
		return result
	}

	if s.View.Camera != nil {
		a.camera = *s.View.Camera
	}
	if s.Structure == nil {
		a.clear()
		return result
	}

	// Step 3: Validate the structure.
	v := crystal.Validate(s.Structure, a.table)
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}
	if !v.OK() {
		for _, e := range v.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
		a.clear()
		return result
	}

	// Step 4: Apply the script's view overrides and re-derive the frame.
	if err := a.ctrl.SetParams(s.View.Apply(a.base)); err != nil {
		result.fail("view: %v", err)
		return result
	}
	a.ctrl.SetStructure(s.Structure)

	if _, err := a.ctrl.Refresh(); err != nil {
		log.Printf("Refresh error: %v", err)
		result.fail("render failed: %v", err)
		a.clear()
		return result
	}
	return result
}

// Params returns the params currently applied to the view.
func (a *App) Params() ViewerParamsData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return viewerParamsData(a.ctrl.Params())
}

// SetViewerParams applies params from the viewer controls and re-renders the
// current structure. Malformed params are reported and the previous frame is
// kept.
func (a *App) SetViewerParams(d ViewerParamsData) (result EvalResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	result = newResult()
	defer a.fill(&result)

	p := d.params()
	if err := a.ctrl.SetParams(p); err != nil {
		result.fail("view: %v", err)
		return result
	}
	a.base = p

	if a.ctrl.Structure() == nil {
		return result
	}
	if _, err := a.ctrl.Refresh(); err != nil {
		log.Printf("Refresh error: %v", err)
		result.fail("render failed: %v", err)
	}
	return result
}

// SetCamera switches to the x, y or z preset.
func (a *App) SetCamera(axis string) (CameraData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ax, err := view.ParseAxis(axis)
	if err != nil {
		return CameraData{}, err
	}
	a.camera = ax
	return a.cameraData(), nil
}

// Export writes the last rendered frame to path as STL.
func (a *App) Export(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, ok := a.ctrl.Last()
	if !ok || a.meshes == nil {
		return ErrNothingToExport
	}
	s, err := scene.Solids(f, a.kernel, a.table, a.style)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := a.kernel.WriteSTL(s, path); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	log.Printf("exported %d atoms to %s", len(f.Atoms), path)
	return nil
}
