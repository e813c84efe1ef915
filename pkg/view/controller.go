package view

import (
	"fmt"

	"github.com/chazu/crystview/pkg/crystal"
	"github.com/chazu/crystview/pkg/supercell"
)

// State is the controller's view of whether the rendered frame is current.
type State int

const (
	Clean State = iota // rendered frame matches params and structure
	Dirty              // a change was observed, refresh pending
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Frame is an immutable snapshot handed to the renderer once per refresh.
type Frame struct {
	Structure *crystal.Structure
	Params    Params
	Atoms     []crystal.Atom
}

// Renderer receives each newly derived frame.
type Renderer interface {
	Render(f Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f Frame) error

// Render calls fn(f).
func (fn RendererFunc) Render(f Frame) error { return fn(f) }

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithExpandOptions passes options through to supercell.Expand.
func WithExpandOptions(opts ...supercell.Option) ControllerOption {
	return func(c *Controller) {
		c.expandOpts = append(c.expandOpts, opts...)
	}
}

// Controller owns the current params, the current structure and the last
// rendered frame.
type Controller struct {
	renderer   Renderer
	expandOpts []supercell.Option

	params    Params
	structure *crystal.Structure
	state     State

	last    Frame
	hasLast bool
	busy    bool
}

// NewController returns a Clean controller with initial params and no
// structure. The initial params must be valid.
func NewController(r Renderer, initial Params, opts ...ControllerOption) (*Controller, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{renderer: r, params: initial, state: Clean}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// State returns Clean or Dirty.
func (c *Controller) State() State { return c.state }

// Params returns the current params.
func (c *Controller) Params() Params { return c.params }

// Structure returns the current structure, or nil.
func (c *Controller) Structure() *crystal.Structure { return c.structure }

// Last returns the most recently rendered frame.
func (c *Controller) Last() (Frame, bool) { return c.last, c.hasLast }

// SetParams records new params. Malformed params are rejected and leave the
// controller untouched. Identical params do not mark the view dirty.
func (c *Controller) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p == c.params {
		return nil
	}
	c.params = p
	c.state = Dirty
	return nil
}

// SetStructure records a newly loaded structure. nil unloads it.
func (c *Controller) SetStructure(s *crystal.Structure) {
	if s == c.structure {
		return
	}
	c.structure = s
	c.state = Dirty
}

// Refresh re-derives and renders the frame if the view is dirty; a clean
// view returns the last frame unchanged. On any error the previous frame is
// kept and the view stays dirty.
func (c *Controller) Refresh() (Frame, error) {
	if c.busy {
		return Frame{}, ErrReentrant
	}
	if c.state == Clean {
		return c.last, nil
	}

	c.busy = true
	defer func() { c.busy = false }()

	atoms, err := Derive(c.structure, c.params, c.expandOpts...)
	if err != nil {
		return Frame{}, err
	}

	f := Frame{Structure: c.structure, Params: c.params, Atoms: atoms}
	if c.renderer != nil {
		if err := c.renderer.Render(f); err != nil {
			return Frame{}, fmt.Errorf("render: %w", err)
		}
	}

	c.last = f
	c.hasLast = true
	c.state = Clean
	return f, nil
}
