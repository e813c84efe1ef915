package view

import (
	"errors"

	"github.com/chazu/crystview/pkg/supercell"
)

var (
	// ErrMalformedParams is supercell.ErrMalformedParams, re-exported for
	// callers that only deal with view parameters.
	ErrMalformedParams = supercell.ErrMalformedParams

	// ErrNoStructure is returned by Refresh before any structure was set.
	ErrNoStructure = errors.New("view: no structure loaded")

	// ErrReentrant is returned when Refresh is called from inside
	// Renderer.Render.
	ErrReentrant = errors.New("view: refresh already in progress")

	// ErrUnknownAxis is returned for camera presets other than x, y and z.
	ErrUnknownAxis = errors.New("view: unknown camera axis")
)
