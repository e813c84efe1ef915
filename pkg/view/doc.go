// Package view is the contract boundary between the UI toggles and the
// geometric pipeline.
//
// Params carries the five viewer options. Derive turns a structure and a
// Params into the atom list to display. Controller records the current
// params and structure, tracks whether the displayed frame is stale
// (Clean/Dirty), and re-derives synchronously on Refresh, handing each new
// Frame to a Renderer. A failed refresh keeps the previous frame.
//
// Controller is not safe for concurrent use; callers serialise access and
// coalesce rapid changes themselves.
package view
