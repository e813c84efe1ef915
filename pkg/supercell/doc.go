// Package supercell repeats a primary cell into the block of cells that is
// displayed.
//
// Two modes are supported. Unpacked expansion tiles the input atoms by pure
// lattice translation over cells 0..n-1 on each axis and assumes the input
// is one clean period. Packed expansion first folds every atom into the
// primary cell, then visits one extra shell of cells around the requested
// block and admits the images that sit on (or within ε of) the block's
// outer faces, so atoms cut by the faces show on both sides.
//
// Output order is unspecified. Coincident images produced by the shell pass
// are kept; the renderer tolerates overlapping spheres.
package supercell
