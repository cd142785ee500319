// Package geom provides the small linear-algebra kit used by the renderer:
// 2D vectors, a 2x2 rotation matrix, a 2x3 affine texture matrix, a 4x4
// row-major transform and the per-layer transform stacks built from it.
//
// All values use float32 because they end up in vertex buffers.
package geom
