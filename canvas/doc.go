// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package canvas defines the 2D drawing surface the stage renders into.
//
// Canvas mirrors the immediate-mode model of an HTML canvas context: a
// current transform, global alpha, a CSS filter and fill/stroke styles that
// are saved and restored as a stack, plus path, image and clear operations.
//
// Two implementations are provided:
//
//   - Raster draws into an *image.RGBA, scan-converting shapes with
//     rasterx, resampling images with x/image/draw and applying filters
//     with bild.
//   - Recorder keeps the same state but records every operation, which is
//     what tests use to check traversal order and transforms.
//
// Colors and filters are given as CSS strings and parsed with ParseColor
// and ParseFilter.
package canvas
