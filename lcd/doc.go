// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcd draws shapes, text and bitmap images onto RGB565 panel
// drivers.
//
// A Display wraps any Driver and rasterizes lines, rectangles, circles,
// ellipses, polygons and fixed-cell bitmap fonts onto it. Drivers expose
// hardware accelerated primitives by implementing the optional capability
// interfaces (HLiner, VLiner, Windower, BitmapDrawer, PixelReader); the
// Display detects them and falls back to per-pixel writes otherwise.
//
// The drawing model follows the classic embedded BSP layering: a thin
// panel driver below, a stateful drawing context above. Unlike its
// ancestors the state here lives in the Display value, so multiple panels
// can be driven independently.
package lcd
