// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import "image"

// DrawPixel draws one pixel in the current drawing color.
func (d *Display) DrawPixel(x, y int) {
	d.drv.WritePixel(x, y, d.text)
}

// DrawHLine draws a horizontal line of length pixels starting at (x, y),
// extending right.
func (d *Display) DrawHLine(x, y, length int) {
	d.hline(x, y, length, d.text)
}

// DrawVLine draws a vertical line of length pixels starting at (x, y),
// extending down.
func (d *Display) DrawVLine(x, y, length int) {
	d.vline(x, y, length, d.text)
}

func (d *Display) hline(x, y, length int, c Color) {
	if hl, ok := d.drv.(HLiner); ok {
		hl.DrawHLine(x, y, length, c)
		return
	}
	for i := 0; i < length; i++ {
		d.drv.WritePixel(x+i, y, c)
	}
}

func (d *Display) vline(x, y, length int, c Color) {
	if vl, ok := d.drv.(VLiner); ok {
		vl.DrawVLine(x, y, length, c)
		return
	}
	for i := 0; i < length; i++ {
		d.drv.WritePixel(x, y+i, c)
	}
}

// DrawLine draws a line between two points, endpoints included. The
// stepping is pure integer arithmetic: the accumulator advances by the
// minor delta each pixel and the minor axis steps whenever it overflows the
// major delta.
func (d *Display) DrawLine(x1, y1, x2, y2 int) {
	deltaX := abs(x2 - x1)
	deltaY := abs(y2 - y1)
	x, y := x1, y1

	xinc1, xinc2 := 1, 1
	if x2 < x1 {
		xinc1, xinc2 = -1, -1
	}
	yinc1, yinc2 := 1, 1
	if y2 < y1 {
		yinc1, yinc2 = -1, -1
	}

	var den, num, numadd, numpixels int
	if deltaX >= deltaY {
		// At least one x step per y step: x advances every pixel, y only on
		// accumulator overflow.
		xinc1 = 0
		yinc2 = 0
		den, num, numadd, numpixels = deltaX, deltaX/2, deltaY, deltaX
	} else {
		xinc2 = 0
		yinc1 = 0
		den, num, numadd, numpixels = deltaY, deltaY/2, deltaX, deltaY
	}

	for i := 0; i <= numpixels; i++ {
		d.drv.WritePixel(x, y, d.text)
		num += numadd
		if num >= den {
			num -= den
			x += xinc1
			y += yinc1
		}
		x += xinc2
		y += yinc2
	}
}

// DrawRect draws a rectangle outline with corner (x, y).
func (d *Display) DrawRect(x, y, width, height int) {
	d.DrawHLine(x, y, width)
	d.DrawHLine(x, y+height, width)
	d.DrawVLine(x, y, height)
	d.DrawVLine(x+width, y, height)
}

// FillRect fills a rectangle with the drawing color as height+1 consecutive
// horizontal lines.
func (d *Display) FillRect(x, y, width, height int) {
	d.fillRect(x, y, width, height, d.text)
}

func (d *Display) fillRect(x, y, width, height int, c Color) {
	for i := 0; i <= height; i++ {
		d.hline(x, y+i, width, c)
	}
}

// DrawCircle draws a circle outline using the midpoint algorithm, plotting
// the eight octant reflections of every step.
func (d *Display) DrawCircle(x, y, radius int) {
	decision := 3 - (radius << 1)
	curX, curY := 0, radius
	for curX <= curY {
		d.drv.WritePixel(x+curX, y-curY, d.text)
		d.drv.WritePixel(x-curX, y-curY, d.text)
		d.drv.WritePixel(x+curY, y-curX, d.text)
		d.drv.WritePixel(x-curY, y-curX, d.text)
		d.drv.WritePixel(x+curX, y+curY, d.text)
		d.drv.WritePixel(x-curX, y+curY, d.text)
		d.drv.WritePixel(x+curY, y+curX, d.text)
		d.drv.WritePixel(x-curY, y+curX, d.text)
		if decision < 0 {
			decision += (curX << 2) + 6
		} else {
			decision += ((curX - curY) << 2) + 10
			curY--
		}
		curX++
	}
}

// FillCircle fills a circle with vertical chords between the symmetric
// midpoint pairs, then strokes the outline on top.
func (d *Display) FillCircle(x, y, radius int) {
	decision := 3 - (radius << 1)
	curX, curY := 0, radius
	for curX <= curY {
		if curY > 0 {
			d.vline(x+curX, y-curY, 2*curY, d.text)
			d.vline(x-curX, y-curY, 2*curY, d.text)
		}
		if curX > 0 {
			d.vline(x-curY, y-curX, 2*curX, d.text)
			d.vline(x+curY, y-curX, 2*curX, d.text)
		}
		if decision < 0 {
			decision += (curX << 2) + 6
		} else {
			decision += ((curX - curY) << 2) + 10
			curY--
		}
		curX++
	}
	d.DrawCircle(x, y, radius)
}

// DrawEllipse draws an ellipse outline with horizontal radius rx and
// vertical radius ry. The stepping is integer; only the aspect scale factor
// is floating point.
func (d *Display) DrawEllipse(x, y, rx, ry int) {
	if rx <= 0 || ry <= 0 {
		return
	}
	xi, yi := 0, -rx
	e := 2 - 2*ry
	k := float32(rx) / float32(ry)
	for {
		v := int(float32(xi) / k)
		d.drv.WritePixel(x+yi, y-v, d.text)
		d.drv.WritePixel(x+yi, y+v, d.text)
		d.drv.WritePixel(x-yi, y+v, d.text)
		d.drv.WritePixel(x-yi, y-v, d.text)
		e2 := e
		if e2 <= xi {
			xi++
			e += 2*xi + 1
			if -yi == xi && e2 <= yi {
				e2 = 0
			}
		}
		if e2 > yi {
			yi++
			e += 2*yi + 1
		}
		if yi > 0 {
			break
		}
	}
}

// FillEllipse fills an ellipse with one vertical span per step.
func (d *Display) FillEllipse(x, y, rx, ry int) {
	if rx <= 0 || ry <= 0 {
		return
	}
	xi, yi := 0, -rx
	e := 2 - 2*ry
	k := float32(rx) / float32(ry)
	for {
		v := int(float32(xi) / k)
		d.vline(x+yi, y-v, 2*v+1, d.text)
		d.vline(x-yi, y-v, 2*v+1, d.text)
		e2 := e
		if e2 <= xi {
			xi++
			e += 2*xi + 1
			if -yi == xi && e2 <= yi {
				e2 = 0
			}
		}
		if e2 > yi {
			yi++
			e += 2*yi + 1
		}
		if yi > 0 {
			break
		}
	}
}

// DrawPolygon draws the closed polygon connecting points in order. Fewer
// than two points is a no-op.
func (d *Display) DrawPolygon(points []image.Point) {
	if len(points) < 2 {
		return
	}
	first, last := points[0], points[len(points)-1]
	d.DrawLine(first.X, first.Y, last.X, last.Y)
	for i := 1; i < len(points); i++ {
		d.DrawLine(points[i-1].X, points[i-1].Y, points[i].X, points[i].Y)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
