// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import (
	"fmt"
	"image/color"
)

// Color is a pixel value in RGB 5-6-5 encoding, the native format of the
// supported panels.
type Color uint16

// Common panel colors.
const (
	Black   Color = 0x0000
	Blue    Color = 0x001F
	Green   Color = 0x07E0
	Cyan    Color = 0x07FF
	Red     Color = 0xF800
	Magenta Color = 0xF81F
	Yellow  Color = 0xFFE0
	White   Color = 0xFFFF
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c>>11&0x1F) * 0xFFFF / 0x1F
	g = uint32(c>>5&0x3F) * 0xFFFF / 0x3F
	b = uint32(c&0x1F) * 0xFFFF / 0x1F
	a = 0xFFFF
	return
}

// ColorModel converts any color.Color to the nearest RGB565 value.
var ColorModel color.Model = color.ModelFunc(func(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return Color(r>>11<<11 | g>>10<<5 | b>>11)
})

// Driver is the display backend a Display renders onto. It is the minimum a
// panel driver must offer; everything else is rasterized pixel by pixel.
//
// Coordinate validation is the driver's business: panels clip out-of-range
// writes in hardware, so the drawing layer does not range-check.
type Driver interface {
	// Size returns the panel dimensions in pixels.
	Size() (width, height int)
	// WritePixel sets one pixel.
	WritePixel(x, y int, c Color)
	// DisplayOn enables the panel output.
	DisplayOn()
	// DisplayOff disables the panel output.
	DisplayOff()
}

// Optional Driver capabilities. A driver advertises an accelerated
// primitive by implementing the corresponding interface; the drawing layer
// falls back to WritePixel loops otherwise.
type (
	// HLiner draws horizontal lines in hardware.
	HLiner interface {
		DrawHLine(x, y, length int, c Color)
	}
	// VLiner draws vertical lines in hardware.
	VLiner interface {
		DrawVLine(x, y, length int, c Color)
	}
	// Windower restricts RAM writes to a rectangle of the panel.
	Windower interface {
		SetWindow(x, y, width, height int)
	}
	// BitmapDrawer blits bitmap pixel data in hardware.
	BitmapDrawer interface {
		DrawBitmap(x, y int, bmp []byte)
	}
	// PixelReader reads back panel RAM.
	PixelReader interface {
		ReadPixel(x, y int) Color
	}
)

// Opts defines the initial drawing state of a Display.
type Opts struct {
	TextColor Color
	BackColor Color
	// Font is the initial text font. Nil selects DefaultFont.
	Font *Font
}

// DefaultOpts is the recommended default options: black text on white.
var DefaultOpts = Opts{
	TextColor: Black,
	BackColor: White,
}

// Display renders shapes and text onto a Driver.
//
// It owns the mutable drawing state (colors, font) previous generations of
// this layer kept in globals; independent surfaces get independent state by
// giving each its own Display. A Display is not safe for concurrent use.
type Display struct {
	drv  Driver
	text Color
	back Color
	font *Font

	// Scratch bitmap reused by DisplayChar, sized to the current font.
	glyph []byte
}

// New returns a Display drawing onto drv.
func New(drv Driver, opts *Opts) *Display {
	if opts == nil {
		opts = &DefaultOpts
	}
	f := opts.Font
	if f == nil {
		f = DefaultFont
	}
	return &Display{drv: drv, text: opts.TextColor, back: opts.BackColor, font: f}
}

func (d *Display) String() string {
	w, h := d.drv.Size()
	return fmt.Sprintf("lcd.Display{%dx%d}", w, h)
}

// Width returns the panel width in pixels.
func (d *Display) Width() int {
	w, _ := d.drv.Size()
	return w
}

// Height returns the panel height in pixels.
func (d *Display) Height() int {
	_, h := d.drv.Size()
	return h
}

// SetTextColor sets the color drawing primitives and text render with.
func (d *Display) SetTextColor(c Color) {
	d.text = c
}

// TextColor returns the current drawing color.
func (d *Display) TextColor() Color {
	return d.text
}

// SetBackColor sets the color used behind text and by ClearStringLine.
func (d *Display) SetBackColor(c Color) {
	d.back = c
}

// BackColor returns the current background color.
func (d *Display) BackColor() Color {
	return d.back
}

// SetFont sets the text font.
func (d *Display) SetFont(f *Font) {
	if f != nil {
		d.font = f
		d.glyph = nil
	}
}

// Font returns the active text font.
func (d *Display) Font() *Font {
	return d.font
}

// DisplayOn enables the panel output.
func (d *Display) DisplayOn() {
	d.drv.DisplayOn()
}

// DisplayOff disables the panel output.
func (d *Display) DisplayOff() {
	d.drv.DisplayOff()
}

// Clear fills the whole panel with c. The drawing color is left untouched.
func (d *Display) Clear(c Color) {
	w, h := d.drv.Size()
	for y := 0; y < h; y++ {
		d.hline(0, y, w, c)
	}
}

// ReadPixel reads back one pixel when the driver supports it, zero
// otherwise.
func (d *Display) ReadPixel(x, y int) Color {
	if pr, ok := d.drv.(PixelReader); ok {
		return pr.ReadPixel(x, y)
	}
	return 0
}

var _ color.Color = Color(0)
