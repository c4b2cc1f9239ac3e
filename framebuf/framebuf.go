// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package framebuf implements an in-memory RGB565 framebuffer that acts as
// a full featured lcd.Driver.
//
// Useful while you are waiting for your panel to come by mail: animations
// render into ordinary memory, convert to image.Image for assertions, and
// preview in the terminal using ANSI color codes.
package framebuf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"github.com/stm32eval/drivers/lcd"
)

// Opts represents the options available for this framebuffer.
type Opts struct {
	Width   int
	Height  int
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultOpts matches the geometry of the panels the lcd package usually
// drives.
var DefaultOpts = Opts{Width: 320, Height: 240}

// Dev is a panel emulator backed by plain memory.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	width   int
	height  int
	pix     []lcd.Color
	clip    image.Rectangle
	on      bool
	buf     bytes.Buffer
}

// New returns a Dev holding a width x height framebuffer.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:       colorable.NewColorableStdout(),
		palette: *p,
		width:   opts.Width,
		height:  opts.Height,
		pix:     make([]lcd.Color, opts.Width*opts.Height),
		clip:    image.Rect(0, 0, opts.Width, opts.Height),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("framebuf.Dev{%dx%d}", d.width, d.height)
}

// Size implements lcd.Driver.
func (d *Dev) Size() (int, int) {
	return d.width, d.height
}

// WritePixel implements lcd.Driver. Writes outside the active window are
// dropped, like a panel clipping in hardware.
func (d *Dev) WritePixel(x, y int, c lcd.Color) {
	if !(image.Point{X: x, Y: y}).In(d.clip) {
		return
	}
	d.pix[y*d.width+x] = c
}

// ReadPixel implements lcd.PixelReader.
func (d *Dev) ReadPixel(x, y int) lcd.Color {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return 0
	}
	return d.pix[y*d.width+x]
}

// DrawHLine implements lcd.HLiner.
func (d *Dev) DrawHLine(x, y, length int, c lcd.Color) {
	for i := 0; i < length; i++ {
		d.WritePixel(x+i, y, c)
	}
}

// DrawVLine implements lcd.VLiner.
func (d *Dev) DrawVLine(x, y, length int, c lcd.Color) {
	for i := 0; i < length; i++ {
		d.WritePixel(x, y+i, c)
	}
}

// SetWindow implements lcd.Windower by clipping subsequent writes to the
// rectangle.
func (d *Dev) SetWindow(x, y, width, height int) {
	d.clip = image.Rect(x, y, x+width, y+height).Intersect(image.Rect(0, 0, d.width, d.height))
}

// DrawBitmap implements lcd.BitmapDrawer, decoding a bottom-up 16bpp BMP
// payload.
func (d *Dev) DrawBitmap(x, y int, bmp []byte) {
	if len(bmp) < 54 {
		return
	}
	w := int(uint32(bmp[18]) | uint32(bmp[19])<<8 | uint32(bmp[20])<<16 | uint32(bmp[21])<<24)
	h := int(uint32(bmp[22]) | uint32(bmp[23])<<8 | uint32(bmp[24])<<16 | uint32(bmp[25])<<24)
	off := int(uint32(bmp[10]) | uint32(bmp[11])<<8 | uint32(bmp[12])<<16 | uint32(bmp[13])<<24)
	if w <= 0 || h <= 0 || off < 54 || len(bmp) < off+w*h*2 {
		return
	}
	data := bmp[off:]
	for row := 0; row < h; row++ {
		sy := y + h - row - 1
		for col := 0; col < w; col++ {
			i := (row*w + col) * 2
			d.WritePixel(x+col, sy, lcd.Color(uint16(data[i])|uint16(data[i+1])<<8))
		}
	}
}

// DisplayOn implements lcd.Driver.
func (d *Dev) DisplayOn() {
	d.on = true
}

// DisplayOff implements lcd.Driver.
func (d *Dev) DisplayOff() {
	d.on = false
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes and blanks the display.
func (d *Dev) Halt() error {
	d.DisplayOff()
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Image returns a copy of the framebuffer contents.
func (d *Dev) Image() *image.NRGBA {
	img := image.NewNRGBA(d.Bounds())
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			r, g, b, _ := d.pix[y*d.width+x].RGBA()
			i := img.PixOffset(x, y)
			img.Pix[i] = byte(r >> 8)
			img.Pix[i+1] = byte(g >> 8)
			img.Pix[i+2] = byte(b >> 8)
			img.Pix[i+3] = 255
		}
	}
	return img
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return lcd.ColorModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Draw implements display.Drawer, converting src to RGB565.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	for y := 0; y < r.Dy() && y < srcR.Dy(); y++ {
		for x := 0; x < r.Dx() && x < srcR.Dx(); x++ {
			c := lcd.ColorModel.Convert(src.At(srcR.Min.X+x, srcR.Min.Y+y)).(lcd.Color)
			d.WritePixel(r.Min.X+x, r.Min.Y+y, c)
		}
	}
	return nil
}

// Preview writes the framebuffer to the terminal as ANSI color blocks,
// sampling every step pixels. A step below 1 is treated as 1.
func (d *Dev) Preview(step int) error {
	if step < 1 {
		step = 1
	}
	// One big write keeps the output from tearing in the terminal.
	d.buf.Reset()
	for y := 0; y < d.height; y += step {
		_, _ = d.buf.WriteString("\033[0m")
		for x := 0; x < d.width; x += step {
			r, g, b, _ := d.pix[y*d.width+x].RGBA()
			c := color.NRGBA{R: byte(r >> 8), G: byte(g >> 8), B: byte(b >> 8), A: 255}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ lcd.Driver = &Dev{}
var _ lcd.HLiner = &Dev{}
var _ lcd.VLiner = &Dev{}
var _ lcd.Windower = &Dev{}
var _ lcd.BitmapDrawer = &Dev{}
var _ lcd.PixelReader = &Dev{}
var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
