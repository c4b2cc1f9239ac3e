// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyphs cover the printable ASCII range ' ' through '~'.
const glyphCount = 95

// Font is a fixed-cell bitmap font. Each glyph is Height rows of
// (Width+7)/8 bytes, most significant bit leftmost, rows top to bottom,
// glyphs ordered from ' '.
type Font struct {
	Width  int
	Height int
	Table  []byte
}

func (f *Font) bytesPerRow() int {
	return (f.Width + 7) / 8
}

// glyph returns the rows of one character. Characters outside the printable
// ASCII range render as space.
func (f *Font) glyph(ascii byte) []byte {
	if ascii < ' ' || ascii > '~' {
		ascii = ' '
	}
	n := f.Height * f.bytesPerRow()
	off := int(ascii-' ') * n
	return f.Table[off : off+n]
}

// FontFromFace rasterizes the printable ASCII glyphs of a fixed-width
// font.Face into a bitmap Font. The cell is sized from the face metrics and
// the advance of 'M'; proportional faces come out clipped.
func FontFromFace(face font.Face) *Font {
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()
	adv, _ := face.GlyphAdvance('M')
	width := adv.Ceil()

	f := &Font{Width: width, Height: height}
	bpr := f.bytesPerRow()
	f.Table = make([]byte, glyphCount*height*bpr)
	for i := 0; i < glyphCount; i++ {
		dr, mask, maskp, _, ok := face.Glyph(fixed.P(0, ascent), rune(' '+i))
		if !ok {
			continue
		}
		off := i * height * bpr
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if !(image.Point{X: x, Y: y}).In(dr) {
					continue
				}
				_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
				if a >= 0x8000 {
					f.Table[off+y*bpr+x/8] |= 0x80 >> (x % 8)
				}
			}
		}
	}
	return f
}

// DefaultFont is the font a new Display starts with.
var DefaultFont = FontFromFace(basicfont.Face7x13)
