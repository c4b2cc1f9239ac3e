// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import "encoding/binary"

// Alignment selects how DisplayStringAt positions a string on its line.
type Alignment int

const (
	// AlignLeft starts the string at the given x position.
	AlignLeft Alignment = iota
	// AlignCenter centers the string on the line, offset by x.
	AlignCenter
	// AlignRight ends the string at the right edge, offset by x.
	AlignRight
)

// bmpHeaderLen is the byte offset of the pixel data in the scratch bitmap
// DisplayChar renders glyphs into.
const bmpHeaderLen = 54

// DisplayChar draws one character at pixel position x, y using the current
// font and colors. Characters outside the printable ASCII range render as
// space.
func (d *Display) DisplayChar(x, y int, ascii byte) {
	f := d.font
	w, h := f.Width, f.Height
	if len(d.glyph) != bmpHeaderLen+w*h*2 {
		d.glyph = make([]byte, bmpHeaderLen+w*h*2)
		d.glyph[0] = 'B'
		d.glyph[1] = 'M'
		binary.LittleEndian.PutUint32(d.glyph[2:], uint32(bmpHeaderLen+w*h*2))
		binary.LittleEndian.PutUint32(d.glyph[10:], bmpHeaderLen)
		binary.LittleEndian.PutUint32(d.glyph[18:], uint32(w))
		binary.LittleEndian.PutUint32(d.glyph[22:], uint32(h))
	}
	rows := f.glyph(ascii)
	bpr := f.bytesPerRow()
	for gy := 0; gy < h; gy++ {
		row := rows[gy*bpr:]
		for gx := 0; gx < w; gx++ {
			c := d.back
			if row[gx/8]&(0x80>>(gx%8)) != 0 {
				c = d.text
			}
			// Bitmap rows are stored bottom to top.
			off := bmpHeaderLen + ((h-gy-1)*w+gx)*2
			binary.LittleEndian.PutUint16(d.glyph[off:], uint16(c))
		}
	}
	d.DrawBitmap(x, y, d.glyph)
}

// DisplayStringAt draws s starting at line pixel y, horizontally placed
// according to align. Characters that would overflow the right edge are
// dropped.
func (d *Display) DisplayStringAt(x, y int, s string, align Alignment) {
	fw := d.font.Width
	cols := d.Width() / fw
	switch align {
	case AlignCenter:
		x += ((cols - len(s)) * fw) / 2
	case AlignRight:
		x += (cols - len(s)) * fw
	}
	for i := 0; i < len(s) && i < cols; i++ {
		d.DisplayChar(x, y, s[i])
		x += fw
	}
}

// DisplayStringAtLine draws s left aligned on text line n. Lines are
// font-height pixels tall, counted from the top.
func (d *Display) DisplayStringAtLine(n int, s string) {
	d.DisplayStringAt(0, n*d.font.Height, s, AlignLeft)
}

// ClearStringLine paints text line n with the background color.
func (d *Display) ClearStringLine(n int) {
	d.fillRect(0, n*d.font.Height, d.Width(), d.font.Height, d.back)
}
