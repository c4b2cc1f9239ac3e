// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import "encoding/binary"

// DrawBitmap draws an uncompressed 16 bit per pixel BMP image with its top
// left corner at x, y. The image dimensions are read from the BMP header;
// pixel rows are stored bottom to top as the format requires.
//
// Drivers implementing BitmapDrawer receive the raw image for a single
// streamed transfer, bracketed by SetWindow calls when the driver also
// implements Windower. Other drivers get a per-pixel fallback.
func (d *Display) DrawBitmap(x, y int, bmp []byte) {
	if len(bmp) < bmpHeaderLen {
		return
	}
	// Width and height are 32 bit fields read as two 16 bit halves to
	// avoid unaligned access on the original flash-resident images.
	w := int(binary.LittleEndian.Uint16(bmp[18:])) |
		int(binary.LittleEndian.Uint16(bmp[20:]))<<16
	h := int(binary.LittleEndian.Uint16(bmp[22:])) |
		int(binary.LittleEndian.Uint16(bmp[24:]))<<16
	if w <= 0 || h <= 0 {
		return
	}

	if bd, ok := d.drv.(BitmapDrawer); ok {
		win, windowed := d.drv.(Windower)
		if windowed {
			win.SetWindow(x, y, w, h)
		}
		bd.DrawBitmap(x, y, bmp)
		if windowed {
			pw, ph := d.drv.Size()
			win.SetWindow(0, 0, pw, ph)
		}
		return
	}

	off := int(binary.LittleEndian.Uint32(bmp[10:]))
	if off < bmpHeaderLen || len(bmp) < off+w*h*2 {
		return
	}
	data := bmp[off:]
	for row := 0; row < h; row++ {
		// Bottom-up storage: the first stored row is the lowest on screen.
		sy := y + h - row - 1
		for col := 0; col < w; col++ {
			c := binary.LittleEndian.Uint16(data[(row*w+col)*2:])
			d.drv.WritePixel(x+col, sy, Color(c))
		}
	}
}
