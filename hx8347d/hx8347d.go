// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hx8347d controls a Himax HX8347-D TFT panel controller.
//
// The chip drives 240x320 panels and is addressed through a register
// indexed interface reachable over SPI or a 16 bit parallel bus; the Bus
// interface abstracts that. Dev implements lcd.Driver plus the accelerated
// line, window and bitmap capabilities, presenting the panel in landscape.
//
// Datasheet
//
// https://www.displayfuture.com/Display/datasheet/controller/HX8347-D.pdf
package hx8347d

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/stm32eval/drivers/lcd"
)

// Bus is the register level transport to the controller.
type Bus interface {
	// WriteReg writes one indexed register.
	WriteReg(reg, val uint16) error
	// ReadReg reads one indexed register.
	ReadReg(reg uint16) (uint16, error)
	// WriteRAM streams pixel data to display RAM at the current address
	// counter.
	WriteRAM(data []byte) error
}

// Opts holds the panel geometry in landscape orientation.
type Opts struct {
	// Width of the panel in pixels. Defaults to 320.
	Width int
	// Height of the panel in pixels. Defaults to 240.
	Height int
}

// DefaultOpts is for the 3.2 inch 320x240 panels the controller usually
// drives.
var DefaultOpts = Opts{Width: 320, Height: 240}

// New probes the controller, runs the power up sequence and turns the
// display on.
func New(b Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	id, err := b.ReadReg(regID)
	if err != nil {
		return nil, fmt.Errorf("hx8347d: failed to probe: %w", err)
	}
	if id != chipID {
		return nil, fmt.Errorf("hx8347d: unexpected chip ID %#04x", id)
	}
	d := &Dev{bus: b, w: opts.Width, h: opts.Height, sleep: time.Sleep}
	d.run(initSequence)
	d.run(displayOnSequence)
	if d.err != nil {
		return nil, fmt.Errorf("hx8347d: failed to initialize: %w", d.err)
	}
	return d, nil
}

// Dev is an open handle to the panel controller.
//
// Bus errors are latched: after the first failure every drawing call is a
// no-op and Err returns the failure. lcd.Driver drawing methods cannot
// report errors themselves, so check Err at frame boundaries.
type Dev struct {
	bus   Bus
	w, h  int
	sleep func(time.Duration)
	err   error
}

func (d *Dev) String() string {
	return fmt.Sprintf("hx8347d.Dev{%dx%d}", d.w, d.h)
}

// Size implements lcd.Driver. The panel is presented in landscape.
func (d *Dev) Size() (int, int) {
	return d.w, d.h
}

// Err returns the first bus error encountered since the last call, and
// arms the device again.
func (d *Dev) Err() error {
	err := d.err
	d.err = nil
	return err
}

// Halt turns the display off. It implements conn.Resource.
func (d *Dev) Halt() error {
	d.DisplayOff()
	return d.Err()
}

// WritePixel implements lcd.Driver.
func (d *Dev) WritePixel(x, y int, c lcd.Color) {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return
	}
	d.setCursor(x, y)
	var px [2]byte
	binary.LittleEndian.PutUint16(px[:], uint16(c))
	d.writeRAM(px[:])
}

// DrawHLine implements lcd.HLiner by streaming one row of the window.
func (d *Dev) DrawHLine(x, y, length int, c lcd.Color) {
	if length <= 0 {
		return
	}
	d.SetWindow(x, y, length, 1)
	d.writeRAM(fill(c, length))
	d.SetWindow(0, 0, d.w, d.h)
}

// DrawVLine implements lcd.VLiner.
func (d *Dev) DrawVLine(x, y, length int, c lcd.Color) {
	if length <= 0 {
		return
	}
	d.SetWindow(x, y, 1, length)
	d.writeRAM(fill(c, length))
	d.SetWindow(0, 0, d.w, d.h)
}

// SetWindow implements lcd.Windower. Subsequent RAM writes wrap inside the
// given rectangle.
//
// Landscape x maps to the native row address and y to the native column
// address.
func (d *Dev) SetWindow(x, y, width, height int) {
	d.writeReg(regColStartHigh, uint16(y)>>8)
	d.writeReg(regColStartLow, uint16(y)&0xFF)
	d.writeReg(regColEndHigh, uint16(y+height-1)>>8)
	d.writeReg(regColEndLow, uint16(y+height-1)&0xFF)
	d.writeReg(regRowStartHigh, uint16(x)>>8)
	d.writeReg(regRowStartLow, uint16(x)&0xFF)
	d.writeReg(regRowEndHigh, uint16(x+width-1)>>8)
	d.writeReg(regRowEndLow, uint16(x+width-1)&0xFF)
}

// DrawBitmap implements lcd.BitmapDrawer, streaming a bottom-up 16bpp BMP
// payload in one transfer.
//
// The native scan direction runs against the requested orientation, so the
// window is re-anchored mirrored around y before streaming; the bottom-up
// row order of the image then comes out upright.
func (d *Dev) DrawBitmap(x, y int, bmp []byte) {
	if len(bmp) < 54 {
		return
	}
	w := int(binary.LittleEndian.Uint16(bmp[18:])) |
		int(binary.LittleEndian.Uint16(bmp[20:]))<<16
	h := int(binary.LittleEndian.Uint16(bmp[22:])) |
		int(binary.LittleEndian.Uint16(bmp[24:]))<<16
	off := int(binary.LittleEndian.Uint32(bmp[10:]))
	if w <= 0 || h <= 0 || off < 54 || len(bmp) < off+w*h*2 {
		return
	}
	d.SetWindow(x, d.h-y-h, w, h)
	d.writeRAM(bmp[off : off+w*h*2])
}

// DisplayOn implements lcd.Driver.
func (d *Dev) DisplayOn() {
	d.run(displayOnSequence)
}

// DisplayOff implements lcd.Driver.
func (d *Dev) DisplayOff() {
	d.run(displayOffSequence)
}

func (d *Dev) setCursor(x, y int) {
	d.writeReg(regColStartHigh, uint16(y)>>8)
	d.writeReg(regColStartLow, uint16(y)&0xFF)
	d.writeReg(regRowStartHigh, uint16(x)>>8)
	d.writeReg(regRowStartLow, uint16(x)&0xFF)
}

func (d *Dev) run(seq []regVal) {
	for _, s := range seq {
		d.writeReg(s.reg, s.val)
		if s.delay != 0 && d.err == nil {
			d.sleep(s.delay)
		}
	}
}

func (d *Dev) writeReg(reg, val uint16) {
	if d.err != nil {
		return
	}
	d.err = d.bus.WriteReg(reg, val)
}

func (d *Dev) writeRAM(data []byte) {
	if d.err != nil {
		return
	}
	d.err = d.bus.WriteRAM(data)
}

func fill(c lcd.Color, n int) []byte {
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(c))
	}
	return buf
}

var _ lcd.Driver = &Dev{}
var _ lcd.HLiner = &Dev{}
var _ lcd.VLiner = &Dev{}
var _ lcd.Windower = &Dev{}
var _ lcd.BitmapDrawer = &Dev{}
