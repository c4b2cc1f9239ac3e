// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hx8347d

import "time"

// Register index constants.
const (
	regID = 0x00 // Himax ID, reads 0x0047

	regColStartHigh = 0x02
	regColStartLow  = 0x03
	regColEndHigh   = 0x04
	regColEndLow    = 0x05
	regRowStartHigh = 0x06
	regRowStartLow  = 0x07
	regRowEndHigh   = 0x08
	regRowEndLow    = 0x09

	regColorMode    = 0x17 // 0x05 selects 16 bits per pixel
	regOscCtrl1     = 0x18
	regOscCtrl2     = 0x19
	regPowerCtrl1   = 0x1A
	regPowerCtrl2   = 0x1B
	regPowerCtrl6   = 0x1F
	regVCOMCtrl1    = 0x23
	regVCOMCtrl2    = 0x24
	regVCOMCtrl3    = 0x25
	regMemoryWrite  = 0x22
	regDisplayCtrl3 = 0x28
	regPanelCtrl    = 0x36
)

const chipID = 0x0047

// regVal is one step of the power up sequence. A non zero delay is waited
// after the write.
type regVal struct {
	reg   uint16
	val   uint16
	delay time.Duration
}

// initSequence is the panel bring up from the Himax application note:
// driving ability, gamma curve, power supply, then oscillator start.
// Display on is issued separately so DisplayOff can reuse the sequence tail.
var initSequence = []regVal{
	// Driving ability.
	{0xEA, 0x00, 0},
	{0xEB, 0x20, 0},
	{0xEC, 0x0C, 0},
	{0xED, 0xC4, 0},
	{0xE8, 0x40, 0},
	{0xE9, 0x38, 0},
	{0xF1, 0x01, 0},
	{0xF2, 0x10, 0},
	{0x27, 0xA3, 0},
	// Gamma curve.
	{0x40, 0x01, 0},
	{0x41, 0x00, 0},
	{0x42, 0x00, 0},
	{0x43, 0x10, 0},
	{0x44, 0x0E, 0},
	{0x45, 0x24, 0},
	{0x46, 0x04, 0},
	{0x47, 0x50, 0},
	{0x48, 0x02, 0},
	{0x49, 0x13, 0},
	{0x4A, 0x19, 0},
	{0x4B, 0x19, 0},
	{0x4C, 0x16, 0},
	{0x50, 0x1B, 0},
	{0x51, 0x31, 0},
	{0x52, 0x2F, 0},
	{0x53, 0x3F, 0},
	{0x54, 0x3F, 0},
	{0x55, 0x3E, 0},
	{0x56, 0x2F, 0},
	{0x57, 0x7B, 0},
	{0x58, 0x09, 0},
	{0x59, 0x06, 0},
	{0x5A, 0x06, 0},
	{0x5B, 0x0C, 0},
	{0x5C, 0x1D, 0},
	{0x5F, 0x08, 0},
	// Power supply.
	{regPowerCtrl2, 0x1B, 0},
	{regPowerCtrl1, 0x01, 0},
	{regVCOMCtrl2, 0x2F, 0},
	{regVCOMCtrl3, 0x57, 0},
	{regVCOMCtrl1, 0x8D, 0},
	// Oscillator and power on, stepping VCOMG last.
	{regOscCtrl1, 0x36, 0},
	{regOscCtrl2, 0x01, 0},
	{0x01, 0x00, 0},
	{regPowerCtrl6, 0x88, 5 * time.Millisecond},
	{regPowerCtrl6, 0x80, 5 * time.Millisecond},
	{regPowerCtrl6, 0x90, 5 * time.Millisecond},
	{regPowerCtrl6, 0xD0, 5 * time.Millisecond},
	// 16bpp, BGR panel order.
	{regColorMode, 0x05, 0},
	{regPanelCtrl, 0x09, 0},
}

// displayOnSequence ramps the gate driver before enabling output.
var displayOnSequence = []regVal{
	{regDisplayCtrl3, 0x38, 40 * time.Millisecond},
	{regDisplayCtrl3, 0x3C, 0},
}

// displayOffSequence is the reverse ramp.
var displayOffSequence = []regVal{
	{regDisplayCtrl3, 0x38, 40 * time.Millisecond},
	{regDisplayCtrl3, 0x04, 0},
}
