// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stmpe811 provides a driver for the ST STMPE811 I2C port expander.
//
// The device combines an 8 bit GPIO port with a resistive touchscreen
// controller sharing the same pins. This driver exposes the GPIO port; on
// reset every pin is routed to the GPIO block and the touch controller
// clocks stay gated.
//
// Unlike quasi-bidirectional expanders the STMPE811 has a real direction
// register plus separate set and clear registers, so pin writes never
// disturb neighbouring pins.
//
// # Datasheet
//
// https://www.st.com/resource/en/datasheet/stmpe811.pdf
package stmpe811

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
)

// Register map.
const (
	regChipID   = 0x00 // 16 bit, reads 0x0811
	regIDVer    = 0x02
	regSysCtrl1 = 0x03
	regSysCtrl2 = 0x04
	regIntCtrl  = 0x09
	regIntEn    = 0x0A
	regIntSta   = 0x0B

	regGPIOSet    = 0x10
	regGPIOClr    = 0x11
	regGPIOState  = 0x12
	regGPIODir    = 0x13
	regGPIOEdge   = 0x14
	regGPIORising = 0x15
	regGPIOFall   = 0x16
	regGPIOAltFn  = 0x17
)

// regSysCtrl1 bits.
const (
	ctrlSoftReset = 0x02
	ctrlHibernate = 0x01
)

// regSysCtrl2 clock gates, set to stop the block.
const (
	clockADCOff  = 0x01
	clockTSCOff  = 0x02
	clockGPIOOff = 0x04
	clockTSOff   = 0x08
)

const chipID = 0x0811

// DefaultAddress is the device address with the ADDR0 pin low.
const DefaultAddress uint16 = 0x41

// ErrNotImplemented is returned for capabilities the chip does not have.
var ErrNotImplemented = errors.New("stmpe811: not implemented")

// Dev is a handle to an STMPE811 with its GPIO port enabled.
type Dev struct {
	// Pins are the 8 expander pins, also registered with gpioreg as
	// "STMPE811_<addr>_GPIO<n>".
	Pins []gpio.PinIO

	mu    sync.Mutex
	d     *i2c.Dev
	dir   uint8 // bit set = output
	sleep func(time.Duration)
}

// New probes the expander, soft resets it and routes all pins to GPIO.
func New(bus i2c.Bus, address uint16) (*Dev, error) {
	dev := &Dev{d: &i2c.Dev{Bus: bus, Addr: address}, sleep: time.Sleep}
	id, err := dev.readReg16(regChipID)
	if err != nil {
		return nil, fmt.Errorf("stmpe811: failed to probe: %w", err)
	}
	if id != chipID {
		return nil, fmt.Errorf("stmpe811: unexpected chip ID %#04x", id)
	}
	if err := dev.init(); err != nil {
		return nil, fmt.Errorf("stmpe811: failed to initialize: %w", err)
	}
	sDev := dev.String()
	dev.Pins = make([]gpio.PinIO, 8)
	for i := range dev.Pins {
		p := &expanderPin{dev: dev, number: i, name: fmt.Sprintf("%s_GPIO%d", sDev, i)}
		dev.Pins[i] = p
		_ = gpioreg.Register(p)
	}
	return dev, nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("STMPE811_%x", dev.d.Addr)
}

// Halt hibernates the chip and unregisters its pins.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	for _, p := range dev.Pins {
		_ = gpioreg.Unregister(p.Name())
	}
	dev.Pins = nil
	return dev.writeReg(regSysCtrl1, ctrlHibernate)
}

func (dev *Dev) init() error {
	if err := dev.writeReg(regSysCtrl1, ctrlSoftReset); err != nil {
		return err
	}
	dev.sleep(10 * time.Millisecond)
	if err := dev.writeReg(regSysCtrl1, 0x00); err != nil {
		return err
	}
	dev.sleep(2 * time.Millisecond)
	// Gate everything but the GPIO block.
	if err := dev.writeReg(regSysCtrl2, clockADCOff|clockTSCOff|clockTSOff); err != nil {
		return err
	}
	// Route every pin away from the touch controller.
	if err := dev.writeReg(regGPIOAltFn, 0xFF); err != nil {
		return err
	}
	// All inputs until a pin says otherwise.
	return dev.writeReg(regGPIODir, 0x00)
}

// setDirection flips one pin between input and output.
func (dev *Dev) setDirection(number int, output bool) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dir := dev.dir
	if output {
		dir |= 1 << number
	} else {
		dir &^= 1 << number
	}
	if dir == dev.dir {
		return nil
	}
	if err := dev.writeReg(regGPIODir, dir); err != nil {
		return fmt.Errorf("stmpe811: %w", err)
	}
	dev.dir = dir
	return nil
}

// out drives one output pin through the set or clear register.
func (dev *Dev) out(number int, l gpio.Level) error {
	reg := uint8(regGPIOClr)
	if l {
		reg = regGPIOSet
	}
	if err := dev.writeReg(reg, 1<<number); err != nil {
		return fmt.Errorf("stmpe811: %w", err)
	}
	return nil
}

// read samples the whole port.
func (dev *Dev) read() (uint8, error) {
	v, err := dev.readReg(regGPIOState)
	if err != nil {
		return 0, fmt.Errorf("stmpe811: %w", err)
	}
	return v, nil
}

// setEdge configures edge detection for one pin.
func (dev *Dev) setEdge(number int, edge gpio.Edge) error {
	mask := uint8(1) << number
	rising, err := dev.readReg(regGPIORising)
	if err != nil {
		return fmt.Errorf("stmpe811: %w", err)
	}
	falling, err := dev.readReg(regGPIOFall)
	if err != nil {
		return fmt.Errorf("stmpe811: %w", err)
	}
	rising &^= mask
	falling &^= mask
	switch edge {
	case gpio.RisingEdge:
		rising |= mask
	case gpio.FallingEdge:
		falling |= mask
	case gpio.BothEdges:
		rising |= mask
		falling |= mask
	}
	if err := dev.writeReg(regGPIORising, rising); err != nil {
		return fmt.Errorf("stmpe811: %w", err)
	}
	if err := dev.writeReg(regGPIOFall, falling); err != nil {
		return fmt.Errorf("stmpe811: %w", err)
	}
	return nil
}

func (dev *Dev) readReg(reg uint8) (uint8, error) {
	var r [1]byte
	if err := dev.d.Tx([]byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (dev *Dev) readReg16(reg uint8) (uint16, error) {
	var r [2]byte
	if err := dev.d.Tx([]byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return uint16(r[0])<<8 | uint16(r[1]), nil
}

func (dev *Dev) writeReg(reg, val uint8) error {
	return dev.d.Tx([]byte{reg, val}, nil)
}
