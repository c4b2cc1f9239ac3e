// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package qspi defines the command and data transport consumed by quad SPI
// NOR flash drivers.
//
// A quad SPI controller exchanges fixed command frames with the attached
// memory: an instruction opcode, an optional address, a number of dummy
// clock cycles and an optional data phase, each phase running over one or
// four data lines. Transport abstracts that controller so flash drivers can
// be exercised against a real peripheral, a plain SPI port (see NewSPI) or a
// test fake (see the qspitest subpackage).
package qspi

import (
	"errors"
	"fmt"
	"time"
)

// LineMode is the number of data lines a frame phase is clocked over.
type LineMode uint8

const (
	// LinesNone skips the phase entirely.
	LinesNone LineMode = iota
	// LinesSingle clocks the phase over a single line (classic SPI).
	LinesSingle
	// LinesDual clocks the phase over two lines.
	LinesDual
	// LinesQuad clocks the phase over four lines.
	LinesQuad
)

func (l LineMode) String() string {
	switch l {
	case LinesNone:
		return "none"
	case LinesSingle:
		return "1-line"
	case LinesDual:
		return "2-line"
	case LinesQuad:
		return "4-line"
	}
	return fmt.Sprintf("LineMode(%d)", uint8(l))
}

// AddressSize is the width of the address phase.
type AddressSize uint8

const (
	// Addr24 sends a 24 bit address, the power-on default of most parts.
	Addr24 AddressSize = 3
	// Addr32 sends a 32 bit address, required to reach past 16MiB.
	Addr32 AddressSize = 4
)

// Command describes a single command frame. A frame is built fresh for every
// transaction and never reused.
type Command struct {
	// Instruction is the command opcode, always sent over a single line.
	Instruction byte
	// AddressMode selects the lines of the address phase, LinesNone to skip
	// the address entirely.
	AddressMode LineMode
	// AddressSize is the width of the address phase.
	AddressSize AddressSize
	// Address is sent most significant byte first.
	Address uint32
	// DataMode selects the lines of the data phase, LinesNone when the frame
	// carries no payload.
	DataMode LineMode
	// DummyCycles is the number of turnaround clock cycles between the
	// address and data phases.
	DummyCycles int
}

// PollConfig parameterizes a status register busy-wait: the register is
// sampled repeatedly and the wait stops on the first sample where
// value&Mask == Match.
type PollConfig struct {
	Mask     byte
	Match    byte
	Interval time.Duration
}

// Transport is the exchange primitive offered by a quad SPI controller.
//
// Implementations are not safe for concurrent use; callers own the bus for
// the duration of an operation sequence.
type Transport interface {
	// Tx issues one command frame followed by its data phase. w is
	// transmitted after the frame, or r is filled from the bus; at most one
	// of the two may be non-nil. A frame with no data phase passes nil for
	// both.
	Tx(c *Command, w, r []byte) error
	// MemoryMap places the controller in memory-mapped mode using c as the
	// read frame. Once mapped, reads bypass this interface entirely; the
	// transport stays mapped until reset.
	MemoryMap(c *Command) error
}

// Poller is implemented by transports with hardware status polling, such as
// the STM32 QUADSPI peripheral. The controller samples the register
// described by c on its own and releases the caller on match or timeout.
//
// Drivers fall back to a software polling loop when the transport does not
// implement Poller.
type Poller interface {
	Poll(c *Command, cfg *PollConfig, timeout time.Duration) error
}

var (
	// ErrTimeout is returned when a poll deadline expires without the status
	// predicate matching.
	ErrTimeout = errors.New("qspi: timeout")
	// ErrUnsupported is returned by transports that cannot execute the
	// requested frame, for example a quad data phase on plain SPI wiring.
	ErrUnsupported = errors.New("qspi: unsupported operation")
)
