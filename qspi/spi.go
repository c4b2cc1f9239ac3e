// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package qspi

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// NewSPI returns a Transport that runs single-line command frames over a
// plain SPI port.
//
// Serial NOR flash parts accept their whole command set over classic
// 1-1-1 wiring at reduced bandwidth, so this adapter is enough to program
// and erase a part from any host with an SPI controller. Frames with a dual
// or quad phase, and memory-mapped mode, return ErrUnsupported.
func NewSPI(p spi.Port) (*SPI, error) {
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("qspi: %w", err)
	}
	return &SPI{c: c}, nil
}

// SPI is a single-line Transport over a spi.Conn.
type SPI struct {
	c spi.Conn
}

func (s *SPI) String() string {
	return fmt.Sprintf("qspi.SPI{%s}", s.c)
}

// Tx implements Transport.
func (s *SPI) Tx(c *Command, w, r []byte) error {
	if c.AddressMode > LinesSingle || c.DataMode > LinesSingle {
		return fmt.Errorf("%w: %s frame on single-line wiring", ErrUnsupported, c.DataMode)
	}
	// Dummy cycles translate to whole idle bytes on a single line.
	if c.DummyCycles%8 != 0 {
		return fmt.Errorf("%w: %d dummy cycles is not byte aligned", ErrUnsupported, c.DummyCycles)
	}
	hdr := make([]byte, 0, 1+4+c.DummyCycles/8)
	hdr = append(hdr, c.Instruction)
	if c.AddressMode != LinesNone {
		for i := int(c.AddressSize) - 1; i >= 0; i-- {
			hdr = append(hdr, byte(c.Address>>(8*i)))
		}
	}
	for i := 0; i < c.DummyCycles/8; i++ {
		hdr = append(hdr, 0)
	}
	if r == nil {
		return s.c.Tx(append(hdr, w...), nil)
	}
	// Full duplex: clock out the header plus filler, the payload shows up in
	// the tail of the read buffer.
	tx := make([]byte, len(hdr)+len(r))
	copy(tx, hdr)
	rx := make([]byte, len(tx))
	if err := s.c.Tx(tx, rx); err != nil {
		return err
	}
	copy(r, rx[len(hdr):])
	return nil
}

// MemoryMap implements Transport. Plain SPI controllers have no address
// window to map the flash into.
func (s *SPI) MemoryMap(c *Command) error {
	return fmt.Errorf("%w: memory-mapped mode", ErrUnsupported)
}

var _ Transport = &SPI{}
