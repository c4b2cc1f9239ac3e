// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hx8347d

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Serial frames open with a start byte selecting index or data access.
const (
	startWriteIndex = 0x70
	startWriteData  = 0x72
	startReadData   = 0x73
)

// NewSPI returns a Bus speaking the controller's serial protocol on p.
//
// Every chip select assertion carries a start byte, so each Bus call maps
// to one or two transactions.
func NewSPI(p spi.Port) (Bus, error) {
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("hx8347d: failed to connect: %w", err)
	}
	return &spiBus{c: c}, nil
}

type spiBus struct {
	c spi.Conn
}

func (s *spiBus) WriteReg(reg, val uint16) error {
	if err := s.setIndex(reg); err != nil {
		return err
	}
	return s.c.Tx([]byte{startWriteData, byte(val >> 8), byte(val)}, nil)
}

func (s *spiBus) ReadReg(reg uint16) (uint16, error) {
	if err := s.setIndex(reg); err != nil {
		return 0, err
	}
	// The first data byte clocked out is a dummy turnaround byte.
	rx := make([]byte, 4)
	if err := s.c.Tx([]byte{startReadData, 0, 0, 0}, rx); err != nil {
		return 0, err
	}
	return uint16(rx[2])<<8 | uint16(rx[3]), nil
}

func (s *spiBus) WriteRAM(data []byte) error {
	if err := s.setIndex(regMemoryWrite); err != nil {
		return err
	}
	// The address counter survives chip select, so large frames can go out
	// in bus sized chunks, each opened by a fresh start byte.
	const chunk = 4096
	buf := make([]byte, 0, chunk+1)
	for len(data) > 0 {
		n := len(data)
		if n > chunk {
			n = chunk
		}
		buf = append(buf[:0], startWriteData)
		buf = append(buf, data[:n]...)
		if err := s.c.Tx(buf, nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

func (s *spiBus) setIndex(reg uint16) error {
	return s.c.Tx([]byte{startWriteIndex, byte(reg >> 8), byte(reg)}, nil)
}
