// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package qspitest is meant to be used to test drivers over a fake quad SPI
// transport.
package qspitest

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/stm32eval/drivers/qspi"
)

// IO registers one command frame and its data phase.
type IO struct {
	// Cmd is the expected frame.
	Cmd qspi.Command
	// W is the expected transmit payload, nil when the frame carries none.
	W []byte
	// R is returned to the caller's receive buffer.
	R []byte
	// MemoryMap is set when the frame is expected through
	// Transport.MemoryMap instead of Tx.
	MemoryMap bool
}

// Playback implements qspi.Transport and plays back a recorded transcript,
// failing on any divergence.
type Playback struct {
	sync.Mutex
	Ops   []IO
	Count int
}

func (p *Playback) String() string {
	return "playback"
}

// Close verifies that all the expected frames were consumed.
func (p *Playback) Close() error {
	p.Lock()
	defer p.Unlock()
	if p.Count != len(p.Ops) {
		return fmt.Errorf("qspitest: expected %d frames, got %d", len(p.Ops), p.Count)
	}
	return nil
}

// Tx implements qspi.Transport.
func (p *Playback) Tx(c *qspi.Command, w, r []byte) error {
	p.Lock()
	defer p.Unlock()
	if p.Count >= len(p.Ops) {
		return fmt.Errorf("qspitest: unexpected frame %#v", *c)
	}
	op := p.Ops[p.Count]
	p.Count++
	if op.MemoryMap {
		return fmt.Errorf("qspitest: frame #%d expected via MemoryMap, got Tx", p.Count-1)
	}
	if *c != op.Cmd {
		return fmt.Errorf("qspitest: unexpected frame #%d %#v, expected %#v", p.Count-1, *c, op.Cmd)
	}
	if !bytes.Equal(op.W, w) {
		return fmt.Errorf("qspitest: unexpected write %#v, expected %#v", w, op.W)
	}
	if len(op.R) != len(r) {
		return fmt.Errorf("qspitest: unexpected read buffer length %d, expected %d", len(r), len(op.R))
	}
	copy(r, op.R)
	return nil
}

// MemoryMap implements qspi.Transport.
func (p *Playback) MemoryMap(c *qspi.Command) error {
	p.Lock()
	defer p.Unlock()
	if p.Count >= len(p.Ops) {
		return fmt.Errorf("qspitest: unexpected memory map %#v", *c)
	}
	op := p.Ops[p.Count]
	p.Count++
	if !op.MemoryMap {
		return fmt.Errorf("qspitest: frame #%d expected via Tx, got MemoryMap", p.Count-1)
	}
	if *c != op.Cmd {
		return fmt.Errorf("qspitest: unexpected frame #%d %#v, expected %#v", p.Count-1, *c, op.Cmd)
	}
	return nil
}

// Record implements qspi.Transport and records every frame exchanged with
// the underlying transport.
//
// A nil Transport accepts every frame, zero-filling receive buffers. This
// permits to generate a transcript off hardware to feed a Playback later.
type Record struct {
	sync.Mutex
	Transport qspi.Transport
	Ops       []IO
}

func (r *Record) String() string {
	return "record"
}

// Tx implements qspi.Transport.
func (r *Record) Tx(c *qspi.Command, w, rx []byte) error {
	r.Lock()
	defer r.Unlock()
	if r.Transport != nil {
		if err := r.Transport.Tx(c, w, rx); err != nil {
			return err
		}
	}
	io := IO{Cmd: *c}
	if len(w) != 0 {
		io.W = make([]byte, len(w))
		copy(io.W, w)
	}
	if len(rx) != 0 {
		io.R = make([]byte, len(rx))
		copy(io.R, rx)
	}
	r.Ops = append(r.Ops, io)
	return nil
}

// MemoryMap implements qspi.Transport.
func (r *Record) MemoryMap(c *qspi.Command) error {
	r.Lock()
	defer r.Unlock()
	if r.Transport != nil {
		if err := r.Transport.MemoryMap(c); err != nil {
			return err
		}
	}
	r.Ops = append(r.Ops, IO{Cmd: *c, MemoryMap: true})
	return nil
}

var _ qspi.Transport = &Playback{}
var _ qspi.Transport = &Record{}
