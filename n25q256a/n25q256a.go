// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package n25q256a

import (
	"errors"
	"fmt"
	"time"

	"github.com/stm32eval/drivers/qspi"
)

// ErrNotSupported is returned by New when the part does not complete the
// setup sequence, typically because a different or no memory is fitted.
var ErrNotSupported = errors.New("n25q256a: device not supported")

// Geometry describes the erase and program granularities of the part.
type Geometry struct {
	// Size is the capacity in bytes.
	Size int64
	// SubsectorSize is the smallest erasable unit in bytes.
	SubsectorSize int
	// Subsectors is the number of erasable subsectors.
	Subsectors int
	// PageSize is the largest span one program operation can cover.
	PageSize int
	// Pages is the number of programmable pages.
	Pages int
}

// Status is the device-side state reported by the flag status register.
type Status int

const (
	// StatusBusy means a program or erase operation is in progress.
	StatusBusy Status = iota
	// StatusReady means the part accepts new operations.
	StatusReady
	// StatusSuspended means a program or erase operation is paused.
	StatusSuspended
	// StatusError means the last program or erase operation failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusBusy:
		return "busy"
	case StatusReady:
		return "ready"
	case StatusSuspended:
		return "suspended"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Dev is an open handle to the flash memory.
type Dev struct {
	t qspi.Transport

	// Swapped for fakes in tests.
	sleep func(time.Duration)
	now   func() time.Time
}

// New resets the memory and configures it for quad operation: 4-byte
// addressing to reach the full 32MiB, and the read latency (dummy cycles)
// the quad fast-read command needs at full clock.
//
// A setup step timing out reports ErrNotSupported.
func New(t qspi.Transport) (*Dev, error) {
	d := &Dev{t: t, sleep: time.Sleep, now: time.Now}
	if err := d.reset(); err != nil {
		return nil, initErr("reset memory", err)
	}
	if err := d.enter4ByteAddr(); err != nil {
		return nil, initErr("enter 4-byte addressing", err)
	}
	if err := d.configDummyCycles(); err != nil {
		return nil, initErr("configure dummy cycles", err)
	}
	return d, nil
}

func initErr(step string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrNotSupported, step, err)
}

func (d *Dev) String() string {
	return "n25q256a.Dev{32MiB}"
}

// Info returns the static geometry of the part. It performs no bus
// activity.
func (d *Dev) Info() Geometry {
	return Geometry{
		Size:          flashSize,
		SubsectorSize: subsectorSize,
		Subsectors:    flashSize / subsectorSize,
		PageSize:      pageSize,
		Pages:         flashSize / pageSize,
	}
}

// ReadAt reads len(p) bytes starting at off. It implements io.ReaderAt.
//
// The whole span is streamed after a single quad fast-read frame; the
// controller handles arbitrary lengths.
func (d *Dev) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > flashSize {
		return 0, fmt.Errorf("n25q256a: read [%#x,%#x) out of range", off, off+int64(len(p)))
	}
	if len(p) == 0 {
		return 0, nil
	}
	c := &qspi.Command{
		Instruction: cmdQuadFastRead,
		AddressMode: qspi.LinesQuad,
		AddressSize: qspi.Addr32,
		Address:     uint32(off),
		DataMode:    qspi.LinesQuad,
		DummyCycles: dummyCyclesReadQuad,
	}
	if err := d.t.Tx(c, nil, p); err != nil {
		return 0, fmt.Errorf("n25q256a: read: %w", err)
	}
	return len(p), nil
}

// WriteAt programs len(p) bytes starting at off. It implements io.WriterAt.
//
// The span is split into chunks that never cross a page boundary, each
// programmed with its own write-enable handshake and ready-wait. On error
// the count reports the bytes of the chunks already programmed; they are
// not rolled back, the part has no multi-page atomic program.
//
// The destination must have been erased beforehand: programming only clears
// bits.
func (d *Dev) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > flashSize {
		return 0, fmt.Errorf("n25q256a: write [%#x,%#x) out of range", off, off+int64(len(p)))
	}
	var n int
	for n < len(p) {
		addr := uint32(off) + uint32(n)
		// Clip the chunk to the end of the current page.
		chunk := pageSize - int(addr%pageSize)
		if rest := len(p) - n; chunk > rest {
			chunk = rest
		}
		if err := d.writeEnable(); err != nil {
			return n, fmt.Errorf("n25q256a: write enable at %#x: %w", addr, err)
		}
		c := &qspi.Command{
			Instruction: cmdExtQuadFastProg,
			AddressMode: qspi.LinesQuad,
			AddressSize: qspi.Addr32,
			Address:     addr,
			DataMode:    qspi.LinesQuad,
		}
		if err := d.t.Tx(c, p[n:n+chunk], nil); err != nil {
			return n, fmt.Errorf("n25q256a: program at %#x: %w", addr, err)
		}
		if err := d.waitReady(defaultTimeout); err != nil {
			return n, fmt.Errorf("n25q256a: program at %#x: %w", addr, err)
		}
		n += chunk
	}
	return n, nil
}

// EraseSubsector erases the 4KiB subsector containing off.
func (d *Dev) EraseSubsector(off int64) error {
	if off < 0 || off >= flashSize {
		return fmt.Errorf("n25q256a: erase at %#x out of range", off)
	}
	if err := d.writeEnable(); err != nil {
		return fmt.Errorf("n25q256a: erase subsector: %w", err)
	}
	c := &qspi.Command{
		Instruction: cmdSubsectorErase,
		AddressMode: qspi.LinesSingle,
		AddressSize: qspi.Addr32,
		Address:     uint32(off),
	}
	if err := d.t.Tx(c, nil, nil); err != nil {
		return fmt.Errorf("n25q256a: erase subsector: %w", err)
	}
	if err := d.waitReady(subsectorEraseTimeout); err != nil {
		return fmt.Errorf("n25q256a: erase subsector: %w", err)
	}
	return nil
}

// EraseChip erases the whole part. The bulk erase runs for minutes; the
// ready-wait is bounded by the datasheet worst case.
func (d *Dev) EraseChip() error {
	if err := d.writeEnable(); err != nil {
		return fmt.Errorf("n25q256a: erase chip: %w", err)
	}
	c := &qspi.Command{Instruction: cmdBulkErase}
	if err := d.t.Tx(c, nil, nil); err != nil {
		return fmt.Errorf("n25q256a: erase chip: %w", err)
	}
	if err := d.waitReady(chipEraseTimeout); err != nil {
		return fmt.Errorf("n25q256a: erase chip: %w", err)
	}
	return nil
}

// Status reads the flag status register and classifies it. Error bits win
// over suspend bits, suspend bits over the ready bit; a register with none
// of them set means an operation is in progress.
func (d *Dev) Status() (Status, error) {
	c := &qspi.Command{Instruction: cmdReadFlagStatus, DataMode: qspi.LinesSingle}
	var reg [1]byte
	if err := d.t.Tx(c, nil, reg[:]); err != nil {
		return StatusError, fmt.Errorf("n25q256a: status: %w", err)
	}
	switch {
	case reg[0]&(fsrPRERR|fsrVPPERR|fsrPGERR|fsrERERR) != 0:
		return StatusError, nil
	case reg[0]&(fsrPGSUS|fsrERSUS) != 0:
		return StatusSuspended, nil
	case reg[0]&fsrREADY != 0:
		return StatusReady, nil
	default:
		return StatusBusy, nil
	}
}

// EnableMemoryMapped switches the transport to memory-mapped mode using the
// quad fast-read frame. Subsequent reads go through the mapped address
// window and bypass this driver entirely.
func (d *Dev) EnableMemoryMapped() error {
	c := &qspi.Command{
		Instruction: cmdQuadFastRead,
		AddressMode: qspi.LinesQuad,
		AddressSize: qspi.Addr32,
		DataMode:    qspi.LinesQuad,
		DummyCycles: dummyCyclesReadQuad,
	}
	if err := d.t.MemoryMap(c); err != nil {
		return fmt.Errorf("n25q256a: memory map: %w", err)
	}
	return nil
}

func (d *Dev) reset() error {
	if err := d.t.Tx(&qspi.Command{Instruction: cmdResetEnable}, nil, nil); err != nil {
		return err
	}
	if err := d.t.Tx(&qspi.Command{Instruction: cmdResetMemory}, nil, nil); err != nil {
		return err
	}
	return d.waitReady(defaultTimeout)
}

func (d *Dev) enter4ByteAddr() error {
	if err := d.writeEnable(); err != nil {
		return err
	}
	if err := d.t.Tx(&qspi.Command{Instruction: cmdEnter4ByteAddr}, nil, nil); err != nil {
		return err
	}
	return d.waitReady(defaultTimeout)
}

// configDummyCycles read-modify-writes the volatile configuration register
// so the part inserts the latency the quad fast-read frames assume.
func (d *Dev) configDummyCycles() error {
	rd := &qspi.Command{Instruction: cmdReadVolCfgReg, DataMode: qspi.LinesSingle}
	var reg [1]byte
	if err := d.t.Tx(rd, nil, reg[:]); err != nil {
		return err
	}
	if err := d.writeEnable(); err != nil {
		return err
	}
	reg[0] = reg[0]&^vcrDummyMask | dummyCyclesReadQuad<<vcrDummyShift
	wr := &qspi.Command{Instruction: cmdWriteVolCfgReg, DataMode: qspi.LinesSingle}
	return d.t.Tx(wr, reg[:], nil)
}

// writeEnable sets the write enable latch and waits until the part
// acknowledges it in the status register.
func (d *Dev) writeEnable() error {
	if err := d.t.Tx(&qspi.Command{Instruction: cmdWriteEnable}, nil, nil); err != nil {
		return err
	}
	cfg := &qspi.PollConfig{Mask: srWREN, Match: srWREN, Interval: defaultPollInterval}
	return d.poll(cfg, defaultTimeout)
}

// waitReady waits for the write-in-progress bit to clear.
func (d *Dev) waitReady(timeout time.Duration) error {
	cfg := &qspi.PollConfig{Mask: srWIP, Match: 0, Interval: defaultPollInterval}
	return d.poll(cfg, timeout)
}

// poll samples the status register until value&Mask == Match or the
// deadline passes. Transports with hardware auto-polling do the wait
// themselves; otherwise a software loop samples at cfg.Interval.
func (d *Dev) poll(cfg *qspi.PollConfig, timeout time.Duration) error {
	c := &qspi.Command{Instruction: cmdReadStatusReg, DataMode: qspi.LinesSingle}
	if p, ok := d.t.(qspi.Poller); ok {
		return p.Poll(c, cfg, timeout)
	}
	deadline := d.now().Add(timeout)
	var reg [1]byte
	for {
		if err := d.t.Tx(c, nil, reg[:]); err != nil {
			return err
		}
		if reg[0]&cfg.Mask == cfg.Match {
			return nil
		}
		if !d.now().Before(deadline) {
			return qspi.ErrTimeout
		}
		d.sleep(cfg.Interval)
	}
}
