// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package n25q256a

import "time"

// Command opcodes. See the command set table of the datasheet.
const (
	cmdWriteEnable     byte = 0x06
	cmdReadStatusReg   byte = 0x05
	cmdReadFlagStatus  byte = 0x70
	cmdReadVolCfgReg   byte = 0x85
	cmdWriteVolCfgReg  byte = 0x81
	cmdQuadFastRead    byte = 0xEB
	cmdExtQuadFastProg byte = 0x38
	cmdSubsectorErase  byte = 0x20
	cmdBulkErase       byte = 0xC7
	cmdResetEnable     byte = 0x66
	cmdResetMemory     byte = 0x99
	cmdEnter4ByteAddr  byte = 0xB7
)

// Status register bits.
const (
	srWIP  byte = 0x01 // write in progress
	srWREN byte = 0x02 // write enable latch
)

// Flag status register bits.
const (
	fsrPRERR  byte = 0x02 // protection error
	fsrPGSUS  byte = 0x04 // program operation suspended
	fsrVPPERR byte = 0x08 // Vpp error
	fsrPGERR  byte = 0x10 // program error
	fsrERERR  byte = 0x20 // erase error
	fsrERSUS  byte = 0x40 // erase operation suspended
	fsrREADY  byte = 0x80 // ready
)

// Volatile configuration register.
const (
	vcrDummyMask  byte = 0xF0 // number of dummy clock cycles, bits 7:4
	vcrDummyShift      = 4
)

// Part geometry.
const (
	flashSize     = 1 << 25 // 32MiB
	subsectorSize = 4096
	pageSize      = 256

	dummyCyclesReadQuad = 10
)

// Operation deadlines. Erase classes have their own worst case figures from
// the datasheet AC characteristics; everything else completes well within
// the default.
const (
	defaultTimeout        = 5 * time.Second
	subsectorEraseTimeout = 800 * time.Millisecond
	chipEraseTimeout      = 250 * time.Second

	defaultPollInterval = time.Millisecond
)
