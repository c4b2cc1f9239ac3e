// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package n25q256a controls a Micron N25Q256A serial NOR flash, the 32MiB
// quad SPI part mounted on several STM32 evaluation boards.
//
// The driver sequences the part's command set over a qspi.Transport: quad
// fast reads, page programming with write-enable handshakes, subsector and
// bulk erases, and memory-mapped mode. Programming and erasing are slow
// device-side operations; the driver polls the status register until the
// part reports ready, bounded by the worst case figures of the datasheet.
//
// # Datasheet
//
// https://media-www.micron.com/-/media/client/global/documents/products/data-sheet/nor-flash/serial-nor/n25q/n25q_256mb_3v.pdf
package n25q256a
