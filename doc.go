// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package drivers is a container for drivers for the peripherals found on
// STMicroelectronics evaluation and discovery boards: the N25Q256A quad SPI
// NOR flash, the HX8347D LCD controller, the STMPE811 I/O expander and the
// STTS751 temperature sensor, plus the bus abstractions and the raster
// graphics layer they plug into.
package drivers
