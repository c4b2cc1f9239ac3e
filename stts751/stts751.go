// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stts751 provides a driver for the ST STTS751 digital temperature
// sensor.
//
// The sensor measures -64°C to +127°C with a selectable 9 to 12 bit
// resolution and a free running conversion rate between 1/16 Hz and 32 Hz.
// At 32 Hz only the 9 and 10 bit resolutions are valid.
//
// # Datasheet
//
// https://www.st.com/resource/en/datasheet/stts751.pdf
package stts751

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Register map. The temperature bytes are not adjacent, so every access is
// a one register transaction.
const (
	regTempHigh    = 0x00
	regStatus      = 0x01
	regTempLow     = 0x02
	regConfig      = 0x03
	regRate        = 0x04
	regOneShot     = 0x0F
	regProductID   = 0xFD
	regManufacture = 0xFE
	regRevision    = 0xFF
)

const (
	statusBusy = 0x80

	configStop = 0x40
	configMask = 0x80

	manufacturerID = 0x53
)

// Resolution selects the conversion width. The register encoding is not
// monotonic.
type Resolution byte

const (
	Resolution10 Resolution = 0 // 0.25°C, device default
	Resolution11 Resolution = 1 // 0.125°C
	Resolution12 Resolution = 2 // 0.0625°C
	Resolution9  Resolution = 3 // 0.5°C
)

// ConversionRate is the free running sample rate.
type ConversionRate byte

const (
	RateSixteenthHertz ConversionRate = iota
	RateEighthHertz
	RateQuarterHertz
	RateHalfHertz
	RateOneHertz // device default
	RateTwoHertz
	RateFourHertz
	RateEightHertz
	RateSixteenHertz
	RateThirtyTwoHertz
)

// DefaultAddress is the slave address of the STTS751-0 with a 7.5kΩ
// Addr/Therm pull up.
const DefaultAddress uint16 = 0x4A

// The temperature registers hold 1/256°C counts.
const countResolution physic.Temperature = 3_906_250 * physic.NanoKelvin

// Measurable range.
const (
	MinimumTemperature physic.Temperature = physic.ZeroCelsius - 64*physic.Kelvin
	MaximumTemperature physic.Temperature = physic.ZeroCelsius + 127*physic.Kelvin
)

// Opts holds the sensor configuration applied at startup.
type Opts struct {
	Rate       ConversionRate
	Resolution Resolution
}

// DefaultOpts is the device power on configuration.
var DefaultOpts = Opts{Rate: RateOneHertz, Resolution: Resolution10}

// Dev is a handle to a running STTS751.
type Dev struct {
	d        *i2c.Dev
	opts     Opts
	mu       sync.Mutex
	shutdown chan struct{}
}

// New probes the sensor and starts it converting with the given options.
func New(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Rate == RateThirtyTwoHertz && (opts.Resolution == Resolution11 || opts.Resolution == Resolution12) {
		return nil, errors.New("stts751: resolutions above 10 bits cannot sustain 32Hz")
	}
	dev := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, opts: *opts}
	id, err := dev.readReg(regManufacture)
	if err != nil {
		return nil, fmt.Errorf("stts751: failed to probe: %w", err)
	}
	if id != manufacturerID {
		return nil, fmt.Errorf("stts751: unexpected manufacturer ID %#02x", id)
	}
	if err := dev.writeReg(regConfig, byte(opts.Resolution)<<2); err != nil {
		return nil, fmt.Errorf("stts751: failed to configure: %w", err)
	}
	if err := dev.writeReg(regRate, byte(opts.Rate)); err != nil {
		return nil, fmt.Errorf("stts751: failed to configure: %w", err)
	}
	return dev, nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("stts751: %s", dev.d.String())
}

// Sense reads the most recent conversion. Implements physic.SenseEnv.
func (dev *Dev) Sense(env *physic.Env) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	t, err := dev.readTemperature()
	if err != nil {
		return err
	}
	env.Temperature = t
	return nil
}

// SenseContinuous reads at the given interval until Halt is called.
// Implements physic.SenseEnv.
func (dev *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < 32*time.Millisecond {
		return nil, errors.New("stts751: minimum interval is 32ms")
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		return nil, errors.New("stts751: already sensing continuously")
	}
	dev.shutdown = make(chan struct{})
	channel := make(chan physic.Env, 16)
	go func(shutdown <-chan struct{}) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-shutdown:
				close(channel)
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := dev.Sense(&e); err == nil && len(channel) < cap(channel) {
					channel <- e
				}
			}
		}
	}(dev.shutdown)
	return channel, nil
}

// Precision reports the temperature step of the configured resolution.
// Implements physic.SenseEnv.
func (dev *Dev) Precision(env *physic.Env) {
	steps := map[Resolution]physic.Temperature{
		Resolution9:  500 * physic.MilliKelvin,
		Resolution10: 250 * physic.MilliKelvin,
		Resolution11: 125 * physic.MilliKelvin,
		Resolution12: 62_500 * physic.MicroKelvin,
	}
	env.Temperature = steps[dev.opts.Resolution]
	env.Pressure = 0
	env.Humidity = 0
}

// Busy reports whether a conversion is in progress.
func (dev *Dev) Busy() (bool, error) {
	s, err := dev.readReg(regStatus)
	if err != nil {
		return false, fmt.Errorf("stts751: %w", err)
	}
	return s&statusBusy != 0, nil
}

// Halt stops continuous sensing and puts the sensor in standby. Implements
// conn.Resource.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		close(dev.shutdown)
		dev.shutdown = nil
	}
	if err := dev.writeReg(regConfig, byte(dev.opts.Resolution)<<2|configStop); err != nil {
		return fmt.Errorf("stts751: %w", err)
	}
	return nil
}

func (dev *Dev) readTemperature() (physic.Temperature, error) {
	hi, err := dev.readReg(regTempHigh)
	if err != nil {
		return MinimumTemperature, fmt.Errorf("stts751: %w", err)
	}
	lo, err := dev.readReg(regTempLow)
	if err != nil {
		return MinimumTemperature, fmt.Errorf("stts751: %w", err)
	}
	count := int16(uint16(hi)<<8 | uint16(lo))
	return physic.ZeroCelsius + physic.Temperature(count)*countResolution, nil
}

func (dev *Dev) readReg(reg byte) (byte, error) {
	var r [1]byte
	if err := dev.d.Tx([]byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (dev *Dev) writeReg(reg, val byte) error {
	return dev.d.Tx([]byte{reg, val}, nil)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
