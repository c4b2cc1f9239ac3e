// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stmpe811

import (
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

type expanderPin struct {
	dev    *Dev
	number int
	name   string
	output bool
}

func (p *expanderPin) Name() string {
	return p.name
}

func (p *expanderPin) String() string {
	return p.name
}

func (p *expanderPin) Number() int {
	return p.number
}

func (p *expanderPin) Function() string {
	if p.output {
		return "Out"
	}
	return "In"
}

func (p *expanderPin) Halt() error {
	return nil
}

// In configures the pin as an input. The chip has no pull resistors.
func (p *expanderPin) In(pull gpio.Pull, edge gpio.Edge) error {
	if pull != gpio.Float && pull != gpio.PullNoChange {
		return ErrNotImplemented
	}
	if err := p.dev.setDirection(p.number, false); err != nil {
		return err
	}
	if err := p.dev.setEdge(p.number, edge); err != nil {
		return err
	}
	p.output = false
	return nil
}

func (p *expanderPin) Read() gpio.Level {
	port, err := p.dev.read()
	if err != nil {
		return gpio.Low
	}
	return port&(1<<p.number) != 0
}

func (p *expanderPin) Out(l gpio.Level) error {
	if err := p.dev.setDirection(p.number, true); err != nil {
		return err
	}
	p.output = true
	return p.dev.out(p.number, l)
}

func (p *expanderPin) Pull() gpio.Pull {
	return gpio.Float
}

func (p *expanderPin) DefaultPull() gpio.Pull {
	return gpio.Float
}

func (p *expanderPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

// WaitForEdge is not supported: the interrupt line must be wired to a host
// GPIO that does the waiting.
func (p *expanderPin) WaitForEdge(timeout time.Duration) bool {
	return false
}

var _ gpio.PinIO = &expanderPin{}
