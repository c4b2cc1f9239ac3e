// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hx8347d

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/stm32eval/drivers/lcd"
)

type busOp struct {
	Op  string // "read", "reg" or "ram"
	Reg uint16
	Val uint16
	N   int // payload length for "ram"
}

// fakeBus records the register traffic and answers ID probes.
type fakeBus struct {
	id   uint16
	ops  []busOp
	fail error
}

func (f *fakeBus) WriteReg(reg, val uint16) error {
	if f.fail != nil {
		return f.fail
	}
	f.ops = append(f.ops, busOp{Op: "reg", Reg: reg, Val: val})
	return nil
}

func (f *fakeBus) ReadReg(reg uint16) (uint16, error) {
	f.ops = append(f.ops, busOp{Op: "read", Reg: reg})
	return f.id, nil
}

func (f *fakeBus) WriteRAM(data []byte) error {
	if f.fail != nil {
		return f.fail
	}
	f.ops = append(f.ops, busOp{Op: "ram", N: len(data)})
	return nil
}

// testDev skips New so tests control the transcript start and never sleep.
func testDev(b Bus) *Dev {
	return &Dev{bus: b, w: 320, h: 240, sleep: func(time.Duration) {}}
}

func TestNew(t *testing.T) {
	b := &fakeBus{id: chipID}
	d, err := New(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.ops[0].Op != "read" || b.ops[0].Reg != regID {
		t.Fatalf("first access was %+v, want ID probe", b.ops[0])
	}
	wantOps := 1 + len(initSequence) + len(displayOnSequence)
	if len(b.ops) != wantOps {
		t.Fatalf("init issued %d bus accesses, want %d", len(b.ops), wantOps)
	}
	last := b.ops[len(b.ops)-1]
	if last.Reg != regDisplayCtrl3 || last.Val != 0x3C {
		t.Fatalf("init ended with %+v, want display on", last)
	}
	if s := d.String(); s != "hx8347d.Dev{320x240}" {
		t.Fatalf("String() = %q", s)
	}
}

func TestNew_BadID(t *testing.T) {
	if _, err := New(&fakeBus{id: 0x8989}, nil); err == nil {
		t.Fatal("expected probe failure for a foreign chip ID")
	}
}

func TestSetWindow(t *testing.T) {
	b := &fakeBus{}
	d := testDev(b)
	d.SetWindow(10, 20, 300, 50)
	want := []busOp{
		{Op: "reg", Reg: regColStartHigh, Val: 0x00},
		{Op: "reg", Reg: regColStartLow, Val: 20},
		{Op: "reg", Reg: regColEndHigh, Val: 0x00},
		{Op: "reg", Reg: regColEndLow, Val: 69},
		{Op: "reg", Reg: regRowStartHigh, Val: 0x00},
		{Op: "reg", Reg: regRowStartLow, Val: 10},
		{Op: "reg", Reg: regRowEndHigh, Val: 0x01},
		{Op: "reg", Reg: regRowEndLow, Val: 0x35},
	}
	if diff := cmp.Diff(want, b.ops); diff != "" {
		t.Fatal(diff)
	}
}

func TestWritePixel(t *testing.T) {
	b := &fakeBus{}
	d := testDev(b)
	d.WritePixel(3, 4, lcd.Red)
	want := []busOp{
		{Op: "reg", Reg: regColStartHigh, Val: 0},
		{Op: "reg", Reg: regColStartLow, Val: 4},
		{Op: "reg", Reg: regRowStartHigh, Val: 0},
		{Op: "reg", Reg: regRowStartLow, Val: 3},
		{Op: "ram", N: 2},
	}
	if diff := cmp.Diff(want, b.ops); diff != "" {
		t.Fatal(diff)
	}

	b.ops = nil
	d.WritePixel(-1, 0, lcd.Red)
	d.WritePixel(320, 0, lcd.Red)
	d.WritePixel(0, 240, lcd.Red)
	if len(b.ops) != 0 {
		t.Fatalf("out of range pixels reached the bus: %+v", b.ops)
	}
}

func TestDrawHLine(t *testing.T) {
	b := &fakeBus{}
	d := testDev(b)
	d.DrawHLine(5, 6, 10, lcd.Green)
	// Window to the span, stream 10 pixels, restore the full window.
	if len(b.ops) != 8+1+8 {
		t.Fatalf("got %d bus accesses, want %d", len(b.ops), 17)
	}
	if op := b.ops[8]; op.Op != "ram" || op.N != 20 {
		t.Fatalf("stream op %+v, want 20 RAM bytes", op)
	}
	if op := b.ops[16]; op.Reg != regRowEndLow || op.Val != 0x3F {
		t.Fatalf("window not restored, last op %+v", op)
	}
}

func TestDrawVLine(t *testing.T) {
	b := &fakeBus{}
	d := testDev(b)
	d.DrawVLine(5, 6, 10, lcd.Green)
	if op := b.ops[8]; op.Op != "ram" || op.N != 20 {
		t.Fatalf("stream op %+v, want 20 RAM bytes", op)
	}
	d.DrawVLine(5, 6, 0, lcd.Green)
	if len(b.ops) != 17 {
		t.Fatal("zero length line reached the bus")
	}
}

func TestDrawBitmap(t *testing.T) {
	b := &fakeBus{}
	d := testDev(b)
	bmp := make([]byte, 54+4*2*2)
	bmp[10] = 54
	bmp[18] = 4 // width
	bmp[22] = 2 // height
	d.DrawBitmap(8, 10, bmp)
	// The window is mirrored around y for the native scan direction:
	// 240 - 10 - 2 = 228.
	want := []busOp{
		{Op: "reg", Reg: regColStartHigh, Val: 0x00},
		{Op: "reg", Reg: regColStartLow, Val: 228},
		{Op: "reg", Reg: regColEndHigh, Val: 0x00},
		{Op: "reg", Reg: regColEndLow, Val: 229},
		{Op: "reg", Reg: regRowStartHigh, Val: 0x00},
		{Op: "reg", Reg: regRowStartLow, Val: 8},
		{Op: "reg", Reg: regRowEndHigh, Val: 0x00},
		{Op: "reg", Reg: regRowEndLow, Val: 11},
		{Op: "ram", N: 16},
	}
	if diff := cmp.Diff(want, b.ops); diff != "" {
		t.Fatal(diff)
	}

	b.ops = nil
	d.DrawBitmap(0, 0, bmp[:20])
	if len(b.ops) != 0 {
		t.Fatal("truncated bitmap reached the bus")
	}
}

func TestErrLatching(t *testing.T) {
	fail := errors.New("bus broken")
	b := &fakeBus{fail: fail}
	d := testDev(b)
	d.WritePixel(1, 1, lcd.Red)
	d.DrawHLine(0, 0, 4, lcd.Red)
	if len(b.ops) != 0 {
		t.Fatalf("latched device still accessed the bus: %+v", b.ops)
	}
	if err := d.Err(); !errors.Is(err, fail) {
		t.Fatalf("Err() = %v, want %v", err, fail)
	}
	// Err re-arms the device.
	b.fail = nil
	d.WritePixel(1, 1, lcd.Red)
	if len(b.ops) == 0 {
		t.Fatal("device did not recover after Err()")
	}
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestHalt(t *testing.T) {
	b := &fakeBus{}
	d := testDev(b)
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	last := b.ops[len(b.ops)-1]
	if last.Reg != regDisplayCtrl3 || last.Val != 0x04 {
		t.Fatalf("Halt ended with %+v, want display off", last)
	}
}

func TestSPIBus_WriteReg(t *testing.T) {
	r := &spitest.Record{}
	b, err := NewSPI(r)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.WriteReg(regDisplayCtrl3, 0x3C); err != nil {
		t.Fatal(err)
	}
	if len(r.Ops) != 2 {
		t.Fatalf("got %d transactions, want 2", len(r.Ops))
	}
	wantIdx := []byte{startWriteIndex, 0x00, regDisplayCtrl3}
	if diff := cmp.Diff(wantIdx, r.Ops[0].W); diff != "" {
		t.Fatal(diff)
	}
	wantVal := []byte{startWriteData, 0x00, 0x3C}
	if diff := cmp.Diff(wantVal, r.Ops[1].W); diff != "" {
		t.Fatal(diff)
	}
}

func TestSPIBus_ReadReg(t *testing.T) {
	p := &spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				{W: []byte{startWriteIndex, 0x00, regID}},
				{W: []byte{startReadData, 0, 0, 0}, R: []byte{0, 0, 0x00, 0x47}},
			},
			DontPanic: true,
		},
	}
	defer p.Close()
	b, err := NewSPI(p)
	if err != nil {
		t.Fatal(err)
	}
	id, err := b.ReadReg(regID)
	if err != nil {
		t.Fatal(err)
	}
	if id != chipID {
		t.Fatalf("ReadReg(regID) = %#04x, want %#04x", id, chipID)
	}
}

func TestSPIBus_WriteRAM(t *testing.T) {
	r := &spitest.Record{}
	b, err := NewSPI(r)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]byte, 5000)
	if err := b.WriteRAM(data); err != nil {
		t.Fatal(err)
	}
	// Index write plus two chunks.
	if len(r.Ops) != 3 {
		t.Fatalf("got %d transactions, want 3", len(r.Ops))
	}
	if got := len(r.Ops[1].W); got != 4097 {
		t.Fatalf("first chunk carried %d bytes, want 4097", got)
	}
	if got := len(r.Ops[2].W); got != 5000-4096+1 {
		t.Fatalf("second chunk carried %d bytes, want %d", got, 5000-4096+1)
	}
	if r.Ops[1].W[0] != startWriteData || r.Ops[2].W[0] != startWriteData {
		t.Fatal("chunks must open with the data start byte")
	}
}
