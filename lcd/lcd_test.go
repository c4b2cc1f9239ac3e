// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd

import (
	"encoding/binary"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeDriver records every WritePixel in order. It implements no optional
// capability, so all primitives take their fallback path.
type fakeDriver struct {
	w, h int
	ops  []pixelOp
}

type pixelOp struct {
	X, Y int
	C    Color
}

func (f *fakeDriver) Size() (int, int)             { return f.w, f.h }
func (f *fakeDriver) WritePixel(x, y int, c Color) { f.ops = append(f.ops, pixelOp{x, y, c}) }
func (f *fakeDriver) DisplayOn()                   {}
func (f *fakeDriver) DisplayOff()                  {}

func (f *fakeDriver) set() map[image.Point]Color {
	m := map[image.Point]Color{}
	for _, op := range f.ops {
		m[image.Point{X: op.X, Y: op.Y}] = op.C
	}
	return m
}

// accelDriver additionally implements the line, window and bitmap
// capabilities, recording each call.
type accelDriver struct {
	fakeDriver
	calls []accelOp
}

type accelOp struct {
	Op      string
	X, Y    int
	Length  int
	W, H    int
	C       Color
	Payload int
}

func (a *accelDriver) DrawHLine(x, y, length int, c Color) {
	a.calls = append(a.calls, accelOp{Op: "hline", X: x, Y: y, Length: length, C: c})
}

func (a *accelDriver) DrawVLine(x, y, length int, c Color) {
	a.calls = append(a.calls, accelOp{Op: "vline", X: x, Y: y, Length: length, C: c})
}

func (a *accelDriver) SetWindow(x, y, width, height int) {
	a.calls = append(a.calls, accelOp{Op: "window", X: x, Y: y, W: width, H: height})
}

func (a *accelDriver) DrawBitmap(x, y int, bmp []byte) {
	a.calls = append(a.calls, accelOp{Op: "bitmap", X: x, Y: y, Payload: len(bmp)})
}

func TestDrawPixel(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, &Opts{TextColor: Red, BackColor: Black})
	d.DrawPixel(3, 4)
	want := []pixelOp{{3, 4, Red}}
	if diff := cmp.Diff(want, f.ops); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrawHLine_Fallback(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, nil)
	d.DrawHLine(1, 2, 3)
	want := []pixelOp{{1, 2, Black}, {2, 2, Black}, {3, 2, Black}}
	if diff := cmp.Diff(want, f.ops); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrawVLine_Fallback(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, nil)
	d.DrawVLine(5, 1, 2)
	want := []pixelOp{{5, 1, Black}, {5, 2, Black}}
	if diff := cmp.Diff(want, f.ops); diff != "" {
		t.Fatal(diff)
	}
}

func TestLines_Accelerated(t *testing.T) {
	a := &accelDriver{fakeDriver: fakeDriver{w: 32, h: 32}}
	d := New(a, &Opts{TextColor: Blue, BackColor: White})
	d.DrawHLine(1, 2, 3)
	d.DrawVLine(4, 5, 6)
	want := []accelOp{
		{Op: "hline", X: 1, Y: 2, Length: 3, C: Blue},
		{Op: "vline", X: 4, Y: 5, Length: 6, C: Blue},
	}
	if diff := cmp.Diff(want, a.calls); diff != "" {
		t.Fatal(diff)
	}
	if len(a.ops) != 0 {
		t.Fatalf("accelerated lines fell back to %d pixel writes", len(a.ops))
	}
}

func TestDrawLine_Horizontal(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, nil)
	d.DrawLine(0, 0, 4, 0)
	want := []pixelOp{{0, 0, Black}, {1, 0, Black}, {2, 0, Black}, {3, 0, Black}, {4, 0, Black}}
	if diff := cmp.Diff(want, f.ops); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrawLine_Reverse(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, nil)
	d.DrawLine(4, 0, 0, 0)
	want := []pixelOp{{4, 0, Black}, {3, 0, Black}, {2, 0, Black}, {1, 0, Black}, {0, 0, Black}}
	if diff := cmp.Diff(want, f.ops); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrawLine_Diagonal(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, nil)
	d.DrawLine(0, 0, 3, 3)
	want := []pixelOp{{0, 0, Black}, {1, 1, Black}, {2, 2, Black}, {3, 3, Black}}
	if diff := cmp.Diff(want, f.ops); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrawLine_Point(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, nil)
	d.DrawLine(3, 5, 3, 5)
	want := []pixelOp{{3, 5, Black}}
	if diff := cmp.Diff(want, f.ops); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrawRect(t *testing.T) {
	a := &accelDriver{fakeDriver: fakeDriver{w: 32, h: 32}}
	d := New(a, nil)
	d.DrawRect(1, 2, 4, 3)
	want := []accelOp{
		{Op: "hline", X: 1, Y: 2, Length: 4, C: Black},
		{Op: "hline", X: 1, Y: 5, Length: 4, C: Black},
		{Op: "vline", X: 1, Y: 2, Length: 3, C: Black},
		{Op: "vline", X: 5, Y: 2, Length: 3, C: Black},
	}
	if diff := cmp.Diff(want, a.calls); diff != "" {
		t.Fatal(diff)
	}
}

func TestFillRect(t *testing.T) {
	a := &accelDriver{fakeDriver: fakeDriver{w: 32, h: 32}}
	d := New(a, nil)
	d.FillRect(2, 3, 5, 2)
	want := []accelOp{
		{Op: "hline", X: 2, Y: 3, Length: 5, C: Black},
		{Op: "hline", X: 2, Y: 4, Length: 5, C: Black},
		{Op: "hline", X: 2, Y: 5, Length: 5, C: Black},
	}
	if diff := cmp.Diff(want, a.calls); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrawCircle_Symmetry(t *testing.T) {
	f := &fakeDriver{w: 64, h: 64}
	d := New(f, nil)
	const cx, cy, r = 20, 20, 7
	d.DrawCircle(cx, cy, r)
	pts := f.set()
	for _, p := range []image.Point{{cx, cy - r}, {cx, cy + r}, {cx - r, cy}, {cx + r, cy}} {
		if _, ok := pts[p]; !ok {
			t.Errorf("extreme point %v not plotted", p)
		}
	}
	for p := range pts {
		dx, dy := p.X-cx, p.Y-cy
		for _, q := range []image.Point{
			{cx - dx, cy + dy}, {cx + dx, cy - dy}, {cx - dx, cy - dy},
			{cx + dy, cy + dx}, {cx - dy, cy + dx}, {cx + dy, cy - dx}, {cx - dy, cy - dx},
		} {
			if _, ok := pts[q]; !ok {
				t.Fatalf("point %v plotted but reflection %v missing", p, q)
			}
		}
	}
}

func TestFillCircle_CoversOutline(t *testing.T) {
	outline := &fakeDriver{w: 64, h: 64}
	New(outline, nil).DrawCircle(20, 20, 6)
	filled := &fakeDriver{w: 64, h: 64}
	New(filled, nil).FillCircle(20, 20, 6)
	got := filled.set()
	for p := range outline.set() {
		if _, ok := got[p]; !ok {
			t.Errorf("outline point %v missing from filled circle", p)
		}
	}
}

func TestDrawEllipse(t *testing.T) {
	f := &fakeDriver{w: 64, h: 64}
	d := New(f, nil)
	const cx, cy, rx, ry = 30, 20, 10, 6
	d.DrawEllipse(cx, cy, rx, ry)
	pts := f.set()
	for _, p := range []image.Point{{cx - rx, cy}, {cx + rx, cy}} {
		if _, ok := pts[p]; !ok {
			t.Errorf("extreme point %v not plotted", p)
		}
	}
	for p := range pts {
		if abs(p.X-cx) > rx || abs(p.Y-cy) > ry {
			t.Errorf("point %v outside the %dx%d bounding box", p, rx, ry)
		}
	}
}

func TestDrawEllipse_DegenerateRadius(t *testing.T) {
	f := &fakeDriver{w: 64, h: 64}
	d := New(f, nil)
	d.DrawEllipse(10, 10, 0, 5)
	d.DrawEllipse(10, 10, 5, 0)
	d.FillEllipse(10, 10, 0, 5)
	if len(f.ops) != 0 {
		t.Fatalf("degenerate ellipse plotted %d pixels", len(f.ops))
	}
}

func TestFillEllipse_CoversAxis(t *testing.T) {
	f := &fakeDriver{w: 64, h: 64}
	d := New(f, nil)
	const cx, cy, rx, ry = 30, 20, 8, 5
	d.FillEllipse(cx, cy, rx, ry)
	pts := f.set()
	for x := cx - rx; x <= cx+rx; x++ {
		if _, ok := pts[image.Point{X: x, Y: cy}]; !ok {
			t.Errorf("horizontal axis point (%d, %d) not filled", x, cy)
		}
	}
}

func TestDrawPolygon(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, nil)
	d.DrawPolygon([]image.Point{{0, 0}, {4, 0}, {0, 4}})
	pts := f.set()
	for _, p := range []image.Point{{0, 0}, {4, 0}, {0, 4}, {2, 0}, {0, 2}, {2, 2}} {
		if _, ok := pts[p]; !ok {
			t.Errorf("polygon edge point %v not plotted", p)
		}
	}

	f.ops = nil
	d.DrawPolygon([]image.Point{{5, 5}})
	if len(f.ops) != 0 {
		t.Fatal("single point polygon plotted pixels")
	}
}

func TestClear(t *testing.T) {
	f := &fakeDriver{w: 8, h: 4}
	d := New(f, nil)
	d.Clear(Cyan)
	if len(f.ops) != 8*4 {
		t.Fatalf("got %d pixel writes, want %d", len(f.ops), 8*4)
	}
	for _, op := range f.ops {
		if op.C != Cyan {
			t.Fatalf("pixel (%d, %d) cleared to %#04x", op.X, op.Y, uint16(op.C))
		}
	}
}

// testFont is a 4x2 font with a single recognizable glyph for 'X'.
func testFont() *Font {
	f := &Font{Width: 4, Height: 2, Table: make([]byte, 95*2)}
	i := int('X'-' ') * 2
	f.Table[i] = 0xA0   // pixels 0 and 2 on the top row
	f.Table[i+1] = 0x50 // pixels 1 and 3 on the bottom row
	return f
}

func TestDisplayChar(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, &Opts{TextColor: White, BackColor: Black, Font: testFont()})
	d.DisplayChar(1, 1, 'X')
	want := map[image.Point]Color{
		{1, 1}: White, {2, 1}: Black, {3, 1}: White, {4, 1}: Black,
		{1, 2}: Black, {2, 2}: White, {3, 2}: Black, {4, 2}: White,
	}
	if diff := cmp.Diff(want, f.set()); diff != "" {
		t.Fatal(diff)
	}
}

func TestDisplayChar_NonPrintable(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, &Opts{TextColor: White, BackColor: Black, Font: testFont()})
	d.DisplayChar(0, 0, 0x07)
	// Space has an empty glyph, so every cell is background.
	for _, op := range f.ops {
		if op.C != Black {
			t.Fatalf("pixel (%d, %d) drawn in %#04x", op.X, op.Y, uint16(op.C))
		}
	}
	if len(f.ops) != 4*2 {
		t.Fatalf("got %d pixel writes, want %d", len(f.ops), 4*2)
	}
}

// bmpRecorder records the x positions DisplayChar lands glyphs at.
type bmpRecorder struct {
	fakeDriver
	xs []int
}

func (b *bmpRecorder) DrawBitmap(x, y int, bmp []byte) {
	b.xs = append(b.xs, x)
}

func TestDisplayStringAt_Alignment(t *testing.T) {
	// 40 pixels wide, 4 pixel glyphs: 10 columns.
	newDisplay := func() (*bmpRecorder, *Display) {
		b := &bmpRecorder{fakeDriver: fakeDriver{w: 40, h: 16}}
		return b, New(b, &Opts{TextColor: White, BackColor: Black, Font: testFont()})
	}

	b, d := newDisplay()
	d.DisplayStringAt(0, 0, "abcd", AlignLeft)
	if diff := cmp.Diff([]int{0, 4, 8, 12}, b.xs); diff != "" {
		t.Fatal(diff)
	}

	b, d = newDisplay()
	d.DisplayStringAt(0, 0, "abcd", AlignCenter)
	if diff := cmp.Diff([]int{12, 16, 20, 24}, b.xs); diff != "" {
		t.Fatal(diff)
	}
	left := b.xs[0]
	right := d.Width() - (b.xs[len(b.xs)-1] + d.Font().Width)
	if diffPx := abs(left - right); diffPx > 1 {
		t.Fatalf("centered margins %d and %d differ by more than one pixel", left, right)
	}

	b, d = newDisplay()
	d.DisplayStringAt(0, 0, "abcd", AlignRight)
	if diff := cmp.Diff([]int{24, 28, 32, 36}, b.xs); diff != "" {
		t.Fatal(diff)
	}
}

func TestDisplayStringAt_Clip(t *testing.T) {
	b := &bmpRecorder{fakeDriver: fakeDriver{w: 12, h: 16}}
	d := New(b, &Opts{TextColor: White, BackColor: Black, Font: testFont()})
	d.DisplayStringAt(0, 0, "overflowing", AlignLeft)
	// 3 columns fit.
	if diff := cmp.Diff([]int{0, 4, 8}, b.xs); diff != "" {
		t.Fatal(diff)
	}
}

func TestDisplayStringAtLine(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, &Opts{TextColor: White, BackColor: Black, Font: testFont()})
	d.DisplayStringAtLine(3, "X")
	for _, op := range f.ops {
		if op.Y < 6 || op.Y > 7 {
			t.Fatalf("line 3 pixel written at y=%d", op.Y)
		}
	}
}

func TestClearStringLine(t *testing.T) {
	a := &accelDriver{fakeDriver: fakeDriver{w: 32, h: 32}}
	d := New(a, &Opts{TextColor: White, BackColor: Blue, Font: testFont()})
	d.ClearStringLine(2)
	want := []accelOp{
		{Op: "hline", X: 0, Y: 4, Length: 32, C: Blue},
		{Op: "hline", X: 0, Y: 5, Length: 32, C: Blue},
		{Op: "hline", X: 0, Y: 6, Length: 32, C: Blue},
	}
	if diff := cmp.Diff(want, a.calls); diff != "" {
		t.Fatal(diff)
	}
}

// makeBMP builds a 16bpp bottom-up bitmap the way DisplayChar does.
func makeBMP(w, h int, px []Color) []byte {
	b := make([]byte, bmpHeaderLen+w*h*2)
	b[0] = 'B'
	b[1] = 'M'
	binary.LittleEndian.PutUint32(b[2:], uint32(len(b)))
	binary.LittleEndian.PutUint32(b[10:], bmpHeaderLen)
	binary.LittleEndian.PutUint32(b[18:], uint32(w))
	binary.LittleEndian.PutUint32(b[22:], uint32(h))
	for i, c := range px {
		binary.LittleEndian.PutUint16(b[bmpHeaderLen+i*2:], uint16(c))
	}
	return b
}

func TestDrawBitmap_Fallback(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, nil)
	// Stored bottom row first: Red, Green then Blue, Yellow.
	bmp := makeBMP(2, 2, []Color{Red, Green, Blue, Yellow})
	d.DrawBitmap(5, 6, bmp)
	want := map[image.Point]Color{
		{5, 6}: Blue, {6, 6}: Yellow,
		{5, 7}: Red, {6, 7}: Green,
	}
	if diff := cmp.Diff(want, f.set()); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrawBitmap_Accelerated(t *testing.T) {
	a := &accelDriver{fakeDriver: fakeDriver{w: 32, h: 32}}
	d := New(a, nil)
	bmp := makeBMP(2, 2, []Color{Red, Green, Blue, Yellow})
	d.DrawBitmap(5, 6, bmp)
	want := []accelOp{
		{Op: "window", X: 5, Y: 6, W: 2, H: 2},
		{Op: "bitmap", X: 5, Y: 6, Payload: len(bmp)},
		{Op: "window", X: 0, Y: 0, W: 32, H: 32},
	}
	if diff := cmp.Diff(want, a.calls); diff != "" {
		t.Fatal(diff)
	}
}

func TestDrawBitmap_Truncated(t *testing.T) {
	f := &fakeDriver{w: 32, h: 32}
	d := New(f, nil)
	d.DrawBitmap(0, 0, make([]byte, 10))
	bmp := makeBMP(4, 4, make([]Color, 16))
	d.DrawBitmap(0, 0, bmp[:bmpHeaderLen+7])
	if len(f.ops) != 0 {
		t.Fatalf("truncated bitmap plotted %d pixels", len(f.ops))
	}
}

// reader overlays a readable framebuffer on fakeDriver.
type reader struct {
	fakeDriver
}

func (r *reader) ReadPixel(x, y int) Color { return Magenta }

func TestReadPixel(t *testing.T) {
	d := New(&reader{fakeDriver{w: 8, h: 8}}, nil)
	if got := d.ReadPixel(1, 1); got != Magenta {
		t.Fatalf("got %#04x", uint16(got))
	}
	d = New(&fakeDriver{w: 8, h: 8}, nil)
	if got := d.ReadPixel(1, 1); got != 0 {
		t.Fatalf("driver without readback returned %#04x", uint16(got))
	}
}

func TestSettersAndSize(t *testing.T) {
	f := &fakeDriver{w: 320, h: 240}
	d := New(f, nil)
	if d.Width() != 320 || d.Height() != 240 {
		t.Fatalf("size %dx%d", d.Width(), d.Height())
	}
	d.SetTextColor(Green)
	d.SetBackColor(Red)
	if d.TextColor() != Green || d.BackColor() != Red {
		t.Fatal("color state not retained")
	}
	ft := testFont()
	d.SetFont(ft)
	if d.Font() != ft {
		t.Fatal("font not retained")
	}
	d.SetFont(nil)
	if d.Font() != ft {
		t.Fatal("nil font overwrote the active font")
	}
	if s := d.String(); s != "lcd.Display{320x240}" {
		t.Fatalf("String() = %q", s)
	}
}

func TestFontFromFace(t *testing.T) {
	if DefaultFont.Width <= 0 || DefaultFont.Height <= 0 {
		t.Fatalf("default font cell %dx%d", DefaultFont.Width, DefaultFont.Height)
	}
	n := DefaultFont.Height * DefaultFont.bytesPerRow()
	if len(DefaultFont.Table) != 95*n {
		t.Fatalf("table holds %d bytes, want %d", len(DefaultFont.Table), 95*n)
	}
	// 'A' has ink, space does not.
	empty := true
	for _, b := range DefaultFont.glyph('A') {
		if b != 0 {
			empty = false
			break
		}
	}
	if empty {
		t.Fatal("glyph 'A' rendered empty")
	}
	for _, b := range DefaultFont.glyph(' ') {
		if b != 0 {
			t.Fatal("space glyph has ink")
		}
	}
	if diff := cmp.Diff(DefaultFont.glyph(' '), DefaultFont.glyph(0x01)); diff != "" {
		t.Fatal("non printable characters must map to space")
	}
}

func TestColor(t *testing.T) {
	r, g, b, a := White.RGBA()
	if r != 0xFFFF || g != 0xFFFF || b != 0xFFFF || a != 0xFFFF {
		t.Fatalf("White.RGBA() = %04x %04x %04x %04x", r, g, b, a)
	}
	if got := ColorModel.Convert(Red).(Color); got != Red {
		t.Fatalf("red round trip gave %#04x", uint16(got))
	}
}
