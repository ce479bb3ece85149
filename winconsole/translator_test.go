//go:build windows

package winconsole

import "testing"

func TestApplySGRCodeBrightForeground(t *testing.T) {
	attr := applySGRCode(0, 0, 91) // bright red foreground
	if attr&foregroundRed == 0 || attr&foregroundIntensity == 0 {
		t.Fatalf("attr = %#x, want foregroundRed|foregroundIntensity set", attr)
	}
	if attr&(foregroundGreen|foregroundBlue) != 0 {
		t.Fatalf("attr = %#x, want green/blue bits clear", attr)
	}
}

func TestApplySGRCodeBrightBackground(t *testing.T) {
	attr := applySGRCode(0, 0, 106) // bright cyan background
	want := backgroundGreen | backgroundBlue | backgroundIntensity
	if attr&want != want {
		t.Fatalf("attr = %#x, want %#x set", attr, want)
	}
	if attr&backgroundRed != 0 {
		t.Fatalf("attr = %#x, want backgroundRed clear", attr)
	}
}

func TestApplyAnsiIndexMatchesDimPalette(t *testing.T) {
	cases := []struct {
		idx  uint8
		want uint16
	}{
		{0, 0},
		{1, foregroundRed},
		{2, foregroundGreen},
		{3, foregroundRed | foregroundGreen},
		{4, foregroundBlue},
		{5, foregroundRed | foregroundBlue},
		{6, foregroundGreen | foregroundBlue},
		{7, foregroundRed | foregroundGreen | foregroundBlue},
	}
	for _, c := range cases {
		got := applyAnsiIndex(0, c.idx, true)
		if got != c.want {
			t.Errorf("applyAnsiIndex(0, %d, true) = %#x, want %#x", c.idx, got, c.want)
		}
	}
}

func TestApplyAnsiIndexBrightSetsIntensity(t *testing.T) {
	got := applyAnsiIndex(0, 9, true) // bright red
	want := foregroundRed | foregroundIntensity
	if got != want {
		t.Fatalf("applyAnsiIndex(0, 9, true) = %#x, want %#x", got, want)
	}
}

func TestApplyExtendedColorIndexed256(t *testing.T) {
	tr := &Translator{}
	consumed := tr.applyExtendedColor(true, []string{"5", "196"}) // bright red in the 256 cube
	if consumed != 2 {
		t.Fatalf("consumed = %d, want 2", consumed)
	}
	if tr.attr&foregroundRed == 0 {
		t.Fatalf("attr = %#x, want foregroundRed set for palette index 196", tr.attr)
	}
}

func TestApplyExtendedColorTruecolor(t *testing.T) {
	tr := &Translator{}
	consumed := tr.applyExtendedColor(false, []string{"2", "0", "0", "255"}) // pure blue background
	if consumed != 4 {
		t.Fatalf("consumed = %d, want 4", consumed)
	}
	if tr.attr&backgroundBlue == 0 {
		t.Fatalf("attr = %#x, want backgroundBlue set", tr.attr)
	}
	if tr.attr&(backgroundRed|backgroundGreen) != 0 {
		t.Fatalf("attr = %#x, want red/green background bits clear", tr.attr)
	}
}

func TestApplySGRHandlesMultiParamExtendedColor(t *testing.T) {
	tr := &Translator{}
	tr.applySGR([]string{"1", "38", "2", "255", "0", "0", "4"})
	if tr.attr&foregroundIntensity == 0 {
		t.Errorf("attr = %#x, want bold (foregroundIntensity) preserved from param 1", tr.attr)
	}
	if tr.attr&foregroundRed == 0 {
		t.Errorf("attr = %#x, want foregroundRed from the truecolor sequence", tr.attr)
	}
	if tr.attr&commonLVBUnderscore == 0 {
		t.Errorf("attr = %#x, want underline (param 4) applied after the extended color", tr.attr)
	}
}
