package termattr

import "testing"

func TestFlagRoundTrip(t *testing.T) {
	var a Attributes
	a.SetLocal(ECHO, true).SetLocal(ICANON, true).SetInput(ICRNL, true)
	if !a.HasLocal(ECHO) || !a.HasLocal(ICANON) || !a.HasInput(ICRNL) {
		t.Fatalf("expected flags set")
	}
	a.SetLocal(ECHO, false)
	if a.HasLocal(ECHO) {
		t.Fatalf("expected ECHO cleared")
	}
	if a.HasLocal(IEXTEN) {
		t.Fatalf("expected IEXTEN unset by default")
	}
}

func TestControlCharTable(t *testing.T) {
	var a Attributes
	a.SetControlChar(VINTR, 0x03)
	a.SetControlChar(VMIN, 1)
	if a.ControlChar(VINTR) != 0x03 || a.ControlChar(VMIN) != 1 {
		t.Fatalf("control char round trip failed")
	}
}

func TestRawModeClearsCanonicalBits(t *testing.T) {
	var cooked Attributes
	cooked.SetLocal(ICANON, true).SetLocal(ECHO, true).SetLocal(ISIG, true).SetInput(ICRNL, true).SetOutput(OPOST, true)
	raw := cooked.Raw()
	if raw.HasLocal(ICANON) || raw.HasLocal(ECHO) || raw.HasLocal(ISIG) {
		t.Fatalf("Raw() left canonical bits set: %+v", raw)
	}
	if raw.HasInput(ICRNL) {
		t.Fatalf("Raw() left ICRNL set")
	}
	if raw.HasOutput(OPOST) {
		t.Fatalf("Raw() left OPOST set")
	}
	if raw.ControlChar(VMIN) != 1 || raw.ControlChar(VTIME) != 0 {
		t.Fatalf("Raw() VMIN/VTIME = %d/%d, want 1/0", raw.ControlChar(VMIN), raw.ControlChar(VTIME))
	}
	if cooked.HasLocal(ICANON) == false {
		t.Fatalf("Raw() must not mutate the receiver")
	}
}

func TestCSize(t *testing.T) {
	var a Attributes
	a.SetControl(CS8, true)
	if a.CSize() != CS8 {
		t.Fatalf("CSize() = %v, want CS8", a.CSize())
	}
}
