package term

import "testing"

func TestSignalString(t *testing.T) {
	cases := map[Signal]string{
		SigINT:   "INT",
		SigQUIT:  "QUIT",
		SigTSTP:  "TSTP",
		SigCONT:  "CONT",
		SigWINCH: "WINCH",
		SigINFO:  "INFO",
		Signal(99): "UNKNOWN",
	}
	for sig, want := range cases {
		if got := sig.String(); got != want {
			t.Errorf("Signal(%d).String() = %q, want %q", sig, got, want)
		}
	}
}

func TestSignalRegistrySetReturnsPrevious(t *testing.T) {
	r := newSignalRegistry()
	if prev := r.set(SigINT, func(Signal) {}); prev != nil {
		t.Fatalf("first set returned non-nil previous handler")
	}

	var calledFirst bool
	first := func(Signal) { calledFirst = true }
	r.set(SigINT, first)

	var calledSecond bool
	second := func(Signal) { calledSecond = true }
	prev := r.set(SigINT, second)
	if prev == nil {
		t.Fatal("expected previous handler back")
	}
	prev(SigINT)
	if !calledFirst {
		t.Error("previous handler should have been the first one installed")
	}

	r.dispatch(SigINT)
	if !calledSecond {
		t.Error("dispatch should invoke the currently installed handler")
	}
}

func TestSignalRegistryDispatchWithNoHandlerIsNoop(t *testing.T) {
	r := newSignalRegistry()
	r.dispatch(SigWINCH) // must not panic
}

func TestSignalRegistryUnwindClearsAll(t *testing.T) {
	r := newSignalRegistry()
	var order []Signal
	r.set(SigINT, func(Signal) { order = append(order, SigINT) })
	r.set(SigWINCH, func(Signal) { order = append(order, SigWINCH) })

	r.unwind()

	r.dispatch(SigINT)
	r.dispatch(SigWINCH)
	if len(order) != 0 {
		t.Errorf("expected no handlers to fire after unwind, got %v", order)
	}
	if len(r.order) != 0 {
		t.Errorf("expected order slice cleared, got %v", r.order)
	}
}

func TestSignalRegistrySetNilRemovesHandler(t *testing.T) {
	r := newSignalRegistry()
	called := false
	r.set(SigTSTP, func(Signal) { called = true })
	r.set(SigTSTP, nil)
	r.dispatch(SigTSTP)
	if called {
		t.Error("handler should have been removed")
	}
}
