//go:build !windows

package termattr

import "golang.org/x/sys/unix"

// FromTermios converts a raw kernel termios struct (as returned by
// TCGETS) into an Attributes value. The kernel's flag bit positions
// match this package's constants one-for-one on Linux/BSD, so the
// conversion is a direct field copy plus a Cc-index remap (the kernel
// orders its Cc array by VINTR/VQUIT/... position, which differs
// across platforms; unix.Termios already exposes it as a byte array
// of the same layout unix defines the V* indices against).
func FromTermios(t unix.Termios) Attributes {
	var a Attributes
	a.Iflag = uint32(t.Iflag)
	a.Oflag = uint32(t.Oflag)
	a.Cflag = uint32(t.Cflag)
	a.Lflag = uint32(t.Lflag)
	a.Ispeed = uint32(t.Ispeed)
	a.Ospeed = uint32(t.Ospeed)

	set := func(c ControlChar, idx int) {
		if idx >= 0 && idx < len(t.Cc) {
			a.Cc[c] = t.Cc[idx]
		}
	}
	set(VINTR, unix.VINTR)
	set(VQUIT, unix.VQUIT)
	set(VERASE, unix.VERASE)
	set(VKILL, unix.VKILL)
	set(VEOF, unix.VEOF)
	set(VEOL, unix.VEOL)
	set(VEOL2, unix.VEOL2)
	set(VSTART, unix.VSTART)
	set(VSTOP, unix.VSTOP)
	set(VSUSP, unix.VSUSP)
	set(VREPRINT, unix.VREPRINT)
	set(VWERASE, unix.VWERASE)
	set(VLNEXT, unix.VLNEXT)
	set(VDISCARD, unix.VDISCARD)
	set(VMIN, unix.VMIN)
	set(VTIME, unix.VTIME)
	return a
}

// ToTermios converts an Attributes value back into a raw kernel
// termios struct suitable for TCSETS, starting from base so fields
// this package doesn't model (e.g. any kernel-private bits already
// present in base.Cc beyond the named controls) are preserved.
func ToTermios(a Attributes, base unix.Termios) unix.Termios {
	t := base
	t.Iflag = uint32(a.Iflag)
	t.Oflag = uint32(a.Oflag)
	t.Cflag = uint32(a.Cflag)
	t.Lflag = uint32(a.Lflag)
	t.Ispeed = uint32(a.Ispeed)
	t.Ospeed = uint32(a.Ospeed)

	set := func(c ControlChar, idx int) {
		if idx >= 0 && idx < len(t.Cc) {
			t.Cc[idx] = a.Cc[c]
		}
	}
	set(VINTR, unix.VINTR)
	set(VQUIT, unix.VQUIT)
	set(VERASE, unix.VERASE)
	set(VKILL, unix.VKILL)
	set(VEOF, unix.VEOF)
	set(VEOL, unix.VEOL)
	set(VEOL2, unix.VEOL2)
	set(VSTART, unix.VSTART)
	set(VSTOP, unix.VSTOP)
	set(VSUSP, unix.VSUSP)
	set(VREPRINT, unix.VREPRINT)
	set(VWERASE, unix.VWERASE)
	set(VLNEXT, unix.VLNEXT)
	set(VDISCARD, unix.VDISCARD)
	set(VMIN, unix.VMIN)
	set(VTIME, unix.VTIME)
	return t
}
