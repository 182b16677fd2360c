package nes

// status holds the 6502 processor flags. The break and "unused" bits are
// not stored as register state: on real hardware they only exist in the
// byte written to the stack, synthesized at push time by encode. See
// CPU.php, CPU.brk, CPU.dispatchInterrupt, CPU.plp and CPU.rti.
type status struct {
	C bool // carry
	Z bool // zero
	I bool // IRQ disable
	D bool // decimal mode, no arithmetic effect on the 2A03
	V bool // overflow
	N bool // negative
}

// encode packs the flags into a status byte the way it would appear on the
// stack. brk selects bit 4: true for PHP/BRK, false for a hardware NMI/IRQ
// push. Bit 5 (unused) always reads 1.
func (s *status) encode(brk bool) byte {
	var b byte
	if s.C {
		b |= 1 << 0
	}
	if s.Z {
		b |= 1 << 1
	}
	if s.I {
		b |= 1 << 2
	}
	if s.D {
		b |= 1 << 3
	}
	if brk {
		b |= 1 << 4
	}
	b |= 1 << 5
	if s.V {
		b |= 1 << 6
	}
	if s.N {
		b |= 1 << 7
	}
	return b
}

// decodeFrom loads the flags from a status byte, ignoring bits 4 and 5:
// PLP and RTI never restore the break or unused bits into the register.
func (s *status) decodeFrom(data byte) {
	s.C = data&(1<<0) != 0
	s.Z = data&(1<<1) != 0
	s.I = data&(1<<2) != 0
	s.D = data&(1<<3) != 0
	s.V = data&(1<<6) != 0
	s.N = data&(1<<7) != 0
}
