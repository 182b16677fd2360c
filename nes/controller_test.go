package nes

import "testing"

func TestControllerShiftRegisterOrder(t *testing.T) {
	c := NewController()
	c.setButton(ButtonA, true)
	c.setButton(ButtonLeft, true)
	c.write(0) // strobe low: shift register advances on each read

	want := [8]byte{1, 0, 0, 0, 0, 0, 1, 0} // A, B, Select, Start, Up, Down, Left, Right
	for i, w := range want {
		if v := c.read(); v != w {
			t.Fatalf("read() #%d = %d, want %d", i, v, w)
		}
	}
}

func TestControllerStrobeHoldsButtonA(t *testing.T) {
	c := NewController()
	c.setButton(ButtonA, true)
	c.write(1) // strobe high: always returns button A, register never advances
	if v := c.read(); v != 1 {
		t.Fatalf("read() while strobed = %d, want 1", v)
	}
	if v := c.read(); v != 1 {
		t.Fatalf("second read() while strobed = %d, want 1", v)
	}
}

func TestControllerReadPastEighthBitReturnsZero(t *testing.T) {
	c := NewController()
	c.set([8]bool{true, true, true, true, true, true, true, true})
	for i := 0; i < 8; i++ {
		c.read()
	}
	if v := c.read(); v != 0 {
		t.Fatalf("read() #9 = %d, want 0", v)
	}
}
