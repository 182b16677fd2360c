package nes

import "testing"

func TestStatusEncodeDecodeRoundTrip(t *testing.T) {
	s := &status{C: true, Z: false, I: true, D: false, V: true, N: false}
	encoded := s.encode(false)

	var got status
	got.decodeFrom(encoded)
	if got != *s {
		t.Fatalf("decodeFrom(encode(false)) = %+v, want %+v", got, *s)
	}
}

func TestStatusEncodeBreakBit(t *testing.T) {
	s := &status{}
	if s.encode(false)&(1<<4) != 0 {
		t.Fatalf("encode(false) has break bit set, want clear")
	}
	if s.encode(true)&(1<<4) == 0 {
		t.Fatalf("encode(true) has break bit clear, want set")
	}
}

func TestStatusEncodeUnusedBitAlwaysSet(t *testing.T) {
	s := &status{}
	if s.encode(false)&(1<<5) == 0 {
		t.Fatalf("encode always clears the unused bit, want it set")
	}
}

func TestStatusDecodeIgnoresBreakAndUnusedBits(t *testing.T) {
	var s status
	s.decodeFrom(0xFF)
	want := status{C: true, Z: true, I: true, D: true, V: true, N: true}
	if s != want {
		t.Fatalf("decodeFrom(0xff) = %+v, want %+v", s, want)
	}
}
